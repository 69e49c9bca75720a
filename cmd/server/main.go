package main

import (
	"context"
	"os"

	"github.com/dmitrijs2005/mylibrary/internal/logging"
	"github.com/dmitrijs2005/mylibrary/internal/server"
	"github.com/dmitrijs2005/mylibrary/internal/server/config"
)

func main() {

	ctx := context.Background()
	logger := logging.NewJSONLogger(os.Stdout, "mylibrary")

	cfg := config.LoadConfig()
	app, err := server.NewApp(ctx, cfg, logger)

	if err != nil {
		logger.Error(ctx, "startup failed", "error", err)
		os.Exit(1)
	}

	app.Run(ctx)

}
