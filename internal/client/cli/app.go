package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/mylibrary/internal/api"
	"github.com/dmitrijs2005/mylibrary/internal/client/client"
	"github.com/dmitrijs2005/mylibrary/internal/client/config"
)

type App struct {
	config *config.Config
	client client.Client
	reader *bufio.Reader
	out    io.Writer
	user   *api.User
}

func NewApp(c *config.Config) (*App, error) {
	apiClient, err := client.NewLibraryClient(c.ServerEndpointAddr)
	if err != nil {
		return nil, err
	}
	return newApp(c, apiClient, os.Stdin, os.Stdout), nil
}

func newApp(c *config.Config, cl client.Client, in io.Reader, out io.Writer) *App {
	return &App{config: c, client: cl, reader: bufio.NewReader(in), out: out}
}

func (a *App) isLoggedIn() bool {
	return a.user != nil
}

func (a *App) status() string {
	if a.user == nil {
		return "guest"
	}
	return a.user.ID + "/" + a.user.Role
}

func (a *App) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// Run blocks until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	defer a.client.Close()

	a.printf("MyLibrary CLI (type 'help' for commands)\n")

	pingCtx, cancel := a.withTimeout(ctx)
	if err := a.client.Ping(pingCtx); err != nil {
		a.printf("warning: server %s: %v\n", a.config.ServerEndpointAddr, err)
	}
	cancel()

	runREPL(ctx, a, a.status, a.reader, a.out)
}
