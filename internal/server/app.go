// Package server assembles the library server: storage, services, the HTTP
// site and the gRPC API, and runs them until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/mylibrary/internal/cryptox"
	"github.com/dmitrijs2005/mylibrary/internal/logging"
	"github.com/dmitrijs2005/mylibrary/internal/server/auth"
	"github.com/dmitrijs2005/mylibrary/internal/server/config"
	"github.com/dmitrijs2005/mylibrary/internal/server/httpapi"
	"github.com/dmitrijs2005/mylibrary/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/mylibrary/internal/server/services"
	"github.com/dmitrijs2005/mylibrary/internal/server/telemetry"

	gs "github.com/dmitrijs2005/mylibrary/internal/server/grpc"
)

const serviceName = "mylibrary"

type runner interface {
	Run(ctx context.Context) error
}

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	servers map[string]runner
}

// openDB is a seam for tests.
var openDB = repomanager.OpenDB

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	db, err := openDB(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	servers, err := buildServers(c, logger, db, rm)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &App{config: c, logger: logger, db: db, servers: servers}, nil
}

func buildServers(c *config.Config, logger logging.Logger, db *sql.DB, rm repomanager.RepositoryManager) (map[string]runner, error) {
	secret := c.SessionSecret
	if secret == "" {
		// sessions will not survive a restart
		generated, err := cryptox.RandomHex(32)
		if err != nil {
			return nil, fmt.Errorf("session secret error: %w", err)
		}
		secret = generated
		logger.Warn(context.Background(), "no session secret configured, using a random one")
	}

	issuer, err := auth.NewSessionIssuer([]byte(secret), c.SessionTTL)
	if err != nil {
		return nil, fmt.Errorf("session issuer error: %w", err)
	}
	verifier := auth.NewVerifier(services.NewCredentialStore(db, rm), logger, auth.WithBootstrapAdmin(c.BootstrapAdmin))

	as := services.NewAuthService(verifier, issuer, logger)
	ws := services.NewWriterService(db, rm, logger)
	bs := services.NewBookService(db, rm, logger)
	at := services.NewAttachmentService(c, logger)

	h := httpapi.NewHandler(as, ws, bs, at, httpapi.CookieOptions{Name: c.CookieName, Secure: c.CookieSecure}, logger)

	return map[string]runner{
		"http": httpapi.NewServer(c.HTTPAddr, h, logger),
		"grpc": gs.NewGRPCServer(c.GRPCAddr, logger, as, ws, bs, at),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run starts every server and blocks until they have all stopped. A server
// that fails stops the others.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	shutdownTracing := telemetry.Setup(ctx, serviceName, app.config.OTLPEndpoint, app.logger)

	var wg sync.WaitGroup

	for name, s := range app.servers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.Run(ctx); err != nil {
				app.logger.Error(ctx, "server failed", "server", name, "error", err)
				cancelFunc()
			}
		}()
	}

	wg.Wait()

	flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownTracing(flushCtx); err != nil {
		app.logger.Warn(flushCtx, "tracing shutdown error", "error", err)
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error(flushCtx, "db close error", "error", err)
		}
	}

	app.logger.Info(flushCtx, "Stopped")
}
