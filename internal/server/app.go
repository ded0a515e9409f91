// Package server initializes and runs the auth server: it loads config,
// opens the database, runs migrations, starts the token-store sweeper and
// the HTTP server, and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/tickpulse/tickpulse/internal/logging"
	"github.com/tickpulse/tickpulse/internal/server/config"
	"github.com/tickpulse/tickpulse/internal/server/httpapi"
	"github.com/tickpulse/tickpulse/internal/server/repositories/repomanager"
	"github.com/tickpulse/tickpulse/internal/server/services"
	"github.com/tickpulse/tickpulse/internal/server/tokenstore"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	tokens  *tokenstore.MemoryStore
	sweeper *tokenstore.Sweeper
	auth    *services.AuthService
	http    *httpapi.HTTPServer
}

func NewApp(cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	tokens := tokenstore.NewMemoryStore()
	sweeper, err := tokenstore.NewSweeper(tokens, cfg.SweepInterval, logger)
	if err != nil {
		return nil, fmt.Errorf("sweeper init error: %w", err)
	}

	auth := services.NewAuthService(db, m, tokens, cfg)
	httpServer := httpapi.NewHTTPServer(cfg.EndpointAddrHTTP, logger, auth, db)

	return &App{
		config:  cfg,
		logger:  logger,
		db:      db,
		tokens:  tokens,
		sweeper: sweeper,
		auth:    auth,
		http:    httpServer,
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

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	app.sweeper.Start()
	defer app.sweeper.Stop()

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.http.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err.Error())
	}

	app.logger.Info(ctx, "App stopped")
}
