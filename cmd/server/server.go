package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/aifirstlegal/masterclass-server/internal/config"
	"github.com/aifirstlegal/masterclass-server/internal/infrastructure/crontab"
	"github.com/aifirstlegal/masterclass-server/internal/infrastructure/logger"
	"github.com/aifirstlegal/masterclass-server/internal/infrastructure/observability"
	"github.com/aifirstlegal/masterclass-server/internal/interfaces/httpserver"
	"github.com/aifirstlegal/masterclass-server/internal/worker"
)

// @title Masterclass Server API
// @version 1.0
// @description Chat widget, intake, knowledge base and masterclass registration backend
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
type Application struct {
	httpServer *httpserver.HTTPServer
	pool       *worker.Pool
	crontab    *crontab.Crontab
	cfg        *config.Config
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HTTPServer, pool *worker.Pool, cron *crontab.Crontab, cfg *config.Config, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		pool:       pool,
		crontab:    cron,
		cfg:        cfg,
		log:        log,
	}
}

// Start runs the worker pool, the maintenance schedule and the HTTP server until ctx is done.
// Queued side effects are drained after the HTTP server stops.
func (a *Application) Start(ctx context.Context) error {
	a.pool.Start(ctx)
	defer a.pool.Stop(a.cfg.ShutdownTimeout)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.crontab.Run(gctx)
	})
	g.Go(func() error {
		return a.httpServer.Run(gctx)
	})
	return g.Wait()
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	app, cleanup, err := buildApplication(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("build application")
	}
	defer cleanup()

	if err := app.Start(ctx); err != nil {
		log.Error().Err(err).Msg("application stopped with error")
		return
	}

	log.Info().Msg("application exited cleanly")
}

// loadEnvFiles reads local .env files for development. Variables already set in the
// environment win.
func loadEnvFiles() {
	for _, path := range []string{".env", "../.env"} {
		err := godotenv.Load(path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "skipping %s: %v\n", path, err)
		}
	}
}
