// Package app is the startup sequence shared by both services:
//
//  1. Load configuration (YAML + env, optional .env)
//  2. Initialise the logger
//  3. Open the storage backend and prepare the service's tables
//  4. Register routes and wrap them in middleware
//  5. Serve until SIGINT / SIGTERM, then shut down gracefully
//  6. Close storage
package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aanand-mishra/records-api/internal/config"
	"github.com/aanand-mishra/records-api/internal/http/middleware"
	"github.com/aanand-mishra/records-api/internal/http/server"
	"github.com/aanand-mishra/records-api/internal/logger"
	"github.com/aanand-mishra/records-api/internal/storage/backend"
)

// Version is reported in the startup log line.
const Version = "1.0.0"

// RouterFunc prepares a service's tables on the backend and returns its routes.
type RouterFunc func(ctx context.Context, b *backend.Backend) (*http.ServeMux, error)

// Run boots the service called name and blocks until it has stopped.
// It exits the process with status 1 on any startup or serve failure.
func Run(name string, routes RouterFunc) {
	cfg := config.MustLoad()

	log := logger.New(cfg.Env, os.Stdout)
	slog.SetDefault(log)

	log.Info("starting "+name,
		slog.String("env", cfg.Env),
		slog.String("version", Version),
		slog.String("storage_driver", cfg.StorageDriver),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log, routes); err != nil {
		log.Error(name+" failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger, routes RouterFunc) error {
	store, err := backend.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("failed to close storage", slog.String("error", err.Error()))
		}
	}()

	log.Info("storage initialised", slog.String("path", cfg.StoragePath))

	router, err := routes(ctx, store)
	if err != nil {
		return err
	}

	handler := middleware.Chain(router,
		middleware.RequestID,
		middleware.Logger(log),
		middleware.Recover(log),
	)

	return server.ListenAndRun(ctx, cfg.HTTPServer, handler, log)
}
