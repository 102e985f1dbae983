// Package server runs an http.Server until its context is cancelled and
// then shuts it down gracefully.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/aanand-mishra/records-api/internal/config"
)

// New builds an http.Server for handler with the configured timeouts.
func New(cfg config.HTTPServer, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}

// Run serves on ln until ctx is done, then stops accepting connections and
// waits up to cfg.ShutdownTimeout for in-flight requests to finish.
func Run(ctx context.Context, cfg config.HTTPServer, srv *http.Server, ln net.Listener, log *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info("server started", slog.String("address", ln.Addr().String()))
		// Serve returns http.ErrServerClosed once Shutdown is called.
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}

	log.Info("server stopped gracefully")
	return nil
}

// ListenAndRun listens on cfg.Addr and calls Run.
func ListenAndRun(ctx context.Context, cfg config.HTTPServer, handler http.Handler, log *slog.Logger) error {
	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("server: listen %s: %w", cfg.Addr, err)
	}
	return Run(ctx, cfg, New(cfg, handler), ln, log)
}
