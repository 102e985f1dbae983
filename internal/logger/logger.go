// Package logger builds the service's *slog.Logger.
package logger

import (
	"io"
	"log/slog"
)

// New returns a logger for env writing to w:
//
//	dev:     text, DEBUG and above
//	staging: JSON, DEBUG and above
//	prod:    JSON, INFO and above
func New(env string, w io.Writer) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
	case "staging":
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	default:
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}
