package config

import (
	"io"
	"log/slog"
)

// NewLogger returns a JSON logger in prod and a text logger in dev.
func NewLogger(mode string, w io.Writer) *slog.Logger {
	if mode == ModeProd {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
