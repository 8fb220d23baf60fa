// Package logging builds the process-wide slog logger from configuration.
package logging

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/p-n-ai/deepblue/internal/platform/config"
)

// New creates a logger writing to w in the configured format and level.
func New(w io.Writer, cfg config.LogConfig) (*slog.Logger, error) {
	level, err := config.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level, AddSource: cfg.AddSource}

	var h slog.Handler
	switch cfg.Format {
	case "", "json":
		h = slog.NewJSONHandler(w, opts)
	case "text":
		h = slog.NewTextHandler(w, opts)
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}
	return slog.New(h).With("service", "deepblue"), nil
}

// Setup installs the configured logger as the slog default.
func Setup(w io.Writer, cfg config.LogConfig) error {
	logger, err := New(w, cfg)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	return nil
}
