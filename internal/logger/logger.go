// Package logger wires slog to either a plain text/JSON handler for local
// work or a sampled zap core for production, and installs the result as the
// process default.
package logger

import (
	"log/slog"
	"os"
)

type Backend string

const (
	BackendStd Backend = "std" // text in dev, JSON otherwise
	BackendZap Backend = "zap"
)

type Config struct {
	Service   string
	Version   string
	Env       string // dev|prod
	Backend   Backend
	Debug     bool
	AddSource bool
}

// Init builds the configured handler, stamps it with the service identity
// and sets it as the slog default.
func Init(cfg Config) *slog.Logger {
	if cfg.Service == "" {
		cfg.Service = "inkwell"
	}
	if cfg.Env == "" {
		cfg.Env = "dev"
	}
	if cfg.Backend == "" {
		if cfg.Env == "dev" {
			cfg.Backend = BackendStd
		} else {
			cfg.Backend = BackendZap
		}
	}

	var h slog.Handler
	switch cfg.Backend {
	case BackendZap:
		h = newZapHandler(cfg)
	default:
		h = newStdHandler(cfg)
	}

	h = h.WithAttrs([]slog.Attr{
		slog.String("service", cfg.Service),
		slog.String("env", cfg.Env),
		slog.String("version", cfg.Version),
	})

	log := slog.New(h)
	slog.SetDefault(log)
	return log
}

func level(cfg Config) slog.Level {
	if cfg.Debug {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

func newStdHandler(cfg Config) slog.Handler {
	opts := &slog.HandlerOptions{
		Level:     level(cfg),
		AddSource: cfg.AddSource,
	}
	if cfg.Env == "dev" {
		return slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.NewJSONHandler(os.Stdout, opts)
}
