package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Server struct {
	Addr string `yaml:"addr"`
}

type Logging struct {
	Env       string `yaml:"env"`     // dev|prod
	Service   string `yaml:"service"` // inkwell
	Version   string `yaml:"version"`
	Backend   string `yaml:"backend"` // std|zap
	AddSource bool   `yaml:"addSource"`
	Debug     bool   `yaml:"debug"`
}

type Archive struct {
	Enabled   bool   `yaml:"enabled"`
	Path      string `yaml:"path"`
	Retention string `yaml:"retention"` // Go duration, e.g. "720h"
}

// Per-connection inbound message rate limiting; rate <= 0 disables it
type Limits struct {
	MessagesPerSecond float64 `yaml:"messagesPerSecond"`
	Burst             int     `yaml:"burst"`
}

type Config struct {
	Server  Server  `yaml:"server"`
	Logging Logging `yaml:"logging"`
	Archive Archive `yaml:"archive"`
	Limits  Limits  `yaml:"limits"`
}

// Load reads CONFIG_PATH (default ./config.yaml). A missing file is not an
// error: defaults plus env overrides are enough to run.
func Load() (*Config, error) {
	cfg := defaults()

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "./config.yaml"
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// fall through to defaults
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: Server{Addr: ":8080"},
		Logging: Logging{
			Env:     "dev",
			Service: "inkwell",
			Version: "v0.1.0",
			Backend: "std",
		},
		Archive: Archive{
			Path:      "./data/inkwell.db",
			Retention: "720h",
		},
		Limits: Limits{
			MessagesPerSecond: 100,
			Burst:             200,
		},
	}
}

func (c *Config) applyEnv() {
	if port := os.Getenv("PORT"); port != "" {
		c.Server.Addr = ":" + port
	}
	if path := os.Getenv("INKWELL_ARCHIVE_PATH"); path != "" {
		c.Archive.Path = path
		c.Archive.Enabled = true
	}
}

func (c *Config) validate() error {
	if c.Server.Addr == "" {
		return errors.New("server.addr is required")
	}
	if c.Archive.Enabled && c.Archive.Path == "" {
		return errors.New("archive.path is required when the archive is enabled")
	}
	if c.Archive.Retention != "" {
		if _, err := time.ParseDuration(c.Archive.Retention); err != nil {
			return fmt.Errorf("archive.retention: %w", err)
		}
	}
	return nil
}

// The configured retention window, falling back to the default on blank
func (c *Config) ArchiveRetention() time.Duration {
	d, err := time.ParseDuration(c.Archive.Retention)
	if err != nil || d <= 0 {
		return 30 * 24 * time.Hour
	}
	return d
}
