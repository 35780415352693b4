package app

import (
	"errors"
	"log/slog"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ManifestPath string // manifest file or directory

	Describe  bool // print each service's effective parameter table
	LogFormat string
	LogLevel  string
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.ManifestPath == "" {
		return nil, errors.New("ManifestPath is a required configuration field and cannot be empty")
	}

	return &cfg, nil
}

// Level maps the configured log level string to its slog value. Unknown
// strings fall back to Info; the cli package rejects them before a Config
// is built, so the fallback only matters for hand-built configs.
func (c *Config) Level() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
