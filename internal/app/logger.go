package app

import (
	"io"
	"log/slog"
)

// newLogger builds the app's isolated logger from its validated config. It
// never touches the global slog default, so embedding programs keep their
// own logging setup.
func newLogger(config *Config, outW io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: config.Level()}
	if config.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(outW, opts))
	}
	return slog.New(slog.NewTextHandler(outW, opts))
}
