package app

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_RequiresManifestPath(t *testing.T) {
	t.Parallel()

	_, err := NewConfig(Config{})
	require.Error(t, err)

	config, err := NewConfig(Config{ManifestPath: "/manifests"})
	require.NoError(t, err)
	assert.Equal(t, "/manifests", config.ManifestPath)
}

func TestConfig_Level(t *testing.T) {
	t.Parallel()

	cases := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"trace", slog.LevelInfo},
	}

	for _, tc := range cases {
		config := &Config{LogLevel: tc.level}
		assert.Equal(t, tc.want, config.Level(), "level %q", tc.level)
	}
}
