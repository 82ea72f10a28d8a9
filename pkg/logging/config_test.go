package logging_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colhub/hubsync/pkg/logging"
)

func TestDefaultConfig(t *testing.T) {
	cfg := logging.DefaultConfig()
	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "auto", cfg.Format)
	assert.Equal(t, "stderr", cfg.Output)
	assert.False(t, cfg.AddCaller)
}

func TestNewLoggerFromConfig_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hubsync.log")

	logger := logging.NewLoggerFromConfig(&logging.Config{
		Level:  "debug",
		Format: "auto",
		Output: path,
		Fields: map[string]any{"service": "hubsync", "workers": 4},
	})
	logger.Info().Msg("harvest started")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	output := string(content)

	// A file is never a terminal, so auto resolves to JSON.
	assert.Contains(t, output, `"message":"harvest started"`)
	assert.Contains(t, output, `"service":"hubsync"`)
	assert.Contains(t, output, `"workers":4`)
	assert.Contains(t, output, `"caller"`)
}

func TestNewLoggerFromConfig_Levels(t *testing.T) {
	tests := []struct {
		level    string
		wantInfo bool
	}{
		{"trace", true},
		{"info", true},
		{"warning", true},
		{"error", false},
		{"off", false},
		{"bogus", true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out.log")
			logger := logging.NewLoggerFromConfig(&logging.Config{Level: tt.level, Format: "json", Output: path})
			logger.Info().Msg("info line")

			content, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tt.wantInfo, len(content) > 0)
		})
	}
}

func TestConfigure(t *testing.T) {
	original := *logging.Default()
	t.Cleanup(func() { logging.SetDefault(original) })

	path := filepath.Join(t.TempDir(), "global.log")
	logging.Configure(&logging.Config{Level: "info", Format: "json", Output: path})
	logging.Default().Info().Msg("through default")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "through default")
}
