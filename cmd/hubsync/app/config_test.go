package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colhub/hubsync/pkg/constants"
	"github.com/colhub/hubsync/pkg/errors"
)

// isolate points HOME and the working directory at an empty temp dir so no
// real .env or .hubsync.yaml leaks into a test.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Chdir(dir)
	return dir
}

func TestLoadConfig_Defaults(t *testing.T) {
	isolate(t)

	config, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, constants.DefaultParamsFile, config.ParamsFile)
	assert.Equal(t, 0, config.Workers)
	assert.Equal(t, "auto", config.LogFormat)
	assert.Equal(t, "stderr", config.LogOutput)
	assert.Empty(t, config.LogLevel)
	assert.Empty(t, config.ConfigFile)
	assert.False(t, config.FailOnError)
}

func TestLoadConfig_Sources(t *testing.T) {
	tests := []struct {
		name   string
		env    map[string]string
		home   string
		dotenv string
		want   func(t *testing.T, c *Config)
	}{
		{
			name: "environment",
			env:  map[string]string{"HUBSYNC_WORKERS": "7", "HUBSYNC_METRICS_FILE": "/tmp/m.prom"},
			want: func(t *testing.T, c *Config) {
				assert.Equal(t, 7, c.Workers)
				assert.Equal(t, "/tmp/m.prom", c.MetricsFile)
			},
		},
		{
			name: "home config file",
			home: "params: /etc/hubsync/params.yaml\nfail_on_error: true\nreference: a.txt\n",
			want: func(t *testing.T, c *Config) {
				assert.Equal(t, "/etc/hubsync/params.yaml", c.ParamsFile)
				assert.True(t, c.FailOnError)
				assert.Equal(t, "a.txt", c.Reference)
				assert.NotEmpty(t, c.ConfigFile)
			},
		},
		{
			name: "environment beats config file",
			env:  map[string]string{"HUBSYNC_PARAMS": "env.yaml"},
			home: "params: file.yaml\n",
			want: func(t *testing.T, c *Config) {
				assert.Equal(t, "env.yaml", c.ParamsFile)
			},
		},
		{
			name:   "dotenv file",
			dotenv: "HUBSYNC_CANDIDATE=b.txt\n",
			want: func(t *testing.T, c *Config) {
				assert.Equal(t, "b.txt", c.Candidate)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if tt.home != "" {
				require.NoError(t, os.WriteFile(filepath.Join(dir, ".hubsync.yaml"), []byte(tt.home), 0o644))
			}
			if tt.dotenv != "" {
				require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(tt.dotenv), 0o644))
				// godotenv writes into the process environment
				t.Cleanup(func() { _ = os.Unsetenv("HUBSYNC_CANDIDATE") })
			}

			config, err := LoadConfig()
			require.NoError(t, err)
			tt.want(t, config)
		})
	}
}

func TestLoadConfig_ExplicitFileMustExist(t *testing.T) {
	dir := isolate(t)
	t.Setenv("HUBSYNC_CONFIG", filepath.Join(dir, "missing.yaml"))

	_, err := LoadConfig()
	require.Error(t, err)
	assert.True(t, errors.IsConfig(err))
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{name: "valid", config: Config{ParamsFile: "p.yaml", Workers: 2}},
		{name: "negative workers", config: Config{ParamsFile: "p.yaml", Workers: -1}, wantErr: true},
		{name: "no params file", config: Config{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.True(t, errors.IsValidationError(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}
