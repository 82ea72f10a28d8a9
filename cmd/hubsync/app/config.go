package app

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/colhub/hubsync/pkg/constants"
	"github.com/colhub/hubsync/pkg/errors"
)

// EnvPrefix prefixes every environment variable read by the configuration.
const EnvPrefix = "HUBSYNC"

// Configuration keys shared by flags, environment and config file.
const (
	KeyConfig      = "config"
	KeyParams      = "params"
	KeyWorkers     = "workers"
	KeyReference   = "reference"
	KeyCandidate   = "candidate"
	KeyMetricsFile = "metrics_file"
	KeyFailOnError = "fail_on_error"
	KeyFormat      = "format"
	KeyVerbose     = "verbose"
	KeyQuiet       = "quiet"
	KeyLogLevel    = "log_level"
	KeyLogFormat   = "log_format"
	KeyLogOutput   = "log_output"
)

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	Format  string

	// Config file actually read, if any
	ConfigFile string

	// Run configuration
	ParamsFile  string
	Workers     int
	Reference   string
	Candidate   string
	MetricsFile string
	FailOnError bool

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (bound in createRootCommand)
// 2. HUBSYNC_* environment variables
// 3. .env files
// 4. Config file (--config, or ~/.hubsync.yaml)
// 5. Defaults
//
// Settings left unset fall through to the parameters document.
func LoadConfig() (*Config, error) {
	v, err := newViper()
	if err != nil {
		return nil, err
	}
	return configFrom(v), nil
}

// newViper loads .env files and returns a viper instance with env binding,
// defaults and the config file applied.
func newViper() (*viper.Viper, error) {
	// .env files must be loaded before viper reads the environment
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyParams, constants.DefaultParamsFile)
	v.SetDefault(KeyLogFormat, "auto")
	v.SetDefault(KeyLogOutput, "stderr")

	if err := readConfigFile(v, v.GetString(KeyConfig)); err != nil {
		return nil, err
	}
	return v, nil
}

// readConfigFile reads path, or searches the home and working directories
// for .hubsync.yaml when path is empty. Only an explicit path must exist.
func readConfigFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return errors.NewConfigError("config", "cannot read "+path, err)
		}
		return nil
	}

	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}
	v.AddConfigPath(".")
	v.SetConfigType("yaml")
	v.SetConfigName(".hubsync")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return errors.NewConfigError("config", "cannot read config file", err)
	}
	return nil
}

// configFrom builds a Config snapshot from v.
func configFrom(v *viper.Viper) *Config {
	return &Config{
		Verbose: v.GetBool(KeyVerbose),
		Quiet:   v.GetBool(KeyQuiet),
		Format:  v.GetString(KeyFormat),

		ConfigFile: v.ConfigFileUsed(),

		ParamsFile:  v.GetString(KeyParams),
		Workers:     v.GetInt(KeyWorkers),
		Reference:   v.GetString(KeyReference),
		Candidate:   v.GetString(KeyCandidate),
		MetricsFile: v.GetString(KeyMetricsFile),
		FailOnError: v.GetBool(KeyFailOnError),

		LogLevel:  v.GetString(KeyLogLevel),
		LogFormat: v.GetString(KeyLogFormat),
		LogOutput: v.GetString(KeyLogOutput),
	}
}

// Validate rejects settings no command could run with.
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return errors.NewValidationError("workers", c.Workers, "must not be negative")
	}
	if c.ParamsFile == "" {
		return errors.NewValidationError("params", c.ParamsFile, "cannot be empty")
	}
	return nil
}

// loadEnvFiles loads environment variables from .env files.
func loadEnvFiles() {
	// .env.local overrides .env
	envFiles := []string{
		".env.local",
		".env",
	}

	// godotenv.Load never overrides variables already set, so the
	// higher-precedence file goes first.
	for _, envFile := range envFiles {
		_ = godotenv.Load(envFile)
	}
}
