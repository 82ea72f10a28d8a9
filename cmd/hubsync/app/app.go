// Package app provides the application context and dependency management
// for the hubsync CLI. It centralizes configuration, logging, metrics and
// the lazily loaded parameters document.
package app

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	hctx "github.com/colhub/hubsync/cmd/hubsync/context"
	"github.com/colhub/hubsync/internal/footprint"
	"github.com/colhub/hubsync/internal/metrics"
	"github.com/colhub/hubsync/internal/opensearch"
	"github.com/colhub/hubsync/internal/transport"
	"github.com/colhub/hubsync/pkg/constants"
	"github.com/colhub/hubsync/pkg/errors"
	"github.com/colhub/hubsync/pkg/harvest"
	"github.com/colhub/hubsync/pkg/params"
)

// App represents the hubsync application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	// Configuration
	viper  *viper.Viper
	config *Config

	// Set by WithConfig and WithLogger so flag parsing keeps them
	pinnedConfig bool
	pinnedLogger bool

	logger     *zerolog.Logger
	metrics    *metrics.Recorder
	footprints harvest.FootprintSource

	// Parameters document (lazy-initialized, singleton)
	mu        sync.Mutex
	doc       *params.Document
	searchers map[string]harvest.Searcher
}

var _ hctx.Context = (*App)(nil)

// New creates a new App instance with the given version information.
// The app is initialized with configuration from the environment and config
// file; flags are applied when a command runs.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version:    version,
		commit:     commit,
		date:       date,
		builtBy:    builtBy,
		metrics:    metrics.New(),
		footprints: footprint.NewConverter(),
	}

	v, err := newViper()
	if err != nil {
		return nil, err
	}
	app.viper = v
	app.config = configFrom(v)

	logger := NewLogger(app.config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	app.metrics.SetBuildInfo(version)
	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Metrics returns the run's metrics recorder.
func (a *App) Metrics() *metrics.Recorder {
	return a.metrics
}

// Footprints returns the shared footprint converter.
func (a *App) Footprints() harvest.FootprintSource {
	return a.footprints
}

// NewRunID returns a fresh random run identifier.
func (a *App) NewRunID() string {
	return uuid.NewString()
}

// Settings returns the command-line overrides of the parameters document.
func (a *App) Settings() hctx.Settings {
	return hctx.Settings{
		Workers:     a.config.Workers,
		Reference:   a.config.Reference,
		Candidate:   a.config.Candidate,
		FailOnError: a.config.FailOnError,
	}
}

// Params returns the parameters document, loading it on first use.
func (a *App) Params() (*params.Document, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.doc != nil {
		return a.doc, nil
	}
	doc, err := params.Load(a.config.ParamsFile)
	if err != nil {
		return nil, err
	}
	a.logger.Debug().
		Str("path", a.config.ParamsFile).
		Strs("endpoints", doc.EndpointNames()).
		Strs("platforms", doc.PlatformNames()).
		Msg("Loaded parameters")
	a.doc = doc
	return doc, nil
}

// Searchers returns one OpenSearch client per endpoint of doc.
func (a *App) Searchers(doc *params.Document) map[string]harvest.Searcher {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.searchers != nil {
		return a.searchers
	}

	timeout := doc.Timeout()
	if timeout == 0 {
		timeout = constants.HarvestQueryTimeout
	}

	clients := make(map[string]harvest.Searcher, len(doc.Endpoints))
	for _, name := range doc.EndpointNames() {
		ep := doc.Endpoints[name]
		clients[name] = opensearch.New(name, ep.APIURL,
			transport.NewCredentials(ep.Username, ep.Password),
			opensearch.WithTimeout(timeout),
			opensearch.WithLogger(a.logger),
		)
	}
	return clients
}

// Shutdown flushes the metrics textfile when one is configured.
func (a *App) Shutdown(_ context.Context) error {
	if a.config.MetricsFile == "" {
		return nil
	}
	if err := a.metrics.WriteTextfile(a.config.MetricsFile); err != nil {
		return errors.WrapIO("write", a.config.MetricsFile, err)
	}
	a.logger.Debug().Str("path", a.config.MetricsFile).Msg("Wrote metrics")
	return nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		if err := config.Validate(); err != nil {
			return err
		}
		a.config = config
		a.pinnedConfig = true
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		a.pinnedLogger = true
		return nil
	}
}

// WithParams sets a preloaded parameters document.
func WithParams(doc *params.Document) Option {
	return func(a *App) error {
		a.doc = doc
		return nil
	}
}

// WithSearchers replaces the OpenSearch clients (useful for testing).
func WithSearchers(searchers map[string]harvest.Searcher) Option {
	return func(a *App) error {
		a.searchers = searchers
		return nil
	}
}

// WithFootprints replaces the footprint converter (useful for testing).
func WithFootprints(src harvest.FootprintSource) Option {
	return func(a *App) error {
		a.footprints = src
		return nil
	}
}
