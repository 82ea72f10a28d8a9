// Package context provides the application context interface for hubsync commands.
//
// The Context interface defines the contract between the application layer and
// command implementations so commands can be tested against a MockContext
// without a parameters file or live endpoints.
//
// Usage in Commands:
//
//	func NewCommand(appCtx context.Context) *cobra.Command {
//	    return &cobra.Command{
//	        RunE: func(cmd *cobra.Command, args []string) error {
//	            doc, err := appCtx.Params()
//	            if err != nil {
//	                return err
//	            }
//	            // ... enumerate and dispatch
//	            return nil
//	        },
//	    }
//	}
package context

import (
	"github.com/rs/zerolog"

	"github.com/colhub/hubsync/internal/metrics"
	"github.com/colhub/hubsync/pkg/harvest"
	"github.com/colhub/hubsync/pkg/params"
)

// Context provides what hubsync commands need from the application.
// The App struct from cmd/hubsync/app implements this interface.
//
// Thread Safety: All methods must be safe for concurrent access.
type Context interface {
	// Params returns the loaded parameters document. The document is read
	// once and cached.
	Params() (*params.Document, error)

	// Searchers returns one catalog client per endpoint of doc, keyed by
	// endpoint name.
	Searchers(doc *params.Document) map[string]harvest.Searcher

	// Footprints returns the AOI footprint source shared by all jobs.
	Footprints() harvest.FootprintSource

	// Metrics returns the run's metrics recorder.
	Metrics() *metrics.Recorder

	// Settings returns the command-line overrides of the document.
	Settings() Settings

	// NewRunID returns a fresh identifier for one stage run.
	NewRunID() string

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (table, json, yaml, markdown).
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}

// Settings are run-time overrides layered over the parameters document.
// Zero values leave the document's settings in force.
type Settings struct {
	// Workers overrides general.workers.
	Workers int
	// Reference and Candidate override the reconcile title file names.
	Reference string
	Candidate string
	// FailOnError makes a command return an error when any job failed.
	FailOnError bool
}
