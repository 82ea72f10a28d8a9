package reconcile

import (
	"github.com/rs/zerolog"

	"github.com/colhub/hubsync/internal/metrics"
	"github.com/colhub/hubsync/pkg/constants"
	"github.com/colhub/hubsync/pkg/errors"
	"github.com/colhub/hubsync/pkg/logging"
)

type options struct {
	reference string
	candidate string
	workers   int
	marker    bool
	runID     string
	logger    *zerolog.Logger
	metrics   *metrics.Recorder
}

func defaultOptions() *options {
	return &options{
		reference: constants.DefaultReferenceFile,
		candidate: constants.DefaultCandidateFile,
		workers:   constants.DefaultWorkers,
		marker:    true,
	}
}

// Option configures a Reconciler or Dispatcher.
type Option func(*options) error

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	if o.reference == o.candidate {
		return nil, errors.NewValidationError("candidate", o.candidate, "must differ from the reference file")
	}
	o.logger = logging.OrDefault(o.logger)
	return o, nil
}

func newOptions(opts ...Option) (*options, error) {
	return defaultOptions().apply(opts...)
}

// WithFiles sets the reference and candidate title file names.
func WithFiles(reference, candidate string) Option {
	return func(o *options) error {
		if reference == "" {
			return errors.NewValidationError("reference", reference, "cannot be empty")
		}
		if candidate == "" {
			return errors.NewValidationError("candidate", candidate, "cannot be empty")
		}
		o.reference, o.candidate = reference, candidate
		return nil
	}
}

// WithWorkers sets the dispatcher pool width.
func WithWorkers(n int) Option {
	return func(o *options) error {
		if n < 0 {
			return errors.NewValidationError("workers", n, "cannot be negative")
		}
		o.workers = n
		return nil
	}
}

// WithMarker enables or disables the completion marker.
func WithMarker(on bool) Option {
	return func(o *options) error {
		o.marker = on
		return nil
	}
}

// WithRunID stamps markers with the run identifier.
func WithRunID(id string) Option {
	return func(o *options) error {
		o.runID = id
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(l *zerolog.Logger) Option {
	return func(o *options) error {
		o.logger = l
		return nil
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *metrics.Recorder) Option {
	return func(o *options) error {
		o.metrics = m
		return nil
	}
}
