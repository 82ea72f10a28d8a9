// Package metrics records per-stage job counters and durations in a
// Prometheus registry that can be dumped for the node-exporter textfile
// collector after a run.
package metrics

import (
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/colhub/hubsync/pkg/constants"
	"github.com/colhub/hubsync/pkg/errors"
)

const namespace = "hubsync"

// Recorder holds the run's collectors. A nil *Recorder discards everything.
type Recorder struct {
	registry *prometheus.Registry

	info          *prometheus.GaugeVec
	jobsTotal     *prometheus.CounterVec
	jobDuration   *prometheus.HistogramVec
	productsTotal *prometheus.CounterVec
	missingLines  prometheus.Counter
}

// New creates a recorder with its own registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		info: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "build_info",
				Help:      "Static build info of the hubsync binary.",
			},
			[]string{"version"},
		),
		jobsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "jobs_total",
				Help:      "Total jobs processed per stage and result.",
			},
			[]string{"stage", "result"},
		),
		jobDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "job_duration_seconds",
				Help:      "Job duration in seconds.",
				Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 40, 80, 160, 320},
			},
			[]string{"stage"},
		),
		productsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "products_total",
				Help:      "Product titles retrieved per endpoint.",
			},
			[]string{"endpoint"},
		),
		missingLines: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "missing_lines_total",
				Help:      "Candidate lines absent from the reference file.",
			},
		),
	}
	r.registry.MustRegister(r.info, r.jobsTotal, r.jobDuration, r.productsTotal, r.missingLines)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// SetBuildInfo records the running version.
func (r *Recorder) SetBuildInfo(version string) {
	if r == nil {
		return
	}
	if version == "" {
		version = "dev"
	}
	r.info.WithLabelValues(version).Set(1)
}

// ObserveJob counts one finished job and its duration.
func (r *Recorder) ObserveJob(stage, result string, d time.Duration) {
	if r == nil {
		return
	}
	r.jobsTotal.WithLabelValues(stage, result).Inc()
	r.jobDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// AddProducts counts titles retrieved from an endpoint.
func (r *Recorder) AddProducts(endpoint string, n int) {
	if r == nil || n <= 0 {
		return
	}
	r.productsTotal.WithLabelValues(endpoint).Add(float64(n))
}

// AddMissing counts reconciliation differences.
func (r *Recorder) AddMissing(n int) {
	if r == nil || n <= 0 {
		return
	}
	r.missingLines.Add(float64(n))
}

// WriteTextfile writes the registry to path in the text exposition format.
// The write is atomic, as the textfile collector requires.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), constants.DirPermissions); err != nil {
		return errors.WrapIO("create", filepath.Dir(path), err)
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return errors.WrapWrite(path, err)
	}
	return nil
}
