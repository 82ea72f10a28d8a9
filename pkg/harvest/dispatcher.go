package harvest

import (
	"context"
	"iter"
	"time"

	"github.com/rs/zerolog"

	"github.com/colhub/hubsync/internal/metrics"
	"github.com/colhub/hubsync/internal/opensearch"
	"github.com/colhub/hubsync/internal/workpool"
	"github.com/colhub/hubsync/pkg/constants"
	"github.com/colhub/hubsync/pkg/errors"
	"github.com/colhub/hubsync/pkg/logging"
	"github.com/colhub/hubsync/pkg/report"
)

// Searcher is the part of the OpenSearch client a dispatcher needs.
type Searcher interface {
	Search(ctx context.Context, q opensearch.Query) (*opensearch.ProductSet, error)
	Verify(ctx context.Context, q opensearch.Query, retrieved int) (bool, error)
}

// FootprintSource resolves an AOI file to WKT.
type FootprintSource interface {
	WKT(path string) (string, error)
}

// Result is what one executed job produced.
type Result struct {
	Count    int
	Titles   int
	Written  bool
	Verified *bool
}

// Detail flattens the result into report counters.
func (r Result) Detail() map[string]int {
	d := map[string]int{
		"products": r.Count,
		"titles":   r.Titles,
		"written":  boolInt(r.Written),
	}
	if r.Verified != nil {
		d["verified"] = boolInt(*r.Verified)
	}
	return d
}

// Dispatcher runs harvest jobs on a bounded pool. One job's failure never
// stops its siblings; every job ends up in the returned report.
type Dispatcher struct {
	clients    map[string]Searcher
	footprints FootprintSource
	writer     TitleWriter
	workers    int
	write      bool
	writeEmpty bool
	verify     bool
	logger     *zerolog.Logger
	metrics    *metrics.Recorder
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithWorkers sets the pool width.
func WithWorkers(n int) Option {
	return func(d *Dispatcher) { d.workers = n }
}

// WithWrite turns title file writing on or off. Off runs queries only.
func WithWrite(on bool) Option {
	return func(d *Dispatcher) { d.write = on }
}

// WithWriteEmpty writes a title file even when a query matched nothing.
func WithWriteEmpty(on bool) Option {
	return func(d *Dispatcher) { d.writeEmpty = on }
}

// WithVerify re-issues a count-only query after each search and records
// whether the totals agree.
func WithVerify(on bool) Option {
	return func(d *Dispatcher) { d.verify = on }
}

// WithLogger sets the dispatcher logger.
func WithLogger(l *zerolog.Logger) Option {
	return func(d *Dispatcher) { d.logger = l }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *metrics.Recorder) Option {
	return func(d *Dispatcher) { d.metrics = m }
}

// NewDispatcher creates a dispatcher. clients maps endpoint names to search clients.
func NewDispatcher(clients map[string]Searcher, footprints FootprintSource, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		clients:    clients,
		footprints: footprints,
		workers:    constants.DefaultWorkers,
		write:      true,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = logging.OrDefault(d.logger)
	return d
}

// Run submits every job and waits for the pool to drain. Jobs still queued
// when ctx ends are recorded as skipped.
func (d *Dispatcher) Run(ctx context.Context, runID string, jobs iter.Seq[Job]) *report.Report {
	rep := report.New(runID, report.StageHarvest)

	ctx = logging.WithLogger(ctx, d.logger)
	ctx = logging.WithRun(ctx, runID)
	ctx = logging.WithStage(ctx, report.StageHarvest)

	pool := workpool.New(ctx, d.workers)
	for job := range jobs {
		pool.Submit(workpool.Task{
			Run: func(ctx context.Context) {
				d.run(ctx, job, rep)
			},
			Skip: func(err error) {
				rep.Skip(job.ID(), err.Error())
				d.metrics.ObserveJob(report.StageHarvest, string(report.StatusSkipped), 0)
			},
		})
	}
	pool.Wait()
	rep.Finish()

	logging.FromContext(ctx).Info().
		Int("succeeded", rep.Succeeded).
		Int("failed", rep.Failed).
		Int("skipped", rep.Skipped).
		Msg("Harvest complete")
	return rep
}

func (d *Dispatcher) run(ctx context.Context, job Job, rep *report.Report) {
	ctx = logging.WithJob(ctx, job.ID())
	ctx = logging.WithEndpoint(ctx, job.Endpoint)
	log := logging.FromContext(ctx)

	start := time.Now()
	res, err := d.Execute(ctx, job)
	elapsed := time.Since(start)

	if err != nil {
		log.Error().Err(err).Str("path", job.Path()).Msg("Harvest job failed")
		rep.Fail(job.ID(), elapsed, err)
		d.metrics.ObserveJob(report.StageHarvest, string(report.StatusFailed), elapsed)
		return
	}

	evt := log.Info().
		Int("products", res.Count).
		Int("titles", res.Titles).
		Bool("written", res.Written).
		Dur("elapsed", elapsed)
	if res.Verified != nil {
		evt = evt.Bool("verified", *res.Verified)
	}
	evt.Msg("Harvest job done")

	rep.Succeed(job.ID(), elapsed, res.Detail())
	d.metrics.ObserveJob(report.StageHarvest, string(report.StatusSucceeded), elapsed)
	d.metrics.AddProducts(job.Endpoint, res.Titles)
}

// Execute runs one job synchronously: resolve the footprint, search, write
// the title file when anything matched, and optionally verify the count.
func (d *Dispatcher) Execute(ctx context.Context, job Job) (Result, error) {
	client, ok := d.clients[job.Endpoint]
	if !ok {
		return Result{}, errors.NewQueryError(job.Endpoint, job.ID(), errors.ErrNotFound)
	}

	wkt, err := d.footprints.WKT(job.Footprint)
	if err != nil {
		return Result{}, errors.NewQueryError(job.Endpoint, job.ID(), err)
	}
	q := job.Query(wkt)

	set, err := client.Search(ctx, q)
	if err != nil {
		return Result{}, errors.NewQueryError(job.Endpoint, job.ID(), err)
	}
	res := Result{Count: set.Count, Titles: len(set.Titles)}

	if d.write && (set.Count > 0 || len(set.Titles) > 0 || d.writeEmpty) {
		written, err := d.writer.Write(set.Titles, job.OutputDir, job.OutputFile)
		if err != nil {
			return res, err
		}
		res.Written = written
	}

	if d.verify {
		ok, err := client.Verify(ctx, q, len(set.Titles))
		if err != nil {
			return res, errors.NewQueryError(job.Endpoint, job.ID(), err)
		}
		res.Verified = &ok
		if !ok {
			logging.FromContext(ctx).Warn().
				Int("reported", set.Count).
				Int("retrieved", len(set.Titles)).
				Msg("Count verification mismatch")
		}
	}
	return res, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
