package reconcile

import (
	"context"
	"slices"
	"time"

	"github.com/karrick/godirwalk"

	"github.com/colhub/hubsync/internal/workpool"
	"github.com/colhub/hubsync/pkg/errors"
	"github.com/colhub/hubsync/pkg/logging"
	"github.com/colhub/hubsync/pkg/report"
)

// SkipIncompletePair is the report reason for directories holding only one
// of the two title files.
const SkipIncompletePair = "incomplete pair"

// Dispatcher walks an output tree and reconciles every directory that holds
// both title files, on a bounded pool.
type Dispatcher struct {
	rec  *Reconciler
	opts *options
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(opts ...Option) (*Dispatcher, error) {
	o, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}
	return &Dispatcher{rec: &Reconciler{opts: o}, opts: o}, nil
}

// Run reconciles every complete pair under root and waits for all of them.
// A directory's failure is recorded and never stops the others. When ctx
// ends, the partial report is returned with ctx's error.
func (d *Dispatcher) Run(ctx context.Context, root string) (*report.Report, error) {
	rep := report.New(d.opts.runID, report.StageReconcile)

	ctx = logging.WithLogger(ctx, d.opts.logger)
	ctx = logging.WithRun(ctx, d.opts.runID)
	ctx = logging.WithStage(ctx, report.StageReconcile)
	log := logging.FromContext(ctx)

	pool := workpool.New(ctx, d.opts.workers)
	scratch := make([]byte, godirwalk.MinimumScratchBufferSize)
	listing := make([]byte, godirwalk.MinimumScratchBufferSize)

	err := godirwalk.Walk(root, &godirwalk.Options{
		Unsorted:      true,
		ScratchBuffer: scratch,
		Callback: func(path string, de *godirwalk.Dirent) error {
			if !de.IsDir() {
				return nil
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			names, err := godirwalk.ReadDirnames(path, listing)
			if err != nil {
				return err
			}

			hasReference := slices.Contains(names, d.opts.reference)
			hasCandidate := slices.Contains(names, d.opts.candidate)
			switch {
			case hasReference && hasCandidate:
				dir := path
				pool.Submit(workpool.Task{
					Run: func(ctx context.Context) {
						d.run(ctx, dir, rep)
					},
					Skip: func(err error) {
						rep.Skip(dir, err.Error())
					},
				})
			case hasReference || hasCandidate:
				log.Debug().Str("dir", path).Bool("reference", hasReference).Bool("candidate", hasCandidate).
					Msg("Skipping incomplete pair")
				rep.Skip(path, SkipIncompletePair)
			}
			return nil
		},
		ErrorCallback: func(path string, err error) godirwalk.ErrorAction {
			if ctx.Err() != nil {
				return godirwalk.Halt
			}
			log.Warn().Err(err).Str("dir", path).Msg("Cannot read directory")
			rep.Fail(path, 0, errors.WrapIO("walk", path, err))
			return godirwalk.SkipNode
		},
	})
	pool.Wait()
	rep.Finish()

	if ctxErr := ctx.Err(); ctxErr != nil {
		log.Warn().Int("skipped", rep.Skipped).Msg("Reconcile interrupted")
		return rep, ctxErr
	}
	if err != nil {
		return rep, errors.NewReconcileError(root, "walk failed", err)
	}

	log.Info().
		Int("succeeded", rep.Succeeded).
		Int("failed", rep.Failed).
		Int("skipped", rep.Skipped).
		Int("missing", rep.Sum("missing")).
		Msg("Reconcile complete")
	return rep, nil
}

func (d *Dispatcher) run(ctx context.Context, dir string, rep *report.Report) {
	log := logging.FromContext(logging.WithDirectory(ctx, dir))

	start := time.Now()
	res, err := d.rec.Reconcile(dir)
	elapsed := time.Since(start)
	if err != nil {
		log.Error().Err(err).Msg("Reconcile failed")
		rep.Fail(dir, elapsed, err)
		d.opts.metrics.ObserveJob(report.StageReconcile, string(report.StatusFailed), elapsed)
		return
	}

	log.Info().
		Int("reference", res.ReferenceLines).
		Int("candidate", res.CandidateLines).
		Int("missing", len(res.Missing)).
		Str("status", res.Status()).
		Msg("Reconciled")
	rep.Succeed(dir, elapsed, res.Detail())
	d.opts.metrics.ObserveJob(report.StageReconcile, string(report.StatusSucceeded), elapsed)
	d.opts.metrics.AddMissing(len(res.Missing))
}
