// Package stage runs the harvest and reconcile stages on behalf of the
// commands and renders their reports.
package stage

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	hctx "github.com/colhub/hubsync/cmd/hubsync/context"
	"github.com/colhub/hubsync/internal/cmd/output"
	"github.com/colhub/hubsync/pkg/harvest"
	"github.com/colhub/hubsync/pkg/params"
	"github.com/colhub/hubsync/pkg/reconcile"
	"github.com/colhub/hubsync/pkg/report"
)

// Workers returns the pool width: the command-line override if set,
// otherwise the document's.
func Workers(appCtx hctx.Context, doc *params.Document) int {
	if n := appCtx.Settings().Workers; n > 0 {
		return n
	}
	return doc.General.Workers
}

// HarvestOptions builds dispatcher options from the document and settings.
func HarvestOptions(appCtx hctx.Context, doc *params.Document) []harvest.Option {
	return []harvest.Option{
		harvest.WithWorkers(Workers(appCtx, doc)),
		harvest.WithWriteEmpty(doc.General.WriteEmpty),
		harvest.WithVerify(doc.General.Verify),
		harvest.WithLogger(appCtx.Logger()),
		harvest.WithMetrics(appCtx.Metrics()),
	}
}

// Harvest enumerates doc and dispatches every job that keep accepts.
// A nil keep accepts every job.
func Harvest(ctx context.Context, appCtx hctx.Context, doc *params.Document, keep func(harvest.Job) bool) (*report.Report, error) {
	enum, err := harvest.NewEnumerator(doc)
	if err != nil {
		return nil, err
	}
	jobs := enum.Jobs()
	if keep != nil {
		jobs = harvest.Filter(jobs, keep)
	}

	d := harvest.NewDispatcher(appCtx.Searchers(doc), appCtx.Footprints(), HarvestOptions(appCtx, doc)...)
	return d.Run(ctx, appCtx.NewRunID(), jobs), nil
}

// Reconcile walks root, or the document's output path when root is empty,
// and reconciles every complete pair of title files.
func Reconcile(ctx context.Context, appCtx hctx.Context, doc *params.Document, root string) (*report.Report, error) {
	reference, candidate, err := doc.ReconcilePair()
	if err != nil {
		return nil, err
	}
	s := appCtx.Settings()
	if s.Reference != "" {
		reference = s.Reference
	}
	if s.Candidate != "" {
		candidate = s.Candidate
	}
	runID := appCtx.NewRunID()
	if root == "" {
		root = doc.General.BaseOutputPath
		// Nothing harvested yet is an empty run, not a walk failure.
		if _, err := os.Stat(root); os.IsNotExist(err) {
			rep := report.New(runID, report.StageReconcile)
			rep.Finish()
			return rep, nil
		}
	}

	d, err := reconcile.NewDispatcher(
		reconcile.WithFiles(reference, candidate),
		reconcile.WithWorkers(Workers(appCtx, doc)),
		reconcile.WithRunID(runID),
		reconcile.WithLogger(appCtx.Logger()),
		reconcile.WithMetrics(appCtx.Metrics()),
	)
	if err != nil {
		return nil, err
	}
	return d.Run(ctx, root)
}

// Emit renders the reports in the configured output format.
func Emit(cmd *cobra.Command, appCtx hctx.Context, reps ...*report.Report) error {
	format := output.DetectFormat(appCtx.OutputFormat())
	w := cmd.OutOrStdout()

	if !format.Tabular() {
		var raw any = reps
		if len(reps) == 1 {
			raw = reps[0]
		}
		return output.NewFormatter(format).Format(w, raw)
	}
	for _, rep := range reps {
		if err := output.Render(w, format, rep, output.ReportToData(rep)); err != nil {
			return err
		}
	}
	return nil
}

// Check returns an error for the first report with failures when the
// fail-on-error setting is on.
func Check(appCtx hctx.Context, reps ...*report.Report) error {
	if !appCtx.Settings().FailOnError {
		return nil
	}
	for _, rep := range reps {
		if rep.HasFailures() {
			return fmt.Errorf("%s: %d of %d jobs failed", rep.Stage, rep.Failed, rep.Total())
		}
	}
	return nil
}

// Finish emits the reports and applies the fail-on-error setting.
func Finish(cmd *cobra.Command, appCtx hctx.Context, reps ...*report.Report) error {
	if err := Emit(cmd, appCtx, reps...); err != nil {
		return err
	}
	return Check(appCtx, reps...)
}
