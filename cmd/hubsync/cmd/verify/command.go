// Package verify implements the verify command, a single-job check that
// compares retrieved titles against a count-only query.
package verify

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/colhub/hubsync/cmd/hubsync/cmd/stage"
	"github.com/colhub/hubsync/cmd/hubsync/context"
	"github.com/colhub/hubsync/internal/cmd/output"
	"github.com/colhub/hubsync/pkg/harvest"
	"github.com/colhub/hubsync/pkg/logging"
	"github.com/colhub/hubsync/pkg/params"
)

// Result is the printed outcome of one verified job.
type Result struct {
	Job       string `json:"job" yaml:"job"`
	Path      string `json:"path" yaml:"path"`
	Products  int    `json:"products" yaml:"products"`
	Retrieved int    `json:"retrieved" yaml:"retrieved"`
	Match     bool   `json:"match" yaml:"match"`
	Written   bool   `json:"written" yaml:"written"`
}

// NewCommand creates the verify command using app context.
func NewCommand(appCtx context.Context) *cobra.Command {
	var (
		sel   stage.Selector
		write bool
	)

	cmd := &cobra.Command{
		Use:     "verify",
		GroupID: "inspect",
		Short:   "Run one job and check its title count",
		Long: `Verify runs the single job named by --endpoint, --platform, --aoi,
--level and --month, then issues a count-only query and reports whether
the number of retrieved titles matches the endpoint's total.

The title file is written only with --write.

Example:
  hubsync verify --endpoint colhub --platform sentinel-1 --aoi mainland \
    --level SLC_iw --month 201901`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			doc, err := appCtx.Params()
			if err != nil {
				return err
			}
			job, err := selectJob(doc, sel)
			if err != nil {
				return err
			}

			d := harvest.NewDispatcher(appCtx.Searchers(doc), appCtx.Footprints(),
				harvest.WithVerify(true),
				harvest.WithWrite(write),
				harvest.WithWriteEmpty(doc.General.WriteEmpty),
				harvest.WithLogger(appCtx.Logger()),
			)
			ctx := logging.WithLogger(cmd.Context(), appCtx.Logger())
			res, err := d.Execute(ctx, job)
			if err != nil {
				return err
			}

			out := Result{
				Job:       job.ID(),
				Path:      job.Path(),
				Products:  res.Count,
				Retrieved: res.Titles,
				Match:     res.Verified != nil && *res.Verified,
				Written:   res.Written,
			}
			format := output.DetectFormat(appCtx.OutputFormat())
			if err := output.Render(cmd.OutOrStdout(), format, out, toData(out)); err != nil {
				return err
			}
			if !out.Match && appCtx.Settings().FailOnError {
				return fmt.Errorf("%s: retrieved %d titles, endpoint reports %d", out.Job, out.Retrieved, out.Products)
			}
			return nil
		},
	}
	sel.AddFlags(cmd)
	cmd.Flags().BoolVar(&write, "write", false, "write the title file")
	for _, name := range []string{"endpoint", "platform", "aoi", "level", "month"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

// selectJob finds the one job sel names. Month scope is widened to every
// month so any month of the grid can be checked.
func selectJob(doc *params.Document, sel stage.Selector) (harvest.Job, error) {
	if err := sel.Validate(doc); err != nil {
		return harvest.Job{}, err
	}
	wide := *doc
	wide.General.MonthScope = params.MonthScopeAll

	enum, err := harvest.NewEnumerator(&wide)
	if err != nil {
		return harvest.Job{}, err
	}
	jobs := harvest.Collect(harvest.Filter(enum.Jobs(), sel.Keep()))
	switch len(jobs) {
	case 0:
		return harvest.Job{}, fmt.Errorf("no job matches %s/%s/%s/%s on %s",
			sel.Platform, sel.AOI, sel.Level, sel.Month, sel.Endpoint)
	case 1:
		return jobs[0], nil
	default:
		return harvest.Job{}, fmt.Errorf("%d jobs match; narrow the selection", len(jobs))
	}
}

func toData(r Result) output.Data {
	return output.Data{
		Title:   "Verify " + r.Job,
		Headers: output.Headers("path", "products", "retrieved", "match", "written"),
		Rows: [][]string{{
			r.Path,
			strconv.Itoa(r.Products),
			strconv.Itoa(r.Retrieved),
			strconv.FormatBool(r.Match),
			strconv.FormatBool(r.Written),
		}},
	}
}
