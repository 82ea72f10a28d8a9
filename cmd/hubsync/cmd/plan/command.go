// Package plan implements the plan command.
package plan

import (
	"github.com/spf13/cobra"

	"github.com/colhub/hubsync/cmd/hubsync/cmd/stage"
	"github.com/colhub/hubsync/cmd/hubsync/context"
	"github.com/colhub/hubsync/internal/cmd/output"
	"github.com/colhub/hubsync/pkg/harvest"
)

// NewCommand creates the plan command using app context.
func NewCommand(appCtx context.Context) *cobra.Command {
	var sel stage.Selector

	cmd := &cobra.Command{
		Use:     "plan",
		GroupID: "inspect",
		Short:   "List the harvest jobs without contacting any endpoint",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			doc, err := appCtx.Params()
			if err != nil {
				return err
			}
			if err := sel.Validate(doc); err != nil {
				return err
			}
			enum, err := harvest.NewEnumerator(doc)
			if err != nil {
				return err
			}

			jobs := enum.Jobs()
			if keep := sel.Keep(); keep != nil {
				jobs = harvest.Filter(jobs, keep)
			}
			entries := output.PlanEntries(harvest.Collect(jobs))

			format := output.DetectFormat(appCtx.OutputFormat())
			return output.Render(cmd.OutOrStdout(), format, entries, output.PlanToData(entries))
		},
	}
	sel.AddFlags(cmd)

	return cmd
}
