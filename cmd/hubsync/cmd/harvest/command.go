// Package harvest implements the harvest command.
package harvest

import (
	"github.com/spf13/cobra"

	"github.com/colhub/hubsync/cmd/hubsync/cmd/stage"
	"github.com/colhub/hubsync/cmd/hubsync/context"
)

// NewCommand creates the harvest command using app context.
func NewCommand(appCtx context.Context) *cobra.Command {
	var sel stage.Selector

	cmd := &cobra.Command{
		Use:     "harvest",
		GroupID: "core",
		Short:   "Query every endpoint and write title files",
		Long: `Harvest enumerates every endpoint, platform, area of interest,
product level and month of the parameters document, queries each endpoint
on a bounded worker pool and writes one title file per job under
<base_output_path>/<platform>/<aoi>/<level>/<YYYYMM>/<host>.txt.

A failed query is recorded in the report and does not stop other jobs.

Examples:
  hubsync harvest
  hubsync harvest --endpoint colhub --month 201901
  hubsync harvest -w 8 -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			doc, err := appCtx.Params()
			if err != nil {
				return err
			}
			if err := sel.Validate(doc); err != nil {
				return err
			}

			rep, err := stage.Harvest(cmd.Context(), appCtx, doc, sel.Keep())
			if err != nil {
				return err
			}
			return stage.Finish(cmd, appCtx, rep)
		},
	}
	sel.AddFlags(cmd)

	return cmd
}
