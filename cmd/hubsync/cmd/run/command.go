// Package run implements the run command: harvest, then reconcile.
package run

import (
	"github.com/spf13/cobra"

	"github.com/colhub/hubsync/cmd/hubsync/cmd/stage"
	"github.com/colhub/hubsync/cmd/hubsync/context"
)

// NewCommand creates the run command using app context.
func NewCommand(appCtx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "run",
		GroupID: "core",
		Short:   "Harvest every endpoint, then reconcile the output tree",
		Long: `Run executes the full pipeline. Reconcile starts only after
every harvest job has finished, so it always sees complete title files.

An interrupted harvest skips reconcile.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			doc, err := appCtx.Params()
			if err != nil {
				return err
			}

			harvested, err := stage.Harvest(ctx, appCtx, doc, nil)
			if err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				if emitErr := stage.Emit(cmd, appCtx, harvested); emitErr != nil {
					return emitErr
				}
				return err
			}

			reconciled, err := stage.Reconcile(ctx, appCtx, doc, "")
			if err != nil {
				return err
			}
			return stage.Finish(cmd, appCtx, harvested, reconciled)
		},
	}

	return cmd
}
