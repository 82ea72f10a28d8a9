// Package reconcile implements the reconcile command.
package reconcile

import (
	"github.com/spf13/cobra"

	"github.com/colhub/hubsync/cmd/hubsync/cmd/stage"
	"github.com/colhub/hubsync/cmd/hubsync/context"
)

// NewCommand creates the reconcile command using app context.
func NewCommand(appCtx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "reconcile [root]",
		GroupID: "core",
		Short:   "Write diff.txt wherever both title files exist",
		Long: `Reconcile walks the output tree (default: the document's
base_output_path) and, in every directory holding both the reference and
the candidate title file, writes diff.txt with the candidate titles the
reference lacks.

Directories holding only one of the two files are reported as skipped.

Examples:
  hubsync reconcile
  hubsync reconcile ./output/sentinel-1
  hubsync reconcile --reference a.example.txt --candidate b.example.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := appCtx.Params()
			if err != nil {
				return err
			}
			var root string
			if len(args) == 1 {
				root = args[0]
			}

			ctx := cmd.Context()
			rep, err := stage.Reconcile(ctx, appCtx, doc, root)
			if err != nil {
				// An interrupted walk still prints what finished.
				if rep != nil && ctx.Err() != nil {
					if emitErr := stage.Emit(cmd, appCtx, rep); emitErr != nil {
						return emitErr
					}
				}
				return err
			}
			return stage.Finish(cmd, appCtx, rep)
		},
	}

	return cmd
}
