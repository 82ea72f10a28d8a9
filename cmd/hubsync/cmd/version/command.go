// Package version implements the version command.
package version

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/colhub/hubsync/cmd/hubsync/context"
)

// NewCommand creates the version command using app context.
func NewCommand(appCtx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "hubsync version %s\n", appCtx.Version())
			fmt.Fprintf(w, "commit: %s\n", appCtx.Commit())
			fmt.Fprintf(w, "built: %s\n", appCtx.Date())
			fmt.Fprintf(w, "built by: %s\n", appCtx.BuiltBy())
			fmt.Fprintf(w, "go version: %s\n", runtime.Version())
			fmt.Fprintf(w, "platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}
