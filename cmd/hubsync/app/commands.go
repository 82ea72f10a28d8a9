package app

import (
	"github.com/spf13/cobra"

	"github.com/colhub/hubsync/cmd/hubsync/cmd/harvest"
	"github.com/colhub/hubsync/cmd/hubsync/cmd/plan"
	"github.com/colhub/hubsync/cmd/hubsync/cmd/reconcile"
	"github.com/colhub/hubsync/cmd/hubsync/cmd/run"
	"github.com/colhub/hubsync/cmd/hubsync/cmd/verify"
	"github.com/colhub/hubsync/cmd/hubsync/cmd/version"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(harvest.NewCommand(a))
	rootCmd.AddCommand(reconcile.NewCommand(a))
	rootCmd.AddCommand(run.NewCommand(a))

	// Inspection commands
	rootCmd.AddCommand(plan.NewCommand(a))
	rootCmd.AddCommand(verify.NewCommand(a))

	// Utility commands
	rootCmd.AddCommand(version.NewCommand(a))
}
