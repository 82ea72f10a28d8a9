package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/colhub/hubsync/internal/cmd/output"
)

// Execute runs the hubsync CLI application with the given arguments.
// This is the main entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "hubsync",
		Short:   "Sentinel catalog harvest and reconcile",
		Version: a.version,
		Long: `hubsync harvests product titles from DHuS OpenSearch mirrors into
one title file per endpoint, platform, area of interest, product level and
month, then reconciles each pair of mirrors by writing the candidate titles
the reference lacks.

Endpoints, platforms and filters come from the parameters document
(default input_params.yaml).`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "Core Commands:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "inspect",
		Title: "Inspection Commands:",
	})

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default is $HOME/.hubsync.yaml)")
	flags.StringP("params", "p", "", "parameters document (default input_params.yaml)")
	flags.IntP("workers", "w", 0, "worker pool width (overrides general.workers)")
	flags.String("reference", "", "reference title file name for reconcile")
	flags.String("candidate", "", "candidate title file name for reconcile")
	flags.String("metrics-file", "", "write Prometheus metrics to this textfile after the run")
	flags.Bool("fail-on-error", false, "exit non-zero when any job failed")
	flags.BoolP("verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	flags.BoolP("quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	flags.StringP("format", "o", "", "output format: table, json, yaml, markdown")
	flags.String("log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")

	// Flags take precedence over env and config file once bound
	for key, flag := range map[string]string{
		KeyConfig:      "config",
		KeyParams:      "params",
		KeyWorkers:     "workers",
		KeyReference:   "reference",
		KeyCandidate:   "candidate",
		KeyMetricsFile: "metrics-file",
		KeyFailOnError: "fail-on-error",
		KeyVerbose:     "verbose",
		KeyQuiet:       "quiet",
		KeyFormat:      "format",
		KeyLogLevel:    "log-level",
	} {
		if err := a.viper.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic("programming error: failed to bind flag " + flag + ": " + err.Error())
		}
	}

	rootCmd.SetVersionTemplate("hubsync {{.Version}}\n")

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand is called before any command runs. It re-reads the
// configuration now that flags are parsed and rebuilds the logger.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	if a.pinnedConfig {
		return nil
	}
	if cmd.Flags().Changed("config") {
		if err := readConfigFile(a.viper, a.viper.GetString(KeyConfig)); err != nil {
			return err
		}
	}

	config := configFrom(a.viper)
	format, err := output.ParseFormat(config.Format)
	if err != nil {
		return err
	}
	config.Format = string(format)
	if err := config.Validate(); err != nil {
		return err
	}
	a.config = config

	if !a.pinnedLogger {
		logger := NewLogger(a.config)
		a.logger = &logger
	}

	return nil
}

// ExitOnError is a helper that prints an error and exits with status 1.
// This is meant to be used in main.go for top-level error handling.
func ExitOnError(err error) {
	if err != nil {
		//nolint:errcheck // Ignoring write error since we're exiting anyway
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}
