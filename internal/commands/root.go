// Package commands implements the tally command line.
package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/buildinfo"
	"github.com/tally-dev/tally/internal/log"
)

// globalOptions holds the persistent flags shared by every subcommand.
type globalOptions struct {
	dir     string
	verbose bool
	logger  *log.Logger
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "tally",
		Short:   "Personal finance ledger with budget insights",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config := log.DefaultConfig()
			config.Output = cmd.ErrOrStderr()
			if opts.verbose {
				config.Level = slog.LevelDebug
			}
			opts.logger = log.New(config)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.dir, "dir", "", "data directory (default $TALLY_DIR or the working directory)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log debug output")

	rootCmd.AddCommand(
		newInitCommand(opts),
		newAddCommand(opts),
		newUpdateCommand(opts),
		newDeleteCommand(opts),
		newListCommand(opts),
		newGoalCommand(opts),
		newCategoryCommand(opts),
		newDashboardCommand(opts),
		newReportCommand(opts),
		newExportCommand(opts),
		newImportCommand(opts),
	)

	return rootCmd
}
