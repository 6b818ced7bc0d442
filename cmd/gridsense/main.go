package main

import (
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/gridsense/am"
	"github.com/teranos/gridsense/cmd/gridsense/commands"
	"github.com/teranos/gridsense/errors"
	"github.com/teranos/gridsense/logger"
)

var rootCmd = &cobra.Command{
	Use:   "gridsense",
	Short: "gridsense - inference-driven navigation through partially known grids",
	Long: `gridsense - inference-driven navigation through partially known grids.

An agent starts in the top-left corner of a maze it cannot see and walks to
the bottom-right corner. It senses how many of its eight neighbours are
blocked, deduces what it can, and replans with A* whenever a wall gets in
the way.

Available commands:
  run     - Run one agent through one sampled maze
  batch   - Sweep obstacle densities across every configured agent
  maze    - Sample and print a solvable maze
  am      - Show and validate configuration ("I am")
  db      - Inspect stored batch results
  version - Show version information

Examples:
  gridsense run --strategy better --width 20 --height 20
  gridsense batch --iterations 10 --agents basic,better --csv-dir out
  gridsense am show --format yaml`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonLogs, _ := cmd.Flags().GetBool("log-json")

		if cfg, err := am.Load(); err == nil {
			logger.SetTheme(cfg.GetLogTheme())
		}
		if err := logger.InitializeWithVerbosity(jsonLogs, verbosity); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().Bool("json", false, "Output results as JSON")
	rootCmd.PersistentFlags().Bool("log-json", false, "Write logs to stderr as JSON lines")

	rootCmd.AddCommand(commands.RunCmd)
	rootCmd.AddCommand(commands.BatchCmd)
	rootCmd.AddCommand(commands.MazeCmd)
	rootCmd.AddCommand(commands.AmCmd)
	rootCmd.AddCommand(commands.DbCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		pterm.Error.Println(err)
		if hint := errors.FlattenHints(err); hint != "" {
			pterm.Info.Println(hint)
		}
		os.Exit(1)
	}
}
