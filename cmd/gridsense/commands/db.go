package commands

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/gridsense/am"
	"github.com/teranos/gridsense/db"
	"github.com/teranos/gridsense/display"
	"github.com/teranos/gridsense/errors"
	"github.com/teranos/gridsense/logger"
	"github.com/teranos/gridsense/results"
	"github.com/teranos/gridsense/sym"
)

// DbCmd represents the db (database) command
var DbCmd = &cobra.Command{
	Use:   "db",
	Short: sym.DB + " Inspect stored batch results",
	Long: sym.DB + ` db - Inspect the results database

Batches run with --save are stored in SQLite (database.path, default
gridsense.db).

Examples:
  gridsense db stats                  # List stored batches and migrations
  gridsense db show <batch-id>        # Summarise one stored batch
  gridsense db show <batch-id> --json # Dump its records as JSON`,
}

var dbStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show stored batches and applied migrations",
	RunE:  runDbStats,
}

var dbShowCmd = &cobra.Command{
	Use:   "show <batch-id>",
	Short: "Summarise one stored batch",
	Args:  cobra.ExactArgs(1),
	RunE:  runDbShow,
}

func init() {
	addDbFlags(DbCmd)
	DbCmd.AddCommand(dbStatsCmd)
	DbCmd.AddCommand(dbShowCmd)
}

func addDbFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("db-path", am.DefaultDBPath, "Results database path")
}

func openResults(cmd *cobra.Command) (*sql.DB, string, error) {
	cfg, err := am.Load()
	if err != nil {
		return nil, "", errors.Wrap(err, "failed to load configuration")
	}
	path := cfg.GetDatabasePath()
	if cmd.Flags().Changed("db-path") {
		path, _ = cmd.Flags().GetString("db-path")
	}

	conn, err := db.OpenWithMigrations(path, logger.AddDBSymbol(logger.ComponentLogger("db")))
	if err != nil {
		return nil, "", errors.Wrap(err, "failed to open database")
	}
	return conn, path, nil
}

func runDbStats(cmd *cobra.Command, args []string) error {
	conn, path, err := openResults(cmd)
	if err != nil {
		return err
	}
	defer conn.Close()

	batches, err := results.NewStore(conn).Batches(cmd.Context())
	if err != nil {
		return err
	}
	versions, err := db.AppliedVersions(conn)
	if err != nil {
		return err
	}

	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(map[string]interface{}{
			"path":       path,
			"batches":    batches,
			"migrations": versions,
		})
	}

	runs := 0
	for _, b := range batches {
		runs += b.Runs
	}

	fmt.Printf("%s Database Statistics\n", sym.DB)
	fmt.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")
	fmt.Printf("Database Path:  %s\n", path)
	fmt.Printf("Batches:        %d\n", len(batches))
	fmt.Printf("Runs:           %d\n", runs)
	fmt.Printf("Migrations:     %d applied\n", len(versions))
	if logger.ShouldOutput(verbosity(cmd), logger.OutputMigrations) {
		for _, v := range versions {
			fmt.Printf("  - %s\n", v)
		}
	}
	fmt.Println()

	if len(batches) == 0 {
		return nil
	}
	table, err := display.BatchTable(batches)
	if err != nil {
		return err
	}
	fmt.Print(table)
	return nil
}

func runDbShow(cmd *cobra.Command, args []string) error {
	conn, _, err := openResults(cmd)
	if err != nil {
		return err
	}
	defer conn.Close()

	records, err := results.NewStore(conn).List(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return errors.WithHint(
			errors.Wrapf(errors.ErrNotFound, "batch %s", args[0]),
			"run 'gridsense db stats' to list stored batches")
	}

	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(records)
	}
	table, err := display.SummaryTable(results.Summarize(records))
	if err != nil {
		return err
	}
	fmt.Print(table)
	return nil
}
