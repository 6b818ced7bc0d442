package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/gridsense/am"
	"github.com/teranos/gridsense/batch"
	"github.com/teranos/gridsense/db"
	"github.com/teranos/gridsense/display"
	"github.com/teranos/gridsense/errors"
	"github.com/teranos/gridsense/logger"
	"github.com/teranos/gridsense/metrics"
	"github.com/teranos/gridsense/results"
	"github.com/teranos/gridsense/sym"
)

// BatchCmd sweeps obstacle densities across every configured agent
var BatchCmd = &cobra.Command{
	Use:   "batch",
	Short: sym.Batch + " Sweep obstacle densities across every configured agent",
	Long: `Run every configured agent on the same sampled mazes across a range of
obstacle densities, then summarise how often and how efficiently each one
reached the goal.

Every agent sees the same maze; maze i of a batch is sampled from seed+i, so
a batch with a fixed --seed is reproducible.

Examples:
  gridsense batch --iterations 10 --max-density 20 --step 5
  gridsense batch --agents basic,basic+weighted,bounded-sat --csv-dir out/
  gridsense batch --save --db-path runs.db --metrics batch.prom
  gridsense batch --json > summary.json`,
	RunE: runBatch,
}

func init() {
	addBatchFlags(BatchCmd)
}

func addBatchFlags(cmd *cobra.Command) {
	addGridFlags(cmd)
	addAgentFlags(cmd)
	cmd.Flags().Int("iterations", am.DefaultIterations, "Mazes per density")
	cmd.Flags().Float64("min-density", 0, "First density, percent")
	cmd.Flags().Float64("max-density", 33, "Last density, percent")
	cmd.Flags().Float64("step", 1, "Density increment, percent")
	cmd.Flags().Int("workers", 0, "Concurrent runs (0 = one per agent)")
	cmd.Flags().StringSlice("agents", am.DefaultAgents, "Agents as <strategy> or <strategy>+weighted")
	cmd.Flags().String("csv-dir", "", "Write one CSV per agent into this directory")
	cmd.Flags().Bool("save", false, "Store records in the results database")
	cmd.Flags().String("db-path", am.DefaultDBPath, "Results database path (implies --save)")
	cmd.Flags().String("metrics", "", "Write Prometheus text metrics to this file")
}

// batchReport is the JSON form of a finished sweep
type batchReport struct {
	BatchID   string            `json:"batch_id"`
	Seed      int64             `json:"seed"`
	Runs      int               `json:"runs"`
	Mazes     int               `json:"mazes"`
	Seconds   float64           `json:"duration_seconds"`
	Summaries []results.Summary `json:"summaries"`
	CSVFiles  []string          `json:"csv_files,omitempty"`
	Database  string            `json:"database,omitempty"`
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := logger.AddBatchSymbol(logger.ComponentLogger("batch"))
	jsonOut := display.ShouldOutputJSON(cmd)

	var emitter batch.ProgressEmitter = batch.NewCLIEmitter(verbosity(cmd))
	if jsonOut {
		emitter = batch.SilentEmitter{}
	}
	m := metrics.New()

	runner, err := batch.NewRunner(batch.Config{
		Width:       cfg.Grid.Width,
		Height:      cfg.Grid.Height,
		Iterations:  cfg.Batch.Iterations,
		MinDensity:  cfg.Batch.MinDensity,
		MaxDensity:  cfg.Batch.MaxDensity,
		DensityStep: cfg.Batch.DensityStep,
		Workers:     cfg.Batch.Workers,
		Agents:      cfg.Batch.Agents,
		SATDepth:    cfg.Agent.SATDepth,
		Heuristic:   cfg.Agent.Heuristic,
		MaxAttempts: cfg.Maze.MaxAttempts,
		Seed:        cfg.Maze.Seed,
	}, batch.WithEmitter(emitter), batch.WithMetrics(m), batch.WithLogger(log))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	res, err := runner.Run(ctx)
	if err != nil {
		if errors.Is(err, errors.ErrUnsolvable) {
			return errors.WithHint(err, "lower --max-density or raise --max-attempts")
		}
		return err
	}

	report := batchReport{
		BatchID:   res.BatchID,
		Seed:      res.Seed,
		Runs:      len(res.Records),
		Mazes:     res.Mazes,
		Seconds:   res.Duration.Seconds(),
		Summaries: results.Summarize(res.Records),
	}

	if cfg.Batch.CSVDir != "" {
		files, err := batch.WriteCSVs(cfg.Batch.CSVDir, res.Records)
		if err != nil {
			return err
		}
		report.CSVFiles = files
	}

	if cfg.Database.Enabled {
		if err := saveRecords(ctx, cfg, res.Records); err != nil {
			return err
		}
		report.Database = cfg.GetDatabasePath()
	}

	if cfg.Output.MetricsPath != "" {
		if err := writeMetrics(cfg.Output.MetricsPath, m); err != nil {
			return err
		}
	}

	if jsonOut {
		return display.OutputJSON(report)
	}

	table, err := display.SummaryTable(report.Summaries)
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Print(table)
	fmt.Printf("batch %s: %d runs on %d mazes in %s (seed %d)\n",
		report.BatchID, report.Runs, report.Mazes, res.Duration.Round(time.Millisecond), report.Seed)
	for _, f := range report.CSVFiles {
		pterm.Info.Printfln("wrote %s", f)
	}
	if report.Database != "" {
		pterm.Info.Printfln("saved to %s", report.Database)
	}
	if cfg.Output.MetricsPath != "" {
		pterm.Info.Printfln("metrics written to %s", cfg.Output.MetricsPath)
	}
	return nil
}

func saveRecords(ctx context.Context, cfg *am.Config, records []results.Record) error {
	conn, err := db.OpenWithMigrations(cfg.GetDatabasePath(), logger.AddDBSymbol(logger.ComponentLogger("db")))
	if err != nil {
		return errors.Wrap(err, "failed to open results database")
	}
	defer conn.Close()

	// a cancelled sweep never gets here, so finish the write even on interrupt
	if err := results.NewStore(conn).Save(context.WithoutCancel(ctx), records); err != nil {
		return errors.Wrap(err, "failed to save batch")
	}
	return nil
}

func writeMetrics(path string, m *metrics.Metrics) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create metrics file %s", path)
	}
	if err := m.WriteText(f); err != nil {
		f.Close()
		return err
	}
	return errors.Wrap(f.Close(), "failed to close metrics file")
}
