package commands

import (
	"fmt"
	"math/rand"
	"path/filepath"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/gridsense/am"
	"github.com/teranos/gridsense/display"
	"github.com/teranos/gridsense/errors"
	"github.com/teranos/gridsense/grid"
	"github.com/teranos/gridsense/infer"
	"github.com/teranos/gridsense/logger"
	"github.com/teranos/gridsense/maze"
	"github.com/teranos/gridsense/nav"
	"github.com/teranos/gridsense/search"
	"github.com/teranos/gridsense/sym"
)

// RunCmd sends one agent through one sampled maze
var RunCmd = &cobra.Command{
	Use:   "run",
	Short: sym.Run + " Run one agent through one sampled maze",
	Long: `Sample a solvable maze and walk one agent from the top-left corner to the
bottom-right corner. The agent only knows what it senses and what its
inference strategy deduces.

Strategies: ` + fmt.Sprint(infer.Names()) + `

Examples:
  gridsense run
  gridsense run --strategy bounded-sat --sat-depth 3 --density 25
  gridsense run --planner weighted --seed 7 --trace-dir traces/
  gridsense run --json`,
	RunE: runRun,
}

func init() {
	addRunFlags(RunCmd)
}

func addRunFlags(cmd *cobra.Command) {
	addGridFlags(cmd)
	addAgentFlags(cmd)
	cmd.Flags().Float64("density", am.DefaultDensity, "Percent of cells blocked, 0..100")
	cmd.Flags().String("strategy", infer.NameBetter, "Inference strategy")
	cmd.Flags().String("planner", search.PlannerAStar, "Planner: astar, weighted")
	cmd.Flags().String("trace-dir", "", "Write maze, state and action files for the run")
	cmd.Flags().Bool("truth", false, "Also print the actual maze")
}

// runReport is the JSON form of a single run
type runReport struct {
	Agent    string    `json:"agent"`
	Seed     int64     `json:"seed"`
	Width    int       `json:"width"`
	Height   int       `json:"height"`
	Density  float64   `json:"density"`
	Attempts int       `json:"attempts"`
	Stats    nav.Stats `json:"stats"`
	Trace    string    `json:"trace_dir,omitempty"`
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := logger.ComponentLogger("run")

	seed := cfg.Maze.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	planner, err := search.ByName(cfg.Agent.Planner, cfg.Agent.Heuristic)
	if err != nil {
		return err
	}
	strategy, err := infer.New(cfg.Agent.Strategy, infer.Options{Depth: cfg.Agent.SATDepth})
	if err != nil {
		return err
	}

	truth, attempts, err := maze.Sampler{
		Width:       cfg.Grid.Width,
		Height:      cfg.Grid.Height,
		Density:     cfg.Grid.Density,
		MaxAttempts: cfg.Maze.MaxAttempts,
		Rand:        rand.New(rand.NewSource(seed)),
	}.Sample()
	if err != nil {
		return errors.WithHint(
			errors.Wrapf(err, "failed to sample a %dx%d maze at %g%% density", cfg.Grid.Width, cfg.Grid.Height, cfg.Grid.Density),
			"lower --density or raise --max-attempts")
	}

	kb := truth.Clone(true)
	opts := nav.Options{Strategy: strategy, Planner: planner}

	var tr *traceFiles
	if cfg.Output.TraceDir != "" {
		tr, err = createTraceFiles(cfg.Output.TraceDir, truth)
		if err != nil {
			return err
		}
		defer tr.Close()
		opts.OnStep = tr.Recorder.Record
	}

	robot, err := nav.NewRobot(kb, opts)
	if err != nil {
		return err
	}
	stats, err := robot.Run()
	if err != nil {
		return errors.Wrap(err, "run failed")
	}
	if tr != nil {
		if err := tr.Close(); err != nil {
			return err
		}
		log.Infow("wrote trace",
			logger.FieldPath, tr.Dir,
			logger.FieldSteps, tr.Recorder.Steps())
	}

	agent := agentLabel(cfg.Agent.Strategy, cfg.Agent.Planner)
	log.Infow("run finished",
		logger.FieldAgent, agent,
		logger.FieldSeed, seed,
		logger.FieldSolved, stats.Solved,
		logger.FieldAttempts, attempts)

	if display.ShouldOutputJSON(cmd) {
		report := runReport{
			Agent:    agent,
			Seed:     seed,
			Width:    cfg.Grid.Width,
			Height:   cfg.Grid.Height,
			Density:  cfg.Grid.Density,
			Attempts: attempts,
			Stats:    stats,
		}
		if tr != nil {
			report.Trace = tr.Dir
		}
		return display.OutputJSON(report)
	}

	pos := robot.Position()
	if showTruth, _ := cmd.Flags().GetBool("truth"); showTruth {
		pterm.DefaultSection.Println("Maze")
		fmt.Print(display.RenderGrid(truth, display.GridOptions{Truth: true}))
	}
	pterm.DefaultSection.Println("Knowledge")
	fmt.Print(display.RenderGrid(kb, display.GridOptions{Position: &pos, Path: solvedPath(kb, stats)}))
	if logger.ShouldOutput(verbosity(cmd), logger.OutputUserStatus) {
		fmt.Println(display.Legend())
	}

	table, err := display.StatsTable(agent, stats)
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Print(table)
	fmt.Printf("seed %d, %d maze(s) drawn\n", seed, attempts)
	if tr != nil {
		fmt.Printf("trace written to %s (%d steps)\n", filepath.Clean(tr.Dir), tr.Recorder.Steps())
	}
	if !stats.Solved {
		pterm.Warning.Println("agent could not reach the goal")
	}
	return nil
}

// solvedPath is the shortest route through the agent's final beliefs, drawn
// over the knowledge rendering after a successful run.
func solvedPath(kb *grid.KnowledgeBase, stats nav.Stats) []grid.Point {
	if !stats.Solved {
		return nil
	}
	res, err := search.NewAStar(search.Manhattan).Search(kb.Start(), kb.Goal(), kb, func(c *grid.Cell) bool {
		return !c.Visited()
	})
	if err != nil || !res.Found() {
		return nil
	}
	return res.Path[:len(res.Path)-1]
}
