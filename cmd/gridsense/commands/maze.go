package commands

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/teranos/gridsense/am"
	"github.com/teranos/gridsense/display"
	"github.com/teranos/gridsense/errors"
	"github.com/teranos/gridsense/maze"
	"github.com/teranos/gridsense/sym"
	"github.com/teranos/gridsense/trace"
)

// MazeCmd samples and prints a solvable maze
var MazeCmd = &cobra.Command{
	Use:   "maze",
	Short: sym.Maze + " Sample and print a solvable maze",
	Long: `Sample random grids until the bottom-right corner is reachable from the
top-left corner, then print the result.

Formats:
  grid   - glyphs (default)
  tokens - one line of 0/1 values in row-major order, 1 = blocked

Examples:
  gridsense maze --width 10 --height 10 --density 30
  gridsense maze --seed 42 --format tokens`,
	RunE: runMaze,
}

func init() {
	addMazeFlags(MazeCmd)
}

func addMazeFlags(cmd *cobra.Command) {
	addGridFlags(cmd)
	cmd.Flags().Float64("density", am.DefaultDensity, "Percent of cells blocked, 0..100")
	cmd.Flags().String("format", "grid", "Output format: grid, tokens")
}

// mazeReport is the JSON form of a sampled maze
type mazeReport struct {
	Seed     int64   `json:"seed"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	Density  float64 `json:"density"`
	Attempts int     `json:"attempts"`
	Cells    string  `json:"cells"`
}

func runMaze(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	if format != "grid" && format != "tokens" {
		return errors.NewInvalidRequestError("unsupported format %q (use grid or tokens)", format)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	seed := cfg.Maze.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	kb, attempts, err := maze.Sampler{
		Width:       cfg.Grid.Width,
		Height:      cfg.Grid.Height,
		Density:     cfg.Grid.Density,
		MaxAttempts: cfg.Maze.MaxAttempts,
		Rand:        rand.New(rand.NewSource(seed)),
	}.Sample()
	if err != nil {
		return errors.WithHint(err, "lower --density or raise --max-attempts")
	}

	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(mazeReport{
			Seed:     seed,
			Width:    kb.Width(),
			Height:   kb.Height(),
			Density:  cfg.Grid.Density,
			Attempts: attempts,
			Cells:    trace.Maze(kb),
		})
	}

	if format == "tokens" {
		fmt.Println(trace.Maze(kb))
		return nil
	}
	fmt.Print(display.RenderGrid(kb, display.GridOptions{Truth: true}))
	fmt.Printf("seed %d, %d maze(s) drawn\n", seed, attempts)
	return nil
}
