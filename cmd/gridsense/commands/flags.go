package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/teranos/gridsense/am"
	"github.com/teranos/gridsense/errors"
	"github.com/teranos/gridsense/infer"
	"github.com/teranos/gridsense/search"
)

// verbosity is the number of -v flags given to the root command.
func verbosity(cmd *cobra.Command) int {
	v, _ := cmd.Flags().GetCount("verbose")
	return v
}

// loadConfig loads configuration, applies the command's changed flags and
// validates the result.
func loadConfig(cmd *cobra.Command) (*am.Config, error) {
	loaded, err := am.Load()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load configuration")
	}
	cfg := *loaded
	cfg.Batch.Agents = append([]string(nil), loaded.Batch.Agents...)

	applyFlags(cmd.Flags(), &cfg)
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return &cfg, nil
}

// applyFlags copies every changed flag that maps onto a config key.
func applyFlags(flags *pflag.FlagSet, cfg *am.Config) {
	ints := map[string]*int{
		"width":        &cfg.Grid.Width,
		"height":       &cfg.Grid.Height,
		"sat-depth":    &cfg.Agent.SATDepth,
		"max-attempts": &cfg.Maze.MaxAttempts,
		"iterations":   &cfg.Batch.Iterations,
		"workers":      &cfg.Batch.Workers,
	}
	floats := map[string]*float64{
		"density":     &cfg.Grid.Density,
		"min-density": &cfg.Batch.MinDensity,
		"max-density": &cfg.Batch.MaxDensity,
		"step":        &cfg.Batch.DensityStep,
	}
	strs := map[string]*string{
		"strategy":  &cfg.Agent.Strategy,
		"planner":   &cfg.Agent.Planner,
		"heuristic": &cfg.Agent.Heuristic,
		"csv-dir":   &cfg.Batch.CSVDir,
		"db-path":   &cfg.Database.Path,
		"metrics":   &cfg.Output.MetricsPath,
		"trace-dir": &cfg.Output.TraceDir,
	}

	flags.Visit(func(f *pflag.Flag) {
		switch {
		case ints[f.Name] != nil:
			*ints[f.Name], _ = flags.GetInt(f.Name)
		case floats[f.Name] != nil:
			*floats[f.Name], _ = flags.GetFloat64(f.Name)
		case strs[f.Name] != nil:
			*strs[f.Name], _ = flags.GetString(f.Name)
		case f.Name == "seed":
			cfg.Maze.Seed, _ = flags.GetInt64("seed")
		case f.Name == "agents":
			cfg.Batch.Agents, _ = flags.GetStringSlice("agents")
		case f.Name == "save":
			cfg.Database.Enabled, _ = flags.GetBool("save")
		}
	})
	if flags.Changed("db-path") {
		cfg.Database.Enabled = true
	}
}

func addGridFlags(cmd *cobra.Command) {
	cmd.Flags().Int("width", am.DefaultWidth, "Grid width")
	cmd.Flags().Int("height", am.DefaultHeight, "Grid height")
	cmd.Flags().Int64("seed", 0, "Random seed for maze sampling (0 = from the clock)")
	cmd.Flags().Int("max-attempts", am.DefaultMaxAttempts, "Mazes to draw before giving up on a density")
}

func addAgentFlags(cmd *cobra.Command) {
	cmd.Flags().String("heuristic", search.HeuristicManhattan, "A* heuristic: manhattan, euclidean, chebyshev")
	cmd.Flags().Int("sat-depth", infer.DefaultDepth, "bounded-sat lookahead depth (-1 = unbounded)")
}

// agentLabel names a strategy/planner pair the way batch agents are named.
func agentLabel(strategy, planner string) string {
	if planner == search.PlannerWeighted {
		return strategy + "+" + search.PlannerWeighted
	}
	return strategy
}
