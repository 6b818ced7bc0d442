package am

import (
	"github.com/spf13/viper"

	"github.com/teranos/gridsense/infer"
)

// A default sweep covers densities 0..33% in steps of one, a hundred mazes
// each, with every agent from blindfolded to bounded SAT.
const (
	DefaultWidth       = 50
	DefaultHeight      = 50
	DefaultDensity     = 30.0
	DefaultMaxAttempts = 10000
	DefaultIterations  = 100
	DefaultDBPath      = "gridsense.db"
	DefaultLogTheme    = "everforest"
)

// DefaultAgents is the agent line-up of a default sweep.
var DefaultAgents = []string{
	infer.NameBlindfolded,
	infer.NameFourNeighbour,
	infer.NameBasic,
	infer.NameBasic + "+weighted",
	infer.NameBetter,
	infer.NameBoundedSAT,
}

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("grid.width", DefaultWidth)
	v.SetDefault("grid.height", DefaultHeight)
	v.SetDefault("grid.density", DefaultDensity)

	v.SetDefault("agent.strategy", infer.NameBetter)
	v.SetDefault("agent.planner", "astar")
	v.SetDefault("agent.heuristic", "manhattan")
	v.SetDefault("agent.sat_depth", infer.DefaultDepth)

	v.SetDefault("maze.max_attempts", DefaultMaxAttempts)
	v.SetDefault("maze.seed", 0)

	v.SetDefault("batch.iterations", DefaultIterations)
	v.SetDefault("batch.min_density", 0.0)
	v.SetDefault("batch.max_density", 33.0)
	v.SetDefault("batch.density_step", 1.0)
	v.SetDefault("batch.workers", 0)
	v.SetDefault("batch.agents", DefaultAgents)
	v.SetDefault("batch.csv_dir", "")

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.path", DefaultDBPath)

	v.SetDefault("output.json", false)
	v.SetDefault("output.log_theme", DefaultLogTheme)
	v.SetDefault("output.metrics_path", "")
	v.SetDefault("output.trace_dir", "")
}

// BindEnvVars binds keys whose environment names AutomaticEnv cannot derive
// on its own, so Unmarshal sees them even without a file entry.
func BindEnvVars(v *viper.Viper) {
	v.BindEnv("database.path", "GRIDSENSE_DATABASE_PATH", "GRIDSENSE_DB")
	v.BindEnv("output.json", "GRIDSENSE_OUTPUT_JSON")
	v.BindEnv("output.log_theme", "GRIDSENSE_OUTPUT_LOG_THEME", "GRIDSENSE_LOG_THEME")
}

// GetDatabasePath returns the configured database path
func (c *Config) GetDatabasePath() string {
	if c.Database.Path == "" {
		return DefaultDBPath
	}
	return c.Database.Path
}

// GetLogTheme returns the log theme (default: everforest)
func (c *Config) GetLogTheme() string {
	if c.Output.LogTheme == "" {
		return DefaultLogTheme
	}
	return c.Output.LogTheme
}
