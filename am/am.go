// Package am loads gridsense configuration ("I am"): built-in defaults, then
// ~/.gridsense/am.toml, then the nearest project am.toml, then GRIDSENSE_*
// environment variables. Command-line flags override all of them.
package am

// Config represents the gridsense configuration
type Config struct {
	Grid     GridConfig     `mapstructure:"grid" toml:"grid" json:"grid" yaml:"grid"`
	Agent    AgentConfig    `mapstructure:"agent" toml:"agent" json:"agent" yaml:"agent"`
	Maze     MazeConfig     `mapstructure:"maze" toml:"maze" json:"maze" yaml:"maze"`
	Batch    BatchConfig    `mapstructure:"batch" toml:"batch" json:"batch" yaml:"batch"`
	Database DatabaseConfig `mapstructure:"database" toml:"database" json:"database" yaml:"database"`
	Output   OutputConfig   `mapstructure:"output" toml:"output" json:"output" yaml:"output"`
}

// GridConfig sizes the mazes agents are dropped into
type GridConfig struct {
	Width   int     `mapstructure:"width" toml:"width" json:"width" yaml:"width"`
	Height  int     `mapstructure:"height" toml:"height" json:"height" yaml:"height"`
	Density float64 `mapstructure:"density" toml:"density" json:"density" yaml:"density"` // percent of blocked cells, 0..100
}

// AgentConfig selects how a single run reasons and plans
type AgentConfig struct {
	Strategy  string `mapstructure:"strategy" toml:"strategy" json:"strategy" yaml:"strategy"`    // blindfolded, four-neighbour, basic, better, bounded-sat, exact-sat
	Planner   string `mapstructure:"planner" toml:"planner" json:"planner" yaml:"planner"`        // astar, weighted
	Heuristic string `mapstructure:"heuristic" toml:"heuristic" json:"heuristic" yaml:"heuristic"` // manhattan, euclidean, chebyshev
	SATDepth  int    `mapstructure:"sat_depth" toml:"sat_depth" json:"sat_depth" yaml:"sat_depth"` // bounded-sat lookahead, -1 = unbounded
}

// MazeConfig controls maze sampling
type MazeConfig struct {
	MaxAttempts int   `mapstructure:"max_attempts" toml:"max_attempts" json:"max_attempts" yaml:"max_attempts"`
	Seed        int64 `mapstructure:"seed" toml:"seed" json:"seed" yaml:"seed"` // 0 = seed from the clock
}

// BatchConfig describes a density sweep
type BatchConfig struct {
	Iterations  int      `mapstructure:"iterations" toml:"iterations" json:"iterations" yaml:"iterations"`
	MinDensity  float64  `mapstructure:"min_density" toml:"min_density" json:"min_density" yaml:"min_density"`
	MaxDensity  float64  `mapstructure:"max_density" toml:"max_density" json:"max_density" yaml:"max_density"`
	DensityStep float64  `mapstructure:"density_step" toml:"density_step" json:"density_step" yaml:"density_step"`
	Workers     int      `mapstructure:"workers" toml:"workers" json:"workers" yaml:"workers"` // 0 = one per agent
	Agents      []string `mapstructure:"agents" toml:"agents" json:"agents" yaml:"agents"`     // "<strategy>" or "<strategy>+weighted"
	CSVDir      string   `mapstructure:"csv_dir" toml:"csv_dir" json:"csv_dir" yaml:"csv_dir"` // empty = no CSV export
}

// DatabaseConfig configures the SQLite results store
type DatabaseConfig struct {
	Enabled bool   `mapstructure:"enabled" toml:"enabled" json:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path" toml:"path" json:"path" yaml:"path"`
}

// OutputConfig controls what commands print and write
type OutputConfig struct {
	JSON        bool   `mapstructure:"json" toml:"json" json:"json" yaml:"json"`
	LogTheme    string `mapstructure:"log_theme" toml:"log_theme" json:"log_theme" yaml:"log_theme"`          // everforest, gruvbox
	MetricsPath string `mapstructure:"metrics_path" toml:"metrics_path" json:"metrics_path" yaml:"metrics_path"` // Prometheus text dump after a batch
	TraceDir    string `mapstructure:"trace_dir" toml:"trace_dir" json:"trace_dir" yaml:"trace_dir"`          // state/action export for single runs
}

// File system constants
const (
	DefaultDirPermissions  = 0755
	DefaultFilePermissions = 0644
)
