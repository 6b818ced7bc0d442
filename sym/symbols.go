// Package sym defines the glyphs gridsense prints in the CLI and in grid
// renderings. They are stable across commands, logs and documentation.
package sym

// Command glyphs mark the top-level commands and their log lines.
const (
	Run   = "⊙" // run: one agent, one maze
	Batch = "꩜" // batch: density sweeps
	Maze  = "▦" // maze: solvable maze sampling
	AM    = "≡" // am: configuration
	DB    = "⊔" // database/storage layer
)

// Cell glyphs used when drawing a knowledge base.
const (
	Agent   = "◉" // current position
	Goal    = "◎" // goal corner
	Blocked = "█" // believed blocked
	Free    = "·" // believed free, not yet entered
	Visited = "•" // entered by the agent
	Unsure  = "░" // nothing known yet
	Path    = "○" // planned route
)

// SymbolToCommand maps command glyphs to command names.
var SymbolToCommand = map[string]string{
	Run:   "run",
	Batch: "batch",
	Maze:  "maze",
	AM:    "am",
	DB:    "db",
}

// CommandToSymbol maps command names to their glyphs.
var CommandToSymbol = map[string]string{
	"run":   Run,
	"batch": Batch,
	"maze":  Maze,
	"am":    AM,
	"db":    DB,
}

// CommandDescriptions are the one-line summaries shown in help output.
var CommandDescriptions = map[string]string{
	"run":   "Run one agent through one sampled maze",
	"batch": "Sweep obstacle densities across every configured agent",
	"maze":  "Sample and print a solvable maze",
	"am":    "Show and validate configuration",
	"db":    "Inspect stored batch results",
}

// Short builds a command's help line: glyph, then description.
func Short(command string) string {
	return CommandToSymbol[command] + " " + CommandDescriptions[command]
}

// CellGlyphs lists the cell glyphs in legend order.
var CellGlyphs = []string{Agent, Goal, Visited, Free, Blocked, Unsure, Path}
