package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/gridsense/am"
	"github.com/teranos/gridsense/display"
)

// isolate runs a test in an empty home and working directory with JSON
// output captured.
func isolate(t *testing.T) (dir string, out *bytes.Buffer) {
	t.Helper()
	dir = t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv(display.EnvJSON, "true")
	t.Chdir(dir)
	am.Reset()
	t.Cleanup(am.Reset)

	out = &bytes.Buffer{}
	prev := display.Stdout
	display.Stdout = out
	t.Cleanup(func() { display.Stdout = prev })
	return dir, out
}

func execute(t *testing.T, run func(*cobra.Command, []string) error, addFlags func(*cobra.Command), args ...string) error {
	t.Helper()
	cmd := &cobra.Command{Use: "test", RunE: run, SilenceUsage: true, SilenceErrors: true}
	addFlags(cmd)
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestParseConfigValue(t *testing.T) {
	tests := []struct {
		raw  string
		want interface{}
	}{
		{"true", true},
		{"42", int64(42)},
		{"12.5", 12.5},
		{"basic, better", []string{"basic", "better"}},
		{"gruvbox", "gruvbox"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseConfigValue(tt.raw), tt.raw)
	}
}

func TestAgentLabel(t *testing.T) {
	assert.Equal(t, "basic", agentLabel("basic", "astar"))
	assert.Equal(t, "basic+weighted", agentLabel("basic", "weighted"))
}

func TestApplyFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	addBatchFlags(cmd)
	require.NoError(t, cmd.ParseFlags([]string{
		"--width", "12",
		"--seed", "9",
		"--min-density", "5",
		"--agents", "basic,better",
		"--db-path", "runs.db",
	}))

	cfg := am.Config{Grid: am.GridConfig{Width: 50, Height: 40}}
	applyFlags(cmd.Flags(), &cfg)

	assert.Equal(t, 12, cfg.Grid.Width)
	assert.Equal(t, 40, cfg.Grid.Height, "unchanged flags leave config alone")
	assert.Equal(t, int64(9), cfg.Maze.Seed)
	assert.Equal(t, 5.0, cfg.Batch.MinDensity)
	assert.Equal(t, []string{"basic", "better"}, cfg.Batch.Agents)
	assert.Equal(t, "runs.db", cfg.Database.Path)
	assert.True(t, cfg.Database.Enabled, "a database path implies saving")
}

func TestMazeCommand(t *testing.T) {
	_, out := isolate(t)

	args := []string{"--width", "6", "--height", "5", "--density", "20", "--seed", "42"}
	require.NoError(t, execute(t, runMaze, addMazeFlags, args...))

	var report mazeReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Equal(t, int64(42), report.Seed)
	assert.Equal(t, 6, report.Width)
	assert.Equal(t, 5, report.Height)
	assert.GreaterOrEqual(t, report.Attempts, 1)
	assert.Len(t, strings.Fields(report.Cells), 30)

	first := out.String()
	out.Reset()
	require.NoError(t, execute(t, runMaze, addMazeFlags, args...))
	assert.Equal(t, first, out.String(), "a fixed seed samples the same maze")

	err := execute(t, runMaze, addMazeFlags, "--format", "png")
	assert.Error(t, err)
}

func TestRunCommand(t *testing.T) {
	dir, out := isolate(t)
	traceDir := filepath.Join(dir, "trace")

	require.NoError(t, execute(t, runRun, addRunFlags,
		"--width", "8", "--height", "8", "--density", "15", "--seed", "7",
		"--strategy", "basic", "--planner", "weighted", "--trace-dir", traceDir))

	var report struct {
		Agent    string `json:"agent"`
		Seed     int64  `json:"seed"`
		Attempts int    `json:"attempts"`
		Trace    string `json:"trace_dir"`
		Stats    struct {
			Solved           bool    `json:"solved"`
			TrajectoryLength float64 `json:"trajectory_length"`
		} `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Equal(t, "basic+weighted", report.Agent)
	assert.Equal(t, int64(7), report.Seed)
	assert.True(t, report.Stats.Solved, "sampled mazes are solvable")
	assert.GreaterOrEqual(t, report.Stats.TrajectoryLength, 14.0)
	assert.Equal(t, traceDir, report.Trace)

	maze, err := os.ReadFile(filepath.Join(traceDir, traceMazeFile))
	require.NoError(t, err)
	assert.Len(t, strings.Fields(string(maze)), 64)

	states, err := os.ReadFile(filepath.Join(traceDir, traceStatesFile))
	require.NoError(t, err)
	actions, err := os.ReadFile(filepath.Join(traceDir, traceActionsFile))
	require.NoError(t, err)
	stateLines := strings.Split(strings.TrimSpace(string(states)), "\n")
	actionLines := strings.Split(strings.TrimSpace(string(actions)), "\n")
	assert.Len(t, stateLines, len(actionLines))
	assert.GreaterOrEqual(t, len(actionLines), 14)
	assert.Len(t, strings.Fields(stateLines[0]), 128)
}

func TestRunCommandRejectsUnknownStrategy(t *testing.T) {
	isolate(t)
	err := execute(t, runRun, addRunFlags, "--strategy", "psychic")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestBatchAndDbCommands(t *testing.T) {
	dir, out := isolate(t)
	dbPath := filepath.Join(dir, "runs.db")
	metricsPath := filepath.Join(dir, "batch.prom")

	require.NoError(t, execute(t, runBatch, addBatchFlags,
		"--width", "5", "--height", "5", "--iterations", "2",
		"--min-density", "0", "--max-density", "10", "--step", "10",
		"--agents", "basic,better", "--seed", "3",
		"--csv-dir", filepath.Join(dir, "csv"),
		"--db-path", dbPath, "--metrics", metricsPath))

	var report batchReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Equal(t, 8, report.Runs)
	assert.Equal(t, 4, report.Mazes)
	assert.Equal(t, int64(3), report.Seed)
	assert.Len(t, report.Summaries, 4, "one summary per agent and density")
	assert.Len(t, report.CSVFiles, 2)
	assert.Equal(t, dbPath, report.Database)

	prom, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "gridsense_runs_total")

	out.Reset()
	require.NoError(t, execute(t, runDbShow, addDbFlags, "--db-path", dbPath, report.BatchID))
	var records []map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &records))
	assert.Len(t, records, 8)

	err = execute(t, runDbShow, addDbFlags, "--db-path", dbPath, "no-such-batch")
	assert.Error(t, err)
}

func TestAmSetAndGet(t *testing.T) {
	dir, out := isolate(t)
	userScope = false

	amSet := func(cmd *cobra.Command) {}
	require.NoError(t, execute(t, runAmSet, amSet, "grid.width", "17"))
	assert.FileExists(t, filepath.Join(dir, "am.toml"))

	out.Reset()
	require.NoError(t, execute(t, runAmGet, amSet, "grid.width"))
	assert.JSONEq(t, `{"key":"grid.width","value":17}`, out.String())

	err := execute(t, runAmGet, amSet, "grid.depth")
	assert.Error(t, err)
}
