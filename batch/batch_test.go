package batch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/teranos/gridsense/errors"
	"github.com/teranos/gridsense/infer"
	"github.com/teranos/gridsense/metrics"
	"github.com/teranos/gridsense/results"
)

func fixedClock() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }

func smallConfig() Config {
	return Config{
		Width:       5,
		Height:      5,
		Iterations:  2,
		MinDensity:  0,
		MaxDensity:  20,
		DensityStep: 10,
		Workers:     3,
		Agents:      []string{"basic", "better+weighted"},
		SATDepth:    infer.DefaultDepth,
		Seed:        42,
	}
}

type recordingEmitter struct {
	mu       sync.Mutex
	stages   []string
	progress []int
	complete map[string]interface{}
	errs     []error
}

func (e *recordingEmitter) EmitStage(stage, _ string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stages = append(e.stages, stage)
}

func (e *recordingEmitter) EmitProgress(count int, _ map[string]interface{}) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.progress = append(e.progress, count)
}

func (e *recordingEmitter) EmitComplete(summary map[string]interface{}) { e.complete = summary }
func (e *recordingEmitter) EmitError(_ string, err error)              { e.errs = append(e.errs, err) }
func (e *recordingEmitter) EmitInfo(string)                            {}

func TestDensities(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want []float64
	}{
		{"sweep", Config{MinDensity: 0, MaxDensity: 30, DensityStep: 10}, []float64{0, 10, 20, 30}},
		{"uneven", Config{MinDensity: 5, MaxDensity: 12, DensityStep: 5}, []float64{5, 10}},
		{"fractional step", Config{MinDensity: 0, MaxDensity: 0.3, DensityStep: 0.1}, []float64{0, 0.1, 0.2, 0.3}},
		{"no step", Config{MinDensity: 25, MaxDensity: 30}, []float64{25}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.Densities())
		})
	}
}

func TestParseAgent(t *testing.T) {
	a, err := ParseAgent("better+weighted", infer.Options{}, "")
	require.NoError(t, err)
	assert.Equal(t, "better+weighted", a.Name)
	assert.Equal(t, infer.NameBetter, a.Strategy.Name())

	a, err = ParseAgent("blindfolded", infer.Options{}, "chebyshev")
	require.NoError(t, err)
	assert.Equal(t, infer.NameBlindfolded, a.Strategy.Name())

	_, err = ParseAgent("clairvoyant", infer.Options{}, "")
	assert.True(t, errors.IsInvalidRequestError(err))

	_, err = ParseAgents([]string{"basic", "basic"}, infer.Options{}, "")
	assert.True(t, errors.IsInvalidRequestError(err))

	_, err = ParseAgents(nil, infer.Options{}, "")
	assert.True(t, errors.IsInvalidRequestError(err))
}

func TestNewRunnerValidates(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Width = 0 }},
		{"no iterations", func(c *Config) { c.Iterations = 0 }},
		{"density above 100", func(c *Config) { c.MaxDensity = 120 }},
		{"negative workers", func(c *Config) { c.Workers = -1 }},
		{"unknown agent", func(c *Config) { c.Agents = []string{"psychic"} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := smallConfig()
			tt.mutate(&cfg)
			_, err := NewRunner(cfg)
			assert.True(t, errors.IsInvalidRequestError(err))
		})
	}
}

func TestRunSweep(t *testing.T) {
	emitter := &recordingEmitter{}
	m := metrics.New()
	r, err := NewRunner(smallConfig(),
		WithEmitter(emitter),
		WithMetrics(m),
		WithClock(fixedClock),
		WithLogger(zaptest.NewLogger(t).Sugar()))
	require.NoError(t, err)

	res, err := r.Run(context.Background())
	require.NoError(t, err)

	// three densities, two mazes each, two agents
	require.Len(t, res.Records, 12)
	assert.Equal(t, 6, res.Mazes)
	assert.Equal(t, int64(42), res.Seed)
	assert.NotEmpty(t, res.BatchID)

	runIDs := map[string]bool{}
	for i, rec := range res.Records {
		assert.Equal(t, res.BatchID, rec.BatchID)
		assert.Equal(t, []string{"basic", "better+weighted"}[i%2], rec.Agent, "record %d", i)
		assert.Equal(t, []float64{0, 10, 20}[i/4], rec.Probability, "record %d", i)
		assert.True(t, rec.Solved, "sampled mazes are solvable and agents are complete")
		assert.Equal(t, 5, rec.Width)
		assert.False(t, runIDs[rec.RunID], "run ids are unique")
		runIDs[rec.RunID] = true
	}

	assert.Equal(t, []string{"density", "density", "density"}, emitter.stages)
	require.NotEmpty(t, emitter.progress)
	assert.Equal(t, 12, emitter.progress[len(emitter.progress)-1])
	assert.Equal(t, res.BatchID, emitter.complete["batch_id"])
	assert.Empty(t, emitter.errs)

	var text strings.Builder
	require.NoError(t, m.WriteText(&text))
	assert.Contains(t, text.String(), `gridsense_runs_total{agent="basic",solved="true"} 6`)
	assert.Contains(t, text.String(), "gridsense_maze_attempts_count 6")
}

func TestRunIsReproducible(t *testing.T) {
	run := func() []results.Record {
		r, err := NewRunner(smallConfig(), WithClock(fixedClock), WithLogger(zaptest.NewLogger(t).Sugar()))
		require.NoError(t, err)
		res, err := r.Run(context.Background())
		require.NoError(t, err)
		for i := range res.Records {
			res.Records[i].BatchID = ""
			res.Records[i].RunID = ""
		}
		return res.Records
	}
	assert.Equal(t, run(), run())
}

func TestRunUnsolvableDensity(t *testing.T) {
	cfg := smallConfig()
	cfg.Width, cfg.Height = 3, 3
	cfg.MinDensity, cfg.MaxDensity = 100, 100
	cfg.MaxAttempts = 5

	emitter := &recordingEmitter{}
	r, err := NewRunner(cfg, WithEmitter(emitter), WithLogger(zaptest.NewLogger(t).Sugar()))
	require.NoError(t, err)

	_, err = r.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnsolvable))
	assert.Len(t, emitter.errs, 1)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r, err := NewRunner(smallConfig(), WithLogger(zaptest.NewLogger(t).Sugar()))
	require.NoError(t, err)
	_, err = r.Run(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestWriteCSVs(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	recs := []results.Record{
		{Agent: "basic", Probability: 10, Solved: true, TrajectoryLength: 8},
		{Agent: "better+weighted", Probability: 10, Solved: true, TrajectoryLength: 8},
		{Agent: "basic", Probability: 20, Solved: true, TrajectoryLength: 9},
	}

	paths, err := WriteCSVs(dir, recs)
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(dir, "basic.csv"),
		filepath.Join(dir, "better+weighted.csv"),
	}, paths)

	data, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 3, "header plus two basic runs")
	assert.True(t, strings.HasPrefix(lines[2], "20,true,"))
}
