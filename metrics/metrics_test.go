package metrics

import (
	"bytes"
	"math"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/gridsense/results"
)

func TestObserve(t *testing.T) {
	m := New()
	m.Observe(results.Record{Agent: "basic", Solved: true, TrajectoryLength: 10, Bumps: 2, Plans: 3, CellsExpanded: 40, CellsDetermined: 20, RuntimeSeconds: 0.01})
	m.Observe(results.Record{Agent: "basic", Solved: false, TrajectoryLength: math.NaN(), Plans: 5, CellsExpanded: 12})
	m.Observe(results.Record{Agent: "better", Solved: true, TrajectoryLength: 8, Plans: 1, CellsExpanded: 9})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues("basic", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues("basic", "false")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.bumps.WithLabelValues("basic")))
	assert.Equal(t, 8.0, testutil.ToFloat64(m.plans.WithLabelValues("basic")))
	assert.Equal(t, 52.0, testutil.ToFloat64(m.expanded.WithLabelValues("basic")))
	// one series per agent; the unsolved basic run adds no observation
	assert.Equal(t, 2, testutil.CollectAndCount(m.trajectory))
	assert.Equal(t, 3, testutil.CollectAndCount(m.runs))
}

func TestWriteText(t *testing.T) {
	m := New()
	m.Observe(results.Record{Agent: "exact-sat", Solved: true, TrajectoryLength: 12, Plans: 2})
	m.ObserveMaze(3)

	var buf bytes.Buffer
	require.NoError(t, m.WriteText(&buf))

	out := buf.String()
	assert.Contains(t, out, "# TYPE gridsense_runs_total counter")
	assert.Contains(t, out, `gridsense_runs_total{agent="exact-sat",solved="true"} 1`)
	assert.Contains(t, out, "gridsense_maze_attempts_count 1")
	assert.Contains(t, out, "gridsense_trajectory_length_sum{agent=\"exact-sat\"} 12")
}
