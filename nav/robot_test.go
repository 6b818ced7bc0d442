package nav

import (
	"encoding/json"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/teranos/gridsense/grid"
	"github.com/teranos/gridsense/infer"
	gstest "github.com/teranos/gridsense/internal/testing"
	"github.com/teranos/gridsense/search"
)

// tickingClock advances one second per reading.
func tickingClock() func() time.Time {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}

func TestRunOpenGrid(t *testing.T) {
	kb := gstest.Layout(t,
		".....",
		".....",
		".....",
		".....",
		".....",
	)

	var steps []Step
	r, err := NewRobot(kb, Options{
		Strategy: infer.NoOp{},
		Clock:    tickingClock(),
		OnStep:   func(_ *Robot, s Step) { steps = append(steps, s) },
		Logger:   zaptest.NewLogger(t).Sugar(),
	})
	require.NoError(t, err)

	stats, err := r.Run()
	require.NoError(t, err)

	assert.True(t, stats.Solved)
	assert.Equal(t, 8.0, stats.TrajectoryLength)
	assert.Equal(t, 1, stats.Plans)
	assert.Equal(t, 0, stats.Bumps)
	assert.Equal(t, 9, stats.CellsDetermined)
	assert.Equal(t, time.Second, stats.Runtime)
	assert.Equal(t, kb.Goal(), r.Position())

	require.Len(t, steps, 8)
	assert.Equal(t, kb.Start(), steps[0].From)
	for _, s := range steps {
		assert.True(t, s.From.Adjacent4(s.To))
		assert.Contains(t, []int{1, 2}, s.Direction(), "only right and down on an open grid")
	}
}

func TestRunBumpsIntoWall(t *testing.T) {
	kb := gstest.Layout(t,
		"..#..",
		".....",
		".....",
		".....",
		".....",
	)
	r, err := NewRobot(kb, Options{Logger: zaptest.NewLogger(t).Sugar()})
	require.NoError(t, err)

	stats, err := r.Run()
	require.NoError(t, err)

	assert.True(t, stats.Solved)
	assert.Equal(t, 1, stats.Bumps)
	assert.Equal(t, 2, stats.Plans)
	assert.Equal(t, 8.0, stats.TrajectoryLength)
	assert.Equal(t, grid.Blocked, kb.At(2, 0).Sentiment())
	assert.Equal(t, grid.Blocked, r.Observed().At(2, 0).Sentiment())
	assert.Equal(t, kb.CountDetermined(), stats.CellsDetermined)
	assert.Equal(t, 10, stats.CellsDetermined, "nine cells walked plus the wall")
	require.NoError(t, kb.CheckInvariants())
}

func TestRunUnreachableGoal(t *testing.T) {
	kb := gstest.Layout(t,
		"..#",
		".#.",
		"#..",
	)
	r, err := NewRobot(kb, Options{
		Strategy: infer.Constraint{},
		Logger:   zaptest.NewLogger(t).Sugar(),
	})
	require.NoError(t, err)

	stats, err := r.Run()
	require.NoError(t, err)

	assert.False(t, stats.Solved)
	assert.True(t, math.IsNaN(stats.TrajectoryLength))
	assert.GreaterOrEqual(t, stats.Plans, 1)
	assert.Equal(t, 0, stats.CellsDetermined)
}

func TestObservedHoldsNoInference(t *testing.T) {
	kb := gstest.Layout(t,
		".....",
		".....",
		".....",
	)
	r, err := NewRobot(kb, Options{
		Strategy: infer.Constraint{},
		Logger:   zaptest.NewLogger(t).Sugar(),
	})
	require.NoError(t, err)

	_, err = r.Run()
	require.NoError(t, err)

	assert.Greater(t, kb.CountDetermined(), r.Observed().CountDetermined())
	r.Observed().Each(func(c *grid.Cell) {
		if c.Determined() {
			assert.True(t, c.Visited() || c.Sentiment() == grid.Blocked, "cell %s", c.Location())
		}
	})
}

func TestEveryStrategyReachesGoal(t *testing.T) {
	names := infer.Names()
	for seed := int64(1); seed <= 15; seed++ {
		rng := rand.New(rand.NewSource(seed))
		truth, err := grid.Generate(10, 10, 25, rng)
		require.NoError(t, err)

		res, err := search.NewAStar(search.Manhattan).Search(truth.Start(), truth.Goal(), truth, search.Truth)
		require.NoError(t, err)
		if !res.Found() {
			continue
		}

		for _, name := range names {
			for _, planner := range []search.Planner{search.NewAStar(search.Manhattan), search.NewConfidenceAStar(search.Manhattan)} {
				strategy, err := infer.New(name, infer.Options{})
				require.NoError(t, err)

				kb := truth.Clone(true)
				r, err := NewRobot(kb, Options{Strategy: strategy, Planner: planner, Logger: zaptest.NewLogger(t).Sugar()})
				require.NoError(t, err)

				stats, err := r.Run()
				require.NoError(t, err)
				require.True(t, stats.Solved, "seed %d %s", seed, name)
				assert.GreaterOrEqual(t, stats.TrajectoryLength, float64(len(res.Path)))
				require.NoError(t, kb.CheckInvariants())

				kb.Each(func(c *grid.Cell) {
					if c.Determined() {
						assert.Equal(t, c.Obstructed(), c.Sentiment() == grid.Blocked,
							"seed %d %s misjudged %s", seed, name, c.Location())
					}
				})
			}
		}
	}
}

func TestStepDirection(t *testing.T) {
	from := grid.Pt(2, 2)
	tests := []struct {
		to   grid.Point
		want int
	}{
		{grid.Pt(2, 1), 0},
		{grid.Pt(3, 2), 1},
		{grid.Pt(2, 3), 2},
		{grid.Pt(1, 2), 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Step{From: from, To: tt.to}.Direction(), "to %s", tt.to)
	}
}

func TestNewRobotRequiresKnowledge(t *testing.T) {
	_, err := NewRobot(nil, Options{})
	assert.Error(t, err)
}

func TestStatsJSON(t *testing.T) {
	data, err := json.Marshal(Stats{TrajectoryLength: math.NaN(), Plans: 2, Runtime: 1500 * time.Millisecond})
	require.NoError(t, err)
	assert.JSONEq(t, `{"solved":false,"trajectory_length":null,"cells_expanded":0,"bumps":0,"plans":2,"cells_determined":0,"runtime_seconds":1.5}`, string(data))
}

func TestRunLogsUnreachableGoal(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	kb := gstest.Layout(t,
		"..#",
		".#.",
		"#..",
	)
	r, err := NewRobot(kb, Options{Strategy: infer.Constraint{}, Logger: zap.New(core).Sugar()})
	require.NoError(t, err)

	_, err = r.Run()
	require.NoError(t, err)

	entries := logs.FilterMessage("no path to goal").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "basic", fields["agent"])
	assert.Contains(t, fields, "plans")
	assert.Contains(t, fields, "bumps")
}
