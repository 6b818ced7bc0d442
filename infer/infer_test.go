package infer

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/gridsense/errors"
	"github.com/teranos/gridsense/grid"
	gstest "github.com/teranos/gridsense/internal/testing"
)

// oneTwoOne is stuck for plain propagation: the row below the unknowns reads
// 1-2-1, and only refuting the middle cell as Blocked unlocks the rest.
func oneTwoOne(t *testing.T) *grid.KnowledgeBase {
	kb := gstest.Layout(t,
		"#.#",
		"...",
		"...",
	)
	for y := 1; y < 3; y++ {
		for x := 0; x < 3; x++ {
			gstest.Visit(kb, grid.Pt(x, y))
		}
	}
	return kb
}

func TestPropagate(t *testing.T) {
	t.Run("forces free when all blocked are found", func(t *testing.T) {
		kb := gstest.Layout(t,
			"...",
			"...",
			"...",
		)
		gstest.Visit(kb, grid.Pt(0, 0))

		require.True(t, Propagate(kb, grid.Pt(1, 0)))
		assert.Equal(t, grid.Free, kb.At(1, 0).Sentiment())
		assert.Equal(t, grid.Free, kb.At(1, 1).Sentiment())
		assert.Equal(t, grid.Free, kb.At(0, 1).Sentiment())
		assert.Equal(t, grid.Unsure, kb.At(2, 2).Sentiment())
		require.NoError(t, kb.CheckInvariants())
	})

	t.Run("forces blocked when all empty are found", func(t *testing.T) {
		kb := gstest.Layout(t,
			"..",
			".#",
		)
		gstest.Visit(kb, grid.Pt(0, 0), grid.Pt(1, 0), grid.Pt(0, 1))

		require.True(t, Propagate(kb, grid.Pt(0, 0)))
		assert.Equal(t, grid.Blocked, kb.At(1, 1).Sentiment())
	})

	t.Run("reports contradiction", func(t *testing.T) {
		kb := gstest.Layout(t,
			"..",
			"..",
		)
		gstest.Visit(kb, grid.Pt(0, 0))
		kb.SetSentiment(grid.Pt(1, 1), grid.Blocked)

		assert.False(t, Propagate(kb, grid.Pt(1, 1)))
	})

	t.Run("ignores unvisited cells", func(t *testing.T) {
		kb := gstest.Layout(t,
			"...",
			"...",
		)
		require.True(t, Propagate(kb, grid.Pt(1, 0)))
		assert.Equal(t, 0, kb.CountDetermined())
	})
}

func TestPropagateIsIdempotent(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		rng := rand.New(rand.NewSource(seed))
		kb, err := grid.Generate(7, 7, 25, rng)
		require.NoError(t, err)

		kb.Each(func(c *grid.Cell) {
			if !c.Obstructed() && rng.Intn(3) == 0 {
				gstest.Visit(kb, c.Location())
			}
		})
		origin := grid.Pt(rng.Intn(7), rng.Intn(7))

		require.True(t, Propagate(kb, origin), "seed %d", seed)
		before := gstest.Sentiments(kb)
		require.True(t, Propagate(kb, origin), "seed %d", seed)
		assert.Equal(t, before, gstest.Sentiments(kb), "seed %d", seed)
		require.NoError(t, kb.CheckInvariants())
	}
}

func TestConstraintStopsAtOneTwoOne(t *testing.T) {
	kb := oneTwoOne(t)
	Constraint{}.Learn(kb, grid.Pt(1, 1))

	for x := 0; x < 3; x++ {
		assert.Equal(t, grid.Unsure, kb.At(x, 0).Sentiment(), "x=%d", x)
	}
}

func TestContradictionTestResolvesOneTwoOne(t *testing.T) {
	kb := oneTwoOne(t)

	b, ok := branch(kb, grid.Pt(1, 0), grid.Blocked)
	require.False(t, ok, "middle cell cannot be blocked")
	assert.Equal(t, grid.Unsure, kb.At(1, 0).Sentiment(), "branch must not leak")
	assert.True(t, b.At(0, 1).Contradicted())

	want := entailed(kb)
	require.Equal(t, map[grid.Point]grid.Sentiment{
		grid.Pt(0, 0): grid.Blocked,
		grid.Pt(1, 0): grid.Free,
		grid.Pt(2, 0): grid.Blocked,
	}, want)

	ContradictionTest{}.Learn(kb, grid.Pt(1, 1))
	for p, s := range want {
		assert.Equal(t, s, kb.Cell(p).Sentiment(), "cell %s", p)
	}
	require.NoError(t, kb.CheckInvariants())
}

func TestStrategiesAgreeOnOneTwoOne(t *testing.T) {
	for _, s := range []Strategy{ContradictionTest{}, BoundedSAT{Depth: 2}, BoundedSAT{Depth: -1}, ExactSAT{}} {
		t.Run(s.Name(), func(t *testing.T) {
			kb := oneTwoOne(t)
			s.Learn(kb, grid.Pt(1, 1))
			assert.Equal(t, grid.Blocked, kb.At(0, 0).Sentiment())
			assert.Equal(t, grid.Free, kb.At(1, 0).Sentiment())
			assert.Equal(t, grid.Blocked, kb.At(2, 0).Sentiment())
		})
	}
}

func TestSatisfiable(t *testing.T) {
	// middle cell wrongly pinned Blocked: no completion exists
	kb := oneTwoOne(t)
	kb.SetSentiment(grid.Pt(1, 0), grid.Blocked)
	before := gstest.Sentiments(kb)

	assert.False(t, Satisfiable(kb, -1))
	assert.False(t, Satisfiable(kb, 1))
	assert.True(t, Satisfiable(kb, 0), "an exhausted budget counts as satisfiable")
	assert.Equal(t, before, gstest.Sentiments(kb), "snapshot must not be written")

	assert.True(t, Satisfiable(oneTwoOne(t), -1))
}

func TestDirectObservation(t *testing.T) {
	kb := gstest.Layout(t,
		".#.",
		"#..",
		"...",
	)
	DirectObservation{}.Learn(kb, grid.Pt(1, 1))

	assert.Equal(t, grid.Blocked, kb.At(1, 0).Sentiment())
	assert.Equal(t, grid.Blocked, kb.At(0, 1).Sentiment())
	assert.Equal(t, grid.Free, kb.At(2, 1).Sentiment())
	assert.Equal(t, grid.Free, kb.At(1, 2).Sentiment())
	assert.Equal(t, grid.Unsure, kb.At(0, 0).Sentiment(), "diagonals are not observed")
	require.NoError(t, kb.CheckInvariants())
}

func TestNoOp(t *testing.T) {
	kb := oneTwoOne(t)
	before := gstest.Sentiments(kb)
	NoOp{}.Learn(kb, grid.Pt(1, 1))
	assert.Equal(t, before, gstest.Sentiments(kb))
}

// TestStrategiesAreSound checks every strategy against brute-force
// enumeration on small random grids: whatever they pin is entailed, and
// ExactSAT pins everything that is.
func TestStrategiesAreSound(t *testing.T) {
	strategies := []Strategy{Constraint{}, ContradictionTest{}, BoundedSAT{Depth: 2}, BoundedSAT{Depth: -1}, ExactSAT{}}

	for seed := int64(1); seed <= 40; seed++ {
		rng := rand.New(rand.NewSource(seed))
		truth, err := grid.Generate(4, 4, 30, rng)
		require.NoError(t, err)

		var visited []grid.Point
		truth.Each(func(c *grid.Cell) {
			if !c.Obstructed() && rng.Intn(2) == 0 {
				visited = append(visited, c.Location())
			}
		})
		if len(visited) == 0 {
			continue
		}
		at := visited[rng.Intn(len(visited))]

		base := truth.Clone(true)
		gstest.Visit(base, visited...)
		want := entailed(base)

		for _, s := range strategies {
			kb := base.Clone(true)
			s.Learn(kb, at)
			require.NoError(t, kb.CheckInvariants())

			kb.Each(func(c *grid.Cell) {
				p := c.Location()
				if base.Cell(p).Determined() || !c.Determined() {
					return
				}
				assert.Equal(t, want[p], c.Sentiment(), "seed %d %s pinned %s", seed, s.Name(), p)
			})

			if s.Name() == NameExactSAT {
				for p, v := range want {
					assert.Equal(t, v, kb.Cell(p).Sentiment(), "seed %d exact-sat missed %s", seed, p)
				}
			}
		}
	}
}

func TestNew(t *testing.T) {
	for _, name := range Names() {
		s, err := New(name, Options{})
		require.NoError(t, err)
		assert.Equal(t, name, s.Name())
	}

	s, err := New(NameBoundedSAT, Options{})
	require.NoError(t, err)
	assert.Equal(t, BoundedSAT{Depth: DefaultDepth}, s)

	s, err = New(NameBoundedSAT, Options{Depth: -1})
	require.NoError(t, err)
	assert.Equal(t, BoundedSAT{Depth: -1}, s)

	_, err = New("psychic", Options{})
	require.Error(t, err)
	assert.True(t, errors.IsInvalidRequestError(err))
	assert.NotEmpty(t, errors.GetAllHints(err))

	_, err = New(NameBoundedSAT, Options{Depth: -2})
	assert.True(t, errors.IsInvalidRequestError(err))
}

func TestSubsets(t *testing.T) {
	var got [][]int
	subsets(4, 2, func(idx []int) {
		got = append(got, append([]int(nil), idx...))
	})
	assert.Equal(t, [][]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}}, got)

	calls := 0
	subsets(3, 4, func([]int) { calls++ })
	subsets(3, 0, func([]int) { calls++ })
	assert.Zero(t, calls)
}

// entailed enumerates every assignment of the Unsure cells next to visited
// cells and returns the values shared by all assignments consistent with the
// sensed counts.
func entailed(kb *grid.KnowledgeBase) map[grid.Point]grid.Sentiment {
	var frontier []grid.Point
	kb.Each(func(c *grid.Cell) {
		if c.Sentiment() != grid.Unsure {
			return
		}
		near := false
		kb.EachNeighbor(c.Location(), func(n *grid.Cell) { near = near || n.Visited() })
		if near {
			frontier = append(frontier, c.Location())
		}
	})

	index := make(map[grid.Point]int, len(frontier))
	for i, p := range frontier {
		index[p] = i
	}
	blockedIn := func(mask int, p grid.Point) bool {
		if i, ok := index[p]; ok {
			return mask&(1<<i) != 0
		}
		return kb.Cell(p).Sentiment() == grid.Blocked
	}

	var models []int
	for mask := 0; mask < 1<<len(frontier); mask++ {
		ok := true
		kb.Each(func(c *grid.Cell) {
			if !ok || !c.Visited() {
				return
			}
			n := 0
			kb.EachNeighbor(c.Location(), func(q *grid.Cell) {
				if blockedIn(mask, q.Location()) {
					n++
				}
			})
			ok = n == c.SensedBlocked()
		})
		if ok {
			models = append(models, mask)
		}
	}

	out := make(map[grid.Point]grid.Sentiment)
	for i, p := range frontier {
		always, never := true, true
		for _, m := range models {
			if m&(1<<i) != 0 {
				never = false
			} else {
				always = false
			}
		}
		switch {
		case len(models) == 0:
		case always:
			out[p] = grid.Blocked
		case never:
			out[p] = grid.Free
		}
	}
	return out
}
