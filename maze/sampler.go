// Package maze samples random grids that are known to be solvable.
package maze

import (
	"math/rand"

	"github.com/teranos/gridsense/errors"
	"github.com/teranos/gridsense/grid"
	"github.com/teranos/gridsense/search"
)

// DefaultMaxAttempts bounds Sample when MaxAttempts is zero.
const DefaultMaxAttempts = 10000

// Sampler regenerates random grids until the goal corner is reachable from the
// start corner through cells that are actually open.
type Sampler struct {
	Width   int
	Height  int
	Density float64 // percent, 0..100
	// MaxAttempts caps regeneration; zero selects DefaultMaxAttempts.
	MaxAttempts int
	Rand        *rand.Rand
	// Planner checks solvability; nil selects plain A* with Manhattan distance.
	Planner search.Planner
}

// Sample returns a solvable grid and the number of grids drawn to find it.
// It fails with ErrUnsolvable once the attempt budget is spent.
func (s Sampler) Sample() (*grid.KnowledgeBase, int, error) {
	if s.Rand == nil {
		return nil, 0, errors.NewInvalidRequestError("maze sampler requires a random source")
	}
	planner := s.Planner
	if planner == nil {
		planner = search.NewAStar(search.Manhattan)
	}
	budget := s.MaxAttempts
	if budget <= 0 {
		budget = DefaultMaxAttempts
	}

	for attempt := 1; attempt <= budget; attempt++ {
		kb, err := grid.Generate(s.Width, s.Height, s.Density, s.Rand)
		if err != nil {
			return nil, attempt, err
		}
		if kb.Start() == kb.Goal() {
			return kb, attempt, nil
		}
		res, err := planner.Search(kb.Start(), kb.Goal(), kb, search.Truth)
		if err != nil {
			return nil, attempt, errors.Wrap(err, "solvability check")
		}
		if res.Found() {
			return kb, attempt, nil
		}
	}

	return nil, budget, errors.WithHintf(
		errors.Wrapf(errors.ErrUnsolvable, "no solvable %dx%d maze at %g%% density in %d attempts", s.Width, s.Height, s.Density, budget),
		"lower grid.density or raise maze.max_attempts")
}
