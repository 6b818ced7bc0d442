package grid

import (
	"math/rand"

	"github.com/teranos/gridsense/errors"
)

// Generate draws a random ground truth: every cell other than the start and
// goal corners is blocked with probability densityPercent/100.
func Generate(width, height int, densityPercent float64, rng *rand.Rand) (*KnowledgeBase, error) {
	if densityPercent < 0 || densityPercent > 100 {
		return nil, errors.NewInvalidRequestError("density must be within 0..100, got %g", densityPercent)
	}
	if rng == nil {
		return nil, errors.NewInvalidRequestError("generate requires a random source")
	}

	goal := Pt(width-1, height-1)
	p := densityPercent / 100
	return New(width, height, func(q Point) bool {
		if q == (Point{}) || q == goal {
			return false
		}
		return rng.Float64() < p
	})
}
