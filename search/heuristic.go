package search

import (
	"math"

	"github.com/teranos/gridsense/errors"
	"github.com/teranos/gridsense/grid"
)

// Heuristic estimates the remaining cost from a to b.
type Heuristic func(a, b grid.Point) float64

// Manhattan is exact on an empty grid with 4-directional moves.
func Manhattan(a, b grid.Point) float64 {
	return math.Abs(float64(a.X-b.X)) + math.Abs(float64(a.Y-b.Y))
}

func Euclidean(a, b grid.Point) float64 {
	return math.Hypot(float64(a.X-b.X), float64(a.Y-b.Y))
}

func Chebyshev(a, b grid.Point) float64 {
	return math.Max(math.Abs(float64(a.X-b.X)), math.Abs(float64(a.Y-b.Y)))
}

// Heuristic names accepted by HeuristicByName.
const (
	HeuristicManhattan = "manhattan"
	HeuristicEuclidean = "euclidean"
	HeuristicChebyshev = "chebyshev"
)

// HeuristicByName resolves a configured heuristic name.
func HeuristicByName(name string) (Heuristic, error) {
	switch name {
	case HeuristicManhattan, "":
		return Manhattan, nil
	case HeuristicEuclidean:
		return Euclidean, nil
	case HeuristicChebyshev:
		return Chebyshev, nil
	}
	return nil, errors.NewInvalidRequestError("unknown heuristic %q", name)
}
