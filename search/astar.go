// Package search plans routes over a knowledge base with A*.
package search

import (
	"container/heap"
	"math"

	"github.com/teranos/gridsense/errors"
	"github.com/teranos/gridsense/grid"
)

// Planner names accepted by ByName.
const (
	PlannerAStar    = "astar"
	PlannerWeighted = "weighted"
)

// Result is the outcome of one search.
type Result struct {
	// Path runs from the cell after start up to and including goal.
	// nil when goal is unreachable.
	Path []grid.Point
	// Cost is the number of moves on Path, NaN when unreachable.
	Cost float64
	// Expanded counts cells popped from the frontier.
	Expanded int
}

// Found reports whether a path was found.
func (r Result) Found() bool { return r.Path != nil }

// Planner finds a route from start to goal avoiding cells for which blocked
// returns true. An unreachable goal is a normal Result, not an error.
type Planner interface {
	Search(start, goal grid.Point, kb *grid.KnowledgeBase, blocked func(*grid.Cell) bool) (Result, error)
}

// Believed treats cells the agent believes blocked as walls.
func Believed(c *grid.Cell) bool { return c.Sentiment() == grid.Blocked }

// Truth treats actually blocked cells as walls.
func Truth(c *grid.Cell) bool { return c.Obstructed() }

// AStar is a 4-directional, unit-cost A* search. Among equal f it prefers the
// lower h, then the earlier discovery.
type AStar struct {
	heuristic Heuristic
	weighted  bool
}

// NewAStar returns the standard planner. With an admissible heuristic its
// paths are shortest.
func NewAStar(h Heuristic) *AStar {
	if h == nil {
		h = Manhattan
	}
	return &AStar{heuristic: h}
}

// NewConfidenceAStar returns a planner that pulls the frontier toward cells
// that look safe:
//
//	f = max(0, g + h - confidence(cell)*scale), scale = width/10
//
// The discount is not admissible and the paths it returns need not be
// shortest. On grids narrower than ten cells the scale is zero and it behaves
// like NewAStar.
func NewConfidenceAStar(h Heuristic) *AStar {
	a := NewAStar(h)
	a.weighted = true
	return a
}

// ByName builds a planner from configured planner and heuristic names.
func ByName(planner, heuristic string) (*AStar, error) {
	h, err := HeuristicByName(heuristic)
	if err != nil {
		return nil, err
	}
	switch planner {
	case PlannerAStar, "":
		return NewAStar(h), nil
	case PlannerWeighted:
		return NewConfidenceAStar(h), nil
	}
	return nil, errors.NewInvalidRequestError("unknown planner %q", planner)
}

// Weighted reports whether the confidence discount is applied.
func (a *AStar) Weighted() bool { return a.weighted }

func (a *AStar) Search(start, goal grid.Point, kb *grid.KnowledgeBase, blocked func(*grid.Cell) bool) (Result, error) {
	if !kb.InBounds(start) || !kb.InBounds(goal) {
		return Result{}, errors.NewInvalidRequestError("search endpoints %s -> %s outside %dx%d grid", start, goal, kb.Width(), kb.Height())
	}
	if start == goal {
		return Result{}, errors.NewInvalidRequestError("search start and goal coincide at %s", start)
	}

	scale := 0.0
	if a.weighted {
		scale = float64(kb.Width() / 10)
	}

	var (
		nodes    = make(map[grid.Point]*node)
		open     frontier
		seq      int
		expanded int
	)
	push := func(n *node) {
		seq++
		n.seq = seq
		heap.Push(&open, n)
	}
	score := func(n *node) {
		n.f = float64(n.g) + n.h
		if scale > 0 {
			n.f = math.Max(0, n.f-kb.Confidence(n.p)*scale)
		}
	}

	root := &node{p: start, h: a.heuristic(start, goal)}
	score(root)
	nodes[start] = root
	push(root)

	for open.Len() > 0 {
		cur := heap.Pop(&open).(*node)
		expanded++

		if cur.p == goal {
			return Result{Path: cur.path(), Cost: float64(cur.g), Expanded: expanded}, nil
		}

		for _, q := range cur.p.Neighbors4() {
			c := kb.Cell(q)
			if c == nil || blocked(c) {
				continue
			}
			g := cur.g + 1
			n, seen := nodes[q]
			switch {
			case !seen:
				n = &node{p: q, g: g, h: a.heuristic(q, goal), parent: cur}
				score(n)
				nodes[q] = n
				push(n)
			case g < n.g:
				n.g, n.parent = g, cur
				score(n)
				if n.index >= 0 {
					heap.Fix(&open, n.index)
				} else {
					// reopened: only reachable when the discount is inconsistent
					push(n)
				}
			}
		}
	}

	return Result{Cost: math.NaN(), Expanded: expanded}, nil
}
