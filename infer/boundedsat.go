package infer

import (
	"github.com/teranos/gridsense/grid"
)

// BoundedSAT refutes a value when no completion of the knowledge base holding
// it survives a depth-limited backtracking search.
//
// The search is an approximation. When Depth decisions have been made without
// a contradiction the branch counts as satisfiable, so some values that no
// full assignment supports are never refuted. Depth -1 removes the bound.
type BoundedSAT struct {
	Depth int
}

func (BoundedSAT) Name() string { return NameBoundedSAT }

func (s BoundedSAT) Learn(kb *grid.KnowledgeBase, at grid.Point) {
	resolve(kb, at, func(kb *grid.KnowledgeBase, q grid.Point, v grid.Sentiment) bool {
		b, ok := branch(kb, q, v)
		return !ok || !Satisfiable(b, s.Depth)
	})
}

// decision is one pending branch of the completion search: a snapshot to
// assign value at point on, with depth decisions left after it.
type decision struct {
	kb    *grid.KnowledgeBase
	point grid.Point
	value grid.Sentiment
	depth int
}

// Satisfiable searches for an assignment of the Unsure cells around visited
// cells that contradicts no sensed count, making at most depth free decisions
// (-1 for no limit). It picks the first open cell in row-major order, takes its
// first Unsure neighbour, and tries Blocked before Free, propagating each.
//
// kb itself is never written; every decision works on its own snapshot.
func Satisfiable(kb *grid.KnowledgeBase, depth int) bool {
	var stack []decision

	expand := func(kb *grid.KnowledgeBase, depth int) bool {
		if depth == 0 {
			return true
		}
		open, ok := firstOpen(kb)
		if !ok {
			return true
		}
		q, _ := firstUnsure(kb, open)
		// LIFO: Blocked is explored first
		stack = append(stack,
			decision{kb.Clone(false), q, grid.Free, depth - 1},
			decision{kb.Clone(false), q, grid.Blocked, depth - 1},
		)
		return false
	}

	if expand(kb, depth) {
		return true
	}
	for len(stack) > 0 {
		d := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		d.kb.SetSentiment(d.point, d.value)
		if !Propagate(d.kb, d.point) {
			continue
		}
		if expand(d.kb, d.depth) {
			return true
		}
	}
	return false
}

func firstUnsure(kb *grid.KnowledgeBase, p grid.Point) (grid.Point, bool) {
	for _, q := range p.Neighbors8() {
		if c := kb.Cell(q); c != nil && c.Sentiment() == grid.Unsure {
			return q, true
		}
	}
	return grid.Point{}, false
}
