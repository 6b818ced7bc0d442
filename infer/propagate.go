// Package infer turns local observations into grid-wide deductions.
//
// Propagate is the shared deterministic primitive. Strategies decide how much
// work to spend beyond it: from nothing at all (NoOp) to hypothesis testing on
// disposable knowledge base branches (ContradictionTest, BoundedSAT, ExactSAT).
package infer

import (
	"github.com/teranos/gridsense/grid"
)

// Propagate applies the two counting rules around origin until nothing more
// follows, and reports false as soon as any visited cell is contradicted.
//
// For every visited 8-neighbour n of a cell taken from the worklist:
//
//	B(n) == C(n)       all Unsure neighbours of n are Free
//	E(n) == N(n)-C(n)  all Unsure neighbours of n are Blocked
//
// Each forced cell joins the worklist. A cell is pinned at most once per call,
// so total work is bounded by the grid size.
func Propagate(kb *grid.KnowledgeBase, origin grid.Point) bool {
	work := []grid.Point{origin}
	for len(work) > 0 {
		p := work[len(work)-1]
		work = work[:len(work)-1]

		for _, q := range p.Neighbors8() {
			n := kb.Cell(q)
			if n == nil || !n.Visited() {
				continue
			}
			if n.Contradicted() {
				return false
			}
			if n.Hidden() == 0 {
				continue
			}

			var forced grid.Sentiment
			switch {
			case n.AllBlockedFound():
				forced = grid.Free
			case n.AllEmptyFound():
				forced = grid.Blocked
			default:
				continue
			}

			for _, r := range q.Neighbors8() {
				if c := kb.Cell(r); c == nil || c.Sentiment() != grid.Unsure {
					continue
				}
				kb.SetSentiment(r, forced)
				work = append(work, r)
			}
		}
	}
	return true
}

// propagateAround seeds Propagate at p and at each of its in-bounds neighbours.
func propagateAround(kb *grid.KnowledgeBase, p grid.Point) bool {
	ok := Propagate(kb, p)
	for _, q := range p.Neighbors8() {
		if kb.InBounds(q) {
			ok = Propagate(kb, q) && ok
		}
	}
	return ok
}
