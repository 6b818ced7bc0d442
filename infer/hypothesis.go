package infer

import (
	"github.com/teranos/gridsense/grid"
)

// hypotheses is the order candidates are tried in.
var hypotheses = [2]grid.Sentiment{grid.Blocked, grid.Free}

// refuter reports whether assigning s to q is inconsistent with kb.
// It must leave kb untouched.
type refuter func(kb *grid.KnowledgeBase, q grid.Point, s grid.Sentiment) bool

// resolve runs the deterministic pass and then tests every Unsure neighbour of
// every open cell against both values. A refuted value pins the other one on
// kb. Scanning repeats until a full pass pins nothing, since each new fact can
// expose more.
func resolve(kb *grid.KnowledgeBase, at grid.Point, refutes refuter) {
	propagateAround(kb, at)

	for changed := true; changed; {
		changed = false
		for _, open := range openCells(kb) {
			for _, q := range open.Neighbors8() {
				if c := kb.Cell(q); c == nil || c.Sentiment() != grid.Unsure {
					continue
				}
				for _, s := range hypotheses {
					if !refutes(kb, q, s) {
						continue
					}
					kb.SetSentiment(q, s.Opposite())
					Propagate(kb, q)
					changed = true
					break
				}
			}
		}
	}
}

// openCells lists visited cells with at least one Unsure neighbour, row-major.
func openCells(kb *grid.KnowledgeBase) []grid.Point {
	var open []grid.Point
	kb.Each(func(c *grid.Cell) {
		if c.Visited() && c.Hidden() > 0 {
			open = append(open, c.Location())
		}
	})
	return open
}

// firstOpen returns the first open cell in row-major order.
func firstOpen(kb *grid.KnowledgeBase) (grid.Point, bool) {
	for y := 0; y < kb.Height(); y++ {
		for x := 0; x < kb.Width(); x++ {
			if c := kb.At(x, y); c.Visited() && c.Hidden() > 0 {
				return c.Location(), true
			}
		}
	}
	return grid.Point{}, false
}

// branch returns a disposable copy of kb with s assigned to q and propagated,
// and whether that propagation stayed consistent.
func branch(kb *grid.KnowledgeBase, q grid.Point, s grid.Sentiment) (*grid.KnowledgeBase, bool) {
	b := kb.Clone(false)
	b.SetSentiment(q, s)
	return b, Propagate(b, q)
}

// ContradictionTest refutes a value when a single propagation pass on a
// branch holding it reaches a contradiction.
type ContradictionTest struct{}

func (ContradictionTest) Name() string { return NameBetter }

func (ContradictionTest) Learn(kb *grid.KnowledgeBase, at grid.Point) {
	resolve(kb, at, func(kb *grid.KnowledgeBase, q grid.Point, s grid.Sentiment) bool {
		_, ok := branch(kb, q, s)
		return !ok
	})
}
