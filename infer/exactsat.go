package infer

import (
	"github.com/go-air/gini"
	"github.com/go-air/gini/z"

	"github.com/teranos/gridsense/grid"
)

// ExactSAT refutes a value when the knowledge base extended with it has no
// model at all. Each visited cell contributes "exactly C-B of my Unsure
// neighbours are blocked" as CNF cardinality clauses and the formula is
// decided by gini, so every entailed sentiment is found.
type ExactSAT struct{}

func (ExactSAT) Name() string { return NameExactSAT }

func (ExactSAT) Learn(kb *grid.KnowledgeBase, at grid.Point) {
	var (
		f    *formula
		seen = -1
	)
	resolve(kb, at, func(kb *grid.KnowledgeBase, q grid.Point, s grid.Sentiment) bool {
		// sentiments only get pinned, so the count identifies the state
		if n := kb.CountDetermined(); f == nil || n != seen {
			f, seen = encode(kb), n
		}
		return !f.admits(q, s)
	})
}

// formula is the CNF encoding of a knowledge base's sensed constraints.
type formula struct {
	solver *gini.Gini
	width  int
	unsat  bool
}

func encode(kb *grid.KnowledgeBase) *formula {
	f := &formula{solver: gini.New(), width: kb.Width()}

	kb.Each(func(c *grid.Cell) {
		if f.unsat || !c.Visited() {
			return
		}
		var unsure []z.Lit
		kb.EachNeighbor(c.Location(), func(n *grid.Cell) {
			if n.Sentiment() == grid.Unsure {
				unsure = append(unsure, f.lit(n.Location(), grid.Blocked))
			}
		})
		k := c.SensedBlocked() - c.ConfirmedBlocked()
		if k < 0 || k > len(unsure) {
			f.unsat = true
			return
		}
		f.exactly(unsure, k)
	})
	return f
}

// lit is the literal asserting p holds s.
func (f *formula) lit(p grid.Point, s grid.Sentiment) z.Lit {
	v := z.Var(p.Y*f.width + p.X + 1)
	if s == grid.Blocked {
		return v.Pos()
	}
	return v.Neg()
}

// exactly adds clauses forcing exactly k of lits true: no k+1 of them are all
// true, and no n-k+1 of them are all false.
func (f *formula) exactly(lits []z.Lit, k int) {
	n := len(lits)
	subsets(n, k+1, func(idx []int) {
		for _, i := range idx {
			f.solver.Add(lits[i].Not())
		}
		f.solver.Add(z.LitNull)
	})
	subsets(n, n-k+1, func(idx []int) {
		for _, i := range idx {
			f.solver.Add(lits[i])
		}
		f.solver.Add(z.LitNull)
	})
}

// admits reports whether some model assigns s to p. Callers only ask about
// Unsure neighbours of visited cells, whose variables always occur in a clause.
func (f *formula) admits(p grid.Point, s grid.Sentiment) bool {
	if f.unsat {
		return false
	}
	f.solver.Assume(f.lit(p, s))
	return f.solver.Solve() == 1
}

// subsets calls fn with every size-r subset of 0..n-1 in lexicographic order.
// Nothing is emitted when r > n or r <= 0.
func subsets(n, r int, fn func([]int)) {
	if r <= 0 || r > n {
		return
	}
	idx := make([]int, r)
	for i := range idx {
		idx[i] = i
	}
	for {
		fn(idx)
		i := r - 1
		for i >= 0 && idx[i] == n-r+i {
			i--
		}
		if i < 0 {
			return
		}
		idx[i]++
		for j := i + 1; j < r; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}
