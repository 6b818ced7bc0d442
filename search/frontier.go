package search

import "github.com/teranos/gridsense/grid"

type node struct {
	p      grid.Point
	g      int
	h      float64
	f      float64
	seq    int
	parent *node
	index  int // position in the frontier, -1 once popped
}

// path walks parents back to the start, which it leaves out.
func (n *node) path() []grid.Point {
	depth := 0
	for m := n; m.parent != nil; m = m.parent {
		depth++
	}
	out := make([]grid.Point, depth)
	for m := n; m.parent != nil; m = m.parent {
		depth--
		out[depth] = m.p
	}
	return out
}

// frontier is a min-heap ordered by (f, h, seq) implementing heap.Interface.
type frontier []*node

func (f frontier) Len() int { return len(f) }

func (f frontier) Less(i, j int) bool {
	a, b := f[i], f[j]
	if a.f != b.f {
		return a.f < b.f
	}
	if a.h != b.h {
		return a.h < b.h
	}
	return a.seq < b.seq
}

func (f frontier) Swap(i, j int) {
	f[i], f[j] = f[j], f[i]
	f[i].index = i
	f[j].index = j
}

func (f *frontier) Push(x any) {
	n := x.(*node)
	n.index = len(*f)
	*f = append(*f, n)
}

func (f *frontier) Pop() any {
	old := *f
	n := old[len(old)-1]
	old[len(old)-1] = nil
	n.index = -1
	*f = old[:len(old)-1]
	return n
}
