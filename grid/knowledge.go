// Package grid holds the agent's knowledge base: a rectangular array of cells
// carrying both ground truth and belief, shared between copies on a
// copy-on-write basis so hypothesis branches are cheap to create and discard.
package grid

import (
	"strings"
	"sync/atomic"

	"github.com/teranos/gridsense/errors"
)

var lastID atomic.Uint64

func nextID() uint64 {
	return lastID.Add(1)
}

// KnowledgeBase is a width×height array of cells with an identity of its own.
//
// Cells may be shared with other knowledge bases. A cell is only mutated by the
// knowledge base that owns it; the first write through any other instance
// replaces the shared pointer with a private copy (see AcquireForWrite).
//
// A KnowledgeBase is not safe for concurrent mutation. Concurrent readers of a
// knowledge base nobody is writing to are fine, which is what parallel batches
// rely on when each run takes its own deep clone.
type KnowledgeBase struct {
	id     uint64
	width  int
	height int
	cells  []*Cell
}

// New builds a knowledge base whose ground truth is given by obstructed.
// Every cell starts Unsure and unvisited; sensed counts are derived from the
// ground truth of each cell's in-bounds 8-neighbours.
func New(width, height int, obstructed func(Point) bool) (*KnowledgeBase, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.NewInvalidRequestError("grid dimensions must be positive, got %dx%d", width, height)
	}

	kb := &KnowledgeBase{
		id:     nextID(),
		width:  width,
		height: height,
		cells:  make([]*Cell, width*height),
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			p := Pt(x, y)
			n := 0
			for _, q := range p.Neighbors8() {
				if kb.InBounds(q) {
					n++
				}
			}
			kb.cells[kb.index(p)] = &Cell{
				loc:      p,
				blocked:  obstructed != nil && obstructed(p),
				adjacent: n,
				hidden:   n,
				owner:    kb.id,
			}
		}
	}

	// second pass: C for every cell
	for _, c := range kb.cells {
		if !c.blocked {
			continue
		}
		for _, q := range c.loc.Neighbors8() {
			if kb.InBounds(q) {
				kb.cells[kb.index(q)].sensed++
			}
		}
	}

	return kb, nil
}

// Parse builds a knowledge base from a picture, one string per row.
// '#', 'X' and 'x' mark blocked cells; '.', ' ', 'o', 'S' and 'G' mark free ones.
func Parse(rows ...string) (*KnowledgeBase, error) {
	if len(rows) == 0 {
		return nil, errors.NewInvalidRequestError("layout has no rows")
	}
	width := len(rows[0])
	blocked := make(map[Point]bool)
	for y, row := range rows {
		if len(row) != width {
			return nil, errors.NewInvalidRequestError("layout row %d has width %d, want %d", y, len(row), width)
		}
		for x, ch := range row {
			switch ch {
			case '#', 'X', 'x':
				blocked[Pt(x, y)] = true
			case '.', ' ', 'o', 'S', 'G':
			default:
				return nil, errors.NewInvalidRequestError("layout row %d has unknown cell %q", y, ch)
			}
		}
	}
	return New(width, len(rows), func(p Point) bool { return blocked[p] })
}

func (kb *KnowledgeBase) index(p Point) int {
	return p.Y*kb.width + p.X
}

// ID returns the identity used for copy-on-write ownership.
func (kb *KnowledgeBase) ID() uint64 { return kb.id }

func (kb *KnowledgeBase) Width() int  { return kb.width }
func (kb *KnowledgeBase) Height() int { return kb.height }

// Start and Goal are the opposite corners the navigation loop travels between.
func (kb *KnowledgeBase) Start() Point { return Pt(0, 0) }
func (kb *KnowledgeBase) Goal() Point  { return Pt(kb.width-1, kb.height-1) }

// InBounds reports whether p lies inside the grid.
func (kb *KnowledgeBase) InBounds(p Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < kb.width && p.Y < kb.height
}

// Cell returns the cell at p for reading, or nil outside the grid.
// The returned cell may be shared with other knowledge bases and must not be
// retained across writes to this one.
func (kb *KnowledgeBase) Cell(p Point) *Cell {
	if !kb.InBounds(p) {
		return nil
	}
	return kb.cells[kb.index(p)]
}

// At is Cell(Pt(x, y)).
func (kb *KnowledgeBase) At(x, y int) *Cell {
	return kb.Cell(Pt(x, y))
}

// AcquireForWrite returns the cell at p guaranteed to be owned by kb,
// cloning it first if another knowledge base owns the stored pointer.
// Returns nil outside the grid.
func (kb *KnowledgeBase) AcquireForWrite(p Point) *Cell {
	if !kb.InBounds(p) {
		return nil
	}
	i := kb.index(p)
	c := kb.cells[i]
	if c.owner != kb.id {
		c = c.clone(kb.id)
		kb.cells[i] = c
	}
	return c
}

// SetSentiment pins the belief at p and keeps the neighbours' B/E/H counters
// in step. A previously pinned value is first withdrawn from the neighbours.
// Setting the current value again is a no-op, as is any p outside the grid.
func (kb *KnowledgeBase) SetSentiment(p Point, s Sentiment) {
	current := kb.Cell(p)
	if current == nil || current.sentiment == s {
		return
	}
	cell := kb.AcquireForWrite(p)

	if old := cell.sentiment; old.Pinned() {
		kb.ForEachNeighbor(p, func(n *Cell) { n.addConfirmed(old, -1) })
	}
	cell.sentiment = s
	if s.Pinned() {
		kb.ForEachNeighbor(p, func(n *Cell) { n.addConfirmed(s, 1) })
	}

	if debugChecks {
		if err := kb.checkAround(p); err != nil {
			panic(err)
		}
	}
}

// MarkVisited records that the agent has stood on p and can therefore read its
// sensed count.
func (kb *KnowledgeBase) MarkVisited(p Point) {
	if c := kb.Cell(p); c == nil || c.visited {
		return
	}
	kb.AcquireForWrite(p).visited = true
}

// ForEachNeighbor applies fn to every in-bounds 8-neighbour of p, acquiring
// each one for write first. Use EachNeighbor when only reading.
func (kb *KnowledgeBase) ForEachNeighbor(p Point, fn func(*Cell)) {
	for _, q := range p.Neighbors8() {
		if c := kb.AcquireForWrite(q); c != nil {
			fn(c)
		}
	}
}

// EachNeighbor applies fn to every in-bounds 8-neighbour of p without
// acquiring ownership. fn must not mutate the cells.
func (kb *KnowledgeBase) EachNeighbor(p Point, fn func(*Cell)) {
	for _, q := range p.Neighbors8() {
		if c := kb.Cell(q); c != nil {
			fn(c)
		}
	}
}

// Each visits every cell in row-major order for reading.
func (kb *KnowledgeBase) Each(fn func(*Cell)) {
	for _, c := range kb.cells {
		fn(c)
	}
}

// Clone returns a new knowledge base with its own identity.
//
// A shallow clone shares every cell with kb and defers copying to the first
// write through the clone. Because kb still owns the shared cells, kb must not
// be written to while a shallow clone is in use; hypothesis branches satisfy
// this by living only inside a single inference call.
//
// A deep clone copies every cell up front and owns them immediately.
func (kb *KnowledgeBase) Clone(deep bool) *KnowledgeBase {
	cp := &KnowledgeBase{
		id:     nextID(),
		width:  kb.width,
		height: kb.height,
		cells:  make([]*Cell, len(kb.cells)),
	}
	if !deep {
		copy(cp.cells, kb.cells)
		return cp
	}
	for i, c := range kb.cells {
		cp.cells[i] = c.clone(cp.id)
	}
	return cp
}

// CountDetermined returns how many cells have a pinned sentiment.
func (kb *KnowledgeBase) CountDetermined() int {
	n := 0
	for _, c := range kb.cells {
		if c.sentiment.Pinned() {
			n++
		}
	}
	return n
}

// Confidence scores how safe p looks to walk through: 0 when believed blocked,
// 1 when believed free, and for Unsure cells 1 − min(25, ΣC)/25 where ΣC sums
// the sensed counts of p's visited neighbours.
func (kb *KnowledgeBase) Confidence(p Point) float64 {
	c := kb.Cell(p)
	if c == nil {
		return 0
	}
	switch c.sentiment {
	case Blocked:
		return 0
	case Free:
		return 1
	}
	sum := 0
	kb.EachNeighbor(p, func(n *Cell) {
		if n.visited {
			sum += n.sensed
		}
	})
	return 1 - float64(min(25, sum))/25
}

// String draws the ground truth, one row per line.
func (kb *KnowledgeBase) String() string {
	var b strings.Builder
	for y := 0; y < kb.height; y++ {
		for x := 0; x < kb.width; x++ {
			if kb.At(x, y).blocked {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
