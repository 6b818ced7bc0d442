package grid

import (
	"github.com/teranos/gridsense/errors"
)

// CheckInvariants recomputes every cell's derived counters from its neighbours
// and reports the first mismatch. A non-nil result is a bookkeeping defect and
// matches errors.ErrInvariant.
func (kb *KnowledgeBase) CheckInvariants() error {
	for _, c := range kb.cells {
		if err := kb.checkCell(c); err != nil {
			return err
		}
	}
	return nil
}

// checkAround verifies p and its 8-neighbours, the only cells a single
// SetSentiment can touch.
func (kb *KnowledgeBase) checkAround(p Point) error {
	if err := kb.checkCell(kb.Cell(p)); err != nil {
		return err
	}
	for _, q := range p.Neighbors8() {
		if c := kb.Cell(q); c != nil {
			if err := kb.checkCell(c); err != nil {
				return err
			}
		}
	}
	return nil
}

func (kb *KnowledgeBase) checkCell(c *Cell) error {
	var n, sensed, b, e int
	kb.EachNeighbor(c.loc, func(q *Cell) {
		n++
		if q.blocked {
			sensed++
		}
		switch q.sentiment {
		case Blocked:
			b++
		case Free:
			e++
		}
	})

	switch {
	case c.adjacent != n:
		return errors.NewInvariantError("cell %s: N=%d, want %d", c.loc, c.adjacent, n)
	case c.sensed != sensed:
		return errors.NewInvariantError("cell %s: C=%d, want %d", c.loc, c.sensed, sensed)
	case c.confirmedBlocked != b:
		return errors.NewInvariantError("cell %s: B=%d, want %d", c.loc, c.confirmedBlocked, b)
	case c.confirmedEmpty != e:
		return errors.NewInvariantError("cell %s: E=%d, want %d", c.loc, c.confirmedEmpty, e)
	case c.hidden != n-b-e:
		return errors.NewInvariantError("cell %s: H=%d, want %d", c.loc, c.hidden, n-b-e)
	}
	return nil
}
