package grid

// Cell is the per-location record held by a KnowledgeBase.
//
// Counters follow the usual notation:
//
//	N  adjacent   in-bounds 8-neighbours (fixed)
//	C  sensed     neighbours whose ground truth is blocked (fixed, revealed on visit)
//	B  confirmed  neighbours believed Blocked
//	E  confirmed  neighbours believed Free
//	H  hidden     neighbours still Unsure
//
// B + E + H == N holds at all times.
type Cell struct {
	loc       Point
	sentiment Sentiment
	blocked   bool
	visited   bool

	adjacent         int
	sensed           int
	confirmedBlocked int
	confirmedEmpty   int
	hidden           int

	owner uint64
}

func (c *Cell) Location() Point { return c.loc }
func (c *Cell) Sentiment() Sentiment { return c.sentiment }
func (c *Cell) Visited() bool { return c.visited }
func (c *Cell) Adjacent() int { return c.adjacent }
func (c *Cell) SensedBlocked() int { return c.sensed }
func (c *Cell) SensedEmpty() int { return c.adjacent - c.sensed }
func (c *Cell) ConfirmedBlocked() int { return c.confirmedBlocked }
func (c *Cell) ConfirmedEmpty() int { return c.confirmedEmpty }
func (c *Cell) Hidden() int { return c.hidden }
func (c *Cell) BelievedBlocked() bool { return c.sentiment == Blocked }
func (c *Cell) Determined() bool { return c.sentiment.Pinned() }
func (c *Cell) Contradicted() bool { return c.confirmedBlocked > c.sensed || c.confirmedEmpty > c.SensedEmpty() }
func (c *Cell) AllBlockedFound() bool { return c.confirmedBlocked == c.sensed }
func (c *Cell) AllEmptyFound() bool { return c.confirmedEmpty == c.SensedEmpty() }

// Obstructed reports the ground truth. Only movement and direct observation
// may consult it; inference works from sentiments and counters alone.
func (c *Cell) Obstructed() bool {
	return c.blocked
}

func (c *Cell) clone(owner uint64) *Cell {
	cp := *c
	cp.owner = owner
	return &cp
}

func (c *Cell) addConfirmed(s Sentiment, delta int) {
	switch s {
	case Blocked:
		c.confirmedBlocked += delta
	case Free:
		c.confirmedEmpty += delta
	default:
		return
	}
	c.hidden -= delta
}
