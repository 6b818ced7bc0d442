package grid

// Sentiment is the agent's belief about whether a cell is blocked.
// Values match the encoding used in state traces.
type Sentiment int8

const (
	Blocked Sentiment = -1
	Unsure  Sentiment = 0
	Free    Sentiment = 1
)

func (s Sentiment) String() string {
	switch s {
	case Blocked:
		return "blocked"
	case Free:
		return "free"
	default:
		return "unsure"
	}
}

// Pinned reports whether the sentiment is Free or Blocked.
func (s Sentiment) Pinned() bool {
	return s != Unsure
}

// Opposite returns the other pinned value. Unsure maps to itself.
func (s Sentiment) Opposite() Sentiment {
	return -s
}
