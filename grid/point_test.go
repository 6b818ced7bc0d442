package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNeighborOrder(t *testing.T) {
	p := Pt(3, 3)

	assert.Equal(t, [4]Point{{4, 3}, {2, 3}, {3, 2}, {3, 4}}, p.Neighbors4())
	assert.Equal(t, [8]Point{
		{4, 3}, {4, 4}, {3, 4}, {2, 4},
		{2, 3}, {2, 2}, {3, 2}, {4, 2},
	}, p.Neighbors8())
}

func TestAdjacent4(t *testing.T) {
	p := Pt(1, 1)
	for _, q := range p.Neighbors4() {
		assert.True(t, p.Adjacent4(q), "%s", q)
	}
	assert.False(t, p.Adjacent4(Pt(2, 2)))
	assert.False(t, p.Adjacent4(p))
	assert.False(t, p.Adjacent4(Pt(3, 1)))
}

func TestSentiment(t *testing.T) {
	assert.Equal(t, Free, Blocked.Opposite())
	assert.Equal(t, Blocked, Free.Opposite())
	assert.Equal(t, Unsure, Unsure.Opposite())
	assert.False(t, Unsure.Pinned())
	assert.True(t, Blocked.Pinned())
	assert.Equal(t, "blocked", Blocked.String())
	assert.Equal(t, "(1,2)", Pt(1, 2).String())
}
