package testing

import (
	"testing"

	"github.com/teranos/gridsense/grid"
)

// Layout builds a knowledge base from a text picture (see grid.Parse).
func Layout(t *testing.T, rows ...string) *grid.KnowledgeBase {
	t.Helper()

	kb, err := grid.Parse(rows...)
	if err != nil {
		t.Fatalf("Failed to parse layout: %v", err)
	}
	return kb
}

// Visit pins each point Free and marks it visited, as if the agent had
// stood there.
func Visit(kb *grid.KnowledgeBase, pts ...grid.Point) {
	for _, p := range pts {
		kb.SetSentiment(p, grid.Free)
		kb.MarkVisited(p)
	}
}

// Sentiments returns every cell's belief in row-major order.
func Sentiments(kb *grid.KnowledgeBase) []grid.Sentiment {
	out := make([]grid.Sentiment, 0, kb.Width()*kb.Height())
	kb.Each(func(c *grid.Cell) {
		out = append(out, c.Sentiment())
	})
	return out
}
