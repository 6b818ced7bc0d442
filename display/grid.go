// Package display renders knowledge bases, run statistics and batch summaries
// for the terminal, and decides when a command prints JSON instead.
package display

import (
	"strings"

	"github.com/pterm/pterm"

	"github.com/teranos/gridsense/grid"
	"github.com/teranos/gridsense/sym"
)

// GridOptions decorate a rendering. The zero value draws beliefs only.
type GridOptions struct {
	Position *grid.Point
	Path     []grid.Point
	// Truth draws actual obstacles instead of beliefs.
	Truth bool
}

var (
	styleAgent   = pterm.NewStyle(pterm.FgLightCyan, pterm.Bold)
	styleGoal    = pterm.NewStyle(pterm.FgLightGreen, pterm.Bold)
	styleBlocked = pterm.NewStyle(pterm.FgRed)
	styleFree    = pterm.NewStyle(pterm.FgGray)
	styleVisited = pterm.NewStyle(pterm.FgGreen)
	styleUnsure  = pterm.NewStyle(pterm.FgDarkGray)
	stylePath    = pterm.NewStyle(pterm.FgYellow)
)

// RenderGrid draws kb one row per line, one glyph per cell separated by a
// space. Position and goal take precedence over the path, which takes
// precedence over the cell's own state.
func RenderGrid(kb *grid.KnowledgeBase, opts GridOptions) string {
	onPath := make(map[grid.Point]bool, len(opts.Path))
	for _, p := range opts.Path {
		onPath[p] = true
	}

	var b strings.Builder
	for y := 0; y < kb.Height(); y++ {
		for x := 0; x < kb.Width(); x++ {
			if x > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(glyph(kb.At(x, y), kb.Goal(), onPath, opts))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func glyph(c *grid.Cell, goal grid.Point, onPath map[grid.Point]bool, opts GridOptions) string {
	p := c.Location()
	switch {
	case opts.Position != nil && *opts.Position == p:
		return styleAgent.Sprint(sym.Agent)
	case p == goal:
		return styleGoal.Sprint(sym.Goal)
	case onPath[p]:
		return stylePath.Sprint(sym.Path)
	}

	if opts.Truth {
		if c.Obstructed() {
			return styleBlocked.Sprint(sym.Blocked)
		}
		return styleFree.Sprint(sym.Free)
	}

	switch {
	case c.Visited():
		return styleVisited.Sprint(sym.Visited)
	case c.Sentiment() == grid.Blocked:
		return styleBlocked.Sprint(sym.Blocked)
	case c.Sentiment() == grid.Free:
		return styleFree.Sprint(sym.Free)
	default:
		return styleUnsure.Sprint(sym.Unsure)
	}
}

// Legend explains the glyphs RenderGrid uses.
func Legend() string {
	return strings.Join([]string{
		styleAgent.Sprint(sym.Agent) + " agent",
		styleGoal.Sprint(sym.Goal) + " goal",
		styleVisited.Sprint(sym.Visited) + " visited",
		styleFree.Sprint(sym.Free) + " free",
		styleBlocked.Sprint(sym.Blocked) + " blocked",
		styleUnsure.Sprint(sym.Unsure) + " unknown",
		stylePath.Sprint(sym.Path) + " path",
	}, "  ")
}
