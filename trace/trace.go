// Package trace encodes runs as state/action pairs for offline training.
//
// A state is two layers over the grid in row-major order, space separated:
//
//	occupancy  2 robot, 3 goal, otherwise the observed sentiment (-1, 0, 1)
//	sensory    C for visited cells, 0 elsewhere
//
// The action is the direction of the attempted move (0 up, 1 right, 2 down,
// 3 left). States are built from the robot's observed knowledge base, so
// nothing inferred leaks into the training data.
package trace

import (
	"io"
	"strconv"
	"strings"

	"github.com/teranos/gridsense/errors"
	"github.com/teranos/gridsense/grid"
	"github.com/teranos/gridsense/nav"
)

const (
	occupancyRobot = 2
	occupancyGoal  = 3
)

// State encodes both layers for a robot at pos heading to goal.
func State(observed *grid.KnowledgeBase, pos, goal grid.Point) []int {
	n := observed.Width() * observed.Height()
	out := make([]int, 0, 2*n)
	observed.Each(func(c *grid.Cell) {
		switch c.Location() {
		case pos:
			out = append(out, occupancyRobot)
		case goal:
			out = append(out, occupancyGoal)
		default:
			out = append(out, int(c.Sentiment()))
		}
	})
	observed.Each(func(c *grid.Cell) {
		if c.Visited() {
			out = append(out, c.SensedBlocked())
		} else {
			out = append(out, 0)
		}
	})
	return out
}

// Maze encodes the ground truth as 1 for blocked and 0 for open, row-major.
func Maze(kb *grid.KnowledgeBase) string {
	vals := make([]int, 0, kb.Width()*kb.Height())
	kb.Each(func(c *grid.Cell) {
		if c.Obstructed() {
			vals = append(vals, 1)
		} else {
			vals = append(vals, 0)
		}
	})
	return join(vals)
}

// Recorder writes one state line and one action line per attempted move.
// Its Record method fits nav.Options.OnStep.
type Recorder struct {
	states  io.Writer
	actions io.Writer
	steps   int
	err     error
}

func NewRecorder(states, actions io.Writer) *Recorder {
	return &Recorder{states: states, actions: actions}
}

// Record encodes the robot's situation before s is applied. After the first
// write error Record does nothing; see Err.
func (r *Recorder) Record(rb *nav.Robot, s nav.Step) {
	if r.err != nil {
		return
	}
	state := join(State(rb.Observed(), s.From, rb.Goal()))
	if _, err := io.WriteString(r.states, state+"\n"); err != nil {
		r.err = errors.Wrap(err, "failed to write trace state")
		return
	}
	if _, err := io.WriteString(r.actions, strconv.Itoa(s.Direction())+"\n"); err != nil {
		r.err = errors.Wrap(err, "failed to write trace action")
		return
	}
	r.steps++
}

// Steps returns how many pairs were written.
func (r *Recorder) Steps() int { return r.steps }

// Err returns the first write error.
func (r *Recorder) Err() error { return r.err }

func join(vals []int) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, " ")
}
