// Package nav drives the agent from the start corner to the goal corner:
// plan a route on what it believes, walk it while sensing, learn after every
// move, and replan whenever the route turns out to be blocked.
package nav

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/gridsense/errors"
	"github.com/teranos/gridsense/grid"
	"github.com/teranos/gridsense/infer"
	"github.com/teranos/gridsense/logger"
	"github.com/teranos/gridsense/search"
)

// Step is one attempted move.
type Step struct {
	From grid.Point
	To   grid.Point
}

// Direction encodes the move as 0 up, 1 right, 2 down, 3 left.
func (s Step) Direction() int {
	switch {
	case s.To.Y < s.From.Y:
		return 0
	case s.To.X > s.From.X:
		return 1
	case s.To.Y > s.From.Y:
		return 2
	default:
		return 3
	}
}

// Options configure a Robot. Zero values select the blindfolded strategy,
// plain A* with the Manhattan heuristic, the wall clock and the "nav"
// component logger.
type Options struct {
	Strategy infer.Strategy
	Planner  search.Planner
	Clock    func() time.Time
	// OnStep runs before each attempted move is applied.
	OnStep func(r *Robot, s Step)
	Logger *zap.SugaredLogger
}

// Stats summarise one run.
type Stats struct {
	Solved bool `json:"solved"`
	// TrajectoryLength is the number of moves made, NaN when no path exists.
	TrajectoryLength float64       `json:"trajectory_length"`
	CellsExpanded    int           `json:"cells_expanded"`
	Bumps            int           `json:"bumps"`
	Plans            int           `json:"plans"`
	CellsDetermined  int           `json:"cells_determined"`
	Runtime          time.Duration `json:"-"` // marshalled as runtime_seconds
}

// Robot walks a knowledge base it owns. It is not safe for concurrent use.
type Robot struct {
	kb       *grid.KnowledgeBase
	observed *grid.KnowledgeBase
	pos      grid.Point
	goal     grid.Point
	opts     Options
	log      *zap.SugaredLogger
}

// NewRobot places a robot on the start corner of kb, which it marks Free and
// visited before learning once. kb is mutated by the robot from then on.
func NewRobot(kb *grid.KnowledgeBase, opts Options) (*Robot, error) {
	if kb == nil {
		return nil, errors.NewInvalidRequestError("robot requires a knowledge base")
	}
	if opts.Strategy == nil {
		opts.Strategy = infer.NoOp{}
	}
	if opts.Planner == nil {
		opts.Planner = search.NewAStar(search.Manhattan)
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	log := opts.Logger
	if log == nil {
		log = logger.ComponentLogger("nav")
	}

	r := &Robot{
		kb:       kb,
		observed: kb.Clone(true),
		pos:      kb.Start(),
		goal:     kb.Goal(),
		opts:     opts,
		log:      log.With(logger.FieldAgent, opts.Strategy.Name()),
	}

	r.observe(r.pos, grid.Free)
	r.visit(r.pos)
	opts.Strategy.Learn(r.kb, r.pos)
	return r, nil
}

func (r *Robot) Position() grid.Point { return r.pos }
func (r *Robot) Goal() grid.Point     { return r.goal }

// Knowledge is the knowledge base the strategy learns into.
func (r *Robot) Knowledge() *grid.KnowledgeBase { return r.kb }

// Observed holds only what the robot has seen first hand: cells it entered or
// bumped into, with no inference applied.
func (r *Robot) Observed() *grid.KnowledgeBase { return r.observed }

// Run plans and walks until the goal is reached or no believed-open path
// remains. Planner errors are returned; an unreachable goal is not an error.
func (r *Robot) Run() (Stats, error) {
	var stats Stats
	began := r.opts.Clock()

	for r.pos != r.goal {
		stats.Plans++
		res, err := r.opts.Planner.Search(r.pos, r.goal, r.kb, search.Believed)
		if err != nil {
			return stats, errors.Wrapf(err, "plan %d from %s", stats.Plans, r.pos)
		}
		stats.CellsExpanded += res.Expanded
		if !res.Found() {
			stats.TrajectoryLength = math.NaN()
			stats.Runtime = r.opts.Clock().Sub(began)
			r.log.Debugw("no path to goal",
				logger.FieldPosition, r.pos.String(),
				logger.FieldPlans, stats.Plans,
				logger.FieldBumps, stats.Bumps)
			return stats, nil
		}

		steps, bumped := r.walk(res.Path)
		stats.TrajectoryLength += float64(steps)
		if bumped {
			stats.Bumps++
		}
		r.log.Debugw("walked plan",
			logger.FieldPlans, stats.Plans,
			logger.FieldSteps, steps,
			logger.FieldExpanded, res.Expanded,
			"bumped", bumped)
	}

	stats.Solved = true
	stats.Runtime = r.opts.Clock().Sub(began)
	stats.CellsDetermined = r.kb.CountDetermined()
	return stats, nil
}

// walk follows path until it ends, a move bumps into a wall, or inference
// pins a later step Blocked. It returns the moves made and whether it bumped.
func (r *Robot) walk(path []grid.Point) (steps int, bumped bool) {
	for len(path) > 0 {
		next := path[0]
		if r.opts.OnStep != nil {
			r.opts.OnStep(r, Step{From: r.pos, To: next})
		}

		if r.kb.Cell(next).Obstructed() {
			r.observe(next, grid.Blocked)
			bumped = true
		} else {
			r.observe(next, grid.Free)
			r.pos = next
			r.visit(next)
			steps++
			path = path[1:]
		}
		r.opts.Strategy.Learn(r.kb, r.pos)

		if blockedAhead(r.kb, path) {
			return steps, bumped
		}
	}
	return steps, bumped
}

func blockedAhead(kb *grid.KnowledgeBase, path []grid.Point) bool {
	for _, p := range path {
		if kb.Cell(p).Sentiment() == grid.Blocked {
			return true
		}
	}
	return false
}

func (r *Robot) observe(p grid.Point, s grid.Sentiment) {
	r.kb.SetSentiment(p, s)
	r.observed.SetSentiment(p, s)
}

func (r *Robot) visit(p grid.Point) {
	r.kb.MarkVisited(p)
	r.observed.MarkVisited(p)
}
