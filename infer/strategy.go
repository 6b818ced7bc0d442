package infer

import (
	"sort"

	"github.com/teranos/gridsense/errors"
	"github.com/teranos/gridsense/grid"
)

// Strategy is the agent's learn step. Learn is called with the agent's
// current location after every move and after every bump, and mutates kb in
// place. Implementations never revert a pinned sentiment.
type Strategy interface {
	Name() string
	Learn(kb *grid.KnowledgeBase, at grid.Point)
}

// Strategy names accepted by New.
const (
	NameBlindfolded   = "blindfolded"
	NameFourNeighbour = "four-neighbour"
	NameBasic         = "basic"
	NameBetter        = "better"
	NameBoundedSAT    = "bounded-sat"
	NameExactSAT      = "exact-sat"
)

// DefaultDepth is the BoundedSAT depth used when Options leaves it unset.
const DefaultDepth = 2

// Options tunes strategies that take parameters.
type Options struct {
	// Depth bounds BoundedSAT's free decisions; -1 means unbounded, 0 selects DefaultDepth.
	Depth int
}

var registry = map[string]func(Options) Strategy{
	NameBlindfolded:   func(Options) Strategy { return NoOp{} },
	NameFourNeighbour: func(Options) Strategy { return DirectObservation{} },
	NameBasic:         func(Options) Strategy { return Constraint{} },
	NameBetter:        func(Options) Strategy { return ContradictionTest{} },
	NameBoundedSAT: func(o Options) Strategy {
		if o.Depth == 0 {
			o.Depth = DefaultDepth
		}
		return BoundedSAT{Depth: o.Depth}
	},
	NameExactSAT: func(Options) Strategy { return ExactSAT{} },
}

// New returns the strategy registered under name.
func New(name string, opts Options) (Strategy, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, errors.WithHintf(
			errors.NewInvalidRequestError("unknown strategy %q", name),
			"valid strategies: %v", Names())
	}
	if opts.Depth < -1 {
		return nil, errors.NewInvalidRequestError("depth must be -1 or greater, got %d", opts.Depth)
	}
	return ctor(opts), nil
}

// Names lists the registered strategy names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NoOp learns nothing. The agent only finds walls by walking into them.
type NoOp struct{}

func (NoOp) Name() string                          { return NameBlindfolded }
func (NoOp) Learn(*grid.KnowledgeBase, grid.Point) {}

// DirectObservation looks at the four cardinal neighbours and pins what it sees.
// No inference is drawn from the observation.
type DirectObservation struct{}

func (DirectObservation) Name() string { return NameFourNeighbour }

func (DirectObservation) Learn(kb *grid.KnowledgeBase, at grid.Point) {
	for _, q := range at.Neighbors4() {
		c := kb.Cell(q)
		if c == nil {
			continue
		}
		if c.Obstructed() {
			kb.SetSentiment(q, grid.Blocked)
		} else {
			kb.SetSentiment(q, grid.Free)
		}
	}
}

// Constraint runs one deterministic propagation pass around the agent.
type Constraint struct{}

func (Constraint) Name() string { return NameBasic }

func (Constraint) Learn(kb *grid.KnowledgeBase, at grid.Point) {
	propagateAround(kb, at)
}
