package batch

import (
	"strings"

	"github.com/teranos/gridsense/errors"
	"github.com/teranos/gridsense/infer"
	"github.com/teranos/gridsense/search"
)

const weightedSuffix = "+" + search.PlannerWeighted

// Agent pairs an inference strategy with a planner. Its Name is the label used
// in records and CSV file names, e.g. "basic" or "better+weighted".
type Agent struct {
	Name     string
	Strategy infer.Strategy
	Planner  search.Planner
}

// ParseAgent builds an agent from "<strategy>" or "<strategy>+weighted".
func ParseAgent(spec string, opts infer.Options, heuristic string) (Agent, error) {
	name := strings.TrimSpace(spec)
	planner := search.PlannerAStar
	strategyName := name
	if strings.HasSuffix(name, weightedSuffix) {
		planner = search.PlannerWeighted
		strategyName = strings.TrimSuffix(name, weightedSuffix)
	}

	strategy, err := infer.New(strategyName, opts)
	if err != nil {
		return Agent{}, errors.Wrapf(err, "agent %q", spec)
	}
	p, err := search.ByName(planner, heuristic)
	if err != nil {
		return Agent{}, errors.Wrapf(err, "agent %q", spec)
	}
	return Agent{Name: name, Strategy: strategy, Planner: p}, nil
}

// ParseAgents parses every spec and rejects duplicates.
func ParseAgents(specs []string, opts infer.Options, heuristic string) ([]Agent, error) {
	if len(specs) == 0 {
		return nil, errors.NewInvalidRequestError("batch needs at least one agent")
	}
	seen := make(map[string]bool, len(specs))
	agents := make([]Agent, 0, len(specs))
	for _, spec := range specs {
		a, err := ParseAgent(spec, opts, heuristic)
		if err != nil {
			return nil, err
		}
		if seen[a.Name] {
			return nil, errors.NewInvalidRequestError("agent %q listed twice", a.Name)
		}
		seen[a.Name] = true
		agents = append(agents, a)
	}
	return agents, nil
}
