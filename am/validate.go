package am

import (
	"github.com/teranos/gridsense/batch"
	"github.com/teranos/gridsense/errors"
	"github.com/teranos/gridsense/infer"
	"github.com/teranos/gridsense/logger"
	"github.com/teranos/gridsense/search"
)

// Validate checks that the configuration is valid. Every failure wraps
// errors.ErrInvalidRequest and names the offending key.
func (c *Config) Validate() error {
	if c.Grid.Width <= 0 || c.Grid.Height <= 0 {
		return errors.NewInvalidRequestError("grid.width and grid.height must be positive, got %dx%d", c.Grid.Width, c.Grid.Height)
	}
	if c.Grid.Density < 0 || c.Grid.Density > 100 {
		return errors.NewInvalidRequestError("grid.density must be within 0..100, got %g", c.Grid.Density)
	}

	if _, err := infer.New(c.Agent.Strategy, infer.Options{Depth: c.Agent.SATDepth}); err != nil {
		return errors.Wrap(err, "agent")
	}
	if _, err := search.ByName(c.Agent.Planner, c.Agent.Heuristic); err != nil {
		return errors.Wrap(err, "agent")
	}

	// Maze attempts: 0 = sampler default, negative = invalid
	if c.Maze.MaxAttempts < 0 {
		return errors.NewInvalidRequestError("maze.max_attempts must be >= 0, got %d", c.Maze.MaxAttempts)
	}

	if c.Batch.Iterations <= 0 {
		return errors.NewInvalidRequestError("batch.iterations must be > 0, got %d", c.Batch.Iterations)
	}
	if c.Batch.MinDensity < 0 || c.Batch.MaxDensity > 100 || c.Batch.MinDensity > c.Batch.MaxDensity {
		return errors.NewInvalidRequestError("batch densities must satisfy 0 <= min_density <= max_density <= 100, got %g..%g", c.Batch.MinDensity, c.Batch.MaxDensity)
	}
	if c.Batch.DensityStep < 0 {
		return errors.NewInvalidRequestError("batch.density_step must be >= 0, got %g", c.Batch.DensityStep)
	}
	// Workers: 0 = one per agent, negative = invalid
	if c.Batch.Workers < 0 {
		return errors.NewInvalidRequestError("batch.workers must be >= 0, got %d", c.Batch.Workers)
	}
	if _, err := batch.ParseAgents(c.Batch.Agents, infer.Options{Depth: c.Agent.SATDepth}, c.Agent.Heuristic); err != nil {
		return errors.Wrap(err, "batch.agents")
	}

	if c.Database.Enabled && c.Database.Path == "" {
		return errors.NewInvalidRequestError("database.path cannot be empty when database.enabled")
	}

	if theme := c.GetLogTheme(); !knownTheme(theme) {
		return errors.NewInvalidRequestError("output.log_theme must be one of %v, got %q", logger.Themes(), theme)
	}
	return nil
}

func knownTheme(name string) bool {
	for _, t := range logger.Themes() {
		if t == name {
			return true
		}
	}
	return false
}
