// Package batch sweeps obstacle densities, samples solvable mazes and runs
// every configured agent on each of them in parallel.
package batch

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/teranos/gridsense/errors"
	"github.com/teranos/gridsense/grid"
	"github.com/teranos/gridsense/infer"
	"github.com/teranos/gridsense/logger"
	"github.com/teranos/gridsense/maze"
	"github.com/teranos/gridsense/metrics"
	"github.com/teranos/gridsense/nav"
	"github.com/teranos/gridsense/results"
)

// Config describes one sweep.
type Config struct {
	Width       int
	Height      int
	Iterations  int // mazes per density
	MinDensity  float64
	MaxDensity  float64
	DensityStep float64
	Workers     int // zero means one worker per agent
	Agents      []string
	SATDepth    int
	Heuristic   string
	MaxAttempts int
	// Seed drives maze sampling; maze i uses Seed+i. Zero draws one from the clock.
	Seed int64
}

// Densities lists the swept densities in increasing order. A non-positive step
// yields MinDensity alone.
func (c Config) Densities() []float64 {
	if c.DensityStep <= 0 || c.MaxDensity <= c.MinDensity {
		return []float64{c.MinDensity}
	}
	var out []float64
	for i := 0; ; i++ {
		d := c.MinDensity + float64(i)*c.DensityStep
		d = math.Round(d*1e9) / 1e9
		if d > c.MaxDensity {
			return out
		}
		out = append(out, d)
	}
}

// Result is everything a finished sweep produced.
type Result struct {
	BatchID string
	Seed    int64
	// Records are ordered by density, then maze, then agent as configured.
	Records  []results.Record
	Mazes    int
	Duration time.Duration
}

// Runner executes sweeps. A Runner may be reused; each Run gets a fresh batch ID.
type Runner struct {
	cfg     Config
	agents  []Agent
	emitter ProgressEmitter
	metrics *metrics.Metrics
	log     *zap.SugaredLogger
	clock   func() time.Time

	mu sync.Mutex // serialises emitter calls
}

// Option customises a Runner.
type Option func(*Runner)

func WithEmitter(e ProgressEmitter) Option { return func(r *Runner) { r.emitter = e } }

// WithMetrics observes every run and maze into m.
func WithMetrics(m *metrics.Metrics) Option { return func(r *Runner) { r.metrics = m } }

func WithLogger(l *zap.SugaredLogger) Option { return func(r *Runner) { r.log = l } }

// WithClock replaces time.Now for run timing and seeding.
func WithClock(clock func() time.Time) Option { return func(r *Runner) { r.clock = clock } }

func NewRunner(cfg Config, opts ...Option) (*Runner, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, errors.NewInvalidRequestError("grid must be at least 1x1, got %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Iterations <= 0 {
		return nil, errors.NewInvalidRequestError("iterations must be positive, got %d", cfg.Iterations)
	}
	if cfg.MinDensity < 0 || cfg.MaxDensity > 100 {
		return nil, errors.NewInvalidRequestError("densities must lie within 0..100, got %g..%g", cfg.MinDensity, cfg.MaxDensity)
	}
	if cfg.Workers < 0 {
		return nil, errors.NewInvalidRequestError("workers must not be negative, got %d", cfg.Workers)
	}
	agents, err := ParseAgents(cfg.Agents, infer.Options{Depth: cfg.SATDepth}, cfg.Heuristic)
	if err != nil {
		return nil, err
	}

	r := &Runner{
		cfg:     cfg,
		agents:  agents,
		emitter: SilentEmitter{},
		log:     logger.AddBatchSymbol(logger.ComponentLogger("batch")),
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Agents returns the parsed agents in configured order.
func (r *Runner) Agents() []Agent { return r.agents }

// Run performs the sweep. Mazes are sampled on the calling goroutine so the
// same seed always yields the same mazes; agent runs are spread over the
// worker pool, each on its own deep copy of the maze.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	began := r.clock()
	seed := r.cfg.Seed
	if seed == 0 {
		seed = began.UnixNano()
	}
	densities := r.cfg.Densities()
	batchID := uuid.NewString()
	total := len(densities) * r.cfg.Iterations * len(r.agents)
	records := make([]results.Record, total)

	workers := r.cfg.Workers
	if workers == 0 {
		workers = len(r.agents)
	}

	log := r.log.With(logger.FieldBatchID, batchID)
	log.Infow("starting batch",
		logger.FieldWidth, r.cfg.Width,
		logger.FieldHeight, r.cfg.Height,
		logger.FieldRuns, total,
		logger.FieldWorkers, workers,
		logger.FieldSeed, seed)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var (
		done    int
		mazeIdx int
	)
	finished := func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		done++
		if done == total || done%progressEvery(total) == 0 {
			r.emitter.EmitProgress(done, map[string]interface{}{"total": total})
		}
	}

sweep:
	for _, density := range densities {
		r.emit(func(e ProgressEmitter) {
			e.EmitStage("density", fmt.Sprintf("sampling %d mazes at %g%% density", r.cfg.Iterations, density))
		})
		for it := 0; it < r.cfg.Iterations; it++ {
			if gCtx.Err() != nil {
				break sweep
			}
			sampler := maze.Sampler{
				Width:       r.cfg.Width,
				Height:      r.cfg.Height,
				Density:     density,
				MaxAttempts: r.cfg.MaxAttempts,
				Rand:        rand.New(rand.NewSource(seed + int64(mazeIdx))),
			}
			truth, attempts, err := sampler.Sample()
			if err != nil {
				r.emit(func(e ProgressEmitter) { e.EmitError("maze", err) })
				g.Wait()
				return nil, errors.Wrapf(err, "maze %d at density %g", mazeIdx, density)
			}
			if r.metrics != nil {
				r.metrics.ObserveMaze(attempts)
			}

			base := mazeIdx * len(r.agents)
			for ai, agent := range r.agents {
				slot, agent, density := base+ai, agent, density
				g.Go(func() error {
					if err := gCtx.Err(); err != nil {
						return err
					}
					rec, err := r.runOne(truth, agent, density)
					if err != nil {
						return errors.Wrapf(err, "agent %s at density %g", agent.Name, density)
					}
					rec.BatchID = batchID
					records[slot] = rec
					if r.metrics != nil {
						r.metrics.Observe(rec)
					}
					finished()
					return nil
				})
			}
			mazeIdx++
		}
	}

	if err := g.Wait(); err != nil {
		r.emit(func(e ProgressEmitter) { e.EmitError("run", err) })
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "batch cancelled")
	}

	res := &Result{
		BatchID:  batchID,
		Seed:     seed,
		Records:  records,
		Mazes:    mazeIdx,
		Duration: r.clock().Sub(began),
	}
	log.Infow("batch complete",
		logger.FieldRuns, total,
		logger.FieldDurationMS, res.Duration.Milliseconds())
	r.emit(func(e ProgressEmitter) {
		e.EmitComplete(map[string]interface{}{
			"batch_id": batchID,
			"runs":     total,
			"mazes":    mazeIdx,
			"seed":     seed,
		})
	})
	return res, nil
}

// runOne runs a single agent on a private copy of truth.
func (r *Runner) runOne(truth *grid.KnowledgeBase, agent Agent, density float64) (results.Record, error) {
	robot, err := nav.NewRobot(truth.Clone(true), nav.Options{
		Strategy: agent.Strategy,
		Planner:  agent.Planner,
		Clock:    r.clock,
		Logger:   r.log,
	})
	if err != nil {
		return results.Record{}, err
	}
	stats, err := robot.Run()
	if err != nil {
		return results.Record{}, err
	}
	rec := results.FromStats(agent.Name, truth.Width(), truth.Height(), density, stats)
	rec.RunID = uuid.NewString()
	return rec, nil
}

func (r *Runner) emit(fn func(ProgressEmitter)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r.emitter)
}

// progressEvery reports roughly twenty times per sweep.
func progressEvery(total int) int {
	if n := total / 20; n > 1 {
		return n
	}
	return 1
}

// WriteCSVs writes one file per agent into dir, named after the agent, and
// returns the paths written in agent order of first appearance.
func WriteCSVs(dir string, records []results.Record) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create %s", dir)
	}

	var order []string
	byAgent := make(map[string][]results.Record)
	for _, rec := range records {
		if _, ok := byAgent[rec.Agent]; !ok {
			order = append(order, rec.Agent)
		}
		byAgent[rec.Agent] = append(byAgent[rec.Agent], rec)
	}

	paths := make([]string, 0, len(order))
	for _, agent := range order {
		path := filepath.Join(dir, agent+".csv")
		if err := writeCSVFile(path, byAgent[agent]); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeCSVFile(path string, records []results.Record) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "close %s", path)
		}
	}()
	return errors.Wrapf(results.WriteCSV(f, records), "write %s", path)
}
