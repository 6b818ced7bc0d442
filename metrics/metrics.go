// Package metrics exposes batch statistics as Prometheus collectors on a
// private registry, and dumps them in the text exposition format.
package metrics

import (
	"io"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"

	"github.com/teranos/gridsense/errors"
	"github.com/teranos/gridsense/results"
)

const namespace = "gridsense"

// Metrics is safe for concurrent use; batch workers observe into it directly.
type Metrics struct {
	registry *prometheus.Registry

	runs         *prometheus.CounterVec
	bumps        *prometheus.CounterVec
	plans        *prometheus.CounterVec
	expanded     *prometheus.CounterVec
	determined   *prometheus.HistogramVec
	trajectory   *prometheus.HistogramVec
	runtime      *prometheus.HistogramVec
	mazeAttempts prometheus.Histogram
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	agent := []string{"agent"}

	return &Metrics{
		registry: reg,
		runs: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "runs_total",
			Help: "Agent runs, by agent and whether the goal was reached.",
		}, []string{"agent", "solved"}),
		bumps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "bumps_total",
			Help: "Plans cut short by walking into a wall.",
		}, agent),
		plans: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "plans_total",
			Help: "Planner invocations.",
		}, agent),
		expanded: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "cells_expanded_total",
			Help: "Cells popped from the planner frontier.",
		}, agent),
		determined: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "cells_determined",
			Help:    "Cells with a pinned sentiment at the end of a solved run.",
			Buckets: prometheus.ExponentialBuckets(8, 2, 10),
		}, agent),
		trajectory: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "trajectory_length",
			Help:    "Moves made in solved runs.",
			Buckets: prometheus.ExponentialBuckets(4, 2, 10),
		}, agent),
		runtime: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "run_duration_seconds",
			Help:    "Wall time of a run.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, agent),
		mazeAttempts: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "maze_attempts",
			Help:    "Grids drawn before a solvable one came up.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}),
	}
}

// Registry returns the private registry for tests and custom exporters.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Observe records one finished run.
func (m *Metrics) Observe(r results.Record) {
	m.runs.WithLabelValues(r.Agent, strconv.FormatBool(r.Solved)).Inc()
	m.bumps.WithLabelValues(r.Agent).Add(float64(r.Bumps))
	m.plans.WithLabelValues(r.Agent).Add(float64(r.Plans))
	m.expanded.WithLabelValues(r.Agent).Add(float64(r.CellsExpanded))
	m.runtime.WithLabelValues(r.Agent).Observe(r.RuntimeSeconds)
	if r.Solved {
		m.trajectory.WithLabelValues(r.Agent).Observe(r.TrajectoryLength)
		m.determined.WithLabelValues(r.Agent).Observe(float64(r.CellsDetermined))
	}
}

// ObserveMaze records how many grids the sampler drew.
func (m *Metrics) ObserveMaze(attempts int) {
	m.mazeAttempts.Observe(float64(attempts))
}

// WriteText gathers every collector and writes the text exposition format.
func (m *Metrics) WriteText(w io.Writer) error {
	families, err := m.registry.Gather()
	if err != nil {
		return errors.Wrap(err, "failed to gather metrics")
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return errors.Wrapf(err, "failed to write %s", mf.GetName())
		}
	}
	return nil
}
