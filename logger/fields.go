package logger

import (
	"go.uber.org/zap"

	"github.com/teranos/gridsense/sym"
)

// Standard field names for structured logging.
// Use these constants instead of raw strings.
const (
	FieldComponent = "component"
	FieldSymbol    = "symbol"
	FieldError     = "error"

	// Runs
	FieldAgent    = "agent"
	FieldPosition = "position"
	FieldPlans    = "plans"
	FieldBumps    = "bumps"
	FieldSteps    = "steps"
	FieldExpanded = "expanded"
	FieldSolved   = "solved"

	// Mazes and sweeps
	FieldWidth    = "width"
	FieldHeight   = "height"
	FieldDensity  = "density"
	FieldAttempts = "attempts"
	FieldSeed     = "seed"
	FieldBatchID  = "batch_id"
	FieldRuns     = "runs"
	FieldWorkers  = "workers"

	// Timing
	FieldDurationMS = "duration_ms"

	// Storage
	FieldPath    = "path"
	FieldVersion = "version"
	FieldCount   = "count"
)

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	r.log = logger.ComponentLogger("batch")
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// ChildLogger creates a child logger with additional context.
func ChildLogger(parent *zap.SugaredLogger, keysAndValues ...interface{}) *zap.SugaredLogger {
	return parent.With(keysAndValues...)
}

// AddDBSymbol tags a logger with the storage glyph (⊔).
func AddDBSymbol(l *zap.SugaredLogger) *zap.SugaredLogger {
	return l.With(FieldSymbol, sym.DB)
}

// AddBatchSymbol tags a logger with the sweep glyph (꩜).
func AddBatchSymbol(l *zap.SugaredLogger) *zap.SugaredLogger {
	return l.With(FieldSymbol, sym.Batch)
}
