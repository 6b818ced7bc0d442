package logger

// Output categories control WHAT is printed to the terminal at each
// verbosity, independent of log severity.
//
//	0 (default) - results, errors with hints, final status
//	1 (-v)      - + sweep progress, config summary
//	2 (-vv)     - + per-run statistics, timing, database info
//	3 (-vvv)    - + per-step robot trace, SQL migrations
type OutputCategory int

const (
	OutputResults OutputCategory = iota
	OutputErrors
	OutputUserStatus

	OutputProgress
	OutputConfig

	OutputRunStats
	OutputTiming
	OutputDBStats

	OutputStepTrace
	OutputMigrations
)

var categoryLevels = map[OutputCategory]int{
	OutputResults:    VerbosityUser,
	OutputErrors:     VerbosityUser,
	OutputUserStatus: VerbosityUser,

	OutputProgress: VerbosityInfo,
	OutputConfig:   VerbosityInfo,

	OutputRunStats: VerbosityDebug,
	OutputTiming:   VerbosityDebug,
	OutputDBStats:  VerbosityDebug,

	OutputStepTrace:  VerbosityTrace,
	OutputMigrations: VerbosityTrace,
}

var categoryNames = map[OutputCategory]string{
	OutputResults:    "results",
	OutputErrors:     "errors",
	OutputUserStatus: "status",
	OutputProgress:   "progress",
	OutputConfig:     "config",
	OutputRunStats:   "run-stats",
	OutputTiming:     "timing",
	OutputDBStats:    "db-stats",
	OutputStepTrace:  "step-trace",
	OutputMigrations: "migrations",
}

// ShouldOutput returns true if the category is shown at the given verbosity.
// Unknown categories need maximum verbosity.
func ShouldOutput(verbosity int, category OutputCategory) bool {
	minLevel, ok := categoryLevels[category]
	if !ok {
		return verbosity >= VerbosityTrace
	}
	return verbosity >= minLevel
}

func CategoryName(category OutputCategory) string {
	if name, ok := categoryNames[category]; ok {
		return name
	}
	return "unknown"
}
