package logger

import (
	"bytes"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestInitialize(t *testing.T) {
	tests := []struct {
		name       string
		jsonOutput bool
	}{
		{name: "JSON output mode", jsonOutput: true},
		{name: "Console output mode", jsonOutput: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Logger = nil
			JSONOutput = false

			if err := Initialize(tt.jsonOutput); err != nil {
				t.Fatalf("Initialize() error = %v", err)
			}
			if Logger == nil {
				t.Error("Initialize() did not set global Logger")
			}
			if JSONOutput != tt.jsonOutput {
				t.Errorf("Initialize() JSONOutput = %v, want %v", JSONOutput, tt.jsonOutput)
			}
			Cleanup()
		})
	}
}

func TestInitializeWithVerbosityFiltersLevels(t *testing.T) {
	var buf bytes.Buffer
	prev := output
	output = &buf
	defer func() { output = prev }()

	if err := InitializeWithVerbosity(false, VerbosityUser); err != nil {
		t.Fatal(err)
	}
	Infow("hidden at default verbosity")
	Warnw("shown", FieldAgent, "basic")

	got := stripANSI(buf.String())
	if strings.Contains(got, "hidden") {
		t.Errorf("info logged at verbosity 0: %q", got)
	}
	if !strings.Contains(got, "shown  agent=basic") {
		t.Errorf("warning missing: %q", got)
	}
}

func TestVerbosityToLevel(t *testing.T) {
	tests := []struct {
		verbosity int
		want      zapcore.Level
	}{
		{0, zapcore.WarnLevel},
		{1, zapcore.InfoLevel},
		{2, zapcore.DebugLevel},
		{5, zapcore.DebugLevel},
	}
	for _, tt := range tests {
		if got := VerbosityToLevel(tt.verbosity); got != tt.want {
			t.Errorf("VerbosityToLevel(%d) = %v, want %v", tt.verbosity, got, tt.want)
		}
	}
}

func TestShouldOutput(t *testing.T) {
	tests := []struct {
		verbosity int
		category  OutputCategory
		want      bool
	}{
		{0, OutputResults, true},
		{0, OutputProgress, false},
		{1, OutputProgress, true},
		{1, OutputRunStats, false},
		{2, OutputRunStats, true},
		{2, OutputStepTrace, false},
		{3, OutputStepTrace, true},
		{3, OutputCategory(99), true},
		{2, OutputCategory(99), false},
	}
	for _, tt := range tests {
		t.Run(CategoryName(tt.category), func(t *testing.T) {
			if got := ShouldOutput(tt.verbosity, tt.category); got != tt.want {
				t.Errorf("ShouldOutput(%d, %v) = %v, want %v", tt.verbosity, tt.category, got, tt.want)
			}
		})
	}
}

func TestComponentLogger(t *testing.T) {
	if err := Initialize(false); err != nil {
		t.Fatal(err)
	}
	l := AddDBSymbol(ComponentLogger("db"))
	if l == nil {
		t.Fatal("ComponentLogger returned nil")
	}
	if got := LevelName(VerbosityDebug); got != "Debug (-vv)" {
		t.Errorf("LevelName = %q", got)
	}
}
