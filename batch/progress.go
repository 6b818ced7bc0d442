package batch

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/pterm/pterm"
)

// ProgressEmitter receives progress from a running batch. Calls are
// serialised by the Runner, so implementations need no locking.
type ProgressEmitter interface {
	// EmitStage announces the start of a processing stage
	EmitStage(stage string, message string)

	// EmitProgress reports finished runs; metadata carries at least "total".
	EmitProgress(count int, metadata map[string]interface{})

	EmitComplete(summary map[string]interface{})
	EmitError(stage string, err error)
	EmitInfo(message string)
}

// CLIEmitter prints progress to the terminal using pterm.
type CLIEmitter struct {
	verbosity int
}

func NewCLIEmitter(verbosity int) *CLIEmitter {
	return &CLIEmitter{verbosity: verbosity}
}

func (e *CLIEmitter) EmitStage(stage string, message string) {
	pterm.Printf("%s %s: %s\n", pterm.Gray("›"), pterm.LightCyan(stage), message)
}

func (e *CLIEmitter) EmitProgress(count int, metadata map[string]interface{}) {
	if total, ok := metadata["total"].(int); ok {
		pterm.Printf("  %s/%d runs\n", pterm.Green(fmt.Sprintf("%d", count)), total)
		return
	}
	pterm.Printf("  %s runs\n", pterm.Green(fmt.Sprintf("%d", count)))
}

func (e *CLIEmitter) EmitComplete(summary map[string]interface{}) {
	pterm.Success.Println("Batch complete")
	if e.verbosity >= 1 {
		for key, value := range summary {
			pterm.Printf("  %s: %v\n", key, value)
		}
	}
}

func (e *CLIEmitter) EmitError(stage string, err error) {
	pterm.Error.Printf("Error in %s: %v\n", stage, err)
}

// EmitInfo prints only at verbosity 1 and above.
func (e *CLIEmitter) EmitInfo(message string) {
	if e.verbosity >= 1 {
		pterm.Info.Println(message)
	}
}

// ProgressEvent is one line written by JSONEmitter.
type ProgressEvent struct {
	Type      string                 `json:"type"` // stage, progress, complete, error, info
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

// JSONEmitter writes one JSON event per line.
type JSONEmitter struct {
	encoder *json.Encoder
	now     func() time.Time
}

func NewJSONEmitter(w io.Writer) *JSONEmitter {
	return &JSONEmitter{encoder: json.NewEncoder(w), now: time.Now}
}

func (e *JSONEmitter) emit(kind string, data map[string]interface{}) {
	e.encoder.Encode(ProgressEvent{Type: kind, Timestamp: e.now(), Data: data})
}

func (e *JSONEmitter) EmitStage(stage string, message string) {
	e.emit("stage", map[string]interface{}{"stage": stage, "message": message})
}

func (e *JSONEmitter) EmitProgress(count int, metadata map[string]interface{}) {
	data := map[string]interface{}{"count": count}
	for k, v := range metadata {
		data[k] = v
	}
	e.emit("progress", data)
}

func (e *JSONEmitter) EmitComplete(summary map[string]interface{}) {
	e.emit("complete", summary)
}

func (e *JSONEmitter) EmitError(stage string, err error) {
	e.emit("error", map[string]interface{}{"stage": stage, "error": err.Error()})
}

func (e *JSONEmitter) EmitInfo(message string) {
	e.emit("info", map[string]interface{}{"message": message})
}

// SilentEmitter discards everything.
type SilentEmitter struct{}

func (SilentEmitter) EmitStage(string, string)                 {}
func (SilentEmitter) EmitProgress(int, map[string]interface{}) {}
func (SilentEmitter) EmitComplete(map[string]interface{})      {}
func (SilentEmitter) EmitError(string, error)                  {}
func (SilentEmitter) EmitInfo(string)                          {}
