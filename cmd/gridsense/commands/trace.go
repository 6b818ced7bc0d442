package commands

import (
	"os"
	"path/filepath"

	"github.com/teranos/gridsense/am"
	"github.com/teranos/gridsense/errors"
	"github.com/teranos/gridsense/grid"
	"github.com/teranos/gridsense/trace"
)

// Trace file names inside a trace directory
const (
	traceMazeFile    = "maze.txt"
	traceStatesFile  = "states.txt"
	traceActionsFile = "actions.txt"
)

// traceFiles holds the open state and action files of one recorded run
type traceFiles struct {
	Dir      string
	Recorder *trace.Recorder
	states   *os.File
	actions  *os.File
	closed   bool
}

// createTraceFiles writes the maze file and opens the state and action files.
func createTraceFiles(dir string, truth *grid.KnowledgeBase) (*traceFiles, error) {
	if err := os.MkdirAll(dir, am.DefaultDirPermissions); err != nil {
		return nil, errors.Wrapf(err, "failed to create trace directory %s", dir)
	}
	if err := os.WriteFile(filepath.Join(dir, traceMazeFile), []byte(trace.Maze(truth)+"\n"), am.DefaultFilePermissions); err != nil {
		return nil, errors.Wrap(err, "failed to write maze file")
	}

	states, err := os.Create(filepath.Join(dir, traceStatesFile))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create states file")
	}
	actions, err := os.Create(filepath.Join(dir, traceActionsFile))
	if err != nil {
		states.Close()
		return nil, errors.Wrap(err, "failed to create actions file")
	}

	return &traceFiles{
		Dir:      dir,
		Recorder: trace.NewRecorder(states, actions),
		states:   states,
		actions:  actions,
	}, nil
}

// Close closes both files once and reports the first recording or close error.
func (t *traceFiles) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true
	serr := t.states.Close()
	aerr := t.actions.Close()
	switch {
	case t.Recorder.Err() != nil:
		return t.Recorder.Err()
	case serr != nil:
		return errors.Wrap(serr, "failed to close states file")
	case aerr != nil:
		return errors.Wrap(aerr, "failed to close actions file")
	}
	return nil
}
