package playback

import (
	"errors"
	"fmt"

	"github.com/dgnsrekt/readalong/transcript"
)

// Status is the scheduler's run state.
type Status int

const (
	// StatusIdle indicates no run is active.
	StatusIdle Status = iota
	// StatusRunning indicates a run is walking the transcript.
	StatusRunning
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRunning:
		return "running"
	default:
		return "unknown"
	}
}

// State is what the view reads to render playback.
type State struct {
	// CurrentIndex is the word on air, or transcript.NoIndex before the
	// first run. It keeps its last value after a run ends.
	CurrentIndex int
	IsPlaying    bool
}

// HasCurrent reports whether CurrentIndex points at a word.
func (s State) HasCurrent() bool {
	return s.CurrentIndex != transcript.NoIndex
}

// Observer receives every published State, in order.
type Observer func(State)

// ErrAlreadyRunning is matched by errors.Is for every *AlreadyRunningError.
var ErrAlreadyRunning = errors.New("playback already running")

// AlreadyRunningError is returned by Start while a run is active.
type AlreadyRunningError struct {
	RunID string // The active run
}

func (e *AlreadyRunningError) Error() string {
	return fmt.Sprintf("%v (run %s)", ErrAlreadyRunning, e.RunID)
}

// Is makes errors.Is(err, ErrAlreadyRunning) succeed.
func (e *AlreadyRunningError) Is(target error) bool {
	return target == ErrAlreadyRunning
}
