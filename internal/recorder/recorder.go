// Package recorder captures user-issued actions into a sequence under
// construction, timing the gap between consecutive actions.
package recorder

import (
	"errors"
	"time"

	"github.com/specter-dev/specter/internal/action"
)

// Sentinel errors for recorder state transitions.
var (
	ErrAlreadyRecording = errors.New("already recording")
	ErrNotRecording     = errors.New("not currently recording")
)

// Recorder is a two-state machine: Idle and Recording. It only logs intent;
// recorded actions are never executed here. Not safe for concurrent use;
// the owning session serializes access.
type Recorder struct {
	current   *action.Sequence
	recording bool
	lastEvent time.Time
}

// New returns an idle recorder.
func New() *Recorder {
	return &Recorder{}
}

// Start transitions Idle -> Recording with an empty sequence.
func (r *Recorder) Start(name, description string) error {
	if r.recording {
		return ErrAlreadyRecording
	}
	r.current = action.NewSequence(name, description)
	r.recording = true
	// time.Now carries a monotonic reading, so delays are immune to
	// wall-clock adjustments during a recording session.
	r.lastEvent = time.Now()
	return nil
}

// Record appends an action, stamping it with the elapsed time since the
// previous action (zero for the first).
func (r *Recorder) Record(a action.Action) error {
	if !r.recording {
		return ErrNotRecording
	}
	now := time.Now()
	delay := now.Sub(r.lastEvent)
	if delay < 0 {
		delay = 0
	}
	if len(r.current.Actions) == 0 {
		delay = 0
	}
	r.current.Append(a, uint64(delay/time.Millisecond))
	r.lastEvent = now
	return nil
}

// Stop transitions Recording -> Idle and returns the completed sequence.
// A sequence with zero actions is a valid result; discarding it is the
// caller's decision.
func (r *Recorder) Stop() (*action.Sequence, error) {
	if !r.recording {
		return nil, ErrNotRecording
	}
	seq := r.current
	r.current = nil
	r.recording = false
	r.lastEvent = time.Time{}
	return seq, nil
}

// IsRecording reports whether a recording session is active.
func (r *Recorder) IsRecording() bool {
	return r.recording
}

// CurrentName returns the name of the sequence under construction, or ""
// when idle.
func (r *Recorder) CurrentName() string {
	if !r.recording {
		return ""
	}
	return r.current.Name
}

// StepCount returns the number of actions captured so far.
func (r *Recorder) StepCount() int {
	if !r.recording {
		return 0
	}
	return len(r.current.Actions)
}
