// Package player holds the playback state machine for recorded sequences.
//
// The player is deliberately passive: it tracks which sequence is loaded and
// where the cursor is, while the owning session drives the replay loop. That
// split lets the session release its guard across inter-step delays and
// collaborator dispatch, touching the player only for state transitions.
package player

import (
	"errors"
	"fmt"
	"time"

	"github.com/specter-dev/specter/internal/action"
)

// Sentinel errors for player state transitions.
var (
	ErrNothingLoaded      = errors.New("no sequence loaded")
	ErrPlaybackInProgress = errors.New("playback already in progress")
)

// Executor dispatches a single action to the external collaborator that
// performs it (input driver, window bridge, or an I/O sink).
type Executor interface {
	Execute(a action.Action) error
}

// StepError reports the step at which a playback aborted.
type StepError struct {
	Index int
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d: %v", e.Index, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Player is a three-state machine: Idle, Loaded, Playing. Not safe for
// concurrent use; the owning session serializes access.
type Player struct {
	sequence  *action.Sequence
	cursor    int
	playing   bool
	startedAt time.Time
}

// New returns an idle player.
func New() *Player {
	return &Player{}
}

// Load stores a private copy of the sequence and resets the cursor. Loading
// over a previously loaded sequence replaces it.
func (p *Player) Load(seq *action.Sequence) error {
	if p.playing {
		return ErrPlaybackInProgress
	}
	p.sequence = seq.Clone()
	p.cursor = 0
	return nil
}

// Start transitions Loaded -> Playing.
func (p *Player) Start() error {
	if p.playing {
		return ErrPlaybackInProgress
	}
	if p.sequence == nil {
		return ErrNothingLoaded
	}
	p.playing = true
	p.cursor = 0
	p.startedAt = time.Now()
	return nil
}

// Next returns the step at the cursor and advances it. When the sequence is
// exhausted the player returns to Idle-with-loaded-sequence and ok is false.
// Next also reports false after Stop, which is the cancellation point the
// replay loop checks between steps.
func (p *Player) Next() (step action.TimedAction, index int, ok bool) {
	if !p.playing || p.sequence == nil {
		return action.TimedAction{}, 0, false
	}
	if p.cursor >= len(p.sequence.Actions) {
		p.playing = false
		return action.TimedAction{}, 0, false
	}
	step = p.sequence.Actions[p.cursor]
	index = p.cursor
	p.cursor++
	return step, index, true
}

// Stop aborts an in-flight playback. It is a no-op when not playing. The
// loaded sequence is retained so it can be replayed.
func (p *Player) Stop() {
	p.playing = false
	p.cursor = 0
}

// IsPlaying reports whether a playback is in flight.
func (p *Player) IsPlaying() bool {
	return p.playing
}

// LoadedName returns the name of the loaded sequence, or "" when idle.
func (p *Player) LoadedName() string {
	if p.sequence == nil {
		return ""
	}
	return p.sequence.Name
}

// Progress returns the number of dispatched steps and the total step count.
func (p *Player) Progress() (done, total int) {
	if p.sequence == nil {
		return 0, 0
	}
	return p.cursor, len(p.sequence.Actions)
}

// StartedAt returns the wall-clock start of the current playback.
func (p *Player) StartedAt() time.Time {
	return p.startedAt
}
