// Package daemon hosts the shared session state and the request router for
// the specter automation daemon.
package daemon

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/specter-dev/specter/internal/action"
	"github.com/specter-dev/specter/internal/history"
	"github.com/specter-dev/specter/internal/library"
	"github.com/specter-dev/specter/internal/player"
	"github.com/specter-dev/specter/internal/recorder"
)

// Session owns the daemon's shared mutable state: the recorder, the player,
// and the sequence library. At most one recording and one playback may be
// active daemon-wide.
//
// The guard covers state transitions only. It is never held across a sleep
// or a collaborator dispatch: PlaySequence releases it before every
// inter-step delay and every action execution, re-acquiring it only to
// advance the player cursor. Holding it for the full replay would stall
// every other client, including plain status queries.
type Session struct {
	mu       sync.Mutex
	recorder *recorder.Recorder
	player   *player.Player
	library  *library.Library
	exec     player.Executor

	journal *history.Journal // optional
	stopped bool             // set when the in-flight playback was stopped
}

// NewSession assembles the session around a loaded library.
func NewSession(lib *library.Library, exec player.Executor, journal *history.Journal) *Session {
	return &Session{
		recorder: recorder.New(),
		player:   player.New(),
		library:  lib,
		exec:     exec,
		journal:  journal,
	}
}

// --- Recording ---

// StartRecording begins a new recording session.
func (s *Session) StartRecording(name, description string) error {
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrMalformedRequest)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.player.IsPlaying() {
		return fmt.Errorf("%w: playback is active", ErrOperationInProgress)
	}
	return s.recorder.Start(name, description)
}

// RecordAction appends an action to the recording in progress. The action is
// not executed; recording only captures intent.
func (s *Session) RecordAction(a action.Action) error {
	if err := a.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedRequest, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recorder.Record(a)
}

// StopRecording ends the recording session and persists the completed
// sequence. An empty recording is returned to the caller but not stored.
func (s *Session) StopRecording() (*action.Sequence, error) {
	s.mu.Lock()
	seq, err := s.recorder.Stop()
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}

	if len(seq.Actions) > 0 {
		if err := s.library.Save(seq); err != nil {
			s.mu.Unlock()
			return seq, storageErr("save sequence", err)
		}
	}
	s.mu.Unlock()

	s.journalRun(history.Run{
		Kind:      history.KindRecording,
		Sequence:  seq.Name,
		Steps:     len(seq.Actions),
		Outcome:   history.OutcomeOK,
		StartedAt: seq.CreatedAt,
		EndedAt:   time.Now().UTC(),
	})
	return seq, nil
}

// IsRecording reports whether a recording session is active.
func (s *Session) IsRecording() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recorder.IsRecording()
}

// --- Playback ---

// LoadSequence stages a private copy of the named sequence in the player.
func (s *Session) LoadSequence(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seq, err := s.library.Get(name)
	if err != nil {
		return err
	}
	return s.player.Load(seq)
}

// PlaySequence replays the loaded sequence, honoring the recorded delays,
// and blocks until the replay completes, fails, or is stopped. The failing
// step's index is reported on abort; later steps are never executed.
func (s *Session) PlaySequence() error {
	s.mu.Lock()
	if s.recorder.IsRecording() {
		s.mu.Unlock()
		return fmt.Errorf("%w: recording is active", ErrOperationInProgress)
	}
	if err := s.player.Start(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.stopped = false
	name := s.player.LoadedName()
	_, total := s.player.Progress()
	s.mu.Unlock()

	started := time.Now().UTC()
	dispatched := 0
	var runErr error

	for {
		// Cursor advance is the only work done under the guard; Next also
		// observes a Stop issued by another connection.
		s.mu.Lock()
		step, index, more := s.player.Next()
		s.mu.Unlock()
		if !more {
			break
		}

		if step.DelayMS > 0 {
			time.Sleep(time.Duration(step.DelayMS) * time.Millisecond)
		}

		if err := s.exec.Execute(step.Action); err != nil {
			s.mu.Lock()
			s.player.Stop()
			s.mu.Unlock()
			runErr = &player.StepError{Index: index, Err: err}
			break
		}
		dispatched++
	}

	s.mu.Lock()
	wasStopped := s.stopped
	s.stopped = false
	s.mu.Unlock()

	run := history.Run{
		Kind:       history.KindPlayback,
		Sequence:   name,
		Steps:      dispatched,
		Outcome:    history.OutcomeOK,
		FailedStep: -1,
		StartedAt:  started,
		EndedAt:    time.Now().UTC(),
	}
	switch {
	case runErr != nil:
		var stepErr *player.StepError
		if errors.As(runErr, &stepErr) {
			run.FailedStep = stepErr.Index
		}
		run.Outcome = history.OutcomeFailed
		run.Error = runErr.Error()
	case wasStopped && dispatched < total:
		run.Outcome = history.OutcomeStopped
	}
	s.journalRun(run)

	return runErr
}

// StopPlayback aborts an in-flight playback at the next step boundary.
func (s *Session) StopPlayback() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.player.IsPlaying() {
		return ErrNotPlaying
	}
	s.player.Stop()
	s.stopped = true
	return nil
}

// PlaybackStatus reports the player state for status queries.
func (s *Session) PlaybackStatus() (playing bool, name string, done, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	done, total = s.player.Progress()
	return s.player.IsPlaying(), s.player.LoadedName(), done, total
}

// --- Library ---

// ListSequences returns the stored sequence names, sorted.
func (s *Session) ListSequences() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.library.Names()
}

// GetSequence returns a copy of the named sequence.
func (s *Session) GetSequence(name string) (*action.Sequence, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.library.Get(name)
}

// SaveSequence persists a fully formed sequence, overwriting any existing
// sequence of the same name.
func (s *Session) SaveSequence(seq *action.Sequence) error {
	if err := seq.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedRequest, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.library.Save(seq); err != nil {
		return storageErr("save sequence", err)
	}
	return nil
}

// DeleteSequence removes a sequence from the library and from disk. The
// file removal completes before the guard is released, so listings never
// observe a half-deleted state.
func (s *Session) DeleteSequence(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.library.Delete(name)
	if err != nil && !errors.Is(err, library.ErrSequenceNotFound) {
		return storageErr("delete sequence", err)
	}
	return err
}

// History returns recent journal entries, newest first.
func (s *Session) History(limit int) ([]history.Run, error) {
	if s.journal == nil {
		return nil, nil
	}
	return s.journal.Recent(limit)
}

func (s *Session) journalRun(run history.Run) {
	if s.journal == nil {
		return
	}
	if _, err := s.journal.Append(run); err != nil {
		log.Printf("Failed to journal %s run for %q: %v", run.Kind, run.Sequence, err)
	}
}

