// Package engine owns the fasting session lifecycle: starting, pausing,
// resuming and finishing sessions, pause-aware elapsed-time accounting, and
// auto-completion when the target duration expires.
package engine

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sadopc/fastr/internal/fasting"
	"github.com/sadopc/fastr/internal/store"
)

// Precondition errors. These are raised before any write and mutate nothing.
var (
	ErrInvalidProtocol  = errors.New("unknown fasting protocol")
	ErrNoCurrentSession = errors.New("no current session")
	ErrNoActiveSession  = errors.New("no active session to pause")
	ErrNoPausedSession  = errors.New("no paused session to resume")
	ErrInvalidExtension = errors.New("extension must be a positive number of minutes")
)

// Engine is the timer state machine. All session mutations go through it;
// the store is its single collaborator and the authority for the current
// session. A mutex serializes actions and refreshes so a tick and a
// user action can never interleave mid-write.
type Engine struct {
	store *store.Store

	mu      sync.Mutex
	now     func() time.Time
	lastErr string
}

// New returns an engine backed by the given store.
func New(s *store.Store) *Engine {
	return &Engine{
		store: s,
		now:   time.Now,
	}
}

// LastError returns the message of the most recent failed action, or "".
// It is cleared at the start of every action attempt.
func (e *Engine) LastError() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

// StartSession creates and activates a new session for the given protocol.
// An existing current session is stopped first (kept as a cancelled record).
func (e *Engine) StartSession(protocol fasting.Protocol) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastErr = ""

	if !protocol.Valid() {
		return e.fail(ErrInvalidProtocol)
	}

	if cur := e.store.GetCurrentSession(); cur != nil {
		if err := e.finishLocked(cur, fasting.StatusCancelled); err != nil {
			return e.fail(fmt.Errorf("stop previous session: %w", err))
		}
	}

	now := e.now().UTC()
	session := &fasting.Session{
		ID:             uuid.NewString(),
		StartTime:      now,
		TargetDuration: fasting.ProtocolDurations[protocol],
		Protocol:       protocol,
		Status:         fasting.StatusActive,
		PausedDuration: 0,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := e.store.SaveSession(session); err != nil {
		return e.fail(fmt.Errorf("start session: %w", err))
	}
	if err := e.store.SetCurrentSession(session); err != nil {
		return e.fail(fmt.Errorf("start session: %w", err))
	}
	return nil
}

// PauseSession freezes the active session's clock.
func (e *Engine) PauseSession() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastErr = ""

	cur := e.store.GetCurrentSession()
	if cur == nil || cur.Status != fasting.StatusActive {
		return e.fail(ErrNoActiveSession)
	}

	now := e.now().UTC()
	updated := *cur
	updated.Status = fasting.StatusPaused
	updated.PausedAt = &now

	return e.persistCurrent(&updated)
}

// ResumeSession reactivates a paused session, folding the pause span into
// the cumulative paused duration.
func (e *Engine) ResumeSession() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastErr = ""

	cur := e.store.GetCurrentSession()
	if cur == nil || cur.Status != fasting.StatusPaused || cur.PausedAt == nil {
		return e.fail(ErrNoPausedSession)
	}

	now := e.now().UTC()
	pauseSpan := int(now.Sub(*cur.PausedAt).Minutes())

	updated := *cur
	updated.Status = fasting.StatusActive
	updated.PausedAt = nil
	updated.PausedDuration += pauseSpan

	return e.persistCurrent(&updated)
}

// CompleteSession finishes the current session as completed, recording its
// end time and actual duration, and clears the current pointer. The
// historical record remains.
func (e *Engine) CompleteSession() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastErr = ""

	cur := e.store.GetCurrentSession()
	if cur == nil {
		return e.fail(ErrNoCurrentSession)
	}
	if err := e.finishLocked(cur, fasting.StatusCompleted); err != nil {
		return e.fail(fmt.Errorf("complete session: %w", err))
	}
	return nil
}

// StopSession finishes the current session as cancelled, keeping its
// record, and clears the current pointer.
func (e *Engine) StopSession() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastErr = ""

	cur := e.store.GetCurrentSession()
	if cur == nil {
		return e.fail(ErrNoCurrentSession)
	}
	if err := e.finishLocked(cur, fasting.StatusCancelled); err != nil {
		return e.fail(fmt.Errorf("stop session: %w", err))
	}
	return nil
}

// CancelSession permanently deletes the current session. Unlike StopSession
// no cancelled record survives.
func (e *Engine) CancelSession() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastErr = ""

	cur := e.store.GetCurrentSession()
	if cur == nil {
		return e.fail(ErrNoCurrentSession)
	}

	if err := e.store.DeleteSession(cur.ID); err != nil {
		return e.fail(fmt.Errorf("cancel session: %w", err))
	}
	if err := e.store.SetCurrentSession(nil); err != nil {
		return e.fail(fmt.Errorf("cancel session: %w", err))
	}
	return nil
}

// UpdateNotes replaces the current session's notes.
func (e *Engine) UpdateNotes(notes string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastErr = ""

	cur := e.store.GetCurrentSession()
	if cur == nil {
		return e.fail(ErrNoCurrentSession)
	}

	updated := *cur
	updated.Notes = notes
	return e.persistCurrent(&updated)
}

// ExtendSession increases the current session's target duration. The target
// never decreases.
func (e *Engine) ExtendSession(additionalMinutes int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastErr = ""

	if additionalMinutes <= 0 {
		return e.fail(ErrInvalidExtension)
	}
	cur := e.store.GetCurrentSession()
	if cur == nil {
		return e.fail(ErrNoCurrentSession)
	}

	updated := *cur
	updated.TargetDuration += additionalMinutes
	return e.persistCurrent(&updated)
}

// Refresh recomputes the derived timer state from the persisted current
// session. When the target duration has expired on an active session the
// engine completes it before returning, so a refresh can mutate persisted
// state; the second return value reports whether that happened.
func (e *Engine) Refresh() (TimerState, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cur := e.store.GetCurrentSession()
	state := computeState(cur, e.now())

	if cur != nil && cur.Status == fasting.StatusActive && state.TimeRemaining <= 0 {
		if err := e.finishLocked(cur, fasting.StatusCompleted); err != nil {
			err = fmt.Errorf("auto-complete session: %w", err)
			e.lastErr = err.Error()
			return state, false, err
		}
		// Re-derive from the completed record.
		return computeState(e.store.GetSession(cur.ID), e.now()), true, nil
	}

	return state, false, nil
}

// finishLocked moves a session into a terminal status, stamping the end
// time and actual duration from the elapsed time at this instant, and
// clears the current pointer. Callers hold e.mu.
func (e *Engine) finishLocked(cur *fasting.Session, status fasting.Status) error {
	now := e.now().UTC()

	updated := *cur
	updated.Status = status
	updated.EndTime = &now
	updated.ActualDuration = Elapsed(cur, now) / 60

	if err := e.store.SaveSession(&updated); err != nil {
		return err
	}
	return e.store.SetCurrentSession(nil)
}

// persistCurrent writes a session both as the historical record and as the
// current pointer. Callers hold e.mu.
func (e *Engine) persistCurrent(session *fasting.Session) error {
	if err := e.store.SaveSession(session); err != nil {
		return e.fail(err)
	}
	if err := e.store.SetCurrentSession(session); err != nil {
		return e.fail(err)
	}
	return nil
}

// fail records an action failure for display and returns it.
func (e *Engine) fail(err error) error {
	e.lastErr = err.Error()
	return err
}
