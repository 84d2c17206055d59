package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sadopc/fastr/internal/fasting"
)

// Validation errors, rejected before any write.
var (
	ErrInvalidSessionID = errors.New("session id must not be empty")
	ErrInvalidStartTime = errors.New("session start time must be set")
)

// SaveSession upserts a session by ID, refreshing UpdatedAt, and recomputes
// cached stats.
func (s *Store) SaveSession(session *fasting.Session) error {
	if session.ID == "" {
		return ErrInvalidSessionID
	}
	if session.StartTime.IsZero() {
		return ErrInvalidStartTime
	}

	sessions := s.GetAllSessions()

	session.UpdatedAt = time.Now().UTC()
	found := false
	for i := range sessions {
		if sessions[i].ID == session.ID {
			sessions[i] = *session
			found = true
			break
		}
	}
	if !found {
		sessions = append(sessions, *session)
	}

	if err := s.writeSessions(sessions); err != nil {
		return err
	}
	s.refreshStats(sessions)
	return nil
}

// GetAllSessions returns every stored session, current and historical, in
// stored order. Read failures degrade to an empty collection.
func (s *Store) GetAllSessions() []fasting.Session {
	raw, ok, err := s.getValue(keySessions)
	if err != nil {
		s.logger.Error("load sessions", "err", err)
		return nil
	}
	if !ok {
		return nil
	}

	var sessions []fasting.Session
	if err := json.Unmarshal([]byte(raw), &sessions); err != nil {
		s.logger.Error("decode sessions", "err", err)
		return nil
	}
	return sessions
}

// GetSession returns the session with the given id, or nil.
func (s *Store) GetSession(id string) *fasting.Session {
	for _, session := range s.GetAllSessions() {
		if session.ID == id {
			return &session
		}
	}
	return nil
}

// SetCurrentSession sets or clears the single current-session pointer. It is
// the authority for whether an in-progress session exists.
func (s *Store) SetCurrentSession(session *fasting.Session) error {
	if session == nil {
		return s.removeValue(keyCurrentSession)
	}
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode current session: %w", err)
	}
	return s.setValue(keyCurrentSession, string(data))
}

// GetCurrentSession returns the current-session pointer, or nil when none is
// set or the stored value is unreadable.
func (s *Store) GetCurrentSession() *fasting.Session {
	raw, ok, err := s.getValue(keyCurrentSession)
	if err != nil {
		s.logger.Error("load current session", "err", err)
		return nil
	}
	if !ok {
		return nil
	}

	var session fasting.Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		s.logger.Error("decode current session", "err", err)
		return nil
	}
	return &session
}

// DeleteSession removes a session permanently and recomputes cached stats.
func (s *Store) DeleteSession(id string) error {
	sessions := s.GetAllSessions()
	filtered := sessions[:0]
	for _, session := range sessions {
		if session.ID != id {
			filtered = append(filtered, session)
		}
	}

	if err := s.writeSessions(filtered); err != nil {
		return err
	}
	s.refreshStats(filtered)
	return nil
}

// ClearAllData removes sessions, the current pointer and cached stats.
// Preferences survive a reset.
func (s *Store) ClearAllData() error {
	for _, key := range []string{keySessions, keyCurrentSession, keyStats} {
		if err := s.removeValue(key); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) writeSessions(sessions []fasting.Session) error {
	data, err := json.Marshal(sessions)
	if err != nil {
		return fmt.Errorf("encode sessions: %w", err)
	}
	return s.setValue(keySessions, string(data))
}
