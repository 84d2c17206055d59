package engine

import (
	"time"

	"github.com/sadopc/fastr/internal/fasting"
)

// TimerState is the derived view of a session at a point in time. It is
// recomputed whole from the session and the clock on every refresh, never
// updated incrementally, so backgrounding the host never introduces drift.
type TimerState struct {
	Session         *fasting.Session
	IsActive        bool
	IsPaused        bool
	TimeElapsed     int // seconds
	TimeRemaining   int // seconds
	CurrentPhase    *fasting.PhaseConfig
	NextPhase       *fasting.PhaseConfig
	PhaseProgress   float64 // 0-1
	OverallProgress float64 // 0-1
}

// HoursElapsed converts the elapsed time to fractional hours.
func (s TimerState) HoursElapsed() float64 {
	return float64(s.TimeElapsed) / 3600
}

// TimeToNextPhase returns hours until the next phase, or 0 in the last one.
func (s TimerState) TimeToNextPhase() float64 {
	if s.CurrentPhase == nil {
		return 0
	}
	return fasting.TimeToNextPhase(s.HoursElapsed())
}

// Elapsed returns the pause-adjusted fasting time in seconds for a session
// at the given instant. The formula depends on the session status:
// an active fast accrues wall-clock time minus accumulated pauses, a paused
// fast is frozen at the pause instant, and a completed fast reports its
// recorded duration.
func Elapsed(session *fasting.Session, now time.Time) int {
	if session == nil {
		return 0
	}
	switch session.Status {
	case fasting.StatusActive:
		return int(now.Sub(session.StartTime).Seconds()) - session.PausedDuration*60
	case fasting.StatusPaused:
		if session.PausedAt == nil {
			return 0
		}
		return int(session.PausedAt.Sub(session.StartTime).Seconds()) - session.PausedDuration*60
	case fasting.StatusCompleted:
		return session.ActualDuration * 60
	case fasting.StatusCancelled, fasting.StatusNotStarted:
		return 0
	default:
		return 0
	}
}

// computeState derives the full timer state from a session and an instant.
func computeState(session *fasting.Session, now time.Time) TimerState {
	if session == nil {
		return TimerState{}
	}

	elapsed := Elapsed(session, now)
	hours := float64(elapsed) / 3600

	current := fasting.CurrentPhase(hours)
	target := session.TargetDuration * 60

	remaining := target - elapsed
	if remaining < 0 {
		remaining = 0
	}

	overall := 0.0
	if target > 0 {
		overall = float64(elapsed) / float64(target)
		if overall > 1 {
			overall = 1
		}
	}

	return TimerState{
		Session:         session,
		IsActive:        session.Status == fasting.StatusActive,
		IsPaused:        session.Status == fasting.StatusPaused,
		TimeElapsed:     elapsed,
		TimeRemaining:   remaining,
		CurrentPhase:    &current,
		NextPhase:       fasting.NextPhase(hours),
		PhaseProgress:   fasting.PhaseProgress(hours),
		OverallProgress: overall,
	}
}
