package domain

import (
	"fmt"
	"time"
)

// Timer session statuses. A session in one of the first three is "live":
// at most one live session exists system-wide at any instant.
const (
	StatusRunning = "running"
	StatusPaused  = "paused"
	StatusOnBreak = "break"
	StatusStopped = "stopped"
)

// LiveStatuses are the statuses that make a session the active timer.
var LiveStatuses = []string{StatusRunning, StatusPaused, StatusOnBreak}

// Origins a timer can be started from.
const (
	OriginWeb     = "web"
	OriginMobile  = "mobile"
	OriginOffline = "offline"
)

// TimerSession is one attempt at tracking time against a (project, task)
// pair. ElapsedSeconds accumulates work time only; break time is frozen
// out before a break opens. Once stopped the session is immutable.
type TimerSession struct {
	ID               string
	ProjectID        string
	TaskID           string
	Status           string
	StartedAt        time.Time
	PausedAt         *time.Time
	ResumedAt        *time.Time
	StoppedAt        *time.Time
	ElapsedSeconds   int64
	BreakSeconds     int64
	StartedFrom      string
	LocalSessionUUID string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TimerBreak is one break interval nested under a session. It is open
// while BreakEndedAt is nil; at most one break per session may be open.
type TimerBreak struct {
	ID              string
	SessionID       string
	BreakStartedAt  time.Time
	BreakEndedAt    *time.Time
	DurationSeconds int64
	Reason          string
	CreatedAt       time.Time
}

// Live reports whether the session occupies the active-timer slot.
func (s *TimerSession) Live() bool {
	switch s.Status {
	case StatusRunning, StatusPaused, StatusOnBreak:
		return true
	}
	return false
}

// workStart is the instant the current work segment began: resumed_at if
// set, else started_at. Accruing elapsed time from it at every freeze
// point amortizes pause/resume/break cycles without interval lists.
func (s *TimerSession) workStart() time.Time {
	if s.ResumedAt != nil {
		return *s.ResumedAt
	}
	return s.StartedAt
}

func (s *TimerSession) accrue(now time.Time) {
	d := int64(now.Sub(s.workStart()) / time.Second)
	if d > 0 {
		s.ElapsedSeconds += d
	}
}

// Pause freezes elapsed accounting for a running session.
func (s *TimerSession) Pause(now time.Time) error {
	if s.Status != StatusRunning {
		return fmt.Errorf("pause from %s: %w", s.Status, ErrInvalidState)
	}
	s.accrue(now)
	s.PausedAt = &now
	s.Status = StatusPaused
	return nil
}

// Resume restarts the work segment of a paused session.
func (s *TimerSession) Resume(now time.Time) error {
	if s.Status != StatusPaused {
		return fmt.Errorf("resume from %s: %w", s.Status, ErrInvalidState)
	}
	s.ResumedAt = &now
	s.PausedAt = nil
	s.Status = StatusRunning
	return nil
}

// BeginBreak freezes elapsed accounting and moves the session on break.
// The caller opens the corresponding TimerBreak in the same unit of work.
func (s *TimerSession) BeginBreak(now time.Time) error {
	if s.Status != StatusRunning {
		return fmt.Errorf("start break from %s: %w", s.Status, ErrInvalidState)
	}
	s.accrue(now)
	s.PausedAt = &now
	s.Status = StatusOnBreak
	return nil
}

// EndBreak closes the open break, accrues its duration onto the
// session's break total, and restarts the work segment.
func (s *TimerSession) EndBreak(b *TimerBreak, now time.Time) error {
	if s.Status != StatusOnBreak {
		return fmt.Errorf("stop break from %s: %w", s.Status, ErrInvalidState)
	}
	if b == nil || b.SessionID != s.ID || b.BreakEndedAt != nil {
		return fmt.Errorf("no open break: %w", ErrInvalidState)
	}
	d := int64(now.Sub(b.BreakStartedAt) / time.Second)
	if d < 0 {
		d = 0
	}
	b.BreakEndedAt = &now
	b.DurationSeconds = d
	s.BreakSeconds += d
	s.ResumedAt = &now
	s.PausedAt = nil
	s.Status = StatusRunning
	return nil
}

// Finish stops a running or paused session. A session on break must have
// its open break closed first. Accounting frozen at a pause stays frozen.
func (s *TimerSession) Finish(now time.Time) error {
	switch s.Status {
	case StatusRunning:
		s.accrue(now)
	case StatusPaused:
		// elapsed already frozen at Pause
	default:
		return fmt.Errorf("stop from %s: %w", s.Status, ErrInvalidState)
	}
	s.StoppedAt = &now
	s.Status = StatusStopped
	return nil
}
