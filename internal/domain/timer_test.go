package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/workhub-app/workhub/internal/domain"
)

var t0 = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func newRunningSession() *domain.TimerSession {
	return &domain.TimerSession{
		ID:        "sess-1",
		ProjectID: "p1",
		TaskID:    "t1",
		Status:    domain.StatusRunning,
		StartedAt: t0,
	}
}

func TestPauseResumeStopAccounting(t *testing.T) {
	s := newRunningSession()

	if err := s.Pause(t0.Add(600 * time.Second)); err != nil {
		t.Fatalf("Pause failed: %v", err)
	}
	if s.ElapsedSeconds != 600 {
		t.Errorf("elapsed after pause = %d, want 600", s.ElapsedSeconds)
	}

	if err := s.Resume(t0.Add(900 * time.Second)); err != nil {
		t.Fatalf("Resume failed: %v", err)
	}
	if s.ElapsedSeconds != 600 {
		t.Errorf("elapsed after resume = %d, want 600", s.ElapsedSeconds)
	}

	if err := s.Finish(t0.Add(1200 * time.Second)); err != nil {
		t.Fatalf("Finish failed: %v", err)
	}
	if s.ElapsedSeconds != 900 {
		t.Errorf("elapsed after stop = %d, want 900", s.ElapsedSeconds)
	}
	if s.BreakSeconds != 0 {
		t.Errorf("break seconds = %d, want 0", s.BreakSeconds)
	}
	if s.Status != domain.StatusStopped {
		t.Errorf("status = %q, want stopped", s.Status)
	}
}

func TestBreakAccountingExcludesBreakTime(t *testing.T) {
	s := newRunningSession()

	if err := s.BeginBreak(t0.Add(300 * time.Second)); err != nil {
		t.Fatalf("BeginBreak failed: %v", err)
	}
	if s.ElapsedSeconds != 300 {
		t.Errorf("elapsed frozen at break = %d, want 300", s.ElapsedSeconds)
	}

	b := &domain.TimerBreak{
		ID:             "brk-1",
		SessionID:      s.ID,
		BreakStartedAt: t0.Add(300 * time.Second),
		Reason:         "lunch",
	}
	if err := s.EndBreak(b, t0.Add(1200*time.Second)); err != nil {
		t.Fatalf("EndBreak failed: %v", err)
	}
	if b.DurationSeconds != 900 {
		t.Errorf("break duration = %d, want 900", b.DurationSeconds)
	}
	if s.BreakSeconds != 900 {
		t.Errorf("session break seconds = %d, want 900", s.BreakSeconds)
	}

	if err := s.Finish(t0.Add(1500 * time.Second)); err != nil {
		t.Fatalf("Finish failed: %v", err)
	}
	if s.ElapsedSeconds != 600 {
		t.Errorf("elapsed = %d, want 600 (300 pre-break + 300 post-break)", s.ElapsedSeconds)
	}
}

func TestStopWhilePausedKeepsFrozenAccounting(t *testing.T) {
	s := newRunningSession()

	if err := s.Pause(t0.Add(450 * time.Second)); err != nil {
		t.Fatalf("Pause failed: %v", err)
	}
	if err := s.Finish(t0.Add(2000 * time.Second)); err != nil {
		t.Fatalf("Finish failed: %v", err)
	}
	if s.ElapsedSeconds != 450 {
		t.Errorf("elapsed = %d, want 450 (paused time excluded)", s.ElapsedSeconds)
	}
}

func TestMultipleBreaksPerSession(t *testing.T) {
	s := newRunningSession()

	for i, window := range []struct{ start, end int64 }{
		{100, 200},
		{300, 450},
	} {
		if err := s.BeginBreak(t0.Add(time.Duration(window.start) * time.Second)); err != nil {
			t.Fatalf("BeginBreak %d failed: %v", i, err)
		}
		b := &domain.TimerBreak{
			SessionID:      s.ID,
			BreakStartedAt: t0.Add(time.Duration(window.start) * time.Second),
		}
		if err := s.EndBreak(b, t0.Add(time.Duration(window.end)*time.Second)); err != nil {
			t.Fatalf("EndBreak %d failed: %v", i, err)
		}
	}

	if s.BreakSeconds != 250 {
		t.Errorf("break seconds = %d, want 250", s.BreakSeconds)
	}

	if err := s.Finish(t0.Add(500 * time.Second)); err != nil {
		t.Fatalf("Finish failed: %v", err)
	}
	// 100 + 100 + 50 worked across the three segments
	if s.ElapsedSeconds != 250 {
		t.Errorf("elapsed = %d, want 250", s.ElapsedSeconds)
	}
}

func TestInvalidTransitions(t *testing.T) {
	now := t0.Add(time.Minute)

	s := newRunningSession()
	if err := s.Resume(now); !errors.Is(err, domain.ErrInvalidState) {
		t.Errorf("Resume on running: err = %v, want ErrInvalidState", err)
	}

	if err := s.Pause(now); err != nil {
		t.Fatalf("Pause failed: %v", err)
	}
	if err := s.Pause(now); !errors.Is(err, domain.ErrInvalidState) {
		t.Errorf("Pause on paused: err = %v, want ErrInvalidState", err)
	}
	if err := s.BeginBreak(now); !errors.Is(err, domain.ErrInvalidState) {
		t.Errorf("BeginBreak on paused: err = %v, want ErrInvalidState", err)
	}

	stopped := newRunningSession()
	if err := stopped.Finish(now); err != nil {
		t.Fatalf("Finish failed: %v", err)
	}
	if err := stopped.Finish(now); !errors.Is(err, domain.ErrInvalidState) {
		t.Errorf("Finish on stopped: err = %v, want ErrInvalidState", err)
	}
}

func TestRateFallback(t *testing.T) {
	taskRate := 80.0
	projectRate := 60.0

	project := &domain.Project{ID: "p1", HourlyRate: &projectRate}
	task := &domain.Task{ID: "t1", HourlyRate: &taskRate}

	if got := domain.RateFor(project, task); got != 80 {
		t.Errorf("task rate wins: got %v, want 80", got)
	}
	task.HourlyRate = nil
	if got := domain.RateFor(project, task); got != 60 {
		t.Errorf("project fallback: got %v, want 60", got)
	}
	project.HourlyRate = nil
	if got := domain.RateFor(project, task); got != 0 {
		t.Errorf("zero fallback: got %v, want 0", got)
	}
}

func TestSnapshotRateRounding(t *testing.T) {
	e := &domain.TimeEntry{DurationSeconds: 5000}
	e.SnapshotRate(72.5)

	if e.HourlyRateSnapshot == nil || *e.HourlyRateSnapshot != 72.5 {
		t.Fatalf("rate snapshot = %v, want 72.5", e.HourlyRateSnapshot)
	}
	// 5000/3600 * 72.5 = 100.6944... -> 100.69
	if e.AmountSnapshot == nil || *e.AmountSnapshot != 100.69 {
		t.Fatalf("amount snapshot = %v, want 100.69", e.AmountSnapshot)
	}
}

func TestEntryPatchRecomputesDuration(t *testing.T) {
	start := t0
	end := t0.Add(90 * time.Minute)
	e := &domain.TimeEntry{StartTime: &start, DurationSeconds: 100}

	if err := e.Apply(domain.TimeEntryPatch{EndTime: &end}); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if e.DurationSeconds != 5400 {
		t.Errorf("duration = %d, want 5400", e.DurationSeconds)
	}

	bad := t0.Add(-time.Hour)
	if err := e.Apply(domain.TimeEntryPatch{EndTime: &bad}); !errors.Is(err, domain.ErrInvalidRange) {
		t.Errorf("end before start: err = %v, want ErrInvalidRange", err)
	}
}
