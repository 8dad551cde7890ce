// Package workbench implements the billable time-accounting core:
// timer lifecycle, ledger materialization, offline reconciliation, and
// the read-side overview.
package workbench

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/workhub-app/workhub/internal/domain"
	"github.com/workhub-app/workhub/internal/ports"
)

// autoStopNote is written on sessions stopped implicitly by a new start.
const autoStopNote = "Auto-stopped due to new timer start"

// StartParams describe a StartTimer request.
type StartParams struct {
	ProjectID        string
	TaskID           string
	Origin           string
	LocalSessionUUID string
}

// TimerService drives the active-timer state machine and materializes a
// TimeEntry when a session stops. Every transition is one store
// transaction; the mutex serializes transitions within the process so
// two concurrent starts cannot both observe an empty active slot.
type TimerService struct {
	store    ports.Ledger
	clock    ports.Clock
	log      ports.Logger
	metrics  ports.MetricsExporter
	autoStop bool

	mu sync.Mutex
}

// NewTimerService wires a timer service. autoStop selects the policy for
// starting while another timer is live: stop it implicitly (the default
// product behavior) or reject with ErrInvalidState.
func NewTimerService(store ports.Ledger, clock ports.Clock, log ports.Logger, metrics ports.MetricsExporter, autoStop bool) *TimerService {
	return &TimerService{
		store:    store,
		clock:    clock,
		log:      log,
		metrics:  metrics,
		autoStop: autoStop,
	}
}

// Start begins tracking against a (project, task) pair. An already-live
// timer is auto-stopped first, its TimeEntry materialized with a system
// note.
func (s *TimerService) Start(ctx context.Context, p StartParams) (*domain.TimerSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	origin := p.Origin
	if origin == "" {
		origin = domain.OriginWeb
	}

	var session *domain.TimerSession
	var stoppedEntry *ports.EntryMetrics

	err := s.store.WithTx(ctx, func(tx ports.Ledger) error {
		project, err := tx.Directory().GetProject(ctx, p.ProjectID)
		if err != nil {
			return fmt.Errorf("lookup project: %w", err)
		}
		if project == nil || !project.IsActive {
			return fmt.Errorf("project %s: %w", p.ProjectID, domain.ErrInvalidReference)
		}
		task, err := tx.Directory().GetTask(ctx, p.TaskID)
		if err != nil {
			return fmt.Errorf("lookup task: %w", err)
		}
		if task == nil || !task.IsActive || task.ProjectID != project.ID {
			return fmt.Errorf("task %s: %w", p.TaskID, domain.ErrInvalidReference)
		}

		active, err := tx.Timers().GetActive(ctx)
		if err != nil {
			return fmt.Errorf("lookup active timer: %w", err)
		}
		if active != nil {
			if !s.autoStop {
				return fmt.Errorf("timer %s already live: %w", active.ID, domain.ErrInvalidState)
			}
			entry, err := s.stopSession(ctx, tx, active, autoStopNote, now)
			if err != nil {
				return fmt.Errorf("auto-stop active timer: %w", err)
			}
			stoppedEntry = entryMetrics(entry)
		}

		session = &domain.TimerSession{
			ID:               uuid.New().String(),
			ProjectID:        project.ID,
			TaskID:           task.ID,
			Status:           domain.StatusRunning,
			StartedAt:        now,
			StartedFrom:      origin,
			LocalSessionUUID: p.LocalSessionUUID,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if err := tx.Timers().Create(ctx, session); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if stoppedEntry != nil {
		s.exportEntry(ctx, stoppedEntry)
	}
	s.log.Debug(fmt.Sprintf("started timer %s on project %s task %s", session.ID, p.ProjectID, p.TaskID))
	return session, nil
}

// Pause freezes the running timer's elapsed accounting.
func (s *TimerService) Pause(ctx context.Context) (*domain.TimerSession, error) {
	return s.transition(ctx, "pause", func(session *domain.TimerSession, _ ports.Ledger, now time.Time) error {
		return session.Pause(now)
	})
}

// Resume restarts a paused timer's work segment.
func (s *TimerService) Resume(ctx context.Context) (*domain.TimerSession, error) {
	return s.transition(ctx, "resume", func(session *domain.TimerSession, _ ports.Ledger, now time.Time) error {
		return session.Resume(now)
	})
}

// StartBreak freezes elapsed accounting and opens a break interval.
func (s *TimerService) StartBreak(ctx context.Context, reason string) (*domain.TimerSession, error) {
	return s.transition(ctx, "start break", func(session *domain.TimerSession, tx ports.Ledger, now time.Time) error {
		if err := session.BeginBreak(now); err != nil {
			return err
		}
		return tx.Timers().CreateBreak(ctx, &domain.TimerBreak{
			ID:             uuid.New().String(),
			SessionID:      session.ID,
			BreakStartedAt: now,
			Reason:         reason,
			CreatedAt:      now,
		})
	})
}

// StopBreak closes the open break and puts the timer back to work.
func (s *TimerService) StopBreak(ctx context.Context) (*domain.TimerSession, error) {
	return s.transition(ctx, "stop break", func(session *domain.TimerSession, tx ports.Ledger, now time.Time) error {
		b, err := tx.Timers().GetOpenBreak(ctx, session.ID)
		if err != nil {
			return fmt.Errorf("lookup open break: %w", err)
		}
		if err := session.EndBreak(b, now); err != nil {
			return err
		}
		return tx.Timers().UpdateBreak(ctx, b)
	})
}

// Stop finalizes the active timer and materializes its TimeEntry in the
// same transaction. Returns the stopped session and the entry.
func (s *TimerService) Stop(ctx context.Context, note string) (*domain.TimerSession, *domain.TimeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()

	var session *domain.TimerSession
	var entry *domain.TimeEntry

	err := s.store.WithTx(ctx, func(tx ports.Ledger) error {
		var err error
		session, err = tx.Timers().GetActive(ctx)
		if err != nil {
			return fmt.Errorf("lookup active timer: %w", err)
		}
		if session == nil {
			return fmt.Errorf("no active timer: %w", domain.ErrNotFound)
		}
		entry, err = s.stopSession(ctx, tx, session, note, now)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	s.exportEntry(ctx, entryMetrics(entry))
	s.log.Debug(fmt.Sprintf("stopped timer %s: %ds worked, %ds on break", session.ID, session.ElapsedSeconds, session.BreakSeconds))
	return session, entry, nil
}

// Active returns the current active timer, or nil.
func (s *TimerService) Active(ctx context.Context) (*domain.TimerSession, error) {
	return s.store.Timers().GetActive(ctx)
}

// Breaks lists a session's break intervals.
func (s *TimerService) Breaks(ctx context.Context, sessionID string) ([]*domain.TimerBreak, error) {
	return s.store.Timers().ListBreaks(ctx, sessionID)
}

// transition runs one read-modify-write cycle against the active timer.
func (s *TimerService) transition(ctx context.Context, op string, fn func(*domain.TimerSession, ports.Ledger, time.Time) error) (*domain.TimerSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	var session *domain.TimerSession

	err := s.store.WithTx(ctx, func(tx ports.Ledger) error {
		var err error
		session, err = tx.Timers().GetActive(ctx)
		if err != nil {
			return fmt.Errorf("lookup active timer: %w", err)
		}
		if session == nil {
			return fmt.Errorf("%s: no active timer: %w", op, domain.ErrNotFound)
		}
		if err := fn(session, tx, now); err != nil {
			return err
		}
		session.UpdatedAt = now
		return tx.Timers().Update(ctx, session)
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// stopSession finalizes a live session and materializes its TimeEntry.
// Runs inside the caller's transaction so the status flip and the insert
// commit or roll back together.
func (s *TimerService) stopSession(ctx context.Context, tx ports.Ledger, session *domain.TimerSession, note string, now time.Time) (*domain.TimeEntry, error) {
	if session.Status == domain.StatusOnBreak {
		b, err := tx.Timers().GetOpenBreak(ctx, session.ID)
		if err != nil {
			return nil, fmt.Errorf("lookup open break: %w", err)
		}
		if b != nil {
			if err := session.EndBreak(b, now); err != nil {
				return nil, err
			}
			if err := tx.Timers().UpdateBreak(ctx, b); err != nil {
				return nil, err
			}
		} else {
			// break row missing; recover by resuming accounting at now
			session.ResumedAt = &now
			session.PausedAt = nil
			session.Status = domain.StatusRunning
		}
	}

	if err := session.Finish(now); err != nil {
		return nil, err
	}
	session.UpdatedAt = now
	if err := tx.Timers().Update(ctx, session); err != nil {
		return nil, err
	}

	project, err := tx.Directory().GetProject(ctx, session.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("lookup project: %w", err)
	}
	task, err := tx.Directory().GetTask(ctx, session.TaskID)
	if err != nil {
		return nil, fmt.Errorf("lookup task: %w", err)
	}

	billable := true
	if task != nil {
		billable = task.Billable
	}

	entry := &domain.TimeEntry{
		ID:              uuid.New().String(),
		ProjectID:       session.ProjectID,
		TaskID:          session.TaskID,
		EntryDate:       now,
		StartTime:       &session.StartedAt,
		EndTime:         session.StoppedAt,
		DurationSeconds: session.ElapsedSeconds,
		IsManual:        false,
		Source:          domain.SourceTimer,
		Note:            note,
		IsBillable:      billable,
		SyncStatus:      domain.SyncStatusSynced,
		SyncedAt:        &now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	entry.SnapshotRate(domain.RateFor(project, task))

	if err := tx.Entries().Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func entryMetrics(e *domain.TimeEntry) *ports.EntryMetrics {
	m := &ports.EntryMetrics{
		ProjectID:       e.ProjectID,
		TaskID:          e.TaskID,
		Source:          e.Source,
		Billable:        e.IsBillable,
		DurationSeconds: e.DurationSeconds,
	}
	if e.AmountSnapshot != nil {
		m.Amount = *e.AmountSnapshot
	}
	return m
}

func (s *TimerService) exportEntry(ctx context.Context, m *ports.EntryMetrics) {
	if err := s.metrics.ExportTimeEntry(ctx, m); err != nil {
		s.log.Error(fmt.Sprintf("export entry metrics: %v", err))
	}
}
