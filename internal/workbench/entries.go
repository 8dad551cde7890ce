package workbench

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/workhub-app/workhub/internal/domain"
	"github.com/workhub-app/workhub/internal/ports"
)

// clockLayout is the wire format for manual and offline clock times.
const clockLayout = "15:04:05"

// ManualEntryParams describe a CreateManualEntry request. Start and End
// are HH:MM:SS clock strings on the entry date; when absent,
// DurationSeconds must be positive.
type ManualEntryParams struct {
	ProjectID       string
	TaskID          string
	Date            time.Time
	Start           string
	End             string
	DurationSeconds int64
	Note            string
	Billable        *bool
}

// EntryService owns the manual side of the ledger: creation, typed
// partial updates, soft removal, and filtered listing.
type EntryService struct {
	store    ports.Ledger
	clock    ports.Clock
	log      ports.Logger
	metrics  ports.MetricsExporter
	pageSize int
}

// NewEntryService wires an entry service. pageSize bounds unfiltered
// listings.
func NewEntryService(store ports.Ledger, clock ports.Clock, log ports.Logger, metrics ports.MetricsExporter, pageSize int) *EntryService {
	return &EntryService{
		store:    store,
		clock:    clock,
		log:      log,
		metrics:  metrics,
		pageSize: pageSize,
	}
}

// CreateManualEntry materializes an entry from caller-supplied fields.
func (s *EntryService) CreateManualEntry(ctx context.Context, p ManualEntryParams) (*domain.TimeEntry, error) {
	now := s.clock.Now()

	var entry *domain.TimeEntry
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

		start, end, duration, err := resolveWindow(p.Date, p.Start, p.End, p.DurationSeconds)
		if err != nil {
			return err
		}

		billable := task.Billable
		if p.Billable != nil {
			billable = *p.Billable
		}

		entry = &domain.TimeEntry{
			ID:              uuid.New().String(),
			ProjectID:       project.ID,
			TaskID:          task.ID,
			EntryDate:       p.Date,
			StartTime:       start,
			EndTime:         end,
			DurationSeconds: duration,
			IsManual:        true,
			Source:          domain.SourceManual,
			Note:            p.Note,
			IsBillable:      billable,
			SyncStatus:      domain.SyncStatusSynced,
			SyncedAt:        &now,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		entry.SnapshotRate(domain.RateFor(project, task))

		return tx.Entries().Create(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	if err := s.metrics.ExportTimeEntry(ctx, entryMetrics(entry)); err != nil {
		s.log.Error(fmt.Sprintf("export entry metrics: %v", err))
	}
	return entry, nil
}

// resolveWindow derives the stored start/end timestamps and duration
// from a manual request. A full clock window wins over a raw duration.
func resolveWindow(date time.Time, startClock, endClock string, rawSeconds int64) (*time.Time, *time.Time, int64, error) {
	if startClock == "" && endClock == "" {
		if rawSeconds <= 0 {
			return nil, nil, 0, fmt.Errorf("duration must be positive: %w", domain.ErrInvalidRange)
		}
		return nil, nil, rawSeconds, nil
	}

	start, err := combineClock(date, startClock)
	if err != nil {
		return nil, nil, 0, err
	}
	end, err := combineClock(date, endClock)
	if err != nil {
		return nil, nil, 0, err
	}

	duration := int64(end.Sub(start) / time.Second)
	if duration <= 0 {
		return nil, nil, 0, fmt.Errorf("end_time must be after start_time: %w", domain.ErrInvalidRange)
	}
	return &start, &end, duration, nil
}

func combineClock(date time.Time, clock string) (time.Time, error) {
	t, err := time.Parse(clockLayout, clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q, use HH:MM:SS: %w", clock, domain.ErrInvalidRange)
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC), nil
}

// GetTimeEntry returns one ledger entry.
func (s *EntryService) GetTimeEntry(ctx context.Context, id string) (*domain.TimeEntry, error) {
	entry, err := s.store.Entries().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, fmt.Errorf("time entry %s: %w", id, domain.ErrNotFound)
	}
	return entry, nil
}

// UpdateTimeEntry applies a typed partial update and recomputes duration
// when the time window changed.
func (s *EntryService) UpdateTimeEntry(ctx context.Context, id string, patch domain.TimeEntryPatch) (*domain.TimeEntry, error) {
	now := s.clock.Now()

	var entry *domain.TimeEntry
	err := s.store.WithTx(ctx, func(tx ports.Ledger) error {
		var err error
		entry, err = tx.Entries().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if entry == nil {
			return fmt.Errorf("time entry %s: %w", id, domain.ErrNotFound)
		}
		if err := entry.Apply(patch); err != nil {
			return err
		}
		entry.UpdatedAt = now
		return tx.Entries().Update(ctx, entry)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// RemoveTimeEntry soft-removes an entry from the ledger.
func (s *EntryService) RemoveTimeEntry(ctx context.Context, id string) error {
	return s.store.Entries().SoftDelete(ctx, id, s.clock.Now())
}

// ListTimeEntries returns ledger entries newest-first, filtered by date
// range, project, and task.
func (s *EntryService) ListTimeEntries(ctx context.Context, opts ports.ListEntriesOptions) ([]*domain.TimeEntry, error) {
	if opts.Limit == 0 {
		opts.Limit = s.pageSize
	}
	return s.store.Entries().List(ctx, opts)
}
