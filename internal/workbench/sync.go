package workbench

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/workhub-app/workhub/internal/domain"
	"github.com/workhub-app/workhub/internal/ports"
)

// SyncService reconciles batches of client-captured entries into the
// ledger. Items carrying a local_entry_uuid already present in the
// ledger are skipped, so replaying a batch after a partial network
// failure is a ledger no-op for everything that already landed.
type SyncService struct {
	store   ports.Ledger
	clock   ports.Clock
	log     ports.Logger
	metrics ports.MetricsExporter
}

// NewSyncService wires a reconciliation service.
func NewSyncService(store ports.Ledger, clock ports.Clock, log ports.Logger, metrics ports.MetricsExporter) *SyncService {
	return &SyncService{
		store:   store,
		clock:   clock,
		log:     log,
		metrics: metrics,
	}
}

// SyncBatch merges one batch into the ledger. Items are committed
// one-by-one: a malformed or rejected item fails alone, and entries
// committed before any failure stay committed. The returned report is
// valid even when the error is non-nil.
func (s *SyncService) SyncBatch(ctx context.Context, batchUUID string, items []domain.SyncItem) (*domain.SyncReport, error) {
	now := s.clock.Now()

	payload, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("marshal batch payload: %w", err)
	}

	batch := &domain.OfflineSyncBatch{
		ID:          uuid.New().String(),
		BatchUUID:   batchUUID,
		PayloadJSON: string(payload),
		ItemCount:   len(items),
		SyncStatus:  domain.BatchProcessing,
		AttemptedAt: &now,
		CreatedAt:   now,
	}
	if err := s.store.Batches().Create(ctx, batch); err != nil {
		return nil, err
	}

	report := &domain.SyncReport{
		BatchID:   batch.ID,
		BatchUUID: batchUUID,
		Received:  len(items),
	}

	for i, item := range items {
		switch err := s.syncItem(ctx, item, now); {
		case err == nil:
			report.Created++
		case errors.Is(err, domain.ErrDuplicate):
			report.SkippedDuplicates++
		default:
			report.Failed = append(report.Failed, domain.SyncItemError{
				Index:  i,
				UUID:   item.LocalEntryUUID,
				Reason: err.Error(),
			})
		}
	}

	done := s.clock.Now()
	batch.CompletedAt = &done
	if len(report.Failed) == 0 {
		batch.SyncStatus = domain.BatchCompleted
	} else {
		batch.SyncStatus = domain.BatchFailed
		detail, _ := json.Marshal(report.Failed)
		batch.ErrorMessage = string(detail)
	}
	report.Status = batch.SyncStatus

	if err := s.store.Batches().Finalize(ctx, batch); err != nil {
		return report, err
	}

	if err := s.metrics.ExportSyncBatch(ctx, &ports.BatchMetrics{
		BatchUUID:         batchUUID,
		Received:          report.Received,
		Created:           report.Created,
		SkippedDuplicates: report.SkippedDuplicates,
		Failed:            len(report.Failed),
	}); err != nil {
		s.log.Error(fmt.Sprintf("export sync batch metrics: %v", err))
	}

	s.log.Debug(fmt.Sprintf("sync batch %s: %d received, %d created, %d duplicates, %d failed",
		batchUUID, report.Received, report.Created, report.SkippedDuplicates, len(report.Failed)))

	if len(report.Failed) > 0 {
		return report, fmt.Errorf("%d of %d items failed: %w", len(report.Failed), report.Received, domain.ErrPartialFailure)
	}
	return report, nil
}

// syncItem validates and inserts one captured entry. Duplicate detection
// happens twice: a read before the insert, and the unique index on
// local_entry_uuid deciding any concurrent race.
func (s *SyncService) syncItem(ctx context.Context, item domain.SyncItem, now time.Time) error {
	return s.store.WithTx(ctx, func(tx ports.Ledger) error {
		if item.LocalEntryUUID != "" {
			existing, err := tx.Entries().GetByLocalUUID(ctx, item.LocalEntryUUID)
			if err != nil {
				return err
			}
			if existing != nil {
				return domain.ErrDuplicate
			}
		}

		project, err := tx.Directory().GetProject(ctx, item.ProjectID)
		if err != nil {
			return fmt.Errorf("lookup project: %w", err)
		}
		if project == nil || !project.IsActive {
			return fmt.Errorf("project %s: %w", item.ProjectID, domain.ErrInvalidReference)
		}
		task, err := tx.Directory().GetTask(ctx, item.TaskID)
		if err != nil {
			return fmt.Errorf("lookup task: %w", err)
		}
		if task == nil || !task.IsActive || task.ProjectID != project.ID {
			return fmt.Errorf("task %s: %w", item.TaskID, domain.ErrInvalidReference)
		}

		entry, err := entryFromItem(item, now)
		if err != nil {
			return err
		}
		return tx.Entries().Create(ctx, entry)
	})
}

// entryFromItem parses the wire fields of one captured entry.
func entryFromItem(item domain.SyncItem, now time.Time) (*domain.TimeEntry, error) {
	date, err := time.Parse("2006-01-02", item.EntryDate)
	if err != nil {
		return nil, fmt.Errorf("invalid entry_date %q: %w", item.EntryDate, domain.ErrInvalidRange)
	}

	var start, end *time.Time
	duration := item.DurationSeconds

	if item.StartTime != "" || item.EndTime != "" {
		st, err := combineClock(date, item.StartTime)
		if err != nil {
			return nil, err
		}
		en, err := combineClock(date, item.EndTime)
		if err != nil {
			return nil, err
		}
		start, end = &st, &en
		if duration == 0 {
			duration = int64(en.Sub(st) / time.Second)
		}
	}
	if duration <= 0 {
		return nil, fmt.Errorf("duration must be positive: %w", domain.ErrInvalidRange)
	}

	billable := true
	if item.IsBillable != nil {
		billable = *item.IsBillable
	}

	return &domain.TimeEntry{
		ID:              uuid.New().String(),
		ProjectID:       item.ProjectID,
		TaskID:          item.TaskID,
		EntryDate:       date,
		StartTime:       start,
		EndTime:         end,
		DurationSeconds: duration,
		IsManual:        item.IsManual,
		Source:          domain.SourceSync,
		Note:            item.Note,
		IsBillable:      billable,
		LocalEntryUUID:  item.LocalEntryUUID,
		SyncStatus:      domain.SyncStatusSynced,
		SyncedAt:        &now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}
