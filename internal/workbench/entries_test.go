package workbench_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/workhub-app/workhub/internal/adapters/otel"
	"github.com/workhub-app/workhub/internal/adapters/turso"
	"github.com/workhub-app/workhub/internal/domain"
	"github.com/workhub-app/workhub/internal/ports"
	"github.com/workhub-app/workhub/internal/workbench"
)

func newEntryService(store *turso.Store, clock *fakeClock) *workbench.EntryService {
	return workbench.NewEntryService(store, clock, workbench.NopLogger{}, otel.NewNoOpExporter(), 50)
}

func TestCreateManualEntryWithClockWindow(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2026, 8, 28, 18, 0, 0, 0, time.UTC)}

	seedProject(t, store, "p1", f64(72.5))
	seedTask(t, store, "t1", "p1", nil, true)

	svc := newEntryService(store, clock)
	date := time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC)

	entry, err := svc.CreateManualEntry(ctx, workbench.ManualEntryParams{
		ProjectID: "p1",
		TaskID:    "t1",
		Date:      date,
		Start:     "09:00:00",
		End:       "10:23:20",
		Note:      "client call",
	})
	if err != nil {
		t.Fatalf("CreateManualEntry failed: %v", err)
	}

	if entry.DurationSeconds != 5000 {
		t.Errorf("expected 5000 seconds from the clock window, got %d", entry.DurationSeconds)
	}
	if !entry.IsManual || entry.Source != domain.SourceManual {
		t.Errorf("expected manual entry, got source=%s manual=%v", entry.Source, entry.IsManual)
	}
	if !entry.IsBillable {
		t.Error("expected billability inherited from the task")
	}
	if entry.HourlyRateSnapshot == nil || *entry.HourlyRateSnapshot != 72.5 {
		t.Fatalf("expected rate snapshot 72.5, got %v", entry.HourlyRateSnapshot)
	}
	// 5000s at 72.50/h rounds to 100.69
	if entry.AmountSnapshot == nil || *entry.AmountSnapshot != 100.69 {
		t.Fatalf("expected amount 100.69, got %v", entry.AmountSnapshot)
	}
}

func TestCreateManualEntryRawDuration(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2026, 8, 28, 18, 0, 0, 0, time.UTC)}

	seedProject(t, store, "p1", nil)
	seedTask(t, store, "t1", "p1", f64(90), false)

	svc := newEntryService(store, clock)
	date := time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC)

	entry, err := svc.CreateManualEntry(ctx, workbench.ManualEntryParams{
		ProjectID:       "p1",
		TaskID:          "t1",
		Date:            date,
		DurationSeconds: 3600,
	})
	if err != nil {
		t.Fatalf("CreateManualEntry failed: %v", err)
	}
	if entry.StartTime != nil || entry.EndTime != nil {
		t.Error("expected no clock window on a raw-duration entry")
	}
	if entry.IsBillable {
		t.Error("expected non-billable default from the task")
	}
	if entry.HourlyRateSnapshot == nil || *entry.HourlyRateSnapshot != 90 {
		t.Fatalf("expected task rate snapshot 90, got %v", entry.HourlyRateSnapshot)
	}
}

func TestCreateManualEntryRejectsBadWindows(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2026, 8, 28, 18, 0, 0, 0, time.UTC)}

	seedProject(t, store, "p1", nil)
	seedTask(t, store, "t1", "p1", nil, true)

	svc := newEntryService(store, clock)
	date := time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC)

	// End before start
	_, err := svc.CreateManualEntry(ctx, workbench.ManualEntryParams{
		ProjectID: "p1", TaskID: "t1", Date: date,
		Start: "10:00:00", End: "09:00:00",
	})
	if !errors.Is(err, domain.ErrInvalidRange) {
		t.Errorf("expected ErrInvalidRange for inverted window, got %v", err)
	}

	// Neither window nor duration
	_, err = svc.CreateManualEntry(ctx, workbench.ManualEntryParams{
		ProjectID: "p1", TaskID: "t1", Date: date,
	})
	if !errors.Is(err, domain.ErrInvalidRange) {
		t.Errorf("expected ErrInvalidRange for empty request, got %v", err)
	}

	// Unknown task
	_, err = svc.CreateManualEntry(ctx, workbench.ManualEntryParams{
		ProjectID: "p1", TaskID: "nope", Date: date, DurationSeconds: 60,
	})
	if !errors.Is(err, domain.ErrInvalidReference) {
		t.Errorf("expected ErrInvalidReference for unknown task, got %v", err)
	}
}

func TestUpdateTimeEntryRecomputesDuration(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2026, 8, 28, 18, 0, 0, 0, time.UTC)}

	seedProject(t, store, "p1", nil)
	seedTask(t, store, "t1", "p1", nil, true)

	svc := newEntryService(store, clock)
	date := time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC)

	entry, err := svc.CreateManualEntry(ctx, workbench.ManualEntryParams{
		ProjectID: "p1", TaskID: "t1", Date: date,
		Start: "09:00:00", End: "10:00:00",
	})
	if err != nil {
		t.Fatalf("CreateManualEntry failed: %v", err)
	}

	newEnd := time.Date(2026, 8, 27, 11, 30, 0, 0, time.UTC)
	note := "extended session"
	billable := false
	updated, err := svc.UpdateTimeEntry(ctx, entry.ID, domain.TimeEntryPatch{
		EndTime:    &newEnd,
		Note:       &note,
		IsBillable: &billable,
	})
	if err != nil {
		t.Fatalf("UpdateTimeEntry failed: %v", err)
	}
	if updated.DurationSeconds != 9000 {
		t.Errorf("expected recomputed duration 9000, got %d", updated.DurationSeconds)
	}
	if updated.Note != "extended session" || updated.IsBillable {
		t.Errorf("patch not applied: note=%q billable=%v", updated.Note, updated.IsBillable)
	}

	// An inverted window is rejected and leaves the row untouched
	badEnd := time.Date(2026, 8, 27, 8, 0, 0, 0, time.UTC)
	if _, err := svc.UpdateTimeEntry(ctx, entry.ID, domain.TimeEntryPatch{EndTime: &badEnd}); !errors.Is(err, domain.ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
	got, err := svc.GetTimeEntry(ctx, entry.ID)
	if err != nil {
		t.Fatalf("GetTimeEntry failed: %v", err)
	}
	if got.DurationSeconds != 9000 {
		t.Errorf("expected duration unchanged after rejected patch, got %d", got.DurationSeconds)
	}

	if _, err := svc.UpdateTimeEntry(ctx, "nope", domain.TimeEntryPatch{Note: &note}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown entry, got %v", err)
	}
}

func TestRemoveTimeEntryHidesFromListing(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2026, 8, 28, 18, 0, 0, 0, time.UTC)}

	seedProject(t, store, "p1", nil)
	seedTask(t, store, "t1", "p1", nil, true)

	svc := newEntryService(store, clock)
	date := time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC)

	entry, err := svc.CreateManualEntry(ctx, workbench.ManualEntryParams{
		ProjectID: "p1", TaskID: "t1", Date: date, DurationSeconds: 600,
	})
	if err != nil {
		t.Fatalf("CreateManualEntry failed: %v", err)
	}

	if err := svc.RemoveTimeEntry(ctx, entry.ID); err != nil {
		t.Fatalf("RemoveTimeEntry failed: %v", err)
	}

	entries, err := svc.ListTimeEntries(ctx, ports.ListEntriesOptions{})
	if err != nil {
		t.Fatalf("ListTimeEntries failed: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected removed entry hidden, got %d entries", len(entries))
	}

	if _, err := svc.GetTimeEntry(ctx, entry.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound after removal, got %v", err)
	}
	if err := svc.RemoveTimeEntry(ctx, entry.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound on double removal, got %v", err)
	}
}
