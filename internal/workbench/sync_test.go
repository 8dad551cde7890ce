package workbench_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/workhub-app/workhub/internal/adapters/otel"
	"github.com/workhub-app/workhub/internal/adapters/turso"
	"github.com/workhub-app/workhub/internal/domain"
	"github.com/workhub-app/workhub/internal/ports"
	"github.com/workhub-app/workhub/internal/workbench"
)

func newSyncService(store *turso.Store, clock *fakeClock) *workbench.SyncService {
	return workbench.NewSyncService(store, clock, workbench.NopLogger{}, otel.NewNoOpExporter())
}

func TestSyncBatchCreatesEntries(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2026, 8, 28, 20, 0, 0, 0, time.UTC)}

	seedProject(t, store, "p1", nil)
	seedTask(t, store, "t1", "p1", nil, true)

	svc := newSyncService(store, clock)

	items := []domain.SyncItem{
		{
			LocalEntryUUID: "u1",
			ProjectID:      "p1",
			TaskID:         "t1",
			EntryDate:      "2026-08-27",
			StartTime:      "09:00:00",
			EndTime:        "10:00:00",
		},
		{
			LocalEntryUUID:  "u2",
			ProjectID:       "p1",
			TaskID:          "t1",
			EntryDate:       "2026-08-27",
			DurationSeconds: 1200,
			IsManual:        true,
			Note:            "captured on the train",
		},
	}

	report, err := svc.SyncBatch(ctx, "batch-1", items)
	if err != nil {
		t.Fatalf("SyncBatch failed: %v", err)
	}
	if report.Received != 2 || report.Created != 2 || report.SkippedDuplicates != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if report.Status != domain.BatchCompleted {
		t.Errorf("expected completed batch, got %s", report.Status)
	}

	// Window items get a computed duration
	first, err := store.Entries().GetByLocalUUID(ctx, "u1")
	if err != nil {
		t.Fatalf("GetByLocalUUID failed: %v", err)
	}
	if first == nil || first.DurationSeconds != 3600 {
		t.Fatalf("expected 3600s computed from window, got %+v", first)
	}
	if first.Source != domain.SourceSync {
		t.Errorf("expected sync source, got %s", first.Source)
	}
	if first.HourlyRateSnapshot != nil {
		t.Error("expected no rate snapshot on synced entries")
	}

	batches, err := store.Batches().ListByUUID(ctx, "batch-1")
	if err != nil {
		t.Fatalf("ListByUUID failed: %v", err)
	}
	if len(batches) != 1 || batches[0].SyncStatus != domain.BatchCompleted {
		t.Fatalf("unexpected batch audit rows: %+v", batches)
	}
	if batches[0].ItemCount != 2 {
		t.Errorf("expected item count 2, got %d", batches[0].ItemCount)
	}
}

func TestSyncBatchReplayIsIdempotent(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2026, 8, 28, 20, 0, 0, 0, time.UTC)}

	seedProject(t, store, "p1", nil)
	seedTask(t, store, "t1", "p1", nil, true)

	svc := newSyncService(store, clock)

	items := []domain.SyncItem{
		{LocalEntryUUID: "u1", ProjectID: "p1", TaskID: "t1", EntryDate: "2026-08-27", DurationSeconds: 600},
		{LocalEntryUUID: "u2", ProjectID: "p1", TaskID: "t1", EntryDate: "2026-08-27", DurationSeconds: 900},
	}

	if _, err := svc.SyncBatch(ctx, "batch-1", items); err != nil {
		t.Fatalf("first SyncBatch failed: %v", err)
	}

	// The client never saw the response and sends everything again
	report, err := svc.SyncBatch(ctx, "batch-1", items)
	if err != nil {
		t.Fatalf("replay SyncBatch failed: %v", err)
	}
	if report.Created != 0 || report.SkippedDuplicates != 2 {
		t.Fatalf("expected pure-duplicate replay, got %+v", report)
	}
	if report.Status != domain.BatchCompleted {
		t.Errorf("expected completed batch, got %s", report.Status)
	}

	entries, err := store.Entries().List(ctx, ports.ListEntriesOptions{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries after replay, got %d", len(entries))
	}

	// Both attempts are kept as audit rows
	batches, err := store.Batches().ListByUUID(ctx, "batch-1")
	if err != nil {
		t.Fatalf("ListByUUID failed: %v", err)
	}
	if len(batches) != 2 {
		t.Fatalf("expected 2 audit rows, got %d", len(batches))
	}
}

func TestSyncBatchPartialFailure(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2026, 8, 28, 20, 0, 0, 0, time.UTC)}

	seedProject(t, store, "p1", nil)
	seedTask(t, store, "t1", "p1", nil, true)

	svc := newSyncService(store, clock)

	items := []domain.SyncItem{
		{LocalEntryUUID: "u1", ProjectID: "p1", TaskID: "t1", EntryDate: "2026-08-27", DurationSeconds: 600},
		{LocalEntryUUID: "u2", ProjectID: "p1", TaskID: "t1", EntryDate: "not-a-date", DurationSeconds: 600},
		{LocalEntryUUID: "u3", ProjectID: "p1", TaskID: "t1", EntryDate: "2026-08-27", DurationSeconds: -5},
		{LocalEntryUUID: "u4", ProjectID: "p1", TaskID: "t1", EntryDate: "2026-08-27", DurationSeconds: 900},
	}

	report, err := svc.SyncBatch(ctx, "batch-1", items)
	if !errors.Is(err, domain.ErrPartialFailure) {
		t.Fatalf("expected ErrPartialFailure, got %v", err)
	}
	if report.Created != 2 || len(report.Failed) != 2 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if report.Status != domain.BatchFailed {
		t.Errorf("expected failed batch status, got %s", report.Status)
	}
	if report.Failed[0].Index != 1 || report.Failed[1].Index != 2 {
		t.Errorf("unexpected failure indices: %+v", report.Failed)
	}

	// The good items stay committed
	entries, err := store.Entries().List(ctx, ports.ListEntriesOptions{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 committed entries, got %d", len(entries))
	}

	batches, err := store.Batches().ListByUUID(ctx, "batch-1")
	if err != nil {
		t.Fatalf("ListByUUID failed: %v", err)
	}
	if len(batches) != 1 || batches[0].SyncStatus != domain.BatchFailed {
		t.Fatalf("expected failed audit row, got %+v", batches)
	}
	if batches[0].ErrorMessage == "" {
		t.Error("expected failure detail on the batch row")
	}
}

func TestSyncBatchRejectsUnknownReferences(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2026, 8, 28, 20, 0, 0, 0, time.UTC)}

	seedProject(t, store, "p1", nil)
	seedProject(t, store, "p2", nil)
	seedTask(t, store, "t1", "p1", nil, true)
	seedInactiveTask(t, store, "t-closed", "p1")

	svc := newSyncService(store, clock)

	items := []domain.SyncItem{
		{LocalEntryUUID: "u1", ProjectID: "nope", TaskID: "t1", EntryDate: "2026-08-27", DurationSeconds: 600},
		{LocalEntryUUID: "u2", ProjectID: "p1", TaskID: "nope", EntryDate: "2026-08-27", DurationSeconds: 600},
		{LocalEntryUUID: "u3", ProjectID: "p2", TaskID: "t1", EntryDate: "2026-08-27", DurationSeconds: 600},
		{LocalEntryUUID: "u4", ProjectID: "p1", TaskID: "t-closed", EntryDate: "2026-08-27", DurationSeconds: 600},
		{LocalEntryUUID: "u5", ProjectID: "p1", TaskID: "t1", EntryDate: "2026-08-27", DurationSeconds: 600},
	}

	report, err := svc.SyncBatch(ctx, "batch-1", items)
	if !errors.Is(err, domain.ErrPartialFailure) {
		t.Fatalf("expected ErrPartialFailure, got %v", err)
	}
	if report.Created != 1 || len(report.Failed) != 4 {
		t.Fatalf("unexpected report: %+v", report)
	}
	for _, f := range report.Failed {
		if !strings.Contains(f.Reason, domain.ErrInvalidReference.Error()) {
			t.Errorf("item %d: expected invalid-reference reason, got %q", f.Index, f.Reason)
		}
	}

	// Only the well-referenced item landed
	entries, err := store.Entries().List(ctx, ports.ListEntriesOptions{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 1 || entries[0].LocalEntryUUID != "u5" {
		t.Fatalf("expected only u5 committed, got %v", entries)
	}
}

func TestConcurrentSyncNeverDuplicatesLocalUUID(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2026, 8, 28, 20, 0, 0, 0, time.UTC)}

	seedProject(t, store, "p1", nil)
	seedTask(t, store, "t1", "p1", nil, true)

	svc := newSyncService(store, clock)

	item := domain.SyncItem{
		LocalEntryUUID:  "u1",
		ProjectID:       "p1",
		TaskID:          "t1",
		EntryDate:       "2026-08-27",
		DurationSeconds: 600,
	}

	// Two clients replay the same captured entry at the same time
	var wg sync.WaitGroup
	reports := make([]*domain.SyncReport, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			reports[i], _ = svc.SyncBatch(ctx, fmt.Sprintf("batch-%d", i), []domain.SyncItem{item})
		}(i)
	}
	wg.Wait()

	created := 0
	for _, r := range reports {
		if r != nil {
			created += r.Created
		}
	}
	if created > 1 {
		t.Fatalf("expected at most one winner, got %d created", created)
	}

	entries, err := store.Entries().List(ctx, ports.ListEntriesOptions{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) > 1 {
		t.Fatalf("ledger double-counted the entry: %d rows", len(entries))
	}
	if len(entries) != created {
		t.Fatalf("reports claim %d created but ledger has %d rows", created, len(entries))
	}
}

func TestSyncBatchDefaultsBillable(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2026, 8, 28, 20, 0, 0, 0, time.UTC)}

	seedProject(t, store, "p1", nil)
	seedTask(t, store, "t1", "p1", nil, true)

	svc := newSyncService(store, clock)

	no := false
	items := []domain.SyncItem{
		{LocalEntryUUID: "u1", ProjectID: "p1", TaskID: "t1", EntryDate: "2026-08-27", DurationSeconds: 600},
		{LocalEntryUUID: "u2", ProjectID: "p1", TaskID: "t1", EntryDate: "2026-08-27", DurationSeconds: 600, IsBillable: &no},
	}
	if _, err := svc.SyncBatch(ctx, "batch-1", items); err != nil {
		t.Fatalf("SyncBatch failed: %v", err)
	}

	first, err := store.Entries().GetByLocalUUID(ctx, "u1")
	if err != nil {
		t.Fatalf("GetByLocalUUID failed: %v", err)
	}
	if !first.IsBillable {
		t.Error("expected billable default true")
	}
	second, err := store.Entries().GetByLocalUUID(ctx, "u2")
	if err != nil {
		t.Fatalf("GetByLocalUUID failed: %v", err)
	}
	if second.IsBillable {
		t.Error("expected explicit is_billable=false respected")
	}
}
