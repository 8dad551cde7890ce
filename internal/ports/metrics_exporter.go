package ports

import "context"

// MetricsExporter exports ledger activity to an external observability
// system.
type MetricsExporter interface {
	// ExportTimeEntry records one materialized entry.
	ExportTimeEntry(ctx context.Context, m *EntryMetrics) error
	// ExportSyncBatch records the outcome of one reconciliation attempt.
	ExportSyncBatch(ctx context.Context, m *BatchMetrics) error
	// Close shuts down the exporter and flushes pending metrics.
	Close(ctx context.Context) error
}

// EntryMetrics describes one materialized time entry.
type EntryMetrics struct {
	ProjectID       string
	TaskID          string
	Source          string
	Billable        bool
	DurationSeconds int64
	Amount          float64
}

// BatchMetrics describes one finished sync batch.
type BatchMetrics struct {
	BatchUUID         string
	Received          int
	Created           int
	SkippedDuplicates int
	Failed            int
}
