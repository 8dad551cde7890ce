package otel

import (
	"context"

	"github.com/workhub-app/workhub/internal/ports"
)

// NoOpExporter is a metrics exporter that does nothing.
type NoOpExporter struct{}

// NewNoOpExporter creates a no-op exporter for graceful degradation.
func NewNoOpExporter() *NoOpExporter {
	return &NoOpExporter{}
}

func (e *NoOpExporter) ExportTimeEntry(ctx context.Context, m *ports.EntryMetrics) error {
	return nil
}

func (e *NoOpExporter) ExportSyncBatch(ctx context.Context, m *ports.BatchMetrics) error {
	return nil
}

func (e *NoOpExporter) Close(ctx context.Context) error {
	return nil
}
