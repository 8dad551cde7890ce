// Package otel exports ledger activity to an OTEL Collector over OTLP.
package otel

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/workhub-app/workhub/internal/infrastructure/config"
	"github.com/workhub-app/workhub/internal/ports"
)

const (
	serviceName    = "workhub"
	serviceVersion = "1.0.0"
)

// Exporter exports time-entry and sync-batch metrics.
type Exporter struct {
	provider       *sdkmetric.MeterProvider
	entriesTotal   metric.Int64Counter
	trackedSeconds metric.Int64Counter
	billedAmount   metric.Float64Counter
	durationHist   metric.Float64Histogram
	batchesTotal   metric.Int64Counter
	batchItemsHist metric.Int64Histogram
}

// NewExporter creates an OTLP/gRPC metrics exporter.
func NewExporter(ctx context.Context, cfg config.Metrics) (*Exporter, error) {
	if !cfg.Enabled || cfg.Endpoint == "" {
		return nil, fmt.Errorf("metrics exporter is disabled or endpoint not configured")
	}

	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}

	exp, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	entriesTotal, err := meter.Int64Counter(
		"workhub_time_entries_total",
		metric.WithDescription("Total time entries materialized"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating entries counter: %w", err)
	}

	trackedSeconds, err := meter.Int64Counter(
		"workhub_tracked_seconds_total",
		metric.WithDescription("Total tracked work seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating tracked seconds counter: %w", err)
	}

	billedAmount, err := meter.Float64Counter(
		"workhub_billed_amount_total",
		metric.WithDescription("Total snapshot amount of materialized entries"),
		metric.WithUnit("USD"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating billed amount counter: %w", err)
	}

	durationHist, err := meter.Float64Histogram(
		"workhub_entry_duration_seconds",
		metric.WithDescription("Duration of materialized entries"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating duration histogram: %w", err)
	}

	batchesTotal, err := meter.Int64Counter(
		"workhub_sync_batches_total",
		metric.WithDescription("Total offline sync batches processed"),
		metric.WithUnit("{batch}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating batches counter: %w", err)
	}

	batchItemsHist, err := meter.Int64Histogram(
		"workhub_sync_batch_items",
		metric.WithDescription("Items per sync batch"),
		metric.WithUnit("{item}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating batch items histogram: %w", err)
	}

	return &Exporter{
		provider:       provider,
		entriesTotal:   entriesTotal,
		trackedSeconds: trackedSeconds,
		billedAmount:   billedAmount,
		durationHist:   durationHist,
		batchesTotal:   batchesTotal,
		batchItemsHist: batchItemsHist,
	}, nil
}

// ExportTimeEntry records one materialized entry.
func (e *Exporter) ExportTimeEntry(ctx context.Context, m *ports.EntryMetrics) error {
	opt := metric.WithAttributes(
		attribute.String("project_id", m.ProjectID),
		attribute.String("task_id", m.TaskID),
		attribute.String("source", m.Source),
		attribute.Bool("billable", m.Billable),
	)

	e.entriesTotal.Add(ctx, 1, opt)
	e.trackedSeconds.Add(ctx, m.DurationSeconds, opt)
	e.billedAmount.Add(ctx, m.Amount, opt)
	e.durationHist.Record(ctx, float64(m.DurationSeconds), opt)
	return nil
}

// ExportSyncBatch records the outcome of one reconciliation attempt.
func (e *Exporter) ExportSyncBatch(ctx context.Context, m *ports.BatchMetrics) error {
	opt := metric.WithAttributes(
		attribute.Int("created", m.Created),
		attribute.Int("skipped_duplicates", m.SkippedDuplicates),
		attribute.Int("failed", m.Failed),
	)

	e.batchesTotal.Add(ctx, 1, opt)
	e.batchItemsHist.Record(ctx, int64(m.Received), opt)
	return nil
}

// Close shuts down the exporter and flushes any pending metrics.
func (e *Exporter) Close(ctx context.Context) error {
	return e.provider.Shutdown(ctx)
}
