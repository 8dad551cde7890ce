package cli

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/workhub-app/workhub/internal/adapters/otel"
	"github.com/workhub-app/workhub/internal/adapters/turso"
	"github.com/workhub-app/workhub/internal/infrastructure/config"
	"github.com/workhub-app/workhub/internal/ports"
	"github.com/workhub-app/workhub/internal/workbench"
)

type stderrLogger struct{}

func (stderrLogger) Debug(message string) {
	if verbose {
		fmt.Fprintln(os.Stderr, "debug:", message)
	}
}

func (stderrLogger) Error(message string) {
	fmt.Fprintln(os.Stderr, "error:", message)
}

// app bundles the wired services behind one CLI invocation.
type app struct {
	db       *sql.DB
	cfg      *config.Workbench
	metrics  ports.MetricsExporter
	timers   *workbench.TimerService
	entries  *workbench.EntryService
	sync     *workbench.SyncService
	overview *workbench.OverviewService
	store    *turso.Store
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	db, err := turso.NewDB(cfg.Database)
	if err != nil {
		return nil, err
	}

	log := stderrLogger{}

	var metrics ports.MetricsExporter = otel.NewNoOpExporter()
	if mcfg, err := config.LoadMetrics(); err == nil && mcfg.Enabled {
		exporter, err := otel.NewExporter(ctx, mcfg)
		if err != nil {
			log.Error(fmt.Sprintf("metrics exporter unavailable: %v", err))
		} else {
			metrics = exporter
		}
	}

	store := turso.NewStore(db)
	clock := workbench.SystemClock()

	return &app{
		db:       db,
		cfg:      cfg,
		metrics:  metrics,
		timers:   workbench.NewTimerService(store, clock, log, metrics, cfg.AutoStopOnStart),
		entries:  workbench.NewEntryService(store, clock, log, metrics, cfg.DefaultPageSize),
		sync:     workbench.NewSyncService(store, clock, log, metrics),
		overview: workbench.NewOverviewService(store, clock),
		store:    store,
	}, nil
}

func (a *app) close(ctx context.Context) {
	if err := a.metrics.Close(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
	}
	_ = a.db.Close()
}

func formatDuration(seconds int64) string {
	d := time.Duration(seconds) * time.Second
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh %02dm %02ds", h, m, s)
}
