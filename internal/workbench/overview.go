package workbench

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/workhub-app/workhub/internal/domain"
	"github.com/workhub-app/workhub/internal/ports"
)

// Overview is the workbench dashboard snapshot.
type Overview struct {
	TodaySeconds         int64
	WeekSeconds          int64
	MonthSeconds         int64
	BillableSecondsMonth int64
	EarningsMonth        float64
	UtilizationPercent   float64
	ActiveTimer          *domain.TimerSession
}

// OverviewService is the read side of the ledger. It recomputes on every
// call; nothing is cached, so writes never leave a stale aggregate.
type OverviewService struct {
	store ports.Ledger
	clock ports.Clock
}

// NewOverviewService wires the read facade.
func NewOverviewService(store ports.Ledger, clock ports.Clock) *OverviewService {
	return &OverviewService{store: store, clock: clock}
}

// Overview aggregates today/this-week/this-month tracked time, the
// month's billable share and earnings, and the active timer.
func (s *OverviewService) Overview(ctx context.Context) (*Overview, error) {
	now := s.clock.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	weekStart := today.AddDate(0, 0, -mondayOffset(today))
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	entries := s.store.Entries()

	todayTotals, err := entries.TotalsBetween(ctx, today, today)
	if err != nil {
		return nil, fmt.Errorf("today totals: %w", err)
	}
	weekTotals, err := entries.TotalsBetween(ctx, weekStart, today)
	if err != nil {
		return nil, fmt.Errorf("week totals: %w", err)
	}
	monthTotals, err := entries.TotalsBetween(ctx, monthStart, today)
	if err != nil {
		return nil, fmt.Errorf("month totals: %w", err)
	}

	active, err := s.store.Timers().GetActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("lookup active timer: %w", err)
	}

	utilization := 0.0
	if monthTotals.Seconds > 0 {
		utilization = math.Round(float64(monthTotals.BillableSeconds)/float64(monthTotals.Seconds)*100*100) / 100
	}

	return &Overview{
		TodaySeconds:         todayTotals.Seconds,
		WeekSeconds:          weekTotals.Seconds,
		MonthSeconds:         monthTotals.Seconds,
		BillableSecondsMonth: monthTotals.BillableSeconds,
		EarningsMonth:        monthTotals.Amount,
		UtilizationPercent:   utilization,
		ActiveTimer:          active,
	}, nil
}

// ProjectRollups returns tracked seconds per active project.
func (s *OverviewService) ProjectRollups(ctx context.Context) ([]ports.ProjectRollup, error) {
	return s.store.Entries().ProjectRollups(ctx)
}

// mondayOffset is the number of days since the most recent Monday.
func mondayOffset(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}
