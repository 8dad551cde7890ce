package ports

import (
	"context"
	"time"

	"github.com/workhub-app/workhub/internal/domain"
)

// TimerRepository persists timer sessions and their breaks.
type TimerRepository interface {
	Create(ctx context.Context, session *domain.TimerSession) error
	Update(ctx context.Context, session *domain.TimerSession) error
	// GetActive returns the at-most-one live session, or nil.
	GetActive(ctx context.Context) (*domain.TimerSession, error)
	GetByID(ctx context.Context, id string) (*domain.TimerSession, error)

	CreateBreak(ctx context.Context, b *domain.TimerBreak) error
	UpdateBreak(ctx context.Context, b *domain.TimerBreak) error
	// GetOpenBreak returns the session's open break, or nil.
	GetOpenBreak(ctx context.Context, sessionID string) (*domain.TimerBreak, error)
	ListBreaks(ctx context.Context, sessionID string) ([]*domain.TimerBreak, error)
}

// ListEntriesOptions filters the ledger read side.
type ListEntriesOptions struct {
	DateFrom  *time.Time
	DateTo    *time.Time
	ProjectID *string
	TaskID    *string
	Limit     int
}

// EntryTotals aggregates ledger durations over a date window.
type EntryTotals struct {
	Seconds         int64
	BillableSeconds int64
	Amount          float64
}

// ProjectRollup is the tracked total for one project.
type ProjectRollup struct {
	ProjectID string
	Name      string
	Seconds   int64
}

// TimeEntryRepository persists the billable ledger. Soft-removed entries
// are excluded from reads and aggregates.
type TimeEntryRepository interface {
	Create(ctx context.Context, entry *domain.TimeEntry) error
	GetByID(ctx context.Context, id string) (*domain.TimeEntry, error)
	// GetByLocalUUID returns the entry carrying the client-supplied
	// idempotency token, or nil.
	GetByLocalUUID(ctx context.Context, localUUID string) (*domain.TimeEntry, error)
	Update(ctx context.Context, entry *domain.TimeEntry) error
	SoftDelete(ctx context.Context, id string, now time.Time) error
	List(ctx context.Context, opts ListEntriesOptions) ([]*domain.TimeEntry, error)
	TotalsBetween(ctx context.Context, from, to time.Time) (EntryTotals, error)
	ProjectRollups(ctx context.Context) ([]ProjectRollup, error)
}

// SyncBatchRepository records reconciliation attempts, append-only.
type SyncBatchRepository interface {
	Create(ctx context.Context, batch *domain.OfflineSyncBatch) error
	Finalize(ctx context.Context, batch *domain.OfflineSyncBatch) error
	ListByUUID(ctx context.Context, batchUUID string) ([]*domain.OfflineSyncBatch, error)
}

// ProjectDirectory is the slice of the project/task management
// collaborator this core consumes: identity, active flag, rates.
type ProjectDirectory interface {
	GetProject(ctx context.Context, id string) (*domain.Project, error)
	GetTask(ctx context.Context, id string) (*domain.Task, error)
	ListProjects(ctx context.Context) ([]*domain.Project, error)
	ListTasks(ctx context.Context, projectID string) ([]*domain.Task, error)
	CreateProject(ctx context.Context, p *domain.Project) error
	CreateTask(ctx context.Context, t *domain.Task) error
}

// Ledger bundles the repositories behind one unit of work. WithTx runs
// fn against a transaction-scoped Ledger; every timer transition and the
// stop-to-entry materialization execute inside exactly one such call.
type Ledger interface {
	Timers() TimerRepository
	Entries() TimeEntryRepository
	Batches() SyncBatchRepository
	Directory() ProjectDirectory
	WithTx(ctx context.Context, fn func(Ledger) error) error
}
