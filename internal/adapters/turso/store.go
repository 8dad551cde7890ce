package turso

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/workhub-app/workhub/internal/ports"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx so every repository can
// run plain or transaction-scoped.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store implements ports.Ledger over a libsql database.
type Store struct {
	db *sql.DB // nil when this store is transaction-scoped
	q  DBTX
}

// NewStore wraps an open database in a Ledger.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db, q: db}
}

func (s *Store) Timers() ports.TimerRepository      { return &TimerRepository{q: s.q} }
func (s *Store) Entries() ports.TimeEntryRepository { return &TimeEntryRepository{q: s.q} }
func (s *Store) Batches() ports.SyncBatchRepository { return &SyncBatchRepository{q: s.q} }
func (s *Store) Directory() ports.ProjectDirectory  { return &ProjectDirectory{q: s.q} }

// WithTx runs fn against a transaction-scoped Ledger. Nested calls reuse
// the enclosing transaction.
func (s *Store) WithTx(ctx context.Context, fn func(ports.Ledger) error) error {
	if s.db == nil {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(&Store{q: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
