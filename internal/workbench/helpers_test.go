package workbench_test

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	_ "github.com/tursodatabase/go-libsql"

	"github.com/workhub-app/workhub/internal/adapters/turso"
	"github.com/workhub-app/workhub/internal/domain"
	"github.com/workhub-app/workhub/internal/migrate"
)

func testStore(t *testing.T) *turso.Store {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sql.Open("libsql", dsn)
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}

	if _, err := migrate.Up(context.Background(), db); err != nil {
		_ = db.Close()
		t.Fatalf("Failed to run migrations: %v", err)
	}

	t.Cleanup(func() { _ = db.Close() })
	return turso.NewStore(db)
}

// fakeClock advances only when a test tells it to.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func f64(v float64) *float64 { return &v }

func seedProject(t *testing.T, store *turso.Store, id string, rate *float64) {
	t.Helper()

	p := &domain.Project{
		ID:         id,
		Name:       "project " + id,
		HourlyRate: rate,
		IsActive:   true,
		CreatedAt:  time.Now().UTC(),
	}
	if err := store.Directory().CreateProject(context.Background(), p); err != nil {
		t.Fatalf("failed to seed project: %v", err)
	}
}

func seedTask(t *testing.T, store *turso.Store, id, projectID string, rate *float64, billable bool) {
	t.Helper()

	task := &domain.Task{
		ID:         id,
		ProjectID:  projectID,
		Title:      "task " + id,
		HourlyRate: rate,
		Billable:   billable,
		IsActive:   true,
		CreatedAt:  time.Now().UTC(),
	}
	if err := store.Directory().CreateTask(context.Background(), task); err != nil {
		t.Fatalf("failed to seed task: %v", err)
	}
}

func seedInactiveTask(t *testing.T, store *turso.Store, id, projectID string) {
	t.Helper()

	task := &domain.Task{
		ID:        id,
		ProjectID: projectID,
		Title:     "task " + id,
		Billable:  true,
		CreatedAt: time.Now().UTC(),
	}
	if err := store.Directory().CreateTask(context.Background(), task); err != nil {
		t.Fatalf("failed to seed task: %v", err)
	}
}
