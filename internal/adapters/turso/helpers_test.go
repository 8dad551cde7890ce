package turso_test

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

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	// Each test gets its own named in-memory database so the partial
	// unique indexes never see rows from other tests.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sql.Open("libsql", dsn)
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}

	ctx := context.Background()
	if _, err := migrate.Up(ctx, db); err != nil {
		_ = db.Close()
		t.Fatalf("Failed to run migrations: %v", err)
	}

	t.Cleanup(func() { _ = db.Close() })
	return db
}

func f64(v float64) *float64 { return &v }

func seedProject(t *testing.T, store *turso.Store, id string, rate *float64) *domain.Project {
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
	return p
}

func seedTask(t *testing.T, store *turso.Store, id, projectID string, rate *float64, billable bool) *domain.Task {
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
	return task
}
