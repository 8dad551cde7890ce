package turso

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/workhub-app/workhub/internal/domain"
	"github.com/workhub-app/workhub/internal/util"
)

// ProjectDirectory reads the project/task tables owned by the
// management side of the system.
type ProjectDirectory struct {
	q DBTX
}

func (r *ProjectDirectory) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT id, name, hourly_rate, is_active, created_at
		FROM projects
		WHERE id = ?`, id)

	var p domain.Project
	var rate sql.NullFloat64
	var isActive int64
	var createdAt string

	err := row.Scan(&p.ID, &p.Name, &rate, &isActive, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan project: %w", err)
	}

	p.HourlyRate = util.NullFloat64ToPtr(rate)
	p.IsActive = isActive == 1
	p.CreatedAt = util.ParseTime(createdAt)
	return &p, nil
}

func (r *ProjectDirectory) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT id, project_id, title, hourly_rate, billable, is_active, created_at
		FROM tasks
		WHERE id = ?`, id)

	t, err := scanTask(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan task: %w", err)
	}
	return t, nil
}

func (r *ProjectDirectory) ListProjects(ctx context.Context) ([]*domain.Project, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, name, hourly_rate, is_active, created_at
		FROM projects
		WHERE is_active = 1
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var projects []*domain.Project
	for rows.Next() {
		var p domain.Project
		var rate sql.NullFloat64
		var isActive int64
		var createdAt string

		if err := rows.Scan(&p.ID, &p.Name, &rate, &isActive, &createdAt); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		p.HourlyRate = util.NullFloat64ToPtr(rate)
		p.IsActive = isActive == 1
		p.CreatedAt = util.ParseTime(createdAt)
		projects = append(projects, &p)
	}
	return projects, rows.Err()
}

func (r *ProjectDirectory) ListTasks(ctx context.Context, projectID string) ([]*domain.Task, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, project_id, title, hourly_rate, billable, is_active, created_at
		FROM tasks
		WHERE project_id = ? AND is_active = 1
		ORDER BY created_at DESC`, projectID)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []*domain.Task
	for rows.Next() {
		t, err := scanTask(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *ProjectDirectory) CreateProject(ctx context.Context, p *domain.Project) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO projects (id, name, hourly_rate, is_active, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.Name, util.NullFloat64Ptr(p.HourlyRate), util.BoolToInt64(p.IsActive), util.FormatTime(p.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

func (r *ProjectDirectory) CreateTask(ctx context.Context, t *domain.Task) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO tasks (id, project_id, title, hourly_rate, billable, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.ProjectID, t.Title, util.NullFloat64Ptr(t.HourlyRate),
		util.BoolToInt64(t.Billable), util.BoolToInt64(t.IsActive), util.FormatTime(t.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func scanTask(scan func(...any) error) (*domain.Task, error) {
	var t domain.Task
	var rate sql.NullFloat64
	var billable, isActive int64
	var createdAt string

	if err := scan(&t.ID, &t.ProjectID, &t.Title, &rate, &billable, &isActive, &createdAt); err != nil {
		return nil, err
	}

	t.HourlyRate = util.NullFloat64ToPtr(rate)
	t.Billable = billable == 1
	t.IsActive = isActive == 1
	t.CreatedAt = util.ParseTime(createdAt)
	return &t, nil
}
