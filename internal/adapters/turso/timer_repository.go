package turso

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/workhub-app/workhub/internal/domain"
	"github.com/workhub-app/workhub/internal/util"
)

// TimerRepository persists timer sessions and their breaks.
type TimerRepository struct {
	q DBTX
}

const timerColumns = `id, project_id, task_id, status, started_at, paused_at, resumed_at,
	stopped_at, elapsed_seconds, break_seconds, started_from, local_session_uuid,
	created_at, updated_at`

func (r *TimerRepository) Create(ctx context.Context, s *domain.TimerSession) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO timer_sessions (`+timerColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID,
		s.ProjectID,
		s.TaskID,
		s.Status,
		util.FormatTime(s.StartedAt),
		util.NullTime(s.PausedAt),
		util.NullTime(s.ResumedAt),
		util.NullTime(s.StoppedAt),
		s.ElapsedSeconds,
		s.BreakSeconds,
		s.StartedFrom,
		util.NullString(s.LocalSessionUUID),
		util.FormatTime(s.CreatedAt),
		util.FormatTime(s.UpdatedAt),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("active timer slot taken: %w", domain.ErrInvalidState)
	}
	if err != nil {
		return fmt.Errorf("insert timer session: %w", err)
	}
	return nil
}

func (r *TimerRepository) Update(ctx context.Context, s *domain.TimerSession) error {
	_, err := r.q.ExecContext(ctx, `
		UPDATE timer_sessions
		SET status = ?, paused_at = ?, resumed_at = ?, stopped_at = ?,
			elapsed_seconds = ?, break_seconds = ?, updated_at = ?
		WHERE id = ?`,
		s.Status,
		util.NullTime(s.PausedAt),
		util.NullTime(s.ResumedAt),
		util.NullTime(s.StoppedAt),
		s.ElapsedSeconds,
		s.BreakSeconds,
		util.FormatTime(s.UpdatedAt),
		s.ID,
	)
	if err != nil {
		return fmt.Errorf("update timer session: %w", err)
	}
	return nil
}

func (r *TimerRepository) GetActive(ctx context.Context) (*domain.TimerSession, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+timerColumns+`
		FROM timer_sessions
		WHERE status IN (?, ?, ?)
		ORDER BY started_at DESC
		LIMIT 1`,
		domain.StatusRunning, domain.StatusPaused, domain.StatusOnBreak,
	)
	return scanSession(row)
}

func (r *TimerRepository) GetByID(ctx context.Context, id string) (*domain.TimerSession, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+timerColumns+`
		FROM timer_sessions
		WHERE id = ?`, id)
	return scanSession(row)
}

func scanSession(row *sql.Row) (*domain.TimerSession, error) {
	var s domain.TimerSession
	var startedAt, createdAt, updatedAt string
	var pausedAt, resumedAt, stoppedAt, localUUID sql.NullString

	err := row.Scan(
		&s.ID, &s.ProjectID, &s.TaskID, &s.Status, &startedAt, &pausedAt,
		&resumedAt, &stoppedAt, &s.ElapsedSeconds, &s.BreakSeconds,
		&s.StartedFrom, &localUUID, &createdAt, &updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan timer session: %w", err)
	}

	s.StartedAt = util.ParseTime(startedAt)
	s.PausedAt = util.NullTimeToPtr(pausedAt)
	s.ResumedAt = util.NullTimeToPtr(resumedAt)
	s.StoppedAt = util.NullTimeToPtr(stoppedAt)
	s.LocalSessionUUID = util.NullStringToString(localUUID)
	s.CreatedAt = util.ParseTime(createdAt)
	s.UpdatedAt = util.ParseTime(updatedAt)
	return &s, nil
}

const breakColumns = `id, session_id, break_started_at, break_ended_at, duration_seconds, reason, created_at`

func (r *TimerRepository) CreateBreak(ctx context.Context, b *domain.TimerBreak) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO timer_breaks (`+breakColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		b.ID,
		b.SessionID,
		util.FormatTime(b.BreakStartedAt),
		util.NullTime(b.BreakEndedAt),
		b.DurationSeconds,
		b.Reason,
		util.FormatTime(b.CreatedAt),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("break already open for session %s: %w", b.SessionID, domain.ErrInvalidState)
	}
	if err != nil {
		return fmt.Errorf("insert timer break: %w", err)
	}
	return nil
}

func (r *TimerRepository) UpdateBreak(ctx context.Context, b *domain.TimerBreak) error {
	_, err := r.q.ExecContext(ctx, `
		UPDATE timer_breaks
		SET break_ended_at = ?, duration_seconds = ?
		WHERE id = ?`,
		util.NullTime(b.BreakEndedAt),
		b.DurationSeconds,
		b.ID,
	)
	if err != nil {
		return fmt.Errorf("update timer break: %w", err)
	}
	return nil
}

func (r *TimerRepository) GetOpenBreak(ctx context.Context, sessionID string) (*domain.TimerBreak, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+breakColumns+`
		FROM timer_breaks
		WHERE session_id = ? AND break_ended_at IS NULL
		ORDER BY break_started_at DESC
		LIMIT 1`, sessionID)

	b, err := scanBreak(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan open break: %w", err)
	}
	return b, nil
}

func (r *TimerRepository) ListBreaks(ctx context.Context, sessionID string) ([]*domain.TimerBreak, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+breakColumns+`
		FROM timer_breaks
		WHERE session_id = ?
		ORDER BY break_started_at`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query breaks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var breaks []*domain.TimerBreak
	for rows.Next() {
		b, err := scanBreak(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan break: %w", err)
		}
		breaks = append(breaks, b)
	}
	return breaks, rows.Err()
}

func scanBreak(scan func(...any) error) (*domain.TimerBreak, error) {
	var b domain.TimerBreak
	var startedAt, createdAt string
	var endedAt sql.NullString

	if err := scan(&b.ID, &b.SessionID, &startedAt, &endedAt, &b.DurationSeconds, &b.Reason, &createdAt); err != nil {
		return nil, err
	}

	b.BreakStartedAt = util.ParseTime(startedAt)
	b.BreakEndedAt = util.NullTimeToPtr(endedAt)
	b.CreatedAt = util.ParseTime(createdAt)
	return &b, nil
}
