package turso

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/workhub-app/workhub/internal/domain"
	"github.com/workhub-app/workhub/internal/ports"
	"github.com/workhub-app/workhub/internal/util"
)

// TimeEntryRepository persists the billable ledger.
type TimeEntryRepository struct {
	q DBTX
}

const entryColumns = `id, project_id, task_id, entry_date, start_time, end_time,
	duration_seconds, is_manual, source, note, is_billable, hourly_rate_snapshot,
	amount_snapshot, local_entry_uuid, sync_status, synced_at, deleted_at,
	created_at, updated_at`

func (r *TimeEntryRepository) Create(ctx context.Context, e *domain.TimeEntry) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO time_entries (`+entryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID,
		e.ProjectID,
		e.TaskID,
		util.FormatDate(e.EntryDate),
		util.NullTime(e.StartTime),
		util.NullTime(e.EndTime),
		e.DurationSeconds,
		util.BoolToInt64(e.IsManual),
		e.Source,
		e.Note,
		util.BoolToInt64(e.IsBillable),
		util.NullFloat64Ptr(e.HourlyRateSnapshot),
		util.NullFloat64Ptr(e.AmountSnapshot),
		util.NullString(e.LocalEntryUUID),
		e.SyncStatus,
		util.NullTime(e.SyncedAt),
		util.NullTime(e.DeletedAt),
		util.FormatTime(e.CreatedAt),
		util.FormatTime(e.UpdatedAt),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("local_entry_uuid %s already in ledger: %w", e.LocalEntryUUID, domain.ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("insert time entry: %w", err)
	}
	return nil
}

func (r *TimeEntryRepository) GetByID(ctx context.Context, id string) (*domain.TimeEntry, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+entryColumns+`
		FROM time_entries
		WHERE id = ? AND deleted_at IS NULL`, id)

	e, err := scanEntry(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan time entry: %w", err)
	}
	return e, nil
}

func (r *TimeEntryRepository) GetByLocalUUID(ctx context.Context, localUUID string) (*domain.TimeEntry, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+entryColumns+`
		FROM time_entries
		WHERE local_entry_uuid = ?`, localUUID)

	e, err := scanEntry(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan time entry by local uuid: %w", err)
	}
	return e, nil
}

func (r *TimeEntryRepository) Update(ctx context.Context, e *domain.TimeEntry) error {
	_, err := r.q.ExecContext(ctx, `
		UPDATE time_entries
		SET start_time = ?, end_time = ?, duration_seconds = ?, note = ?,
			is_billable = ?, sync_status = ?, synced_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL`,
		util.NullTime(e.StartTime),
		util.NullTime(e.EndTime),
		e.DurationSeconds,
		e.Note,
		util.BoolToInt64(e.IsBillable),
		e.SyncStatus,
		util.NullTime(e.SyncedAt),
		util.FormatTime(e.UpdatedAt),
		e.ID,
	)
	if err != nil {
		return fmt.Errorf("update time entry: %w", err)
	}
	return nil
}

func (r *TimeEntryRepository) SoftDelete(ctx context.Context, id string, now time.Time) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE time_entries
		SET deleted_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL`,
		util.FormatTime(now), util.FormatTime(now), id)
	if err != nil {
		return fmt.Errorf("soft delete time entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("soft delete rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("time entry %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *TimeEntryRepository) List(ctx context.Context, opts ports.ListEntriesOptions) ([]*domain.TimeEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM time_entries WHERE deleted_at IS NULL`
	var args []any

	if opts.DateFrom != nil {
		query += ` AND entry_date >= ?`
		args = append(args, util.FormatDate(*opts.DateFrom))
	}
	if opts.DateTo != nil {
		query += ` AND entry_date <= ?`
		args = append(args, util.FormatDate(*opts.DateTo))
	}
	if opts.ProjectID != nil {
		query += ` AND project_id = ?`
		args = append(args, *opts.ProjectID)
	}
	if opts.TaskID != nil {
		query += ` AND task_id = ?`
		args = append(args, *opts.TaskID)
	}
	query += ` ORDER BY entry_date DESC, created_at DESC`
	if opts.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, opts.Limit)
	}

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query time entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []*domain.TimeEntry
	for rows.Next() {
		e, err := scanEntry(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan time entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *TimeEntryRepository) TotalsBetween(ctx context.Context, from, to time.Time) (ports.EntryTotals, error) {
	var t ports.EntryTotals
	err := r.q.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(duration_seconds), 0),
			COALESCE(SUM(CASE WHEN is_billable = 1 THEN duration_seconds ELSE 0 END), 0),
			COALESCE(SUM(amount_snapshot), 0)
		FROM time_entries
		WHERE deleted_at IS NULL AND entry_date >= ? AND entry_date <= ?`,
		util.FormatDate(from), util.FormatDate(to),
	).Scan(&t.Seconds, &t.BillableSeconds, &t.Amount)
	if err != nil {
		return ports.EntryTotals{}, fmt.Errorf("sum entry totals: %w", err)
	}
	return t, nil
}

func (r *TimeEntryRepository) ProjectRollups(ctx context.Context) ([]ports.ProjectRollup, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT p.id, p.name, COALESCE(SUM(e.duration_seconds), 0)
		FROM projects p
		LEFT JOIN time_entries e ON e.project_id = p.id AND e.deleted_at IS NULL
		WHERE p.is_active = 1
		GROUP BY p.id, p.name
		ORDER BY p.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query project rollups: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var rollups []ports.ProjectRollup
	for rows.Next() {
		var pr ports.ProjectRollup
		if err := rows.Scan(&pr.ProjectID, &pr.Name, &pr.Seconds); err != nil {
			return nil, fmt.Errorf("scan project rollup: %w", err)
		}
		rollups = append(rollups, pr)
	}
	return rollups, rows.Err()
}

func scanEntry(scan func(...any) error) (*domain.TimeEntry, error) {
	var e domain.TimeEntry
	var entryDate, createdAt, updatedAt string
	var startTime, endTime, localUUID, syncedAt, deletedAt sql.NullString
	var isManual, isBillable int64
	var rate, amount sql.NullFloat64

	err := scan(
		&e.ID, &e.ProjectID, &e.TaskID, &entryDate, &startTime, &endTime,
		&e.DurationSeconds, &isManual, &e.Source, &e.Note, &isBillable,
		&rate, &amount, &localUUID, &e.SyncStatus, &syncedAt, &deletedAt,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.EntryDate = util.ParseDate(entryDate)
	e.StartTime = util.NullTimeToPtr(startTime)
	e.EndTime = util.NullTimeToPtr(endTime)
	e.IsManual = isManual == 1
	e.IsBillable = isBillable == 1
	e.HourlyRateSnapshot = util.NullFloat64ToPtr(rate)
	e.AmountSnapshot = util.NullFloat64ToPtr(amount)
	e.LocalEntryUUID = util.NullStringToString(localUUID)
	e.SyncedAt = util.NullTimeToPtr(syncedAt)
	e.DeletedAt = util.NullTimeToPtr(deletedAt)
	e.CreatedAt = util.ParseTime(createdAt)
	e.UpdatedAt = util.ParseTime(updatedAt)
	return &e, nil
}
