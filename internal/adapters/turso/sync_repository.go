package turso

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/workhub-app/workhub/internal/domain"
	"github.com/workhub-app/workhub/internal/util"
)

// SyncBatchRepository records reconciliation attempts, append-only.
type SyncBatchRepository struct {
	q DBTX
}

const batchColumns = `id, batch_uuid, payload_json, item_count, sync_status,
	attempted_at, completed_at, error_message, created_at`

func (r *SyncBatchRepository) Create(ctx context.Context, b *domain.OfflineSyncBatch) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO offline_sync_batches (`+batchColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID,
		b.BatchUUID,
		b.PayloadJSON,
		b.ItemCount,
		b.SyncStatus,
		util.NullTime(b.AttemptedAt),
		util.NullTime(b.CompletedAt),
		b.ErrorMessage,
		util.FormatTime(b.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert sync batch: %w", err)
	}
	return nil
}

func (r *SyncBatchRepository) Finalize(ctx context.Context, b *domain.OfflineSyncBatch) error {
	_, err := r.q.ExecContext(ctx, `
		UPDATE offline_sync_batches
		SET sync_status = ?, completed_at = ?, error_message = ?
		WHERE id = ?`,
		b.SyncStatus,
		util.NullTime(b.CompletedAt),
		b.ErrorMessage,
		b.ID,
	)
	if err != nil {
		return fmt.Errorf("finalize sync batch: %w", err)
	}
	return nil
}

func (r *SyncBatchRepository) ListByUUID(ctx context.Context, batchUUID string) ([]*domain.OfflineSyncBatch, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+batchColumns+`
		FROM offline_sync_batches
		WHERE batch_uuid = ?
		ORDER BY created_at`, batchUUID)
	if err != nil {
		return nil, fmt.Errorf("query sync batches: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var batches []*domain.OfflineSyncBatch
	for rows.Next() {
		var b domain.OfflineSyncBatch
		var createdAt string
		var attemptedAt, completedAt sql.NullString

		err := rows.Scan(
			&b.ID, &b.BatchUUID, &b.PayloadJSON, &b.ItemCount, &b.SyncStatus,
			&attemptedAt, &completedAt, &b.ErrorMessage, &createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan sync batch: %w", err)
		}

		b.AttemptedAt = util.NullTimeToPtr(attemptedAt)
		b.CompletedAt = util.NullTimeToPtr(completedAt)
		b.CreatedAt = util.ParseTime(createdAt)
		batches = append(batches, &b)
	}
	return batches, rows.Err()
}
