package domain

import "time"

// Sync batch statuses.
const (
	BatchPending    = "pending"
	BatchProcessing = "processing"
	BatchCompleted  = "completed"
	BatchFailed     = "failed"
)

// OfflineSyncBatch is the append-only audit record of one reconciliation
// attempt. It owns the batch-level outcome, not the entries it produced.
type OfflineSyncBatch struct {
	ID           string
	BatchUUID    string
	PayloadJSON  string
	ItemCount    int
	SyncStatus   string
	AttemptedAt  *time.Time
	CompletedAt  *time.Time
	ErrorMessage string
	CreatedAt    time.Time
}

// SyncItem is one client-captured entry inside a batch payload. Times
// are HH:MM:SS clock strings as recorded by the offline client.
type SyncItem struct {
	LocalEntryUUID  string `json:"local_entry_uuid"`
	ProjectID       string `json:"project_id"`
	TaskID          string `json:"task_id"`
	EntryDate       string `json:"entry_date"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	DurationSeconds int64  `json:"duration_seconds"`
	IsManual        bool   `json:"is_manual"`
	IsBillable      *bool  `json:"is_billable"`
	Note            string `json:"note"`
}

// SyncItemError records why one item of a batch was not committed.
type SyncItemError struct {
	Index  int    `json:"index"`
	UUID   string `json:"local_entry_uuid,omitempty"`
	Reason string `json:"reason"`
}

// SyncReport is the outcome of one reconciliation attempt.
type SyncReport struct {
	BatchID           string          `json:"batch_id"`
	BatchUUID         string          `json:"batch_uuid"`
	Received          int             `json:"received"`
	Created           int             `json:"created"`
	SkippedDuplicates int             `json:"skipped_duplicates"`
	Failed            []SyncItemError `json:"failed,omitempty"`
	Status            string          `json:"status"`
}
