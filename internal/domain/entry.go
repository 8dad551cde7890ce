package domain

import (
	"math"
	"time"
)

// Time-entry sources.
const (
	SourceTimer  = "timer"
	SourceManual = "manual"
	SourceSync   = "sync"
)

// Sync statuses for a ledger entry.
const (
	SyncStatusSynced  = "synced"
	SyncStatusPending = "pending"
)

// TimeEntry is one billing-relevant record of worked time. Rate and
// amount are snapshots frozen at creation, independent of later rate
// changes on the task or project.
type TimeEntry struct {
	ID                 string
	ProjectID          string
	TaskID             string
	EntryDate          time.Time
	StartTime          *time.Time
	EndTime            *time.Time
	DurationSeconds    int64
	IsManual           bool
	Source             string
	Note               string
	IsBillable         bool
	HourlyRateSnapshot *float64
	AmountSnapshot     *float64
	LocalEntryUUID     string
	SyncStatus         string
	SyncedAt           *time.Time
	DeletedAt          *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// TimeEntryPatch is a typed partial update for an entry: nil fields are
// left untouched. When both times end up set, duration is recomputed and
// the window must be strictly positive.
type TimeEntryPatch struct {
	Note       *string
	IsBillable *bool
	StartTime  *time.Time
	EndTime    *time.Time
}

// Apply mutates the entry with the patch fields and recomputes duration
// when a full start/end window is present.
func (e *TimeEntry) Apply(p TimeEntryPatch) error {
	if p.StartTime != nil {
		e.StartTime = p.StartTime
	}
	if p.EndTime != nil {
		e.EndTime = p.EndTime
	}
	if e.StartTime != nil && e.EndTime != nil {
		d := int64(e.EndTime.Sub(*e.StartTime) / time.Second)
		if d <= 0 {
			return ErrInvalidRange
		}
		e.DurationSeconds = d
	}
	if p.Note != nil {
		e.Note = *p.Note
	}
	if p.IsBillable != nil {
		e.IsBillable = *p.IsBillable
	}
	return nil
}

// SnapshotRate freezes the given hourly rate and the derived amount
// (duration-hours times rate, rounded to 2 decimals) onto the entry.
func (e *TimeEntry) SnapshotRate(rate float64) {
	e.HourlyRateSnapshot = &rate
	amount := math.Round(float64(e.DurationSeconds)/3600*rate*100) / 100
	e.AmountSnapshot = &amount
}
