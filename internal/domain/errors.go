package domain

import "errors"

// Error taxonomy for the time-accounting core. Callers match with
// errors.Is; repositories and services wrap these with context.
var (
	// ErrNotFound is returned when an operation requires an active
	// timer, break, or entry that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState is returned when a transition is not legal from
	// the session's current status.
	ErrInvalidState = errors.New("invalid state")

	// ErrInvalidReference is returned when a project or task is missing
	// or inactive.
	ErrInvalidReference = errors.New("invalid reference")

	// ErrInvalidRange is returned for non-positive or malformed
	// durations and time windows.
	ErrInvalidRange = errors.New("invalid range")

	// ErrPartialFailure is returned when some items of a sync batch
	// failed while others were committed.
	ErrPartialFailure = errors.New("partial failure")

	// ErrDuplicate is surfaced by the ledger when an insert loses the
	// local_entry_uuid uniqueness race; reconciliation counts it as a
	// skipped duplicate, not a failure.
	ErrDuplicate = errors.New("duplicate entry")
)
