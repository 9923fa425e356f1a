package driving

import "context"

// SyncCoordinator coordinates list synchronisation and the derived-status
// pass that follows it.
type SyncCoordinator interface {
	// Sync triggers synchronisation for one list.
	Sync(ctx context.Context, listID string) error

	// SyncAll synchronises every registered list concurrently. One
	// list's failure never blocks the others, and the derived-status
	// pass runs regardless of per-list failures.
	SyncAll(ctx context.Context) error

	// Status returns sync status for a list.
	Status(ctx context.Context, listID string) (*SyncStatus, error)
}

// SyncStatus represents the current state of a sync operation.
type SyncStatus struct {
	// ListID identifies the list.
	ListID string

	// Running indicates if sync is currently in progress.
	Running bool

	// RecordsApplied is the count of change records applied.
	RecordsApplied int

	// LastError holds the most recent failure message, if any.
	LastError string
}
