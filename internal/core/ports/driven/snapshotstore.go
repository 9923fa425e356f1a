package driven

import (
	"context"

	"github.com/custodia-labs/leadcache/internal/core/domain"
)

// SnapshotStore persists reconciled list snapshots with their cursors.
//
// Failures are soft for callers: engines degrade reads to empty state and
// log failed writes, keeping the in-memory snapshot authoritative for the
// session. A ListState is only ever written whole - snapshot and cursor
// travel together.
type SnapshotStore interface {
	// Save stores or replaces the state for a list.
	Save(ctx context.Context, state domain.ListState) error

	// Get retrieves the state for a list.
	// Returns domain.ErrNotFound if no state has been saved.
	Get(ctx context.Context, listID string) (*domain.ListState, error)

	// Delete removes the state for a list.
	Delete(ctx context.Context, listID string) error
}
