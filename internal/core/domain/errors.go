package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSyncInProgress indicates a sync is already running for the list.
	ErrSyncInProgress = errors.New("sync in progress")

	// ErrCursorExpired indicates the feed no longer accepts the stored
	// cursor. The snapshot it was paired with is suspect and must be
	// discarded together with it; a full resync follows.
	ErrCursorExpired = errors.New("cursor expired, full resync required")

	// ErrResyncFailed indicates the cursor expired again during the one
	// permitted full-resync retry.
	ErrResyncFailed = errors.New("full resync failed: cursor expired again")

	// ErrStorageUnavailable indicates the persistent store failed.
	// Reads degrade to empty state; writes are logged but never fail a
	// sync pass. The in-memory snapshot stays authoritative.
	ErrStorageUnavailable = errors.New("persistent storage unavailable")

	// Authentication Errors.

	// ErrAuthRequired indicates a remote call needs authentication but
	// none is configured.
	ErrAuthRequired = errors.New("authentication required")

	// ErrAuthExpired indicates the authentication has expired and refresh failed.
	ErrAuthExpired = errors.New("authentication expired")

	// Transport Errors.

	// ErrRateLimited indicates the remote API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)
