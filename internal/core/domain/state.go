package domain

import (
	"encoding/json"
	"time"
)

// ListState is the unit of persistence for one synchronized list:
// the reconciled snapshot plus the cursor it was produced with.
//
// Items are stored as raw JSON so the store does not need to know the
// concrete item type; each engine marshals and unmarshals its own items.
// Cursor and snapshot travel together: an expired cursor invalidates the
// snapshot it was paired with, so the pair is always written atomically.
type ListState struct {
	// ListID identifies the list this state belongs to.
	ListID string `json:"list_id"`

	// Cursor is the opaque continuation token from the feed's terminal
	// page. Empty means a full resync is required.
	Cursor string `json:"cursor"`

	// Items is the reconciled snapshot, one JSON document per item.
	Items []json.RawMessage `json:"items"`

	// LastSync is when this state was produced.
	LastSync time.Time `json:"last_sync"`
}
