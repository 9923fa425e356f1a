package domain

// ChangeRecord is one entry from a remote list's change feed.
// Identity is ID; a Removed record carries no meaningful fields.
type ChangeRecord struct {
	// ID is the remote identifier of the changed list item.
	ID string

	// Removed indicates the item was deleted on the remote list.
	Removed bool

	// Fields holds the item's field values as transmitted by the feed.
	// Empty for removed records.
	Fields map[string]string
}

// Syncable is implemented by every item type an engine can reconcile.
type Syncable interface {
	// ItemID returns the remote identifier, unique within one list.
	ItemID() string
}
