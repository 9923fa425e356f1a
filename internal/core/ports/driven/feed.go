package driven

import (
	"context"

	"github.com/custodia-labs/leadcache/internal/core/domain"
)

// FeedPage is one page of a cursor-paginated change feed.
// Exactly one of NextCursor and DeltaCursor is set: NextCursor continues
// the current pass, DeltaCursor marks the pass complete and is the token
// to resume from on the next sync.
type FeedPage struct {
	// Records are the change records on this page, in feed order.
	Records []domain.ChangeRecord

	// NextCursor continues pagination within the current pass.
	NextCursor string

	// DeltaCursor is the terminal cursor: everything up to here is known.
	DeltaCursor string
}

// HasNext reports whether another page must be fetched this pass.
func (p *FeedPage) HasNext() bool {
	return p.NextCursor != ""
}

// ChangeFeed pulls change pages from one remote list.
//
// FetchPage with an empty cursor starts a full enumeration; a non-empty
// cursor resumes either mid-pass (next-page token) or from a previous
// pass's delta cursor. Implementations must return an error wrapping
// domain.ErrCursorExpired when the remote rejects the cursor as stale,
// distinguishable from generic transport failure.
type ChangeFeed interface {
	// ListID identifies the remote list this feed serves.
	ListID() string

	// FetchPage fetches the next page of changes.
	FetchPage(ctx context.Context, cursor string) (*FeedPage, error)
}
