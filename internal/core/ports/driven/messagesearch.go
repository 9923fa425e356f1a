package driven

import (
	"context"

	"github.com/custodia-labs/leadcache/internal/core/domain"
)

// MessageQuery is one sub-request of a multiplexed message search.
type MessageQuery struct {
	// ID is the caller-supplied correlation id echoed in the result.
	ID string

	// Addresses are joined with OR semantics on the remote side: a
	// message matches if any address appears as sender or recipient.
	Addresses []string
}

// MessageResult is one sub-response of a multiplexed message search.
type MessageResult struct {
	// ID echoes the query's correlation id.
	ID string

	// Messages are the matches in feed-rank order (newest first).
	Messages []domain.Message

	// Err is set when this sub-request failed. Other sub-requests in
	// the same batch are unaffected.
	Err error
}

// MessageSearch submits independently-keyed message searches as a single
// multiplexed request. Implementations enforce their own sub-request
// limit; callers batch accordingly.
type MessageSearch interface {
	// SearchBatch runs the queries as one remote call and returns one
	// result per query. A sub-request failure is reported in its
	// result's Err, never as a call-level error.
	SearchBatch(ctx context.Context, queries []MessageQuery) ([]MessageResult, error)
}
