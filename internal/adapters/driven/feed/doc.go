// Package feed implements the remote change-feed client.
//
// One Client serves one remote list's delta endpoint. A page request
// either continues the current pass (next-page cursor) or closes it
// (delta cursor); the server signals a stale cursor with 410 Gone, which
// the client surfaces as domain.ErrCursorExpired so engines can resync.
//
// Transient transport failures are retried here with exponential
// backoff - retry policy belongs to the transport, the sync core never
// retries anything except the single expiry resync.
package feed
