package domain

import "time"

// Message is one correlated message returned by the message-search
// transport, in feed-rank order (newest first as ranked by the remote).
type Message struct {
	// ID is the remote message identifier.
	ID string

	// From is the sender's address.
	From string

	// Subject is the message subject line.
	Subject string

	// Draft marks an unsent draft; drafts never count as activity.
	Draft bool

	// Received is when the message was received or sent.
	Received time.Time
}
