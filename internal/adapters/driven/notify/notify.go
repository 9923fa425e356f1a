// Package notify provides Notifier implementations: a logging sink for
// the CLI and a channel-backed sink for watch mode and tests.
package notify

import (
	"github.com/custodia-labs/leadcache/internal/core/ports/driven"
	"github.com/custodia-labs/leadcache/internal/logger"
)

// Ensure implementations satisfy the interface.
var (
	_ driven.Notifier = (*LogNotifier)(nil)
	_ driven.Notifier = (*ChannelNotifier)(nil)
)

// LogNotifier logs change notifications. It is the default sink for
// one-shot CLI runs where nothing is listening.
type LogNotifier struct{}

// NewLogNotifier creates a logging notifier.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

// Notify logs the change.
func (n *LogNotifier) Notify(listID string) {
	logger.Debug("list %s: cached data changed", listID)
}

// ChannelNotifier delivers list IDs on a channel. Delivery is best
// effort: when no receiver is ready the notification is dropped rather
// than blocking the sync path.
type ChannelNotifier struct {
	ch chan string
}

// NewChannelNotifier creates a channel notifier with the given buffer.
func NewChannelNotifier(buffer int) *ChannelNotifier {
	if buffer <= 0 {
		buffer = 16
	}
	return &ChannelNotifier{ch: make(chan string, buffer)}
}

// Notify sends the list ID without blocking.
func (n *ChannelNotifier) Notify(listID string) {
	select {
	case n.ch <- listID:
	default:
		logger.Debug("list %s: notification dropped, no receiver", listID)
	}
}

// Changes returns the receive side of the notification channel.
func (n *ChannelNotifier) Changes() <-chan string {
	return n.ch
}
