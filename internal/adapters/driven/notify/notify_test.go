package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelNotifier_Delivers(t *testing.T) {
	notifier := NewChannelNotifier(2)

	notifier.Notify("leads")
	notifier.Notify("contacts")

	assert.Equal(t, "leads", <-notifier.Changes())
	assert.Equal(t, "contacts", <-notifier.Changes())
}

func TestChannelNotifier_DropsWhenFull(t *testing.T) {
	notifier := NewChannelNotifier(1)

	notifier.Notify("leads")
	notifier.Notify("leads") // buffer full, must not block

	require.Equal(t, "leads", <-notifier.Changes())
	select {
	case extra := <-notifier.Changes():
		t.Fatalf("unexpected buffered notification %q", extra)
	default:
	}
}
