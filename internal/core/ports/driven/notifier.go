package driven

// Notifier is the fire-and-forget change notification sink.
//
// The core emits one notification per operation that wrote anything back,
// not one per item, so consumers can batch their refresh. There is no
// payload contract beyond "something changed for this list".
type Notifier interface {
	// Notify signals that the named list's data changed.
	// Must not block and must not fail the caller.
	Notify(listID string)
}
