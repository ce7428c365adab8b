package engine

// Events emitted over the engine's Emitter. UI collaborators re-render from
// a fresh state snapshot on every event, so the payloads only carry what a
// renderer cannot re-derive cheaply.

// LibraryEvent signals that the set of imported media changed.
type LibraryEvent struct{}

// PlaylistEvent signals that the playlist sequence, cursor or shuffle flag
// changed.
type PlaylistEvent struct{}

// PlayStateEvent signals a playback state machine transition.
type PlayStateEvent struct {
	State PlayState
}

// HighlightEvent signals that a different item is driving playback.
type HighlightEvent struct {
	Highlight Highlight
}

// Notification severities.
const (
	SeverityInfo    = "info"
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// NotificationEvent carries fire-and-forget user feedback. Failure to
// display one is never fatal.
type NotificationEvent struct {
	Message  string
	Severity string
}
