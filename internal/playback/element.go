// Package playback keeps the primary video element and every registered
// audio element synchronized to one session's play-head, and serves the
// underlying media bytes to the preview surface.
package playback

// Element is a handle to one media element. The UI layer owns creation
// and destruction; the coordinator only commands playback. Play may fail
// (autoplay denied, decode error, source gone) and the error is reported
// to the caller rather than swallowed.
type Element interface {
	Play() error
	Pause()
	// SetPosition seeks the element to an offset in seconds relative to
	// its own media, not the project timeline.
	SetPosition(seconds float64)
	SetVolume(volume float64)
	Close() error
}

// Failure is the typed playback-failure event. An empty ClipID means the
// primary video element.
type Failure struct {
	ClipID string
	Err    error
}

// FailureSink receives playback failures from the coordinator's
// activation loop. Delivery is synchronous and per element; one failing
// clip never prevents the remaining clips from starting.
type FailureSink interface {
	PlaybackFailed(f Failure)
}
