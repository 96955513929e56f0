package playback

import (
	"log/slog"
	"sync"

	"github.com/afterglow/glowcut/internal/editor"
)

// Coordinator binds a session's transport state to one video element and
// N audio elements. It holds a non-owning registry of element handles
// keyed by clip id; the view layer registers an element once it exists
// and must unregister before disposing it.
type Coordinator struct {
	mu     sync.Mutex
	video  Element
	audio  map[string]Element
	sink   FailureSink
	logger *slog.Logger
}

func NewCoordinator(logger *slog.Logger) *Coordinator {
	return &Coordinator{
		audio:  make(map[string]Element),
		logger: logger,
	}
}

// SetFailureSink installs the receiver for playback failures. A nil sink
// drops them (they are still logged).
func (c *Coordinator) SetFailureSink(sink FailureSink) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sink = sink
}

// AttachVideo binds the primary video element. Replacing a previous
// handle pauses it first.
func (c *Coordinator) AttachVideo(el Element) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.video != nil {
		c.video.Pause()
	}
	c.video = el
}

// RegisterAudio binds an element to a clip id. Re-registering the same id
// stops and closes the stale element to avoid dangling playback.
func (c *Coordinator) RegisterAudio(clipID string, el Element) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if old, ok := c.audio[clipID]; ok {
		old.Pause()
		old.Close()
	}
	c.audio[clipID] = el
}

// Release stops and detaches the element bound to the clip, releasing the
// underlying media resource. Unknown ids are no-ops.
func (c *Coordinator) Release(clipID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.audio[clipID]
	if !ok {
		return
	}
	el.Pause()
	if err := el.Close(); err != nil && c.logger != nil {
		c.logger.Warn("failed to close audio element", "clip_id", clipID, "error", err)
	}
	delete(c.audio, clipID)
}

// ReleaseAll detaches everything, video handle included.
func (c *Coordinator) ReleaseAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, el := range c.audio {
		el.Pause()
		el.Close()
		delete(c.audio, id)
	}
	if c.video != nil {
		c.video.Pause()
		c.video = nil
	}
}

// Play starts the primary video and every registered audio clip whose
// [start, start+duration) interval contains t, positioned at t minus the
// clip's start. Clips outside the interval are left untouched: only what
// is under the play-head activates, nothing is scheduled ahead. Elements
// are commanded independently; a failure is reported and the loop moves
// on.
func (c *Coordinator) Play(t float64, clips []editor.AudioClip) {
	c.mu.Lock()
	video := c.video
	type activation struct {
		clip editor.AudioClip
		el   Element
	}
	var active []activation
	for _, clip := range clips {
		el, ok := c.audio[clip.ID]
		if !ok || !clip.Contains(t) {
			continue
		}
		active = append(active, activation{clip: clip, el: el})
	}
	sink := c.sink
	c.mu.Unlock()

	if video != nil {
		if err := video.Play(); err != nil {
			c.reportFailure(sink, Failure{Err: err})
		}
	}

	for _, a := range active {
		a.el.SetPosition(t - a.clip.StartTime)
		a.el.SetVolume(a.clip.Volume)
		if err := a.el.Play(); err != nil {
			c.reportFailure(sink, Failure{ClipID: a.clip.ID, Err: err})
		}
	}
}

// Reconcile re-synchronizes registered audio elements with the play-head
// after it moves mid-playback. Elements whose clip contains t are
// repositioned and started; every other registered element is paused, so
// a clip the play-head has left goes silent instead of running on. The
// video element is not touched; a Seek has already repositioned it and
// it keeps playing.
func (c *Coordinator) Reconcile(t float64, clips []editor.AudioClip) {
	c.mu.Lock()
	byID := make(map[string]editor.AudioClip, len(clips))
	for _, clip := range clips {
		byID[clip.ID] = clip
	}
	type activation struct {
		clip editor.AudioClip
		el   Element
	}
	var active []activation
	var idle []Element
	for id, el := range c.audio {
		clip, ok := byID[id]
		if ok && clip.Contains(t) {
			active = append(active, activation{clip: clip, el: el})
		} else {
			idle = append(idle, el)
		}
	}
	sink := c.sink
	c.mu.Unlock()

	for _, el := range idle {
		el.Pause()
	}
	for _, a := range active {
		a.el.SetPosition(t - a.clip.StartTime)
		a.el.SetVolume(a.clip.Volume)
		if err := a.el.Play(); err != nil {
			c.reportFailure(sink, Failure{ClipID: a.clip.ID, Err: err})
		}
	}
}

// Pause pauses the video and every registered audio element
// unconditionally. Safe to call repeatedly.
func (c *Coordinator) Pause() {
	c.mu.Lock()
	video := c.video
	elements := make([]Element, 0, len(c.audio))
	for _, el := range c.audio {
		elements = append(elements, el)
	}
	c.mu.Unlock()

	if video != nil {
		video.Pause()
	}
	for _, el := range elements {
		el.Pause()
	}
}

// Seek force-sets the primary video position. Audio elements are left
// alone; the store follows a mid-playback seek with a Reconcile that
// re-syncs them.
func (c *Coordinator) Seek(t float64) {
	c.mu.Lock()
	video := c.video
	c.mu.Unlock()

	if video != nil {
		video.SetPosition(t)
	}
}

// RegisteredAudio reports how many audio elements are currently bound.
func (c *Coordinator) RegisteredAudio() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.audio)
}

func (c *Coordinator) reportFailure(sink FailureSink, f Failure) {
	if c.logger != nil {
		c.logger.Warn("playback failed", "clip_id", f.ClipID, "error", f.Err)
	}
	if sink != nil {
		sink.PlaybackFailed(f)
	}
}
