package timeline

import (
	"sync"

	"github.com/afterglow/glowcut/internal/editor"
)

// Controller wires the geometry, snap and drag pieces to one editor
// session. Pointer events arrive in screen pixels; clip updates flow into
// the store live on every move so the rendered position tracks the
// pointer.
type Controller struct {
	mu          sync.Mutex
	store       *editor.State
	scale       Scale
	snapEnabled bool
	drag        Drag
}

func NewController(store *editor.State) *Controller {
	return &Controller{
		store:       store,
		scale:       NewScale(1.0),
		snapEnabled: true,
	}
}

func (c *Controller) Scale() Scale {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scale
}

func (c *Controller) SetZoom(zoom float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scale = NewScale(zoom)
}

func (c *Controller) ZoomIn() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scale = c.scale.ZoomIn()
}

func (c *Controller) ZoomOut() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scale = c.scale.ZoomOut()
}

func (c *Controller) SetSnapEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapEnabled = enabled
}

func (c *Controller) SnapEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapEnabled
}

// PointerDown over a clip starts a drag. Unknown clip ids are ignored, so
// a pointer-down racing a clip removal does nothing.
func (c *Controller) PointerDown(clipID string, track TrackKind, pointerX float64) {
	var start float64
	switch track {
	case TrackVideo:
		clip, ok := c.store.VideoClip(clipID)
		if !ok {
			return
		}
		start = clip.StartTime
	default:
		clip, ok := c.store.AudioClip(clipID)
		if !ok {
			return
		}
		start = clip.StartTime
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.drag.Begin(clipID, track, pointerX, start)
	c.store.Select(clipID)
}

// PointerMove recomputes the dragged clip's start and commits it
// immediately through the track's update path. Moves while Idle are
// no-ops.
func (c *Controller) PointerMove(pointerX float64) {
	c.mu.Lock()
	if !c.drag.Active() {
		c.mu.Unlock()
		return
	}
	clipID := c.drag.ClipID()
	track := c.drag.Track()
	scale := c.scale
	snap := c.snapEnabled
	c.mu.Unlock()

	targets := CollectTargets(c.store.AudioClips(), c.store.VideoClips(), c.store.Selection(), clipID)

	c.mu.Lock()
	start, ok := c.drag.Move(pointerX, scale, targets, snap)
	c.mu.Unlock()
	if !ok {
		return
	}

	switch track {
	case TrackVideo:
		c.store.UpdateVideoClip(clipID, editor.VideoClipPatch{StartTime: &start})
	default:
		c.store.UpdateAudioClip(clipID, editor.AudioClipPatch{StartTime: &start})
	}
}

// PointerUp clears the drag state. Live updates during the drag are
// already the final values.
func (c *Controller) PointerUp() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.drag.End()
}

// BackgroundClick on empty timeline space seeks the play-head to the
// clicked time and clears the clip selection. Ignored mid-drag.
func (c *Controller) BackgroundClick(pointerX float64) {
	c.mu.Lock()
	if c.drag.Active() {
		c.mu.Unlock()
		return
	}
	t := c.scale.TimeAt(pointerX)
	c.mu.Unlock()

	c.store.SetCurrentTime(t)
	c.store.ClearSelection()
}

// Dragging reports whether a drag gesture is in progress.
func (c *Controller) Dragging() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.drag.Active()
}
