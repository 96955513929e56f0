package timeline

// TrackKind distinguishes which update path a drag commits through.
type TrackKind string

const (
	TrackAudio TrackKind = "audio"
	TrackVideo TrackKind = "video"
)

// Drag is the explicit two-state machine behind drag-to-reposition:
// Idle until Begin, Dragging until End. Moves while Idle are rejected by
// construction rather than by handler convention.
type Drag struct {
	active      bool
	clipID      string
	track       TrackKind
	anchorX     float64
	anchorStart float64
}

// Begin enters the Dragging state, recording the clip, its track, the
// pointer's starting X and the clip's start time at drag-start.
func (d *Drag) Begin(clipID string, track TrackKind, pointerX, clipStart float64) {
	d.active = true
	d.clipID = clipID
	d.track = track
	d.anchorX = pointerX
	d.anchorStart = clipStart
}

// Move computes the candidate start time for the current pointer position:
// max(0, anchorStart + deltaTime), pulled onto the nearest snap target
// when snapping is enabled. Returns ok=false while Idle.
func (d *Drag) Move(pointerX float64, scale Scale, targets []Target, snapEnabled bool) (float64, bool) {
	if !d.active {
		return 0, false
	}

	delta := (pointerX - d.anchorX) / scale.PixelsPerSecond()
	candidate := d.anchorStart + delta
	if candidate < 0 {
		candidate = 0
	}

	if snapEnabled {
		candidate, _ = Resolve(candidate, targets, scale, SnapThresholdPx)
	}
	return candidate, true
}

// End returns to Idle. The last Move already committed the final position;
// there is no separate drop step.
func (d *Drag) End() {
	*d = Drag{}
}

func (d *Drag) Active() bool {
	return d.active
}

func (d *Drag) ClipID() string {
	return d.clipID
}

func (d *Drag) Track() TrackKind {
	return d.track
}
