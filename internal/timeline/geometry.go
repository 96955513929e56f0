// Package timeline implements the editor's view-model: the bidirectional
// mapping between screen pixels and project seconds, magnetic snapping,
// and the drag-to-reposition protocol.
package timeline

import "math"

const (
	// BasePixelsPerSecond is the horizontal density at zoom 1.0.
	BasePixelsPerSecond = 20.0

	MinZoom  = 0.25
	MaxZoom  = 4.0
	ZoomStep = 0.25

	// SnapThresholdPx is the magnetic capture radius around a snap target,
	// in screen pixels. The time-domain radius therefore shrinks as the
	// user zooms in.
	SnapThresholdPx = 10.0
)

// Scale maps between pixel space and timeline seconds for one zoom level.
// The zero value is invalid; construct with NewScale.
type Scale struct {
	zoom float64
}

// NewScale clamps zoom to [MinZoom, MaxZoom] and quantizes it to the
// nearest ZoomStep increment.
func NewScale(zoom float64) Scale {
	if math.IsNaN(zoom) || zoom <= 0 {
		zoom = 1.0
	}
	zoom = math.Round(zoom/ZoomStep) * ZoomStep
	if zoom < MinZoom {
		zoom = MinZoom
	}
	if zoom > MaxZoom {
		zoom = MaxZoom
	}
	return Scale{zoom: zoom}
}

func (s Scale) Zoom() float64 {
	return s.zoom
}

func (s Scale) PixelsPerSecond() float64 {
	return BasePixelsPerSecond * s.zoom
}

// TimeAt converts a pixel offset into timeline seconds.
func (s Scale) TimeAt(px float64) float64 {
	return px / s.PixelsPerSecond()
}

// PixelAt converts timeline seconds into a pixel offset. Inverse of
// TimeAt for every legal zoom.
func (s Scale) PixelAt(t float64) float64 {
	return t * s.PixelsPerSecond()
}

func (s Scale) ZoomIn() Scale {
	return NewScale(s.zoom + ZoomStep)
}

func (s Scale) ZoomOut() Scale {
	return NewScale(s.zoom - ZoomStep)
}

// RulerInterval returns the time-ruler marker spacing in seconds for the
// current zoom. Purely a legibility aid; it does not affect coordinate
// math.
func (s Scale) RulerInterval() float64 {
	switch {
	case s.zoom >= 2.0:
		return 1
	case s.zoom >= 0.75:
		return 5
	default:
		return 10
	}
}
