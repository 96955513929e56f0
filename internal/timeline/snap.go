package timeline

import (
	"math"

	"github.com/afterglow/glowcut/internal/editor"
)

// TargetKind says which boundary a snap target came from.
type TargetKind string

const (
	TargetClipStart    TargetKind = "clip_start"
	TargetClipEnd      TargetKind = "clip_end"
	TargetSelectionIn  TargetKind = "selection_in"
	TargetSelectionOut TargetKind = "selection_out"
)

// Target is one magnetic boundary a dragged clip can be pulled onto.
type Target struct {
	Time   float64
	Kind   TargetKind
	ClipID string
}

// CollectTargets gathers snap targets from every clip on either track
// except the one being dragged, plus the selection in/out points when set.
// Audio and video clips are both targets regardless of which track the
// drag is on.
func CollectTargets(audio []editor.AudioClip, video []editor.VideoClip, sel editor.SelectionRange, excludeClipID string) []Target {
	targets := make([]Target, 0, 2*(len(audio)+len(video))+2)

	for _, c := range audio {
		if c.ID == excludeClipID {
			continue
		}
		targets = append(targets,
			Target{Time: c.StartTime, Kind: TargetClipStart, ClipID: c.ID},
			Target{Time: c.End(), Kind: TargetClipEnd, ClipID: c.ID},
		)
	}
	for _, c := range video {
		if c.ID == excludeClipID {
			continue
		}
		targets = append(targets,
			Target{Time: c.StartTime, Kind: TargetClipStart, ClipID: c.ID},
			Target{Time: c.End(), Kind: TargetClipEnd, ClipID: c.ID},
		)
	}

	if sel.InPoint != nil {
		targets = append(targets, Target{Time: *sel.InPoint, Kind: TargetSelectionIn})
	}
	if sel.OutPoint != nil {
		targets = append(targets, Target{Time: *sel.OutPoint, Kind: TargetSelectionOut})
	}
	return targets
}

// Resolve pulls candidate onto the nearest target within the pixel
// threshold at the given scale. Returns the (possibly unchanged) start
// time and whether a snap occurred. The nearest boundary wins when several
// fall inside the radius.
func Resolve(candidate float64, targets []Target, scale Scale, thresholdPx float64) (float64, bool) {
	threshold := thresholdPx / scale.PixelsPerSecond()

	best := -1
	bestDist := math.Inf(1)
	for i, tgt := range targets {
		dist := math.Abs(tgt.Time - candidate)
		if dist <= threshold && dist < bestDist {
			best = i
			bestDist = dist
		}
	}
	if best < 0 {
		return candidate, false
	}
	return targets[best].Time, true
}
