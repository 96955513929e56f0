package editor

import (
	"log/slog"
	"sync"
)

// Conductor receives transport intents derived from state mutations. The
// playback coordinator implements it; a nil conductor is valid and turns
// every intent into a no-op, which keeps the store testable in isolation.
type Conductor interface {
	// Play activates playback at t. Only the given clips whose interval
	// contains t are expected to start.
	Play(t float64, clips []AudioClip)
	// Pause pauses every managed element unconditionally.
	Pause()
	// Seek force-sets the primary video position. Audio elements are not
	// re-synced by a bare seek; that happens on the next Play.
	Seek(t float64)
	// Reconcile re-syncs audio with a play-head that moved mid-playback:
	// clips containing t start positioned at t minus their start, clips
	// the play-head has left are paused.
	Reconcile(t float64, clips []AudioClip)
	// Release stops and detaches the media element bound to the clip.
	Release(clipID string)
	// ReleaseAll stops and detaches every registered element.
	ReleaseAll()
}

// State is the single source of truth for one editing session. All
// consumers read derived values from it and dispatch intents to it. It is
// an explicit state-owner object passed by reference, never a package
// singleton, so parallel sessions and tests do not share state.
type State struct {
	mu        sync.Mutex
	project   Project
	selection SelectionRange
	selected  string
	conductor Conductor
	logger    *slog.Logger
	newID     func() string
}

func NewState(conductor Conductor, logger *slog.Logger) *State {
	return &State{
		conductor: conductor,
		logger:    logger,
		newID:     NewID,
	}
}

func (s *State) SetProjectName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.project.Name = name
}

func (s *State) SetVideoURL(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.project.VideoURL = url
}

func (s *State) SetVideoDuration(seconds float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.project.VideoDuration = seconds
}

// AddAudioClip assigns a fresh id and appends the clip. A negative start
// is clamped to zero and the volume is clamped to [0, 1]; an explicit
// zero volume is a valid, silent clip. Returns the generated id.
func (s *State) AddAudioClip(clip AudioClip) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addAudioClipLocked(clip)
}

// AddAudioClipAtPlayhead is the generation-panel entry point: new clips
// land at the current play-head position.
func (s *State) AddAudioClipAtPlayhead(clip AudioClip) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	clip.StartTime = s.project.CurrentTime
	return s.addAudioClipLocked(clip)
}

func (s *State) addAudioClipLocked(clip AudioClip) string {
	clip.ID = s.newID()
	if clip.StartTime < 0 {
		clip.StartTime = 0
	}
	clip.Volume = clamp(clip.Volume, 0, 1)
	s.project.AudioClips = append(s.project.AudioClips, clip)

	if s.logger != nil {
		s.logger.Info("audio clip added",
			"clip_id", clip.ID, "kind", clip.Kind, "start", clip.StartTime, "duration", clip.Duration)
	}
	return clip.ID
}

// AudioClipPatch carries partial field updates. Nil fields are left as-is.
type AudioClipPatch struct {
	Name      *string
	StartTime *float64
	Volume    *float64
}

// UpdateAudioClip merges patch fields into the matching clip. Unknown ids
// are silently ignored: stale UI handlers may fire after a clip was
// removed, and that must not surface as an error.
func (s *State) UpdateAudioClip(id string, patch AudioClipPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.project.AudioClips {
		if s.project.AudioClips[i].ID != id {
			continue
		}
		if patch.Name != nil {
			s.project.AudioClips[i].Name = *patch.Name
		}
		if patch.StartTime != nil {
			start := *patch.StartTime
			if start < 0 {
				start = 0
			}
			s.project.AudioClips[i].StartTime = start
		}
		if patch.Volume != nil {
			s.project.AudioClips[i].Volume = clamp(*patch.Volume, 0, 1)
		}
		return
	}
}

// RemoveAudioClip releases the clip's media element and deletes it. If the
// removed clip was selected, selection is cleared. No-op on unknown id.
func (s *State) RemoveAudioClip(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.project.AudioClips {
		if s.project.AudioClips[i].ID != id {
			continue
		}
		if s.conductor != nil {
			s.conductor.Release(id)
		}
		s.project.AudioClips = append(s.project.AudioClips[:i], s.project.AudioClips[i+1:]...)
		if s.selected == id {
			s.selected = ""
		}
		if s.logger != nil {
			s.logger.Info("audio clip removed", "clip_id", id)
		}
		return
	}
}

func (s *State) AddVideoClip(clip VideoClip) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	clip.ID = s.newID()
	if clip.StartTime < 0 {
		clip.StartTime = 0
	}
	s.project.VideoClips = append(s.project.VideoClips, clip)
	return clip.ID
}

type VideoClipPatch struct {
	Name       *string
	StartTime  *float64
	Thumbnails []string
}

func (s *State) UpdateVideoClip(id string, patch VideoClipPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.project.VideoClips {
		if s.project.VideoClips[i].ID != id {
			continue
		}
		if patch.Name != nil {
			s.project.VideoClips[i].Name = *patch.Name
		}
		if patch.StartTime != nil {
			start := *patch.StartTime
			if start < 0 {
				start = 0
			}
			s.project.VideoClips[i].StartTime = start
		}
		if patch.Thumbnails != nil {
			s.project.VideoClips[i].Thumbnails = patch.Thumbnails
		}
		return
	}
}

func (s *State) RemoveVideoClip(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.project.VideoClips {
		if s.project.VideoClips[i].ID != id {
			continue
		}
		s.project.VideoClips = append(s.project.VideoClips[:i], s.project.VideoClips[i+1:]...)
		if s.selected == id {
			s.selected = ""
		}
		return
	}
}

// SetCurrentTime moves the play-head, clamped to [0, TotalDuration], and
// force-seeks the primary video. During active playback it also re-runs
// clip reconciliation at the new position so clips entering or leaving
// range start or stop immediately.
func (s *State) SetCurrentTime(seconds float64) {
	s.mu.Lock()
	t := clamp(seconds, 0, s.totalDurationLocked())
	s.project.CurrentTime = t
	playing := s.project.IsPlaying
	clips := append([]AudioClip(nil), s.project.AudioClips...)
	s.mu.Unlock()

	if s.conductor == nil {
		return
	}
	s.conductor.Seek(t)
	if playing {
		s.conductor.Reconcile(t, clips)
	}
}

// AdvancePlayhead reflects playback progression reported by the media
// element. Unlike SetCurrentTime it issues no seek, so a timeupdate event
// never loops back into the element that raised it.
func (s *State) AdvancePlayhead(seconds float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.project.CurrentTime = clamp(seconds, 0, s.totalDurationLocked())
}

func (s *State) Play() {
	s.mu.Lock()
	s.project.IsPlaying = true
	t := s.project.CurrentTime
	clips := append([]AudioClip(nil), s.project.AudioClips...)
	s.mu.Unlock()

	if s.conductor != nil {
		s.conductor.Play(t, clips)
	}
}

func (s *State) Pause() {
	s.mu.Lock()
	s.project.IsPlaying = false
	s.mu.Unlock()

	if s.conductor != nil {
		s.conductor.Pause()
	}
}

// TogglePlayPause is the single keyboard-accessible transport entry point.
func (s *State) TogglePlayPause() {
	if s.IsPlaying() {
		s.Pause()
	} else {
		s.Play()
	}
}

// TotalDuration is derived, never stored: the later of the primary video's
// end and the furthest audio clip end.
func (s *State) TotalDuration() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalDurationLocked()
}

func (s *State) totalDurationLocked() float64 {
	total := s.project.VideoDuration
	for _, c := range s.project.AudioClips {
		if end := c.End(); end > total {
			total = end
		}
	}
	return total
}

// Reset releases every media element and restores the initial empty
// project state.
func (s *State) Reset() {
	s.mu.Lock()
	s.project = Project{}
	s.selection = SelectionRange{}
	s.selected = ""
	s.mu.Unlock()

	if s.conductor != nil {
		s.conductor.ReleaseAll()
	}
}

func (s *State) Select(clipID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = clipID
}

func (s *State) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = ""
}

func (s *State) SelectedClipID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// SetSelectionRange replaces the in/out markers. Passing nil clears a
// marker.
func (s *State) SetSelectionRange(in, out *float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = SelectionRange{InPoint: in, OutPoint: out}
}

func (s *State) Selection() SelectionRange {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection
}

func (s *State) CurrentTime() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.project.CurrentTime
}

func (s *State) IsPlaying() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.project.IsPlaying
}

// AudioClips returns a copy of the audio clip collection.
func (s *State) AudioClips() []AudioClip {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]AudioClip(nil), s.project.AudioClips...)
}

// AudioClip returns the clip with the given id, if present.
func (s *State) AudioClip(id string) (AudioClip, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.project.AudioClips {
		if c.ID == id {
			return c, true
		}
	}
	return AudioClip{}, false
}

// VideoClips returns a copy of the video clip collection.
func (s *State) VideoClips() []VideoClip {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]VideoClip(nil), s.project.VideoClips...)
}

func (s *State) VideoClip(id string) (VideoClip, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.project.VideoClips {
		if c.ID == id {
			return c, true
		}
	}
	return VideoClip{}, false
}

// Snapshot returns a copy of the whole project for serialization.
func (s *State) Snapshot() Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.project
	p.AudioClips = append([]AudioClip(nil), s.project.AudioClips...)
	p.VideoClips = append([]VideoClip(nil), s.project.VideoClips...)
	return p
}

// Restore replaces the project wholesale, releasing any currently bound
// media elements first. Used when loading a persisted project.
func (s *State) Restore(p Project) {
	if s.conductor != nil {
		s.conductor.ReleaseAll()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p.IsPlaying = false
	s.project = p
	s.selection = SelectionRange{}
	s.selected = ""
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
