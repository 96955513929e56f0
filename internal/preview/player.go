// Package preview models the editor's preview surface: the component that
// owns the primary video element, translates raw media events into the
// store's vocabulary, and exposes VCR-style transport controls.
package preview

import (
	"log/slog"
	"sync"

	"github.com/afterglow/glowcut/internal/editor"
	"github.com/afterglow/glowcut/internal/playback"
)

// SkipSeconds is the relative jump applied by the skip controls.
const SkipSeconds = 5.0

// Player reflects one session's primary video. Volume, mute and
// fullscreen are preview-local: they affect the monitor, not the per-clip
// mix.
type Player struct {
	mu         sync.Mutex
	store      *editor.State
	duration   float64
	hasSource  bool
	volume     float64
	muted      bool
	fullscreen bool
	logger     *slog.Logger
}

func NewPlayer(store *editor.State, logger *slog.Logger) *Player {
	return &Player{
		store:  store,
		volume: 1.0,
		logger: logger,
	}
}

// HandleLoadedMetadata is the loadedmetadata event: the source's natural
// duration is now known, which also arms the scrubber.
func (p *Player) HandleLoadedMetadata(duration float64) {
	p.mu.Lock()
	p.duration = duration
	p.hasSource = duration > 0
	p.mu.Unlock()

	p.store.SetVideoDuration(duration)
}

// HandleTimeUpdate forwards playback progression to the store without
// issuing a seek back at the element that reported it.
func (p *Player) HandleTimeUpdate(currentTime float64) {
	p.store.AdvancePlayhead(currentTime)
}

// HandleEnded treats the ended event as an implicit pause request.
func (p *Player) HandleEnded() {
	p.store.Pause()
}

// PlaybackFailed implements playback.FailureSink. A failed video play is
// how autoplay denial shows up; the player corrects the transport flag
// back to paused so the UI never shows a playing state with frozen media.
// Audio clip failures are logged and kept, per-clip recovery being the
// panels' concern.
func (p *Player) PlaybackFailed(f playback.Failure) {
	if p.logger != nil {
		p.logger.Warn("preview playback failure", "clip_id", f.ClipID, "error", f.Err)
	}
	if f.ClipID == "" {
		p.store.Pause()
	}
}

// TogglePlayPause is a no-op until a source is bound.
func (p *Player) TogglePlayPause() {
	p.mu.Lock()
	ready := p.hasSource
	p.mu.Unlock()
	if !ready {
		return
	}
	p.store.TogglePlayPause()
}

// Skip jumps the play-head by delta seconds; the store clamps the result.
func (p *Player) Skip(delta float64) {
	p.mu.Lock()
	ready := p.hasSource
	p.mu.Unlock()
	if !ready {
		return
	}
	p.store.SetCurrentTime(p.store.CurrentTime() + delta)
}

func (p *Player) SkipForward() {
	p.Skip(SkipSeconds)
}

func (p *Player) SkipBack() {
	p.Skip(-SkipSeconds)
}

// SeekNormalized scrubs to a 0–100 slider position mapped onto
// [0, duration]. The slider value is clamped here, before the store sees
// it.
func (p *Player) SeekNormalized(percent float64) {
	p.mu.Lock()
	ready := p.hasSource
	duration := p.duration
	p.mu.Unlock()
	if !ready {
		return
	}

	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	p.store.SetCurrentTime(percent / 100 * duration)
}

// NormalizedPosition is the scrubber's current 0–100 value. The play-head
// can sit past the video's end when audio clips extend the total
// duration, so the result is clamped to the scrubber's range.
func (p *Player) NormalizedPosition() float64 {
	p.mu.Lock()
	duration := p.duration
	p.mu.Unlock()
	if duration <= 0 {
		return 0
	}
	percent := p.store.CurrentTime() / duration * 100
	if percent < 0 {
		return 0
	}
	if percent > 100 {
		return 100
	}
	return percent
}

// SetVolume sets the preview monitor volume and unmutes.
func (p *Player) SetVolume(volume float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if volume < 0 {
		volume = 0
	}
	if volume > 1 {
		volume = 1
	}
	p.volume = volume
	p.muted = false
}

func (p *Player) ToggleMute() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.muted = !p.muted
}

// EffectiveVolume is what the monitor element should be set to.
func (p *Player) EffectiveVolume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.muted {
		return 0
	}
	return p.volume
}

func (p *Player) Muted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.muted
}

// HandleFullscreenChange tracks the browser's fullscreen-change event, so
// an externally triggered exit (Esc) stays in sync with the toggle
// button's state.
func (p *Player) HandleFullscreenChange(active bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fullscreen = active
}

func (p *Player) Fullscreen() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fullscreen
}

// HasSource reports whether a video source is bound; without one the
// preview renders its empty state and the scrubber is disabled.
func (p *Player) HasSource() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hasSource
}

func (p *Player) Duration() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.duration
}
