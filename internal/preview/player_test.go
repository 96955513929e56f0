package preview

import (
	"errors"
	"testing"

	"github.com/afterglow/glowcut/internal/editor"
	"github.com/afterglow/glowcut/internal/playback"
)

func newPlayerWithSource(t *testing.T, duration float64) (*Player, *editor.State) {
	t.Helper()
	store := editor.NewState(nil, nil)
	p := NewPlayer(store, nil)
	p.HandleLoadedMetadata(duration)
	return p, store
}

func TestPlayer_LoadedMetadata(t *testing.T) {
	p, store := newPlayerWithSource(t, 42)

	if !p.HasSource() {
		t.Fatal("HasSource() = false after metadata")
	}
	if p.Duration() != 42 {
		t.Fatalf("Duration() = %v, want 42", p.Duration())
	}
	if store.TotalDuration() != 42 {
		t.Fatalf("store duration = %v, want forwarded 42", store.TotalDuration())
	}
}

func TestPlayer_NoSourceDisablesTransport(t *testing.T) {
	store := editor.NewState(nil, nil)
	p := NewPlayer(store, nil)

	p.TogglePlayPause()
	p.SeekNormalized(50)
	p.SkipForward()

	if store.IsPlaying() {
		t.Fatal("transport must be inert without a source")
	}
	if store.CurrentTime() != 0 {
		t.Fatalf("CurrentTime = %v, want 0", store.CurrentTime())
	}
}

func TestPlayer_SeekNormalizedClampsBeforeStore(t *testing.T) {
	p, store := newPlayerWithSource(t, 40)

	p.SeekNormalized(150)
	if got := store.CurrentTime(); got != 40 {
		t.Fatalf("CurrentTime after 150%% = %v, want 40", got)
	}

	p.SeekNormalized(-20)
	if got := store.CurrentTime(); got != 0 {
		t.Fatalf("CurrentTime after -20%% = %v, want 0", got)
	}

	p.SeekNormalized(50)
	if got := store.CurrentTime(); got != 20 {
		t.Fatalf("CurrentTime after 50%% = %v, want 20", got)
	}
	if got := p.NormalizedPosition(); got != 50 {
		t.Fatalf("NormalizedPosition() = %v, want 50", got)
	}
}

func TestPlayer_NormalizedPositionClampsPastVideoEnd(t *testing.T) {
	p, store := newPlayerWithSource(t, 40)

	// A music bed outlasting the video lets the play-head travel beyond
	// the video's own duration.
	store.AddAudioClip(editor.AudioClip{Kind: editor.KindMusic, Duration: 60, Volume: 0.5})
	store.SetCurrentTime(55)

	if got := p.NormalizedPosition(); got != 100 {
		t.Fatalf("NormalizedPosition() = %v, want clamped 100", got)
	}
}

func TestPlayer_Skip(t *testing.T) {
	p, store := newPlayerWithSource(t, 30)
	store.SetCurrentTime(10)

	p.SkipForward()
	if got := store.CurrentTime(); got != 15 {
		t.Fatalf("after SkipForward CurrentTime = %v, want 15", got)
	}

	p.SkipBack()
	p.SkipBack()
	p.SkipBack()
	if got := store.CurrentTime(); got != 0 {
		t.Fatalf("skip past start CurrentTime = %v, want clamped 0", got)
	}

	store.SetCurrentTime(28)
	p.SkipForward()
	if got := store.CurrentTime(); got != 30 {
		t.Fatalf("skip past end CurrentTime = %v, want clamped 30", got)
	}
}

func TestPlayer_EndedPauses(t *testing.T) {
	p, store := newPlayerWithSource(t, 10)
	store.Play()

	p.HandleEnded()
	if store.IsPlaying() {
		t.Fatal("ended event should pause the store")
	}
}

func TestPlayer_TimeUpdateDoesNotSeek(t *testing.T) {
	cond := &seekCountingConductor{}
	store := editor.NewState(cond, nil)
	p := NewPlayer(store, nil)
	p.HandleLoadedMetadata(60)

	p.HandleTimeUpdate(12.5)

	if got := store.CurrentTime(); got != 12.5 {
		t.Fatalf("CurrentTime = %v, want 12.5", got)
	}
	if cond.seeks != 0 {
		t.Fatalf("timeupdate issued %d seeks, want 0", cond.seeks)
	}
}

func TestPlayer_AutoplayDenialRevertsPlaying(t *testing.T) {
	p, store := newPlayerWithSource(t, 10)
	store.Play()

	p.PlaybackFailed(playback.Failure{Err: errors.New("autoplay blocked")})

	if store.IsPlaying() {
		t.Fatal("video play failure must revert isPlaying")
	}
}

func TestPlayer_AudioClipFailureKeepsPlaying(t *testing.T) {
	p, store := newPlayerWithSource(t, 10)
	store.Play()

	p.PlaybackFailed(playback.Failure{ClipID: "clip-1", Err: errors.New("decode failed")})

	if !store.IsPlaying() {
		t.Fatal("a single audio clip failure must not pause the session")
	}
}

func TestPlayer_VolumeAndMute(t *testing.T) {
	p, _ := newPlayerWithSource(t, 10)

	p.SetVolume(0.4)
	if got := p.EffectiveVolume(); got != 0.4 {
		t.Fatalf("EffectiveVolume = %v, want 0.4", got)
	}

	p.ToggleMute()
	if got := p.EffectiveVolume(); got != 0 {
		t.Fatalf("EffectiveVolume muted = %v, want 0", got)
	}

	// Adjusting volume unmutes.
	p.SetVolume(1.7)
	if p.Muted() {
		t.Fatal("SetVolume should unmute")
	}
	if got := p.EffectiveVolume(); got != 1.0 {
		t.Fatalf("EffectiveVolume = %v, want clamped 1.0", got)
	}
}

func TestPlayer_FullscreenTracksExternalExit(t *testing.T) {
	p, _ := newPlayerWithSource(t, 10)

	p.HandleFullscreenChange(true)
	if !p.Fullscreen() {
		t.Fatal("fullscreen flag not set")
	}

	// Esc key exits fullscreen outside our control; the change event keeps
	// the flag honest.
	p.HandleFullscreenChange(false)
	if p.Fullscreen() {
		t.Fatal("fullscreen flag not cleared after external exit")
	}
}

type seekCountingConductor struct {
	seeks int
}

func (c *seekCountingConductor) Play(t float64, clips []editor.AudioClip)      {}
func (c *seekCountingConductor) Pause()                                        {}
func (c *seekCountingConductor) Seek(t float64)                                { c.seeks++ }
func (c *seekCountingConductor) Reconcile(t float64, clips []editor.AudioClip) {}
func (c *seekCountingConductor) Release(clipID string)                         {}
func (c *seekCountingConductor) ReleaseAll()                                   {}
