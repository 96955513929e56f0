package playback

import (
	"errors"
	"testing"

	"github.com/afterglow/glowcut/internal/editor"
)

type fakeElement struct {
	playErr   error
	plays     int
	pauses    int
	positions []float64
	volumes   []float64
	closed    bool
}

func (f *fakeElement) Play() error {
	f.plays++
	return f.playErr
}

func (f *fakeElement) Pause() {
	f.pauses++
}

func (f *fakeElement) SetPosition(seconds float64) {
	f.positions = append(f.positions, seconds)
}

func (f *fakeElement) SetVolume(volume float64) {
	f.volumes = append(f.volumes, volume)
}

func (f *fakeElement) Close() error {
	f.closed = true
	return nil
}

type captureSink struct {
	failures []Failure
}

func (s *captureSink) PlaybackFailed(f Failure) {
	s.failures = append(s.failures, f)
}

func TestCoordinator_PlayActivatesOnlyInRangeClips(t *testing.T) {
	c := NewCoordinator(nil)

	voice := &fakeElement{}
	music := &fakeElement{}
	c.RegisterAudio("voice", voice)
	c.RegisterAudio("music", music)

	clips := []editor.AudioClip{
		{ID: "voice", Kind: editor.KindVoiceover, StartTime: 0, Duration: 5, Volume: 1.0},
		{ID: "music", Kind: editor.KindMusic, StartTime: 10, Duration: 10, Volume: 0.5},
	}

	c.Play(12, clips)

	if voice.plays != 0 {
		t.Fatalf("voice clip [0,5) played at t=12: plays=%d", voice.plays)
	}
	if music.plays != 1 {
		t.Fatalf("music clip [10,20) not played at t=12: plays=%d", music.plays)
	}
	if len(music.positions) != 1 || music.positions[0] != 2 {
		t.Fatalf("music positioned at %v, want [2] (t - startTime)", music.positions)
	}
	if len(music.volumes) != 1 || music.volumes[0] != 0.5 {
		t.Fatalf("music volume %v, want [0.5]", music.volumes)
	}
}

func TestCoordinator_PlayStartsVideo(t *testing.T) {
	c := NewCoordinator(nil)
	video := &fakeElement{}
	c.AttachVideo(video)

	c.Play(0, nil)
	if video.plays != 1 {
		t.Fatalf("video plays = %d, want 1", video.plays)
	}
}

func TestCoordinator_ReconcileStopsClipsLeftBehind(t *testing.T) {
	c := NewCoordinator(nil)

	video := &fakeElement{}
	voice := &fakeElement{}
	music := &fakeElement{}
	c.AttachVideo(video)
	c.RegisterAudio("voice", voice)
	c.RegisterAudio("music", music)

	clips := []editor.AudioClip{
		{ID: "voice", Kind: editor.KindVoiceover, StartTime: 0, Duration: 5, Volume: 1.0},
		{ID: "music", Kind: editor.KindMusic, StartTime: 25, Duration: 10, Volume: 0.5},
	}

	c.Play(2, clips)
	if voice.plays != 1 {
		t.Fatalf("voice clip [0,5) not playing at t=2: plays=%d", voice.plays)
	}

	c.Reconcile(30, clips)

	if voice.pauses != 1 {
		t.Fatalf("voice clip [0,5) still playing after play-head left it: pauses=%d", voice.pauses)
	}
	if music.plays != 1 {
		t.Fatalf("music clip [25,35) not started at t=30: plays=%d", music.plays)
	}
	if len(music.positions) != 1 || music.positions[0] != 5 {
		t.Fatalf("music positioned at %v, want [5] (t - startTime)", music.positions)
	}
	if len(music.volumes) != 1 || music.volumes[0] != 0.5 {
		t.Fatalf("music volume %v, want [0.5]", music.volumes)
	}
	if video.plays != 1 || video.pauses != 0 {
		t.Fatalf("reconcile touched the video element: plays=%d pauses=%d", video.plays, video.pauses)
	}
}

func TestCoordinator_ReconcilePausesOrphanedElements(t *testing.T) {
	c := NewCoordinator(nil)

	orphan := &fakeElement{}
	c.RegisterAudio("gone", orphan)

	c.Reconcile(3, nil)

	if orphan.pauses != 1 {
		t.Fatalf("element without a clip kept playing: pauses=%d", orphan.pauses)
	}
}

func TestCoordinator_PauseIsUnconditional(t *testing.T) {
	c := NewCoordinator(nil)
	video := &fakeElement{}
	inRange := &fakeElement{}
	outOfRange := &fakeElement{}
	c.AttachVideo(video)
	c.RegisterAudio("in", inRange)
	c.RegisterAudio("out", outOfRange)

	c.Pause()
	c.Pause()

	if video.pauses != 2 || inRange.pauses != 2 || outOfRange.pauses != 2 {
		t.Fatalf("pauses video=%d in=%d out=%d, want 2 each", video.pauses, inRange.pauses, outOfRange.pauses)
	}
}

func TestCoordinator_SeekTouchesOnlyVideo(t *testing.T) {
	c := NewCoordinator(nil)
	video := &fakeElement{}
	audio := &fakeElement{}
	c.AttachVideo(video)
	c.RegisterAudio("a", audio)

	c.Seek(7.5)

	if len(video.positions) != 1 || video.positions[0] != 7.5 {
		t.Fatalf("video positions = %v, want [7.5]", video.positions)
	}
	if len(audio.positions) != 0 {
		t.Fatalf("bare seek must not touch audio, got positions %v", audio.positions)
	}
}

func TestCoordinator_ReleaseStopsAndCloses(t *testing.T) {
	c := NewCoordinator(nil)
	el := &fakeElement{}
	c.RegisterAudio("clip", el)

	c.Release("clip")

	if el.pauses != 1 || !el.closed {
		t.Fatalf("release: pauses=%d closed=%v, want 1/true", el.pauses, el.closed)
	}
	if c.RegisteredAudio() != 0 {
		t.Fatal("element still registered after release")
	}

	// Releasing an unknown id is tolerated.
	c.Release("clip")
	c.Release("never-existed")
}

func TestCoordinator_ReRegisterClosesStaleElement(t *testing.T) {
	c := NewCoordinator(nil)
	stale := &fakeElement{}
	fresh := &fakeElement{}

	c.RegisterAudio("clip", stale)
	c.RegisterAudio("clip", fresh)

	if !stale.closed {
		t.Fatal("stale element not closed on re-register")
	}
	if fresh.closed {
		t.Fatal("fresh element should stay open")
	}
	if c.RegisteredAudio() != 1 {
		t.Fatalf("RegisteredAudio() = %d, want 1", c.RegisteredAudio())
	}
}

func TestCoordinator_PlayFailureSurfacedPerElement(t *testing.T) {
	c := NewCoordinator(nil)
	sink := &captureSink{}
	c.SetFailureSink(sink)

	broken := &fakeElement{playErr: errors.New("decode failed")}
	healthy := &fakeElement{}
	c.RegisterAudio("broken", broken)
	c.RegisterAudio("healthy", healthy)

	clips := []editor.AudioClip{
		{ID: "broken", StartTime: 0, Duration: 10, Volume: 1},
		{ID: "healthy", StartTime: 0, Duration: 10, Volume: 1},
	}
	c.Play(1, clips)

	if len(sink.failures) != 1 || sink.failures[0].ClipID != "broken" {
		t.Fatalf("failures = %+v, want one for clip broken", sink.failures)
	}
	if healthy.plays != 1 {
		t.Fatal("one failing clip must not block the others")
	}
}

func TestCoordinator_VideoPlayFailureHasEmptyClipID(t *testing.T) {
	c := NewCoordinator(nil)
	sink := &captureSink{}
	c.SetFailureSink(sink)

	video := &fakeElement{playErr: errors.New("autoplay denied")}
	c.AttachVideo(video)

	c.Play(0, nil)

	if len(sink.failures) != 1 || sink.failures[0].ClipID != "" {
		t.Fatalf("failures = %+v, want one with empty clip id", sink.failures)
	}
}

func TestCoordinator_ReleaseAll(t *testing.T) {
	c := NewCoordinator(nil)
	video := &fakeElement{}
	audio := &fakeElement{}
	c.AttachVideo(video)
	c.RegisterAudio("a", audio)

	c.ReleaseAll()

	if !audio.closed || audio.pauses != 1 {
		t.Fatal("audio element not stopped and closed")
	}
	if video.pauses != 1 {
		t.Fatal("video element not paused")
	}
	if c.RegisteredAudio() != 0 {
		t.Fatal("registry not empty after ReleaseAll")
	}

	// A play after teardown commands nothing.
	c.Play(0, []editor.AudioClip{{ID: "a", StartTime: 0, Duration: 10}})
	if audio.plays != 0 || video.plays != 0 {
		t.Fatal("released elements must not be commanded")
	}
}

func TestCoordinator_ClipBoundaryIsExclusive(t *testing.T) {
	c := NewCoordinator(nil)
	el := &fakeElement{}
	c.RegisterAudio("clip", el)

	clips := []editor.AudioClip{{ID: "clip", StartTime: 5, Duration: 5, Volume: 1}}

	// End of interval [5,10) is exclusive.
	c.Play(10, clips)
	if el.plays != 0 {
		t.Fatal("clip activated at its exclusive end boundary")
	}

	c.Play(5, clips)
	if el.plays != 1 {
		t.Fatal("clip not activated at its inclusive start boundary")
	}
	if el.positions[0] != 0 {
		t.Fatalf("position = %v, want 0 at clip start", el.positions[0])
	}
}
