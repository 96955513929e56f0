package editor

import "github.com/google/uuid"

// ClipKind determines which track row an audio clip belongs to and its
// default playback volume.
type ClipKind string

const (
	KindVoiceover ClipKind = "voiceover"
	KindSFX       ClipKind = "sfx"
	KindMusic     ClipKind = "music"
)

// DefaultVolume returns the initial gain for a freshly added clip of the
// given kind. Voiceover sits on top of the mix, music underneath.
func DefaultVolume(kind ClipKind) float64 {
	switch kind {
	case KindMusic:
		return 0.5
	case KindSFX:
		return 0.7
	default:
		return 1.0
	}
}

// AudioClip is a placed instance of an audio source on the timeline. The
// source URL is immutable once set; swapping the source means a new clip.
type AudioClip struct {
	ID        string   `json:"id"`
	Kind      ClipKind `json:"kind"`
	Name      string   `json:"name"`
	URL       string   `json:"url"`
	StartTime float64  `json:"start_time"`
	Duration  float64  `json:"duration"`
	Volume    float64  `json:"volume"`
	Prompt    string   `json:"prompt,omitempty"`
	VoiceID   string   `json:"voice_id,omitempty"`
}

// End returns the clip's end position on the timeline in seconds.
func (c AudioClip) End() float64 {
	return c.StartTime + c.Duration
}

// Contains reports whether t falls inside the clip's [start, end) interval.
func (c AudioClip) Contains(t float64) bool {
	return t >= c.StartTime && t < c.End()
}

// VideoClip is a placed instance of a video source. Thumbnails is an
// ordered filmstrip of frame image paths used for rendering only.
type VideoClip struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	URL        string   `json:"url"`
	StartTime  float64  `json:"start_time"`
	Duration   float64  `json:"duration"`
	Thumbnails []string `json:"thumbnails,omitempty"`
}

func (c VideoClip) End() float64 {
	return c.StartTime + c.Duration
}

// Project is the aggregate the state store owns. It lives in memory for
// the duration of an editing session; persistence is handled separately.
type Project struct {
	Name          string      `json:"name"`
	VideoURL      string      `json:"video_url"`
	VideoDuration float64     `json:"video_duration"`
	AudioClips    []AudioClip `json:"audio_clips"`
	VideoClips    []VideoClip `json:"video_clips"`
	CurrentTime   float64     `json:"current_time"`
	IsPlaying     bool        `json:"is_playing"`
}

// SelectionRange holds the user-marked in/out points. Either marker may be
// unset; both act as snap targets while set.
type SelectionRange struct {
	InPoint  *float64 `json:"in_point,omitempty"`
	OutPoint *float64 `json:"out_point,omitempty"`
}

// NewID returns a fresh opaque clip identifier.
func NewID() string {
	return uuid.NewString()
}
