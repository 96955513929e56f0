package api

import (
	"time"

	"github.com/afterglow/glowcut/internal/editor"
	"github.com/afterglow/glowcut/internal/session"
)

type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	UptimeS  int64  `json:"uptime_s"`
	DeviceID string `json:"device_id"`
}

type StatusResponse struct {
	Sessions        int `json:"sessions"`
	PlayingSessions int `json:"playing_sessions"`
	SavedProjects   int `json:"saved_projects"`
}

type CreateSessionRequest struct {
	Name string `json:"name"`
}

type SessionResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	CreatedAt     string  `json:"created_at"`
	CurrentTime   float64 `json:"current_time"`
	IsPlaying     bool    `json:"is_playing"`
	TotalDuration float64 `json:"total_duration"`
	AudioClips    int     `json:"audio_clips"`
	VideoClips    int     `json:"video_clips"`
	Zoom          float64 `json:"zoom"`
	SnapEnabled   bool    `json:"snap_enabled"`
}

type SessionsResponse struct {
	Sessions []SessionResponse `json:"sessions"`
}

// ProjectResponse is the full editor state a client needs to render the
// timeline and preview after opening a session.
type ProjectResponse struct {
	SessionID      string                `json:"session_id"`
	Project        editor.Project        `json:"project"`
	Selection      editor.SelectionRange `json:"selection"`
	SelectedClipID string                `json:"selected_clip_id,omitempty"`
	TotalDuration  float64               `json:"total_duration"`
	Zoom           float64               `json:"zoom"`
	PixelsPerSec   float64               `json:"pixels_per_second"`
}

// AddAudioClipRequest creates a clip. Volume is a pointer so an explicit
// zero (a silent clip) is distinguishable from the field being omitted;
// omitted falls back to the kind's default.
type AddAudioClipRequest struct {
	Kind       string   `json:"kind"`
	Name       string   `json:"name"`
	URL        string   `json:"url"`
	StartTime  float64  `json:"start_time"`
	Duration   float64  `json:"duration"`
	Volume     *float64 `json:"volume,omitempty"`
	Prompt     string   `json:"prompt,omitempty"`
	VoiceID    string   `json:"voice_id,omitempty"`
	AtPlayhead bool     `json:"at_playhead,omitempty"`
}

type AddVideoClipRequest struct {
	Name      string  `json:"name"`
	URL       string  `json:"url"`
	StartTime float64 `json:"start_time"`
	Duration  float64 `json:"duration"`
}

type UpdateClipRequest struct {
	Name      *string  `json:"name,omitempty"`
	StartTime *float64 `json:"start_time,omitempty"`
	Volume    *float64 `json:"volume,omitempty"`
}

type AddClipResponse struct {
	ClipID string `json:"clip_id"`
}

type SeekRequest struct {
	Time float64 `json:"time"`
}

type SetVideoRequest struct {
	URL      string  `json:"url"`
	Duration float64 `json:"duration"`
}

type SelectionRequest struct {
	ClipID   *string  `json:"clip_id,omitempty"`
	InPoint  *float64 `json:"in_point,omitempty"`
	OutPoint *float64 `json:"out_point,omitempty"`
}

type ZoomRequest struct {
	Zoom float64 `json:"zoom"`
}

type TransportResponse struct {
	CurrentTime   float64 `json:"current_time"`
	IsPlaying     bool    `json:"is_playing"`
	TotalDuration float64 `json:"total_duration"`
}

type SavedProjectResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	VideoDuration float64 `json:"video_duration"`
	AudioClips    int     `json:"audio_clips"`
	VideoClips    int     `json:"video_clips"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

type SavedProjectsResponse struct {
	Projects []SavedProjectResponse `json:"projects"`
}

type ImportRequest struct {
	URL        string `json:"url,omitempty"`
	Path       string `json:"path,omitempty"`
	Thumbnails bool   `json:"thumbnails,omitempty"`
}

type ImportResponse struct {
	AssetID   string  `json:"asset_id"`
	LocalPath string  `json:"local_path"`
	Duration  float64 `json:"duration"`
	Width     int     `json:"width,omitempty"`
	Height    int     `json:"height,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func SessionToResponse(s *session.Session) SessionResponse {
	p := s.State.Snapshot()
	return SessionResponse{
		ID:            s.ID,
		Name:          p.Name,
		CreatedAt:     s.CreatedAt.Format(time.RFC3339),
		CurrentTime:   p.CurrentTime,
		IsPlaying:     p.IsPlaying,
		TotalDuration: s.State.TotalDuration(),
		AudioClips:    len(p.AudioClips),
		VideoClips:    len(p.VideoClips),
		Zoom:          s.Timeline.Scale().Zoom(),
		SnapEnabled:   s.Timeline.SnapEnabled(),
	}
}

func ProjectToResponse(s *session.Session) ProjectResponse {
	scale := s.Timeline.Scale()
	return ProjectResponse{
		SessionID:      s.ID,
		Project:        s.State.Snapshot(),
		Selection:      s.State.Selection(),
		SelectedClipID: s.State.SelectedClipID(),
		TotalDuration:  s.State.TotalDuration(),
		Zoom:           scale.Zoom(),
		PixelsPerSec:   scale.PixelsPerSecond(),
	}
}

func StoredProjectToResponse(p *session.StoredProject) SavedProjectResponse {
	return SavedProjectResponse{
		ID:            p.ID,
		Name:          p.Project.Name,
		VideoDuration: p.Project.VideoDuration,
		AudioClips:    len(p.Project.AudioClips),
		VideoClips:    len(p.Project.VideoClips),
		CreatedAt:     p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     p.UpdatedAt.Format(time.RFC3339),
	}
}

func transportOf(s *session.Session) TransportResponse {
	return TransportResponse{
		CurrentTime:   s.State.CurrentTime(),
		IsPlaying:     s.State.IsPlaying(),
		TotalDuration: s.State.TotalDuration(),
	}
}
