package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/afterglow/glowcut/internal/editor"
	"github.com/afterglow/glowcut/internal/export"
	"github.com/afterglow/glowcut/internal/media"
	"github.com/afterglow/glowcut/internal/session"
)

func NewRouter(cfg ServerConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(LoggingMiddleware(cfg.Logger))

	r.Get("/health", healthHandler(cfg))

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(cfg.Repository, cfg.Logger))

		r.Get("/status", statusHandler(cfg))

		r.Get("/sessions", listSessionsHandler(cfg))
		r.Post("/sessions", createSessionHandler(cfg))
		r.Get("/sessions/{id}", getSessionHandler(cfg))
		r.Delete("/sessions/{id}", closeSessionHandler(cfg))

		r.Put("/sessions/{id}/video", setVideoHandler(cfg))
		r.Post("/sessions/{id}/clips/audio", addAudioClipHandler(cfg))
		r.Post("/sessions/{id}/clips/video", addVideoClipHandler(cfg))
		r.Patch("/sessions/{id}/clips/audio/{clipID}", updateAudioClipHandler(cfg))
		r.Patch("/sessions/{id}/clips/video/{clipID}", updateVideoClipHandler(cfg))
		r.Delete("/sessions/{id}/clips/audio/{clipID}", removeAudioClipHandler(cfg))
		r.Delete("/sessions/{id}/clips/video/{clipID}", removeVideoClipHandler(cfg))

		r.Post("/sessions/{id}/transport/play", transportHandler(cfg, func(s *session.Session) { s.State.Play() }))
		r.Post("/sessions/{id}/transport/pause", transportHandler(cfg, func(s *session.Session) { s.State.Pause() }))
		r.Post("/sessions/{id}/transport/toggle", transportHandler(cfg, func(s *session.Session) { s.Player.TogglePlayPause() }))
		r.Post("/sessions/{id}/transport/skip-forward", transportHandler(cfg, func(s *session.Session) { s.Player.SkipForward() }))
		r.Post("/sessions/{id}/transport/skip-back", transportHandler(cfg, func(s *session.Session) { s.Player.SkipBack() }))
		r.Post("/sessions/{id}/transport/seek", seekHandler(cfg))

		r.Put("/sessions/{id}/selection", selectionHandler(cfg))
		r.Put("/sessions/{id}/zoom", zoomHandler(cfg))

		r.Post("/sessions/{id}/save", saveHandler(cfg))
		r.Post("/sessions/{id}/export", exportHandler(cfg))

		r.Get("/projects", savedProjectsHandler(cfg))
		r.Post("/projects/{id}/open", openProjectHandler(cfg))
		r.Delete("/projects/{id}", deleteProjectHandler(cfg))

		r.Post("/media/import", importHandler(cfg))
		r.Get("/media/stream", streamHandler(cfg))
	})

	return r
}

func healthHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uptime := int64(time.Since(cfg.StartTime).Seconds())
		WriteJSON(w, http.StatusOK, HealthResponse{
			Status:   "ok",
			Version:  cfg.Version,
			UptimeS:  uptime,
			DeviceID: cfg.DeviceID,
		})
	}
}

func statusHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		saved, _ := cfg.Sessions.SavedProjects(r.Context())
		WriteJSON(w, http.StatusOK, StatusResponse{
			Sessions:        cfg.Sessions.Count(),
			PlayingSessions: cfg.Sessions.PlayingCount(),
			SavedProjects:   len(saved),
		})
	}
}

func listSessionsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessions := cfg.Sessions.List()
		resp := SessionsResponse{Sessions: make([]SessionResponse, len(sessions))}
		for i, s := range sessions {
			resp.Sessions[i] = SessionToResponse(s)
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func createSessionHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateSessionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		if req.Name == "" {
			req.Name = "Untitled"
		}

		s := cfg.Sessions.Create(req.Name)
		WriteJSON(w, http.StatusCreated, SessionToResponse(s))
	}
}

func getSessionHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := requireSession(w, r, cfg)
		if !ok {
			return
		}
		WriteJSON(w, http.StatusOK, ProjectToResponse(s))
	}
}

func closeSessionHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !cfg.Sessions.Close(chi.URLParam(r, "id")) {
			WriteError(w, http.StatusNotFound, "session not found", "NOT_FOUND")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func setVideoHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := requireSession(w, r, cfg)
		if !ok {
			return
		}

		var req SetVideoRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		if req.URL == "" {
			WriteError(w, http.StatusBadRequest, "url is required", "BAD_REQUEST")
			return
		}

		s.State.SetVideoURL(req.URL)
		if req.Duration > 0 {
			s.Player.HandleLoadedMetadata(req.Duration)
		}
		WriteJSON(w, http.StatusOK, ProjectToResponse(s))
	}
}

func addAudioClipHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := requireSession(w, r, cfg)
		if !ok {
			return
		}

		var req AddAudioClipRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		if req.Duration <= 0 {
			WriteError(w, http.StatusBadRequest, "duration must be positive", "BAD_REQUEST")
			return
		}
		kind := editor.ClipKind(req.Kind)
		switch kind {
		case editor.KindVoiceover, editor.KindSFX, editor.KindMusic:
		default:
			WriteError(w, http.StatusBadRequest, "unknown clip kind", "BAD_REQUEST")
			return
		}

		volume := editor.DefaultVolume(kind)
		if req.Volume != nil {
			volume = *req.Volume
		}

		clip := editor.AudioClip{
			Kind:      kind,
			Name:      req.Name,
			URL:       req.URL,
			StartTime: req.StartTime,
			Duration:  req.Duration,
			Volume:    volume,
			Prompt:    req.Prompt,
			VoiceID:   req.VoiceID,
		}

		var id string
		if req.AtPlayhead {
			id = s.State.AddAudioClipAtPlayhead(clip)
		} else {
			id = s.State.AddAudioClip(clip)
		}
		WriteJSON(w, http.StatusCreated, AddClipResponse{ClipID: id})
	}
}

func addVideoClipHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := requireSession(w, r, cfg)
		if !ok {
			return
		}

		var req AddVideoClipRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		if req.Duration <= 0 {
			WriteError(w, http.StatusBadRequest, "duration must be positive", "BAD_REQUEST")
			return
		}

		id := s.State.AddVideoClip(editor.VideoClip{
			Name:      req.Name,
			URL:       req.URL,
			StartTime: req.StartTime,
			Duration:  req.Duration,
		})
		WriteJSON(w, http.StatusCreated, AddClipResponse{ClipID: id})
	}
}

func updateAudioClipHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := requireSession(w, r, cfg)
		if !ok {
			return
		}

		var req UpdateClipRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		// Updates to removed clips are accepted and dropped; the browser
		// may still be flushing events for a clip deleted elsewhere.
		s.State.UpdateAudioClip(chi.URLParam(r, "clipID"), editor.AudioClipPatch{
			Name:      req.Name,
			StartTime: req.StartTime,
			Volume:    req.Volume,
		})
		WriteJSON(w, http.StatusOK, ProjectToResponse(s))
	}
}

func updateVideoClipHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := requireSession(w, r, cfg)
		if !ok {
			return
		}

		var req UpdateClipRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		s.State.UpdateVideoClip(chi.URLParam(r, "clipID"), editor.VideoClipPatch{
			Name:      req.Name,
			StartTime: req.StartTime,
		})
		WriteJSON(w, http.StatusOK, ProjectToResponse(s))
	}
}

func removeAudioClipHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := requireSession(w, r, cfg)
		if !ok {
			return
		}
		s.State.RemoveAudioClip(chi.URLParam(r, "clipID"))
		w.WriteHeader(http.StatusNoContent)
	}
}

func removeVideoClipHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := requireSession(w, r, cfg)
		if !ok {
			return
		}
		s.State.RemoveVideoClip(chi.URLParam(r, "clipID"))
		w.WriteHeader(http.StatusNoContent)
	}
}

func transportHandler(cfg ServerConfig, op func(*session.Session)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := requireSession(w, r, cfg)
		if !ok {
			return
		}
		op(s)
		WriteJSON(w, http.StatusOK, transportOf(s))
	}
}

func seekHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := requireSession(w, r, cfg)
		if !ok {
			return
		}

		var req SeekRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		s.State.SetCurrentTime(req.Time)
		WriteJSON(w, http.StatusOK, transportOf(s))
	}
}

func selectionHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := requireSession(w, r, cfg)
		if !ok {
			return
		}

		var req SelectionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		if req.ClipID != nil {
			if *req.ClipID == "" {
				s.State.ClearSelection()
			} else {
				s.State.Select(*req.ClipID)
			}
		}
		s.State.SetSelectionRange(req.InPoint, req.OutPoint)
		WriteJSON(w, http.StatusOK, ProjectToResponse(s))
	}
}

func zoomHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := requireSession(w, r, cfg)
		if !ok {
			return
		}

		var req ZoomRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		s.Timeline.SetZoom(req.Zoom)
		WriteJSON(w, http.StatusOK, ProjectToResponse(s))
	}
}

func saveHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := requireSession(w, r, cfg)
		if !ok {
			return
		}
		if err := cfg.Sessions.Save(r.Context(), s.ID); err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}
		WriteJSON(w, http.StatusOK, SessionToResponse(s))
	}
}

func exportHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := requireSession(w, r, cfg)
		if !ok {
			return
		}

		var req export.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		if req.FrameRate <= 0 {
			req.FrameRate = 30.0
		}

		result, err := export.WriteEDL(s.State.Snapshot(), req.FrameRate, req.OutputDir)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}
		WriteJSON(w, http.StatusOK, result)
	}
}

func savedProjectsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := cfg.Sessions.SavedProjects(r.Context())
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to list projects", "INTERNAL_ERROR")
			return
		}

		resp := SavedProjectsResponse{Projects: make([]SavedProjectResponse, len(projects))}
		for i, p := range projects {
			resp.Projects[i] = StoredProjectToResponse(p)
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func openProjectHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := cfg.Sessions.Open(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			WriteError(w, http.StatusNotFound, err.Error(), "NOT_FOUND")
			return
		}
		WriteJSON(w, http.StatusCreated, ProjectToResponse(s))
	}
}

func deleteProjectHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := cfg.Sessions.DeleteSaved(r.Context(), chi.URLParam(r, "id")); err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func importHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ImportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		if req.URL == "" && req.Path == "" {
			WriteError(w, http.StatusBadRequest, "url or path is required", "BAD_REQUEST")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Minute)
		defer cancel()

		var asset *media.Asset
		var err error
		if req.URL != "" {
			asset, err = cfg.Importer.ImportURL(ctx, req.URL, req.Thumbnails)
		} else {
			asset, err = cfg.Importer.ImportFile(req.Path, req.Thumbnails)
		}
		if err != nil {
			WriteError(w, http.StatusBadGateway, err.Error(), "IMPORT_FAILED")
			return
		}

		WriteJSON(w, http.StatusCreated, ImportResponse{
			AssetID:   asset.ID,
			LocalPath: asset.LocalPath,
			Duration:  asset.Duration,
			Width:     asset.Width,
			Height:    asset.Height,
		})
	}
}

func streamHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("name")
		if name == "" {
			WriteError(w, http.StatusBadRequest, "name is required", "BAD_REQUEST")
			return
		}
		if err := cfg.Streamer.Serve(w, r, name); err != nil {
			cfg.Logger.Error("stream error", "error", err, "name", name)
		}
	}
}

func requireSession(w http.ResponseWriter, r *http.Request, cfg ServerConfig) (*session.Session, bool) {
	s, ok := cfg.Sessions.Get(chi.URLParam(r, "id"))
	if !ok {
		WriteError(w, http.StatusNotFound, "session not found", "NOT_FOUND")
		return nil, false
	}
	return s, true
}
