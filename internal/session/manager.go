// Package session owns the lifecycle of editing sessions: one live
// store/coordinator/view-model group per open project, plus the sqlite
// persistence behind save and reopen.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/afterglow/glowcut/internal/editor"
	"github.com/afterglow/glowcut/internal/logging"
	"github.com/afterglow/glowcut/internal/playback"
	"github.com/afterglow/glowcut/internal/preview"
	"github.com/afterglow/glowcut/internal/timeline"
)

// Session bundles the live objects of one open project. State is
// authoritative; everything else hangs off it.
type Session struct {
	ID          string
	CreatedAt   time.Time
	State       *editor.State
	Coordinator *playback.Coordinator
	Timeline    *timeline.Controller
	Player      *preview.Player
}

type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	repo     Repository
	logger   *slog.Logger
}

func NewManager(repo Repository, logger *slog.Logger) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		repo:     repo,
		logger:   logger,
	}
}

// Create opens a fresh session. The wiring mirrors the editor page: the
// coordinator receives transport intents from the store, and the preview
// player is the failure sink so autoplay denials revert the transport
// flag.
func (m *Manager) Create(name string) *Session {
	id := editor.NewID()
	log := logging.WithSessionID(m.logger, id)

	coord := playback.NewCoordinator(log)
	state := editor.NewState(coord, log)
	state.SetProjectName(name)

	player := preview.NewPlayer(state, log)
	coord.SetFailureSink(player)

	s := &Session{
		ID:          id,
		CreatedAt:   time.Now(),
		State:       state,
		Coordinator: coord,
		Timeline:    timeline.NewController(state),
		Player:      player,
	}

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	if m.logger != nil {
		m.logger.Info("session created", "session_id", id, "name", name)
	}
	return s
}

func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

func (m *Manager) List() []*Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	return out
}

func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// PlayingCount reports how many sessions are currently in playback.
func (m *Manager) PlayingCount() int {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.Unlock()

	n := 0
	for _, s := range sessions {
		if s.State.IsPlaying() {
			n++
		}
	}
	return n
}

// Close tears a session down, releasing every bound media element. The
// project is not implicitly saved.
func (m *Manager) Close(id string) bool {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if !ok {
		return false
	}
	s.State.Reset()
	if m.logger != nil {
		m.logger.Info("session closed", "session_id", id)
	}
	return true
}

// Save persists the session's current project under the session id.
func (m *Manager) Save(ctx context.Context, id string) error {
	s, ok := m.Get(id)
	if !ok {
		return fmt.Errorf("session not found")
	}

	now := time.Now()
	stored := &StoredProject{
		ID:        s.ID,
		Project:   s.State.Snapshot(),
		CreatedAt: s.CreatedAt,
		UpdatedAt: now,
	}
	if err := m.repo.SaveProject(ctx, stored); err != nil {
		return fmt.Errorf("save project: %w", err)
	}

	if m.logger != nil {
		m.logger.Info("project saved", "session_id", id,
			"audio_clips", len(stored.Project.AudioClips), "video_clips", len(stored.Project.VideoClips))
	}
	return nil
}

// Open restores a persisted project into a new live session.
func (m *Manager) Open(ctx context.Context, projectID string) (*Session, error) {
	stored, err := m.repo.GetProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}
	if stored == nil {
		return nil, fmt.Errorf("project not found")
	}

	s := m.Create(stored.Project.Name)
	s.State.Restore(stored.Project)

	if m.logger != nil {
		m.logger.Info("project opened", "session_id", s.ID, "project_id", projectID)
	}
	return s, nil
}

// SavedProjects lists persisted projects, newest first.
func (m *Manager) SavedProjects(ctx context.Context) ([]*StoredProject, error) {
	return m.repo.ListProjects(ctx)
}

// DeleteSaved removes a persisted project. Live sessions are unaffected.
func (m *Manager) DeleteSaved(ctx context.Context, projectID string) error {
	return m.repo.DeleteProject(ctx, projectID)
}
