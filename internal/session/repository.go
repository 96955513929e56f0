package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/afterglow/glowcut/internal/editor"
)

// StoredProject is a persisted editor project with its identity and
// timestamps; the embedded Project is the aggregate the store edits.
type StoredProject struct {
	ID        string         `json:"id"`
	Project   editor.Project `json:"project"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type Repository interface {
	SaveProject(ctx context.Context, p *StoredProject) error
	GetProject(ctx context.Context, id string) (*StoredProject, error)
	ListProjects(ctx context.Context) ([]*StoredProject, error)
	DeleteProject(ctx context.Context, id string) error

	GetConfig(ctx context.Context, key string) (string, error)
	SetConfig(ctx context.Context, key, value string) error
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// SaveProject upserts the aggregate: the project row plus a full rewrite
// of its clip rows, in one transaction.
func (r *SQLiteRepository) SaveProject(ctx context.Context, p *StoredProject) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO projects (id, name, video_url, video_duration, current_time_s, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			video_url = excluded.video_url,
			video_duration = excluded.video_duration,
			current_time_s = excluded.current_time_s,
			updated_at = excluded.updated_at
	`, p.ID, p.Project.Name, p.Project.VideoURL, p.Project.VideoDuration, p.Project.CurrentTime,
		p.CreatedAt.Format(time.RFC3339), p.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM audio_clips WHERE project_id = ?`, p.ID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM video_clips WHERE project_id = ?`, p.ID); err != nil {
		return err
	}

	for _, c := range p.Project.AudioClips {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO audio_clips (id, project_id, kind, name, url, start_time, duration, volume, prompt, voice_id)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, c.ID, p.ID, string(c.Kind), c.Name, c.URL, c.StartTime, c.Duration, c.Volume,
			nullString(c.Prompt), nullString(c.VoiceID))
		if err != nil {
			return err
		}
	}

	for _, c := range p.Project.VideoClips {
		thumbs, err := json.Marshal(c.Thumbnails)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO video_clips (id, project_id, name, url, start_time, duration, thumbnails)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, c.ID, p.ID, c.Name, c.URL, c.StartTime, c.Duration, string(thumbs))
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *SQLiteRepository) GetProject(ctx context.Context, id string) (*StoredProject, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, video_url, video_duration, current_time_s, created_at, updated_at
		FROM projects WHERE id = ?
	`, id)

	var p StoredProject
	var createdAt, updatedAt string
	err := row.Scan(&p.ID, &p.Project.Name, &p.Project.VideoURL, &p.Project.VideoDuration,
		&p.Project.CurrentTime, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	p.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)

	if p.Project.AudioClips, err = r.audioClips(ctx, id); err != nil {
		return nil, err
	}
	if p.Project.VideoClips, err = r.videoClips(ctx, id); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *SQLiteRepository) audioClips(ctx context.Context, projectID string) ([]editor.AudioClip, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, kind, name, url, start_time, duration, volume, prompt, voice_id
		FROM audio_clips WHERE project_id = ? ORDER BY start_time, id
	`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clips []editor.AudioClip
	for rows.Next() {
		var c editor.AudioClip
		var kind string
		var prompt, voiceID sql.NullString
		if err := rows.Scan(&c.ID, &kind, &c.Name, &c.URL, &c.StartTime, &c.Duration, &c.Volume, &prompt, &voiceID); err != nil {
			return nil, err
		}
		c.Kind = editor.ClipKind(kind)
		c.Prompt = prompt.String
		c.VoiceID = voiceID.String
		clips = append(clips, c)
	}
	return clips, rows.Err()
}

func (r *SQLiteRepository) videoClips(ctx context.Context, projectID string) ([]editor.VideoClip, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, url, start_time, duration, thumbnails
		FROM video_clips WHERE project_id = ? ORDER BY start_time, id
	`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clips []editor.VideoClip
	for rows.Next() {
		var c editor.VideoClip
		var thumbs sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &c.URL, &c.StartTime, &c.Duration, &thumbs); err != nil {
			return nil, err
		}
		if thumbs.Valid && thumbs.String != "" {
			if err := json.Unmarshal([]byte(thumbs.String), &c.Thumbnails); err != nil {
				return nil, err
			}
		}
		clips = append(clips, c)
	}
	return clips, rows.Err()
}

func (r *SQLiteRepository) ListProjects(ctx context.Context) ([]*StoredProject, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, video_url, video_duration, current_time_s, created_at, updated_at
		FROM projects ORDER BY updated_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*StoredProject
	for rows.Next() {
		var p StoredProject
		var createdAt, updatedAt string
		if err := rows.Scan(&p.ID, &p.Project.Name, &p.Project.VideoURL, &p.Project.VideoDuration,
			&p.Project.CurrentTime, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		p.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		projects = append(projects, &p)
	}
	return projects, rows.Err()
}

func (r *SQLiteRepository) DeleteProject(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	return err
}

func (r *SQLiteRepository) GetConfig(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM config WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (r *SQLiteRepository) SetConfig(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
