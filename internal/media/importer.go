package media

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/afterglow/glowcut/internal/logging"
)

// DownloadError carries the HTTP status of a failed media fetch so
// callers can distinguish transient upstream failures from permanent
// ones.
type DownloadError struct {
	StatusCode int
	Message    string
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download failed (HTTP %d): %s", e.StatusCode, e.Message)
}

// IsRetryable reports whether the failure is worth retrying. Server
// errors and rate limiting are transient; 4xx responses are not.
func (e *DownloadError) IsRetryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

// Asset is a media file the importer has placed under the local media
// directory, probed and (for video) filmstripped.
type Asset struct {
	ID         string
	SourceURL  string
	LocalPath  string
	Duration   float64
	Width      int
	Height     int
	Thumbnails []string
}

// Importer copies remote or local media into the engine's media
// directory so playback can stream it with byte-range support.
type Importer struct {
	mediaDir   string
	token      string
	thumbCount int
	ffmpeg     FFmpeg
	client     *http.Client
	logger     *slog.Logger
}

func NewImporter(mediaDir, token string, thumbCount int, ffmpeg FFmpeg, timeout time.Duration, logger *slog.Logger) *Importer {
	return &Importer{
		mediaDir:   mediaDir,
		token:      token,
		thumbCount: thumbCount,
		ffmpeg:     ffmpeg,
		client:     &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// ImportURL downloads source into the media directory and probes it.
// extractThumbs additionally builds a filmstrip for timeline display.
func (im *Importer) ImportURL(ctx context.Context, source string, extractThumbs bool) (*Asset, error) {
	id := uuid.NewString()
	localPath := filepath.Join(im.mediaDir, id+extensionFor(source))

	if err := os.MkdirAll(im.mediaDir, 0755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}

	if err := im.download(ctx, source, localPath); err != nil {
		return nil, err
	}

	if im.logger != nil {
		im.logger.Info("media downloaded",
			"url", logging.SanitizePath(source),
			"path", filepath.Base(localPath))
	}

	return im.finish(id, source, localPath, extractThumbs)
}

// ImportFile copies an existing local file into the media directory.
func (im *Importer) ImportFile(source string, extractThumbs bool) (*Asset, error) {
	id := uuid.NewString()
	localPath := filepath.Join(im.mediaDir, id+filepath.Ext(source))

	if err := os.MkdirAll(im.mediaDir, 0755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}

	src, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(localPath)
	if err != nil {
		return nil, fmt.Errorf("create local copy: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(localPath)
		return nil, fmt.Errorf("copy media: %w", err)
	}
	if err := dst.Close(); err != nil {
		return nil, fmt.Errorf("close local copy: %w", err)
	}

	return im.finish(id, source, localPath, extractThumbs)
}

func (im *Importer) download(ctx context.Context, source, localPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if im.token != "" {
		req.Header.Set("Authorization", "Bearer "+im.token)
	}

	resp, err := im.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch media: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &DownloadError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	out, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("create local file: %w", err)
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(localPath)
		return fmt.Errorf("write media: %w", err)
	}
	return out.Close()
}

func (im *Importer) finish(id, source, localPath string, extractThumbs bool) (*Asset, error) {
	asset := &Asset{ID: id, SourceURL: source, LocalPath: localPath}

	probe, err := im.ffmpeg.Probe(localPath)
	if err != nil {
		if im.logger != nil {
			im.logger.Warn("probe failed, importing without metadata", "error", err)
		}
	} else {
		asset.Duration = probe.Duration
		asset.Width = probe.Width
		asset.Height = probe.Height
	}

	if extractThumbs && im.thumbCount > 0 {
		thumbs, err := im.ffmpeg.ExtractThumbnails(localPath, filepath.Join(im.mediaDir, id+"_thumbs"), im.thumbCount)
		if err != nil {
			if im.logger != nil {
				im.logger.Warn("filmstrip extraction failed", "error", err)
			}
		} else {
			asset.Thumbnails = thumbs
		}
	}

	return asset, nil
}

// MediaDir exposes the importer's root so the streaming handler can
// serve from the same tree.
func (im *Importer) MediaDir() string {
	return im.mediaDir
}

func extensionFor(source string) string {
	trimmed := source
	if i := strings.IndexAny(trimmed, "?#"); i >= 0 {
		trimmed = trimmed[:i]
	}
	ext := filepath.Ext(trimmed)
	if ext == "" || len(ext) > 5 {
		return ".bin"
	}
	return ext
}
