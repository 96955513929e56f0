package playback

import (
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Streamer serves media files out of the engine's media cache with HTTP
// byte-range support, so the preview's <video>/<audio> elements can seek
// without downloading whole files. Requests are confined to the root
// directory.
type Streamer struct {
	root   string
	logger *slog.Logger
}

func NewStreamer(root string, logger *slog.Logger) *Streamer {
	return &Streamer{root: root, logger: logger}
}

// Serve writes the named cache file (a path relative to the root) to the
// response, honoring a single Range header.
func (s *Streamer) Serve(w http.ResponseWriter, r *http.Request, name string) error {
	path, err := s.resolve(name)
	if err != nil {
		http.Error(w, "invalid media path", http.StatusBadRequest)
		return nil
	}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			http.Error(w, "media not found", http.StatusNotFound)
			return nil
		}
		return fmt.Errorf("open media file: %w", err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return fmt.Errorf("stat media file: %w", err)
	}
	size := stat.Size()

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Accept-Ranges", "bytes")
	w.Header().Set("Content-Type", contentType)

	br, err := ParseByteRange(r.Header.Get("Range"), size)
	if err == ErrUnsatisfiable {
		w.Header().Set("Content-Range", fmt.Sprintf("bytes */%d", size))
		http.Error(w, "Range Not Satisfiable", http.StatusRequestedRangeNotSatisfiable)
		return nil
	}
	if err != nil && err != ErrInvalidRange {
		return err
	}

	if br == nil {
		w.Header().Set("Content-Length", fmt.Sprintf("%d", size))
		w.WriteHeader(http.StatusOK)
		io.Copy(w, file)
		return nil
	}

	w.Header().Set("Content-Length", fmt.Sprintf("%d", br.Length()))
	w.Header().Set("Content-Range", br.ContentRange(size))
	w.WriteHeader(http.StatusPartialContent)

	if _, err := file.Seek(br.Start, io.SeekStart); err != nil {
		return fmt.Errorf("seek media file: %w", err)
	}
	io.CopyN(w, file, br.Length())
	return nil
}

func (s *Streamer) resolve(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("empty media name")
	}
	cleaned := filepath.Clean("/" + name)
	path := filepath.Join(s.root, cleaned)

	rootAbs, err := filepath.Abs(s.root)
	if err != nil {
		return "", err
	}
	pathAbs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if pathAbs != rootAbs && !strings.HasPrefix(pathAbs, rootAbs+string(filepath.Separator)) {
		return "", fmt.Errorf("path escapes media root")
	}
	return pathAbs, nil
}
