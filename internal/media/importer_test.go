package media

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func testImporter(t *testing.T, token string) *Importer {
	t.Helper()
	return NewImporter(filepath.Join(t.TempDir(), "media"), token, 0, NewStubFFmpeg(nil), 5*time.Second, nil)
}

func TestImportURLDownloadsFile(t *testing.T) {
	payload := []byte("fake mp4 payload")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer srv.Close()

	im := testImporter(t, "")
	asset, err := im.ImportURL(context.Background(), srv.URL+"/clip.mp4", false)
	if err != nil {
		t.Fatalf("ImportURL: %v", err)
	}

	data, err := os.ReadFile(asset.LocalPath)
	if err != nil {
		t.Fatalf("read imported file: %v", err)
	}
	if string(data) != string(payload) {
		t.Errorf("imported content mismatch")
	}
	if filepath.Ext(asset.LocalPath) != ".mp4" {
		t.Errorf("expected .mp4 extension, got %s", asset.LocalPath)
	}
}

func TestImportURLSendsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	im := testImporter(t, "secret-token")
	if _, err := im.ImportURL(context.Background(), srv.URL+"/clip.mp4", false); err != nil {
		t.Fatalf("ImportURL: %v", err)
	}
	if gotAuth != "Bearer secret-token" {
		t.Errorf("expected bearer token header, got %q", gotAuth)
	}
}

func TestImportURLErrorStatus(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		retryable bool
	}{
		{"not found", http.StatusNotFound, false},
		{"unauthorized", http.StatusUnauthorized, false},
		{"server error", http.StatusInternalServerError, true},
		{"rate limited", http.StatusTooManyRequests, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tt.status)
			}))
			defer srv.Close()

			im := testImporter(t, "")
			_, err := im.ImportURL(context.Background(), srv.URL+"/clip.mp4", false)
			if err == nil {
				t.Fatal("expected error")
			}
			dlErr, ok := err.(*DownloadError)
			if !ok {
				t.Fatalf("expected *DownloadError, got %T", err)
			}
			if dlErr.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", dlErr.StatusCode, tt.status)
			}
			if dlErr.IsRetryable() != tt.retryable {
				t.Errorf("IsRetryable() = %v, want %v", dlErr.IsRetryable(), tt.retryable)
			}
		})
	}
}

func TestImportFileCopiesIntoMediaDir(t *testing.T) {
	src := filepath.Join(t.TempDir(), "source.wav")
	if err := os.WriteFile(src, []byte("wav data"), 0644); err != nil {
		t.Fatal(err)
	}

	im := testImporter(t, "")
	asset, err := im.ImportFile(src, false)
	if err != nil {
		t.Fatalf("ImportFile: %v", err)
	}

	if filepath.Dir(asset.LocalPath) != im.MediaDir() {
		t.Errorf("asset not placed in media dir: %s", asset.LocalPath)
	}
	data, err := os.ReadFile(asset.LocalPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "wav data" {
		t.Errorf("copied content mismatch")
	}
}

func TestImportFileMissingSource(t *testing.T) {
	im := testImporter(t, "")
	if _, err := im.ImportFile(filepath.Join(t.TempDir(), "missing.mp4"), false); err == nil {
		t.Fatal("expected error for missing source")
	}
}

func TestExtensionFor(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"https://cdn.example.com/a/b/clip.mp4", ".mp4"},
		{"https://cdn.example.com/clip.mp4?sig=abc123", ".mp4"},
		{"https://cdn.example.com/clip.webm#t=5", ".webm"},
		{"https://cdn.example.com/blob", ".bin"},
		{"https://cdn.example.com/weird.longext", ".bin"},
	}
	for _, tt := range tests {
		if got := extensionFor(tt.source); got != tt.want {
			t.Errorf("extensionFor(%q) = %q, want %q", tt.source, got, tt.want)
		}
	}
}
