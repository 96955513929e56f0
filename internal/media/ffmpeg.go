package media

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
)

// FFmpeg abstracts the probing and filmstrip extraction the importer
// needs. The exec implementation shells out to ffprobe/ffmpeg; the stub
// keeps the engine usable on machines without them.
type FFmpeg interface {
	Probe(path string) (*ProbeResult, error)
	ExtractThumbnails(path, outDir string, count int) ([]string, error)
}

type ProbeResult struct {
	Duration float64
	Width    int
	Height   int
	Codec    string
}

type ffprobeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecType string `json:"codec_type"`
		CodecName string `json:"codec_name"`
		Width     int    `json:"width"`
		Height    int    `json:"height"`
	} `json:"streams"`
}

type ExecFFmpeg struct {
	logger *slog.Logger
}

func NewExecFFmpeg(logger *slog.Logger) *ExecFFmpeg {
	return &ExecFFmpeg{logger: logger}
}

// Probe runs ffprobe and reads the container duration plus the first
// video stream's geometry.
func (f *ExecFFmpeg) Probe(path string) (*ProbeResult, error) {
	cmd := exec.Command("ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w: %s", err, stderr.String())
	}

	var probed ffprobeOutput
	if err := json.Unmarshal(out.Bytes(), &probed); err != nil {
		return nil, fmt.Errorf("parse ffprobe output: %w", err)
	}
	if probed.Format.Duration == "" {
		return nil, fmt.Errorf("ffprobe output missing duration")
	}
	duration, err := strconv.ParseFloat(probed.Format.Duration, 64)
	if err != nil {
		return nil, fmt.Errorf("parse duration %q: %w", probed.Format.Duration, err)
	}

	result := &ProbeResult{Duration: duration}
	for _, s := range probed.Streams {
		if s.CodecType == "video" {
			result.Width = s.Width
			result.Height = s.Height
			result.Codec = s.CodecName
			break
		}
	}
	return result, nil
}

// ExtractThumbnails grabs count evenly spaced frames as JPEGs named
// 000.jpg..NNN.jpg under outDir and returns their paths in timeline
// order.
func (f *ExecFFmpeg) ExtractThumbnails(path, outDir string, count int) ([]string, error) {
	if count < 1 {
		return nil, fmt.Errorf("thumbnail count must be positive")
	}

	probe, err := f.Probe(path)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("create thumbnail dir: %w", err)
	}

	step := probe.Duration / float64(count)
	paths := make([]string, 0, count)
	for i := 0; i < count; i++ {
		offset := step * (float64(i) + 0.5)
		outPath := filepath.Join(outDir, fmt.Sprintf("%03d.jpg", i))

		cmd := exec.Command("ffmpeg",
			"-y",
			"-ss", fmt.Sprintf("%.3f", offset),
			"-i", path,
			"-frames:v", "1",
			"-vf", "scale=160:-1",
			outPath,
		)
		var stderr bytes.Buffer
		cmd.Stderr = &stderr
		if err := cmd.Run(); err != nil {
			return nil, fmt.Errorf("ffmpeg thumbnail at %.3fs failed: %w: %s", offset, err, stderr.String())
		}
		paths = append(paths, outPath)
	}

	if f.logger != nil {
		f.logger.Info("filmstrip extracted", "path", path, "frames", count)
	}
	return paths, nil
}

type StubFFmpeg struct {
	logger *slog.Logger
}

func NewStubFFmpeg(logger *slog.Logger) *StubFFmpeg {
	return &StubFFmpeg{logger: logger}
}

func (f *StubFFmpeg) Probe(path string) (*ProbeResult, error) {
	if f.logger != nil {
		f.logger.Info("ffmpeg stub: probe requested", "path", path)
	}
	return &ProbeResult{}, nil
}

func (f *StubFFmpeg) ExtractThumbnails(path, outDir string, count int) ([]string, error) {
	if f.logger != nil {
		f.logger.Info("ffmpeg stub: thumbnails requested", "path", path, "count", count)
	}
	return nil, nil
}
