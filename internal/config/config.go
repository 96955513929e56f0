// Package config provides configuration management for the Glowcut
// engine. Configuration is loaded from environment variables with
// sensible defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const (
	// Default values
	DefaultPort     = 8964
	DefaultLogLevel = "info"
	DefaultDataDir  = ".glowcut"

	// Environment variable names
	EnvPort         = "GLOWCUT_PORT"
	EnvLogLevel     = "GLOWCUT_LOG_LEVEL"
	EnvDataDir      = "GLOWCUT_DATA_DIR"
	EnvHeadless     = "GLOWCUT_HEADLESS"
	EnvMediaToken   = "GLOWCUT_MEDIA_TOKEN"
	EnvFFmpegOff    = "GLOWCUT_DISABLE_FFMPEG"
	EnvThumbCount   = "GLOWCUT_THUMBNAIL_COUNT"
	EnvImportWindow = "GLOWCUT_IMPORT_TIMEOUT"

	// Database filename
	DBFilename = "glowcut.db"

	// Import defaults
	DefaultThumbnailCount = 8
	DefaultImportTimeout  = 120 // seconds
)

// Config defines the engine configuration interface
type Config interface {
	Port() int
	LogLevel() string
	DataDir() string
	DBPath() string
	MediaDir() string
	Headless() bool
	MediaToken() string
	FFmpegDisabled() bool
	ThumbnailCount() int
	ImportTimeout() time.Duration
}

// EnvConfig reads configuration from environment variables
type EnvConfig struct {
	port           int
	logLevel       string
	dataDir        string
	headless       bool
	mediaToken     string
	ffmpegDisabled bool
	thumbnailCount int
	importTimeout  time.Duration
}

// New creates a new EnvConfig with defaults and environment variable
// overrides
func New() (*EnvConfig, error) {
	cfg := &EnvConfig{
		port:           DefaultPort,
		logLevel:       DefaultLogLevel,
		dataDir:        defaultDataDir(),
		thumbnailCount: DefaultThumbnailCount,
		importTimeout:  DefaultImportTimeout * time.Second,
	}

	if p := os.Getenv(EnvPort); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvPort, err)
		}
		if port < 1 || port > 65535 {
			return nil, fmt.Errorf("invalid %s: port must be between 1 and 65535", EnvPort)
		}
		cfg.port = port
	}

	if ll := os.Getenv(EnvLogLevel); ll != "" {
		cfg.logLevel = ll
	}

	if dd := os.Getenv(EnvDataDir); dd != "" {
		cfg.dataDir = dd
	}

	cfg.headless = boolEnv(EnvHeadless)
	cfg.ffmpegDisabled = boolEnv(EnvFFmpegOff)
	cfg.mediaToken = os.Getenv(EnvMediaToken)

	if tc := os.Getenv(EnvThumbCount); tc != "" {
		count, err := strconv.Atoi(tc)
		if err != nil || count < 1 {
			return nil, fmt.Errorf("invalid %s: must be a positive integer", EnvThumbCount)
		}
		cfg.thumbnailCount = count
	}

	if it := os.Getenv(EnvImportWindow); it != "" {
		seconds, err := strconv.Atoi(it)
		if err != nil || seconds < 1 {
			return nil, fmt.Errorf("invalid %s: must be a positive integer of seconds", EnvImportWindow)
		}
		cfg.importTimeout = time.Duration(seconds) * time.Second
	}

	return cfg, nil
}

// Port returns the HTTP server port
func (c *EnvConfig) Port() int {
	return c.port
}

// LogLevel returns the log level (debug, info, warn, error)
func (c *EnvConfig) LogLevel() string {
	return c.logLevel
}

// DataDir returns the data directory path
func (c *EnvConfig) DataDir() string {
	return c.dataDir
}

// DBPath returns the full path to the SQLite database file
func (c *EnvConfig) DBPath() string {
	return filepath.Join(c.dataDir, DBFilename)
}

// MediaDir returns the media cache directory path
func (c *EnvConfig) MediaDir() string {
	return filepath.Join(c.dataDir, "media")
}

// Headless reports whether the system tray should be skipped
func (c *EnvConfig) Headless() bool {
	return c.headless
}

// MediaToken is the bearer token sent when downloading remote generation
// results; empty means unauthenticated downloads.
func (c *EnvConfig) MediaToken() string {
	return c.mediaToken
}

// FFmpegDisabled reports whether media probing should use the stub
func (c *EnvConfig) FFmpegDisabled() bool {
	return c.ffmpegDisabled
}

// ThumbnailCount is the number of filmstrip frames extracted per video
func (c *EnvConfig) ThumbnailCount() int {
	return c.thumbnailCount
}

// ImportTimeout bounds one media import, download included
func (c *EnvConfig) ImportTimeout() time.Duration {
	return c.importTimeout
}

func boolEnv(name string) bool {
	switch os.Getenv(name) {
	case "1", "true", "TRUE", "yes":
		return true
	}
	return false
}

// defaultDataDir returns the default data directory path
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home is not available
		return DefaultDataDir
	}
	return filepath.Join(home, DefaultDataDir)
}

// Version information (set at build time via ldflags)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)
