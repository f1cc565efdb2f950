package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// History store backends.
const (
	HistoryBackendJSON = "json"
	HistoryBackendBolt = "bolt"
)

// Dedup identity strategies.
const (
	DedupFilename    = "filename"
	DedupContentHash = "content-hash"
)

// Config holds all environment-based configuration for immich-sync.
type Config struct {
	// Directory to scan for images (required, must exist).
	SyncDir string `env:"SYNC_DIR"`

	// Immich API key, sent as the x-api-key header (required).
	APIKey string `env:"IMMICH_API_KEY"`

	// Preferred endpoint, health-probed at the start of each run.
	LocalURL string `env:"IMMICH_LOCAL_URL"`

	// Fallback endpoint, used without a probe when the local one is
	// unreachable. At least one of the two URLs must be set.
	ExternalURL string `env:"IMMICH_EXTERNAL_URL"`

	// Album to link uploaded assets into. Must already exist on the
	// server; immich-sync never creates albums (required).
	AlbumName string `env:"IMMICH_ALBUM_NAME"`

	// Device name this agent identifies as. Defaults to system hostname.
	DeviceName string `env:"DEVICE_NAME"`

	// Accepted file extensions, matched case-insensitively.
	Extensions []string `env:"SYNC_EXTENSIONS" envSeparator:"," envDefault:".png,.jpg,.jpeg,.webp"`

	// Progress store location. Defaults to a file under ~/.immich-sync/
	// named for the backend.
	HistoryPath string `env:"HISTORY_PATH"`

	// Progress store backend: "json" or "bolt".
	HistoryBackend string `env:"HISTORY_BACKEND" envDefault:"json"`

	// Progress identity strategy: "filename" or "content-hash".
	DedupStrategy string `env:"DEDUP_STRATEGY" envDefault:"filename"`

	// Keep running and re-sync when new files land in SyncDir.
	EnableWatch bool `env:"ENABLE_WATCH" envDefault:"false"`

	// Optional log file; output is duplicated to stdout and this file.
	LogFile string `env:"LOG_FILE"`

	// Environment controls log format
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
}

// warnInsecureEnvFile checks whether the .env file (if present) has
// overly permissive permissions. On Unix systems, group or world
// readable files risk exposing the API key to other users.
func warnInsecureEnvFile() {
	if runtime.GOOS == "windows" {
		return
	}

	info, err := os.Stat(".env")
	if err != nil {
		return // file does not exist, nothing to check
	}

	mode := info.Mode().Perm()
	if mode&0o077 != 0 {
		log.Printf("WARNING: .env file has insecure permissions %04o; recommended 0600", mode)
	}
}

// Load reads configuration from environment variables.
// It first attempts to load a .env file if present, then parses env vars.
// A returned error means the run must not proceed; no network contact
// has happened at this point.
func Load() (*Config, error) {
	_ = godotenv.Load()

	warnInsecureEnvFile()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.DeviceName == "" {
		hostname, err := os.Hostname()
		if err != nil || hostname == "" {
			hostname = "immich-sync"
		}

		cfg.DeviceName = hostname
	}

	cfg.normalizeExtensions()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	// Resolve SyncDir to an absolute path at startup so log lines and
	// watcher registration agree on one spelling of the directory.
	absDir, err := filepath.Abs(cfg.SyncDir)
	if err != nil {
		return nil, fmt.Errorf("resolving sync dir to absolute path: %w", err)
	}
	cfg.SyncDir = absDir

	if cfg.HistoryPath == "" {
		path, err := DefaultHistoryPath(cfg.HistoryBackend)
		if err != nil {
			return nil, fmt.Errorf("deriving history path: %w", err)
		}
		cfg.HistoryPath = path
	}

	return cfg, nil
}

// normalizeExtensions lowercases each configured extension and ensures
// a leading dot, so ".PNG", "png" and ".png" all mean the same thing.
func (c *Config) normalizeExtensions() {
	out := c.Extensions[:0]
	for _, ext := range c.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out = append(out, ext)
	}
	c.Extensions = out
}

func (c *Config) validate() error {
	if c.SyncDir == "" {
		return fmt.Errorf("SYNC_DIR is required")
	}

	info, err := os.Stat(c.SyncDir)
	if err != nil {
		return fmt.Errorf("SYNC_DIR %q: %w", c.SyncDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("SYNC_DIR %q is not a directory", c.SyncDir)
	}

	if c.APIKey == "" {
		return fmt.Errorf("IMMICH_API_KEY is required")
	}

	if c.AlbumName == "" {
		return fmt.Errorf("IMMICH_ALBUM_NAME is required")
	}

	if c.LocalURL == "" && c.ExternalURL == "" {
		return fmt.Errorf("at least one of IMMICH_LOCAL_URL or IMMICH_EXTERNAL_URL must be set")
	}

	if c.HistoryBackend != HistoryBackendJSON && c.HistoryBackend != HistoryBackendBolt {
		return fmt.Errorf("HISTORY_BACKEND must be %q or %q, got %q", HistoryBackendJSON, HistoryBackendBolt, c.HistoryBackend)
	}

	if c.DedupStrategy != DedupFilename && c.DedupStrategy != DedupContentHash {
		return fmt.Errorf("DEDUP_STRATEGY must be %q or %q, got %q", DedupFilename, DedupContentHash, c.DedupStrategy)
	}

	if len(c.Extensions) == 0 {
		return fmt.Errorf("SYNC_EXTENSIONS must name at least one extension")
	}

	return nil
}

// DefaultHistoryPath returns the default progress store location for a
// backend: ~/.immich-sync/history.json or ~/.immich-sync/history.db
func DefaultHistoryPath(backend string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("determining home directory: %w", err)
	}

	name := "history.json"
	if backend == HistoryBackendBolt {
		name = "history.db"
	}

	return filepath.Join(home, ".immich-sync", name), nil
}

// IsProduction returns true when the environment is set to production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
