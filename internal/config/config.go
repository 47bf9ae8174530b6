// Package config loads the per-user settings file.
package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"sprintboard-cli/internal/autosave"
	"sprintboard-cli/internal/persist"
)

const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

type Config struct {
	// Dir is the data directory holding the task store.
	Dir string `json:"dir,omitempty"`

	// Backend selects the persistence adapter: "json" (default) or "sqlite".
	Backend string `json:"backend,omitempty"`

	// QuietMillis overrides the autosave debounce window.
	QuietMillis int `json:"quietMillis,omitempty"`

	// ArchiveCutoffDays overrides how old a completed task must be before
	// archiving moves it to history.
	ArchiveCutoffDays int `json:"archiveCutoffDays,omitempty"`
}

func DefaultDir() string {
	if v := strings.TrimSpace(os.Getenv("SPRINTBOARD_DIR")); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".sprintboard"
	}
	return filepath.Join(home, ".sprintboard")
}

func Path(dir string) string {
	return filepath.Join(dir, "config.json")
}

// Load reads the config file under dir. A missing file yields defaults.
func Load(dir string) (Config, error) {
	cfg := Config{Dir: dir}
	b, err := os.ReadFile(Path(dir))
	if errors.Is(err, os.ErrNotExist) {
		return cfg.withDefaults(), nil
	}
	if err != nil {
		return Config{}, err
	}
	if err := json.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}
	if strings.TrimSpace(cfg.Dir) == "" {
		cfg.Dir = dir
	}
	return cfg.withDefaults(), nil
}

func (c Config) withDefaults() Config {
	if strings.TrimSpace(c.Backend) == "" {
		c.Backend = BackendJSON
	}
	if c.ArchiveCutoffDays <= 0 {
		c.ArchiveCutoffDays = persist.DefaultCutoffDays
	}
	return c
}

func (c Config) Quiet() time.Duration {
	if c.QuietMillis <= 0 {
		return autosave.DefaultQuiet
	}
	return time.Duration(c.QuietMillis) * time.Millisecond
}

func Save(dir string, cfg Config) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(Path(dir), append(b, '\n'), 0o644)
}
