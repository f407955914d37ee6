// Package config handles loading and saving treepick configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/treepick/config.yaml
//   - State:   ~/.local/state/treepick/ (collapse-state.json)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Source types understood by the datasource package.
const (
	SourceHTTP   = "http"
	SourceSQLite = "sqlite"
	SourceFile   = "file"
)

// DefaultURL is the data server the folder/item endpoints live on.
const DefaultURL = "http://localhost:3000"

// SourceConfig selects where folders and items are fetched from.
type SourceConfig struct {
	Type    string        `yaml:"type"` // http, sqlite, file
	URL     string        `yaml:"url"`
	Path    string        `yaml:"path,omitempty"`
	Timeout time.Duration `yaml:"timeout"` // 0 disables the client-side timeout
}

// UIConfig holds UI preference settings.
type UIConfig struct {
	ShowIDs bool `yaml:"show_ids"`
	Indent  int  `yaml:"indent"` // spaces per depth level (1-8)
}

// StateConfig controls what survives between runs.
type StateConfig struct {
	PersistCollapse bool   `yaml:"persist_collapse"`
	Dir             string `yaml:"dir,omitempty"` // defaults to StateDir()
}

// Config is the top-level configuration for treepick.
type Config struct {
	Source SourceConfig `yaml:"source"`
	UI     UIConfig     `yaml:"ui"`
	State  StateConfig  `yaml:"state"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Source: SourceConfig{
			Type:    SourceHTTP,
			URL:     DefaultURL,
			Timeout: 10 * time.Second,
		},
		UI: UIConfig{
			Indent: 2,
		},
		State: StateConfig{
			PersistCollapse: true,
		},
	}
}

// Validate reports the first setting that cannot be used.
func (c Config) Validate() error {
	switch c.Source.Type {
	case SourceHTTP:
		if c.Source.URL == "" {
			return fmt.Errorf("source: http source requires url")
		}
	case SourceSQLite, SourceFile:
		if c.Source.Path == "" {
			return fmt.Errorf("source: %s source requires path", c.Source.Type)
		}
	default:
		return fmt.Errorf("source: unknown type %q (want http, sqlite or file)", c.Source.Type)
	}
	if c.Source.Timeout < 0 {
		return fmt.Errorf("source: negative timeout %v", c.Source.Timeout)
	}
	if c.UI.Indent < 1 || c.UI.Indent > 8 {
		return fmt.Errorf("ui: indent must be between 1 and 8, got %d", c.UI.Indent)
	}
	return nil
}

// CollapseStateDir returns the directory collapse-state.json lives in,
// or "" when collapse persistence is off.
func (c Config) CollapseStateDir() string {
	if !c.State.PersistCollapse {
		return ""
	}
	if c.State.Dir != "" {
		return c.State.Dir
	}
	return StateDir()
}

// ConfigDir returns the XDG config directory for treepick.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "treepick")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "treepick")
}

// StateDir returns the XDG state directory for treepick.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "treepick")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", "treepick")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	cfg.Source.Type = strings.ToLower(strings.TrimSpace(cfg.Source.Type))
	cfg.Source.Path = expandHome(cfg.Source.Path)
	cfg.State.Dir = expandHome(cfg.State.Dir)

	return cfg, nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
