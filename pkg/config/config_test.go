package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Source.Type != SourceHTTP {
		t.Errorf("expected default source type %q, got %q", SourceHTTP, cfg.Source.Type)
	}
	if cfg.Source.URL != DefaultURL {
		t.Errorf("expected default url %q, got %q", DefaultURL, cfg.Source.URL)
	}
	if cfg.Source.Timeout != 10*time.Second {
		t.Errorf("expected timeout 10s, got %v", cfg.Source.Timeout)
	}
	if cfg.UI.Indent != 2 {
		t.Errorf("expected indent 2, got %d", cfg.UI.Indent)
	}
	if !cfg.State.PersistCollapse {
		t.Error("expected collapse persistence on by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got: %v", err)
	}
}

func TestLoadFrom_NonExistent(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("expected default config, got %+v", cfg)
	}
}

func TestLoadFrom_ValidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
source:
  type: SQLite
  path: ~/data/tree.db
  timeout: 3s
ui:
  show_ids: true
  indent: 4
state:
  persist_collapse: false
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	home, _ := os.UserHomeDir()
	if cfg.Source.Type != SourceSQLite {
		t.Errorf("expected type %q, got %q", SourceSQLite, cfg.Source.Type)
	}
	if want := filepath.Join(home, "data/tree.db"); cfg.Source.Path != want {
		t.Errorf("expected path %q, got %q", want, cfg.Source.Path)
	}
	if cfg.Source.Timeout != 3*time.Second {
		t.Errorf("expected timeout 3s, got %v", cfg.Source.Timeout)
	}
	if cfg.Source.URL != DefaultURL {
		t.Errorf("unset url should keep its default, got %q", cfg.Source.URL)
	}
	if !cfg.UI.ShowIDs {
		t.Error("expected show_ids true")
	}
	if cfg.UI.Indent != 4 {
		t.Errorf("expected indent 4, got %d", cfg.UI.Indent)
	}
	if cfg.State.PersistCollapse {
		t.Error("expected persist_collapse false")
	}
	if dir := cfg.CollapseStateDir(); dir != "" {
		t.Errorf("expected no collapse state dir, got %q", dir)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadFrom_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("{{invalid yaml"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFrom(path); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"file source without url", func(c *Config) {
			c.Source = SourceConfig{Type: SourceFile, Path: "/tmp/tree.json", Timeout: time.Minute}
			c.UI.ShowIDs = true
			c.State.Dir = "/tmp/state"
		}},
		{"zero timeout", func(c *Config) {
			c.Source.Timeout = 0
		}},
		{"collapse persistence off", func(c *Config) {
			c.State.PersistCollapse = false
			c.UI.Indent = 8
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", "config.yaml")
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			if err := SaveTo(cfg, path); err != nil {
				t.Fatalf("SaveTo: %v", err)
			}
			loaded, err := LoadFrom(path)
			if err != nil {
				t.Fatalf("LoadFrom: %v", err)
			}
			if loaded != cfg {
				t.Errorf("round trip mismatch:\n saved  %+v\n loaded %+v", cfg, loaded)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"unknown type", func(c *Config) { c.Source.Type = "ftp" }, "unknown type"},
		{"http without url", func(c *Config) { c.Source.URL = "" }, "requires url"},
		{"sqlite without path", func(c *Config) { c.Source.Type = SourceSQLite }, "requires path"},
		{"file without path", func(c *Config) { c.Source.Type = SourceFile }, "requires path"},
		{"negative timeout", func(c *Config) { c.Source.Timeout = -time.Second }, "negative timeout"},
		{"indent too large", func(c *Config) { c.UI.Indent = 9 }, "indent"},
		{"indent zero", func(c *Config) { c.UI.Indent = 0 }, "indent"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("expected error containing %q, got %q", tt.errMsg, err.Error())
			}
		})
	}
}

func TestXDGDirs(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg/config")
	t.Setenv("XDG_STATE_HOME", "/xdg/state")

	if got := ConfigDir(); got != "/xdg/config/treepick" {
		t.Errorf("ConfigDir = %q", got)
	}
	if got := ConfigPath(); got != "/xdg/config/treepick/config.yaml" {
		t.Errorf("ConfigPath = %q", got)
	}
	if got := StateDir(); got != "/xdg/state/treepick" {
		t.Errorf("StateDir = %q", got)
	}

	cfg := DefaultConfig()
	if got := cfg.CollapseStateDir(); got != "/xdg/state/treepick" {
		t.Errorf("CollapseStateDir = %q", got)
	}
	cfg.State.Dir = "/elsewhere"
	if got := cfg.CollapseStateDir(); got != "/elsewhere" {
		t.Errorf("CollapseStateDir with override = %q", got)
	}
}
