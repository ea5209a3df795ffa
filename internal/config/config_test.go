package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestEmbeddedDefaultsMatchDefault(t *testing.T) {
	cfg, err := parse(defaultYAML)
	if err != nil {
		t.Fatalf("embedded defaults do not parse: %v", err)
	}
	if cfg != Default() {
		t.Errorf("embedded defaults = %+v\nexpected %+v", cfg, Default())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config is invalid: %v", err)
	}
}

func TestLoadCustomPathOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := []byte(`
storage:
  save_backend: sqlite
log:
  level: debug
server:
  idle_timeout: 90s
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Storage.SaveBackend != SaveBackendSQLite {
		t.Errorf("SaveBackend = %q, expected sqlite", cfg.Storage.SaveBackend)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Level = %q, expected debug", cfg.Log.Level)
	}
	if cfg.Server.IdleTimeout != 90*time.Second {
		t.Errorf("IdleTimeout = %v, expected 90s", cfg.Server.IdleTimeout)
	}
	if cfg.Storage.DBPath != Default().Storage.DBPath {
		t.Errorf("missing keys must keep defaults, DBPath = %q", cfg.Storage.DBPath)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load(missing) = %v, expected a not-exist error", err)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("storage: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("Load(bad yaml) expected an error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"sqlite without save path", func(c *Config) {
			c.Storage.SaveBackend = SaveBackendSQLite
			c.Storage.SavePath = ""
		}, true},
		{"file without save path", func(c *Config) { c.Storage.SavePath = "" }, false},
		{"unknown backend", func(c *Config) { c.Storage.SaveBackend = "redis" }, false},
		{"empty db path", func(c *Config) { c.Storage.DBPath = "" }, false},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, false},
		{"negative backups", func(c *Config) { c.Log.MaxBackups = -1 }, false},
		{"empty address", func(c *Config) { c.Server.Address = "" }, false},
		{"negative timeout", func(c *Config) { c.Server.IdleTimeout = -time.Second }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate() = %v, expected nil", err)
			}
			if !tt.ok && err == nil {
				t.Error("Validate() = nil, expected an error")
			}
		})
	}
}
