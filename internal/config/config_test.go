package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadOrCreateWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("LoadOrCreate failed: %v", err)
	}
	if cfg.DefaultView != "today" {
		t.Errorf("expected default view today, got %q", cfg.DefaultView)
	}
	if cfg.Keys.Quit != "q" || cfg.Keys.Add != "a" {
		t.Errorf("default keymap missing: %#v", cfg.Keys)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("first launch must write the config file: %v", err)
	}
}

func TestLoadOrCreateReadsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "db_path = \"tasks.db\"\ndefault_view = \"inbox\"\nseed_demo = false\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	cfg, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("LoadOrCreate failed: %v", err)
	}
	if cfg.DBPath != "tasks.db" || cfg.DefaultView != "inbox" || cfg.SeedDemo {
		t.Fatalf("existing values not honored: %#v", cfg)
	}
	// Keys not present in the file keep their defaults.
	if cfg.Keys.Down != "j" {
		t.Errorf("expected default down key, got %q", cfg.Keys.Down)
	}
}
