package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadOrCreateWritesDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pado", DefaultConfigFileName)

	cfg, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("LoadOrCreate failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("default config not written: %v", err)
	}
	if cfg.Keys.Quit != "q" || cfg.Keys.Add != "a" {
		t.Errorf("unexpected default keymap: %+v", cfg.Keys)
	}
	if cfg.DBPath != filepath.Join(dir, "pado", DefaultDBName) {
		t.Errorf("DBPath = %q, want it next to the config", cfg.DBPath)
	}
}

func TestLoadOrCreateReadsExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigFileName)
	content := "db_path = \"custom.db\"\n\n[keys]\nquit = \"x\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("LoadOrCreate failed: %v", err)
	}
	if cfg.DBPath != "custom.db" {
		t.Errorf("DBPath = %q, want custom.db", cfg.DBPath)
	}
	if cfg.Keys.Quit != "x" {
		t.Errorf("Keys.Quit = %q, want x", cfg.Keys.Quit)
	}
}

func TestLoadOrCreateBackfillsDBPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigFileName)
	if err := os.WriteFile(path, []byte("[keys]\nquit = \"q\"\n"), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("LoadOrCreate failed: %v", err)
	}
	if cfg.DBPath != filepath.Join(dir, DefaultDBName) {
		t.Errorf("DBPath = %q, want backfilled default", cfg.DBPath)
	}
}
