package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/amterp/webslide/internal/model"
	"github.com/amterp/webslide/internal/version"
)

func TestConfigStore_LoadMissingReturnsDefaults(t *testing.T) {
	s := NewConfigStore(filepath.Join(t.TempDir(), "config.toml"))

	cfg, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Storage.Key != model.DefaultStorageKey {
		t.Errorf("Storage.Key mismatch: got %q, want %q", cfg.Storage.Key, model.DefaultStorageKey)
	}
	if cfg.Autosave.DelayMillis != model.DefaultAutosaveMillis {
		t.Errorf("DelayMillis mismatch: got %d, want %d", cfg.Autosave.DelayMillis, model.DefaultAutosaveMillis)
	}
}

func TestConfigStore_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	s := NewConfigStore(path)

	cfg := model.DefaultConfig()
	cfg.Storage.Backend = model.BackendSQLite
	cfg.Autosave.DelayMillis = 500
	cfg.Editor.Command = "vim"

	if err := s.Save(cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if cfg.Schema != version.CurrentConfigSchema() {
		t.Errorf("Schema not stamped: got %q", cfg.Schema)
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Storage.Backend != model.BackendSQLite {
		t.Errorf("Backend mismatch: got %q, want %q", loaded.Storage.Backend, model.BackendSQLite)
	}
	if loaded.Autosave.DelayMillis != 500 {
		t.Errorf("DelayMillis mismatch: got %d, want 500", loaded.Autosave.DelayMillis)
	}
	if loaded.Editor.Command != "vim" {
		t.Errorf("Editor.Command mismatch: got %q, want %q", loaded.Editor.Command, "vim")
	}
}

func TestConfigStore_MissingSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[storage]\nbackend = \"file\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := NewConfigStore(path).Load()
	if err == nil {
		t.Fatal("Expected error for missing schema")
	}
	if !strings.Contains(err.Error(), "schema") {
		t.Errorf("Error should mention schema, got: %v", err)
	}
}

func TestConfigStore_WrongSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("schema = \"config/99\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewConfigStore(path).Load(); err == nil {
		t.Fatal("Expected error for unsupported schema")
	}
}

func TestConfigStore_AppliesDefaultsToPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "schema = \"config/1\"\n\n[storage]\nbackend = \"SQLite\"\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := NewConfigStore(path).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Storage.Backend != model.BackendSQLite {
		t.Errorf("Backend should be lowercased: got %q", cfg.Storage.Backend)
	}
	if cfg.Storage.Key != model.DefaultStorageKey {
		t.Errorf("Key default not applied: got %q", cfg.Storage.Key)
	}
	if cfg.Server.Port != model.DefaultPort {
		t.Errorf("Port default not applied: got %d", cfg.Server.Port)
	}
}

func TestConfigStore_EnsureExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	s := NewConfigStore(path)

	if err := s.EnsureExists(); err != nil {
		t.Fatalf("EnsureExists failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not created: %v", err)
	}
	if _, err := s.Load(); err != nil {
		t.Errorf("created config should load: %v", err)
	}
}
