package store

import (
	"fmt"

	"github.com/amterp/webslide/internal/config"
	"github.com/amterp/webslide/internal/model"
)

// Open builds the KeyValueStore selected by cfg. The returned close function
// is always non-nil.
func Open(cfg model.StorageConfig, paths *config.Paths) (KeyValueStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Backend {
	case model.BackendFile, "":
		dir := cfg.Path
		if dir == "" {
			dir = paths.DecksDir()
		}
		return NewFileStore(dir), noop, nil

	case model.BackendSQLite:
		dbPath := cfg.Path
		if dbPath == "" {
			dbPath = paths.SQLitePath()
		}
		s, err := NewSQLiteStore(dbPath)
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil

	case model.BackendMemory:
		return NewMemoryStore(), noop, nil
	}

	return nil, noop, fmt.Errorf("unknown storage backend %q (want file, sqlite or memory)", cfg.Backend)
}
