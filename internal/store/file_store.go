package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	wserr "github.com/amterp/webslide/internal/errors"
)

// FileStore implements KeyValueStore with one JSON file per key.
// Writes go to a temp file that is synced and renamed over the target, so a
// crash mid-write never leaves a truncated deck behind.
type FileStore struct {
	dir string
}

// NewFileStore creates a file store rooted at dir. The directory is created
// lazily on first write.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Dir returns the directory blobs are written to.
func (s *FileStore) Dir() string {
	return s.dir
}

// PathFor returns the file that holds key.
func (s *FileStore) PathFor(key string) string {
	return filepath.Join(s.dir, sanitizeKey(key)+".json")
}

// KeyForPath maps a file path back to its file key, or "" if the path is not
// a blob written by this store. The file key is the sanitized form of the
// key passed to Set, so compare paths with PathFor when the two may differ.
func (s *FileStore) KeyForPath(path string) string {
	if filepath.Dir(path) != filepath.Clean(s.dir) {
		return ""
	}
	base := filepath.Base(path)
	if !strings.HasSuffix(base, ".json") || strings.HasPrefix(base, ".") {
		return ""
	}
	return strings.TrimSuffix(base, ".json")
}

func (s *FileStore) Get(key string) (string, error) {
	data, err := os.ReadFile(s.PathFor(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", wserr.KeyNotFound(key)
		}
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	return string(data), nil
}

func (s *FileStore) Set(key, value string) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	path := s.PathFor(key)
	// Hidden temp name so directory watchers ignore the intermediate file
	tempPath := filepath.Join(s.dir, "."+filepath.Base(path)+".tmp")

	f, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := f.WriteString(value); err != nil {
		f.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	f.Close()

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// Remove deletes the blob for key. Removing an absent key is not an error.
func (s *FileStore) Remove(key string) error {
	if err := os.Remove(s.PathFor(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

// sanitizeKey keeps keys from escaping the store directory.
func sanitizeKey(key string) string {
	key = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', 0:
			return '_'
		}
		return r
	}, key)
	key = strings.TrimLeft(key, ".")
	if key == "" {
		key = "_"
	}
	return key
}
