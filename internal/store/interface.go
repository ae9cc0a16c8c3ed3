package store

import "github.com/amterp/webslide/internal/model"

// KeyValueStore persists opaque text blobs under string keys.
// Get returns a NotFound error (see internal/errors) when the key is absent.
type KeyValueStore interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Remove(key string) error
}

// ConfigStore handles config persistence.
type ConfigStore interface {
	Load() (*model.Config, error)
	Save(config *model.Config) error
	EnsureExists() error
}
