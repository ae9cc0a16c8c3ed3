package store

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/amterp/webslide/internal/model"
	"github.com/amterp/webslide/internal/version"
)

// FileConfigStore implements ConfigStore using a TOML file.
type FileConfigStore struct {
	path string
}

// NewConfigStore creates a config store for the file at path. An empty path
// disables persistence; Load then returns defaults.
func NewConfigStore(path string) *FileConfigStore {
	return &FileConfigStore{path: path}
}

// Load reads the config from disk.
// Returns the default config if the file doesn't exist.
func (s *FileConfigStore) Load() (*model.Config, error) {
	if s.path == "" {
		return model.DefaultConfig(), nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.DefaultConfig(), nil
		}
		return nil, err
	}

	var cfg model.Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Strict version validation (only if file exists)
	if cfg.Schema == "" {
		return nil, version.MissingConfigSchema(s.path)
	}
	if cfg.Schema != version.CurrentConfigSchema() {
		return nil, version.InvalidConfigSchema(s.path, cfg.Schema)
	}

	cfg.ApplyDefaults()
	return &cfg, nil
}

// Save writes the config to disk.
func (s *FileConfigStore) Save(cfg *model.Config) error {
	// Stamp current schema version
	cfg.Schema = version.CurrentConfigSchema()

	if s.path == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}

	f, err := os.Create(s.path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// EnsureExists creates the config file with defaults if it doesn't exist.
func (s *FileConfigStore) EnsureExists() error {
	if s.path == "" {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return s.Save(model.DefaultConfig())
	}
	return nil
}
