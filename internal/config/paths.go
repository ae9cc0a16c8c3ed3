package config

import (
	"os"
	"path/filepath"
)

const (
	DefaultDataDir   = ".local/share/webslide"
	ProjectDirName   = ".webslide"
	ConfigDir        = ".config/webslide"
	ConfigFileName   = "config.toml"
	DecksDir         = "decks"
	SQLiteFileName   = "webslide.db"
	DataDirEnvVar    = "WEBSLIDE_HOME"
	ConfigFileEnvVar = "WEBSLIDE_CONFIG"
)

// Paths provides path resolution for webslide data files.
type Paths struct {
	dataDir    string
	configPath string
}

// NewPaths creates a Paths rooted at dataDir. An empty configPath falls back
// to the per-user config location.
func NewPaths(dataDir, configPath string) *Paths {
	if configPath == "" {
		configPath = DefaultConfigPath()
	}
	return &Paths{
		dataDir:    dataDir,
		configPath: configPath,
	}
}

// DefaultPaths resolves locations from the environment, then the home directory.
func DefaultPaths() *Paths {
	dataDir := os.Getenv(DataDirEnvVar)
	if dataDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dataDir = filepath.Join(home, DefaultDataDir)
		}
	}
	return NewPaths(dataDir, os.Getenv(ConfigFileEnvVar))
}

// DataDir returns the root directory for webslide data.
func (p *Paths) DataDir() string {
	return p.dataDir
}

// DecksDir returns the directory the file backend writes deck blobs to.
func (p *Paths) DecksDir() string {
	return filepath.Join(p.dataDir, DecksDir)
}

// SQLitePath returns the default database file for the sqlite backend.
func (p *Paths) SQLitePath() string {
	return filepath.Join(p.dataDir, SQLiteFileName)
}

// ConfigPath returns the path to the config file.
func (p *Paths) ConfigPath() string {
	return p.configPath
}

// DefaultConfigPath returns the per-user config file path, or "" if the home
// directory can't be resolved.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ConfigDir, ConfigFileName)
}
