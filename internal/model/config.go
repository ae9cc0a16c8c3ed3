package model

import (
	"strings"
)

// IconType constants for favicon configuration.
const (
	IconTypeLetter = "letter"
	IconTypeEmoji  = "emoji"
)

// Storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Defaults mirrored from the original browser build.
const (
	DefaultStorageKey     = "webslide_presentation"
	DefaultAutosaveMillis = 30000
	DefaultPort           = 3000
	DefaultRateLimit      = 20.0
	DefaultBurst          = 40
)

// Config represents the user's webslide configuration.
// Stored at ~/.config/webslide/config.toml
// Schema changes require a version bump; see internal/version/version.go.
type Config struct {
	Schema   string         `toml:"schema"`
	Storage  StorageConfig  `toml:"storage"`
	Autosave AutosaveConfig `toml:"autosave"`
	Server   ServerConfig   `toml:"server"`
	Editor   EditorConfig   `toml:"editor"`
	Favicon  FaviconConfig  `toml:"favicon" json:"favicon"`
}

// StorageConfig selects where the deck blob lives.
type StorageConfig struct {
	Backend string `toml:"backend"`        // "file", "sqlite" or "memory"
	Path    string `toml:"path,omitempty"` // directory (file) or database file (sqlite)
	Key     string `toml:"key,omitempty"`
}

// AutosaveConfig controls debounced persistence.
type AutosaveConfig struct {
	DelayMillis int `toml:"delay_ms"`
}

// ServerConfig holds `webslide serve` settings.
type ServerConfig struct {
	Port      int     `toml:"port"`
	RateLimit float64 `toml:"rate_limit"` // mutating requests per second, 0 disables
	Burst     int     `toml:"burst"`
}

// EditorConfig overrides $EDITOR for `webslide edit`.
type EditorConfig struct {
	Command string `toml:"command,omitempty"`
}

// FaviconConfig holds the favicon appearance settings.
type FaviconConfig struct {
	Background string `toml:"background" json:"background"` // Hex color
	IconType   string `toml:"icon_type" json:"icon_type"`   // "letter" or "emoji"
	Letter     string `toml:"letter" json:"letter"`         // Single letter (if icon_type="letter")
	Emoji      string `toml:"emoji" json:"emoji"`           // Unicode emoji (if icon_type="emoji")
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend: BackendFile,
			Key:     DefaultStorageKey,
		},
		Autosave: AutosaveConfig{DelayMillis: DefaultAutosaveMillis},
		Server: ServerConfig{
			Port:      DefaultPort,
			RateLimit: DefaultRateLimit,
			Burst:     DefaultBurst,
		},
		Favicon: DefaultFaviconConfig("webslide"),
	}
}

// ApplyDefaults fills zero-valued settings from DefaultConfig.
func (c *Config) ApplyDefaults() {
	d := DefaultConfig()
	if c.Storage.Backend == "" {
		c.Storage.Backend = d.Storage.Backend
	}
	c.Storage.Backend = strings.ToLower(c.Storage.Backend)
	if c.Storage.Key == "" {
		c.Storage.Key = d.Storage.Key
	}
	if c.Autosave.DelayMillis <= 0 {
		c.Autosave.DelayMillis = d.Autosave.DelayMillis
	}
	if c.Server.Port == 0 {
		c.Server.Port = d.Server.Port
	}
	if c.Server.Burst <= 0 {
		c.Server.Burst = d.Server.Burst
	}
	if c.Favicon.IconType == "" {
		c.Favicon.IconType = d.Favicon.IconType
	}
	if c.Favicon.Letter == "" {
		c.Favicon.Letter = d.Favicon.Letter
	}
	if c.Favicon.Background == "" {
		c.Favicon.Background = d.Favicon.Background
	}
}

// ValidBackend reports whether name is a known storage backend.
func ValidBackend(name string) bool {
	switch name {
	case BackendFile, BackendSQLite, BackendMemory:
		return true
	}
	return false
}

// FaviconColors is a palette of vibrant, distinct colors for favicon backgrounds.
var FaviconColors = []string{
	"#6366f1", // indigo, the editor's primary color
	"#3b82f6", // blue
	"#ef4444", // red
	"#10b981", // emerald
	"#f59e0b", // amber
	"#8b5cf6", // violet
	"#ec4899", // pink
	"#06b6d4", // cyan
}

// ColorFromName returns a deterministic color from the favicon palette.
func ColorFromName(name string) string {
	if name == "" {
		return FaviconColors[0]
	}
	hash := 0
	for _, r := range name {
		hash = hash*31 + int(r)
	}
	if hash < 0 {
		hash = -hash
	}
	return FaviconColors[hash%len(FaviconColors)]
}

// DefaultFaviconConfig uses the first letter of name, uppercased.
func DefaultFaviconConfig(name string) FaviconConfig {
	letter := "W" // Fallback
	if len(name) > 0 {
		letter = strings.ToUpper(string([]rune(name)[0]))
	}

	return FaviconConfig{
		Background: ColorFromName(name),
		IconType:   IconTypeLetter,
		Letter:     letter,
	}
}
