package version

import (
	"fmt"
	"strconv"
	"strings"
)

// Current schema versions - bump these when making breaking changes.
//
// CHECKLIST when bumping a version:
//  1. Update the constant below
//  2. Add entry to MinWebslideVersion map (tested by TestMinWebslideVersionCompleteness)
//  3. Keep the importer able to read every older deck format
const (
	CurrentConfigVersion = 1

	// CurrentDeckFormat is written to metadata.version on export.
	CurrentDeckFormat = "2.0"
)

// ConfigSchemaPrefix is the schema type prefix for the config file.
const ConfigSchemaPrefix = "config/"

// MinWebslideVersion maps schema identifiers to the minimum webslide version required.
// Used to provide helpful upgrade messages when encountering newer schemas.
var MinWebslideVersion = map[string]string{
	"config/1": "0.1.0",
	"deck/2":   "0.1.0",
}

// FormatConfigSchema creates a config schema string from a version number.
// Example: FormatConfigSchema(1) returns "config/1"
func FormatConfigSchema(v int) string {
	return fmt.Sprintf("%s%d", ConfigSchemaPrefix, v)
}

// ParseConfigVersion extracts the version number from a config schema string.
// Returns an error if the format is invalid.
func ParseConfigVersion(schema string) (int, error) {
	return parseSchemaVersion(schema, ConfigSchemaPrefix, "config")
}

func parseSchemaVersion(schema, prefix, schemaType string) (int, error) {
	if !strings.HasPrefix(schema, prefix) {
		return 0, fmt.Errorf("invalid %s schema format: %q (expected %sN)", schemaType, schema, prefix)
	}
	versionStr := strings.TrimPrefix(schema, prefix)
	v, err := strconv.Atoi(versionStr)
	if err != nil {
		return 0, fmt.Errorf("invalid %s schema version: %q", schemaType, versionStr)
	}
	if v < 1 {
		return 0, fmt.Errorf("invalid %s schema version: %d (must be >= 1)", schemaType, v)
	}
	return v, nil
}

// CurrentConfigSchema returns the current config schema string.
func CurrentConfigSchema() string {
	return FormatConfigSchema(CurrentConfigVersion)
}

// ParseDeckMajor returns the major component of a deck format string such
// as "2.0". A bare integer like "2" is accepted.
func ParseDeckMajor(format string) (int, error) {
	major, _, _ := strings.Cut(strings.TrimSpace(format), ".")
	v, err := strconv.Atoi(major)
	if err != nil {
		return 0, fmt.Errorf("invalid deck format: %q", format)
	}
	if v < 1 {
		return 0, fmt.Errorf("invalid deck format: %q (major must be >= 1)", format)
	}
	return v, nil
}

// IsNewerDeckFormat reports whether format has a higher major version than
// this build writes. Unparseable formats are not considered newer.
func IsNewerDeckFormat(format string) bool {
	found, err := ParseDeckMajor(format)
	if err != nil {
		return false
	}
	current, _ := ParseDeckMajor(CurrentDeckFormat)
	return found > current
}
