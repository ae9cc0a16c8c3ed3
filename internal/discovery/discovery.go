package discovery

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/amterp/webslide/internal/config"
)

// Result describes a project-local deck location.
type Result struct {
	ProjectRoot string // Absolute path of the directory holding .webslide/
	DataDir     string // Absolute path of .webslide/ itself
}

// DiscoverProjectFrom finds a project-local data directory starting from a
// given directory. The nearest .webslide/ wins.
func DiscoverProjectFrom(startDir string) (*Result, error) {
	absStart, err := filepath.Abs(startDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	dir := absStart
	for {
		dataDir := filepath.Join(dir, config.ProjectDirName)
		info, err := os.Stat(dataDir)
		if err == nil {
			if !info.IsDir() {
				return nil, fmt.Errorf("%s exists but is not a directory", dataDir)
			}
			return &Result{ProjectRoot: dir, DataDir: dataDir}, nil
		}

		// Move up to parent
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root, no project found
			return nil, nil
		}
		dir = parent
	}
}

// ResolvePaths returns the data locations to use from startDir. An explicit
// $WEBSLIDE_HOME wins over a discovered project, which wins over the
// per-user default. The config file location is never project-local.
func ResolvePaths(startDir string) (*config.Paths, error) {
	paths := config.DefaultPaths()
	if os.Getenv(config.DataDirEnvVar) != "" {
		return paths, nil
	}

	result, err := DiscoverProjectFrom(startDir)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return paths, nil
	}
	return config.NewPaths(result.DataDir, paths.ConfigPath()), nil
}
