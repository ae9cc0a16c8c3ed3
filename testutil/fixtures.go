package testutil

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/amterp/webslide/internal/config"
	"github.com/amterp/webslide/internal/model"
	"github.com/amterp/webslide/internal/version"
)

// fixtureMillis is the fixed timestamp used by fixtures (2026-01-01 UTC).
const fixtureMillis = 1767225600000

// TestSlide returns a slide with sensible test defaults.
func TestSlide(id, title string) model.Slide {
	return model.Slide{
		ID:        id,
		Title:     title,
		HTML:      "<h1>" + title + "</h1>",
		CreatedAt: fixtureMillis,
		UpdatedAt: fixtureMillis,
	}
}

// TestPresentation returns a deck of n slides with IDs "s1".."sn" and
// positional titles. The cursor is on the first slide.
func TestPresentation(n int) model.Presentation {
	slides := make([]model.Slide, n)
	for i := range slides {
		slides[i] = TestSlide("s"+strconv.Itoa(i+1), model.DefaultSlideTitle(i+1))
	}
	return model.Presentation{
		Metadata: model.Metadata{
			Version:   version.CurrentDeckFormat,
			CreatedAt: fixtureMillis,
			UpdatedAt: fixtureMillis,
		},
		Slides: slides,
	}
}

// TempProjectDir creates a temporary directory containing a .webslide/
// project directory. Returns the project root.
func TempProjectDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, config.ProjectDirName), 0755); err != nil {
		t.Fatalf("failed to create project dir: %v", err)
	}
	return dir
}

// NewTestPaths creates a Paths for testing rooted at baseDir, with the
// config file inside it.
func NewTestPaths(baseDir string) *config.Paths {
	return config.NewPaths(baseDir, filepath.Join(baseDir, config.ConfigFileName))
}
