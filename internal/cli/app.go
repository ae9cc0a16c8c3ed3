package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/amterp/webslide/internal/config"
	"github.com/amterp/webslide/internal/creator"
	"github.com/amterp/webslide/internal/deck"
	"github.com/amterp/webslide/internal/discovery"
	"github.com/amterp/webslide/internal/editor"
	"github.com/amterp/webslide/internal/git"
	"github.com/amterp/webslide/internal/model"
	"github.com/amterp/webslide/internal/prompt"
	"github.com/amterp/webslide/internal/resolver"
	"github.com/amterp/webslide/internal/store"
)

// App holds all the dependencies for the CLI.
// Uses interfaces for testability.
type App struct {
	Paths         *config.Paths
	ConfigStore   store.ConfigStore
	Config        *model.Config
	Storage       store.KeyValueStore
	State         *deck.State
	Prompter      prompt.Prompter
	Editor        *editor.Editor
	SlideResolver *resolver.SlideResolver
	Git           creator.UserNameSource

	closeStorage func() error
}

// NewApp creates a new App with all dependencies wired up.
// If interactive is false, uses NoopPrompter that fails on prompts.
func NewApp(interactive bool) (*App, error) {
	paths, err := resolvePaths()
	if err != nil {
		return nil, err
	}
	configStore := store.NewConfigStore(paths.ConfigPath())

	cfg, err := configStore.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	var prompter prompt.Prompter
	if interactive {
		prompter = prompt.NewHuhPrompter()
	} else {
		prompter = &prompt.NoopPrompter{}
	}

	app, err := newAppWith(paths, cfg, prompter)
	if err != nil {
		return nil, err
	}
	app.ConfigStore = configStore
	return app, nil
}

// resolvePaths picks the data directory for the current working directory,
// preferring a project-local .webslide/ over the per-user one.
func resolvePaths() (*config.Paths, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return config.DefaultPaths(), nil
	}
	return discovery.ResolvePaths(cwd)
}

// newAppWith opens storage and the deck for an already loaded config.
func newAppWith(paths *config.Paths, cfg *model.Config, prompter prompt.Prompter) (*App, error) {
	storage, closeStorage, err := store.Open(cfg.Storage, paths)
	if err != nil {
		return nil, err
	}

	state := deck.New(deck.Options{
		Storage:   storage,
		Key:       cfg.Storage.Key,
		SaveDelay: time.Duration(cfg.Autosave.DelayMillis) * time.Millisecond,
	})

	return &App{
		Paths:         paths,
		Config:        cfg,
		Storage:       storage,
		State:         state,
		Prompter:      prompter,
		Editor:        editor.NewEditor(cfg.Editor.Command),
		SlideResolver: resolver.NewSlideResolver(state),
		Git:           git.NewClient(),
		closeStorage:  closeStorage,
	}, nil
}

// Close flushes unsaved deck changes and releases storage.
func (a *App) Close() error {
	saved := a.State.Close()
	if err := a.closeStorage(); err != nil {
		return err
	}
	if !saved {
		return fmt.Errorf("failed to save deck to %s storage", a.Config.Storage.Backend)
	}
	return nil
}

// WatchStore returns the file backend when it is active, or nil for
// backends that can't be watched.
func (a *App) WatchStore() *store.FileStore {
	fs, _ := a.Storage.(*store.FileStore)
	return fs
}

// WatchDir returns the directory holding deck files, or "" when the active
// backend can't be watched.
func (a *App) WatchDir() string {
	if fs := a.WatchStore(); fs != nil {
		return fs.Dir()
	}
	return ""
}

// ResolveSlide resolves a slide reference, prompting for one when ref is empty.
func (a *App) ResolveSlide(ref string) (int, model.Slide, error) {
	if ref != "" {
		return a.SlideResolver.Resolve(ref)
	}

	slides := a.State.Slides()
	options := make([]string, len(slides))
	for i, s := range slides {
		options[i] = fmt.Sprintf("%d. %s", i+1, s.Title)
	}
	index, err := a.Prompter.Select("Select a slide", options)
	if err != nil {
		return 0, model.Slide{}, fmt.Errorf("no slide given: %w", err)
	}
	return index, slides[index], nil
}

// Fatal prints an error and exits.
func Fatal(err error) {
	PrintError("Error: %v", err)
	os.Exit(1)
}

// mustApp creates the App or exits.
func mustApp(interactive bool) *App {
	app, err := NewApp(interactive)
	if err != nil {
		Fatal(err)
	}
	return app
}

// finish closes the app, then exits on err.
func finish(app *App, err error) {
	closeErr := app.Close()
	if err != nil {
		Fatal(err)
	}
	if closeErr != nil {
		Fatal(closeErr)
	}
}
