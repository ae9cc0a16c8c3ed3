package api

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/amterp/webslide/internal/deck"
	"github.com/amterp/webslide/internal/model"
	"github.com/amterp/webslide/internal/store"
)

func TestClassifyChange(t *testing.T) {
	dir := filepath.Join("/data", "decks")
	fw := &FileWatcher{files: store.NewFileStore(dir)}

	tests := []struct {
		name     string
		path     string
		op       fsnotify.Op
		wantType FileChangeType
		wantKey  string
	}{
		{"created", filepath.Join(dir, "webslide_presentation.json"), fsnotify.Create, FileChangeCreated, "webslide_presentation"},
		{"modified", filepath.Join(dir, "talk.json"), fsnotify.Write, FileChangeModified, "talk"},
		{"deleted", filepath.Join(dir, "talk.json"), fsnotify.Remove, FileChangeDeleted, "talk"},
		{"renamed (treated as deleted)", filepath.Join(dir, "old.json"), fsnotify.Rename, FileChangeDeleted, "old"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			change, ok := fw.classifyChange(fsnotify.Event{Name: tt.path, Op: tt.op})
			if !ok {
				t.Fatal("expected change to be recognized")
			}
			if change.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", change.Type, tt.wantType)
			}
			if change.Key != tt.wantKey {
				t.Errorf("Key = %q, want %q", change.Key, tt.wantKey)
			}
			if change.Path != tt.path {
				t.Errorf("Path = %q, want %q", change.Path, tt.path)
			}
		})
	}
}

func TestClassifyChange_Ignored(t *testing.T) {
	dir := filepath.Join("/data", "decks")
	fw := &FileWatcher{files: store.NewFileStore(dir)}

	tests := []struct {
		name string
		path string
		op   fsnotify.Op
	}{
		{"not json", filepath.Join(dir, "notes.txt"), fsnotify.Write},
		{"temp file", filepath.Join(dir, ".deck.json.tmp"), fsnotify.Create},
		{"hidden json", filepath.Join(dir, ".deck.json"), fsnotify.Write},
		{"nested", filepath.Join(dir, "sub", "deck.json"), fsnotify.Write},
		{"chmod only", filepath.Join(dir, "deck.json"), fsnotify.Chmod},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := fw.classifyChange(fsnotify.Event{Name: tt.path, Op: tt.op}); ok {
				t.Error("expected change to be ignored")
			}
		})
	}
}

// mockSubscriber implements FileWatcherSubscriber for testing
type mockSubscriber struct {
	mu      sync.Mutex
	changes []FileChange
}

func (m *mockSubscriber) OnFileChange(change FileChange) {
	m.mu.Lock()
	m.changes = append(m.changes, change)
	m.mu.Unlock()
}

func TestFileWatcher_Subscribe(t *testing.T) {
	fw := &FileWatcher{
		subscribers: []FileWatcherSubscriber{},
	}

	fw.Subscribe(&mockSubscriber{})
	fw.Subscribe(FileWatcherFunc(func(FileChange) {}))

	if len(fw.subscribers) != 2 {
		t.Errorf("Expected 2 subscribers, got %d", len(fw.subscribers))
	}
}

func TestFileWatcher_StoppedPreventsRestart(t *testing.T) {
	fw := &FileWatcher{
		stopped: true,
	}

	err := fw.Start()
	if err == nil {
		t.Error("Expected error when starting stopped watcher")
	}
}

func waitFor(t *testing.T, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(20 * time.Millisecond)
	}
	return false
}

func TestFileWatcher_ReloadsExternalEdits(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "decks")
	fileStore := store.NewFileStore(dir)
	state := deck.New(deck.Options{Storage: fileStore, SaveDelay: time.Hour})
	defer state.Close()

	fw, err := NewFileWatcher(fileStore)
	if err != nil {
		t.Fatalf("NewFileWatcher failed: %v", err)
	}
	fw.Subscribe(deckReloader(NewHandler(state, model.DefaultConfig()), fileStore))
	if err := fw.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer fw.Stop()

	var mu sync.Mutex
	var loaded int
	state.Subscribe(deck.ObserverFunc(func(e deck.Event) {
		if e.Type == deck.EventPresentationLoaded {
			mu.Lock()
			loaded++
			mu.Unlock()
		}
	}))

	// The deck's own save must not bounce back as a reload
	if !state.ForceSave() {
		t.Fatal("ForceSave failed")
	}
	time.Sleep(3 * debounceDelay)
	mu.Lock()
	if loaded != 0 {
		t.Errorf("Own write triggered %d reloads", loaded)
	}
	mu.Unlock()

	external := `{"slides":[{"id":"ext","title":"From disk","html":"<p>edited</p>"}]}`
	if err := os.WriteFile(fileStore.PathFor(state.StorageKey()), []byte(external), 0644); err != nil {
		t.Fatal(err)
	}

	if !waitFor(t, func() bool { return state.CurrentSlide().ID == "ext" }) {
		t.Fatalf("External edit was not reloaded, slides: %+v", state.Slides())
	}
}

func TestDeckReloader_SanitizedKey(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		fileName string
	}{
		{"slash", "team/deck", "team_deck.json"},
		{"colon", "deck:main", "deck_main.json"},
		{"leading dot", ".deck", "deck.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			fileStore := store.NewFileStore(dir)
			state := deck.New(deck.Options{Storage: fileStore, Key: tt.key, SaveDelay: time.Hour})
			defer state.Close()

			path := filepath.Join(dir, tt.fileName)
			if fileStore.PathFor(tt.key) != path {
				t.Fatalf("PathFor = %q, want %q", fileStore.PathFor(tt.key), path)
			}
			external := `{"slides":[{"id":"ext","title":"From disk","html":"<p>edited</p>"}]}`
			if err := os.WriteFile(path, []byte(external), 0644); err != nil {
				t.Fatal(err)
			}

			fw := &FileWatcher{files: fileStore}
			change, ok := fw.classifyChange(fsnotify.Event{Name: path, Op: fsnotify.Write})
			if !ok {
				t.Fatal("expected change to be recognized")
			}
			deckReloader(NewHandler(state, model.DefaultConfig()), fileStore).OnFileChange(change)

			if state.CurrentSlide().ID != "ext" {
				t.Errorf("External edit was not reloaded, slides: %+v", state.Slides())
			}
		})
	}
}

func TestDeckReloader_IgnoresOtherDecks(t *testing.T) {
	dir := t.TempDir()
	fileStore := store.NewFileStore(dir)
	state := deck.New(deck.Options{Storage: fileStore, Key: "talk", SaveDelay: time.Hour})
	defer state.Close()
	before := state.CurrentSlide().ID

	other := `{"slides":[{"id":"other","title":"Other","html":"<p>x</p>"}]}`
	if err := fileStore.Set("talk_notes", other); err != nil {
		t.Fatal(err)
	}
	deckReloader(NewHandler(state, model.DefaultConfig()), fileStore).OnFileChange(FileChange{
		Type: FileChangeModified,
		Key:  "talk_notes",
		Path: fileStore.PathFor("talk_notes"),
	})

	if state.CurrentSlide().ID != before {
		t.Errorf("Unrelated blob was loaded: %+v", state.CurrentSlide())
	}
}
