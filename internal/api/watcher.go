package api

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/amterp/webslide/internal/store"
)

// FileChangeType indicates what type of change occurred.
type FileChangeType string

const (
	FileChangeCreated  FileChangeType = "created"
	FileChangeModified FileChangeType = "modified"
	FileChangeDeleted  FileChangeType = "deleted"
)

// FileChange represents a change to a stored deck blob.
type FileChange struct {
	Type FileChangeType `json:"type"`
	Key  string         `json:"key"`  // File key, the file name without .json
	Path string         `json:"path"` // Absolute path of the changed file
}

// FileWatcherSubscriber receives file change notifications.
type FileWatcherSubscriber interface {
	OnFileChange(change FileChange)
}

// FileWatcherFunc adapts a function to FileWatcherSubscriber.
type FileWatcherFunc func(FileChange)

func (f FileWatcherFunc) OnFileChange(change FileChange) { f(change) }

// debounceDelay coalesces the burst of events a single save produces.
const debounceDelay = 100 * time.Millisecond

// FileWatcher watches the deck directory of the file backend and notifies
// subscribers when a deck blob changes on disk.
type FileWatcher struct {
	watcher     *fsnotify.Watcher
	files       *store.FileStore
	dir         string
	mu          sync.RWMutex
	subscribers []FileWatcherSubscriber
	debounce    map[string]*time.Timer
	debounceMu  sync.Mutex
	stopCh      chan struct{}
	stopped     bool // Once stopped, cannot restart
	running     bool
}

// NewFileWatcher creates a new file watcher for the directory files writes to.
func NewFileWatcher(files *store.FileStore) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	fw := &FileWatcher{
		watcher:  watcher,
		files:    files,
		dir:      filepath.Clean(files.Dir()),
		debounce: make(map[string]*time.Timer),
		stopCh:   make(chan struct{}),
	}

	return fw, nil
}

// Subscribe adds a subscriber to receive file change notifications.
func (fw *FileWatcher) Subscribe(sub FileWatcherSubscriber) {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	fw.subscribers = append(fw.subscribers, sub)
}

// Start begins watching. The directory is created if it doesn't exist yet.
func (fw *FileWatcher) Start() error {
	fw.mu.Lock()
	if fw.running {
		fw.mu.Unlock()
		return nil
	}
	if fw.stopped {
		fw.mu.Unlock()
		return fmt.Errorf("file watcher cannot be restarted after stop")
	}
	fw.running = true
	fw.mu.Unlock()

	if err := os.MkdirAll(fw.dir, 0755); err != nil {
		return fmt.Errorf("failed to create watched directory: %w", err)
	}
	if err := fw.watcher.Add(fw.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", fw.dir, err)
	}

	go fw.run()
	return nil
}

// Stop stops watching for changes.
func (fw *FileWatcher) Stop() error {
	fw.mu.Lock()
	if !fw.running || fw.stopped {
		fw.mu.Unlock()
		return nil
	}
	fw.running = false
	fw.stopped = true
	fw.mu.Unlock()

	// Cancel all pending debounce timers to prevent them from firing after stop
	fw.debounceMu.Lock()
	for path, timer := range fw.debounce {
		timer.Stop()
		delete(fw.debounce, path)
	}
	fw.debounceMu.Unlock()

	close(fw.stopCh)
	return fw.watcher.Close()
}

func (fw *FileWatcher) run() {
	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.handleEvent(event)

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("File watcher error: %v", err)

		case <-fw.stopCh:
			return
		}
	}
}

func (fw *FileWatcher) handleEvent(event fsnotify.Event) {
	// Skip temporary files and hidden files
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") {
		return
	}

	// Debounce: wait before emitting to coalesce rapid changes
	fw.debounceMu.Lock()
	if timer, exists := fw.debounce[event.Name]; exists {
		timer.Stop()
	}
	fw.debounce[event.Name] = time.AfterFunc(debounceDelay, func() {
		fw.emitChange(event)
		fw.debounceMu.Lock()
		delete(fw.debounce, event.Name)
		fw.debounceMu.Unlock()
	})
	fw.debounceMu.Unlock()
}

func (fw *FileWatcher) emitChange(event fsnotify.Event) {
	// Check if watcher was stopped (debounce timer may fire after Stop)
	fw.mu.RLock()
	if fw.stopped {
		fw.mu.RUnlock()
		return
	}
	subs := make([]FileWatcherSubscriber, len(fw.subscribers))
	copy(subs, fw.subscribers)
	fw.mu.RUnlock()

	change, ok := fw.classifyChange(event)
	if !ok {
		return
	}

	for _, sub := range subs {
		sub.OnFileChange(change)
	}
}

// classifyChange maps an fsnotify event to a FileChange. Only blobs the file
// store itself would write count.
func (fw *FileWatcher) classifyChange(event fsnotify.Event) (FileChange, bool) {
	key := fw.files.KeyForPath(event.Name)
	if key == "" {
		return FileChange{}, false
	}

	change := FileChange{
		Key:  key,
		Path: event.Name,
	}

	switch {
	case event.Op&fsnotify.Create != 0:
		change.Type = FileChangeCreated
	case event.Op&fsnotify.Write != 0:
		change.Type = FileChangeModified
	case event.Op&fsnotify.Remove != 0:
		change.Type = FileChangeDeleted
	case event.Op&fsnotify.Rename != 0:
		change.Type = FileChangeDeleted // Rename source is effectively deleted
	default:
		return FileChange{}, false
	}
	return change, true
}
