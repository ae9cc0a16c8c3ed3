package deck

import (
	"log"

	wserr "github.com/amterp/webslide/internal/errors"
)

// StorageKey returns the key the deck is persisted under.
func (s *State) StorageKey() string {
	return s.key
}

// SaveToStorage writes the deck to storage now. Failures are logged and
// reported as false; in-memory state is unaffected either way.
func (s *State) SaveToStorage() bool {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	text, err := Encode(s.snapshotLocked())
	wasDirty := s.dirty
	s.dirty = false
	s.mu.Unlock()

	if err != nil {
		log.Printf("deck: save: %v", err)
		s.markDirty(wasDirty)
		return false
	}

	// Recorded before the write so a watcher that fires mid-rename still
	// recognizes the blob as ours.
	previous := s.lastPersisted
	s.lastPersisted = text
	if err := s.storage.Set(s.key, text); err != nil {
		s.lastPersisted = previous
		log.Printf("deck: save to %q failed: %v", s.key, err)
		s.markDirty(wasDirty)
		return false
	}
	return true
}

// LoadFromStorage replaces the deck with the stored one, keeping the cursor
// where it was when still in range. It notifies presentation-loaded but does
// not schedule a save. Returns false, leaving state untouched, when nothing
// is stored or the stored blob is invalid.
func (s *State) LoadFromStorage() bool {
	s.saveMu.Lock()
	text, err := s.storage.Get(s.key)
	if err != nil {
		s.saveMu.Unlock()
		if !wserr.IsNotFound(err) {
			log.Printf("deck: load from %q failed: %v", s.key, err)
		}
		return false
	}
	ok := s.loadLocked(text)
	s.saveMu.Unlock()

	s.emit()
	return ok
}

// ReloadIfChanged reloads the deck if storage holds something other than
// what this State last wrote. It is meant for file watchers reacting to
// external edits; the State's own writes are ignored. A reload discards any
// pending unsaved change.
func (s *State) ReloadIfChanged() bool {
	s.saveMu.Lock()
	text, err := s.storage.Get(s.key)
	if err != nil {
		s.saveMu.Unlock()
		if !wserr.IsNotFound(err) {
			log.Printf("deck: reload from %q failed: %v", s.key, err)
		}
		return false
	}
	if text == s.lastPersisted {
		s.saveMu.Unlock()
		return false
	}
	ok := s.loadLocked(text)
	s.saveMu.Unlock()

	s.emit()
	return ok
}

// loadLocked installs a stored blob and queues presentation-loaded. Caller
// holds saveMu and emits after releasing it, so observers may save or reload.
func (s *State) loadLocked(text string) bool {
	s.mu.Lock()
	p, err := Decode(text, s.stamp())
	if err != nil {
		s.mu.Unlock()
		log.Printf("deck: stored presentation under %q is invalid: %v", s.key, err)
		return false
	}

	s.installLocked(p, s.current)
	s.cancelSaveLocked()
	s.dirty = false
	s.pending = append(s.pending, Event{Type: EventPresentationLoaded, SlideCount: len(p.Slides)})
	s.mu.Unlock()

	s.lastPersisted = text
	return true
}

// ClearStorage removes the persisted deck and cancels any pending save.
// The in-memory deck is kept.
func (s *State) ClearStorage() bool {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	s.cancelSaveLocked()
	s.dirty = false
	s.mu.Unlock()

	if err := s.storage.Remove(s.key); err != nil {
		log.Printf("deck: clear %q failed: %v", s.key, err)
		return false
	}
	s.lastPersisted = ""
	return true
}

// ForceSave cancels any pending deferred save and saves immediately.
func (s *State) ForceSave() bool {
	s.mu.Lock()
	s.cancelSaveLocked()
	s.mu.Unlock()

	return s.SaveToStorage()
}

// Close cancels the pending save timer and, if there are unsaved changes,
// saves one last time. Mutations after Close are kept in memory only.
func (s *State) Close() bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return true
	}
	s.closed = true
	s.cancelSaveLocked()
	dirty := s.dirty
	s.mu.Unlock()

	if !dirty {
		return true
	}
	return s.SaveToStorage()
}

// Pending reports whether a deferred save is scheduled.
func (s *State) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer != nil
}

func (s *State) scheduleSaveLocked() {
	s.dirty = true
	if s.closed {
		return
	}
	s.cancelSaveLocked()
	gen := s.saveGen
	s.timer = s.clock.AfterFunc(s.delay, func() { s.fire(gen) })
}

func (s *State) cancelSaveLocked() {
	s.saveGen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *State) fire(gen uint64) {
	s.mu.Lock()
	if gen != s.saveGen || s.closed {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.mu.Unlock()

	s.SaveToStorage()
}

func (s *State) markDirty(wasDirty bool) {
	if !wasDirty {
		return
	}
	s.mu.Lock()
	s.dirty = true
	s.mu.Unlock()
}
