package deck

import (
	"log"
	"strings"
	"sync"
	"time"

	"github.com/amterp/webslide/internal/id"
	"github.com/amterp/webslide/internal/model"
	"github.com/amterp/webslide/internal/store"
	"github.com/amterp/webslide/internal/version"
)

// DefaultSaveDelay is how long a State waits after the last mutation before
// persisting.
const DefaultSaveDelay = time.Duration(model.DefaultAutosaveMillis) * time.Millisecond

// IDGenerator produces unique slide identifiers.
type IDGenerator func() string

// Options configures a State. Zero values select the defaults.
type Options struct {
	Storage   store.KeyValueStore // defaults to an in-memory store
	Key       string              // defaults to model.DefaultStorageKey
	SaveDelay time.Duration       // defaults to DefaultSaveDelay
	Clock     Clock               // defaults to SystemClock
	NewID     IDGenerator         // defaults to id.Generate
}

// State owns a deck: the ordered slides, the cursor, and the metadata.
// It guarantees there is always at least one slide and that the cursor
// always points at one of them.
//
// All methods are safe for concurrent use. Accessors return copies.
type State struct {
	mu        sync.Mutex
	slides    []model.Slide
	current   int
	meta      model.Metadata
	lastStamp int64

	subs      []subscription
	nextSubID int
	pending   []Event
	draining  bool

	storage store.KeyValueStore
	key     string
	delay   time.Duration
	clock   Clock
	newID   IDGenerator

	// Debounced save. saveGen invalidates timers that fired after being
	// superseded.
	timer   Timer
	saveGen uint64
	dirty   bool
	closed  bool

	// saveMu serializes storage writes and reloads. Lock order: saveMu, then mu.
	saveMu        sync.Mutex
	lastPersisted string
}

// New creates a State and restores it from storage. If nothing usable is
// stored the deck starts with a single empty slide.
func New(opts Options) *State {
	if opts.Storage == nil {
		opts.Storage = store.NewMemoryStore()
	}
	if opts.Key == "" {
		opts.Key = model.DefaultStorageKey
	}
	if opts.SaveDelay <= 0 {
		opts.SaveDelay = DefaultSaveDelay
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock{}
	}
	if opts.NewID == nil {
		opts.NewID = id.Generate
	}

	s := &State{
		storage: opts.Storage,
		key:     opts.Key,
		delay:   opts.SaveDelay,
		clock:   opts.Clock,
		newID:   opts.NewID,
	}

	s.mu.Lock()
	now := s.stamp()
	s.meta = model.Metadata{Version: version.CurrentDeckFormat, CreatedAt: now, UpdatedAt: now}
	s.slides = []model.Slide{s.blankSlide(1, now)}
	s.mu.Unlock()

	s.LoadFromStorage()
	return s
}

// Subscribe registers o for change notifications. The returned function
// removes the registration; calling it more than once is harmless.
func (s *State) Subscribe(o Observer) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSubID++
	subID := s.nextSubID
	s.subs = append(s.subs, subscription{id: subID, observer: o})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == subID {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// AddSlide appends an empty slide titled by position and makes it current.
func (s *State) AddSlide() model.Slide {
	s.mu.Lock()
	now := s.stamp()
	slide := s.blankSlide(len(s.slides)+1, now)
	s.slides = append(s.slides, slide)
	s.current = len(s.slides) - 1
	s.meta.UpdatedAt = now
	s.changedLocked(Event{Type: EventSlideAdded, Slide: slidePtr(slide), Index: s.current})
	s.mu.Unlock()

	s.emit()
	return slide
}

// DeleteSlide removes the slide at index. It refuses to remove the last
// remaining slide. A cursor left past the end is clamped to the new last slide.
func (s *State) DeleteSlide(index int) bool {
	s.mu.Lock()
	if !s.inBoundsLocked(index) {
		n := len(s.slides)
		s.mu.Unlock()
		log.Printf("deck: delete: index %d out of range (%d slides)", index, n)
		return false
	}
	if len(s.slides) == 1 {
		s.mu.Unlock()
		log.Printf("deck: delete: refusing to remove the last slide")
		return false
	}

	removed := s.slides[index]
	s.slides = append(s.slides[:index:index], s.slides[index+1:]...)
	if s.current >= len(s.slides) {
		s.current = len(s.slides) - 1
	}
	s.meta.UpdatedAt = s.stamp()
	s.changedLocked(Event{Type: EventSlideDeleted, Slide: slidePtr(removed), Index: index})
	s.mu.Unlock()

	s.emit()
	return true
}

// UpdateSlide merges the set fields of u into the slide at index and stamps
// its updatedAt. An update with no fields set still stamps the slide. A blank
// title becomes the positional default, as it would on the next load.
func (s *State) UpdateSlide(index int, u model.SlideUpdate) bool {
	s.mu.Lock()
	if !s.inBoundsLocked(index) {
		n := len(s.slides)
		s.mu.Unlock()
		log.Printf("deck: update: index %d out of range (%d slides)", index, n)
		return false
	}

	now := s.stamp()
	u.Apply(&s.slides[index])
	if strings.TrimSpace(s.slides[index].Title) == "" {
		s.slides[index].Title = model.DefaultSlideTitle(index + 1)
	}
	s.slides[index].UpdatedAt = now
	s.meta.UpdatedAt = now
	s.changedLocked(Event{Type: EventSlideUpdated, Index: index, Fields: u.FieldNames()})
	s.mu.Unlock()

	s.emit()
	return true
}

// SetCurrentSlide moves the cursor to index.
func (s *State) SetCurrentSlide(index int) bool {
	s.mu.Lock()
	if !s.inBoundsLocked(index) {
		n := len(s.slides)
		s.mu.Unlock()
		log.Printf("deck: select: index %d out of range (%d slides)", index, n)
		return false
	}
	s.current = index
	s.changedLocked(Event{Type: EventSlideSelected, Index: index})
	s.mu.Unlock()

	s.emit()
	return true
}

// NextSlide advances the cursor. It returns false on the last slide.
func (s *State) NextSlide() bool {
	return s.step(1)
}

// PreviousSlide moves the cursor back. It returns false on the first slide.
func (s *State) PreviousSlide() bool {
	return s.step(-1)
}

func (s *State) step(delta int) bool {
	s.mu.Lock()
	target := s.current + delta
	if !s.inBoundsLocked(target) {
		s.mu.Unlock()
		return false
	}
	s.current = target
	s.changedLocked(Event{Type: EventSlideSelected, Index: target})
	s.mu.Unlock()

	s.emit()
	return true
}

// DuplicateSlide inserts a copy of the slide at index right after it and
// makes the copy current. The copy gets a fresh id and timestamps.
func (s *State) DuplicateSlide(index int) (model.Slide, bool) {
	s.mu.Lock()
	if !s.inBoundsLocked(index) {
		n := len(s.slides)
		s.mu.Unlock()
		log.Printf("deck: duplicate: index %d out of range (%d slides)", index, n)
		return model.Slide{}, false
	}

	now := s.stamp()
	dup := s.slides[index]
	dup.ID = s.newID()
	dup.Title = model.CopyTitle(dup.Title)
	dup.CreatedAt = now
	dup.UpdatedAt = now

	at := index + 1
	s.slides = append(s.slides, model.Slide{})
	copy(s.slides[at+1:], s.slides[at:])
	s.slides[at] = dup
	s.current = at
	s.meta.UpdatedAt = now
	s.changedLocked(Event{Type: EventSlideAdded, Slide: slidePtr(dup), Index: at})
	s.mu.Unlock()

	s.emit()
	return dup, true
}

// ExportPresentation serializes the deck, refreshing metadata.updatedAt.
func (s *State) ExportPresentation() (string, error) {
	s.mu.Lock()
	s.meta.UpdatedAt = s.stamp()
	p := s.snapshotLocked()
	s.mu.Unlock()

	return Encode(p)
}

// ImportPresentation replaces the whole deck with the serialized one and
// resets the cursor to the first slide. On any validation failure the
// current deck is left untouched.
func (s *State) ImportPresentation(text string) bool {
	s.mu.Lock()
	p, err := Decode(text, s.stamp())
	if err != nil {
		s.mu.Unlock()
		log.Printf("deck: import failed: %v", err)
		return false
	}

	s.installLocked(p, 0)
	s.changedLocked(Event{Type: EventPresentationLoaded, SlideCount: len(p.Slides)})
	s.mu.Unlock()

	s.emit()
	return true
}

// Slides returns a copy of the slide sequence.
func (s *State) Slides() []model.Slide {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Slide(nil), s.slides...)
}

// Len returns the number of slides. It is always at least one.
func (s *State) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.slides)
}

// CurrentIndex returns the 0-based cursor.
func (s *State) CurrentIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// CurrentSlide returns the slide under the cursor.
func (s *State) CurrentSlide() model.Slide {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slides[s.current]
}

// SetMetadata merges u into the deck metadata and schedules a save. No
// change event is emitted; observers read metadata from snapshots.
func (s *State) SetMetadata(u model.MetadataUpdate) {
	s.mu.Lock()
	u.Apply(&s.meta)
	s.meta.UpdatedAt = s.stamp()
	s.scheduleSaveLocked()
	s.mu.Unlock()
}

// Slide returns the slide at index, or false if index is out of range.
func (s *State) Slide(index int) (model.Slide, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.inBoundsLocked(index) {
		return model.Slide{}, false
	}
	return s.slides[index], true
}

// Metadata returns the deck metadata.
func (s *State) Metadata() model.Metadata {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.meta
}

// Snapshot returns a consistent copy of the whole deck, cursor included.
func (s *State) Snapshot() model.Presentation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *State) snapshotLocked() model.Presentation {
	return model.Presentation{
		Metadata:          s.meta,
		Slides:            append([]model.Slide(nil), s.slides...),
		CurrentSlideIndex: s.current,
	}
}

func (s *State) inBoundsLocked(index int) bool {
	return index >= 0 && index < len(s.slides)
}

func (s *State) blankSlide(position int, now int64) model.Slide {
	return model.Slide{
		ID:        s.newID(),
		Title:     model.DefaultSlideTitle(position),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// installLocked replaces the deck with p and clamps cursor into range.
func (s *State) installLocked(p model.Presentation, cursor int) {
	s.slides = append([]model.Slide(nil), p.Slides...)
	s.meta = p.Metadata
	if cursor >= len(s.slides) {
		cursor = len(s.slides) - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	s.current = cursor
}

// stamp returns the clock time in Unix milliseconds, never earlier than a
// previously issued stamp.
func (s *State) stamp() int64 {
	now := s.clock.Now().UnixMilli()
	if now < s.lastStamp {
		now = s.lastStamp
	}
	s.lastStamp = now
	return now
}

// changedLocked queues e for delivery and schedules a deferred save.
func (s *State) changedLocked(e Event) {
	s.pending = append(s.pending, e)
	s.scheduleSaveLocked()
}

// emit delivers queued events in order. Only one goroutine drains at a time;
// events queued by observers during delivery are picked up by the same loop.
func (s *State) emit() {
	s.mu.Lock()
	if s.draining {
		s.mu.Unlock()
		return
	}
	s.draining = true
	for len(s.pending) > 0 {
		e := s.pending[0]
		s.pending = s.pending[1:]
		subs := append([]subscription(nil), s.subs...)
		s.mu.Unlock()

		for _, sub := range subs {
			safeCall(sub.observer, e)
		}

		s.mu.Lock()
	}
	s.pending = nil
	s.draining = false
	s.mu.Unlock()
}

func slidePtr(sl model.Slide) *model.Slide {
	return &sl
}
