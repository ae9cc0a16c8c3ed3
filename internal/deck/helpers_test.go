package deck

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/amterp/webslide/internal/store"
)

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Time
	f       func()
	stopped bool
	fired   bool
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.UnixMilli(1767225600000)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves time forward and runs every timer that came due.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && !t.at.After(c.now) {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	for _, t := range due {
		t.f()
	}
}

// Set jumps the clock to t without firing timers.
func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

// Active counts timers that are neither stopped nor fired.
func (c *fakeClock) Active() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// countingStore records writes and can be made to fail.
type countingStore struct {
	*store.MemoryStore
	mu      sync.Mutex
	sets    int
	failSet error
}

func newCountingStore() *countingStore {
	return &countingStore{MemoryStore: store.NewMemoryStore()}
}

func (s *countingStore) Set(key, value string) error {
	s.mu.Lock()
	s.sets++
	fail := s.failSet
	s.mu.Unlock()
	if fail != nil {
		return fail
	}
	return s.MemoryStore.Set(key, value)
}

func (s *countingStore) Sets() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sets
}

var errDiskFull = errors.New("disk full")

func seqIDs() IDGenerator {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("s%d", n)
	}
}

const testDelay = 30 * time.Second

func newTestState(t *testing.T) (*State, *fakeClock, *countingStore) {
	t.Helper()
	clock := newFakeClock()
	kv := newCountingStore()
	s := New(Options{
		Storage:   kv,
		Key:       "test_deck",
		SaveDelay: testDelay,
		Clock:     clock,
		NewID:     seqIDs(),
	})
	return s, clock, kv
}

// recorder collects events.
type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) OnDeckEvent(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *recorder) Types() []EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]EventType, len(r.events))
	for i, e := range r.events {
		types[i] = e.Type
	}
	return types
}

func (r *recorder) Last() Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return Event{}
	}
	return r.events[len(r.events)-1]
}

func strPtr(s string) *string {
	return &s
}

func slideIDs(s *State) []string {
	var ids []string
	for _, sl := range s.Slides() {
		ids = append(ids, sl.ID)
	}
	return ids
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
