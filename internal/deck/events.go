package deck

import (
	"fmt"
	"log"

	"github.com/amterp/webslide/internal/model"
)

// EventType tags a change notification.
type EventType string

const (
	EventSlideAdded         EventType = "slide-added"
	EventSlideDeleted       EventType = "slide-deleted"
	EventSlideUpdated       EventType = "slide-updated"
	EventSlideSelected      EventType = "slide-selected"
	EventPresentationLoaded EventType = "presentation-loaded"
)

// Event describes one successful mutation. Which fields are set depends on Type:
//   - slide-added, slide-deleted: Slide and Index
//   - slide-updated: Index and Fields
//   - slide-selected: Index
//   - presentation-loaded: SlideCount
type Event struct {
	Type       EventType    `json:"type"`
	Index      int          `json:"index"`
	Slide      *model.Slide `json:"slide,omitempty"`
	Fields     []string     `json:"fields,omitempty"`
	SlideCount int          `json:"slideCount,omitempty"`
}

func (e Event) String() string {
	switch e.Type {
	case EventSlideUpdated:
		return fmt.Sprintf("%s index=%d fields=%v", e.Type, e.Index, e.Fields)
	case EventPresentationLoaded:
		return fmt.Sprintf("%s slides=%d", e.Type, e.SlideCount)
	}
	return fmt.Sprintf("%s index=%d", e.Type, e.Index)
}

// Observer receives change notifications from a State.
// Observers run synchronously on the goroutine that made the change and may
// call back into the State. When another goroutine is already delivering
// events, a change is queued and delivered by that goroutine instead, so the
// mutator can return before its observers have run. Delivery order always
// matches the order of the changes.
type Observer interface {
	OnDeckEvent(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

func (f ObserverFunc) OnDeckEvent(e Event) { f(e) }

type subscription struct {
	id       int
	observer Observer
}

// safeCall notifies one observer, recovering from panics so the rest of the
// fan-out still runs.
func safeCall(o Observer, e Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("deck: observer panicked on %s: %v", e.Type, r)
		}
	}()
	o.OnDeckEvent(e)
}
