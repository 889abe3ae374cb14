package object

import (
	"sync"

	"github.com/nativekit/objshim/gtype"
)

// EventKind identifies an object lifecycle transition.
type EventKind uint8

const (
	EventCreated EventKind = iota
	EventSunk
	EventFinalized
	EventDisowned
)

// String returns the lowercase event name.
func (k EventKind) String() string {
	switch k {
	case EventCreated:
		return "created"
	case EventSunk:
		return "sunk"
	case EventFinalized:
		return "finalized"
	case EventDisowned:
		return "disowned"
	}
	return "unknown"
}

// Event describes an object lifecycle event.
type Event struct {
	Object   *Object
	Type     gtype.Type
	Kind     EventKind
	RefCount int32
}

// Observer receives notifications about object lifecycle events.
type Observer interface {
	OnObjectEvent(Event)
}

var (
	obsMu     sync.RWMutex
	observers []Observer
)

// Subscribe adds a process-wide lifecycle observer.
func Subscribe(o Observer) {
	obsMu.Lock()
	defer obsMu.Unlock()
	observers = append(observers, o)
}

// Unsubscribe removes an observer.
func Unsubscribe(o Observer) {
	obsMu.Lock()
	defer obsMu.Unlock()
	for i, obs := range observers {
		if obs == o {
			observers = append(observers[:i], observers[i+1:]...)
			return
		}
	}
}

// NotifyDisowned publishes a disown event for an object this module stops
// tracking. It performs no ownership change; see shim.Finalizer.Disown.
func NotifyDisowned(o *Object) {
	notify(Event{Kind: EventDisowned, Object: o, Type: o.tag, RefCount: int32(o.RefCount())})
}

func notify(e Event) {
	obsMu.RLock()
	defer obsMu.RUnlock()
	for _, o := range observers {
		o.OnObjectEvent(e)
	}
}
