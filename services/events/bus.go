// Package events is a small in-process publish/subscribe bus. The
// composition root owns the instance and wires preference changes to cache
// invalidation; nothing in here is global.
package events

import "sync"

// Event names emitted by the preference handlers.
const (
	RegionChanged    = "region-changed"
	ProvidersChanged = "providers-changed"
)

// Event carries a name and an optional payload (the new region code, the
// provider id string, ...).
type Event struct {
	Name    string
	Payload string
}

type Handler func(Event)

// Bus dispatches events to subscribers synchronously, in subscription
// order. Emit never blocks on slow subscribers longer than the handlers
// themselves take.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[string][]subscription
}

type subscription struct {
	id      int
	handler Handler
}

func NewBus() *Bus {
	return &Bus{subs: make(map[string][]subscription)}
}

// Subscribe registers a handler for the named event and returns a function
// that removes it.
func (b *Bus) Subscribe(name string, h Handler) (unsubscribe func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[name] = append(b.subs[name], subscription{id: id, handler: h})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		subs := b.subs[name]
		for i, s := range subs {
			if s.id == id {
				b.subs[name] = append(subs[:i:i], subs[i+1:]...)
				break
			}
		}
	}
}

// Emit delivers the event to every current subscriber of its name.
func (b *Bus) Emit(e Event) {
	b.mu.Lock()
	subs := append([]subscription(nil), b.subs[e.Name]...)
	b.mu.Unlock()

	for _, s := range subs {
		s.handler(e)
	}
}
