package engine

import (
	"github.com/poragchowdhury/logtool/internal/event"
)

// Handler consumes one decoded event. Handlers run synchronously on the
// event thread; a handler completes before the next event is dispatched.
type Handler func(event.Event)

// Dispatcher routes each event to the handlers registered for its kind,
// in registration order. Events with no registered handler are ignored.
// No back-pressure, single-threaded.
type Dispatcher struct {
	handlers map[event.Kind][]Handler
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		handlers: make(map[event.Kind][]Handler),
	}
}

// Register adds a handler for an event kind.
func (d *Dispatcher) Register(kind event.Kind, h Handler) {
	d.handlers[kind] = append(d.handlers[kind], h)
}

// Emit invokes every handler registered for the event's kind.
func (d *Dispatcher) Emit(ev event.Event) {
	for _, h := range d.handlers[ev.EventKind()] {
		h(ev)
	}
}
