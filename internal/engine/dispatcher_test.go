package engine

import (
	"testing"

	"github.com/poragchowdhury/logtool/internal/event"
)

func TestDispatcher_RoutesByKind(t *testing.T) {
	d := NewDispatcher()

	var got []string
	d.Register(event.KindSimStart, func(event.Event) { got = append(got, "start") })
	d.Register(event.KindSimEnd, func(event.Event) { got = append(got, "end") })

	d.Emit(&event.SimStart{})
	d.Emit(&event.SimEnd{})
	d.Emit(&event.SimStart{})

	want := []string{"start", "end", "start"}
	if len(got) != len(want) {
		t.Fatalf("Expected %d calls, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Call %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestDispatcher_RegistrationOrder(t *testing.T) {
	d := NewDispatcher()

	var got []int
	d.Register(event.KindSimStart, func(event.Event) { got = append(got, 1) })
	d.Register(event.KindSimStart, func(event.Event) { got = append(got, 2) })

	d.Emit(&event.SimStart{})

	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("Handlers should fire in registration order, got %v", got)
	}
}

func TestDispatcher_UnknownKindIgnored(t *testing.T) {
	d := NewDispatcher()
	// No handler registered; must not panic.
	d.Emit(&event.SimEnd{})
}
