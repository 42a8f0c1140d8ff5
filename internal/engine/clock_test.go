package engine

import (
	"testing"
)

// phaseRecorder collects clock callbacks in firing order.
type phaseRecorder struct {
	inits  []int
	ends   []int
	begins []int
}

func (r *phaseRecorder) Initialize(ts int)    { r.inits = append(r.inits, ts) }
func (r *phaseRecorder) EndOfTimeslot(ts int) { r.ends = append(r.ends, ts) }
func (r *phaseRecorder) BeginOfTimeslot(ts int) {
	r.begins = append(r.begins, ts)
}

func TestTimeslotClock_Initialize(t *testing.T) {
	rec := &phaseRecorder{}
	clock := NewTimeslotClock(3)
	clock.AddListener(rec)

	if clock.Initialized() {
		t.Error("Clock should not be initialized before the first update")
	}

	clock.OnTimeslotUpdate(363)

	if !clock.Initialized() {
		t.Error("Clock should be initialized after the first update")
	}
	if clock.Current() != 360 {
		t.Errorf("Expected current 360 (363 - 3), got %d", clock.Current())
	}
	if clock.FirstTimeslot() != 360 {
		t.Errorf("Expected first timeslot 360, got %d", clock.FirstTimeslot())
	}
	if len(rec.inits) != 1 || rec.inits[0] != 360 {
		t.Errorf("Expected one Initialize(360), got %v", rec.inits)
	}
	if len(rec.ends) != 0 || len(rec.begins) != 0 {
		t.Error("No phase callbacks expected on initialization")
	}
}

func TestTimeslotClock_Advance(t *testing.T) {
	rec := &phaseRecorder{}
	clock := NewTimeslotClock(3)
	clock.AddListener(rec)

	clock.OnTimeslotUpdate(363)
	clock.OnTimeslotUpdate(364)

	if clock.Current() != 361 {
		t.Errorf("Expected current 361, got %d", clock.Current())
	}
	if len(rec.ends) != 1 || rec.ends[0] != 360 {
		t.Errorf("Expected EndOfTimeslot(360), got %v", rec.ends)
	}
	if len(rec.begins) != 1 || rec.begins[0] != 361 {
		t.Errorf("Expected BeginOfTimeslot(361), got %v", rec.begins)
	}
}

func TestTimeslotClock_RepeatedUpdateIsNoOp(t *testing.T) {
	rec := &phaseRecorder{}
	clock := NewTimeslotClock(0)
	clock.AddListener(rec)

	clock.OnTimeslotUpdate(100)
	clock.OnTimeslotUpdate(100)
	clock.OnTimeslotUpdate(99) // never decreases

	if clock.Current() != 100 {
		t.Errorf("Expected current 100, got %d", clock.Current())
	}
	if len(rec.inits) != 1 {
		t.Errorf("Expected exactly one Initialize, got %d", len(rec.inits))
	}
	if len(rec.ends) != 0 {
		t.Errorf("Repeated or stale updates must not summarize, got %v", rec.ends)
	}
}

func TestTimeslotClock_SkippedIndices(t *testing.T) {
	rec := &phaseRecorder{}
	clock := NewTimeslotClock(0)
	clock.AddListener(rec)

	clock.OnTimeslotUpdate(10)
	clock.OnTimeslotUpdate(13)

	// One EndOfTimeslot for the slot that was current, not one per index.
	if len(rec.ends) != 1 || rec.ends[0] != 10 {
		t.Errorf("Expected EndOfTimeslot(10), got %v", rec.ends)
	}
	if clock.Current() != 13 {
		t.Errorf("Expected current 13, got %d", clock.Current())
	}
}
