package engine

// ClockListener receives timeslot phase callbacks. Initialize fires once,
// on the first TimeslotUpdate; EndOfTimeslot fires before the clock moves,
// BeginOfTimeslot after. All callbacks run synchronously on the event
// thread.
type ClockListener interface {
	Initialize(firstTimeslot int)
	EndOfTimeslot(timeslot int)
	BeginOfTimeslot(timeslot int)
}

// TimeslotClock tracks the current simulation timeslot. The simulator
// emits two pre-game TimeslotUpdates before real activity: the first one
// initializes the clock, the second and onward drive summarization.
// The current index never decreases.
type TimeslotClock struct {
	deactivateAhead int
	current         int
	first           int
	initialized     bool
	listeners       []ClockListener
}

// NewTimeslotClock creates a clock. deactivateAhead is the competition's
// deactivateTimeslotsAhead parameter, used to translate firstEnabled
// indices into current-timeslot indices.
func NewTimeslotClock(deactivateAhead int) *TimeslotClock {
	return &TimeslotClock{
		deactivateAhead: deactivateAhead,
		current:         -1,
		first:           -1,
	}
}

// AddListener registers a phase listener. Listeners fire in registration
// order.
func (c *TimeslotClock) AddListener(l ClockListener) {
	c.listeners = append(c.listeners, l)
}

// OnTimeslotUpdate advances the clock from a TimeslotUpdate event.
// A repeated update with the same index is a no-op, so a stream restart
// before the first summarization never produces duplicate rows.
func (c *TimeslotClock) OnTimeslotUpdate(firstEnabled int) {
	tsIndex := firstEnabled - c.deactivateAhead
	if !c.initialized {
		c.initialized = true
		c.first = tsIndex
		c.current = tsIndex
		for _, l := range c.listeners {
			l.Initialize(tsIndex)
		}
		return
	}
	if tsIndex <= c.current {
		return
	}
	for _, l := range c.listeners {
		l.EndOfTimeslot(c.current)
	}
	c.current = tsIndex
	for _, l := range c.listeners {
		l.BeginOfTimeslot(c.current)
	}
}

// Current returns the current timeslot index, or -1 before initialization.
func (c *TimeslotClock) Current() int {
	return c.current
}

// FirstTimeslot returns the index the clock initialized at.
func (c *TimeslotClock) FirstTimeslot() int {
	return c.first
}

// Initialized reports whether the first TimeslotUpdate has been seen.
func (c *TimeslotClock) Initialized() bool {
	return c.initialized
}
