package infra

import (
	"sync/atomic"
	"time"
)

// Metrics provides lightweight observability without external dependencies.
// Uses atomic operations for thread-safety.
type Metrics struct {
	// Counters
	eventsProcessed atomic.Uint64
	rowsWritten     atomic.Uint64
	decodeErrors    atomic.Uint64

	// Anomaly counters. None of these abort the run.
	droppedTargets    atomic.Uint64
	unknownBrokers    atomic.Uint64
	missingOrderbooks atomic.Uint64
	emptyBookSides    atomic.Uint64
	exhaustedWalks    atomic.Uint64
}

// NewMetrics creates a zeroed metrics instance.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RecordEvent records one dispatched event.
func (m *Metrics) RecordEvent() {
	m.eventsProcessed.Add(1)
}

// RecordRow records one emitted summary row.
func (m *Metrics) RecordRow() {
	m.rowsWritten.Add(1)
}

// RecordDecodeError records an undecodable input record.
func (m *Metrics) RecordDecodeError() {
	m.decodeErrors.Add(1)
}

// RecordDroppedTarget records a market transaction whose target timeslot
// fell outside the ring window.
func (m *Metrics) RecordDroppedTarget() {
	m.droppedTargets.Add(1)
}

// RecordUnknownBroker records a transaction from a non-retail participant.
func (m *Metrics) RecordUnknownBroker() {
	m.unknownBrokers.Add(1)
}

// RecordMissingOrderbook records a summarization with no book captured.
func (m *Metrics) RecordMissingOrderbook() {
	m.missingOrderbooks.Add(1)
}

// RecordEmptyBookSide records a book with nothing on the side needed.
func (m *Metrics) RecordEmptyBookSide() {
	m.emptyBookSides.Add(1)
}

// RecordExhaustedWalk records a book walk that ran out of orders before
// the imbalance was covered.
func (m *Metrics) RecordExhaustedWalk() {
	m.exhaustedWalks.Add(1)
}

// MetricsSnapshot is a point-in-time view of all metrics.
type MetricsSnapshot struct {
	EventsProcessed   uint64
	RowsWritten       uint64
	DecodeErrors      uint64
	DroppedTargets    uint64
	UnknownBrokers    uint64
	MissingOrderbooks uint64
	EmptyBookSides    uint64
	ExhaustedWalks    uint64
	Timestamp         time.Time
}

// Snapshot returns current metrics as a snapshot.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		EventsProcessed:   m.eventsProcessed.Load(),
		RowsWritten:       m.rowsWritten.Load(),
		DecodeErrors:      m.decodeErrors.Load(),
		DroppedTargets:    m.droppedTargets.Load(),
		UnknownBrokers:    m.unknownBrokers.Load(),
		MissingOrderbooks: m.missingOrderbooks.Load(),
		EmptyBookSides:    m.emptyBookSides.Load(),
		ExhaustedWalks:    m.exhaustedWalks.Load(),
		Timestamp:         time.Now(),
	}
}

// Reset clears all metrics (for testing).
func (m *Metrics) Reset() {
	m.eventsProcessed.Store(0)
	m.rowsWritten.Store(0)
	m.decodeErrors.Store(0)
	m.droppedTargets.Store(0)
	m.unknownBrokers.Store(0)
	m.missingOrderbooks.Store(0)
	m.emptyBookSides.Store(0)
	m.exhaustedWalks.Store(0)
}
