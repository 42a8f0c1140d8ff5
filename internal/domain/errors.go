package domain

import "errors"

// Sentinel errors for the anomaly taxonomy. None of these abort the run:
// the engine records them, keeps the output well-formed, and continues
// draining events.
var (
	// ErrMissingOrderbook is returned when no order book was captured for
	// the timeslot being summarized.
	ErrMissingOrderbook = errors.New("no orderbook for timeslot")

	// ErrEmptyBookSide is returned when the side needed to price an
	// imbalance has no orders (no asks for a shortage, no bids for a surplus).
	ErrEmptyBookSide = errors.New("orderbook side is empty")

	// ErrBookExhausted is returned when a book walk runs out of orders
	// before the residual imbalance is covered. The price observed so far
	// is still usable.
	ErrBookExhausted = errors.New("orderbook exhausted before imbalance covered")

	// ErrTargetOutOfRange is returned when a market transaction targets a
	// timeslot outside the open trading window.
	ErrTargetOutOfRange = errors.New("target timeslot outside ring window")

	// ErrUnknownBroker is returned for transactions from participants that
	// are not retail brokers. Expected for wholesale entities.
	ErrUnknownBroker = errors.New("broker not in registry")

	// ErrOutputUnavailable is returned when the output sink cannot be opened.
	ErrOutputUnavailable = errors.New("output unavailable")
)
