package engine

import (
	"github.com/poragchowdhury/logtool/internal/domain"
)

// OrderBookStore retains the order book for the current timeslot, a
// single-step pending book for the next, and the book that was current
// in the previous timeslot (for the use-prev-book compatibility mode).
// Books are replaced atomically per tick, never merged.
type OrderBookStore struct {
	current     *domain.OrderBook
	pendingNext *domain.OrderBook
	prev        *domain.OrderBook
}

// NewOrderBookStore creates an empty store.
func NewOrderBookStore() *OrderBookStore {
	return &OrderBookStore{}
}

// Observe files an incoming book. A book for the current timeslot
// becomes the current book; a book for current+1 is held pending.
// Books for any other timeslot are ignored.
func (s *OrderBookStore) Observe(book *domain.OrderBook, current int) {
	switch book.TimeslotIndex {
	case current:
		s.current = book
	case current + 1:
		s.pendingNext = book
	}
}

// Current returns the book for the current timeslot, or nil.
func (s *OrderBookStore) Current() *domain.OrderBook {
	return s.current
}

// Previous returns the book that was current before the last Advance,
// or nil.
func (s *OrderBookStore) Previous() *domain.OrderBook {
	return s.prev
}

// Advance pushes the queue at end-of-timeslot: the current book becomes
// the previous one, the pending book becomes current.
func (s *OrderBookStore) Advance() {
	s.prev = s.current
	s.current = s.pendingNext
	s.pendingNext = nil
}
