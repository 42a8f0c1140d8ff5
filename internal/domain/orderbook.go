package domain

import (
	"github.com/google/btree"
)

// OrderbookOrder is a single standing order. Energy is in MWh; the sign
// follows the market convention (asks may arrive negative). A nil
// LimitPrice marks a market order, which sorts ahead of every priced
// order on its side.
type OrderbookOrder struct {
	MWh        float64
	LimitPrice *float64

	// arrival preserves input order among equal prices.
	arrival int
}

// askLess orders the ask side: market orders first, then limit price
// ascending, then arrival order. Min() is the cheapest offer to sell.
func askLess(a, b OrderbookOrder) bool {
	switch {
	case a.LimitPrice == nil && b.LimitPrice != nil:
		return true
	case a.LimitPrice != nil && b.LimitPrice == nil:
		return false
	case a.LimitPrice != nil && b.LimitPrice != nil && *a.LimitPrice != *b.LimitPrice:
		return *a.LimitPrice < *b.LimitPrice
	}
	return a.arrival < b.arrival
}

// bidLess orders the bid side: market orders first, then limit price
// descending, then arrival order. Min() is the highest offer to buy.
func bidLess(a, b OrderbookOrder) bool {
	switch {
	case a.LimitPrice == nil && b.LimitPrice != nil:
		return true
	case a.LimitPrice != nil && b.LimitPrice == nil:
		return false
	case a.LimitPrice != nil && b.LimitPrice != nil && *a.LimitPrice != *b.LimitPrice:
		return *a.LimitPrice > *b.LimitPrice
	}
	return a.arrival < b.arrival
}

// OrderBook is the standing bid/ask snapshot for one timeslot. Sides are
// kept in B-trees so walks always see asks ascending and bids descending
// regardless of input order. Books are replaced per timeslot, never merged.
type OrderBook struct {
	TimeslotIndex int
	ClearingPrice *float64

	asks *btree.BTreeG[OrderbookOrder]
	bids *btree.BTreeG[OrderbookOrder]
	next int
}

// NewOrderBook creates an empty book for the given timeslot.
// clearingPrice is nil when the auction produced no trades.
func NewOrderBook(timeslotIndex int, clearingPrice *float64) *OrderBook {
	const degree = 16
	return &OrderBook{
		TimeslotIndex: timeslotIndex,
		ClearingPrice: clearingPrice,
		asks:          btree.NewG[OrderbookOrder](degree, askLess),
		bids:          btree.NewG[OrderbookOrder](degree, bidLess),
	}
}

// AddAsk inserts an offer to sell.
func (b *OrderBook) AddAsk(mwh float64, limitPrice *float64) {
	b.asks.ReplaceOrInsert(OrderbookOrder{MWh: mwh, LimitPrice: limitPrice, arrival: b.next})
	b.next++
}

// AddBid inserts an offer to buy.
func (b *OrderBook) AddBid(mwh float64, limitPrice *float64) {
	b.bids.ReplaceOrInsert(OrderbookOrder{MWh: mwh, LimitPrice: limitPrice, arrival: b.next})
	b.next++
}

// WalkAsks iterates asks in order (cheapest first). The callback returns
// true to continue, false to stop.
func (b *OrderBook) WalkAsks(fn func(OrderbookOrder) bool) {
	b.asks.Ascend(fn)
}

// WalkBids iterates bids in order (highest first).
func (b *OrderBook) WalkBids(fn func(OrderbookOrder) bool) {
	b.bids.Ascend(fn)
}

// AskCount returns the number of asks on the book.
func (b *OrderBook) AskCount() int {
	return b.asks.Len()
}

// BidCount returns the number of bids on the book.
func (b *OrderBook) BidCount() int {
	return b.bids.Len()
}
