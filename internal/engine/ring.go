package engine

import (
	"github.com/poragchowdhury/logtool/internal/domain"
)

// Trade is a market transaction copied into its target slot. Energy in
// MWh, price in currency/MWh.
type Trade struct {
	MWh   float64
	Price float64
}

// BrokerSlot accumulates one broker's activity for one target timeslot.
// Balancing and tariff energy is in kWh; market quantity is normalized
// to kWh on entry so the slot never mixes units.
type BrokerSlot struct {
	Timeslot      int
	NetDemand     float64
	Imbalance     float64
	BalancingCost float64
	MarketQty     float64
	MarketCost    float64

	// trades holds the raw market transactions indexed by lead time
	// (targetTimeslot - postedTimeslot), for lead-time analytics.
	trades [][]Trade
}

// Clear resets the slot so its ring cell can be reused for a later
// timeslot. Idempotent.
func (s *BrokerSlot) Clear() {
	s.Timeslot = -1
	s.NetDemand = 0
	s.Imbalance = 0
	s.BalancingCost = 0
	s.MarketQty = 0
	s.MarketCost = 0
	s.trades = s.trades[:0]
}

// AddDemand accumulates a qualifying tariff flow.
func (s *BrokerSlot) AddDemand(kWh float64) {
	s.NetDemand += kWh
}

// AddMarketTx accumulates a market transaction posted lead timeslots
// before this slot's timeslot. Quantity converts MWh to kWh; cost stays
// in currency (MWh x currency/MWh).
func (s *BrokerSlot) AddMarketTx(lead int, mWh, price float64) {
	s.MarketQty += mWh * 1000.0
	s.MarketCost += mWh * price
	if lead < 0 {
		lead = 0
	}
	for len(s.trades) <= lead {
		s.trades = append(s.trades, nil)
	}
	s.trades[lead] = append(s.trades[lead], Trade{MWh: mWh, Price: price})
}

// TradesByLead returns the slot's market transactions indexed by lead
// time. The slices are owned by the slot and valid until Clear.
func (s *BrokerSlot) TradesByLead() [][]Trade {
	return s.trades
}

// Ring is the fixed-capacity window of per-broker accumulators. Cell
// (b, t) lives at slots[b*capacity + (t-first) mod capacity]; a cell is
// reused once its timeslot has been summarized and cleared. Market
// transactions may write up to capacity-1 timeslots ahead of the clock.
type Ring struct {
	capacity int
	brokers  int
	first    int
	slots    []BrokerSlot
}

// NewRing allocates a ring for the given broker count and capacity
// (openTimeslots + deactivateTimeslotsAhead).
func NewRing(brokers, capacity int) *Ring {
	r := &Ring{
		capacity: capacity,
		brokers:  brokers,
		slots:    make([]BrokerSlot, brokers*capacity),
	}
	for i := range r.slots {
		r.slots[i].Timeslot = -1
	}
	return r
}

// SetFirstTimeslot anchors modular indexing. Called once, when the clock
// initializes.
func (r *Ring) SetFirstTimeslot(ts int) {
	r.first = ts
}

// Capacity returns the ring capacity.
func (r *Ring) Capacity() int {
	return r.capacity
}

// At returns the slot for (broker, target). The target must lie inside
// the open window [current, current+capacity); anything else returns
// ErrTargetOutOfRange and the caller drops the event.
func (r *Ring) At(broker, target, current int) (*BrokerSlot, error) {
	if target < current || target >= current+r.capacity {
		return nil, domain.ErrTargetOutOfRange
	}
	slot := &r.slots[broker*r.capacity+r.index(target)]
	slot.Timeslot = target
	return slot, nil
}

// Current returns the slot for (broker, current). Always in range.
func (r *Ring) Current(broker, current int) *BrokerSlot {
	slot, _ := r.At(broker, current, current)
	return slot
}

// ClearTimeslot resets the cell for the given timeslot across all
// brokers, making it the new far end of the window.
func (r *Ring) ClearTimeslot(ts int) {
	idx := r.index(ts)
	for b := 0; b < r.brokers; b++ {
		r.slots[b*r.capacity+idx].Clear()
	}
}

func (r *Ring) index(ts int) int {
	i := (ts - r.first) % r.capacity
	if i < 0 {
		i += r.capacity
	}
	return i
}
