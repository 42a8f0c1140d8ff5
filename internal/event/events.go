package event

import "github.com/shopspring/decimal"

// Kind tags an event variant. The dispatcher routes on Kind, so every
// event type carries exactly one.
type Kind int

const (
	KindUnknown Kind = iota
	KindCompetition
	KindSimStart
	KindSimEnd
	KindTimeslotUpdate
	KindBalancingTx
	KindTariffTx
	KindMarketTx
	KindOrderbook
	KindCashPosition
)

// String returns the wire tag for a kind.
func (k Kind) String() string {
	switch k {
	case KindCompetition:
		return "competition"
	case KindSimStart:
		return "simStart"
	case KindSimEnd:
		return "simEnd"
	case KindTimeslotUpdate:
		return "timeslotUpdate"
	case KindBalancingTx:
		return "balancingTx"
	case KindTariffTx:
		return "tariffTx"
	case KindMarketTx:
		return "marketTx"
	case KindOrderbook:
		return "orderbook"
	case KindCashPosition:
		return "cashPosition"
	default:
		return "unknown"
	}
}

// Event is the closed set of records the engine consumes.
type Event interface {
	EventKind() Kind
}

// TariffTxType enumerates tariff transaction types. Only a subset counts
// toward net demand; SIGNUP in particular does not.
type TariffTxType string

const (
	TariffConsume  TariffTxType = "CONSUME"
	TariffProduce  TariffTxType = "PRODUCE"
	TariffPeriodic TariffTxType = "PERIODIC"
	TariffPublish  TariffTxType = "PUBLISH"
	TariffRefund   TariffTxType = "REFUND"
	TariffRevoke   TariffTxType = "REVOKE"
	TariffWithdraw TariffTxType = "WITHDRAW"
	TariffSignup   TariffTxType = "SIGNUP"
)

// CountsTowardDemand reports whether a tariff transaction of this type
// contributes to a broker's net demand.
func (t TariffTxType) CountsTowardDemand() bool {
	switch t {
	case TariffConsume, TariffProduce, TariffPeriodic, TariffPublish,
		TariffRefund, TariffRevoke, TariffWithdraw:
		return true
	}
	return false
}

// Competition describes the game. It arrives before the first
// TimeslotUpdate and fixes the ring capacity and the game identifier.
type Competition struct {
	Name                     string
	TimeslotsOpen            int
	DeactivateTimeslotsAhead int
	Brokers                  []string
}

func (*Competition) EventKind() Kind { return KindCompetition }

// SimStart marks engine activation. Broker discovery happens here, from
// the participant list delivered on the preceding Competition event.
type SimStart struct{}

func (*SimStart) EventKind() Kind { return KindSimStart }

// SimEnd triggers the final flush.
type SimEnd struct{}

func (*SimEnd) EventKind() Kind { return KindSimEnd }

// TimeslotUpdate advances the simulation clock. FirstEnabled is the first
// timeslot currently open for trading.
type TimeslotUpdate struct {
	FirstEnabled int
}

func (*TimeslotUpdate) EventKind() Kind { return KindTimeslotUpdate }

// BalancingTx reports a broker's imbalance settlement for the current
// timeslot. KWh is signed, negative means shortage. Charge is the cost
// imposed by the balancing market.
type BalancingTx struct {
	Broker string
	KWh    float64
	Charge float64
}

func (*BalancingTx) EventKind() Kind { return KindBalancingTx }

// TariffTx reports a retail energy flow between a broker and a customer.
// Energy is in kWh.
type TariffTx struct {
	Broker string
	Type   TariffTxType
	KWh    float64
}

func (*TariffTx) EventKind() Kind { return KindTariffTx }

// MarketTx reports a wholesale trade. MWh and Price follow the market
// sign convention: a purchase has MWh > 0 and Price < 0. TargetTimeslot
// is the delivery timeslot, which may lie up to a full trading horizon
// ahead of the timeslot the trade was posted in.
type MarketTx struct {
	Broker         string
	TargetTimeslot int
	MWh            float64
	Price          float64
}

func (*MarketTx) EventKind() Kind { return KindMarketTx }

// OrderbookOrder is one standing order. A nil LimitPrice marks a market
// order. Energy is in MWh.
type OrderbookOrder struct {
	MWh        float64
	LimitPrice *float64
}

// Orderbook is a per-timeslot snapshot of standing bids and asks.
// ClearingPrice is nil when no trades occurred.
type Orderbook struct {
	TimeslotIndex int
	ClearingPrice *float64
	Asks          []OrderbookOrder
	Bids          []OrderbookOrder
}

func (*Orderbook) EventKind() Kind { return KindOrderbook }

// CashPosition carries a broker's posted bank balance. Decimal keeps the
// running ledger exact across thousands of postings.
type CashPosition struct {
	Broker  string
	Balance decimal.Decimal
}

func (*CashPosition) EventKind() Kind { return KindCashPosition }
