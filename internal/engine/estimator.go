package engine

import (
	"math"

	"github.com/poragchowdhury/logtool/internal/domain"
)

// WalkResult is the outcome of pricing an imbalance against one side of
// an order book.
type WalkResult struct {
	// MarginalPrice is the last observed price level, in currency/kWh.
	MarginalPrice float64
	// Cost is the quantity-weighted cost of clearing the imbalance at
	// marginal levels, in currency. Positive means paying to cover a
	// shortage; PerBroker negates it for a surplus (revenue).
	Cost float64
	// Covered reports whether the book held enough quantity.
	Covered bool
}

// Estimator prices residual imbalance against order books. A shortage
// walks the ask side, a surplus the bid side. Market orders (nil limit
// price) consume quantity at the running marginal without updating it.
type Estimator struct {
	// LegacyAsks reproduces the original analyzer, whose per-broker
	// estimate only handled negative imbalance against the asks; a
	// positive imbalance then estimates zero.
	LegacyAsks bool
}

// Aggregate returns the marginal clearing price that would have covered
// totalImbalance, in currency/kWh. The price is seeded from the book's
// clearing price when present, else from the first priced order on the
// walked side.
func (e *Estimator) Aggregate(book *domain.OrderBook, totalImbalance float64) (float64, error) {
	res, err := walkBook(book, totalImbalance, totalImbalance < 0)
	return res.MarginalPrice, err
}

// PerBroker prices a single broker's imbalance in isolation against the
// same book. The returned Cost is usable even on ErrBookExhausted: the
// uncovered remainder is priced at the last observed marginal.
func (e *Estimator) PerBroker(book *domain.OrderBook, imbalance float64) (WalkResult, error) {
	if imbalance == 0 {
		return WalkResult{Covered: true}, nil
	}
	if e.LegacyAsks && imbalance > 0 {
		return WalkResult{Covered: true}, nil
	}
	res, err := walkBook(book, imbalance, imbalance < 0)
	if err == domain.ErrMissingOrderbook || err == domain.ErrEmptyBookSide {
		return res, err
	}
	if imbalance > 0 {
		res.Cost = -res.Cost
	}
	return res, err
}

func walkBook(book *domain.OrderBook, imbalance float64, useAsks bool) (WalkResult, error) {
	var res WalkResult
	if book == nil {
		return res, domain.ErrMissingOrderbook
	}

	count := book.BidCount()
	walkSide := book.WalkBids
	if useAsks {
		count = book.AskCount()
		walkSide = book.WalkAsks
	}
	if count == 0 && book.ClearingPrice == nil {
		return res, domain.ErrEmptyBookSide
	}

	// Seed: the auction's clearing price when it traded, otherwise the
	// first priced order on the side. Raw prices are currency/MWh.
	seed := 0.0
	if book.ClearingPrice != nil {
		seed = *book.ClearingPrice
	} else {
		walkSide(func(o domain.OrderbookOrder) bool {
			if o.LimitPrice != nil {
				seed = *o.LimitPrice
				return false
			}
			return true
		})
	}

	marginal := seed / 1000.0
	remaining := math.Abs(imbalance)
	cost := 0.0

	walkSide(func(o domain.OrderbookOrder) bool {
		if o.LimitPrice != nil {
			marginal = *o.LimitPrice / 1000.0
		}
		qty := math.Abs(o.MWh) * 1000.0
		consumed := math.Min(qty, remaining)
		cost += marginal * consumed
		remaining -= consumed
		return remaining > 0
	})

	res.MarginalPrice = marginal
	res.Covered = remaining <= 0
	if !res.Covered {
		// Price the uncovered remainder at the last observed level.
		cost += marginal * remaining
		res.Cost = cost
		return res, domain.ErrBookExhausted
	}
	res.Cost = cost
	return res, nil
}
