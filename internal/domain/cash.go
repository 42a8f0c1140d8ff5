package domain

import (
	"github.com/shopspring/decimal"
)

// CashBook tracks the latest posted bank balance per broker. The
// simulator posts a running balance, not deltas, so Post replaces.
// Decimal keeps the ledger exact across thousands of postings.
type CashBook struct {
	balances map[string]decimal.Decimal
}

// NewCashBook creates an empty cash book.
func NewCashBook() *CashBook {
	return &CashBook{
		balances: make(map[string]decimal.Decimal),
	}
}

// Post records the latest posted balance for a broker.
func (cb *CashBook) Post(broker string, balance decimal.Decimal) {
	cb.balances[broker] = balance
}

// Balance returns the latest posted balance for a broker.
func (cb *CashBook) Balance(broker string) (decimal.Decimal, bool) {
	b, ok := cb.balances[broker]
	return b, ok
}

// Snapshot returns a copy of all balances.
func (cb *CashBook) Snapshot() map[string]decimal.Decimal {
	result := make(map[string]decimal.Decimal, len(cb.balances))
	for k, v := range cb.balances {
		result[k] = v
	}
	return result
}
