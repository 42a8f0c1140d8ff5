package event

import (
	"sync"
)

// Pools for the two high-frequency event kinds. A state log produces one
// TariffTx per customer per timeslot and one MarketTx per cleared order,
// which together dwarf every other kind combined. The decoder acquires,
// the engine releases after dispatch.
//
// Usage:
//
//	tx := AcquireTariffTx()
//	tx.Broker = "Sally"
//	// ... dispatch ...
//	ReleaseTariffTx(tx)
var tariffTxPool = sync.Pool{
	New: func() interface{} {
		return &TariffTx{}
	},
}

// AcquireTariffTx gets a TariffTx from the pool. The returned event has
// zero values and must be initialized.
func AcquireTariffTx() *TariffTx {
	return tariffTxPool.Get().(*TariffTx)
}

// ReleaseTariffTx returns a TariffTx to the pool. The event is reset to
// zero values before being pooled.
func ReleaseTariffTx(tx *TariffTx) {
	if tx == nil {
		return
	}
	tx.Broker = ""
	tx.Type = ""
	tx.KWh = 0

	tariffTxPool.Put(tx)
}

// MarketTx pool
var marketTxPool = sync.Pool{
	New: func() interface{} {
		return &MarketTx{}
	},
}

// AcquireMarketTx gets a MarketTx from the pool.
func AcquireMarketTx() *MarketTx {
	return marketTxPool.Get().(*MarketTx)
}

// ReleaseMarketTx returns a MarketTx to the pool.
func ReleaseMarketTx(tx *MarketTx) {
	if tx == nil {
		return
	}
	tx.Broker = ""
	tx.TargetTimeslot = 0
	tx.MWh = 0
	tx.Price = 0

	marketTxPool.Put(tx)
}

// Warmup pre-allocates event objects to reduce GC pressure at startup.
func Warmup() {
	const batchSize = 1000

	tariffEvs := make([]*TariffTx, 0, batchSize)
	for i := 0; i < batchSize; i++ {
		tariffEvs = append(tariffEvs, AcquireTariffTx())
	}
	for _, ev := range tariffEvs {
		ReleaseTariffTx(ev)
	}

	marketEvs := make([]*MarketTx, 0, batchSize)
	for i := 0; i < batchSize; i++ {
		marketEvs = append(marketEvs, AcquireMarketTx())
	}
	for _, ev := range marketEvs {
		ReleaseMarketTx(ev)
	}
}
