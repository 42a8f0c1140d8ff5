// Package sink writes per-broker timeslot summaries. The engine drives a
// sink through begin/row/close; implementations cover a flat CSV file and
// a SQLite table holding the same columns.
package sink

// BrokerCells is one broker's group of columns within a row. Energies in
// kWh, costs in currency, unit prices folded into the cost fields.
type BrokerCells struct {
	Broker              string
	NetDemand           float64
	MarketQty           float64
	MarketCost          float64
	Imbalance           float64
	BalancingCost       float64
	MarketImbalanceCost float64
	EstimatedCost       float64
}

// Row is one summarized timeslot: the game id, the timeslot index, and
// one cell group per broker in registry order.
type Row struct {
	Game     string
	Timeslot int
	Brokers  []BrokerCells
}

// Sink is a line-oriented summary writer.
type Sink interface {
	// BeginHeader emits the column header once, before any row.
	BeginHeader(game string, brokers []string) error
	// WriteRow emits one summarized timeslot.
	WriteRow(row Row) error
	// Close finalizes the output.
	Close() error
}
