// Package analysis aggregates per-lead-time trading statistics across a
// whole run. A lead time is the gap between the timeslot a trade was
// posted in and the timeslot it delivers to; each timeslot is typically
// open for trading 24 times.
package analysis

import (
	"encoding/csv"
	"math"
	"os"
	"strconv"
)

// leadCell accumulates one (broker, lead) bucket. Credits are trades
// with non-negative price (broker was paid), debits the rest.
type leadCell struct {
	creditMWh      float64
	creditPriceMWh float64 // sum of |MWh| x price, for the VWAP
	debitMWh       float64
	debitPriceMWh  float64
}

// LeadTracker accumulates per-broker, per-lead-time volumes and
// volume-weighted prices.
type LeadTracker struct {
	maxLeads int
	brokers  []string
	cells    [][]leadCell // [brokerIndex][lead]
}

// NewLeadTracker creates a tracker for the given brokers, in output
// order, bucketing leads 0..maxLeads-1. Longer leads fold into the last
// bucket.
func NewLeadTracker(brokers []string, maxLeads int) *LeadTracker {
	t := &LeadTracker{
		maxLeads: maxLeads,
		brokers:  brokers,
		cells:    make([][]leadCell, len(brokers)),
	}
	for i := range t.cells {
		t.cells[i] = make([]leadCell, maxLeads)
	}
	return t
}

// Record accumulates one market transaction.
func (t *LeadTracker) Record(brokerIndex, lead int, mWh, price float64) {
	if brokerIndex < 0 || brokerIndex >= len(t.cells) {
		return
	}
	if lead < 0 {
		lead = 0
	}
	if lead >= t.maxLeads {
		lead = t.maxLeads - 1
	}
	cell := &t.cells[brokerIndex][lead]
	vol := math.Abs(mWh)
	if price >= 0 {
		cell.creditMWh += vol
		cell.creditPriceMWh += vol * price
	} else {
		cell.debitMWh += vol
		cell.debitPriceMWh += vol * price
	}
}

// WriteCSV writes the report: one line per (broker, lead) with debit and
// credit volumes in MWh and volume-weighted average prices in
// currency/MWh. Empty buckets are skipped.
func (t *LeadTracker) WriteCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"broker",
		"lead",
		"debit_mwh",
		"debit_vwap",
		"credit_mwh",
		"credit_vwap",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i, broker := range t.brokers {
		for lead := 0; lead < t.maxLeads; lead++ {
			cell := t.cells[i][lead]
			if cell.creditMWh == 0 && cell.debitMWh == 0 {
				continue
			}
			row := []string{
				broker,
				strconv.Itoa(lead),
				fmtFloat(cell.debitMWh),
				fmtFloat(vwap(cell.debitPriceMWh, cell.debitMWh)),
				fmtFloat(cell.creditMWh),
				fmtFloat(vwap(cell.creditPriceMWh, cell.creditMWh)),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	return w.Error()
}

func vwap(priceVolume, volume float64) float64 {
	if volume == 0 {
		return 0
	}
	return priceVolume / volume
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 4, 64)
}
