package sink

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
)

// brokerHeader is the per-broker column group. The trailing comma matches
// the layout downstream tooling already parses.
const brokerHeader = "broker, netDemand, mktQty, mktCost, imbalance, imbalanceCost, mktImbCost, estCost,"

// CSVSink writes summaries as comma-separated lines, one line per
// timeslot, with a fixed three-decimal format for numeric fields.
type CSVSink struct {
	f *os.File
	w *bufio.Writer
}

// NewCSVSink creates the output file, truncating any existing one.
func NewCSVSink(path string) (*CSVSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("open csv output: %w", err)
	}
	return &CSVSink{f: f, w: bufio.NewWriter(f)}, nil
}

// BeginHeader writes the header line: game and timeslot, then one column
// group per broker in registry order.
func (s *CSVSink) BeginHeader(game string, brokers []string) error {
	if _, err := s.w.WriteString("game, timeslot,"); err != nil {
		return err
	}
	for range brokers {
		if _, err := s.w.WriteString(brokerHeader); err != nil {
			return err
		}
	}
	return s.w.WriteByte('\n')
}

// WriteRow writes one data line. NaN renders as an empty field so a
// missing value is distinguishable from a true zero.
func (s *CSVSink) WriteRow(row Row) error {
	if _, err := fmt.Fprintf(s.w, "%s,%d,", row.Game, row.Timeslot); err != nil {
		return err
	}
	for _, b := range row.Brokers {
		s.w.WriteString(b.Broker)
		s.w.WriteByte(',')
		for _, v := range [...]float64{
			b.NetDemand, b.MarketQty, b.MarketCost,
			b.Imbalance, b.BalancingCost,
			b.MarketImbalanceCost, b.EstimatedCost,
		} {
			s.w.WriteString(cell(v))
			s.w.WriteByte(',')
		}
	}
	return s.w.WriteByte('\n')
}

// Close flushes and closes the file.
func (s *CSVSink) Close() error {
	if err := s.w.Flush(); err != nil {
		s.f.Close()
		return err
	}
	return s.f.Close()
}

func cell(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', 3, 64)
}
