// Package source delivers decoded events into the engine inbox. The wire
// format is line-oriented tagged records:
//
//	competition::<game>::<openTimeslots>::<deactivateAhead>::<name,name,...>
//	simStart
//	timeslotUpdate::<firstEnabled>
//	balancingTx::<broker>::<kWh>::<charge>
//	tariffTx::<broker>::<TYPE>::<kWh>
//	marketTx::<broker>::<targetTimeslot>::<MWh>::<price>
//	orderbook::<timeslot>::<clearingPrice|->::<asks>::<bids>
//	cashPosition::<broker>::<balance>
//	simEnd
//
// Order book sides are semicolon-separated `MWh:price` pairs; a price of
// `-` marks a market order. Blank lines and lines starting with '#' are
// skipped, as are records with unknown tags.
package source

import (
	"context"
	"log/slog"
	"strings"

	"github.com/poragchowdhury/logtool/internal/event"
	"github.com/poragchowdhury/logtool/internal/infra"
)

// Source reads a stream of tagged records, sends the decoded events into
// the inbox, and closes the inbox when the stream ends.
type Source interface {
	Run(ctx context.Context) error
}

// New picks a reader for the locator: a ws:// or wss:// URL streams from
// a live simulator, anything else is a file path.
func New(locator string, inbox chan<- event.Event, log *slog.Logger, metrics *infra.Metrics) Source {
	if strings.HasPrefix(locator, "ws://") || strings.HasPrefix(locator, "wss://") {
		return NewWSSource(locator, inbox, log, metrics)
	}
	return NewFileSource(locator, inbox, log, metrics)
}
