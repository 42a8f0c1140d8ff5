package engine

import (
	"context"
	"log/slog"

	"github.com/poragchowdhury/logtool/internal/analysis"
	"github.com/poragchowdhury/logtool/internal/domain"
	"github.com/poragchowdhury/logtool/internal/event"
	"github.com/poragchowdhury/logtool/internal/infra"
	"github.com/poragchowdhury/logtool/internal/sink"
)

// Options tunes the analyzer. Zero values fall back to the simulator
// defaults.
type Options struct {
	InboxSize int

	// Fallbacks for streams that never deliver a Competition record.
	DefaultOpenTimeslots   int
	DefaultDeactivateAhead int

	MaxLeadTimes int

	LegacyAsks  bool
	UsePrevBook bool
}

func (o *Options) fill() {
	if o.InboxSize <= 0 {
		o.InboxSize = 1024
	}
	if o.DefaultOpenTimeslots <= 0 {
		o.DefaultOpenTimeslots = 24
	}
	if o.DefaultDeactivateAhead < 0 {
		o.DefaultDeactivateAhead = 0
	}
	if o.MaxLeadTimes <= 0 {
		o.MaxLeadTimes = 24
	}
}

// Analyzer is the single-threaded event processor. It routes decoded
// events through the dispatcher into per-broker ring accumulators and,
// on every clock advance, prices residual imbalance against the current
// order book and emits one summary row per broker.
type Analyzer struct {
	log     *slog.Logger
	metrics *infra.Metrics
	opts    Options

	inbox      chan event.Event
	dispatcher *Dispatcher

	clock     *TimeslotClock
	registry  *domain.BrokerRegistry
	ring      *Ring
	books     *OrderBookStore
	estimator *Estimator
	out       sink.Sink
	cash      *domain.CashBook
	leads     *analysis.LeadTracker

	game            string
	capacity        int
	deactivateAhead int
	pendingBrokers  []string
	totalImbalance  float64
	headerWritten   bool
	outFailed       bool
}

// NewAnalyzer creates the engine and registers all event handlers.
func NewAnalyzer(opts Options, out sink.Sink, log *slog.Logger, metrics *infra.Metrics) *Analyzer {
	opts.fill()
	a := &Analyzer{
		log:             log,
		metrics:         metrics,
		opts:            opts,
		inbox:           make(chan event.Event, opts.InboxSize),
		dispatcher:      NewDispatcher(),
		books:           NewOrderBookStore(),
		estimator:       &Estimator{LegacyAsks: opts.LegacyAsks},
		out:             out,
		cash:            domain.NewCashBook(),
		capacity:        opts.DefaultOpenTimeslots + opts.DefaultDeactivateAhead,
		deactivateAhead: opts.DefaultDeactivateAhead,
	}

	a.dispatcher.Register(event.KindCompetition, a.handleCompetition)
	a.dispatcher.Register(event.KindSimStart, a.handleSimStart)
	a.dispatcher.Register(event.KindTimeslotUpdate, a.handleTimeslotUpdate)
	a.dispatcher.Register(event.KindBalancingTx, a.handleBalancingTx)
	a.dispatcher.Register(event.KindTariffTx, a.handleTariffTx)
	a.dispatcher.Register(event.KindMarketTx, a.handleMarketTx)
	a.dispatcher.Register(event.KindOrderbook, a.handleOrderbook)
	a.dispatcher.Register(event.KindCashPosition, a.handleCashPosition)
	a.dispatcher.Register(event.KindSimEnd, a.handleSimEnd)

	return a
}

// Inbox returns the event channel. The source sends decoded events here
// and closes it at end of stream.
func (a *Analyzer) Inbox() chan<- event.Event {
	return a.inbox
}

// Run starts the main event loop. This MUST be run in a single goroutine.
// It returns when the inbox is closed or the context is cancelled; the
// source closes the inbox at end of stream.
func (a *Analyzer) Run(ctx context.Context) {
	a.log.Info("analyzer started")
	for {
		select {
		case <-ctx.Done():
			a.log.Info("analyzer stopping", slog.Any("reason", ctx.Err()))
			return
		case ev, ok := <-a.inbox:
			if !ok {
				return
			}
			a.processEvent(ev)
		}
	}
}

func (a *Analyzer) processEvent(ev event.Event) {
	a.metrics.RecordEvent()
	a.dispatcher.Emit(ev)

	// Pooled kinds go back after dispatch; handlers copy what they keep.
	switch e := ev.(type) {
	case *event.TariffTx:
		event.ReleaseTariffTx(e)
	case *event.MarketTx:
		event.ReleaseMarketTx(e)
	}
}

// LeadTracker returns the per-lead-time trade statistics, nil before
// simulation start.
func (a *Analyzer) LeadTracker() *analysis.LeadTracker {
	return a.leads
}

// Game returns the competition name, empty until seen.
func (a *Analyzer) Game() string {
	return a.game
}

// ----------------------------------------------------------------------
// handlers

func (a *Analyzer) handleCompetition(ev event.Event) {
	e := ev.(*event.Competition)
	a.game = e.Name
	open := e.TimeslotsOpen
	if open <= 0 {
		open = a.opts.DefaultOpenTimeslots
	}
	deact := e.DeactivateTimeslotsAhead
	if deact < 0 {
		deact = a.opts.DefaultDeactivateAhead
	}
	a.capacity = open + deact
	a.deactivateAhead = deact
	a.pendingBrokers = append(a.pendingBrokers[:0], e.Brokers...)
	a.log.Info("competition",
		slog.String("game", e.Name),
		slog.Int("open", open),
		slog.Int("deactivateAhead", deact),
		slog.Int("participants", len(e.Brokers)))
}

func (a *Analyzer) handleSimStart(ev event.Event) {
	a.buildRegistry()
}

func (a *Analyzer) buildRegistry() {
	if a.registry != nil {
		return
	}
	a.registry = domain.NewBrokerRegistry(a.pendingBrokers)
	a.ring = NewRing(a.registry.Len(), a.capacity)
	a.leads = analysis.NewLeadTracker(a.registry.Names(), a.opts.MaxLeadTimes)
	a.log.Info("brokers discovered",
		slog.Any("brokers", a.registry.Names()),
		slog.Int("ringCapacity", a.capacity))
}

func (a *Analyzer) handleTimeslotUpdate(ev event.Event) {
	e := ev.(*event.TimeslotUpdate)
	if a.clock == nil {
		a.clock = NewTimeslotClock(a.deactivateAhead)
		a.clock.AddListener(a)
	}
	a.clock.OnTimeslotUpdate(e.FirstEnabled)
}

func (a *Analyzer) handleBalancingTx(ev event.Event) {
	e := ev.(*event.BalancingTx)
	if !a.active() {
		return
	}
	idx, ok := a.registry.Lookup(e.Broker)
	if !ok {
		a.metrics.RecordUnknownBroker()
		return
	}
	slot := a.ring.Current(idx, a.clock.Current())
	slot.Imbalance = e.KWh
	slot.BalancingCost = e.Charge
	a.totalImbalance += e.KWh
}

func (a *Analyzer) handleTariffTx(ev event.Event) {
	e := ev.(*event.TariffTx)
	if !a.active() || !e.Type.CountsTowardDemand() {
		return
	}
	idx, ok := a.registry.Lookup(e.Broker)
	if !ok {
		a.metrics.RecordUnknownBroker()
		return
	}
	a.ring.Current(idx, a.clock.Current()).AddDemand(e.KWh)
}

func (a *Analyzer) handleMarketTx(ev event.Event) {
	e := ev.(*event.MarketTx)
	if !a.active() {
		return
	}
	idx, ok := a.registry.Lookup(e.Broker)
	if !ok {
		// Might not be a retail broker.
		a.metrics.RecordUnknownBroker()
		return
	}
	current := a.clock.Current()
	slot, err := a.ring.At(idx, e.TargetTimeslot, current)
	if err != nil {
		a.metrics.RecordDroppedTarget()
		a.log.Warn("market tx target outside window, dropped",
			slog.String("broker", e.Broker),
			slog.Int("target", e.TargetTimeslot),
			slog.Int("current", current))
		return
	}
	slot.AddMarketTx(e.TargetTimeslot-current, e.MWh, e.Price)
}

func (a *Analyzer) handleOrderbook(ev event.Event) {
	e := ev.(*event.Orderbook)
	if a.clock == nil || !a.clock.Initialized() {
		return
	}
	book := domain.NewOrderBook(e.TimeslotIndex, e.ClearingPrice)
	for _, o := range e.Asks {
		book.AddAsk(o.MWh, o.LimitPrice)
	}
	for _, o := range e.Bids {
		book.AddBid(o.MWh, o.LimitPrice)
	}
	a.books.Observe(book, a.clock.Current())
}

func (a *Analyzer) handleCashPosition(ev event.Event) {
	e := ev.(*event.CashPosition)
	a.cash.Post(e.Broker, e.Balance)
}

func (a *Analyzer) handleSimEnd(ev event.Event) {
	if a.registry != nil {
		for _, b := range a.registry.Brokers() {
			if balance, ok := a.cash.Balance(b.Name); ok {
				a.log.Info("final cash position",
					slog.String("broker", b.Name),
					slog.String("balance", balance.StringFixed(2)))
			}
		}
	}
	snap := a.metrics.Snapshot()
	a.log.Info("simulation ended",
		slog.Uint64("events", snap.EventsProcessed),
		slog.Uint64("rows", snap.RowsWritten),
		slog.Uint64("droppedTargets", snap.DroppedTargets),
		slog.Uint64("missingOrderbooks", snap.MissingOrderbooks))
}

// active reports whether per-broker accumulation can proceed: brokers
// are known and the clock has initialized.
func (a *Analyzer) active() bool {
	return a.registry != nil && a.clock != nil && a.clock.Initialized()
}

// ----------------------------------------------------------------------
// ClockListener

// Initialize anchors the ring and emits the header. Fires on the first
// TimeslotUpdate, before any real activity.
func (a *Analyzer) Initialize(firstTimeslot int) {
	a.buildRegistry()
	a.ring.SetFirstTimeslot(firstTimeslot)
	a.writeHeader()
	a.log.Info("clock initialized", slog.Int("firstTimeslot", firstTimeslot))
}

// BeginOfTimeslot is a no-op; accumulation is driven by the events
// themselves.
func (a *Analyzer) BeginOfTimeslot(timeslot int) {}

// EndOfTimeslot materializes one output row per broker for the timeslot
// just ended, then recycles its ring cells.
func (a *Analyzer) EndOfTimeslot(timeslot int) {
	a.summarize(timeslot)
	a.ring.ClearTimeslot(timeslot)
	a.totalImbalance = 0
	a.books.Advance()
}

func (a *Analyzer) writeHeader() {
	if a.headerWritten || a.outFailed {
		return
	}
	if err := a.out.BeginHeader(a.game, a.registry.Names()); err != nil {
		a.failOutput(err)
		return
	}
	a.headerWritten = true
}

func (a *Analyzer) summarize(timeslot int) {
	book := a.books.Current()
	if book == nil {
		a.metrics.RecordMissingOrderbook()
		a.log.Error("no orderbook", slog.Int("timeslot", timeslot))
	}

	// Aggregate pass: the marginal price that would have covered the
	// total imbalance. Irrelevant when the market balanced exactly.
	finalClearing := 0.0
	if a.totalImbalance != 0 && book != nil {
		price, err := a.estimator.Aggregate(book, a.totalImbalance)
		switch err {
		case nil:
			finalClearing = price
		case domain.ErrEmptyBookSide:
			a.metrics.RecordEmptyBookSide()
			a.log.Error("no orders to price imbalance",
				slog.Int("timeslot", timeslot),
				slog.Float64("totalImbalance", a.totalImbalance))
		case domain.ErrBookExhausted:
			a.metrics.RecordExhaustedWalk()
			a.log.Warn("ran out of orders pricing total imbalance",
				slog.Int("timeslot", timeslot),
				slog.Float64("price", price),
				slog.Float64("totalImbalance", a.totalImbalance))
			finalClearing = price
		}
	}

	estBook := book
	if a.opts.UsePrevBook {
		estBook = a.books.Previous()
	}

	row := sink.Row{
		Game:     a.game,
		Timeslot: timeslot,
		Brokers:  make([]sink.BrokerCells, 0, a.registry.Len()),
	}
	for i, b := range a.registry.Brokers() {
		slot := a.ring.Current(i, timeslot)
		cells := sink.BrokerCells{
			Broker:              b.Name,
			NetDemand:           slot.NetDemand,
			MarketQty:           slot.MarketQty,
			MarketCost:          slot.MarketCost,
			Imbalance:           slot.Imbalance,
			BalancingCost:       slot.BalancingCost,
			MarketImbalanceCost: finalClearing * slot.Imbalance,
		}

		res, err := a.estimator.PerBroker(estBook, slot.Imbalance)
		switch err {
		case nil:
			cells.EstimatedCost = res.Cost
		case domain.ErrBookExhausted:
			a.metrics.RecordExhaustedWalk()
			a.log.Warn("ran out of orders pricing broker imbalance",
				slog.Int("timeslot", timeslot),
				slog.String("broker", b.Name),
				slog.Float64("imbalance", slot.Imbalance))
			cells.EstimatedCost = res.Cost
		default:
			// Missing book or empty side: zeros, already diagnosed above.
		}

		if a.leads != nil {
			for lead, trades := range slot.TradesByLead() {
				for _, tr := range trades {
					a.leads.Record(i, lead, tr.MWh, tr.Price)
				}
			}
		}

		row.Brokers = append(row.Brokers, cells)
	}

	a.writeRow(row)
}

func (a *Analyzer) writeRow(row sink.Row) {
	if a.outFailed {
		return
	}
	if err := a.out.WriteRow(row); err != nil {
		a.failOutput(err)
		return
	}
	a.metrics.RecordRow()
}

// failOutput logs the sink failure once and drops all further output;
// events are still consumed so upstream parsing completes.
func (a *Analyzer) failOutput(err error) {
	a.outFailed = true
	a.log.Error("output unavailable, dropping all further output", slog.Any("error", err))
}

// OutputFailed reports whether the sink failed mid-run.
func (a *Analyzer) OutputFailed() bool {
	return a.outFailed
}
