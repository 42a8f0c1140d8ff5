package source

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/poragchowdhury/logtool/internal/event"
)

const fieldSep = "::"

// ParseRecord decodes one line. It returns (nil, nil) for blank lines,
// comments, and unknown tags, and an error for malformed records the
// caller should count and skip.
func ParseRecord(line string) (event.Event, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil, nil
	}

	fields := strings.Split(line, fieldSep)
	tag, args := fields[0], fields[1:]

	switch tag {
	case "competition":
		return parseCompetition(args)
	case "simStart":
		return &event.SimStart{}, nil
	case "simEnd":
		return &event.SimEnd{}, nil
	case "timeslotUpdate":
		return parseTimeslotUpdate(args)
	case "balancingTx":
		return parseBalancingTx(args)
	case "tariffTx":
		return parseTariffTx(args)
	case "marketTx":
		return parseMarketTx(args)
	case "orderbook":
		return parseOrderbook(args)
	case "cashPosition":
		return parseCashPosition(args)
	default:
		return nil, nil
	}
}

func parseCompetition(args []string) (event.Event, error) {
	if len(args) < 4 {
		return nil, fmt.Errorf("competition: want 4 fields, got %d", len(args))
	}
	open, err := strconv.Atoi(args[1])
	if err != nil {
		return nil, fmt.Errorf("competition: open timeslots: %w", err)
	}
	deact, err := strconv.Atoi(args[2])
	if err != nil {
		return nil, fmt.Errorf("competition: deactivate ahead: %w", err)
	}
	var brokers []string
	if args[3] != "" {
		brokers = strings.Split(args[3], ",")
	}
	return &event.Competition{
		Name:                     args[0],
		TimeslotsOpen:            open,
		DeactivateTimeslotsAhead: deact,
		Brokers:                  brokers,
	}, nil
}

func parseTimeslotUpdate(args []string) (event.Event, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("timeslotUpdate: missing index")
	}
	first, err := strconv.Atoi(args[0])
	if err != nil {
		return nil, fmt.Errorf("timeslotUpdate: %w", err)
	}
	return &event.TimeslotUpdate{FirstEnabled: first}, nil
}

func parseBalancingTx(args []string) (event.Event, error) {
	if len(args) < 3 {
		return nil, fmt.Errorf("balancingTx: want 3 fields, got %d", len(args))
	}
	kwh, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return nil, fmt.Errorf("balancingTx: kWh: %w", err)
	}
	charge, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return nil, fmt.Errorf("balancingTx: charge: %w", err)
	}
	return &event.BalancingTx{Broker: args[0], KWh: kwh, Charge: charge}, nil
}

func parseTariffTx(args []string) (event.Event, error) {
	if len(args) < 3 {
		return nil, fmt.Errorf("tariffTx: want 3 fields, got %d", len(args))
	}
	kwh, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return nil, fmt.Errorf("tariffTx: kWh: %w", err)
	}
	tx := event.AcquireTariffTx()
	tx.Broker = args[0]
	tx.Type = event.TariffTxType(args[1])
	tx.KWh = kwh
	return tx, nil
}

func parseMarketTx(args []string) (event.Event, error) {
	if len(args) < 4 {
		return nil, fmt.Errorf("marketTx: want 4 fields, got %d", len(args))
	}
	target, err := strconv.Atoi(args[1])
	if err != nil {
		return nil, fmt.Errorf("marketTx: target: %w", err)
	}
	mwh, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return nil, fmt.Errorf("marketTx: MWh: %w", err)
	}
	price, err := strconv.ParseFloat(args[3], 64)
	if err != nil {
		return nil, fmt.Errorf("marketTx: price: %w", err)
	}
	tx := event.AcquireMarketTx()
	tx.Broker = args[0]
	tx.TargetTimeslot = target
	tx.MWh = mwh
	tx.Price = price
	return tx, nil
}

func parseOrderbook(args []string) (event.Event, error) {
	if len(args) < 4 {
		return nil, fmt.Errorf("orderbook: want 4 fields, got %d", len(args))
	}
	ts, err := strconv.Atoi(args[0])
	if err != nil {
		return nil, fmt.Errorf("orderbook: timeslot: %w", err)
	}
	var clearing *float64
	if args[1] != "-" && args[1] != "" {
		p, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return nil, fmt.Errorf("orderbook: clearing price: %w", err)
		}
		clearing = &p
	}
	asks, err := parseSide(args[2])
	if err != nil {
		return nil, fmt.Errorf("orderbook: asks: %w", err)
	}
	bids, err := parseSide(args[3])
	if err != nil {
		return nil, fmt.Errorf("orderbook: bids: %w", err)
	}
	return &event.Orderbook{
		TimeslotIndex: ts,
		ClearingPrice: clearing,
		Asks:          asks,
		Bids:          bids,
	}, nil
}

// parseSide decodes `MWh:price;MWh:price;...`; `-` for price marks a
// market order, an empty string an empty side.
func parseSide(s string) ([]event.OrderbookOrder, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ";")
	orders := make([]event.OrderbookOrder, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		mwhStr, priceStr, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("bad order %q", part)
		}
		mwh, err := strconv.ParseFloat(mwhStr, 64)
		if err != nil {
			return nil, fmt.Errorf("bad order quantity %q", mwhStr)
		}
		var limit *float64
		if priceStr != "-" {
			p, err := strconv.ParseFloat(priceStr, 64)
			if err != nil {
				return nil, fmt.Errorf("bad order price %q", priceStr)
			}
			limit = &p
		}
		orders = append(orders, event.OrderbookOrder{MWh: mwh, LimitPrice: limit})
	}
	return orders, nil
}

func parseCashPosition(args []string) (event.Event, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("cashPosition: want 2 fields, got %d", len(args))
	}
	balance, err := decimal.NewFromString(args[1])
	if err != nil {
		return nil, fmt.Errorf("cashPosition: balance: %w", err)
	}
	return &event.CashPosition{Broker: args[0], Balance: balance}, nil
}
