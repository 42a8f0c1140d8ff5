package engine

import (
	"math"
	"testing"

	"github.com/poragchowdhury/logtool/internal/domain"
)

func ptr(f float64) *float64 { return &f }

func askBook(ts int, clearing *float64, asks ...[2]float64) *domain.OrderBook {
	book := domain.NewOrderBook(ts, clearing)
	for _, a := range asks {
		book.AddAsk(a[0], ptr(a[1]))
	}
	return book
}

func TestEstimator_ShortImbalanceWalksAsks(t *testing.T) {
	// Asks 0.02 MWh @ 50 and 0.05 MWh @ 60, no clearing price. A 50 kWh
	// shortage takes all of the first level and 30 kWh of the second.
	book := askBook(360, nil, [2]float64{0.02, 50.0}, [2]float64{0.05, 60.0})
	est := &Estimator{}

	price, err := est.Aggregate(book, -50.0)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	if price != 0.060 {
		t.Errorf("Expected marginal price 0.060, got %f", price)
	}

	res, err := est.PerBroker(book, -50.0)
	if err != nil {
		t.Fatalf("PerBroker failed: %v", err)
	}
	// 0.050*20 + 0.060*30
	if math.Abs(res.Cost-2.8) > 1e-9 {
		t.Errorf("Expected cost 2.800, got %f", res.Cost)
	}
	if !res.Covered {
		t.Error("Book holds 70 kWh, walk should cover 50")
	}
}

func TestEstimator_ClearingPriceSeedsEmptySide(t *testing.T) {
	// Clearing price present, no bids. The surplus is priced at the
	// clearing level; the walk is exhausted but the result is usable.
	book := domain.NewOrderBook(360, ptr(45.0))
	est := &Estimator{}

	price, err := est.Aggregate(book, 30.0)
	if err != domain.ErrBookExhausted {
		t.Fatalf("Expected ErrBookExhausted, got %v", err)
	}
	if price != 0.045 {
		t.Errorf("Expected marginal 0.045, got %f", price)
	}

	res, err := est.PerBroker(book, 30.0)
	if err != domain.ErrBookExhausted {
		t.Fatalf("Expected ErrBookExhausted, got %v", err)
	}
	// Surplus: revenue, so the cost is negated. 0.045*30 = 1.35.
	if math.Abs(res.Cost-(-1.35)) > 1e-9 {
		t.Errorf("Expected cost -1.350, got %f", res.Cost)
	}
}

func TestEstimator_MarketOrderKeepsSeedPrice(t *testing.T) {
	// A market order on the short side consumes quantity at the seed
	// price without moving the marginal.
	book := domain.NewOrderBook(360, ptr(50.0))
	book.AddAsk(0.04, nil)
	est := &Estimator{}

	res, err := est.PerBroker(book, -40.0)
	if err != nil {
		t.Fatalf("PerBroker failed: %v", err)
	}
	if res.MarginalPrice != 0.050 {
		t.Errorf("Expected marginal to stay at seed 0.050, got %f", res.MarginalPrice)
	}
	if math.Abs(res.Cost-2.0) > 1e-9 {
		t.Errorf("Expected cost 0.050*40 = 2.000, got %f", res.Cost)
	}
}

func TestEstimator_NegativeAskQuantities(t *testing.T) {
	// Asks may carry negative MWh by market convention; the walk consumes
	// the absolute quantity either way.
	book := askBook(360, nil, [2]float64{-0.02, 50.0}, [2]float64{-0.05, 60.0})
	est := &Estimator{}

	res, err := est.PerBroker(book, -50.0)
	if err != nil {
		t.Fatalf("PerBroker failed: %v", err)
	}
	if math.Abs(res.Cost-2.8) > 1e-9 {
		t.Errorf("Expected cost 2.800, got %f", res.Cost)
	}
}

func TestEstimator_Exhausted(t *testing.T) {
	book := askBook(360, nil, [2]float64{0.02, 50.0})
	est := &Estimator{}

	res, err := est.PerBroker(book, -50.0)
	if err != domain.ErrBookExhausted {
		t.Fatalf("Expected ErrBookExhausted, got %v", err)
	}
	// 20 kWh at 0.050, the uncovered 30 kWh priced at the last marginal.
	if math.Abs(res.Cost-2.5) > 1e-9 {
		t.Errorf("Expected cost 2.500, got %f", res.Cost)
	}
	if res.Covered {
		t.Error("Walk should report the book as exhausted")
	}
}

func TestEstimator_Errors(t *testing.T) {
	est := &Estimator{}

	t.Run("Missing Book", func(t *testing.T) {
		if _, err := est.PerBroker(nil, -10); err != domain.ErrMissingOrderbook {
			t.Errorf("Expected ErrMissingOrderbook, got %v", err)
		}
	})

	t.Run("Empty Side No Clearing", func(t *testing.T) {
		book := domain.NewOrderBook(360, nil)
		if _, err := est.Aggregate(book, -10); err != domain.ErrEmptyBookSide {
			t.Errorf("Expected ErrEmptyBookSide, got %v", err)
		}
	})

	t.Run("Zero Imbalance", func(t *testing.T) {
		res, err := est.PerBroker(nil, 0)
		if err != nil || res.Cost != 0 {
			t.Errorf("Zero imbalance should cost nothing, got %f, %v", res.Cost, err)
		}
	})
}

func TestEstimator_LegacyAsks(t *testing.T) {
	book := askBook(360, nil, [2]float64{1.0, 50.0})
	est := &Estimator{LegacyAsks: true}

	res, err := est.PerBroker(book, 30.0)
	if err != nil {
		t.Fatalf("PerBroker failed: %v", err)
	}
	if res.Cost != 0 {
		t.Errorf("Legacy mode estimates zero for a surplus, got %f", res.Cost)
	}

	// Shortage still priced normally.
	res, err = est.PerBroker(book, -30.0)
	if err != nil {
		t.Fatalf("PerBroker failed: %v", err)
	}
	if math.Abs(res.Cost-1.5) > 1e-9 {
		t.Errorf("Expected cost 0.050*30 = 1.500, got %f", res.Cost)
	}
}
