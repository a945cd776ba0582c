package market

import (
	"math"
	"math/rand"
	"testing"

	"algotrader/internal/models"
)

func newTestSimulator(t *testing.T, seedVal int64) (*Simulator, []models.IndexQuote) {
	t.Helper()
	seed := SeedQuotes()
	sim, err := NewSimulator(DefaultConfig(), seed, rand.New(rand.NewSource(seedVal)))
	if err != nil {
		t.Fatalf("NewSimulator: %v", err)
	}
	return sim, seed
}

func TestNewSimulatorRejectsBadInput(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	if _, err := NewSimulator(DefaultConfig(), SeedQuotes(), nil); err == nil {
		t.Error("expected error for nil rng")
	}
	if _, err := NewSimulator(DefaultConfig(), nil, rng); err == nil {
		t.Error("expected error for empty seed")
	}

	zero := []models.IndexQuote{{Name: models.Nifty, Price: 0}}
	if _, err := NewSimulator(DefaultConfig(), zero, rng); err == nil {
		t.Error("expected error for zero opening price")
	}

	unknown := []models.IndexQuote{{Name: "SENSEX", Price: 80000}}
	if _, err := NewSimulator(DefaultConfig(), unknown, rng); err == nil {
		t.Error("expected error for instrument without volatility")
	}
}

func TestTickPreservesOpeningPrice(t *testing.T) {
	sim, quotes := newTestSimulator(t, 42)

	openings := make(map[string]float64, len(quotes))
	for _, q := range quotes {
		openings[q.Name] = q.OpeningPrice()
	}

	for i := 0; i < 500; i++ {
		quotes = sim.Tick(quotes)
		for _, q := range quotes {
			if diff := math.Abs(q.OpeningPrice() - openings[q.Name]); diff > 1e-6 {
				t.Fatalf("tick %d: %s opening drifted by %g", i, q.Name, diff)
			}
		}
	}
}

func TestTickChangePercent(t *testing.T) {
	sim, quotes := newTestSimulator(t, 7)

	quotes = sim.Tick(quotes)
	for _, q := range quotes {
		want := q.Change / q.OpeningPrice() * 100
		if math.Abs(q.ChangePercent-want) > 1e-9 {
			t.Errorf("%s: changePercent = %v, want %v", q.Name, q.ChangePercent, want)
		}
	}
}

func TestTickDoesNotMutateInput(t *testing.T) {
	sim, quotes := newTestSimulator(t, 3)

	before := make([]models.IndexQuote, len(quotes))
	copy(before, quotes)

	sim.Tick(quotes)
	for i := range quotes {
		if quotes[i] != before[i] {
			t.Errorf("input quote %d mutated: %+v -> %+v", i, before[i], quotes[i])
		}
	}
}

func TestDriftIsConstantPerSession(t *testing.T) {
	sim, quotes := newTestSimulator(t, 11)

	d1 := sim.Drift(models.Nifty)
	d2 := sim.Drift(models.BankNifty)
	for i := 0; i < 50; i++ {
		quotes = sim.Tick(quotes)
		if sim.Drift(models.Nifty) != d1 || sim.Drift(models.BankNifty) != d2 {
			t.Fatal("drift changed between ticks")
		}
	}
	if math.Abs(d1) > DefaultDriftMax || math.Abs(d2) > DefaultDriftMax {
		t.Errorf("drift out of bounds: %v, %v", d1, d2)
	}
}

func TestSessionsReproducibleWithSameSeed(t *testing.T) {
	simA, quotesA := newTestSimulator(t, 99)
	simB, quotesB := newTestSimulator(t, 99)

	for i := 0; i < 20; i++ {
		quotesA = simA.Tick(quotesA)
		quotesB = simB.Tick(quotesB)
	}
	for i := range quotesA {
		if quotesA[i] != quotesB[i] {
			t.Errorf("quote %d diverged across identically seeded sessions", i)
		}
	}
}
