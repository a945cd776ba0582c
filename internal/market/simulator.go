// Package market simulates intraday quote movement for the two index instruments.
package market

import (
	"fmt"
	"math/rand"

	"algotrader/internal/models"
)

// Default per-tick volatility constants. BANK NIFTY is configured more
// volatile than NIFTY 50.
const (
	DefaultNiftyVolatility     = 0.0001
	DefaultBankNiftyVolatility = 0.00018

	// DefaultDriftMax bounds the per-session drift drawn at construction:
	// drift is uniform in [-DefaultDriftMax, DefaultDriftMax).
	DefaultDriftMax = 0.00005
)

// Default session-opening prices.
const (
	DefaultNiftyOpen     = 23500.00
	DefaultBankNiftyOpen = 50000.00
)

// Config holds simulator tuning parameters.
type Config struct {
	Volatility map[string]float64 // per-instrument per-tick volatility
	DriftMax   float64            // absolute bound for the per-session drift draw
}

// DefaultConfig returns the default simulator configuration.
func DefaultConfig() Config {
	return Config{
		Volatility: map[string]float64{
			models.Nifty:     DefaultNiftyVolatility,
			models.BankNifty: DefaultBankNiftyVolatility,
		},
		DriftMax: DefaultDriftMax,
	}
}

// SeedQuotes returns the session-start quotes for the two indexes.
func SeedQuotes() []models.IndexQuote {
	return []models.IndexQuote{
		{Name: models.Nifty, Price: DefaultNiftyOpen},
		{Name: models.BankNifty, Price: DefaultBankNiftyOpen},
	}
}

// Simulator advances index quotes by bounded random noise plus a fixed
// per-session drift. The drift for each instrument is drawn exactly once at
// construction and held for the lifetime of the simulator, representing a
// persistent intraday bias.
type Simulator struct {
	volatility map[string]float64
	drift      map[string]float64
	rng        *rand.Rand
}

// NewSimulator creates a Simulator for the given seed quotes, drawing the
// per-session drift from rng. Seed quotes must have strictly positive
// opening prices; this is the only place the zero-opening-price degenerate
// case is guarded.
func NewSimulator(cfg Config, seed []models.IndexQuote, rng *rand.Rand) (*Simulator, error) {
	if rng == nil {
		return nil, fmt.Errorf("market: nil random source")
	}
	if len(seed) == 0 {
		return nil, fmt.Errorf("market: no seed quotes")
	}

	s := &Simulator{
		volatility: make(map[string]float64, len(seed)),
		drift:      make(map[string]float64, len(seed)),
		rng:        rng,
	}
	for _, q := range seed {
		if q.OpeningPrice() <= 0 {
			return nil, fmt.Errorf("market: %s: opening price must be positive, got %.2f", q.Name, q.OpeningPrice())
		}
		vol, ok := cfg.Volatility[q.Name]
		if !ok {
			return nil, fmt.Errorf("market: %s: no volatility configured", q.Name)
		}
		s.volatility[q.Name] = vol
		s.drift[q.Name] = (rng.Float64() - 0.5) * 2 * cfg.DriftMax
	}
	return s, nil
}

// Drift returns the per-session drift for an instrument. It is constant for
// the simulator's lifetime.
func (s *Simulator) Drift(name string) float64 {
	return s.drift[name]
}

// Tick advances every quote one simulation step and returns a new slice;
// the input is never mutated. Change is recomputed against the fixed
// session-opening price so that openingPrice = price - change holds both
// before and after the tick.
func (s *Simulator) Tick(quotes []models.IndexQuote) []models.IndexQuote {
	next := make([]models.IndexQuote, len(quotes))
	for i, q := range quotes {
		noise := (s.rng.Float64() - 0.5) * q.Price * s.volatility[q.Name]
		driftTerm := q.Price * s.drift[q.Name]

		opening := q.OpeningPrice()
		newPrice := q.Price + noise + driftTerm
		newChange := newPrice - opening

		next[i] = models.IndexQuote{
			Name:          q.Name,
			Price:         newPrice,
			Change:        newChange,
			ChangePercent: newChange / opening * 100,
		}
	}
	return next
}
