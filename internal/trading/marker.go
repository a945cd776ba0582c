package trading

import (
	"math/rand"

	"algotrader/internal/models"
)

// FluctuationBand is the per-tick price fluctuation band for open
// positions: up to 1% of the current price in either direction.
const FluctuationBand = 0.01

// Marker re-prices open positions with independent random fluctuation and
// recomputes their unrealized P&L. It is a pure per-position transform;
// positions never interact.
type Marker struct {
	rng *rand.Rand
}

// NewMarker creates a Marker drawing from rng.
func NewMarker(rng *rand.Rand) *Marker {
	return &Marker{rng: rng}
}

// Mark advances every position one pricing step and returns a new slice;
// the input is never mutated. The new current price is floored at
// PriceFloor so it can never reach or cross zero.
func (m *Marker) Mark(positions []models.Position) []models.Position {
	next := make([]models.Position, len(positions))
	for i, p := range positions {
		priceTick := (m.rng.Float64() - 0.5) * p.CurrentPrice * FluctuationBand
		newPrice := p.CurrentPrice + priceTick
		if newPrice <= 0 {
			newPrice = PriceFloor
		}

		p.CurrentPrice = newPrice
		p.PnL = PositionPnL(p)
		next[i] = p
	}
	return next
}
