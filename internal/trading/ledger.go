package trading

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"algotrader/internal/models"
)

// Ledger owns the authoritative list of open positions and the realized
// P&L accumulator. Exits fold a position's last-known P&L into realized
// P&L and remove it from the open set; no closed-position history is kept.
type Ledger struct {
	mu        sync.RWMutex
	positions []models.Position
	realized  float64
	seq       uint64
}

// NewLedger creates an empty Ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// nextID returns a collision-free position id. The monotonic sequence keeps
// ids ordered; the uuid component breaks ties across restarts and makes ids
// unguessable. Callers must hold mu.
func (l *Ledger) nextID() string {
	l.seq++
	return fmt.Sprintf("POS-%06d-%s", l.seq, uuid.NewString()[:8])
}

// AddPosition opens a one-lot position from an option pick, tagged with
// source "pick". The position enters at the pick's entry price with zero P&L.
func (l *Ledger) AddPosition(pick models.OptionPick) models.Position {
	l.mu.Lock()
	defer l.mu.Unlock()

	pos := models.Position{
		ID:              l.nextID(),
		Instrument:      pick.Instrument,
		Action:          pick.Action,
		EntryPrice:      pick.EntryPrice,
		CurrentPrice:    pick.EntryPrice,
		Quantity:        1,
		PnL:             0,
		Source:          models.SourcePick,
		RequiredCapital: pick.RequiredCapital,
	}
	l.positions = append(l.positions, pos)
	return pos
}

// AddStrategyLegs opens one position per strategy leg, dividing the total
// required capital evenly across legs. All legs are tagged source "strategy".
func (l *Ledger) AddStrategyLegs(legs []models.StrategyLeg, totalRequiredCapital float64) []models.Position {
	l.mu.Lock()
	defer l.mu.Unlock()

	var capitalPerLeg float64
	if len(legs) > 0 {
		capitalPerLeg = totalRequiredCapital / float64(len(legs))
	}

	opened := make([]models.Position, 0, len(legs))
	for _, leg := range legs {
		pos := models.Position{
			ID:              l.nextID(),
			Instrument:      leg.Instrument,
			Action:          leg.Action,
			EntryPrice:      leg.EntryPrice,
			CurrentPrice:    leg.EntryPrice,
			Quantity:        1,
			PnL:             0,
			Source:          models.SourceStrategy,
			RequiredCapital: capitalPerLeg,
		}
		l.positions = append(l.positions, pos)
		opened = append(opened, pos)
	}
	return opened
}

// ExitPosition closes the position with the given id, folding its current
// P&L into realized P&L. Unknown ids are a silent no-op, which makes the
// call idempotent after the first exit.
func (l *Ledger) ExitPosition(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, p := range l.positions {
		if p.ID == id {
			l.realized += p.PnL
			l.positions = append(l.positions[:i], l.positions[i+1:]...)
			return
		}
	}
}

// ExitBySource closes every position with the given source tag. The realized
// increment is the sum of P&L over the exited set, computed before removal.
// An empty exited set leaves the accumulator untouched.
func (l *Ledger) ExitBySource(source models.PositionSource) {
	l.mu.Lock()
	defer l.mu.Unlock()

	keep := l.positions[:0]
	var exitedPnL float64
	for _, p := range l.positions {
		if p.Source == source {
			exitedPnL += p.PnL
		} else {
			keep = append(keep, p)
		}
	}
	l.realized += exitedPnL
	l.positions = keep
}

// ExitAll closes every open position.
func (l *Ledger) ExitAll() {
	l.mu.Lock()
	defer l.mu.Unlock()

	var exitedPnL float64
	for _, p := range l.positions {
		exitedPnL += p.PnL
	}
	l.realized += exitedPnL
	l.positions = nil
}

// Reprice applies a marking function to the open set atomically. The
// function receives a copy and its result replaces the open set wholesale,
// so exits can never interleave with a partially marked list.
func (l *Ledger) Reprice(mark func([]models.Position) []models.Position) {
	l.mu.Lock()
	defer l.mu.Unlock()

	snapshot := make([]models.Position, len(l.positions))
	copy(snapshot, l.positions)
	l.positions = mark(snapshot)
}

// State returns the open set and the realized accumulator under a single
// lock acquisition. Readers assembling totals must use this rather than
// separate Positions/RealizedPnL calls, otherwise an exit landing between
// the two reads shows the same P&L both open and realized.
func (l *Ledger) State() ([]models.Position, float64) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	cp := make([]models.Position, len(l.positions))
	copy(cp, l.positions)
	return cp, l.realized
}

// Positions returns a snapshot of the open set.
func (l *Ledger) Positions() []models.Position {
	l.mu.RLock()
	defer l.mu.RUnlock()

	cp := make([]models.Position, len(l.positions))
	copy(cp, l.positions)
	return cp
}

// RealizedPnL returns the realized P&L accumulator.
func (l *Ledger) RealizedPnL() float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.realized
}

// UnrealizedPnL returns the sum of P&L over open positions.
func (l *Ledger) UnrealizedPnL() float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var total float64
	for _, p := range l.positions {
		total += p.PnL
	}
	return total
}

// TotalPnL returns realized plus unrealized P&L.
func (l *Ledger) TotalPnL() float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	total := l.realized
	for _, p := range l.positions {
		total += p.PnL
	}
	return total
}

// HasSource reports whether any open position carries the given source tag.
func (l *Ledger) HasSource(source models.PositionSource) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, p := range l.positions {
		if p.Source == source {
			return true
		}
	}
	return false
}

// OpenCount returns the number of open positions.
func (l *Ledger) OpenCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.positions)
}
