package trading

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"algotrader/internal/market"
	"algotrader/internal/markethours"
	"algotrader/internal/models"
)

// DefaultTickInterval is the simulation tick period.
const DefaultTickInterval = 2 * time.Second

// Snapshot is an immutable view of the whole session, handed to the
// rendering layer after every tick and ledger mutation.
type Snapshot struct {
	Quotes        []models.IndexQuote `json:"quotes"`
	MarketOpen    bool                `json:"marketOpen"`
	MarketStatus  string              `json:"marketStatus"`
	LastUpdated   time.Time           `json:"lastUpdated"`
	Positions     []models.Position   `json:"positions"`
	RealizedPnL   float64             `json:"realizedPnl"`
	UnrealizedPnL float64             `json:"unrealizedPnl"`
	TotalPnL      float64             `json:"totalPnl"`
	HasPicks      bool                `json:"hasPicks"`
	HasStrategies bool                `json:"hasStrategies"`
}

// StrategySelection is a chosen strategy handed downstream for simulation.
type StrategySelection struct {
	StrategyName string `json:"strategyName"`
	Instrument   string `json:"instrument"`
}

// EngineConfig holds engine construction parameters.
type EngineConfig struct {
	Simulator    *market.Simulator
	Marker       *Marker
	TickInterval time.Duration
	Logger       zerolog.Logger

	// Clock returns the current time; overridable for tests.
	Clock func() time.Time

	// OnSnapshot, when set, receives a fresh snapshot after every tick.
	OnSnapshot func(Snapshot)
}

// Engine owns the session state: quotes, the ledger, and the periodic tick.
// Quotes are guarded by the engine mutex; the ledger guards its own state.
// Step holds the engine mutex across the quote tick and the reprice, and
// Snapshot reads the ledger while holding the same mutex, so a reader never
// observes ticked quotes paired with unmarked positions. Lock order is
// always engine mutex before ledger mutex.
type Engine struct {
	sim      *market.Simulator
	marker   *Marker
	ledger   *Ledger
	interval time.Duration
	log      zerolog.Logger
	now      func() time.Time
	publish  func(Snapshot)

	mu          sync.RWMutex
	quotes      []models.IndexQuote
	lastUpdated time.Time

	onSelect func(StrategySelection)

	startOnce sync.Once
	stopOnce  sync.Once
	done      chan struct{}
}

// NewEngine creates an Engine over the given seed quotes.
func NewEngine(cfg EngineConfig, seed []models.IndexQuote) *Engine {
	interval := cfg.TickInterval
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	quotes := make([]models.IndexQuote, len(seed))
	copy(quotes, seed)

	return &Engine{
		sim:      cfg.Simulator,
		marker:   cfg.Marker,
		ledger:   NewLedger(),
		interval: interval,
		log:      cfg.Logger,
		now:      clock,
		publish:  cfg.OnSnapshot,
		quotes:   quotes,
		done:     make(chan struct{}),
	}
}

// Start launches the periodic tick loop. It returns immediately; the loop
// runs until ctx is cancelled or Stop is called. Calling Start twice is a
// no-op.
func (e *Engine) Start(ctx context.Context) {
	e.startOnce.Do(func() {
		go e.run(ctx)
	})
}

// Stop cancels the tick loop. It is safe to call Stop any number of times
// and from any goroutine; only the first call has an effect.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() {
		close(e.done)
	})
}

func (e *Engine) run(ctx context.Context) {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	e.log.Info().Dur("interval", e.interval).Msg("session tick loop started")
	for {
		select {
		case <-ctx.Done():
			e.log.Info().Msg("session tick loop stopped: context cancelled")
			return
		case <-e.done:
			e.log.Info().Msg("session tick loop stopped")
			return
		case <-ticker.C:
			e.Step(e.now())
		}
	}
}

// Step runs one simulation tick at the given time. Quotes and open
// positions only move while the market is open; a closed market leaves all
// state untouched. Exposed so tests can drive the engine manually.
func (e *Engine) Step(now time.Time) {
	if !markethours.IsMarketOpen(now) {
		return
	}

	e.mu.Lock()
	e.quotes = e.sim.Tick(e.quotes)
	e.lastUpdated = now
	e.ledger.Reprice(e.marker.Mark)
	e.mu.Unlock()

	e.log.Debug().Time("at", now).Int("positions", e.ledger.OpenCount()).Msg("tick applied")
	e.notify()
}

// notify hands a fresh snapshot to the publisher, if any.
func (e *Engine) notify() {
	if e.publish != nil {
		e.publish(e.Snapshot())
	}
}

// Quotes returns a snapshot of the current index quotes.
func (e *Engine) Quotes() []models.IndexQuote {
	e.mu.RLock()
	defer e.mu.RUnlock()

	cp := make([]models.IndexQuote, len(e.quotes))
	copy(cp, e.quotes)
	return cp
}

// LastUpdated returns the time of the last applied tick.
func (e *Engine) LastUpdated() time.Time {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.lastUpdated
}

// MarketOpen reports whether the simulated exchange is currently open.
func (e *Engine) MarketOpen() bool {
	return markethours.IsMarketOpen(e.now())
}

// MarketStatus returns the "OPEN"/"CLOSED" status label.
func (e *Engine) MarketStatus() string {
	return markethours.StatusText(e.now())
}

// Ledger returns the portfolio ledger.
func (e *Engine) Ledger() *Ledger {
	return e.ledger
}

// AddPosition opens a position from a pick and publishes a snapshot.
func (e *Engine) AddPosition(pick models.OptionPick) models.Position {
	pos := e.ledger.AddPosition(pick)
	e.log.Info().Str("id", pos.ID).Str("instrument", pos.Instrument).Str("action", string(pos.Action)).Msg("position opened")
	e.notify()
	return pos
}

// AddStrategyLegs opens one position per strategy leg and publishes a snapshot.
func (e *Engine) AddStrategyLegs(legs []models.StrategyLeg, totalRequiredCapital float64) []models.Position {
	opened := e.ledger.AddStrategyLegs(legs, totalRequiredCapital)
	e.log.Info().Int("legs", len(opened)).Float64("capital", totalRequiredCapital).Msg("strategy added to portfolio")
	e.notify()
	return opened
}

// ExitPosition closes one position by id and publishes a snapshot.
func (e *Engine) ExitPosition(id string) {
	e.ledger.ExitPosition(id)
	e.log.Info().Str("id", id).Float64("realized", e.ledger.RealizedPnL()).Msg("position exited")
	e.notify()
}

// ExitBySource closes every position with the given source tag and
// publishes a snapshot.
func (e *Engine) ExitBySource(source models.PositionSource) {
	e.ledger.ExitBySource(source)
	e.log.Info().Str("source", string(source)).Float64("realized", e.ledger.RealizedPnL()).Msg("positions exited by source")
	e.notify()
}

// ExitAll closes every open position and publishes a snapshot.
func (e *Engine) ExitAll() {
	e.ledger.ExitAll()
	e.log.Info().Float64("realized", e.ledger.RealizedPnL()).Msg("all positions exited")
	e.notify()
}

// OnStrategySelect registers the downstream callback invoked when a
// strategy is chosen for simulation.
func (e *Engine) OnStrategySelect(fn func(StrategySelection)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onSelect = fn
}

// SelectStrategy hands a chosen strategy name and instrument downstream.
func (e *Engine) SelectStrategy(sel StrategySelection) {
	e.mu.RLock()
	fn := e.onSelect
	e.mu.RUnlock()

	if fn != nil {
		fn(sel)
	}
}

// Snapshot assembles the full dashboard view of the session.
func (e *Engine) Snapshot() Snapshot {
	e.mu.RLock()
	quotes := make([]models.IndexQuote, len(e.quotes))
	copy(quotes, e.quotes)
	updated := e.lastUpdated
	positions, realized := e.ledger.State()
	e.mu.RUnlock()

	now := e.now()

	var unrealized float64
	hasPicks, hasStrategies := false, false
	for _, p := range positions {
		unrealized += p.PnL
		switch p.Source {
		case models.SourcePick:
			hasPicks = true
		case models.SourceStrategy:
			hasStrategies = true
		}
	}

	return Snapshot{
		Quotes:        quotes,
		MarketOpen:    markethours.IsMarketOpen(now),
		MarketStatus:  markethours.StatusText(now),
		LastUpdated:   updated,
		Positions:     positions,
		RealizedPnL:   realized,
		UnrealizedPnL: unrealized,
		TotalPnL:      realized + unrealized,
		HasPicks:      hasPicks,
		HasStrategies: hasStrategies,
	}
}
