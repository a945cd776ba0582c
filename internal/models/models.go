// Package models provides domain models for the paper-trading application.
package models

// Instrument names for the two simulated NSE indexes.
const (
	Nifty     = "NIFTY 50"
	BankNifty = "BANK NIFTY"
)

// Instruments returns the fixed set of tradeable index names.
func Instruments() []string {
	return []string{Nifty, BankNifty}
}

// Action represents the side of a position.
type Action string

const (
	ActionBuy  Action = "Buy"
	ActionSell Action = "Sell"
)

// Sign returns +1 for Buy and -1 for Sell, used in P&L calculation.
func (a Action) Sign() float64 {
	if a == ActionSell {
		return -1
	}
	return 1
}

// Valid reports whether the action is one of the two known sides.
func (a Action) Valid() bool {
	return a == ActionBuy || a == ActionSell
}

// PositionSource tags how a position entered the portfolio.
type PositionSource string

const (
	SourcePick     PositionSource = "pick"
	SourceStrategy PositionSource = "strategy"
)

// Valid reports whether the source is a known provenance tag.
func (s PositionSource) Valid() bool {
	return s == SourcePick || s == SourceStrategy
}

// IndexQuote is an immutable snapshot of a simulated index quote.
// Change is relative to the session-opening price, so the opening price
// stays recoverable as Price - Change at every tick.
type IndexQuote struct {
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
}

// OpeningPrice returns the session-opening price implied by the quote.
func (q IndexQuote) OpeningPrice() float64 {
	return q.Price - q.Change
}

// Position is a single open paper-trading position.
type Position struct {
	ID              string         `json:"id"`
	Instrument      string         `json:"instrument"` // e.g. "NIFTY 23500 CE"
	Action          Action         `json:"action"`
	EntryPrice      float64        `json:"entryPrice"`
	CurrentPrice    float64        `json:"currentPrice"`
	Quantity        int            `json:"quantity"` // number of lots
	PnL             float64        `json:"pnl"`
	Source          PositionSource `json:"source"`
	RequiredCapital float64        `json:"requiredCapital"`
}

// Strategy describes one entry of the options strategy catalog.
type Strategy struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// StrategyCatalog returns the built-in options strategy catalog.
func StrategyCatalog() []Strategy {
	return []Strategy{
		{
			ID:          "long_straddle",
			Name:        "Long Straddle",
			Description: "Buy a call and a put at the same strike. Profits from high volatility.",
		},
		{
			ID:          "bull_call_spread",
			Name:        "Bull Call Spread",
			Description: "Buy a call and sell a higher strike call. Profits from a moderate rise in price.",
		},
		{
			ID:          "bear_put_spread",
			Name:        "Bear Put Spread",
			Description: "Buy a put and sell a lower strike put. Profits from a moderate fall in price.",
		},
		{
			ID:          "iron_condor",
			Name:        "Iron Condor",
			Description: "Sell a call spread and a put spread. Profits from low volatility.",
		},
	}
}
