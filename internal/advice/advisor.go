// Package advice provides the boundary to external trade-idea providers.
package advice

import (
	"context"
	"fmt"

	"algotrader/internal/models"
)

// Kind identifies which advice capability a request targets.
type Kind string

const (
	// KindSuggestion asks for one options strategy suited to an index.
	KindSuggestion Kind = "suggestion"
	// KindPicks asks for ranked intraday option trade ideas.
	KindPicks Kind = "picks"
	// KindFinder asks for strategies matching profit/loss targets.
	KindFinder Kind = "finder"
	// KindBacktest asks for a simulated one-day backtest of a strategy.
	KindBacktest Kind = "backtest"
)

// Valid reports whether k is a known advice kind.
func (k Kind) Valid() bool {
	switch k {
	case KindSuggestion, KindPicks, KindFinder, KindBacktest:
		return true
	}
	return false
}

// Request describes one advice request.
type Request struct {
	Kind         Kind    `json:"kind"`
	Instrument   string  `json:"instrument"`
	SpotPrice    float64 `json:"spotPrice,omitempty"`
	TargetProfit float64 `json:"targetProfit,omitempty"`
	MaxLoss      float64 `json:"maxLoss,omitempty"`
	Strategy     string  `json:"strategy,omitempty"`
}

// Validate checks the request for the fields its kind requires.
func (r Request) Validate() error {
	if !r.Kind.Valid() {
		return fmt.Errorf("unknown advice kind %q", r.Kind)
	}
	if r.Instrument != models.Nifty && r.Instrument != models.BankNifty {
		return fmt.Errorf("unknown instrument %q", r.Instrument)
	}
	switch r.Kind {
	case KindFinder:
		if r.TargetProfit <= 0 {
			return fmt.Errorf("target profit must be positive")
		}
		if r.MaxLoss <= 0 {
			return fmt.Errorf("max loss must be positive")
		}
	case KindBacktest:
		if r.Strategy == "" {
			return fmt.Errorf("strategy name is required")
		}
	}
	return nil
}

// Result holds the payload for one advice response. Exactly one payload
// field is set, matching the request kind.
type Result struct {
	Kind       Kind                       `json:"kind"`
	Suggestion *models.StrategySuggestion `json:"suggestion,omitempty"`
	Picks      []models.OptionPick        `json:"picks,omitempty"`
	Strategies []models.FoundStrategy     `json:"strategies,omitempty"`
	Backtest   *models.BacktestResult     `json:"backtest,omitempty"`
}

// Advisor is the single capability boundary to an external idea provider.
type Advisor interface {
	Advise(ctx context.Context, req Request) (*Result, error)
}
