package models

// StrategySuggestion is a single AI-suggested options strategy for an index.
type StrategySuggestion struct {
	StrategyName string               `json:"strategyName"`
	Rationale    string               `json:"rationale"`
	Parameters   SuggestionParameters `json:"parameters"`
	Risks        string               `json:"risks"`
}

// SuggestionParameters carries the tradable detail of a suggestion.
type SuggestionParameters struct {
	View             string `json:"view"` // Bullish, Bearish, Neutral, Volatile
	SuggestedStrikes string `json:"suggestedStrikes"`
	StopLoss         string `json:"stopLoss"`
}

// OptionPick is one ranked intraday option trade idea.
type OptionPick struct {
	Instrument      string  `json:"instrument"` // e.g. "NIFTY 23500 CE"
	Action          Action  `json:"action"`
	EntryPrice      float64 `json:"entryPrice"`
	RequiredCapital float64 `json:"requiredCapital"`
	PotentialProfit float64 `json:"potentialProfit"`
	PotentialLoss   float64 `json:"potentialLoss"`
	Rationale       string  `json:"rationale"`
}

// FoundStrategy is a strategy matching user-specified profit/loss targets.
type FoundStrategy struct {
	StrategyName     string  `json:"strategyName"`
	Rationale        string  `json:"rationale"`
	SuggestedStrikes string  `json:"suggestedStrikes"`
	EstimatedProfit  float64 `json:"estimatedProfit"`
	EstimatedLoss    float64 `json:"estimatedLoss"`
}

// StrategyLeg is one constituent position of a multi-leg options strategy.
type StrategyLeg struct {
	Instrument string  `json:"instrument"`
	Action     Action  `json:"action"`
	EntryPrice float64 `json:"entryPrice"`
}

// PnLPoint is one intraday point of a simulated P&L series.
type PnLPoint struct {
	Time      string  `json:"time"` // e.g. "10:30"
	PnLAmount float64 `json:"pnlAmount"`
}

// DailyPnLPoint is one day of a hypothetical multi-day P&L series.
type DailyPnLPoint struct {
	Date      string  `json:"date"` // ISO date, e.g. "2026-08-28"
	PnLAmount float64 `json:"pnlAmount"`
}

// BacktestResult is a one-day simulated backtest of a strategy on an index.
type BacktestResult struct {
	PnLPercent      float64         `json:"pnl"`       // percentage
	PnLAmount       float64         `json:"pnlAmount"` // absolute INR
	RequiredCapital float64         `json:"requiredCapital"`
	MaxLoss         float64         `json:"maxLoss"`
	StrategyLegs    []StrategyLeg   `json:"strategyLegs"`
	Commentary      string          `json:"commentary"`
	DataPoints      []PnLPoint      `json:"dataPoints"`
	HistoricalPnL   []DailyPnLPoint `json:"historicalPnl,omitempty"`
}
