package advice

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are an expert intraday options strategist for Indian index derivatives (NIFTY 50 and BANK NIFTY).
Respond with a single JSON object only. No prose, no markdown fences, no commentary outside the JSON.`

func suggestionPrompt(req Request) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Suggest one intraday options strategy for %s", req.Instrument))
	if req.SpotPrice > 0 {
		sb.WriteString(fmt.Sprintf(" currently trading at %.2f", req.SpotPrice))
	}
	sb.WriteString(".\n\n")
	sb.WriteString(`Respond with JSON of this exact shape:
{
  "strategyName": "<name>",
  "rationale": "<one paragraph on why this strategy fits today's conditions>",
  "parameters": {
    "view": "Bullish|Bearish|Neutral|Volatile",
    "suggestedStrikes": "<strike selection, e.g. 'Buy 23500 CE, Sell 23700 CE'>",
    "stopLoss": "<exit rule>"
  },
  "risks": "<key risks in one or two sentences>"
}`)
	return sb.String()
}

func picksPrompt(req Request) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Give your top 5 intraday option trades for %s", req.Instrument))
	if req.SpotPrice > 0 {
		sb.WriteString(fmt.Sprintf(" with spot at %.2f", req.SpotPrice))
	}
	sb.WriteString(". Use realistic strikes near the money and realistic premiums.\n\n")
	sb.WriteString(`Respond with a JSON array of exactly 5 objects of this shape:
[
  {
    "instrument": "<e.g. 'NIFTY 23500 CE'>",
    "action": "Buy|Sell",
    "entryPrice": <premium per unit>,
    "requiredCapital": <INR>,
    "potentialProfit": <INR>,
    "potentialLoss": <INR>,
    "rationale": "<one sentence>"
  }
]`)
	return sb.String()
}

func finderPrompt(req Request) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(
		"Find intraday options strategies on %s targeting a profit of about %.0f INR with maximum loss capped near %.0f INR.",
		req.Instrument, req.TargetProfit, req.MaxLoss))
	if req.SpotPrice > 0 {
		sb.WriteString(fmt.Sprintf(" Spot is %.2f.", req.SpotPrice))
	}
	sb.WriteString("\n\n")
	sb.WriteString(`Respond with a JSON array of up to 3 objects of this shape:
[
  {
    "strategyName": "<name>",
    "rationale": "<why it meets the targets>",
    "suggestedStrikes": "<strike selection>",
    "estimatedProfit": <INR>,
    "estimatedLoss": <INR>
  }
]`)
	return sb.String()
}

func backtestPrompt(req Request) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(
		"Simulate a plausible one-day intraday backtest of the %q strategy on %s.", req.Strategy, req.Instrument))
	if req.SpotPrice > 0 {
		sb.WriteString(fmt.Sprintf(" Spot opens at %.2f.", req.SpotPrice))
	}
	sb.WriteString(" Include the constituent legs with realistic premiums, an intraday P&L series from 09:15 to 15:30 at 30-minute intervals, and a hypothetical daily P&L for the preceding 7 trading days.\n\n")
	sb.WriteString(`Respond with JSON of this exact shape:
{
  "pnl": <day P&L as a percentage of required capital>,
  "pnlAmount": <day P&L in INR>,
  "requiredCapital": <INR>,
  "maxLoss": <worst-case INR loss>,
  "strategyLegs": [
    {"instrument": "<e.g. 'NIFTY 23500 CE'>", "action": "Buy|Sell", "entryPrice": <premium>}
  ],
  "commentary": "<one paragraph on how the day played out>",
  "dataPoints": [{"time": "09:15", "pnlAmount": <INR>}],
  "historicalPnl": [{"date": "<ISO date>", "pnlAmount": <INR>}]
}`)
	return sb.String()
}

// stripJSONFences removes a markdown code fence if the model wrapped its
// JSON despite instructions.
func stripJSONFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
