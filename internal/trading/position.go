// Package trading provides the paper-trading state engine: position
// mark-to-market, the portfolio ledger, and the periodic session tick.
package trading

import (
	"strings"

	"algotrader/internal/models"
)

// Lot sizes for the two index option families.
const (
	NiftyLotSize     = 25
	BankNiftyLotSize = 15
)

// PriceFloor is the minimum positive price a marked position can reach.
const PriceFloor = 0.05

// LotSize returns the contract lot size implied by an option instrument
// name. BANK NIFTY contracts carry the smaller lot.
func LotSize(instrument string) int {
	if strings.Contains(strings.ToUpper(instrument), "BANK") {
		return BankNiftyLotSize
	}
	return NiftyLotSize
}

// PositionPnL returns the mark-to-market P&L for a position:
// (current - entry) x side sign x lot size x lots.
func PositionPnL(p models.Position) float64 {
	perShare := (p.CurrentPrice - p.EntryPrice) * p.Action.Sign()
	return perShare * float64(LotSize(p.Instrument)) * float64(p.Quantity)
}
