package cli

import (
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"algotrader/internal/market"
	"algotrader/internal/markethours"
	"algotrader/internal/models"
	"algotrader/internal/trading"
	"algotrader/pkg/utils"
)

func newSimulateCmd(app *App) *cobra.Command {
	var (
		ticks int
		seed  int64
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run an offline paper-trading session in the terminal",
		Long: `Run a deterministic offline session: the engine steps through simulated
trading-hours ticks without waiting for wall-clock time, marking a sample
position to market, and prints the resulting quotes and P&L.

The same --seed always reproduces the same session.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			session := app.Config.Session

			rng := rand.New(rand.NewSource(seed))
			quotes := []models.IndexQuote{
				{Name: models.Nifty, Price: session.NiftyOpen},
				{Name: models.BankNifty, Price: session.BankNiftyOpen},
			}
			sim, err := market.NewSimulator(market.Config{
				Volatility: map[string]float64{
					models.Nifty:     session.NiftyVolatility,
					models.BankNifty: session.BankNiftyVolatility,
				},
				DriftMax: session.DriftMax,
			}, quotes, rng)
			if err != nil {
				return err
			}

			engine := trading.NewEngine(trading.EngineConfig{
				Simulator: sim,
				Marker:    trading.NewMarker(rand.New(rand.NewSource(seed + 1))),
				Logger:    app.Logger,
			}, quotes)

			// Open one sample position per index so the session has P&L to show.
			engine.AddPosition(models.OptionPick{
				Instrument: "NIFTY 23500 CE",
				Action:     models.ActionBuy,
				EntryPrice: 150,
			})
			engine.AddPosition(models.OptionPick{
				Instrument: "BANK NIFTY 50000 PE",
				Action:     models.ActionSell,
				EntryPrice: 420,
			})

			// Step through simulated trading-hours instants; a recent Wednesday
			// keeps every step inside the clock gate.
			at := time.Date(2026, time.August, 26, markethours.OpenHour, markethours.OpenMinute, 0, 0, markethours.IST)
			for i := 0; i < ticks; i++ {
				engine.Step(at)
				at = at.Add(2 * time.Second)
			}

			snap := engine.Snapshot()
			if output.IsJSON() {
				return output.JSON(snap)
			}

			output.Bold("Market after %d ticks (seed %d)", ticks, seed)
			quoteTable := NewTable(output, "INDEX", "PRICE", "CHANGE")
			for _, q := range snap.Quotes {
				quoteTable.AddRow(q.Name, utils.FormatIndianCurrency(q.Price), output.FormatPercent(q.ChangePercent))
			}
			quoteTable.Render()
			output.Println()

			output.Bold("Positions")
			posTable := NewTable(output, "ID", "INSTRUMENT", "SIDE", "ENTRY", "CURRENT", "P&L")
			for _, p := range snap.Positions {
				posTable.AddRow(
					p.ID,
					p.Instrument,
					string(p.Action),
					utils.FormatIndianCurrency(p.EntryPrice),
					utils.FormatIndianCurrency(p.CurrentPrice),
					output.FormatPnL(p.PnL),
				)
			}
			posTable.Render()
			output.Println()
			output.Printf("Total P&L: %s\n", output.FormatPnL(snap.TotalPnL))
			return nil
		},
	}

	cmd.Flags().IntVar(&ticks, "ticks", 100, "number of simulated ticks to run")
	cmd.Flags().Int64Var(&seed, "seed", 42, "random seed for the session")

	return cmd
}
