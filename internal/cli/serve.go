package cli

import (
	"context"
	"fmt"
	"math/rand"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"algotrader/internal/market"
	"algotrader/internal/models"
	"algotrader/internal/server"
	"algotrader/internal/stream"
	"algotrader/internal/trading"
)

// buildEngine assembles a trading engine from the session configuration.
func buildEngine(app *App, onSnapshot func(trading.Snapshot)) (*trading.Engine, error) {
	session := app.Config.Session

	seed := session.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	quotes := []models.IndexQuote{
		{Name: models.Nifty, Price: session.NiftyOpen},
		{Name: models.BankNifty, Price: session.BankNiftyOpen},
	}

	simCfg := market.Config{
		Volatility: map[string]float64{
			models.Nifty:     session.NiftyVolatility,
			models.BankNifty: session.BankNiftyVolatility,
		},
		DriftMax: session.DriftMax,
	}
	sim, err := market.NewSimulator(simCfg, quotes, rng)
	if err != nil {
		return nil, fmt.Errorf("building simulator: %w", err)
	}

	app.Logger.Info().Int64("seed", seed).Msg("trading session seeded")

	return trading.NewEngine(trading.EngineConfig{
		Simulator:    sim,
		Marker:       trading.NewMarker(rand.New(rand.NewSource(seed + 1))),
		TickInterval: session.TickInterval,
		Logger:       app.Logger,
		OnSnapshot:   onSnapshot,
	}, quotes), nil
}

func newServeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard server",
		Long: `Start the paper-trading engine and serve the dashboard API.

The engine ticks simulated quotes while the market is open, marks open
positions to market, and pushes a snapshot to every connected WebSocket
client on each tick. REST endpoints cover market data, portfolio state,
position entry and exit, and AI trade ideas.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Advisor == nil {
				app.Logger.Warn().Msg("no OpenAI API key configured, /api/advice will be unavailable")
			}

			hub := stream.NewHub()
			engine, err := buildEngine(app, hub.Publish)
			if err != nil {
				return err
			}

			srv := server.New(server.Config{
				ListenAddr:      app.Config.Server.ListenAddr,
				ShutdownTimeout: app.Config.Server.ShutdownTimeout,
			}, engine, hub, app.Advisor, app.Logger)

			// Shut everything down on SIGINT or SIGTERM.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			hub.Start(ctx)
			engine.Start(ctx)
			defer func() {
				engine.Stop()
				hub.Stop()
			}()

			return srv.Start(ctx)
		},
	}

	return cmd
}
