// Package integration provides end-to-end tests for the paper-trading stack.
package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"algotrader/internal/advice"
	"algotrader/internal/market"
	"algotrader/internal/markethours"
	"algotrader/internal/models"
	"algotrader/internal/server"
	"algotrader/internal/stream"
	"algotrader/internal/trading"
)

type cannedAdvisor struct{}

func (cannedAdvisor) Advise(_ context.Context, req advice.Request) (*advice.Result, error) {
	return &advice.Result{
		Kind: req.Kind,
		Picks: []models.OptionPick{
			{Instrument: "NIFTY 23500 CE", Action: models.ActionBuy, EntryPrice: 150, RequiredCapital: 3750},
		},
	}, nil
}

// TestEndToEndSession walks the whole stack: positions enter over HTTP, the
// engine marks them across ticks, snapshots reach hub subscribers, and exits
// settle into realized P&L.
func TestEndToEndSession(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	seed := market.SeedQuotes()
	sim, err := market.NewSimulator(market.DefaultConfig(), seed, rand.New(rand.NewSource(99)))
	require.NoError(t, err)

	hub := stream.NewHub()
	hub.Start(ctx)
	defer hub.Stop()

	engine := trading.NewEngine(trading.EngineConfig{
		Simulator:  sim,
		Marker:     trading.NewMarker(rand.New(rand.NewSource(100))),
		Logger:     zerolog.Nop(),
		OnSnapshot: hub.Publish,
	}, seed)

	srv := server.New(server.Config{ListenAddr: ":0"}, engine, hub, cannedAdvisor{}, zerolog.Nop())
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	subID, snaps := hub.Subscribe()
	defer hub.Unsubscribe(subID)

	// Enter a pick over HTTP.
	pick, _ := json.Marshal(models.OptionPick{
		Instrument: "NIFTY 23500 CE", Action: models.ActionBuy, EntryPrice: 150, RequiredCapital: 3750,
	})
	resp, err := http.Post(ts.URL+"/api/positions", "application/json", bytes.NewReader(pick))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Enter a two-leg strategy over HTTP.
	strat, _ := json.Marshal(map[string]interface{}{
		"legs": []models.StrategyLeg{
			{Instrument: "BANK NIFTY 50000 CE", Action: models.ActionSell, EntryPrice: 410},
			{Instrument: "BANK NIFTY 50000 PE", Action: models.ActionSell, EntryPrice: 385},
		},
		"requiredCapital": 80000,
	})
	resp, err = http.Post(ts.URL+"/api/strategies/positions", "application/json", bytes.NewReader(strat))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Tick through a stretch of the trading day.
	at := time.Date(2026, time.August, 26, 11, 0, 0, 0, markethours.IST)
	for i := 0; i < 20; i++ {
		engine.Step(at)
		at = at.Add(2 * time.Second)
	}

	// A snapshot must have reached the hub subscriber.
	var last trading.Snapshot
	select {
	case last = <-snaps:
	case <-time.After(5 * time.Second):
		t.Fatal("no snapshot reached the hub subscriber")
	}
	// Drain to the most recent snapshot.
drain:
	for {
		select {
		case snap := <-snaps:
			last = snap
		default:
			break drain
		}
	}
	assert.Len(t, last.Positions, 3)
	assert.True(t, last.HasPicks)
	assert.True(t, last.HasStrategies)

	// The advice boundary returns ideas without touching the ledger.
	adviceReq, _ := json.Marshal(advice.Request{Kind: advice.KindPicks, Instrument: models.Nifty})
	resp, err = http.Post(ts.URL+"/api/advice", "application/json", bytes.NewReader(adviceReq))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	assert.Equal(t, 3, engine.Ledger().OpenCount())

	// Exit everything and check conservation: realized equals the sum of
	// position P&L at exit, unrealized returns to zero.
	snap := engine.Snapshot()
	var sum float64
	for _, p := range snap.Positions {
		sum += p.PnL
	}

	exitReq, _ := json.Marshal(map[string]string{"source": "all"})
	resp, err = http.Post(ts.URL+"/api/exits", "application/json", bytes.NewReader(exitReq))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	final := engine.Snapshot()
	assert.Empty(t, final.Positions)
	assert.InDelta(t, sum, final.RealizedPnL, 1e-9)
	assert.Zero(t, final.UnrealizedPnL)
	assert.InDelta(t, final.RealizedPnL, final.TotalPnL, 1e-9)
}

// TestClosedMarketEndToEnd confirms that outside trading hours the engine
// leaves quotes and positions untouched while mutations still apply.
func TestClosedMarketEndToEnd(t *testing.T) {
	seed := market.SeedQuotes()
	sim, err := market.NewSimulator(market.DefaultConfig(), seed, rand.New(rand.NewSource(5)))
	require.NoError(t, err)

	engine := trading.NewEngine(trading.EngineConfig{
		Simulator: sim,
		Marker:    trading.NewMarker(rand.New(rand.NewSource(6))),
		Logger:    zerolog.Nop(),
	}, seed)

	engine.AddPosition(models.OptionPick{Instrument: "NIFTY 23500 CE", Action: models.ActionBuy, EntryPrice: 150})

	saturday := time.Date(2026, time.August, 29, 11, 0, 0, 0, markethours.IST)
	for i := 0; i < 10; i++ {
		engine.Step(saturday)
	}

	snap := engine.Snapshot()
	assert.False(t, snap.MarketOpen)
	require.Len(t, snap.Positions, 1)
	assert.Equal(t, 150.0, snap.Positions[0].CurrentPrice)
	assert.Zero(t, snap.Positions[0].PnL)

	// Exits work while closed.
	engine.ExitAll()
	assert.Zero(t, engine.Ledger().OpenCount())
}
