package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"algotrader/internal/advice"
	"algotrader/internal/market"
	"algotrader/internal/models"
	"algotrader/internal/stream"
	"algotrader/internal/trading"
)

type stubAdvisor struct {
	result *advice.Result
	err    error
	got    advice.Request
}

func (s *stubAdvisor) Advise(_ context.Context, req advice.Request) (*advice.Result, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func newTestServer(t *testing.T, advisor advice.Advisor) (*Server, *trading.Engine) {
	t.Helper()
	seed := market.SeedQuotes()
	sim, err := market.NewSimulator(market.DefaultConfig(), seed, rand.New(rand.NewSource(7)))
	require.NoError(t, err)

	engine := trading.NewEngine(trading.EngineConfig{
		Simulator: sim,
		Marker:    trading.NewMarker(rand.New(rand.NewSource(8))),
		Logger:    zerolog.Nop(),
	}, seed)

	srv := New(Config{ListenAddr: ":0"}, engine, stream.NewHub(), advisor, zerolog.Nop())
	return srv, engine
}

func doJSON(t *testing.T, srv *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func TestGetMarket(t *testing.T) {
	srv, _ := newTestServer(t, &stubAdvisor{})

	rec := doJSON(t, srv, http.MethodGet, "/api/market", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp marketResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Quotes, 2)
	assert.Equal(t, models.Nifty, resp.Quotes[0].Name)
	assert.Equal(t, models.BankNifty, resp.Quotes[1].Name)
	assert.Empty(t, resp.LastUpdated)
}

func TestGetStrategiesReturnsCatalog(t *testing.T) {
	srv, _ := newTestServer(t, &stubAdvisor{})

	rec := doJSON(t, srv, http.MethodGet, "/api/strategies", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var strategies []models.Strategy
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &strategies))
	assert.Len(t, strategies, 4)
}

func TestAddPositionAndPortfolio(t *testing.T) {
	srv, _ := newTestServer(t, &stubAdvisor{})

	pick := models.OptionPick{
		Instrument:      "NIFTY 23500 CE",
		Action:          models.ActionBuy,
		EntryPrice:      150,
		RequiredCapital: 3750,
	}
	rec := doJSON(t, srv, http.MethodPost, "/api/positions", pick)
	require.Equal(t, http.StatusCreated, rec.Code)

	var pos models.Position
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pos))
	assert.NotEmpty(t, pos.ID)
	assert.Equal(t, 150.0, pos.CurrentPrice)
	assert.Equal(t, models.SourcePick, pos.Source)

	rec = doJSON(t, srv, http.MethodGet, "/api/portfolio", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var pf portfolioResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pf))
	require.Len(t, pf.Positions, 1)
	assert.True(t, pf.HasPicks)
	assert.False(t, pf.HasStrategies)
}

func TestAddPositionRejectsBadBody(t *testing.T) {
	srv, _ := newTestServer(t, &stubAdvisor{})

	tests := []struct {
		name string
		body interface{}
	}{
		{"missing instrument", models.OptionPick{Action: models.ActionBuy, EntryPrice: 100}},
		{"bad action", models.OptionPick{Instrument: "NIFTY 23500 CE", Action: "Hold", EntryPrice: 100}},
		{"zero entry", models.OptionPick{Instrument: "NIFTY 23500 CE", Action: models.ActionBuy}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, srv, http.MethodPost, "/api/positions", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestAddStrategyPositionsSplitsCapital(t *testing.T) {
	srv, _ := newTestServer(t, &stubAdvisor{})

	req := addStrategyRequest{
		Legs: []models.StrategyLeg{
			{Instrument: "NIFTY 23500 CE", Action: models.ActionBuy, EntryPrice: 150},
			{Instrument: "NIFTY 23700 CE", Action: models.ActionSell, EntryPrice: 80},
			{Instrument: "NIFTY 23300 PE", Action: models.ActionSell, EntryPrice: 90},
		},
		RequiredCapital: 900,
	}
	rec := doJSON(t, srv, http.MethodPost, "/api/strategies/positions", req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var opened []models.Position
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &opened))
	require.Len(t, opened, 3)
	for _, pos := range opened {
		assert.InDelta(t, 300.0, pos.RequiredCapital, 1e-9)
		assert.Equal(t, models.SourceStrategy, pos.Source)
	}
}

func TestDeletePositionAndExits(t *testing.T) {
	srv, engine := newTestServer(t, &stubAdvisor{})
	pos := engine.AddPosition(models.OptionPick{Instrument: "NIFTY 23500 CE", Action: models.ActionBuy, EntryPrice: 150})
	engine.AddStrategyLegs([]models.StrategyLeg{
		{Instrument: "BANK NIFTY 50000 CE", Action: models.ActionBuy, EntryPrice: 400},
	}, 6000)

	rec := doJSON(t, srv, http.MethodDelete, "/api/positions/"+pos.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, engine.Ledger().OpenCount())

	// Unknown id is accepted silently.
	rec = doJSON(t, srv, http.MethodDelete, "/api/positions/POS-999999-deadbeef", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodPost, "/api/exits", exitsRequest{Source: "strategy"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, engine.Ledger().OpenCount())

	rec = doJSON(t, srv, http.MethodPost, "/api/exits", exitsRequest{Source: "everything"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdviceFillsSpotPrice(t *testing.T) {
	stub := &stubAdvisor{result: &advice.Result{
		Kind: advice.KindSuggestion,
		Suggestion: &models.StrategySuggestion{
			StrategyName: "Iron Condor",
		},
	}}
	srv, _ := newTestServer(t, stub)

	rec := doJSON(t, srv, http.MethodPost, "/api/advice", advice.Request{
		Kind:       advice.KindSuggestion,
		Instrument: models.Nifty,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	assert.InDelta(t, market.DefaultNiftyOpen, stub.got.SpotPrice, 1e-9)

	var res advice.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.NotNil(t, res.Suggestion)
	assert.Equal(t, "Iron Condor", res.Suggestion.StrategyName)
}

func TestAdviceProviderFailureSurfacedVerbatim(t *testing.T) {
	stub := &stubAdvisor{err: errors.New("openai completion failed: 429 rate limited")}
	srv, engine := newTestServer(t, stub)
	engine.AddPosition(models.OptionPick{Instrument: "NIFTY 23500 CE", Action: models.ActionBuy, EntryPrice: 150})

	rec := doJSON(t, srv, http.MethodPost, "/api/advice", advice.Request{
		Kind:       advice.KindPicks,
		Instrument: models.Nifty,
	})
	require.Equal(t, http.StatusBadGateway, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "openai completion failed: 429 rate limited", resp.Error)

	// Ledger state untouched by the failure.
	assert.Equal(t, 1, engine.Ledger().OpenCount())
	assert.Zero(t, engine.Ledger().RealizedPnL())
}

func TestAdviceRejectsInvalidRequest(t *testing.T) {
	srv, _ := newTestServer(t, &stubAdvisor{})

	rec := doJSON(t, srv, http.MethodPost, "/api/advice", advice.Request{
		Kind:       advice.KindBacktest,
		Instrument: models.Nifty,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStrategySelect(t *testing.T) {
	srv, engine := newTestServer(t, &stubAdvisor{})

	var got trading.StrategySelection
	engine.OnStrategySelect(func(sel trading.StrategySelection) { got = sel })

	rec := doJSON(t, srv, http.MethodPost, "/api/strategies/select", trading.StrategySelection{
		StrategyName: "Long Straddle",
		Instrument:   models.BankNifty,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Long Straddle", got.StrategyName)

	rec = doJSON(t, srv, http.MethodPost, "/api/strategies/select", trading.StrategySelection{Instrument: models.Nifty})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
