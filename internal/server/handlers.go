package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"algotrader/internal/advice"
	"algotrader/internal/models"
	"algotrader/internal/trading"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// marketResponse is the GET /api/market payload.
type marketResponse struct {
	Quotes       []models.IndexQuote `json:"quotes"`
	MarketOpen   bool                `json:"marketOpen"`
	MarketStatus string              `json:"marketStatus"`
	LastUpdated  string              `json:"lastUpdated,omitempty"`
}

func (s *Server) handleMarket(w http.ResponseWriter, r *http.Request) {
	snap := s.engine.Snapshot()
	resp := marketResponse{
		Quotes:       snap.Quotes,
		MarketOpen:   snap.MarketOpen,
		MarketStatus: snap.MarketStatus,
	}
	if !snap.LastUpdated.IsZero() {
		resp.LastUpdated = snap.LastUpdated.Format("15:04:05")
	}
	writeJSON(w, http.StatusOK, resp)
}

// portfolioResponse is the GET /api/portfolio payload.
type portfolioResponse struct {
	Positions     []models.Position `json:"positions"`
	RealizedPnL   float64           `json:"realizedPnl"`
	UnrealizedPnL float64           `json:"unrealizedPnl"`
	TotalPnL      float64           `json:"totalPnl"`
	HasPicks      bool              `json:"hasPicks"`
	HasStrategies bool              `json:"hasStrategies"`
}

func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	snap := s.engine.Snapshot()
	writeJSON(w, http.StatusOK, portfolioResponse{
		Positions:     snap.Positions,
		RealizedPnL:   snap.RealizedPnL,
		UnrealizedPnL: snap.UnrealizedPnL,
		TotalPnL:      snap.TotalPnL,
		HasPicks:      snap.HasPicks,
		HasStrategies: snap.HasStrategies,
	})
}

func (s *Server) handleStrategies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.StrategyCatalog())
}

func (s *Server) handleStrategySelect(w http.ResponseWriter, r *http.Request) {
	var sel trading.StrategySelection
	if err := json.NewDecoder(r.Body).Decode(&sel); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if sel.StrategyName == "" {
		writeError(w, http.StatusBadRequest, "strategyName is required")
		return
	}
	if sel.Instrument != models.Nifty && sel.Instrument != models.BankNifty {
		writeError(w, http.StatusBadRequest, "unknown instrument")
		return
	}
	s.engine.SelectStrategy(sel)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAddPosition(w http.ResponseWriter, r *http.Request) {
	var pick models.OptionPick
	if err := json.NewDecoder(r.Body).Decode(&pick); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if pick.Instrument == "" {
		writeError(w, http.StatusBadRequest, "instrument is required")
		return
	}
	if !pick.Action.Valid() {
		writeError(w, http.StatusBadRequest, "action must be Buy or Sell")
		return
	}
	if pick.EntryPrice <= 0 {
		writeError(w, http.StatusBadRequest, "entryPrice must be positive")
		return
	}
	pos := s.engine.AddPosition(pick)
	writeJSON(w, http.StatusCreated, pos)
}

// addStrategyRequest is the POST /api/strategies/positions body.
type addStrategyRequest struct {
	Legs            []models.StrategyLeg `json:"legs"`
	RequiredCapital float64              `json:"requiredCapital"`
}

func (s *Server) handleAddStrategyPositions(w http.ResponseWriter, r *http.Request) {
	var req addStrategyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(req.Legs) == 0 {
		writeError(w, http.StatusBadRequest, "at least one leg is required")
		return
	}
	for _, leg := range req.Legs {
		if leg.Instrument == "" || !leg.Action.Valid() || leg.EntryPrice <= 0 {
			writeError(w, http.StatusBadRequest, "each leg needs instrument, action and a positive entryPrice")
			return
		}
	}
	opened := s.engine.AddStrategyLegs(req.Legs, req.RequiredCapital)
	writeJSON(w, http.StatusCreated, opened)
}

func (s *Server) handleExitPosition(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	// Exiting an unknown id is a silent no-op by design of the ledger.
	s.engine.ExitPosition(id)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// exitsRequest is the POST /api/exits body.
type exitsRequest struct {
	Source string `json:"source"` // "pick", "strategy" or "all"
}

func (s *Server) handleExits(w http.ResponseWriter, r *http.Request) {
	var req exitsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	switch req.Source {
	case "all":
		s.engine.ExitAll()
	case string(models.SourcePick):
		s.engine.ExitBySource(models.SourcePick)
	case string(models.SourceStrategy):
		s.engine.ExitBySource(models.SourceStrategy)
	default:
		writeError(w, http.StatusBadRequest, "source must be pick, strategy or all")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAdvice(w http.ResponseWriter, r *http.Request) {
	if s.advisor == nil {
		writeError(w, http.StatusServiceUnavailable, "no advice provider configured")
		return
	}

	var req advice.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Attach the live spot price when the caller did not provide one.
	if req.SpotPrice == 0 {
		for _, q := range s.engine.Quotes() {
			if q.Name == req.Instrument {
				req.SpotPrice = q.Price
			}
		}
	}

	result, err := s.advisor.Advise(r.Context(), req)
	if err != nil {
		s.log.Error().Err(err).Str("kind", string(req.Kind)).Msg("advice request failed")
		// Provider failures are surfaced verbatim to the caller.
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}
