// Package server exposes the trading session over HTTP for the dashboard.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"algotrader/internal/advice"
	"algotrader/internal/stream"
	"algotrader/internal/trading"
)

// Config holds server configuration.
type Config struct {
	ListenAddr      string
	ShutdownTimeout time.Duration
}

// Server serves the dashboard REST API and WebSocket snapshot feed.
type Server struct {
	cfg     Config
	engine  *trading.Engine
	hub     *stream.Hub
	advisor advice.Advisor
	log     zerolog.Logger
	httpSrv *http.Server
}

// New creates a Server wired to the given engine, hub and advisor.
func New(cfg Config, engine *trading.Engine, hub *stream.Hub, advisor advice.Advisor, log zerolog.Logger) *Server {
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	s := &Server{
		cfg:     cfg,
		engine:  engine,
		hub:     hub,
		advisor: advisor,
		log:     log,
	}
	s.httpSrv = &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: s.Router(),
	}
	return s
}

// Router builds the chi router with all API routes.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware)

	r.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			s.log.Error().Err(err).Msg("healthcheck write failed")
		}
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/market", s.handleMarket)
		r.Get("/portfolio", s.handlePortfolio)
		r.Get("/strategies", s.handleStrategies)
		r.Post("/strategies/select", s.handleStrategySelect)
		r.Post("/strategies/positions", s.handleAddStrategyPositions)
		r.Post("/positions", s.handleAddPosition)
		r.Delete("/positions/{id}", s.handleExitPosition)
		r.Post("/exits", s.handleExits)
		r.Post("/advice", s.handleAdvice)
	})

	r.Get("/ws", s.handleWebSocket)

	return r
}

// Start runs the server until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.cfg.ListenAddr).Msg("http server listening")
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info().Msg("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	return s.httpSrv.Shutdown(shutdownCtx)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
