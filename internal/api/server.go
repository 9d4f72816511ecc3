// Package api is the HTTP surface of the planner: plan submission, plan
// retrieval, and event streaming over SSE and WebSocket.
package api

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/time/rate"

	"airhaul/internal/buildinfo"
	"airhaul/internal/config"
	"airhaul/internal/geo"
	"airhaul/internal/model"
	"airhaul/internal/store"
)

type Server struct {
	Cfg      config.Config
	Store    store.Store
	Broker   EventBroker
	Airports []model.Airport
	Resolver *geo.Resolver

	limiter *rate.Limiter
}

// NewServer wires the store and broker from configuration. Without a
// DATABASE_URL plans live in memory; without a REDIS_URL events stay
// process-local.
func NewServer(cfg config.Config, airports []model.Airport) (*Server, error) {
	var st store.Store
	if cfg.DatabaseURL == "" {
		st = store.NewMemory()
	} else {
		pg, err := store.NewPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect store: %w", err)
		}
		if err := pg.InitSchema(context.Background()); err != nil {
			return nil, err
		}
		st = pg
	}

	var broker EventBroker
	if cfg.RedisURL != "" {
		rb, err := NewRedisBroker(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("connect broker: %w", err)
		}
		broker = rb
	} else {
		broker = NewBroker()
	}

	return &Server{
		Cfg:      cfg,
		Store:    st,
		Broker:   broker,
		Airports: airports,
		Resolver: geo.NewResolver(airports),
		limiter:  rate.NewLimiter(rate.Limit(cfg.RateLimit.RPS), cfg.RateLimit.Burst),
	}, nil
}

// Routes registers every handler on the mux.
func (s *Server) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/solve", s.limitSolve(s.SolveHandler))
	mux.HandleFunc("/v1/plans", s.PlansHandler)
	mux.HandleFunc("/v1/plans/", s.PlanByIDHandler) // includes /events/stream
	mux.HandleFunc("/v1/plans-ws", s.PlansWSHandler)
	mux.HandleFunc("/healthz", s.HealthHandler)
	mux.HandleFunc("/readyz", s.ReadyHandler)
	mux.Handle("/metrics", s.MetricsHandler())
}

func (s *Server) buildInfo() map[string]string { return buildinfo.Info() }
