// Package api exposes the latest refresh cycle over a read-only HTTP API.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/tavern/internal/adapters/repository"
	"github.com/okian/tavern/internal/domain/matcher"
	"github.com/okian/tavern/internal/domain/model"
)

// Dependencies are the board reads the handlers need.
type Dependencies interface {
	TopN(ctx context.Context, n int, field matcher.SortField, ascending bool) ([]model.Listing, error)
	Listing(ctx context.Context, saleID string) (model.Listing, error)
	Heroes(ctx context.Context) repository.HeroesCycle
	Stats(ctx context.Context) repository.Stats
}

// Server wires HTTP routes for the API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	listingsHandler *ListingsHandler
	heroesHandler   *HeroesHandler
}

// Option configures the Server.
type Option func(*ListingsHandler)

// WithMaxLimit bounds the limit query parameter.
func WithMaxLimit(n int) Option {
	return func(h *ListingsHandler) {
		if n > 0 {
			h.maxLimit = n
		}
	}
}

// WithDefaultSort sets the order used when the request names none.
func WithDefaultSort(field matcher.SortField, ascending bool) Option {
	return func(h *ListingsHandler) {
		h.defaultField = field
		h.defaultAsc = ascending
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(deps),
		listingsHandler: NewListingsHandler(deps, opts...),
		heroesHandler:   NewHeroesHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/listings", MetricsMiddleware(s.listingsHandler.HandleGetListings, "listings"))
	mux.HandleFunc("/listings/", MetricsMiddleware(s.listingsHandler.HandleGetListing, "listing"))
	mux.HandleFunc("/heroes", MetricsMiddleware(s.heroesHandler.HandleGetHeroes, "heroes"))
}

// Handler returns a mux with every route registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.Register(mux)
	return mux
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
