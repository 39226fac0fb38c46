package api

import (
	"context"
	"net/http"
	"time"

	"github.com/okian/tavern/internal/adapters/repository"
)

// StatsProvider reports the board summary.
type StatsProvider interface {
	Stats(ctx context.Context) repository.Stats
}

// StatsHandler handles stats requests.
type StatsHandler struct {
	provider StatsProvider
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(p StatsProvider) *StatsHandler {
	return &StatsHandler{provider: p}
}

type statsResponse struct {
	ListingsCycleID string         `json:"listings_cycle_id,omitempty"`
	ListingsAt      *time.Time     `json:"listings_at,omitempty"`
	Source          string         `json:"source,omitempty"`
	Listings        int            `json:"listings"`
	Fetched         int            `json:"fetched"`
	Rejected        int            `json:"rejected"`
	New             int            `json:"new"`
	HeroesCycleID   string         `json:"heroes_cycle_id,omitempty"`
	HeroesAt        *time.Time     `json:"heroes_at,omitempty"`
	Heroes          map[string]int `json:"heroes"`
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// HandleStats handles GET /stats requests.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	s := h.provider.Stats(r.Context())
	heroes := make(map[string]int, len(s.Heroes))
	for st, n := range s.Heroes {
		heroes[string(st)] = n
	}
	writeJSON(w, http.StatusOK, statsResponse{
		ListingsCycleID: s.ListingsCycleID,
		ListingsAt:      timePtr(s.ListingsAt),
		Source:          s.Source,
		Listings:        s.Listings,
		Fetched:         s.Fetched,
		Rejected:        s.Rejected,
		New:             s.New,
		HeroesCycleID:   s.HeroesCycleID,
		HeroesAt:        timePtr(s.HeroesAt),
		Heroes:          heroes,
	})
}
