package api

import (
	"context"
	"net/http"
	"time"

	"github.com/okian/tavern/internal/adapters/repository"
)

// HeroesDependencies defines the board read for hero statuses.
type HeroesDependencies interface {
	Heroes(ctx context.Context) repository.HeroesCycle
}

// HeroesHandler handles hero status requests.
type HeroesHandler struct {
	deps HeroesDependencies
}

// NewHeroesHandler creates a new heroes handler.
func NewHeroesHandler(deps HeroesDependencies) *HeroesHandler {
	return &HeroesHandler{deps: deps}
}

type heroesResponse struct {
	CycleID string     `json:"cycle_id,omitempty"`
	At      *time.Time `json:"at,omitempty"`
	Heroes  []heroDTO  `json:"heroes"`
}

// HandleGetHeroes handles GET /heroes requests.
func (h *HeroesHandler) HandleGetHeroes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	c := h.deps.Heroes(r.Context())
	resp := heroesResponse{CycleID: c.ID, At: timePtr(c.At), Heroes: make([]heroDTO, 0, len(c.Statuses))}
	for _, s := range c.Statuses {
		resp.Heroes = append(resp.Heroes, toHeroDTO(s))
	}
	writeJSON(w, http.StatusOK, resp)
}
