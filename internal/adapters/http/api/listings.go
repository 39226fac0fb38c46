package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/tavern/internal/adapters/repository"
	"github.com/okian/tavern/internal/domain/matcher"
	"github.com/okian/tavern/internal/domain/model"
)

// ListingsDependencies defines the board reads for listings.
type ListingsDependencies interface {
	TopN(ctx context.Context, n int, field matcher.SortField, ascending bool) ([]model.Listing, error)
	Listing(ctx context.Context, saleID string) (model.Listing, error)
}

// ListingsHandler handles listing requests.
type ListingsHandler struct {
	deps         ListingsDependencies
	maxLimit     int
	defaultField matcher.SortField
	defaultAsc   bool
}

// NewListingsHandler creates a new listings handler.
func NewListingsHandler(deps ListingsDependencies, opts ...Option) *ListingsHandler {
	h := &ListingsHandler{deps: deps, maxLimit: 100, defaultField: matcher.SortStartedAt}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// HandleGetListings handles GET /listings?limit=N&sort=field&order=asc|desc.
func (h *ListingsHandler) HandleGetListings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()

	n := h.maxLimit
	if s := q.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("limit %q: %w", s, ErrBadRequest))
			return
		}
		if v > h.maxLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded", fmt.Errorf("limit above %d: %w", h.maxLimit, ErrBadRequest))
			return
		}
		n = v
	}

	field, asc := h.defaultField, h.defaultAsc
	if s := q.Get("sort"); s != "" {
		f, err := matcher.ParseSortField(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", err)
			return
		}
		field = f
	}
	switch strings.ToLower(q.Get("order")) {
	case "":
	case "asc":
		asc = true
	case "desc":
		asc = false
	default:
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("order %q: %w", q.Get("order"), ErrBadRequest))
		return
	}

	listings, err := h.deps.TopN(r.Context(), n, field, asc)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	out := make([]listingDTO, 0, len(listings))
	for _, l := range listings {
		out = append(out, toListingDTO(l))
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleGetListing handles GET /listings/{sale_id} requests.
func (h *ListingsHandler) HandleGetListing(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/listings/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	l, err := h.deps.Listing(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, toListingDTO(l))
}
