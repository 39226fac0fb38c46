package repository

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/okian/tavern/internal/domain/matcher"
	"github.com/okian/tavern/internal/domain/model"
	"github.com/okian/tavern/internal/domain/stamina"
	"github.com/okian/tavern/pkg/metrics"
)

// snapshot is immutable once published.
type snapshot struct {
	listings ListingsCycle
	bySale   map[string]int
	heroes   HeroesCycle
}

// Board is the in-memory Store. Writers serialize on a mutex and publish a
// fresh snapshot; readers load it without locking.
type Board struct {
	mu          sync.Mutex
	maxListings int
	snap        atomic.Pointer[snapshot]
}

// NewBoard constructs an empty board.
func NewBoard(opts ...Option) *Board {
	b := &Board{maxListings: 1000}
	for _, opt := range opts {
		opt(b)
	}
	b.snap.Store(&snapshot{bySale: map[string]int{}})
	return b
}

// PublishListings replaces the listings cycle, keeping at most maxListings
// from the head of c.Listings.
func (b *Board) PublishListings(ctx context.Context, c ListingsCycle) error {
	listings := c.Listings
	if len(listings) > b.maxListings {
		listings = listings[:b.maxListings]
	}
	c.Listings = append([]model.Listing(nil), listings...)
	bySale := make(map[string]int, len(c.Listings))
	for i, l := range c.Listings {
		bySale[l.SaleID] = i
	}

	b.mu.Lock()
	prev := b.snap.Load()
	b.snap.Store(&snapshot{listings: c, bySale: bySale, heroes: prev.heroes})
	b.mu.Unlock()

	metrics.UpdateListingsMatched(len(c.Listings))
	return nil
}

// PublishHeroes replaces the hero status cycle.
func (b *Board) PublishHeroes(ctx context.Context, c HeroesCycle) error {
	c.Statuses = append([]stamina.Status(nil), c.Statuses...)

	b.mu.Lock()
	prev := b.snap.Load()
	b.snap.Store(&snapshot{listings: prev.listings, bySale: prev.bySale, heroes: c})
	b.mu.Unlock()

	counts := stateCounts(c.Statuses)
	for _, st := range []stamina.State{stamina.Questing, stamina.Regenerating} {
		metrics.UpdateHeroesByState(string(st), counts[st])
	}
	return nil
}

// TopN returns a sorted copy of the first n listings.
func (b *Board) TopN(ctx context.Context, n int, field matcher.SortField, ascending bool) ([]model.Listing, error) {
	if n < 1 {
		return nil, fmt.Errorf("%d: %w", n, ErrInvalidLimit)
	}
	out := append([]model.Listing(nil), b.snap.Load().listings.Listings...)
	if err := matcher.SortBy(out, field, ascending); err != nil {
		return nil, err
	}
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

// Listing looks a listing up by sale id.
func (b *Board) Listing(ctx context.Context, saleID string) (model.Listing, error) {
	s := b.snap.Load()
	i, ok := s.bySale[saleID]
	if !ok {
		return model.Listing{}, fmt.Errorf("sale %s: %w", saleID, ErrNotFound)
	}
	return s.listings.Listings[i], nil
}

// Heroes returns the latest hero cycle.
func (b *Board) Heroes(ctx context.Context) HeroesCycle {
	h := b.snap.Load().heroes
	h.Statuses = append([]stamina.Status(nil), h.Statuses...)
	return h
}

// Stats summarizes both cycles.
func (b *Board) Stats(ctx context.Context) Stats {
	s := b.snap.Load()
	return Stats{
		ListingsCycleID: s.listings.ID,
		ListingsAt:      s.listings.At,
		Source:          s.listings.Source,
		Listings:        len(s.listings.Listings),
		Fetched:         s.listings.Fetched,
		Rejected:        s.listings.Rejected,
		New:             s.listings.New,
		HeroesCycleID:   s.heroes.ID,
		HeroesAt:        s.heroes.At,
		Heroes:          stateCounts(s.heroes.Statuses),
	}
}

// Count returns the number of listings on the board.
func (b *Board) Count(ctx context.Context) int {
	return len(b.snap.Load().listings.Listings)
}

func stateCounts(statuses []stamina.Status) map[stamina.State]int {
	m := map[stamina.State]int{stamina.Questing: 0, stamina.Regenerating: 0}
	for _, s := range statuses {
		m[s.State]++
	}
	return m
}

var _ Store = (*Board)(nil)
