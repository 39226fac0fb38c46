// Package repository keeps the latest refresh cycle for readers such as the
// HTTP API.
package repository

import (
	"context"
	"time"

	"github.com/okian/tavern/internal/domain/matcher"
	"github.com/okian/tavern/internal/domain/model"
	"github.com/okian/tavern/internal/domain/stamina"
)

// ListingsCycle is the outcome of one listings refresh.
type ListingsCycle struct {
	ID       string
	Source   string
	At       time.Time
	Listings []model.Listing
	Fetched  int
	Rejected int
	New      int
}

// HeroesCycle is the outcome of one hero status refresh.
type HeroesCycle struct {
	ID       string
	At       time.Time
	Statuses []stamina.Status
}

// Stats summarizes the board.
type Stats struct {
	ListingsCycleID string
	ListingsAt      time.Time
	Source          string
	Listings        int
	Fetched         int
	Rejected        int
	New             int
	HeroesCycleID   string
	HeroesAt        time.Time
	Heroes          map[stamina.State]int
}

// Store holds the latest cycles. Publishing replaces the previous cycle
// wholesale; readers never observe a partially published cycle.
type Store interface {
	// PublishListings keeps the cycle's listings in the order given. A
	// bounded store keeps only the leading ones, so the cap follows the
	// cycle's sort order rather than any order a reader asks for later.
	PublishListings(ctx context.Context, c ListingsCycle) error
	PublishHeroes(ctx context.Context, c HeroesCycle) error

	// TopN returns up to n of the kept listings ordered by field.
	TopN(ctx context.Context, n int, field matcher.SortField, ascending bool) ([]model.Listing, error)
	// Listing returns ErrNotFound if saleID is not on the board.
	Listing(ctx context.Context, saleID string) (model.Listing, error)
	Heroes(ctx context.Context) HeroesCycle
	Stats(ctx context.Context) Stats
	Count(ctx context.Context) int
}
