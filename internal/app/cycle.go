package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/okian/tavern/internal/adapters/repository"
	"github.com/okian/tavern/internal/domain/dedupe"
	"github.com/okian/tavern/internal/domain/matcher"
	"github.com/okian/tavern/internal/domain/model"
	"github.com/okian/tavern/internal/domain/stamina"
	"github.com/okian/tavern/pkg/logger"
	"github.com/okian/tavern/pkg/metrics"
)

// Cycle kinds used as metric labels.
const (
	KindListings = "listings"
	KindHeroes   = "heroes"
)

// Rejection reasons used as metric labels.
const (
	reasonMalformed  = "malformed"
	reasonUnscorable = "unscorable"
)

// RunListingsCycle fetches one batch, flags new sales, keeps the matching
// listings, scores and orders them, then publishes the board. Individual
// bad records are skipped; only a failed fetch fails the cycle.
func (s *Service) RunListingsCycle(ctx context.Context) (err error) {
	if s.provider == nil {
		return ErrNoProvider
	}
	id := uuid.NewString()
	start := time.Now()
	log := s.logger.With(logger.String("cycle", id), logger.String("kind", KindListings))
	defer func() {
		metrics.RecordCycle(KindListings, float64(time.Since(start).Milliseconds()), err != nil)
	}()

	fetched, malformed, err := s.provider.FetchListings(ctx, s.query)
	if err != nil {
		log.Error(ctx, "fetch failed", logger.String("source", s.provider.Name()), logger.Error(err))
		return fmt.Errorf("%s: %w: %w", KindListings, ErrCycle, err)
	}
	metrics.RecordListingsFetched(s.provider.Name(), len(fetched))
	for _, r := range malformed {
		log.Warn(ctx, "skipping malformed listing", logger.String("sale", r.SaleID), logger.Error(r.Err))
	}
	metrics.RecordListingsRejected(reasonMalformed, len(malformed))

	fresh := dedupe.MarkNew(s.tracker, fetched)
	metrics.RecordListingsNew(fresh)

	matched := matcher.Match(fetched, s.criteria)
	scored, unscorable := s.scorer.Annotate(matched)
	for _, r := range unscorable {
		log.Warn(ctx, "skipping unscorable listing", logger.String("sale", r.SaleID), logger.Error(r.Err))
	}
	metrics.RecordListingsRejected(reasonUnscorable, len(unscorable))

	if err := matcher.SortBy(scored, s.sortField, s.sortAsc); err != nil {
		return fmt.Errorf("%s: %w: %w", KindListings, ErrCycle, err)
	}

	if err := s.board.PublishListings(ctx, repository.ListingsCycle{
		ID:       id,
		Source:   s.provider.Name(),
		At:       s.now(),
		Listings: scored,
		Fetched:  len(fetched),
		Rejected: len(malformed) + len(unscorable),
		New:      fresh,
	}); err != nil {
		return fmt.Errorf("%s: %w: %w", KindListings, ErrCycle, err)
	}

	log.Info(ctx, "listings refreshed",
		logger.Int("fetched", len(fetched)),
		logger.Int("matched", len(scored)),
		logger.Int("new", fresh),
		logger.Int("rejected", len(malformed)+len(unscorable)),
		logger.Duration("took", time.Since(start)),
	)
	s.redraw(ctx)
	return nil
}

// RunHeroesCycle classifies every tracked hero and publishes the statuses.
// It is a no-op when hero tracking is not configured.
func (s *Service) RunHeroesCycle(ctx context.Context) (err error) {
	if !s.tracksHeroes() {
		return nil
	}
	id := uuid.NewString()
	start := time.Now()
	log := s.logger.With(logger.String("cycle", id), logger.String("kind", KindHeroes))
	defer func() {
		metrics.RecordCycle(KindHeroes, float64(time.Since(start).Milliseconds()), err != nil)
	}()

	snaps, err := s.heroes.Snapshots(ctx, s.heroIDs)
	if err != nil {
		log.Error(ctx, "hero snapshots failed", logger.Error(err))
		return fmt.Errorf("%s: %w: %w", KindHeroes, ErrCycle, err)
	}

	now := s.now()
	statuses := make([]stamina.Status, 0, len(snaps))
	for _, snap := range snaps {
		statuses = append(statuses, stamina.Classify(snap, now))
	}
	if err := s.board.PublishHeroes(ctx, repository.HeroesCycle{ID: id, At: now, Statuses: statuses}); err != nil {
		return fmt.Errorf("%s: %w: %w", KindHeroes, ErrCycle, err)
	}

	log.Info(ctx, "heroes refreshed",
		logger.Int("heroes", len(statuses)),
		logger.Int("missing", len(s.heroIDs)-len(statuses)),
		logger.Duration("took", time.Since(start)),
	)
	s.redraw(ctx)
	return nil
}

// redraw renders the current board. Display errors are logged, never
// propagated: the console is a side channel of the cycle.
func (s *Service) redraw(ctx context.Context) {
	if s.display == nil {
		return
	}
	n := s.board.Count(ctx)
	var listings []model.Listing
	if n > 0 {
		var err error
		if listings, err = s.board.TopN(ctx, n, s.sortField, s.sortAsc); err != nil {
			s.logger.Warn(ctx, "reading board failed", logger.Error(err))
			return
		}
	}
	listings = matcher.DisplayEligible(listings, s.minPoints)
	if s.displayLimit > 0 && len(listings) > s.displayLimit {
		listings = listings[:s.displayLimit]
	}

	var statuses []stamina.Status
	if s.tracksHeroes() {
		statuses = s.board.Heroes(ctx).Statuses
		if statuses == nil {
			statuses = []stamina.Status{}
		}
	}
	if err := s.display.Frame(listings, statuses); err != nil {
		s.logger.Warn(ctx, "console render failed", logger.Error(err))
	}
}
