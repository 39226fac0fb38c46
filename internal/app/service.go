// Package service runs the refresh cycles: it pulls listings and hero
// snapshots through the adapters, values them and publishes the result.
package service

import (
	"context"
	"time"

	"github.com/okian/tavern/internal/adapters/market"
	"github.com/okian/tavern/internal/adapters/repository"
	"github.com/okian/tavern/internal/domain/dedupe"
	"github.com/okian/tavern/internal/domain/matcher"
	"github.com/okian/tavern/internal/domain/model"
	"github.com/okian/tavern/internal/domain/scoring"
	"github.com/okian/tavern/internal/domain/stamina"
	"github.com/okian/tavern/pkg/logger"
)

// HeroSource fetches stamina snapshots for owned heroes.
type HeroSource interface {
	Snapshots(ctx context.Context, ids []string) ([]model.StaminaSnapshot, error)
}

// Display draws one console frame.
type Display interface {
	Frame(listings []model.Listing, statuses []stamina.Status) error
}

// Service owns the refresh loop. Cycles must not run concurrently; Run
// serializes them.
type Service struct {
	provider market.Provider
	heroes   HeroSource
	heroIDs  []string
	scorer   *scoring.Scorer
	tracker  dedupe.Tracker
	board    repository.Store
	display  Display

	criteria     matcher.Criteria
	query        market.Query
	sortField    matcher.SortField
	sortAsc      bool
	displayLimit int
	minPoints    int

	refresh      time.Duration
	questRefresh time.Duration
	retryDelay   time.Duration

	now    func() time.Time
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithProvider sets the listing provider.
func WithProvider(p market.Provider) Option {
	return func(s *Service) { s.provider = p }
}

// WithHeroes enables hero tracking for ids.
func WithHeroes(src HeroSource, ids []string) Option {
	return func(s *Service) {
		s.heroes = src
		s.heroIDs = append([]string(nil), ids...)
	}
}

// WithScorer replaces the default scorer.
func WithScorer(sc *scoring.Scorer) Option {
	return func(s *Service) {
		if sc != nil {
			s.scorer = sc
		}
	}
}

// WithTracker replaces the default seen-set.
func WithTracker(t dedupe.Tracker) Option {
	return func(s *Service) {
		if t != nil {
			s.tracker = t
		}
	}
}

// WithBoard sets where finished cycles are published.
func WithBoard(b repository.Store) Option {
	return func(s *Service) {
		if b != nil {
			s.board = b
		}
	}
}

// WithDisplay enables console output.
func WithDisplay(d Display) Option {
	return func(s *Service) { s.display = d }
}

// WithCriteria sets the matching criteria.
func WithCriteria(c matcher.Criteria) Option {
	return func(s *Service) { s.criteria = c }
}

// WithQuery sets the provider query.
func WithQuery(q market.Query) Option {
	return func(s *Service) { s.query = q }
}

// WithSort sets the board order.
func WithSort(field matcher.SortField, ascending bool) Option {
	return func(s *Service) {
		s.sortField = field
		s.sortAsc = ascending
	}
}

// WithDisplayLimit caps rendered rows; 0 renders all.
func WithDisplayLimit(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.displayLimit = n
		}
	}
}

// WithMinProfessionPoints hides low-skill listings from the console.
func WithMinProfessionPoints(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.minPoints = n
		}
	}
}

// WithIntervals sets the listing and hero cycle pauses and the retry delay.
func WithIntervals(refresh, questRefresh, retryDelay time.Duration) Option {
	return func(s *Service) {
		if refresh > 0 {
			s.refresh = refresh
		}
		if questRefresh > 0 {
			s.questRefresh = questRefresh
		}
		if retryDelay >= 0 {
			s.retryDelay = retryDelay
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		scorer:       scoring.NewScorer(),
		criteria:     matcher.BestFit(),
		query:        market.UnitsQuery(1, 80, 500),
		sortField:    matcher.SortStartedAt,
		minPoints:    10,
		refresh:      30 * time.Second,
		questRefresh: 15 * time.Second,
		retryDelay:   5 * time.Second,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tracker == nil {
		s.tracker = dedupe.NewTracker()
	}
	if s.board == nil {
		s.board = repository.NewBoard()
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	return s
}

// Board returns the store cycles are published to.
func (s *Service) Board() repository.Store {
	return s.board
}

// Run alternates listing and hero cycles until ctx is done. A failed listing
// cycle is retried after the retry delay instead of the refresh interval.
func (s *Service) Run(ctx context.Context) error {
	if s.provider == nil {
		return ErrNoProvider
	}
	s.logger.Info(ctx, "starting refresh loop",
		logger.String("source", s.provider.Name()),
		logger.Duration("refresh", s.refresh),
		logger.Int("heroes", len(s.heroIDs)),
	)

	listings := time.NewTimer(0)
	defer listings.Stop()

	var heroes *time.Timer
	var heroesC <-chan time.Time
	if s.tracksHeroes() {
		heroes = time.NewTimer(0)
		defer heroes.Stop()
		heroesC = heroes.C
	}

	for {
		select {
		case <-ctx.Done():
			s.logger.Info(context.Background(), "refresh loop stopped")
			return nil
		case <-listings.C:
			next := s.refresh
			if err := s.RunListingsCycle(ctx); err != nil {
				if ctx.Err() != nil {
					continue
				}
				s.logger.Warn(ctx, "listings cycle failed, retrying", logger.Error(err), logger.Duration("retry_in", s.retryDelay))
				next = s.retryDelay
			}
			listings.Reset(next)
		case <-heroesC:
			next := s.questRefresh
			if err := s.RunHeroesCycle(ctx); err != nil {
				if ctx.Err() != nil {
					continue
				}
				s.logger.Warn(ctx, "heroes cycle failed, retrying", logger.Error(err), logger.Duration("retry_in", s.retryDelay))
				next = s.retryDelay
			}
			heroes.Reset(next)
		}
	}
}

func (s *Service) tracksHeroes() bool {
	return s.heroes != nil && len(s.heroIDs) > 0
}
