package matcher

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/okian/tavern/internal/domain/model"
)

// ErrUnknownSortField is returned for a field name SortBy does not know.
var ErrUnknownSortField = errors.New("unknown sort field")

// SortField names a sortable listing attribute.
type SortField string

// Sortable fields.
const (
	SortStartedAt              SortField = "started_at"
	SortPrice                  SortField = "price"
	SortLevel                  SortField = "level"
	SortRarity                 SortField = "rarity"
	SortProfessionScore        SortField = "profession_score"
	SortProfessionPerUnitPrice SortField = "profession_score_per_price"
	SortCombatAverage          SortField = "combat_average"
	SortCombatAveragePerPrice  SortField = "combat_average_per_price"
)

var sortKeys = map[SortField]func(model.Listing) float64{
	SortStartedAt: func(l model.Listing) float64 { return float64(l.StartedAt.Unix()) },
	SortPrice:     func(l model.Listing) float64 { return l.PriceUnits().InexactFloat64() },
	SortLevel:     func(l model.Listing) float64 { return float64(l.Hero.Level) },
	SortRarity:    func(l model.Listing) float64 { return float64(l.Hero.Rarity) },
	SortProfessionScore: scored(func(s *model.ListingScores) float64 {
		return float64(s.Profession)
	}),
	SortProfessionPerUnitPrice: scored(func(s *model.ListingScores) float64 {
		return s.ProfessionPerUnitPrice
	}),
	SortCombatAverage: scored(func(s *model.ListingScores) float64 {
		return s.Combat.Average
	}),
	SortCombatAveragePerPrice: scored(func(s *model.ListingScores) float64 {
		return s.CombatAveragePerUnitPrice
	}),
}

func scored(f func(*model.ListingScores) float64) func(model.Listing) float64 {
	return func(l model.Listing) float64 {
		if l.Scores == nil {
			return math.NaN()
		}
		return f(l.Scores)
	}
}

// ParseSortField resolves a field name, ignoring case.
func ParseSortField(s string) (SortField, error) {
	f := SortField(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := sortKeys[f]; !ok {
		return "", fmt.Errorf("%q: %w", s, ErrUnknownSortField)
	}
	return f, nil
}

// SortBy orders listings in place by field, descending unless ascending is
// set. The sort is stable, so ties keep their input order. Listings without a
// value for field (NaN, or not yet scored) always sort last.
func SortBy(listings []model.Listing, field SortField, ascending bool) error {
	key, ok := sortKeys[field]
	if !ok {
		return fmt.Errorf("%q: %w", field, ErrUnknownSortField)
	}
	keys := make([]float64, len(listings))
	for i, l := range listings {
		keys[i] = key(l)
	}
	sort.Stable(byKey{listings: listings, keys: keys, ascending: ascending})
	return nil
}

type byKey struct {
	listings  []model.Listing
	keys      []float64
	ascending bool
}

func (b byKey) Len() int { return len(b.listings) }

func (b byKey) Swap(i, j int) {
	b.listings[i], b.listings[j] = b.listings[j], b.listings[i]
	b.keys[i], b.keys[j] = b.keys[j], b.keys[i]
}

func (b byKey) Less(i, j int) bool {
	a, c := b.keys[i], b.keys[j]
	switch an, cn := math.IsNaN(a), math.IsNaN(c); {
	case an || cn:
		return !an && cn
	case b.ascending:
		return a < c
	default:
		return a > c
	}
}
