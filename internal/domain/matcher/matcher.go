// Package matcher filters marketplace listings by profession, class and stat
// boost affinity, and orders them for display.
package matcher

import (
	"github.com/okian/tavern/internal/domain/catalog"
	"github.com/okian/tavern/internal/domain/model"
)

// Predicate is an extra per-listing condition.
type Predicate func(model.Listing) bool

// Always accepts every listing.
func Always(model.Listing) bool { return true }

// Criteria selects listings. A listing passes when its profession, main class
// and one of its stat boosts are allowed and Extra holds. Membership is
// strict: an empty set admits nothing.
type Criteria struct {
	Professions map[catalog.Profession]struct{}
	Classes     map[catalog.Class]struct{}
	StatBoost1  map[catalog.Stat]struct{}
	StatBoost2  map[catalog.Stat]struct{}
	Extra       Predicate
}

// Set builds a membership set from values.
func Set[T comparable](values ...T) map[T]struct{} {
	m := make(map[T]struct{}, len(values))
	for _, v := range values {
		m[v] = struct{}{}
	}
	return m
}

// All returns criteria that admit every known profession, class and stat.
func All() Criteria {
	stats := catalog.Stats()
	return Criteria{
		Professions: Set(catalog.Professions()...),
		Classes:     Set(catalog.Classes()...),
		StatBoost1:  Set(stats...),
		StatBoost2:  Set(stats...),
		Extra:       Always,
	}
}

// BestFit returns All criteria narrowed by RecommendedProfession.
func BestFit() Criteria {
	c := All()
	c.Extra = RecommendedProfession
	return c
}

// Accepts reports whether l passes c.
func (c Criteria) Accepts(l model.Listing) bool {
	if _, ok := c.Professions[l.Hero.Profession]; !ok {
		return false
	}
	if _, ok := c.Classes[l.Hero.MainClass]; !ok {
		return false
	}
	_, ok1 := c.StatBoost1[l.StatBoost1]
	_, ok2 := c.StatBoost2[l.StatBoost2]
	if !ok1 && !ok2 {
		return false
	}
	if c.Extra == nil {
		return true
	}
	return c.Extra(l)
}

// Match returns the listings that pass c, in input order.
func Match(listings []model.Listing, c Criteria) []model.Listing {
	out := make([]model.Listing, 0, len(listings))
	for _, l := range listings {
		if c.Accepts(l) {
			out = append(out, l)
		}
	}
	return out
}

// RecommendedProfession reports whether the listing's main class is eligible
// for its profession and at least one stat boost lands on a profession stat.
func RecommendedProfession(l model.Listing) bool {
	aff, err := catalog.Affinity(l.Hero.Profession)
	if err != nil {
		return false
	}
	if !aff.HasClass(l.Hero.MainClass) {
		return false
	}
	return aff.HasStat(l.StatBoost1) || aff.HasStat(l.StatBoost2)
}

// DisplayEligible drops listings whose points in their own profession are
// below minPoints. It is applied before rendering, never before scoring.
func DisplayEligible(listings []model.Listing, minPoints int) []model.Listing {
	out := make([]model.Listing, 0, len(listings))
	for _, l := range listings {
		if l.ProfessionPoints[l.Hero.Profession] >= minPoints {
			out = append(out, l)
		}
	}
	return out
}
