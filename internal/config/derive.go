package config

import (
	"fmt"

	"github.com/okian/tavern/internal/adapters/market"
	"github.com/okian/tavern/internal/domain/catalog"
	"github.com/okian/tavern/internal/domain/matcher"
	"github.com/okian/tavern/internal/domain/scoring"
)

// Criteria builds the matching criteria from the filter settings. Empty lists
// leave the corresponding dimension unrestricted; when only one stat boost
// list is set it restricts both boosts.
func (c *Config) Criteria() (matcher.Criteria, error) {
	crit := matcher.All()
	if c.FilterMode == FilterBestFit {
		crit = matcher.BestFit()
	}
	if len(c.Professions) > 0 {
		crit.Professions = matcher.Set[catalog.Profession]()
		for _, s := range c.Professions {
			p, err := catalog.ParseProfession(s)
			if err != nil {
				return matcher.Criteria{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
			}
			crit.Professions[p] = struct{}{}
		}
	}
	if len(c.Classes) > 0 {
		crit.Classes = matcher.Set[catalog.Class]()
		for _, s := range c.Classes {
			cl, err := catalog.ParseClass(s)
			if err != nil {
				return matcher.Criteria{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
			}
			crit.Classes[cl] = struct{}{}
		}
	}
	// One configured list restricts both boosts.
	boosts1, boosts2 := c.StatBoosts1, c.StatBoosts2
	if len(boosts1) == 0 {
		boosts1 = boosts2
	}
	if len(boosts2) == 0 {
		boosts2 = boosts1
	}
	var err error
	if len(boosts1) > 0 {
		if crit.StatBoost1, err = statSet(boosts1); err != nil {
			return matcher.Criteria{}, err
		}
		if crit.StatBoost2, err = statSet(boosts2); err != nil {
			return matcher.Criteria{}, err
		}
	}
	return crit, nil
}

func statSet(names []string) (map[catalog.Stat]struct{}, error) {
	set := matcher.Set[catalog.Stat]()
	for _, s := range names {
		st, err := catalog.ParseStat(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		set[st] = struct{}{}
	}
	return set, nil
}

// Sort returns the parsed board order.
func (c *Config) Sort() (matcher.SortField, bool, error) {
	f, err := matcher.ParseSortField(c.SortField)
	if err != nil {
		return "", false, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return f, c.SortAscending, nil
}

// RoundingMode maps the rounding setting onto the scorer's mode.
func (c *Config) RoundingMode() scoring.RoundingMode {
	if c.Rounding == RoundingHalfAwayFromZero {
		return scoring.RoundHalfAwayFromZero
	}
	return scoring.RoundHalfEven
}

// Query builds the provider query for one listings cycle.
func (c *Config) Query() market.Query {
	q := market.UnitsQuery(c.MinPrice, c.MaxPrice, c.QueryLimit)
	q.PJFilter = c.PJFilter
	return q
}
