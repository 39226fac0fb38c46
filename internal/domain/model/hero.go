// Package model contains the records passed between the adapters and the
// valuation core.
package model

import (
	"fmt"

	"github.com/okian/tavern/internal/domain/catalog"
)

// Level bounds for a hero.
const (
	MinLevel = 1
	MaxLevel = 100
)

// Stats maps each canonical stat code to its current point value.
type Stats map[catalog.Stat]int

// Hero is the valuation input: the fields that drive growth and scores.
type Hero struct {
	Level       int
	MainClass   catalog.Class
	SubClass    catalog.Class
	Profession  catalog.Profession
	Rarity      catalog.Rarity
	Stats       Stats
	BoostedStat catalog.Stat // blue gene
}

// Validate checks that the hero respects the documented bounds and that every
// identifier resolves in the catalogs.
func (h Hero) Validate() error {
	if h.Level < MinLevel || h.Level > MaxLevel {
		return fmt.Errorf("level %d: %w", h.Level, ErrInvalidHero)
	}
	if !h.Rarity.Valid() {
		return fmt.Errorf("%w: %w", ErrInvalidHero, catalog.ErrInvalidRarity)
	}
	if _, err := catalog.Profile(h.MainClass); err != nil {
		return fmt.Errorf("main class: %w: %w", ErrInvalidHero, err)
	}
	if _, err := catalog.Profile(h.SubClass); err != nil {
		return fmt.Errorf("sub class: %w: %w", ErrInvalidHero, err)
	}
	if _, err := catalog.Affinity(h.Profession); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidHero, err)
	}
	if _, err := catalog.ParseStat(string(h.BoostedStat)); err != nil {
		return fmt.Errorf("boosted stat: %w: %w", ErrInvalidHero, err)
	}
	return h.Stats.Validate()
}

// Validate checks that exactly the eight canonical stats are present and that
// none is negative.
func (s Stats) Validate() error {
	all := catalog.Stats()
	if len(s) != len(all) {
		return fmt.Errorf("stats: have %d keys, want %d: %w", len(s), len(all), ErrInvalidHero)
	}
	for _, st := range all {
		v, ok := s[st]
		if !ok {
			return fmt.Errorf("stats: missing %s: %w", st, ErrInvalidHero)
		}
		if v < 0 {
			return fmt.Errorf("stats: %s is negative: %w", st, ErrInvalidHero)
		}
	}
	return nil
}
