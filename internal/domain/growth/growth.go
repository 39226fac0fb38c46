// Package growth projects how many stat points a hero is expected to gain
// before reaching the level cap.
package growth

import (
	"errors"
	"fmt"

	"github.com/okian/tavern/internal/domain/catalog"
	"github.com/okian/tavern/internal/domain/model"
)

// Per-level growth components that do not depend on the class tables.
const (
	subClassScale = 0.25

	// The blue gene adds to both the primary and the secondary growth roll;
	// the model is per stat so both components land on the boosted stat.
	blueGenePrimary   = 0.02
	blueGeneSecondary = 0.04

	// Half of the free +1 stat choice every level.
	freeChoice = 0.5
	// Half of the 50% chance of a bonus +1 every level.
	bonusRoll = 0.25
)

// ErrNegativeLevels is returned when asked to project a negative level span.
var ErrNegativeLevels = errors.New("levels remaining must not be negative")

// LevelsRemaining returns the levels left before the cap, never negative.
func LevelsRemaining(level int) int {
	if level >= model.MaxLevel {
		return 0
	}
	return model.MaxLevel - level
}

// RatePerLevel returns the expected points gained in stat for each level-up.
func RatePerLevel(h model.Hero, stat catalog.Stat) (float64, error) {
	main, err := catalog.ClassGrowth(h.MainClass, stat)
	if err != nil {
		return 0, fmt.Errorf("main class: %w", err)
	}
	sub, err := catalog.ClassGrowth(h.SubClass, stat)
	if err != nil {
		return 0, fmt.Errorf("sub class: %w", err)
	}
	rarity, err := catalog.RarityBonus(h.Rarity)
	if err != nil {
		return 0, err
	}

	rate := float64(main) / 100
	rate += float64(sub) / 100 * subClassScale
	if h.BoostedStat == stat {
		rate += blueGenePrimary + blueGeneSecondary
	}
	rate += rarity
	rate += freeChoice + bonusRoll
	return rate, nil
}

// ExpectedGrowth returns the expected additional points in stat over levels
// further level-ups. It is zero for zero levels and non-decreasing in levels.
func ExpectedGrowth(h model.Hero, stat catalog.Stat, levels int) (float64, error) {
	if levels < 0 {
		return 0, fmt.Errorf("%d: %w", levels, ErrNegativeLevels)
	}
	rate, err := RatePerLevel(h, stat)
	if err != nil {
		return 0, err
	}
	return rate * float64(levels), nil
}

// Projected returns the current value of stat plus its expected growth up to
// the level cap.
func Projected(h model.Hero, stat catalog.Stat) (float64, error) {
	g, err := ExpectedGrowth(h, stat, LevelsRemaining(h.Level))
	if err != nil {
		return 0, err
	}
	return float64(h.Stats[stat]) + g, nil
}
