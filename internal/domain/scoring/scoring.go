// Package scoring derives the profession and combat value scores of a hero
// from its current stats and projected growth.
package scoring

import (
	"fmt"
	"math"

	"github.com/okian/tavern/internal/domain/catalog"
	"github.com/okian/tavern/internal/domain/growth"
	"github.com/okian/tavern/internal/domain/model"
	"github.com/shopspring/decimal"
)

// RoundingMode selects how fractional scores are rounded to integers.
type RoundingMode int

// Rounding modes. They only differ on exact .5 boundaries.
const (
	RoundHalfEven RoundingMode = iota
	RoundHalfAwayFromZero
)

// professionBonus is applied when the scored profession is the hero's own.
const professionBonus = 1.1

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithRounding sets the rounding mode used for integer scores.
func WithRounding(mode RoundingMode) Option {
	return func(s *Scorer) {
		if mode == RoundHalfEven || mode == RoundHalfAwayFromZero {
			s.rounding = mode
		}
	}
}

// Scorer computes profession and combat scores. It holds no mutable state
// and is safe for concurrent use.
type Scorer struct {
	rounding RoundingMode
}

// NewScorer creates a Scorer. Rounding defaults to half-to-even.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{rounding: RoundHalfEven}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Scorer) round(x float64) int {
	if s.rounding == RoundHalfAwayFromZero {
		return int(math.Round(x))
	}
	return int(math.RoundToEven(x))
}

// ProfessionScore returns the projected sum of the two stats that drive
// profession p at the level cap, with a 10% bonus when p is the hero's own
// profession.
func (s *Scorer) ProfessionScore(h model.Hero, p catalog.Profession) (int, error) {
	aff, err := catalog.Affinity(p)
	if err != nil {
		return 0, err
	}
	sum := 0.0
	for _, st := range aff.Stats {
		v, err := growth.Projected(h, st)
		if err != nil {
			return 0, fmt.Errorf("profession %s: %w", p, err)
		}
		sum += v
	}
	if h.Profession == p {
		sum *= professionBonus
	}
	return s.round(sum), nil
}

// CombatScores returns the four combat estimates computed on the projected
// stats at the level cap, plus their unrounded mean.
func (s *Scorer) CombatScores(h model.Hero) (model.CombatScores, error) {
	e := make(map[catalog.Stat]float64, 8)
	for _, st := range catalog.Stats() {
		v, err := growth.Projected(h, st)
		if err != nil {
			return model.CombatScores{}, fmt.Errorf("combat: %w", err)
		}
		e[st] = v
	}

	cs := model.CombatScores{
		PhysicalDamage: s.round(e[catalog.STR] + 0.5*e[catalog.DEX] + 0.2*e[catalog.LCK] + 0.2*e[catalog.AGI]),
		MagicalDamage:  s.round(e[catalog.INT] + e[catalog.WIS] + 0.2*e[catalog.LCK] + 0.2*e[catalog.AGI]),
		PhysicalTank:   s.round(e[catalog.END] + e[catalog.VIT] + 0.2*e[catalog.DEX] + 0.2*e[catalog.AGI] + 0.1*e[catalog.LCK]),
		MagicalTank:    s.round(e[catalog.END] + e[catalog.VIT] + 0.5*e[catalog.INT] + 0.5*e[catalog.WIS]),
	}
	cs.Average = float64(cs.PhysicalDamage+cs.MagicalDamage+cs.PhysicalTank+cs.MagicalTank) / 4
	return cs, nil
}

var unitScale = decimal.New(1, model.UnitExponent)

// PerUnitPrice divides score by price expressed in whole currency units.
// price is in the smallest unit. A zero or negative price yields NaN.
func PerUnitPrice(score float64, price decimal.Decimal) float64 {
	if !price.IsPositive() {
		return math.NaN()
	}
	return score / price.Div(unitScale).InexactFloat64()
}
