package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/okian/tavern/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// UnitExponent is the number of decimal places between the smallest currency
// unit and one whole unit.
const UnitExponent = 18

// ProfessionPoints maps each profession to its raw skill points; ten points
// make one profession level.
type ProfessionPoints map[catalog.Profession]int

// Level returns the profession level of p (points / 10).
func (pp ProfessionPoints) Level(p catalog.Profession) float64 {
	return float64(pp[p]) / 10
}

// CombatScores holds the four weighted-stat combat estimates and their mean.
type CombatScores struct {
	PhysicalDamage int
	MagicalDamage  int
	PhysicalTank   int
	MagicalTank    int
	Average        float64
}

// ListingScores is the derived valuation attached to a listing.
// The per-price fields are NaN when the listing has no usable price.
type ListingScores struct {
	Profession                int
	ProfessionPerUnitPrice    float64
	Combat                    CombatScores
	CombatAveragePerUnitPrice float64
}

// Listing is one marketplace sale, normalized by an adapter.
type Listing struct {
	SaleID           string
	HeroID           string
	Hero             Hero
	StatBoost1       catalog.Stat
	StatBoost2       catalog.Stat
	ProfessionPoints ProfessionPoints
	StartingPrice    decimal.Decimal // smallest currency unit
	StartedAt        time.Time
	Generation       int
	Summons          int
	MaxSummons       int

	// New is set when the sale id was not seen in an earlier cycle.
	New bool
	// Scores is nil until the listing has been annotated.
	Scores *ListingScores
}

var unitScale = decimal.New(1, UnitExponent)

// PriceUnits returns the starting price in whole currency units.
func (l Listing) PriceUnits() decimal.Decimal {
	return l.StartingPrice.Div(unitScale)
}

// Validate checks identifiers and the embedded hero.
func (l Listing) Validate() error {
	if strings.TrimSpace(l.SaleID) == "" {
		return fmt.Errorf("missing sale id: %w", ErrInvalidListing)
	}
	if strings.TrimSpace(l.HeroID) == "" {
		return fmt.Errorf("sale %s: missing hero id: %w", l.SaleID, ErrInvalidListing)
	}
	if _, err := catalog.ParseStat(string(l.StatBoost1)); err != nil {
		return fmt.Errorf("sale %s: stat boost 1: %w: %w", l.SaleID, ErrInvalidListing, err)
	}
	if _, err := catalog.ParseStat(string(l.StatBoost2)); err != nil {
		return fmt.Errorf("sale %s: stat boost 2: %w: %w", l.SaleID, ErrInvalidListing, err)
	}
	if l.StartingPrice.IsNegative() {
		return fmt.Errorf("sale %s: negative price: %w", l.SaleID, ErrInvalidListing)
	}
	if err := l.Hero.Validate(); err != nil {
		return fmt.Errorf("sale %s: %w", l.SaleID, err)
	}
	return nil
}
