package scoring_test

import (
	"errors"
	"math"
	"testing"

	"github.com/okian/tavern/internal/domain/catalog"
	"github.com/okian/tavern/internal/domain/model"
	"github.com/okian/tavern/internal/domain/scoring"
	"github.com/shopspring/decimal"
	. "github.com/smartystreets/goconvey/convey"
)

func warriorHero() model.Hero {
	return model.Hero{
		Level:       1,
		MainClass:   catalog.Warrior,
		SubClass:    catalog.Warrior,
		Profession:  catalog.Mining,
		Rarity:      catalog.Common,
		BoostedStat: catalog.STR,
		Stats: model.Stats{
			catalog.STR: 10, catalog.AGI: 9, catalog.END: 8, catalog.WIS: 5,
			catalog.DEX: 9, catalog.VIT: 9, catalog.INT: 5, catalog.LCK: 7,
		},
	}
}

func mythicSage() model.Hero {
	return model.Hero{
		Level:       5,
		MainClass:   catalog.Sage,
		SubClass:    catalog.Wizard,
		Profession:  catalog.Foraging,
		Rarity:      catalog.Mythic,
		BoostedStat: catalog.INT,
		Stats: model.Stats{
			catalog.STR: 6, catalog.AGI: 12, catalog.END: 7, catalog.WIS: 14,
			catalog.DEX: 8, catalog.VIT: 9, catalog.INT: 15, catalog.LCK: 10,
		},
	}
}

func capped(stats model.Stats) model.Hero {
	h := warriorHero()
	h.Level = 100
	h.Stats = stats
	return h
}

func zero() model.Stats {
	s := model.Stats{}
	for _, st := range catalog.Stats() {
		s[st] = 0
	}
	return s
}

func TestProfessionScore(t *testing.T) {
	Convey("Given a default scorer", t, func() {
		scorer := scoring.NewScorer()

		Convey("When scoring a level 1 Warrior on its own profession", func() {
			score, err := scorer.ProfessionScore(warriorHero(), catalog.Mining)

			Convey("Then the 10% profession bonus is applied", func() {
				So(err, ShouldBeNil)
				So(score, ShouldEqual, 380)
			})
		})

		Convey("When scoring the same hero on another profession", func() {
			score, err := scorer.ProfessionScore(warriorHero(), catalog.Fishing)

			Convey("Then no bonus is applied", func() {
				So(err, ShouldBeNil)
				So(score, ShouldEqual, 270)
			})
		})

		Convey("When scoring a mythic Sage with a matching blue gene", func() {
			own, err := scorer.ProfessionScore(mythicSage(), catalog.Foraging)
			So(err, ShouldBeNil)
			other, err := scorer.ProfessionScore(mythicSage(), catalog.Gardening)
			So(err, ShouldBeNil)

			Convey("Then both scores follow the growth projection", func() {
				So(own, ShouldEqual, 405)
				So(other, ShouldEqual, 386)
			})
		})

		Convey("When the hero is level 100 with all stats at zero", func() {
			h := capped(zero())
			h.Rarity = catalog.Mythic

			Convey("Then every profession scores zero", func() {
				for _, p := range catalog.Professions() {
					score, err := scorer.ProfessionScore(h, p)
					So(err, ShouldBeNil)
					So(score, ShouldEqual, 0)
				}
			})
		})

		Convey("When scoring repeatedly", func() {
			a, _ := scorer.ProfessionScore(mythicSage(), catalog.Foraging)
			b, _ := scorer.ProfessionScore(mythicSage(), catalog.Foraging)

			Convey("Then the result is identical", func() {
				So(a, ShouldEqual, b)
			})
		})

		Convey("When the profession is unknown", func() {
			_, err := scorer.ProfessionScore(warriorHero(), catalog.Profession("smithing"))

			Convey("Then it fails fast", func() {
				So(errors.Is(err, catalog.ErrUnknownProfession), ShouldBeTrue)
			})
		})

		Convey("When the hero has an unknown class", func() {
			h := warriorHero()
			h.MainClass = catalog.Class("Bard")
			_, err := scorer.ProfessionScore(h, catalog.Mining)

			Convey("Then it fails fast", func() {
				So(errors.Is(err, catalog.ErrUnknownClass), ShouldBeTrue)
			})
		})
	})
}

func TestCombatScores(t *testing.T) {
	Convey("Given a default scorer", t, func() {
		scorer := scoring.NewScorer()

		Convey("When scoring a level 1 Warrior", func() {
			cs, err := scorer.CombatScores(warriorHero())

			Convey("Then each role follows its weighted formula", func() {
				So(err, ShouldBeNil)
				So(cs.PhysicalDamage, ShouldEqual, 322)
				So(cs.MagicalDamage, ShouldEqual, 262)
				So(cs.PhysicalTank, ShouldEqual, 402)
				So(cs.MagicalTank, ShouldEqual, 430)
			})

			Convey("And the average is the plain mean of the four", func() {
				So(cs.Average, ShouldEqual, 354.0)
			})
		})

		Convey("When scoring a mythic Sage", func() {
			cs, err := scorer.CombatScores(mythicSage())

			Convey("Then the average keeps its fraction", func() {
				So(err, ShouldBeNil)
				So(cs.Average, ShouldEqual, 441.25)
			})
		})

		Convey("When recomputing on the same snapshot", func() {
			a, _ := scorer.CombatScores(mythicSage())
			b, _ := scorer.CombatScores(mythicSage())

			Convey("Then the result is identical", func() {
				So(a, ShouldResemble, b)
			})
		})
	})
}

func TestRounding(t *testing.T) {
	Convey("Given a capped hero whose physical damage is exactly 2.5", t, func() {
		stats := zero()
		stats[catalog.DEX] = 5
		h := capped(stats)

		Convey("When rounding half to even", func() {
			cs, err := scoring.NewScorer().CombatScores(h)

			Convey("Then 2.5 rounds to 2", func() {
				So(err, ShouldBeNil)
				So(cs.PhysicalDamage, ShouldEqual, 2)
			})
		})

		Convey("When rounding half away from zero", func() {
			cs, err := scoring.NewScorer(scoring.WithRounding(scoring.RoundHalfAwayFromZero)).CombatScores(h)

			Convey("Then 2.5 rounds to 3", func() {
				So(err, ShouldBeNil)
				So(cs.PhysicalDamage, ShouldEqual, 3)
			})
		})
	})
}

func TestPerUnitPrice(t *testing.T) {
	Convey("Given prices in the smallest currency unit", t, func() {
		Convey("When the price is 2 units", func() {
			price := decimal.RequireFromString("2000000000000000000")

			Convey("Then the score is halved", func() {
				So(scoring.PerUnitPrice(380, price), ShouldAlmostEqual, 190, 1e-9)
			})
		})

		Convey("When the price exceeds the int64 range", func() {
			price := decimal.RequireFromString("80000000000000000000")

			Convey("Then it is still handled", func() {
				So(scoring.PerUnitPrice(400, price), ShouldAlmostEqual, 5, 1e-9)
			})
		})

		Convey("When the price is zero", func() {
			Convey("Then the result is NaN", func() {
				So(math.IsNaN(scoring.PerUnitPrice(380, decimal.Zero)), ShouldBeTrue)
			})
		})
	})
}

func TestAnnotate(t *testing.T) {
	Convey("Given a batch with a valid, a zero-priced and a malformed listing", t, func() {
		good := model.Listing{
			SaleID: "1", HeroID: "100", Hero: warriorHero(),
			StatBoost1: catalog.STR, StatBoost2: catalog.STR,
			StartingPrice: decimal.RequireFromString("4000000000000000000"),
		}
		free := good
		free.SaleID = "2"
		free.StartingPrice = decimal.Zero
		bad := good
		bad.SaleID = "3"
		bad.Hero.Stats = model.Stats{catalog.STR: 1}

		scored, rejected := scoring.NewScorer().Annotate([]model.Listing{good, free, bad})

		Convey("Then the malformed listing is rejected without aborting the batch", func() {
			So(len(scored), ShouldEqual, 2)
			So(len(rejected), ShouldEqual, 1)
			So(rejected[0].SaleID, ShouldEqual, "3")
			So(errors.Is(rejected[0].Err, model.ErrInvalidHero), ShouldBeTrue)
		})

		Convey("Then scores and per-price scores are attached in input order", func() {
			So(scored[0].SaleID, ShouldEqual, "1")
			So(scored[0].Scores.Profession, ShouldEqual, 380)
			So(scored[0].Scores.ProfessionPerUnitPrice, ShouldAlmostEqual, 95, 1e-9)
			So(scored[0].Scores.CombatAveragePerUnitPrice, ShouldAlmostEqual, 88.5, 1e-9)
		})

		Convey("Then the zero-priced listing has NaN per-price scores", func() {
			So(scored[1].SaleID, ShouldEqual, "2")
			So(math.IsNaN(scored[1].Scores.ProfessionPerUnitPrice), ShouldBeTrue)
			So(math.IsNaN(scored[1].Scores.CombatAveragePerUnitPrice), ShouldBeTrue)
		})

		Convey("Then the input listings are not modified", func() {
			So(good.Scores, ShouldBeNil)
		})
	})
}
