package render_test

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/okian/tavern/internal/adapters/render"
	"github.com/okian/tavern/internal/domain/catalog"
	"github.com/okian/tavern/internal/domain/model"
	"github.com/okian/tavern/internal/domain/stamina"
	"github.com/shopspring/decimal"
	. "github.com/smartystreets/goconvey/convey"
)

var now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return now }

func sample() model.Listing {
	return model.Listing{
		SaleID: "501",
		HeroID: "9001",
		Hero: model.Hero{
			Level: 4, MainClass: catalog.Knight, SubClass: catalog.Warrior, Profession: catalog.Mining,
			Rarity: catalog.Rare, BoostedStat: catalog.END,
			Stats: model.Stats{
				catalog.STR: 12, catalog.AGI: 7, catalog.END: 10, catalog.WIS: 5,
				catalog.DEX: 6, catalog.VIT: 9, catalog.INT: 4, catalog.LCK: 8,
			},
		},
		StatBoost1:       catalog.STR,
		StatBoost2:       catalog.END,
		ProfessionPoints: model.ProfessionPoints{catalog.Mining: 25},
		StartingPrice:    decimal.RequireFromString("12500000000000000000"),
		StartedAt:        now.Add(-5 * time.Minute),
		Generation:       1,
		Summons:          2,
		MaxSummons:       10,
		New:              true,
		Scores:           &model.ListingScores{Profession: 320, ProfessionPerUnitPrice: math.NaN()},
	}
}

func TestListings(t *testing.T) {
	Convey("Given a listing", t, func() {
		var buf bytes.Buffer

		Convey("When rendered without color", func() {
			So(render.New(&buf, render.WithClock(clock)).Listings([]model.Listing{sample()}), ShouldBeNil)
			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")

			Convey("Then a header and one row are written", func() {
				So(len(lines), ShouldEqual, 2)
				So(lines[0], ShouldStartWith, "saleId")
				So(buf.String(), ShouldNotContainSubstring, "\x1b[")
			})

			Convey("Then the row carries the formatted cells", func() {
				fields := strings.Fields(lines[1])
				So(fields[0], ShouldEqual, "501*")
				So(lines[1], ShouldContainSubstring, "5 min ago")
				So(lines[1], ShouldContainSubstring, "12.5")
				So(lines[1], ShouldContainSubstring, "mining (2.5)")
				So(lines[1], ShouldContainSubstring, "2/10")
				So(fields, ShouldContain, "12+")
				So(fields, ShouldContain, "10%")
				So(fields, ShouldContain, "320")
			})
		})

		Convey("When a colored frame is drawn with screen clearing", func() {
			So(render.New(&buf, render.WithClock(clock), render.WithColor(true), render.WithClearScreen(true)).
				Frame([]model.Listing{sample()}, nil), ShouldBeNil)

			Convey("Then the screen is cleared and the row takes the rarity color", func() {
				out := buf.String()
				So(out, ShouldStartWith, "\x1b[H\x1b[2JLast Refresh: 2024-03-01 12:00:00")
				So(out, ShouldContainSubstring, "\x1b[4msaleId")
				So(out, ShouldContainSubstring, "\x1b[34m501*")
			})

			Convey("Then no hero tables are drawn", func() {
				So(buf.String(), ShouldNotContainSubstring, "QUESTING...")
			})
		})
	})
}

func TestHeroes(t *testing.T) {
	Convey("Given one questing and two regenerating heroes", t, func() {
		statuses := []stamina.Status{
			stamina.Classify(model.StaminaSnapshot{
				HeroID: "1", CurrentStamina: 5, TotalStamina: 25,
				ProfessionPoints: model.ProfessionPoints{catalog.Foraging: 30},
				Quest:            &model.ActiveQuest{CompleteAt: now.Add(-30 * time.Second)},
			}, now),
			stamina.Classify(model.StaminaSnapshot{
				HeroID: "2", CurrentStamina: 25, TotalStamina: 25, StaminaFullAt: now,
				ProfessionPoints: model.ProfessionPoints{catalog.Mining: 30},
			}, now),
			stamina.Classify(model.StaminaSnapshot{
				HeroID: "3", CurrentStamina: 10, TotalStamina: 25, StaminaFullAt: now.Add(5 * time.Hour),
				ProfessionPoints: model.ProfessionPoints{catalog.Gardening: 30},
			}, now),
		}
		var buf bytes.Buffer
		So(render.New(&buf, render.WithClock(clock)).Frame(nil, statuses), ShouldBeNil)
		out := buf.String()

		Convey("Then both sections follow the empty listing board", func() {
			So(out, ShouldStartWith, "Last Refresh: 2024-03-01 12:00:00\nsaleId")
			So(out, ShouldContainSubstring, "QUESTING...")
			So(out, ShouldContainSubstring, "REGENERATING...")
			So(strings.Index(out, "QUESTING..."), ShouldBeLessThan, strings.Index(out, "REGENERATING..."))
		})

		Convey("Then the overdue quest is ready for pickup", func() {
			So(out, ShouldContainSubstring, "-0:00:30")
			line := lineOf(out, "1 ")
			So(strings.Fields(line), ShouldResemble, []string{"1", "foraging", "5/25", "-0:00:30", "Y"})
		})

		Convey("Then the regenerating rows show their estimates", func() {
			So(strings.Fields(lineOf(out, "2 ")), ShouldResemble, []string{"2", "mining", "25/25", "0:00:00", "0:00:00", "Y", "Y"})
			So(strings.Fields(lineOf(out, "3 ")), ShouldResemble, []string{"3", "gardening", "10/25", "1:20:00", "5:00:00"})
		})
	})
}

func lineOf(out, prefix string) string {
	for _, l := range strings.Split(out, "\n") {
		if strings.HasPrefix(l, prefix) {
			return l
		}
	}
	return ""
}

func TestDuration(t *testing.T) {
	Convey("Given durations", t, func() {
		So(render.Duration(0), ShouldEqual, "0:00:00")
		So(render.Duration(3*time.Hour+7*time.Minute+33*time.Second), ShouldEqual, "3:07:33")
		So(render.Duration(26*time.Hour), ShouldEqual, "26:00:00")
		So(render.Duration(-time.Second), ShouldEqual, "-0:00:01")
	})
}

func TestAge(t *testing.T) {
	Convey("Given listing start times", t, func() {
		So(render.Age(now.Add(-30*time.Second), now), ShouldEqual, "30 sec ago")
		So(render.Age(now.Add(-10*time.Minute), now), ShouldEqual, "10 min ago")
		So(render.Age(now.Add(-3*time.Hour), now), ShouldEqual, "3 hours ago")
		So(render.Age(time.Time{}, now), ShouldEqual, "-")
	})
}
