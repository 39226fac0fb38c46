package api_test

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/okian/tavern/internal/adapters/http/api"
	"github.com/okian/tavern/internal/adapters/repository"
	"github.com/okian/tavern/internal/domain/catalog"
	"github.com/okian/tavern/internal/domain/matcher"
	"github.com/okian/tavern/internal/domain/model"
	"github.com/okian/tavern/internal/domain/stamina"
	"github.com/shopspring/decimal"
	. "github.com/smartystreets/goconvey/convey"
)

var at = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func listing(id string, score int, perPrice float64, started time.Duration) model.Listing {
	return model.Listing{
		SaleID: id,
		HeroID: "h" + id,
		Hero: model.Hero{
			Level: 2, MainClass: catalog.Knight, SubClass: catalog.Warrior, Profession: catalog.Mining,
			Rarity: catalog.Rare, Stats: model.Stats{catalog.STR: 12},
		},
		StatBoost1:       catalog.STR,
		StatBoost2:       catalog.END,
		ProfessionPoints: model.ProfessionPoints{catalog.Mining: 20},
		StartingPrice:    decimal.RequireFromString("2000000000000000000"),
		StartedAt:        at.Add(started),
		Scores:           &model.ListingScores{Profession: score, ProfessionPerUnitPrice: perPrice, CombatAveragePerUnitPrice: math.NaN()},
	}
}

func board() *repository.Board {
	ctx := context.Background()
	b := repository.NewBoard()
	_ = b.PublishListings(ctx, repository.ListingsCycle{
		ID: "cycle-1", Source: "v6", At: at, Fetched: 5, Rejected: 1, New: 3,
		Listings: []model.Listing{
			listing("1", 200, 100, 0),
			listing("2", 500, math.NaN(), time.Minute),
			listing("3", 300, 150, 2*time.Minute),
		},
	})
	_ = b.PublishHeroes(ctx, repository.HeroesCycle{ID: "heroes-1", At: at, Statuses: []stamina.Status{
		{HeroID: "7", State: stamina.Questing, MaxProfession: catalog.Mining, CurrentStamina: 5, TotalStamina: 25,
			Quest: &stamina.QuestDetail{TimeLeft: -90 * time.Second, Completed: true}},
		{HeroID: "8", State: stamina.Regenerating, MaxProfession: catalog.Gardening, CurrentStamina: 10, TotalStamina: 25,
			TimeToFull: time.Hour, Regen: &stamina.RegenDetail{Threshold: 15, TimeToMaxProfession: 80 * time.Minute}},
	}})
	return b
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestServer(t *testing.T) {
	Convey("Given an API server over a published board", t, func() {
		h := api.NewServer(board(), api.WithMaxLimit(2), api.WithDefaultSort(matcher.SortStartedAt, false)).Handler()

		Convey("When the health endpoint is requested", func() {
			w := get(h, "/healthz")

			Convey("Then Prometheus metrics are served", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "tavern_listings_matched")
			})
		})

		Convey("When listings are requested with defaults", func() {
			w := get(h, "/listings")
			var out []map[string]any
			So(json.Unmarshal(w.Body.Bytes(), &out), ShouldBeNil)

			Convey("Then the newest listings up to the maximum are returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(len(out), ShouldEqual, 2)
				So(out[0]["sale_id"], ShouldEqual, "3")
				So(out[0]["price_units"], ShouldEqual, "2")
				So(out[0]["rarity"], ShouldEqual, "rare")
			})

			Convey("Then undefined ratios are null", func() {
				scores := out[1]["scores"].(map[string]any)
				So(out[1]["sale_id"], ShouldEqual, "2")
				So(scores["profession_per_unit_price"], ShouldBeNil)
				So(scores["combat_average_per_unit_price"], ShouldBeNil)
			})
		})

		Convey("When listings are sorted by a score", func() {
			w := get(h, "/listings?limit=1&sort=profession_score_per_price")
			var out []map[string]any
			So(json.Unmarshal(w.Body.Bytes(), &out), ShouldBeNil)

			Convey("Then the best ratio comes first", func() {
				So(len(out), ShouldEqual, 1)
				So(out[0]["sale_id"], ShouldEqual, "3")
			})
		})

		Convey("When listings are sorted ascending", func() {
			w := get(h, "/listings?sort=profession_score&order=asc")
			var out []map[string]any
			So(json.Unmarshal(w.Body.Bytes(), &out), ShouldBeNil)

			Convey("Then the lowest score comes first", func() {
				So(out[0]["sale_id"], ShouldEqual, "1")
			})
		})

		Convey("When the query is invalid", func() {
			Convey("Then the request is rejected", func() {
				So(get(h, "/listings?limit=0").Code, ShouldEqual, http.StatusBadRequest)
				So(get(h, "/listings?limit=x").Code, ShouldEqual, http.StatusBadRequest)
				So(get(h, "/listings?limit=3").Code, ShouldEqual, http.StatusBadRequest)
				So(get(h, "/listings?sort=charisma").Code, ShouldEqual, http.StatusBadRequest)
				So(get(h, "/listings?order=sideways").Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When a single listing is requested", func() {
			Convey("Then a known sale is returned", func() {
				w := get(h, "/listings/2")
				So(w.Code, ShouldEqual, http.StatusOK)
				var out map[string]any
				So(json.Unmarshal(w.Body.Bytes(), &out), ShouldBeNil)
				So(out["hero_id"], ShouldEqual, "h2")
			})

			Convey("Then an unknown sale is not found", func() {
				So(get(h, "/listings/99").Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When hero statuses are requested", func() {
			w := get(h, "/heroes")
			var out struct {
				CycleID string           `json:"cycle_id"`
				Heroes  []map[string]any `json:"heroes"`
			}
			So(json.Unmarshal(w.Body.Bytes(), &out), ShouldBeNil)

			Convey("Then each state carries its own estimates", func() {
				So(out.CycleID, ShouldEqual, "heroes-1")
				So(len(out.Heroes), ShouldEqual, 2)
				So(out.Heroes[0]["time_left_seconds"], ShouldEqual, -90.0)
				So(out.Heroes[0]["completed"], ShouldEqual, true)
				So(out.Heroes[0]["ready"], ShouldBeNil)
				So(out.Heroes[1]["time_to_max_profession_seconds"], ShouldEqual, 4800.0)
				So(out.Heroes[1]["ready"], ShouldEqual, false)
			})
		})

		Convey("When stats are requested", func() {
			w := get(h, "/stats")
			var out map[string]any
			So(json.Unmarshal(w.Body.Bytes(), &out), ShouldBeNil)

			Convey("Then the cycle summary is returned", func() {
				So(out["listings_cycle_id"], ShouldEqual, "cycle-1")
				So(out["listings"], ShouldEqual, 3.0)
				So(out["new"], ShouldEqual, 3.0)
				So(out["heroes"].(map[string]any)["QUESTING"], ShouldEqual, 1.0)
			})
		})

		Convey("When a non-GET method is used", func() {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/listings", nil))

			Convey("Then it is not found", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}
