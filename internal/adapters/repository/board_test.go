package repository_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/tavern/internal/adapters/repository"
	"github.com/okian/tavern/internal/domain/matcher"
	"github.com/okian/tavern/internal/domain/model"
	"github.com/okian/tavern/internal/domain/stamina"
	. "github.com/smartystreets/goconvey/convey"
)

var at = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func scored(id string, score int, started time.Duration) model.Listing {
	return model.Listing{
		SaleID:    id,
		HeroID:    "h" + id,
		StartedAt: at.Add(started),
		Scores:    &model.ListingScores{Profession: score},
	}
}

func TestBoard(t *testing.T) {
	Convey("Given an empty board", t, func() {
		ctx := context.Background()
		b := repository.NewBoard(repository.WithMaxListings(3))

		Convey("Then it has no listings and no heroes", func() {
			So(b.Count(ctx), ShouldEqual, 0)
			So(b.Heroes(ctx).Statuses, ShouldBeEmpty)
			top, err := b.TopN(ctx, 5, matcher.SortStartedAt, false)
			So(err, ShouldBeNil)
			So(top, ShouldBeEmpty)
		})

		Convey("When a listings cycle is published", func() {
			err := b.PublishListings(ctx, repository.ListingsCycle{
				ID: "c1", Source: "v6", At: at, Fetched: 9, Rejected: 1, New: 2,
				Listings: []model.Listing{
					scored("a", 100, 0), scored("b", 300, time.Minute),
					scored("c", 200, 2*time.Minute), scored("d", 400, 3*time.Minute),
				},
			})
			So(err, ShouldBeNil)

			Convey("Then it is capped at the configured size", func() {
				So(b.Count(ctx), ShouldEqual, 3)
				_, err := b.Listing(ctx, "d")
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})

			Convey("Then the cap follows the published order, not the reader's", func() {
				// d has the best profession score but was fourth when published.
				top, err := b.TopN(ctx, 4, matcher.SortProfessionScore, false)
				So(err, ShouldBeNil)
				So(len(top), ShouldEqual, 3)
				for _, l := range top {
					So(l.SaleID, ShouldNotEqual, "d")
				}
			})

			Convey("Then listings can be looked up by sale id", func() {
				l, err := b.Listing(ctx, "b")
				So(err, ShouldBeNil)
				So(l.HeroID, ShouldEqual, "hb")
			})

			Convey("Then TopN sorts a copy and truncates", func() {
				top, err := b.TopN(ctx, 2, matcher.SortProfessionScore, false)
				So(err, ShouldBeNil)
				So(len(top), ShouldEqual, 2)
				So(top[0].SaleID, ShouldEqual, "b")
				So(top[1].SaleID, ShouldEqual, "c")

				again, _ := b.TopN(ctx, 3, matcher.SortStartedAt, true)
				So(again[0].SaleID, ShouldEqual, "a")
			})

			Convey("Then a bad limit or field is rejected", func() {
				_, err := b.TopN(ctx, 0, matcher.SortStartedAt, false)
				So(errors.Is(err, repository.ErrInvalidLimit), ShouldBeTrue)
				_, err = b.TopN(ctx, 1, matcher.SortField("nope"), false)
				So(errors.Is(err, matcher.ErrUnknownSortField), ShouldBeTrue)
			})

			Convey("Then stats describe the cycle", func() {
				s := b.Stats(ctx)
				So(s.ListingsCycleID, ShouldEqual, "c1")
				So(s.Source, ShouldEqual, "v6")
				So(s.Listings, ShouldEqual, 3)
				So(s.Fetched, ShouldEqual, 9)
				So(s.New, ShouldEqual, 2)
			})

			Convey("And a hero cycle is published afterwards", func() {
				So(b.PublishHeroes(ctx, repository.HeroesCycle{ID: "h1", At: at, Statuses: []stamina.Status{
					{HeroID: "1", State: stamina.Questing},
					{HeroID: "2", State: stamina.Regenerating},
					{HeroID: "3", State: stamina.Regenerating},
				}}), ShouldBeNil)

				Convey("Then both cycles are kept", func() {
					So(b.Count(ctx), ShouldEqual, 3)
					s := b.Stats(ctx)
					So(s.HeroesCycleID, ShouldEqual, "h1")
					So(s.Heroes[stamina.Questing], ShouldEqual, 1)
					So(s.Heroes[stamina.Regenerating], ShouldEqual, 2)
					So(len(b.Heroes(ctx).Statuses), ShouldEqual, 3)
				})
			})
		})
	})
}

func TestBoardConcurrency(t *testing.T) {
	Convey("Given concurrent publishers and readers", t, func() {
		ctx := context.Background()
		b := repository.NewBoard()
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(2)
			go func(i int) {
				defer wg.Done()
				_ = b.PublishListings(ctx, repository.ListingsCycle{
					ID:       fmt.Sprint(i),
					Listings: []model.Listing{scored("x", i, 0), scored("y", i+1, 0)},
				})
			}(i)
			go func() {
				defer wg.Done()
				_, _ = b.TopN(ctx, 10, matcher.SortProfessionScore, false)
				_ = b.Stats(ctx)
			}()
		}
		wg.Wait()

		Convey("Then the board holds one complete cycle", func() {
			So(b.Count(ctx), ShouldEqual, 2)
		})
	})
}
