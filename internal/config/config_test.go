package config_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okian/tavern/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.Endpoint, convey.ShouldEqual, config.EndpointV6)
			convey.So(cfg.QueryLimit, convey.ShouldEqual, 500)
			convey.So(cfg.MinPrice, convey.ShouldEqual, 1.0)
			convey.So(cfg.MaxPrice, convey.ShouldEqual, 80.0)
			convey.So(cfg.FilterMode, convey.ShouldEqual, config.FilterBestFit)
			convey.So(cfg.SortField, convey.ShouldEqual, "started_at")
			convey.So(cfg.MinProfessionPoints, convey.ShouldEqual, 10)
			convey.So(cfg.Rounding, convey.ShouldEqual, config.RoundingHalfEven)
		})

		convey.Convey("Then the interval accessors convert seconds", func() {
			convey.So(cfg.RefreshInterval(), convey.ShouldEqual, 30*time.Second)
			convey.So(cfg.QuestRefreshInterval(), convey.ShouldEqual, 15*time.Second)
			convey.So(cfg.RetryDelay(), convey.ShouldEqual, 5*time.Second)
			convey.So(cfg.HTTPTimeout(), convey.ShouldEqual, 30*time.Second)
		})

		convey.Convey("Then the defaults validate", func() {
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given a default config", t, func() {
		cfg := config.New(context.Background())

		cases := []struct {
			name   string
			mutate func(*config.Config)
		}{
			{"unknown endpoint", func(c *config.Config) { c.Endpoint = "v7" }},
			{"unknown filter mode", func(c *config.Config) { c.FilterMode = "cheapest" }},
			{"unknown rounding", func(c *config.Config) { c.Rounding = "up" }},
			{"unknown log format", func(c *config.Config) { c.LogFormat = "xml" }},
			{"zero refresh interval", func(c *config.Config) { c.RefreshIntervalSec = 0 }},
			{"inverted price window", func(c *config.Config) { c.MinPrice, c.MaxPrice = 10, 5 }},
			{"zero query limit", func(c *config.Config) { c.QueryLimit = 0 }},
			{"zero hero concurrency", func(c *config.Config) { c.HeroConcurrency = 0 }},
			{"unknown sort field", func(c *config.Config) { c.SortField = "charisma" }},
			{"unknown profession", func(c *config.Config) { c.Professions = []string{"smithing"} }},
			{"unknown class", func(c *config.Config) { c.Classes = []string{"Bard"} }},
			{"unknown stat boost", func(c *config.Config) { c.StatBoosts2 = []string{"CHA"} }},
			{"hero url without hero ids", func(c *config.Config) { c.HeroStateURL = "http://x" }},
		}
		for _, tc := range cases {
			convey.Convey("When the config has a bad value: "+tc.name, func() {
				tc.mutate(cfg)

				convey.Convey("Then validation fails with ErrInvalidConfig", func() {
					convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
				})
			})
		}

		convey.Convey("When filters use mixed case", func() {
			cfg.Professions = []string{"Mining"}
			cfg.Classes = []string{"darkknight"}
			cfg.StatBoosts1 = []string{"str"}

			convey.Convey("Then they are accepted", func() {
				convey.So(cfg.Validate(), convey.ShouldBeNil)
			})
		})
	})
}
