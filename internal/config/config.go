// Package config defines the watcher configuration and how it is loaded.
//
// Conventions:
//   - New(ctx) returns the defaults; Load layers a YAML file and env vars on top.
//   - Durations are configured in whole seconds and exposed as time.Duration
//     through accessor methods.
//   - Validation errors wrap ErrInvalidConfig.
package config

import (
	"context"
	"time"
)

// Listing providers.
const (
	EndpointV5 = "v5"
	EndpointV6 = "v6"
)

// Filter modes.
const (
	FilterBestFit = "best_fit"
	FilterAll     = "all"
)

// Rounding modes for scores.
const (
	RoundingHalfEven         = "half_even"
	RoundingHalfAwayFromZero = "half_away"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat is text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080". Empty disables the API.
	Addr string `koanf:"addr"`

	// RefreshIntervalSec is the pause between listing cycles.
	RefreshIntervalSec int `koanf:"refresh_interval"`
	// QuestRefreshIntervalSec is the pause between hero status cycles.
	QuestRefreshIntervalSec int `koanf:"quest_refresh_interval"`
	// RetryDelaySec is the pause after a failed cycle.
	RetryDelaySec int `koanf:"retry_delay"`

	// Endpoint selects the listing provider: v5 (GraphQL) or v6 (REST).
	Endpoint string `koanf:"endpoint"`
	V5URL    string `koanf:"v5_url"`
	V6URL    string `koanf:"v6_url"`
	// HTTPTimeoutSec bounds each upstream request.
	HTTPTimeoutSec int `koanf:"http_timeout"`
	// RetryCount is how many times a failed upstream request is retried.
	RetryCount int `koanf:"retry_count"`

	// QueryLimit caps listings per fetch.
	QueryLimit int `koanf:"query_limit"`
	// MinPrice and MaxPrice bound the starting price in whole currency units.
	MinPrice float64 `koanf:"min_price"`
	MaxPrice float64 `koanf:"max_price"`
	// PJFilter keeps only heroes that survived the perilous journey (v6 only).
	PJFilter bool `koanf:"pj_filter"`

	// FilterMode is best_fit (affinity predicate) or all.
	FilterMode string `koanf:"filter_mode"`
	// Professions, Classes, StatBoosts1 and StatBoosts2 restrict matching; empty means all.
	Professions []string `koanf:"professions"`
	Classes     []string `koanf:"classes"`
	StatBoosts1 []string `koanf:"stat_boosts1"`
	StatBoosts2 []string `koanf:"stat_boosts2"`

	// SortField orders the board; see matcher.SortField.
	SortField     string `koanf:"sort_field"`
	SortAscending bool   `koanf:"sort_ascending"`
	// DisplayLimit caps rendered rows; 0 renders all.
	DisplayLimit int `koanf:"display_limit"`
	// MinProfessionPoints hides listings below this many points in their own profession.
	MinProfessionPoints int `koanf:"min_profession_points"`
	// Rounding is half_even or half_away.
	Rounding string `koanf:"rounding"`

	// HeroStateURL serves hero stamina snapshots; empty disables hero tracking.
	HeroStateURL string   `koanf:"hero_state_url"`
	HeroIDs      []string `koanf:"hero_ids"`

	// HeroConcurrency bounds the snapshot requests in flight per hero cycle.
	HeroConcurrency int `koanf:"hero_concurrency"`

	// Console enables the terminal tables.
	Console     bool `koanf:"console"`
	ClearScreen bool `koanf:"clear_screen"`
	Color       bool `koanf:"color"`

	// DedupeSize bounds how many sale ids are remembered for the new-listing flag.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxBoardLimit caps GET /listings?limit.
	MaxBoardLimit int `koanf:"max_board_limit"`
}

// New returns the defaults. Context is accepted first to follow the
// project-wide convention.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:                "info",
		LogFormat:               "text",
		Addr:                    ":9080",
		RefreshIntervalSec:      30,
		QuestRefreshIntervalSec: 15,
		RetryDelaySec:           5,
		Endpoint:                EndpointV6,
		V5URL:                   "http://graph3.defikingdoms.com/subgraphs/name/defikingdoms/apiv5",
		V6URL:                   "https://us-central1-defi-kingdoms-api.cloudfunctions.net/query_heroes",
		HTTPTimeoutSec:          30,
		RetryCount:              2,
		QueryLimit:              500,
		MinPrice:                1,
		MaxPrice:                80,
		FilterMode:              FilterBestFit,
		SortField:               "started_at",
		MinProfessionPoints:     10,
		Rounding:                RoundingHalfEven,
		Console:                 true,
		Color:                   true,
		HeroConcurrency:         4,
		DedupeSize:              50_000,
		MaxBoardLimit:           100,
	}
}

// RefreshInterval returns the listing cycle pause.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalSec) * time.Second
}

// QuestRefreshInterval returns the hero cycle pause.
func (c *Config) QuestRefreshInterval() time.Duration {
	return time.Duration(c.QuestRefreshIntervalSec) * time.Second
}

// RetryDelay returns the pause after a failed cycle.
func (c *Config) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelaySec) * time.Second
}

// HTTPTimeout returns the per-request upstream timeout.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSec) * time.Second
}
