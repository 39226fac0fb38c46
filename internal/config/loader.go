package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/okian/tavern/internal/domain/catalog"
	"github.com/okian/tavern/internal/domain/matcher"
)

// Environment variable names.
const (
	EnvPrefix = "TAVERN_"
	EnvConfig = "TAVERN_CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML) if TAVERN_CONFIG is set
//  3. env (prefix TAVERN_), after a .env file in the working directory has
//     been merged into the environment
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: .env: %w", ErrLoadConfig, err)
	}

	base := New(ctx)
	k := koanf.New(".")

	if path := os.Getenv(EnvConfig); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// TAVERN_QUERY_LIMIT -> query_limit; underscores are kept to match the
	// flat koanf tags.
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks ranges and that every named profession, class, stat and
// sort field is known.
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
	}

	switch c.Endpoint {
	case EndpointV5, EndpointV6:
	default:
		return invalid("endpoint %q: want %s or %s", c.Endpoint, EndpointV5, EndpointV6)
	}
	switch c.FilterMode {
	case FilterBestFit, FilterAll:
	default:
		return invalid("filter_mode %q", c.FilterMode)
	}
	switch c.Rounding {
	case RoundingHalfEven, RoundingHalfAwayFromZero:
	default:
		return invalid("rounding %q", c.Rounding)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return invalid("log_format %q", c.LogFormat)
	}
	if c.RefreshIntervalSec <= 0 || c.QuestRefreshIntervalSec <= 0 {
		return invalid("refresh intervals must be positive")
	}
	if c.RetryDelaySec < 0 || c.RetryCount < 0 || c.HTTPTimeoutSec <= 0 {
		return invalid("retry_delay, retry_count and http_timeout must not be negative")
	}
	if c.HeroConcurrency <= 0 {
		return invalid("hero_concurrency %d", c.HeroConcurrency)
	}
	if c.QueryLimit <= 0 {
		return invalid("query_limit %d", c.QueryLimit)
	}
	if c.MinPrice < 0 || c.MaxPrice < c.MinPrice {
		return invalid("price window [%v, %v]", c.MinPrice, c.MaxPrice)
	}
	if c.DisplayLimit < 0 || c.MinProfessionPoints < 0 || c.MaxBoardLimit <= 0 {
		return invalid("display_limit, min_profession_points and max_board_limit out of range")
	}
	if _, err := matcher.ParseSortField(c.SortField); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	for _, p := range c.Professions {
		if _, err := catalog.ParseProfession(p); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	for _, cl := range c.Classes {
		if _, err := catalog.ParseClass(cl); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	for _, s := range append(append([]string(nil), c.StatBoosts1...), c.StatBoosts2...) {
		if _, err := catalog.ParseStat(s); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	if c.HeroStateURL != "" && len(c.HeroIDs) == 0 {
		return invalid("hero_state_url set without hero_ids")
	}
	return nil
}
