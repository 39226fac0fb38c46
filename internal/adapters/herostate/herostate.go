// Package herostate reads stamina and quest snapshots for owned heroes.
package herostate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/okian/tavern/internal/adapters/market"
	"github.com/okian/tavern/internal/domain/catalog"
	"github.com/okian/tavern/internal/domain/model"
	"github.com/okian/tavern/pkg/logger"
	"github.com/okian/tavern/pkg/metrics"
)

// Source names this adapter in logs and metrics.
const Source = "herostate"

// Sentinel errors.
var (
	ErrFetch  = errors.New("fetch hero state failed")
	ErrDecode = errors.New("decode hero state failed")
)

// idParam is replaced by the hero id when present in the URL.
const idParam = "{heroId}"

type heroState struct {
	ID             string         `json:"id"`
	CurrentStamina int            `json:"currentStamina"`
	Professions    map[string]int `json:"professions"`
	Stats          struct {
		Stamina int `json:"stamina"`
	} `json:"stats"`
	State struct {
		StaminaFullAt int64 `json:"staminaFullAt"`
	} `json:"state"`
	Quest *struct {
		CompleteAtTime int64 `json:"completeAtTime"`
	} `json:"quest"`
}

// Client fetches hero snapshots from a JSON endpoint.
type Client struct {
	url     string
	client  *resty.Client
	log     logger.Logger
	workers int
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the client logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// WithHTTPClient replaces the underlying resty client.
func WithHTTPClient(rc *resty.Client) Option {
	return func(c *Client) {
		if rc != nil {
			c.client = rc
		}
	}
}

// WithConcurrency bounds how many snapshots Snapshots fetches at once.
func WithConcurrency(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.workers = n
		}
	}
}

// New returns a client for url. The hero id is substituted for {heroId} or
// appended as the last path segment.
func New(url string, timeout time.Duration, retries int, opts ...Option) *Client {
	c := &Client{url: url, workers: 4}
	for _, opt := range opts {
		opt(c)
	}
	if c.client == nil {
		c.client = market.NewClient(timeout, retries, time.Second, nil)
	}
	if c.log == nil {
		c.log = logger.Get().Named(Source)
	}
	return c
}

func (c *Client) endpoint() string {
	if strings.Contains(c.url, idParam) {
		return c.url
	}
	return strings.TrimRight(c.url, "/") + "/" + idParam
}

// Snapshot fetches the current state of heroID.
func (c *Client) Snapshot(ctx context.Context, heroID string) (model.StaminaSnapshot, error) {
	start := time.Now()
	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("heroId", heroID).
		Get(c.endpoint())
	metrics.RecordFetchLatency(Source, float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordFetchError(Source)
		return model.StaminaSnapshot{}, fmt.Errorf("hero %s: %w: %w", heroID, ErrFetch, err)
	}
	if resp.StatusCode() != http.StatusOK {
		metrics.RecordFetchError(Source)
		return model.StaminaSnapshot{}, fmt.Errorf("hero %s: status %d: %w", heroID, resp.StatusCode(), ErrFetch)
	}

	var hs heroState
	if err := json.Unmarshal(resp.Body(), &hs); err != nil {
		metrics.RecordFetchError(Source)
		return model.StaminaSnapshot{}, fmt.Errorf("hero %s: %w: %w", heroID, ErrDecode, err)
	}

	snap := model.StaminaSnapshot{
		HeroID:           heroID,
		CurrentStamina:   hs.CurrentStamina,
		TotalStamina:     hs.Stats.Stamina,
		StaminaFullAt:    time.Unix(hs.State.StaminaFullAt, 0).UTC(),
		ProfessionPoints: make(model.ProfessionPoints, len(hs.Professions)),
	}
	for name, pts := range hs.Professions {
		p, err := catalog.ParseProfession(name)
		if err != nil {
			c.log.Debug(ctx, "ignoring unknown profession", logger.String("hero", heroID), logger.String("profession", name))
			continue
		}
		snap.ProfessionPoints[p] = pts
	}
	if hs.Quest != nil {
		snap.Quest = &model.ActiveQuest{CompleteAt: time.Unix(hs.Quest.CompleteAtTime, 0).UTC()}
	}
	if err := snap.Validate(); err != nil {
		return model.StaminaSnapshot{}, fmt.Errorf("hero %s: %w: %w", heroID, ErrDecode, err)
	}
	return snap, nil
}

// Snapshots fetches every hero in ids using a small worker pool. Results
// keep the order of ids. Heroes that fail are logged and skipped; the error
// is non-nil only when every fetch failed.
func (c *Client) Snapshots(ctx context.Context, ids []string) ([]model.StaminaSnapshot, error) {
	type result struct {
		snap model.StaminaSnapshot
		err  error
	}
	results := make([]result, len(ids))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < min(c.workers, len(ids)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				s, err := c.Snapshot(ctx, ids[i])
				results[i] = result{snap: s, err: err}
			}
		}()
	}
	for i := range ids {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	out := make([]model.StaminaSnapshot, 0, len(ids))
	var errs []error
	for i, r := range results {
		if r.err != nil {
			c.log.Warn(ctx, "hero snapshot failed", logger.String("hero", ids[i]), logger.Error(r.err))
			errs = append(errs, r.err)
			continue
		}
		out = append(out, r.snap)
	}
	if len(ids) > 0 && len(out) == 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}
