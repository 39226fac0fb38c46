// Package market retrieves open sale listings from the marketplace APIs and
// normalizes them into model.Listing records.
package market

import (
	"context"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/okian/tavern/internal/domain/model"
	"github.com/okian/tavern/internal/domain/scoring"
	"github.com/okian/tavern/pkg/logger"
	"github.com/shopspring/decimal"
)

// Rejection records an upstream record that was skipped.
type Rejection = scoring.Rejection

// Query narrows a fetch.
type Query struct {
	// MinPrice and MaxPrice bound the starting price, in the smallest unit.
	MinPrice decimal.Decimal
	MaxPrice decimal.Decimal
	Limit    int
	// PJFilter keeps only heroes that survived the perilous journey. Only the
	// REST provider supports it.
	PJFilter bool
}

// UnitsQuery builds a Query from a price window in whole currency units.
func UnitsQuery(minUnits, maxUnits float64, limit int) Query {
	return Query{
		MinPrice: decimal.NewFromFloat(minUnits).Shift(model.UnitExponent).Floor(),
		MaxPrice: decimal.NewFromFloat(maxUnits).Shift(model.UnitExponent).Floor(),
		Limit:    limit,
	}
}

// Provider fetches one batch of open listings. Records that cannot be
// normalized are returned as rejections; only a failure of the whole request
// is an error.
type Provider interface {
	Name() string
	FetchListings(ctx context.Context, q Query) ([]model.Listing, []Rejection, error)
}

type options struct {
	timeout    time.Duration
	retryCount int
	retryWait  time.Duration
	httpClient *http.Client
	log        logger.Logger
}

// Option configures a provider.
type Option func(*options)

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithRetry retries a failed request up to count times, waiting at least
// wait between attempts.
func WithRetry(count int, wait time.Duration) Option {
	return func(o *options) {
		if count >= 0 {
			o.retryCount = count
		}
		if wait > 0 {
			o.retryWait = wait
		}
	}
}

// WithHTTPClient sets the underlying transport client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// WithLogger sets the provider logger.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

func buildOptions(name string, opts []Option) options {
	o := options{timeout: 30 * time.Second, retryCount: 2, retryWait: time.Second}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.Get().Named(name)
	}
	return o
}

// NewClient returns a resty client that retries transport errors, 429 and
// 5xx responses. It is shared by every upstream adapter.
func NewClient(timeout time.Duration, retryCount int, retryWait time.Duration, hc *http.Client) *resty.Client {
	var c *resty.Client
	if hc != nil {
		c = resty.NewWithClient(hc)
	} else {
		c = resty.New()
	}
	c.SetTimeout(timeout).
		SetRetryCount(retryCount).
		SetRetryWaitTime(retryWait).
		SetRetryMaxWaitTime(4 * retryWait).
		SetHeader("Accept", "application/json").
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return r != nil && (r.StatusCode() == http.StatusTooManyRequests || r.StatusCode() >= http.StatusInternalServerError)
		})
	return c
}

func (o options) client() *resty.Client {
	return NewClient(o.timeout, o.retryCount, o.retryWait, o.httpClient)
}
