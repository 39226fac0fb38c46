package market

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/okian/tavern/internal/domain/catalog"
	"github.com/okian/tavern/internal/domain/model"
	"github.com/okian/tavern/pkg/logger"
	"github.com/okian/tavern/pkg/metrics"
)

// SourceV5 names the GraphQL provider in logs and metrics.
const SourceV5 = "v5"

const v5Query = `query($first: Int, $where: SaleAuctionFilter) {
  saleAuctions(first: $first, orderBy: startedAt, orderDirection: desc, where: $where) {
    id
    startedAt
    startingPrice
    tokenId {
      id mainClass subClass profession statBoost1 statBoost2
      generation rarity level summons maxSummons
      fishing foraging gardening mining
      strength agility endurance wisdom dexterity vitality intelligence luck
    }
  }
}`

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type v5Response struct {
	Data struct {
		SaleAuctions []json.RawMessage `json:"saleAuctions"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}

type v5Hero struct {
	ID         flexString `json:"id"`
	MainClass  flexString `json:"mainClass"`
	SubClass   flexString `json:"subClass"`
	Profession flexString `json:"profession"`
	StatBoost1 flexString `json:"statBoost1"`
	StatBoost2 flexString `json:"statBoost2"`
	Generation flexString `json:"generation"`
	Rarity     flexString `json:"rarity"`
	Level      flexString `json:"level"`
	Summons    flexString `json:"summons"`
	MaxSummons flexString `json:"maxSummons"`

	Fishing   flexString `json:"fishing"`
	Foraging  flexString `json:"foraging"`
	Gardening flexString `json:"gardening"`
	Mining    flexString `json:"mining"`

	Strength     flexString `json:"strength"`
	Agility      flexString `json:"agility"`
	Endurance    flexString `json:"endurance"`
	Wisdom       flexString `json:"wisdom"`
	Dexterity    flexString `json:"dexterity"`
	Vitality     flexString `json:"vitality"`
	Intelligence flexString `json:"intelligence"`
	Luck         flexString `json:"luck"`
}

type v5Auction struct {
	ID            flexString `json:"id"`
	StartedAt     flexString `json:"startedAt"`
	StartingPrice flexString `json:"startingPrice"`
	Hero          *v5Hero    `json:"tokenId"`
}

func (a v5Auction) record() record {
	h := a.Hero
	return record{
		SaleID:        a.ID,
		StartedAt:     a.StartedAt,
		StartingPrice: a.StartingPrice,
		HeroID:        h.ID,
		MainClass:     h.MainClass,
		SubClass:      h.SubClass,
		Profession:    h.Profession,
		StatBoost1:    h.StatBoost1,
		StatBoost2:    h.StatBoost2,
		Generation:    h.Generation,
		Rarity:        h.Rarity,
		Level:         h.Level,
		Summons:       h.Summons,
		MaxSummons:    h.MaxSummons,
		Professions: map[catalog.Profession]flexString{
			catalog.Fishing:   h.Fishing,
			catalog.Foraging:  h.Foraging,
			catalog.Gardening: h.Gardening,
			catalog.Mining:    h.Mining,
		},
		Stats: map[string]flexString{
			"strength":     h.Strength,
			"agility":      h.Agility,
			"endurance":    h.Endurance,
			"wisdom":       h.Wisdom,
			"dexterity":    h.Dexterity,
			"vitality":     h.Vitality,
			"intelligence": h.Intelligence,
			"luck":         h.Luck,
		},
	}
}

// V5 is the GraphQL listing provider.
type V5 struct {
	url    string
	client *resty.Client
	log    logger.Logger
}

// NewV5 returns a GraphQL provider for url.
func NewV5(url string, opts ...Option) *V5 {
	o := buildOptions("market.v5", opts)
	return &V5{url: url, client: o.client(), log: o.log}
}

// Name implements Provider.
func (p *V5) Name() string { return SourceV5 }

// FetchListings implements Provider. Only open auctions inside the price
// window are requested; the pilgrimage filter is not supported here.
func (p *V5) FetchListings(ctx context.Context, q Query) ([]model.Listing, []Rejection, error) {
	if q.PJFilter {
		p.log.Warn(ctx, "pj filter is not supported by this endpoint, ignoring")
	}
	req := graphQLRequest{
		Query: v5Query,
		Variables: map[string]any{
			"first": q.Limit,
			"where": map[string]any{
				"open":              true,
				"startingPrice_gte": q.MinPrice.String(),
				"startingPrice_lte": q.MaxPrice.String(),
			},
		},
	}

	start := time.Now()
	resp, err := p.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post(p.url)
	metrics.RecordFetchLatency(SourceV5, float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordFetchError(SourceV5)
		return nil, nil, fmt.Errorf("%s: %w: %w", SourceV5, ErrFetch, err)
	}
	if resp.IsError() {
		metrics.RecordFetchError(SourceV5)
		return nil, nil, fmt.Errorf("%s: status %d: %w", SourceV5, resp.StatusCode(), ErrFetch)
	}

	var out v5Response
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		metrics.RecordFetchError(SourceV5)
		return nil, nil, fmt.Errorf("%s: %w: %w", SourceV5, ErrDecode, err)
	}
	if len(out.Errors) > 0 {
		msgs := make([]string, 0, len(out.Errors))
		for _, e := range out.Errors {
			msgs = append(msgs, e.Message)
		}
		metrics.RecordFetchError(SourceV5)
		return nil, nil, fmt.Errorf("%s: %s: %w", SourceV5, strings.Join(msgs, "; "), ErrFetch)
	}

	records := make([]record, 0, len(out.Data.SaleAuctions))
	var rejected []Rejection
	for i, msg := range out.Data.SaleAuctions {
		var a v5Auction
		err := json.Unmarshal(msg, &a)
		if err == nil && a.Hero == nil {
			err = fmt.Errorf("missing tokenId")
		}
		if err != nil {
			id := string(a.ID)
			if id == "" {
				id = fmt.Sprintf("#%d", i)
			}
			rejected = append(rejected, Rejection{SaleID: id, Err: fmt.Errorf("%w: %w", ErrMalformedRecord, err)})
			continue
		}
		records = append(records, a.record())
	}
	listings, bad := normalizeAll(records)
	rejected = append(rejected, bad...)

	p.log.Debug(ctx, "fetched listings",
		logger.Int("records", len(out.Data.SaleAuctions)),
		logger.Int("listings", len(listings)),
		logger.Int("rejected", len(rejected)),
		logger.Duration("took", time.Since(start)))
	return listings, rejected, nil
}
