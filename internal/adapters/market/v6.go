package market

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/okian/tavern/internal/domain/catalog"
	"github.com/okian/tavern/internal/domain/model"
	"github.com/okian/tavern/pkg/logger"
	"github.com/okian/tavern/pkg/metrics"
)

// SourceV6 names the REST provider in logs and metrics.
const SourceV6 = "v6"

type v6Param struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    any    `json:"value"`
}

type v6Order struct {
	OrderBy  string `json:"orderBy"`
	OrderDir string `json:"orderDir"`
}

type v6Request struct {
	Limit  int       `json:"limit"`
	Params []v6Param `json:"params"`
	Order  v6Order   `json:"order"`
}

type v6Record struct {
	ID            flexString `json:"id"`
	SaleAuction   flexString `json:"saleauction"`
	StartedAt     flexString `json:"saleauction_startedat"`
	StartingPrice flexString `json:"saleauction_startingprice"`
	MainClass     flexString `json:"mainclass"`
	SubClass      flexString `json:"subclass"`
	Profession    flexString `json:"profession"`
	StatBoost1    flexString `json:"statboost1"`
	StatBoost2    flexString `json:"statboost2"`
	Generation    flexString `json:"generation"`
	Rarity        flexString `json:"rarity"`
	Level         flexString `json:"level"`
	Summons       flexString `json:"summons"`
	MaxSummons    flexString `json:"maxsummons"`

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

func (v v6Record) record() record {
	return record{
		SaleID:        v.SaleAuction,
		StartedAt:     v.StartedAt,
		StartingPrice: v.StartingPrice,
		HeroID:        v.ID,
		MainClass:     v.MainClass,
		SubClass:      v.SubClass,
		Profession:    v.Profession,
		StatBoost1:    v.StatBoost1,
		StatBoost2:    v.StatBoost2,
		Generation:    v.Generation,
		Rarity:        v.Rarity,
		Level:         v.Level,
		Summons:       v.Summons,
		MaxSummons:    v.MaxSummons,
		Professions: map[catalog.Profession]flexString{
			catalog.Fishing:   v.Fishing,
			catalog.Foraging:  v.Foraging,
			catalog.Gardening: v.Gardening,
			catalog.Mining:    v.Mining,
		},
		Stats: map[string]flexString{
			"strength":     v.Strength,
			"agility":      v.Agility,
			"endurance":    v.Endurance,
			"wisdom":       v.Wisdom,
			"dexterity":    v.Dexterity,
			"vitality":     v.Vitality,
			"intelligence": v.Intelligence,
			"luck":         v.Luck,
		},
	}
}

// V6 is the REST listing provider. It posts a filter document and receives a
// flat array of hero records.
type V6 struct {
	url    string
	client *resty.Client
	log    logger.Logger
}

// NewV6 returns a REST provider for url.
func NewV6(url string, opts ...Option) *V6 {
	o := buildOptions("market.v6", opts)
	return &V6{url: url, client: o.client(), log: o.log}
}

// Name implements Provider.
func (p *V6) Name() string { return SourceV6 }

// FetchListings implements Provider. Results are ordered freshest first.
func (p *V6) FetchListings(ctx context.Context, q Query) ([]model.Listing, []Rejection, error) {
	body := v6Request{
		Limit: q.Limit,
		Params: []v6Param{
			{Field: "saleprice", Operator: ">=", Value: q.MinPrice.String()},
			{Field: "saleprice", Operator: "<=", Value: q.MaxPrice.String()},
		},
		Order: v6Order{OrderBy: "saleauction", OrderDir: "desc"},
	}
	if q.PJFilter {
		body.Params = append(body.Params, v6Param{Field: "pjstatus", Operator: "=", Value: "SURVIVED"})
	}

	start := time.Now()
	resp, err := p.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(p.url)
	metrics.RecordFetchLatency(SourceV6, float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordFetchError(SourceV6)
		return nil, nil, fmt.Errorf("%s: %w: %w", SourceV6, ErrFetch, err)
	}
	if resp.IsError() {
		metrics.RecordFetchError(SourceV6)
		return nil, nil, fmt.Errorf("%s: status %d: %w", SourceV6, resp.StatusCode(), ErrFetch)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(resp.Body(), &raw); err != nil {
		metrics.RecordFetchError(SourceV6)
		return nil, nil, fmt.Errorf("%s: %w: %w", SourceV6, ErrDecode, err)
	}

	records := make([]record, 0, len(raw))
	var rejected []Rejection
	for i, msg := range raw {
		var v v6Record
		if err := json.Unmarshal(msg, &v); err != nil {
			rejected = append(rejected, Rejection{
				SaleID: fmt.Sprintf("#%d", i),
				Err:    fmt.Errorf("%w: %w", ErrMalformedRecord, err),
			})
			continue
		}
		records = append(records, v.record())
	}
	listings, bad := normalizeAll(records)
	rejected = append(rejected, bad...)

	p.log.Debug(ctx, "fetched listings",
		logger.Int("records", len(raw)),
		logger.Int("listings", len(listings)),
		logger.Int("rejected", len(rejected)),
		logger.Duration("took", time.Since(start)))
	return listings, rejected, nil
}
