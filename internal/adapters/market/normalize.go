package market

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/okian/tavern/internal/domain/catalog"
	"github.com/okian/tavern/internal/domain/model"
	"github.com/shopspring/decimal"
)

// flexString accepts a JSON string, number or null. Upstream sends ids,
// prices and class codes either way depending on the endpoint version.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

func (f flexString) int() (int, error) {
	s := strings.TrimSpace(string(f))
	if s == "" {
		return 0, fmt.Errorf("empty integer")
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		// whole numbers are sometimes serialized as 12.0
		fl, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || fl != float64(int(fl)) {
			return 0, fmt.Errorf("integer %q: %w", s, err)
		}
		return int(fl), nil
	}
	return n, nil
}

// record is the version-independent shape both providers decode into
// before normalization.
type record struct {
	SaleID        flexString
	StartedAt     flexString
	StartingPrice flexString

	HeroID     flexString
	MainClass  flexString
	SubClass   flexString
	Profession flexString
	StatBoost1 flexString
	StatBoost2 flexString
	Generation flexString
	Rarity     flexString
	Level      flexString
	Summons    flexString
	MaxSummons flexString

	Professions map[catalog.Profession]flexString
	Stats       map[string]flexString
}

var statNames = map[string]catalog.Stat{
	"strength":     catalog.STR,
	"agility":      catalog.AGI,
	"endurance":    catalog.END,
	"wisdom":       catalog.WIS,
	"dexterity":    catalog.DEX,
	"vitality":     catalog.VIT,
	"intelligence": catalog.INT,
	"luck":         catalog.LCK,
}

func resolveClass(v flexString) (catalog.Class, error) {
	if code, err := v.int(); err == nil {
		return catalog.ClassFromCode(code)
	}
	return catalog.ParseClass(string(v))
}

func resolveStat(v flexString) (catalog.Stat, error) {
	if s, ok := statNames[strings.ToLower(strings.TrimSpace(string(v)))]; ok {
		return s, nil
	}
	return catalog.ParseStat(string(v))
}

// normalize turns a decoded record into a validated listing. Any failure is
// wrapped in ErrMalformedRecord.
func (r record) normalize() (model.Listing, error) {
	l, err := r.convert()
	if err == nil {
		err = l.Validate()
	}
	if err != nil {
		return model.Listing{}, fmt.Errorf("sale %q: %w: %w", string(r.SaleID), ErrMalformedRecord, err)
	}
	return l, nil
}

func (r record) convert() (model.Listing, error) {
	var (
		l   model.Listing
		err error
	)
	l.SaleID = strings.TrimSpace(string(r.SaleID))
	l.HeroID = strings.TrimSpace(string(r.HeroID))
	if l.HeroID == "" {
		l.HeroID = l.SaleID
	}

	if l.Hero.MainClass, err = resolveClass(r.MainClass); err != nil {
		return l, fmt.Errorf("main class: %w", err)
	}
	if l.Hero.SubClass, err = resolveClass(r.SubClass); err != nil {
		return l, fmt.Errorf("sub class: %w", err)
	}
	if l.Hero.Profession, err = catalog.ParseProfession(string(r.Profession)); err != nil {
		return l, err
	}
	if l.StatBoost1, err = resolveStat(r.StatBoost1); err != nil {
		return l, fmt.Errorf("stat boost 1: %w", err)
	}
	if l.StatBoost2, err = resolveStat(r.StatBoost2); err != nil {
		return l, fmt.Errorf("stat boost 2: %w", err)
	}
	l.Hero.BoostedStat = l.StatBoost2

	rarity, err := r.Rarity.int()
	if err != nil {
		return l, fmt.Errorf("rarity: %w", err)
	}
	l.Hero.Rarity = catalog.Rarity(rarity)
	if l.Hero.Level, err = r.Level.int(); err != nil {
		return l, fmt.Errorf("level: %w", err)
	}
	if l.Generation, err = r.Generation.int(); err != nil {
		return l, fmt.Errorf("generation: %w", err)
	}
	// summons are informational; missing values stay zero
	l.Summons, _ = r.Summons.int()
	l.MaxSummons, _ = r.MaxSummons.int()

	l.Hero.Stats = make(model.Stats, len(r.Stats))
	for name, v := range r.Stats {
		st, err := resolveStat(flexString(name))
		if err != nil {
			return l, err
		}
		n, err := v.int()
		if err != nil {
			return l, fmt.Errorf("stat %s: %w", st, err)
		}
		l.Hero.Stats[st] = n
	}

	l.ProfessionPoints = make(model.ProfessionPoints, len(r.Professions))
	for p, v := range r.Professions {
		n, err := v.int()
		if err != nil {
			return l, fmt.Errorf("%s points: %w", p, err)
		}
		l.ProfessionPoints[p] = n
	}

	if strings.TrimSpace(string(r.StartingPrice)) != "" {
		if l.StartingPrice, err = decimal.NewFromString(string(r.StartingPrice)); err != nil {
			return l, fmt.Errorf("starting price: %w", err)
		}
	}
	if strings.TrimSpace(string(r.StartedAt)) != "" {
		secs, err := r.StartedAt.int()
		if err != nil {
			return l, fmt.Errorf("started at: %w", err)
		}
		l.StartedAt = time.Unix(int64(secs), 0).UTC()
	}
	return l, nil
}

// normalizeAll converts every record, collecting failures as rejections.
func normalizeAll(records []record) ([]model.Listing, []Rejection) {
	out := make([]model.Listing, 0, len(records))
	var rejected []Rejection
	for _, r := range records {
		l, err := r.normalize()
		if err != nil {
			rejected = append(rejected, Rejection{SaleID: string(r.SaleID), Err: err})
			continue
		}
		out = append(out, l)
	}
	return out, rejected
}
