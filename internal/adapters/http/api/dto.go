package api

import (
	"math"
	"time"

	"github.com/okian/tavern/internal/domain/model"
	"github.com/okian/tavern/internal/domain/stamina"
)

// JSON cannot carry NaN, so undefined ratios become null.
func nullable(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

type combatDTO struct {
	PhysicalDamage int     `json:"physical_damage"`
	MagicalDamage  int     `json:"magical_damage"`
	PhysicalTank   int     `json:"physical_tank"`
	MagicalTank    int     `json:"magical_tank"`
	Average        float64 `json:"average"`
}

type scoresDTO struct {
	Profession                int       `json:"profession"`
	ProfessionPerUnitPrice    *float64  `json:"profession_per_unit_price"`
	Combat                    combatDTO `json:"combat"`
	CombatAveragePerUnitPrice *float64  `json:"combat_average_per_unit_price"`
}

type listingDTO struct {
	SaleID           string         `json:"sale_id"`
	HeroID           string         `json:"hero_id"`
	MainClass        string         `json:"main_class"`
	SubClass         string         `json:"sub_class"`
	Profession       string         `json:"profession"`
	Rarity           string         `json:"rarity"`
	Level            int            `json:"level"`
	Generation       int            `json:"generation"`
	Summons          int            `json:"summons"`
	MaxSummons       int            `json:"max_summons"`
	StatBoost1       string         `json:"stat_boost1"`
	StatBoost2       string         `json:"stat_boost2"`
	Stats            map[string]int `json:"stats"`
	ProfessionPoints map[string]int `json:"profession_points"`
	StartingPrice    string         `json:"starting_price"`
	PriceUnits       string         `json:"price_units"`
	StartedAt        time.Time      `json:"started_at"`
	New              bool           `json:"new"`
	Scores           *scoresDTO     `json:"scores"`
}

func toListingDTO(l model.Listing) listingDTO {
	d := listingDTO{
		SaleID:           l.SaleID,
		HeroID:           l.HeroID,
		MainClass:        string(l.Hero.MainClass),
		SubClass:         string(l.Hero.SubClass),
		Profession:       string(l.Hero.Profession),
		Rarity:           l.Hero.Rarity.String(),
		Level:            l.Hero.Level,
		Generation:       l.Generation,
		Summons:          l.Summons,
		MaxSummons:       l.MaxSummons,
		StatBoost1:       string(l.StatBoost1),
		StatBoost2:       string(l.StatBoost2),
		Stats:            make(map[string]int, len(l.Hero.Stats)),
		ProfessionPoints: make(map[string]int, len(l.ProfessionPoints)),
		StartingPrice:    l.StartingPrice.String(),
		PriceUnits:       l.PriceUnits().String(),
		StartedAt:        l.StartedAt,
		New:              l.New,
	}
	for k, v := range l.Hero.Stats {
		d.Stats[string(k)] = v
	}
	for k, v := range l.ProfessionPoints {
		d.ProfessionPoints[string(k)] = v
	}
	if s := l.Scores; s != nil {
		d.Scores = &scoresDTO{
			Profession:             s.Profession,
			ProfessionPerUnitPrice: nullable(s.ProfessionPerUnitPrice),
			Combat: combatDTO{
				PhysicalDamage: s.Combat.PhysicalDamage,
				MagicalDamage:  s.Combat.MagicalDamage,
				PhysicalTank:   s.Combat.PhysicalTank,
				MagicalTank:    s.Combat.MagicalTank,
				Average:        s.Combat.Average,
			},
			CombatAveragePerUnitPrice: nullable(s.CombatAveragePerUnitPrice),
		}
	}
	return d
}

type heroDTO struct {
	HeroID              string `json:"hero_id"`
	State               string `json:"state"`
	MaxProfession       string `json:"max_profession"`
	CurrentStamina      int    `json:"current_stamina"`
	TotalStamina        int    `json:"total_stamina"`
	TimeToFullSeconds   int64  `json:"time_to_full_seconds"`
	TimeLeftSeconds     *int64 `json:"time_left_seconds,omitempty"`
	Completed           *bool  `json:"completed,omitempty"`
	Threshold           *int   `json:"threshold,omitempty"`
	Ready               *bool  `json:"ready,omitempty"`
	Regenerated         *bool  `json:"regenerated,omitempty"`
	TimeToThresholdSecs *int64 `json:"time_to_max_profession_seconds,omitempty"`
}

func seconds(d time.Duration) *int64 {
	s := int64(d / time.Second)
	return &s
}

func toHeroDTO(s stamina.Status) heroDTO {
	d := heroDTO{
		HeroID:            s.HeroID,
		State:             string(s.State),
		MaxProfession:     string(s.MaxProfession),
		CurrentStamina:    s.CurrentStamina,
		TotalStamina:      s.TotalStamina,
		TimeToFullSeconds: int64(s.TimeToFull / time.Second),
	}
	if q := s.Quest; q != nil {
		d.TimeLeftSeconds = seconds(q.TimeLeft)
		d.Completed = &q.Completed
	}
	if g := s.Regen; g != nil {
		d.Threshold = &g.Threshold
		d.Ready = &g.Ready
		d.Regenerated = &g.Regenerated
		d.TimeToThresholdSecs = seconds(g.TimeToMaxProfession)
	}
	return d
}
