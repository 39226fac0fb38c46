package scoring

import (
	"fmt"

	"github.com/okian/tavern/internal/domain/model"
)

// Rejection records a listing that could not be scored.
type Rejection struct {
	SaleID string
	Err    error
}

// Annotate scores every listing against its hero's own profession and
// returns the scored copies in input order. A listing that fails validation
// or scoring is left out and reported as a rejection; the rest of the batch
// is still scored.
func (s *Scorer) Annotate(listings []model.Listing) ([]model.Listing, []Rejection) {
	out := make([]model.Listing, 0, len(listings))
	var rejected []Rejection
	for _, l := range listings {
		scores, err := s.scoreListing(l)
		if err != nil {
			rejected = append(rejected, Rejection{SaleID: l.SaleID, Err: err})
			continue
		}
		l.Scores = &scores
		out = append(out, l)
	}
	return out, rejected
}

func (s *Scorer) scoreListing(l model.Listing) (model.ListingScores, error) {
	if err := l.Validate(); err != nil {
		return model.ListingScores{}, err
	}
	ps, err := s.ProfessionScore(l.Hero, l.Hero.Profession)
	if err != nil {
		return model.ListingScores{}, fmt.Errorf("sale %s: %w", l.SaleID, err)
	}
	cs, err := s.CombatScores(l.Hero)
	if err != nil {
		return model.ListingScores{}, fmt.Errorf("sale %s: %w", l.SaleID, err)
	}
	return model.ListingScores{
		Profession:                ps,
		ProfessionPerUnitPrice:    PerUnitPrice(float64(ps), l.StartingPrice),
		Combat:                    cs,
		CombatAveragePerUnitPrice: PerUnitPrice(cs.Average, l.StartingPrice),
	}, nil
}
