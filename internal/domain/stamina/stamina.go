// Package stamina classifies owned heroes as questing or regenerating and
// derives the time estimates a player acts on.
//
// State is recomputed from each snapshot; nothing is carried between polls.
package stamina

import (
	"time"

	"github.com/okian/tavern/internal/domain/catalog"
	"github.com/okian/tavern/internal/domain/model"
)

// State is the activity a hero is in at poll time.
type State string

const (
	Questing     State = "QUESTING"
	Regenerating State = "REGENERATING"
)

// Regeneration ticks, one stamina point per tick.
const (
	QuestingTick     = 10 * time.Minute
	RegeneratingTick = 20 * time.Minute
)

// Ideal stamina thresholds per profession.
const (
	gardeningIdeal    = 15
	miningIdeal       = 20
	staminaPerAttempt = 5 // fishing and foraging
)

// Status is the classified view of one snapshot. Exactly one of Quest and
// Regen is set, matching State.
type Status struct {
	HeroID         string
	State          State
	CurrentStamina int
	TotalStamina   int
	TimeToFull     time.Duration
	MaxProfession  catalog.Profession
	Tick           time.Duration

	Quest *QuestDetail
	Regen *RegenDetail
}

// QuestDetail holds the questing-only estimates.
type QuestDetail struct {
	// TimeLeft is negative once the quest is overdue.
	TimeLeft  time.Duration
	Completed bool
}

// RegenDetail holds the regenerating-only estimates.
type RegenDetail struct {
	Threshold           int
	Ready               bool
	Regenerated         bool
	TimeToMaxProfession time.Duration
}

// Classify builds the status of s as of now.
func Classify(s model.StaminaSnapshot, now time.Time) Status {
	st := Status{
		HeroID:         s.HeroID,
		CurrentStamina: s.CurrentStamina,
		TotalStamina:   s.TotalStamina,
		TimeToFull:     TimeToFull(s.StaminaFullAt, now),
		MaxProfession:  MaxProfession(s.ProfessionPoints),
	}
	if s.Quest != nil {
		st.State = Questing
		st.Tick = QuestingTick
		left := s.Quest.CompleteAt.Sub(now).Truncate(time.Second)
		st.Quest = &QuestDetail{TimeLeft: left, Completed: left < 0}
		return st
	}

	st.State = Regenerating
	st.Tick = RegeneratingTick
	threshold := Threshold(st.MaxProfession, s.TotalStamina)
	d := &RegenDetail{
		Threshold:   threshold,
		Regenerated: s.CurrentStamina == s.TotalStamina,
	}
	d.Ready = d.Regenerated || s.CurrentStamina >= threshold
	if !d.Ready {
		d.TimeToMaxProfession = timeToThreshold(s.CurrentStamina, threshold, st.TimeToFull)
	}
	st.Regen = d
	return st
}

// TimeToFull is the whole seconds until fullAt, never negative.
func TimeToFull(fullAt, now time.Time) time.Duration {
	d := fullAt.Sub(now).Truncate(time.Second)
	if d < 0 {
		return 0
	}
	return d
}

// MaxProfession returns the profession with the most points. Ties go to the
// first profession in catalog.Professions order.
func MaxProfession(points model.ProfessionPoints) catalog.Profession {
	profs := catalog.Professions()
	best := profs[0]
	for _, p := range profs[1:] {
		if points[p] > points[best] {
			best = p
		}
	}
	return best
}

// Threshold is the stamina at which a quest in p yields its best reward.
func Threshold(p catalog.Profession, total int) int {
	switch p {
	case catalog.Gardening:
		return gardeningIdeal
	case catalog.Mining:
		return miningIdeal
	default:
		return total - total%staminaPerAttempt
	}
}

// timeToThreshold counts the whole ticks still missing, then aligns the
// estimate with the partial tick implied by the precise time to full.
func timeToThreshold(current, threshold int, toFull time.Duration) time.Duration {
	tickMinutes := int64(RegeneratingTick / time.Minute)
	base := time.Duration(int64(threshold-current-1)*tickMinutes) * time.Minute

	secs := int64(toFull / time.Second)
	extraMinutes := ((secs / 60) % 60) % tickMinutes
	extraSeconds := secs % 60
	return base + time.Duration(extraMinutes)*time.Minute + time.Duration(extraSeconds)*time.Second
}
