package model

import (
	"fmt"
	"time"
)

// ActiveQuest is the part of a running quest the stamina estimates need.
type ActiveQuest struct {
	CompleteAt time.Time
}

// StaminaSnapshot is an owned hero's stamina and quest state at poll time.
// A nil Quest means the hero is regenerating.
type StaminaSnapshot struct {
	HeroID           string
	CurrentStamina   int
	TotalStamina     int
	StaminaFullAt    time.Time
	ProfessionPoints ProfessionPoints
	Quest            *ActiveQuest
}

// Validate checks stamina bounds.
func (s StaminaSnapshot) Validate() error {
	if s.HeroID == "" {
		return fmt.Errorf("missing hero id: %w", ErrInvalidSnapshot)
	}
	if s.TotalStamina <= 0 {
		return fmt.Errorf("hero %s: total stamina %d: %w", s.HeroID, s.TotalStamina, ErrInvalidSnapshot)
	}
	if s.CurrentStamina < 0 || s.CurrentStamina > s.TotalStamina {
		return fmt.Errorf("hero %s: stamina %d/%d: %w", s.HeroID, s.CurrentStamina, s.TotalStamina, ErrInvalidSnapshot)
	}
	return nil
}
