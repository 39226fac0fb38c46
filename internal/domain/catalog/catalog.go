// Package catalog holds the static reference tables used to value heroes:
// per-class stat growth, per-profession class/stat affinity and rarity bonuses.
//
// The tables are built once at package initialization and never mutated, so
// every exported lookup is safe for concurrent readers.
package catalog

import (
	"fmt"
	"strings"
)

// Class identifies a hero class.
type Class string

// Hero classes.
const (
	Warrior     Class = "Warrior"
	Knight      Class = "Knight"
	Thief       Class = "Thief"
	Archer      Class = "Archer"
	Priest      Class = "Priest"
	Wizard      Class = "Wizard"
	Monk        Class = "Monk"
	Pirate      Class = "Pirate"
	Paladin     Class = "Paladin"
	DarkKnight  Class = "DarkKnight"
	Summoner    Class = "Summoner"
	Ninja       Class = "Ninja"
	Dragoon     Class = "Dragoon"
	Sage        Class = "Sage"
	DreadKnight Class = "DreadKnight"
)

// Stat is one of the eight canonical stat codes.
type Stat string

// Stat codes.
const (
	STR Stat = "STR"
	AGI Stat = "AGI"
	END Stat = "END"
	WIS Stat = "WIS"
	DEX Stat = "DEX"
	VIT Stat = "VIT"
	INT Stat = "INT"
	LCK Stat = "LCK"
)

// Profession identifies a gathering profession.
type Profession string

// Professions.
const (
	Fishing   Profession = "fishing"
	Foraging  Profession = "foraging"
	Gardening Profession = "gardening"
	Mining    Profession = "mining"
)

// Rarity is the hero rarity tier, 0 (common) through 4 (mythic).
type Rarity int

// Rarity tiers.
const (
	Common Rarity = iota
	Uncommon
	Rare
	Legendary
	Mythic
)

var rarityNames = [...]string{"common", "uncommon", "rare", "legendary", "mythic"}

// String returns the lower-case tier name.
func (r Rarity) String() string {
	if r < Common || r > Mythic {
		return fmt.Sprintf("rarity(%d)", int(r))
	}
	return rarityNames[r]
}

// Valid reports whether r is a known tier.
func (r Rarity) Valid() bool { return r >= Common && r <= Mythic }

// GrowthProfile maps each stat to a class growth weight in [0, 100].
type GrowthProfile map[Stat]int

// ProfessionAffinity lists the classes suited to a profession and the two
// stats that drive it.
type ProfessionAffinity struct {
	Profession Profession
	Classes    map[Class]struct{}
	Stats      [2]Stat
}

// HasClass reports whether c is an eligible main class.
func (a ProfessionAffinity) HasClass(c Class) bool {
	_, ok := a.Classes[c]
	return ok
}

// HasStat reports whether s is one of the profession stats.
func (a ProfessionAffinity) HasStat(s Stat) bool {
	return a.Stats[0] == s || a.Stats[1] == s
}

// canonical orderings; slices returned to callers are copies.
var (
	stats       = []Stat{STR, AGI, END, WIS, DEX, VIT, INT, LCK}
	professions = []Profession{Fishing, Foraging, Gardening, Mining}
	classes     = []Class{
		Warrior, Knight, Thief, Archer, Priest, Wizard, Monk, Pirate,
		Paladin, DarkKnight, Summoner, Ninja, Dragoon, Sage, DreadKnight,
	}
)

// Stats returns the eight stat codes in canonical order.
func Stats() []Stat { return append([]Stat(nil), stats...) }

// Professions returns the professions in canonical order. The order doubles as
// the tie-break priority wherever two professions compare equal.
func Professions() []Profession { return append([]Profession(nil), professions...) }

// Classes returns every known class.
func Classes() []Class { return append([]Class(nil), classes...) }

// ClassGrowth returns the growth weight of stat for class c.
func ClassGrowth(c Class, s Stat) (int, error) {
	p, ok := classGrowth[c]
	if !ok {
		return 0, fmt.Errorf("class %q: %w", c, ErrUnknownClass)
	}
	w, ok := p[s]
	if !ok {
		return 0, fmt.Errorf("stat %q: %w", s, ErrUnknownStat)
	}
	return w, nil
}

// Profile returns a copy of the full growth profile for class c.
func Profile(c Class) (GrowthProfile, error) {
	p, ok := classGrowth[c]
	if !ok {
		return nil, fmt.Errorf("class %q: %w", c, ErrUnknownClass)
	}
	out := make(GrowthProfile, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out, nil
}

// Affinity returns the class/stat affinity of profession p.
func Affinity(p Profession) (ProfessionAffinity, error) {
	a, ok := affinities[p]
	if !ok {
		return ProfessionAffinity{}, fmt.Errorf("profession %q: %w", p, ErrUnknownProfession)
	}
	return a, nil
}

// RarityBonus returns the per-level growth bonus granted by rarity r.
func RarityBonus(r Rarity) (float64, error) {
	if !r.Valid() {
		return 0, fmt.Errorf("%d: %w", int(r), ErrInvalidRarity)
	}
	return rarityBonus[r], nil
}

// ClassFromCode resolves the small integer class code used by the REST
// listing provider.
func ClassFromCode(code int) (Class, error) {
	c, ok := classCodes[code]
	if !ok {
		return "", fmt.Errorf("class code %d: %w", code, ErrUnknownClass)
	}
	return c, nil
}

// ParseClass resolves a class identifier, ignoring case.
func ParseClass(s string) (Class, error) {
	c, ok := classByName[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("class %q: %w", s, ErrUnknownClass)
	}
	return c, nil
}

// ParseStat resolves a stat code, ignoring case.
func ParseStat(s string) (Stat, error) {
	st := Stat(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := statIndex[st]; !ok {
		return "", fmt.Errorf("stat %q: %w", s, ErrUnknownStat)
	}
	return st, nil
}

// ParseProfession resolves a profession name, ignoring case.
func ParseProfession(s string) (Profession, error) {
	p := Profession(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := affinities[p]; !ok {
		return "", fmt.Errorf("profession %q: %w", s, ErrUnknownProfession)
	}
	return p, nil
}

var (
	classByName = func() map[string]Class {
		m := make(map[string]Class, len(classes))
		for _, c := range classes {
			m[strings.ToLower(string(c))] = c
		}
		return m
	}()

	statIndex = func() map[Stat]int {
		m := make(map[Stat]int, len(stats))
		for i, s := range stats {
			m[s] = i
		}
		return m
	}()
)
