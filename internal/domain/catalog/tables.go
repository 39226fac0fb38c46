package catalog

// classGrowth is the per-level growth weight of each stat by class.
var classGrowth = map[Class]GrowthProfile{
	Warrior:     {STR: 75, INT: 20, WIS: 20, LCK: 35, AGI: 50, VIT: 65, END: 65, DEX: 70},
	Knight:      {STR: 70, INT: 20, WIS: 25, LCK: 35, AGI: 45, VIT: 75, END: 75, DEX: 55},
	Thief:       {STR: 55, INT: 25, WIS: 35, LCK: 65, AGI: 70, VIT: 50, END: 40, DEX: 55},
	Archer:      {STR: 55, INT: 40, WIS: 25, LCK: 40, AGI: 50, VIT: 50, END: 60, DEX: 80},
	Priest:      {STR: 30, INT: 70, WIS: 80, LCK: 40, AGI: 40, VIT: 50, END: 60, DEX: 30},
	Wizard:      {STR: 30, INT: 80, WIS: 80, LCK: 40, AGI: 40, VIT: 50, END: 50, DEX: 30},
	Monk:        {STR: 60, INT: 25, WIS: 50, LCK: 30, AGI: 60, VIT: 60, END: 55, DEX: 60},
	Pirate:      {STR: 70, INT: 20, WIS: 20, LCK: 55, AGI: 50, VIT: 60, END: 55, DEX: 70},
	Paladin:     {STR: 80, INT: 30, WIS: 65, LCK: 40, AGI: 35, VIT: 80, END: 80, DEX: 40},
	DarkKnight:  {STR: 85, INT: 70, WIS: 35, LCK: 35, AGI: 35, VIT: 75, END: 60, DEX: 55},
	Summoner:    {STR: 45, INT: 85, WIS: 85, LCK: 40, AGI: 50, VIT: 50, END: 50, DEX: 45},
	Ninja:       {STR: 50, INT: 50, WIS: 40, LCK: 60, AGI: 85, VIT: 50, END: 40, DEX: 75},
	Dragoon:     {STR: 80, INT: 50, WIS: 60, LCK: 50, AGI: 65, VIT: 60, END: 70, DEX: 65},
	Sage:        {STR: 40, INT: 90, WIS: 90, LCK: 55, AGI: 75, VIT: 60, END: 50, DEX: 40},
	DreadKnight: {STR: 85, INT: 65, WIS: 65, LCK: 60, AGI: 60, VIT: 65, END: 75, DEX: 75},
}

func classSet(cs ...Class) map[Class]struct{} {
	m := make(map[Class]struct{}, len(cs))
	for _, c := range cs {
		m[c] = struct{}{}
	}
	return m
}

var affinities = map[Profession]ProfessionAffinity{
	Fishing: {
		Profession: Fishing,
		Classes:    classSet(Ninja, Thief, Sage, DreadKnight, Dragoon, Pirate),
		Stats:      [2]Stat{LCK, AGI},
	},
	Foraging: {
		Profession: Foraging,
		Classes:    classSet(DreadKnight, Sage, Summoner, DarkKnight, Ninja, Archer, Dragoon, Wizard),
		Stats:      [2]Stat{DEX, INT},
	},
	Gardening: {
		Profession: Gardening,
		Classes:    classSet(DreadKnight, Sage, Paladin, Summoner, Priest, Wizard, Dragoon),
		Stats:      [2]Stat{WIS, VIT},
	},
	Mining: {
		Profession: Mining,
		Classes:    classSet(DreadKnight, Paladin, Dragoon, DarkKnight, Knight, Warrior, Pirate),
		Stats:      [2]Stat{STR, END},
	},
}

// rarityBonus is the flat per-level growth fraction by tier.
var rarityBonus = [...]float64{
	Common:    0,
	Uncommon:  0.05,
	Rare:      0.10,
	Legendary: 0.175,
	Mythic:    0.25,
}

var classCodes = map[int]Class{
	0: Warrior, 1: Knight, 2: Thief, 3: Archer, 4: Priest, 5: Wizard, 6: Monk, 7: Pirate,
	16: Paladin, 17: DarkKnight, 18: Summoner, 19: Ninja,
	24: Dragoon, 25: Sage, 28: DreadKnight,
}
