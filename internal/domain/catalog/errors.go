package catalog

import "errors"

// Sentinel lookup errors. An unknown key is a data error, never defaulted.
var (
	ErrUnknownClass      = errors.New("unknown class")
	ErrUnknownStat       = errors.New("unknown stat")
	ErrUnknownProfession = errors.New("unknown profession")
	ErrInvalidRarity     = errors.New("invalid rarity")
)
