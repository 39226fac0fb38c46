package model

import "errors"

// Sentinel validation errors.
var (
	ErrInvalidHero     = errors.New("invalid hero")
	ErrInvalidListing  = errors.New("invalid listing")
	ErrInvalidSnapshot = errors.New("invalid stamina snapshot")
)
