package service

import "errors"

// Sentinel errors.
var (
	ErrNoProvider = errors.New("no listing provider configured")
	ErrCycle      = errors.New("refresh cycle failed")
)
