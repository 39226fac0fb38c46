package market

import "errors"

// Sentinel errors.
var (
	// ErrFetch covers transport failures and non-2xx responses.
	ErrFetch = errors.New("fetch listings failed")
	// ErrDecode means the response body could not be read as a listing batch.
	ErrDecode = errors.New("decode listings failed")
	// ErrMalformedRecord marks a single listing that could not be normalized.
	ErrMalformedRecord = errors.New("malformed listing record")
)
