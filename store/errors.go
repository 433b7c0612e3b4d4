package store

import "errors"

// The engine surfaces exactly these error kinds; anything else from the
// backing store passes through unchanged.
var (
	// ErrNotFound means the referenced enrollment, streak or campaign is absent.
	ErrNotFound = errors.New("record not found")

	// ErrConflict means a conditional commit lost against a concurrent write.
	// The coordinator retries a bounded number of times before surfacing it.
	ErrConflict = errors.New("record modified concurrently")

	// ErrInvalidInput means the request was malformed and nothing was read.
	ErrInvalidInput = errors.New("invalid input")
)
