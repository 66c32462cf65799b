package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidInput is returned when a caller violates an operation's
	// contract (e.g. an out-of-range review quality). Callers must treat
	// this as a bug on their side, not a transient failure.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidQuality is returned when a review quality grade is outside
	// the 0-5 range. Qualities are never clamped: an out-of-range grade
	// indicates a grading bug upstream and must fail fast.
	ErrInvalidQuality = errors.New("invalid review quality: must be between 0 and 5")

	// ErrItemRetired is returned when a review is submitted for an item
	// that has already reached the terminal Burned stage.
	ErrItemRetired = errors.New("item is burned and retired from review")

	// ErrActivityBeforeLast is returned when a streak activity date precedes
	// the recorded last activity date. Streak state is never "undone".
	ErrActivityBeforeLast = errors.New("activity date precedes last recorded activity")
)
