// Package srs implements the spaced repetition scheduler: given one
// graded review it computes the item's next stage, ease factor, interval
// and due timestamp. The algorithm is an SM-2 variant over the 0-5
// quality scale with a named mastery ladder on top.
package srs

import (
	"errors"
	"time"

	"github.com/kotoba-app/kotoba-api/internal/domain"
)

// Common errors
var (
	ErrNilState = errors.New("srs state cannot be nil")
)

// Scheduler defines the interface for SRS transitions.
type Scheduler interface {
	// Transition computes new spaced repetition state from a graded
	// review. It returns a new state value and never mutates its input.
	//
	// Returns domain.ErrInvalidQuality if quality is outside 0-5 and
	// domain.ErrItemRetired if the item has already been burned.
	Transition(state *domain.SRSState, quality int, now time.Time) (*domain.SRSState, error)
}

// defaultScheduler is the standard implementation of the Scheduler interface.
type defaultScheduler struct {
	params *Params
}

// NewDefaultScheduler creates a scheduler with default parameters.
func NewDefaultScheduler() Scheduler {
	return &defaultScheduler{
		params: NewDefaultParams(),
	}
}

// NewSchedulerWithParams creates a scheduler with custom parameters.
func NewSchedulerWithParams(params *Params) Scheduler {
	return &defaultScheduler{
		params: params,
	}
}

// Transition implements the Scheduler interface.
func (s *defaultScheduler) Transition(
	state *domain.SRSState,
	quality int,
	now time.Time,
) (*domain.SRSState, error) {
	if state == nil {
		return nil, ErrNilState
	}

	// Qualities are never clamped: an out-of-range grade is an upstream
	// grading bug and must surface immediately.
	if quality < 0 || quality > 5 {
		return nil, domain.ErrInvalidQuality
	}

	// Burned items are retired from scheduling. The record is kept for
	// history, so submitting a review against it is a caller error.
	if state.IsRetired() {
		return nil, domain.ErrItemRetired
	}

	return transition(state, quality, now, s.params), nil
}
