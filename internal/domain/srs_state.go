package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for SRSState
var (
	ErrEmptyStateLearnerID = errors.New("srs state learner ID cannot be empty")
	ErrEmptyStateItemID    = errors.New("srs state item ID cannot be empty")
	ErrInvalidInterval     = errors.New("interval must be greater than or equal to 0")
	ErrInvalidEaseFactor   = errors.New("ease factor must be at least 1.3")
	ErrInvalidStage        = errors.New("stage is outside the mastery ladder")
)

// minEaseFactor is the hard floor for ease factors across the system.
// The SRS algorithm never produces a value below it.
const minEaseFactor = 1.3

// SRSState tracks a learner's spaced repetition state for a single
// curriculum item. It follows an SM-2 variant: the interval between
// reviews grows multiplicatively with the ease factor on success and
// resets on failure.
//
// SRSState is mutated only through srs.Scheduler.Transition, which
// returns a new value rather than modifying the receiver.
type SRSState struct {
	LearnerID      uuid.UUID `json:"learner_id"`
	ItemID         uuid.UUID `json:"item_id"`
	Stage          Stage     `json:"stage"`
	EaseFactor     float64   `json:"ease_factor"`     // 1.3 up to the configured ceiling
	IntervalDays   float64   `json:"interval_days"`   // fractional days until next due
	Repetitions    int       `json:"repetitions"`     // consecutive passes since last failure
	LastReviewedAt time.Time `json:"last_reviewed_at"`
	NextReviewAt   time.Time `json:"next_review_at"`
	ReviewCount    int       `json:"review_count"` // total reviews, pass or fail
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewSRSState creates spaced repetition state for a learner and item with
// default values. New items start at the bottom of the ladder and are due
// immediately.
func NewSRSState(learnerID, itemID uuid.UUID, now time.Time) (*SRSState, error) {
	state := &SRSState{
		LearnerID:      learnerID,
		ItemID:         itemID,
		Stage:          StageApprenticeI,
		EaseFactor:     2.5,
		IntervalDays:   0,
		Repetitions:    0,
		LastReviewedAt: time.Time{}, // zero time: never reviewed
		NextReviewAt:   now,
		ReviewCount:    0,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := state.Validate(); err != nil {
		return nil, err
	}

	return state, nil
}

// Validate checks if the SRSState has valid data.
// Returns an error if any field fails validation.
func (s *SRSState) Validate() error {
	if s.LearnerID == uuid.Nil {
		return ErrEmptyStateLearnerID
	}

	if s.ItemID == uuid.Nil {
		return ErrEmptyStateItemID
	}

	if !s.Stage.IsValid() {
		return ErrInvalidStage
	}

	if s.IntervalDays < 0 {
		return ErrInvalidInterval
	}

	if s.EaseFactor < minEaseFactor {
		return ErrInvalidEaseFactor
	}

	return nil
}

// IsRetired reports whether the item has reached the terminal stage and
// must no longer be enqueued for review. The state record itself is kept
// for history and statistics.
func (s *SRSState) IsRetired() bool {
	return s.Stage.IsTerminal()
}
