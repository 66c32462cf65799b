package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for StreakState
var (
	ErrEmptyStreakLearnerID = errors.New("streak state learner ID cannot be empty")
	ErrNegativeStreak       = errors.New("streak counters cannot be negative")
)

// StreakState tracks a learner's consecutive-day activity streak.
// A freeze token forgives exactly one missed day without breaking the
// streak; tokens are consumed by streak.Tracker.RecordActivity.
type StreakState struct {
	LearnerID        uuid.UUID `json:"learner_id"`
	CurrentStreak    int       `json:"current_streak"`
	LongestStreak    int       `json:"longest_streak"`
	FreezesAvailable int       `json:"freezes_available"`

	// LastActivityDate is the calendar day of the most recent credited
	// activity, normalized to midnight in the learner's timezone.
	// Zero means the learner has never been active.
	LastActivityDate time.Time `json:"last_activity_date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewStreakState creates an empty streak record for a learner.
func NewStreakState(learnerID uuid.UUID, now time.Time) (*StreakState, error) {
	state := &StreakState{
		LearnerID: learnerID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := state.Validate(); err != nil {
		return nil, err
	}

	return state, nil
}

// Validate checks if the StreakState has valid data.
func (s *StreakState) Validate() error {
	if s.LearnerID == uuid.Nil {
		return ErrEmptyStreakLearnerID
	}

	if s.CurrentStreak < 0 || s.LongestStreak < 0 || s.FreezesAvailable < 0 {
		return ErrNegativeStreak
	}

	return nil
}
