package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for LearnerStats
var (
	ErrEmptyStatsLearnerID = errors.New("learner stats learner ID cannot be empty")
	ErrNegativeCounter     = errors.New("stat counters cannot be negative")
)

// LearnerStats is the aggregate counter snapshot for one learner. It feeds
// level computation and achievement evaluation and is mutated only through
// progression engine outcomes; the achievement evaluator reads it and never
// writes to it.
type LearnerStats struct {
	LearnerID        uuid.UUID `json:"learner_id"`
	TotalXP          int       `json:"total_xp"`
	CurrentLevel     int       `json:"current_level"`
	CurrentStreak    int       `json:"current_streak"`
	LongestStreak    int       `json:"longest_streak"`
	StreakFreezes    int       `json:"streak_freezes"` // freeze tokens available
	ReviewsCompleted int       `json:"reviews_completed"`
	PerfectReviews   int       `json:"perfect_reviews"` // quality 5 reviews
	LessonsCompleted int       `json:"lessons_completed"`
	ItemsLearned     int       `json:"items_learned"` // items at or above the learned stage
	ItemsBurned      int       `json:"items_burned"`
	KanjiMastered    int       `json:"kanji_mastered"`
	VocabMastered    int       `json:"vocab_mastered"`
	GamesPlayed      int       `json:"games_played"`
	PerfectGames     int       `json:"perfect_games"`

	// SprintReviews and SprintSeconds describe the learner's fastest
	// completed review session, for speed-based achievements.
	SprintReviews int     `json:"sprint_reviews"`
	SprintSeconds float64 `json:"sprint_seconds"`

	// LastReviewDay is the calendar day of the most recent review,
	// used to grant the first-review-of-the-day bonus once.
	LastReviewDay time.Time `json:"last_review_day"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewLearnerStats creates an empty stats record for a learner.
func NewLearnerStats(learnerID uuid.UUID, now time.Time) (*LearnerStats, error) {
	stats := &LearnerStats{
		LearnerID: learnerID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := stats.Validate(); err != nil {
		return nil, err
	}

	return stats, nil
}

// Validate checks if the LearnerStats has valid data.
func (s *LearnerStats) Validate() error {
	if s.LearnerID == uuid.Nil {
		return ErrEmptyStatsLearnerID
	}

	counters := []int{
		s.TotalXP, s.CurrentLevel, s.CurrentStreak, s.LongestStreak,
		s.StreakFreezes, s.ReviewsCompleted, s.PerfectReviews,
		s.LessonsCompleted, s.ItemsLearned, s.ItemsBurned,
		s.KanjiMastered, s.VocabMastered, s.GamesPlayed, s.PerfectGames,
	}
	for _, c := range counters {
		if c < 0 {
			return ErrNegativeCounter
		}
	}

	return nil
}

// Clone returns a copy of the stats. The progression engine works on a
// copy so a failed event never leaves a half-updated snapshot behind.
func (s *LearnerStats) Clone() *LearnerStats {
	clone := *s
	return &clone
}
