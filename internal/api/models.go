package api

import (
	"time"

	"github.com/kotoba-app/kotoba-api/internal/domain"
	"github.com/kotoba-app/kotoba-api/internal/domain/xp"
	"github.com/kotoba-app/kotoba-api/internal/service/progression"
)

// SubmitReviewRequest represents the request body for grading a review.
// Quality is a pointer so a missing field is distinguishable from a
// legitimate grade of zero.
type SubmitReviewRequest struct {
	ItemID   string `json:"item_id" validate:"required,uuid"`
	ItemKind string `json:"item_kind" validate:"omitempty,oneof=kanji vocabulary grammar"`
	Quality  *int   `json:"quality" validate:"required,gte=0,lte=5"`

	// Optional session report: how many reviews the just-closed session
	// contained and how long it took.
	SessionReviews int     `json:"session_reviews" validate:"omitempty,gte=0"`
	SessionSeconds float64 `json:"session_seconds" validate:"omitempty,gte=0"`
}

// GameResultRequest represents the request body for reporting a game session.
type GameResultRequest struct {
	Perfect bool `json:"perfect"`
}

// SRSStateResponse represents the review scheduling state of one item.
type SRSStateResponse struct {
	ItemID       string    `json:"item_id"`
	Stage        string    `json:"stage"`
	StageIndex   int       `json:"stage_index"`
	EaseFactor   float64   `json:"ease_factor"`
	IntervalDays float64   `json:"interval_days"`
	Repetitions  int       `json:"repetitions"`
	NextReviewAt time.Time `json:"next_review_at"`
	ReviewCount  int       `json:"review_count"`
	Retired      bool      `json:"retired"`
}

// EventResultResponse represents the consolidated outcome of one learner event.
type EventResultResponse struct {
	SRSState      *SRSStateResponse `json:"srs_state,omitempty"`
	XPAwarded     int               `json:"xp_awarded"`
	TotalXP       int               `json:"total_xp"`
	Level         int               `json:"level"`
	Progress      xp.Progress       `json:"progress"`
	CurrentStreak int               `json:"current_streak"`
	NewlyUnlocked []string          `json:"newly_unlocked"`
}

// ProgressResponse represents a learner's overall progression snapshot.
type ProgressResponse struct {
	TotalXP          int         `json:"total_xp"`
	Level            int         `json:"level"`
	Progress         xp.Progress `json:"progress"`
	CurrentStreak    int         `json:"current_streak"`
	LongestStreak    int         `json:"longest_streak"`
	StreakFreezes    int         `json:"streak_freezes"`
	ReviewsCompleted int         `json:"reviews_completed"`
	LessonsCompleted int         `json:"lessons_completed"`
	ItemsLearned     int         `json:"items_learned"`
	ItemsBurned      int         `json:"items_burned"`
	GamesPlayed      int         `json:"games_played"`
}

// AchievementResponse represents one unlocked achievement joined with its
// catalog definition.
type AchievementResponse struct {
	Key         string    `json:"key"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Rarity      string    `json:"rarity"`
	RewardXP    int       `json:"reward_xp"`
	UnlockedAt  time.Time `json:"unlocked_at"`
}

// QueueResponse represents the learner's due review queue.
type QueueResponse struct {
	Items []SRSStateResponse `json:"items"`
	Count int                `json:"count"`
}

// srsStateToResponse transforms domain review state into its API shape.
func srsStateToResponse(state *domain.SRSState) *SRSStateResponse {
	if state == nil {
		return nil
	}
	return &SRSStateResponse{
		ItemID:       state.ItemID.String(),
		Stage:        state.Stage.String(),
		StageIndex:   int(state.Stage),
		EaseFactor:   state.EaseFactor,
		IntervalDays: state.IntervalDays,
		Repetitions:  state.Repetitions,
		NextReviewAt: state.NextReviewAt,
		ReviewCount:  state.ReviewCount,
		Retired:      state.IsRetired(),
	}
}

// resultToResponse transforms a service result into its API shape.
func resultToResponse(result *progression.Result) EventResultResponse {
	return EventResultResponse{
		SRSState:      srsStateToResponse(result.SRSState),
		XPAwarded:     result.XPAwarded,
		TotalXP:       result.Stats.TotalXP,
		Level:         result.Stats.CurrentLevel,
		Progress:      result.Progress,
		CurrentStreak: result.Streak.CurrentStreak,
		NewlyUnlocked: append([]string{}, result.NewlyUnlocked...),
	}
}

// summaryToResponse transforms a progress summary into its API shape.
func summaryToResponse(summary *progression.ProgressSummary) ProgressResponse {
	return ProgressResponse{
		TotalXP:          summary.Stats.TotalXP,
		Level:            summary.Stats.CurrentLevel,
		Progress:         summary.Progress,
		CurrentStreak:    summary.Streak.CurrentStreak,
		LongestStreak:    summary.Streak.LongestStreak,
		StreakFreezes:    summary.Streak.FreezesAvailable,
		ReviewsCompleted: summary.Stats.ReviewsCompleted,
		LessonsCompleted: summary.Stats.LessonsCompleted,
		ItemsLearned:     summary.Stats.ItemsLearned,
		ItemsBurned:      summary.Stats.ItemsBurned,
		GamesPlayed:      summary.Stats.GamesPlayed,
	}
}
