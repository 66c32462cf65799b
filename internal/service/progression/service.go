// Package progression provides the transactional service that applies
// learner events to persistent progression state. It loads the learner's
// snapshot under row locks, runs the pure engine over it and persists the
// consolidated outcome atomically.
package progression

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kotoba-app/kotoba-api/internal/domain"
	"github.com/kotoba-app/kotoba-api/internal/domain/xp"
)

// ReviewSubmission represents a learner's graded answer for one item.
type ReviewSubmission struct {
	ItemID   uuid.UUID       `json:"item_id"`
	ItemKind domain.ItemKind `json:"item_kind,omitempty"`
	Quality  int             `json:"quality"` // 0-5 recall grade

	// SessionReviews and SessionSeconds describe the review session this
	// submission closed, when the client reports one. They feed the
	// learner's sprint stats; zero values mean no session report.
	SessionReviews int     `json:"session_reviews,omitempty"`
	SessionSeconds float64 `json:"session_seconds,omitempty"`
}

// GameResult represents a completed practice game session.
type GameResult struct {
	Perfect bool `json:"perfect"`
}

// Result is the consolidated outcome of one learner event after it has
// been persisted.
type Result struct {
	SRSState      *domain.SRSState     `json:"srs_state,omitempty"` // nil for non-review events
	Stats         *domain.LearnerStats `json:"stats"`
	Streak        *domain.StreakState  `json:"streak"`
	Progress      xp.Progress          `json:"progress"`
	XPAwarded     int                  `json:"xp_awarded"`
	NewlyUnlocked []string             `json:"newly_unlocked"`
}

// ProgressSummary is the read-only progress view for one learner.
type ProgressSummary struct {
	Stats    *domain.LearnerStats `json:"stats"`
	Streak   *domain.StreakState  `json:"streak"`
	Progress xp.Progress          `json:"progress"`
}

// ProgressionService applies learner events to persistent state and serves
// progression queries.
type ProgressionService interface {
	// SubmitReview grades a review for one item and applies the outcome:
	// SRS rescheduling, XP, streak credit and achievement unlocks, all in
	// a single transaction.
	//
	// Returns domain.ErrInvalidQuality for grades outside 0-5 and
	// domain.ErrItemRetired for items past the terminal stage. State for
	// a first-seen item or learner is created on the fly.
	SubmitReview(ctx context.Context, learnerID uuid.UUID, submission ReviewSubmission) (*Result, error)

	// CompleteLesson credits a finished lesson to the learner.
	CompleteLesson(ctx context.Context, learnerID uuid.UUID) (*Result, error)

	// SubmitGameResult credits a completed practice game to the learner.
	SubmitGameResult(ctx context.Context, learnerID uuid.UUID, result GameResult) (*Result, error)

	// GetProgress returns the learner's current stats, streak and level
	// progress. Returns ErrLearnerNotFound for unknown learners.
	GetProgress(ctx context.Context, learnerID uuid.UUID) (*ProgressSummary, error)

	// GetReviewQueue returns the learner's due items, soonest first.
	// Retired items are never included.
	GetReviewQueue(ctx context.Context, learnerID uuid.UUID) ([]*domain.SRSState, error)

	// GetAchievements returns the learner's unlock records, most recent first.
	GetAchievements(ctx context.Context, learnerID uuid.UUID) ([]*domain.UnlockedAchievement, error)

	// RunMidnightSweep expires every active streak that was not kept alive
	// through the day boundary and cannot be rescued by a freeze. Returns
	// the number of streaks broken. Intended to run once per day from the
	// scheduler; running it twice is harmless.
	RunMidnightSweep(ctx context.Context, now time.Time) (int, error)
}

// Common error types for ProgressionService
var (
	// ErrLearnerNotFound indicates that the learner has no progression state.
	ErrLearnerNotFound = errors.New("learner not found")
)

// ServiceError wraps errors from the progression service with additional context.
// This allows consumers to differentiate between different types of service errors
// using errors.As instead of string matching.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "submit_review", "midnight_sweep")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewSubmitReviewError returns a new ServiceError for the submit_review operation.
func NewSubmitReviewError(message string, err error) *ServiceError {
	return &ServiceError{
		Operation: "submit_review",
		Message:   message,
		Err:       err,
	}
}

// NewCompleteLessonError returns a new ServiceError for the complete_lesson operation.
func NewCompleteLessonError(message string, err error) *ServiceError {
	return &ServiceError{
		Operation: "complete_lesson",
		Message:   message,
		Err:       err,
	}
}

// NewSubmitGameResultError returns a new ServiceError for the submit_game_result operation.
func NewSubmitGameResultError(message string, err error) *ServiceError {
	return &ServiceError{
		Operation: "submit_game_result",
		Message:   message,
		Err:       err,
	}
}

// NewMidnightSweepError returns a new ServiceError for the midnight_sweep operation.
func NewMidnightSweepError(message string, err error) *ServiceError {
	return &ServiceError{
		Operation: "midnight_sweep",
		Message:   message,
		Err:       err,
	}
}
