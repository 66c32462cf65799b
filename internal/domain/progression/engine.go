// Package progression orchestrates the learning progression pipeline for
// one learner event: SRS scheduling, XP accrual, streak upkeep and
// achievement evaluation, producing one consolidated outcome.
//
// The engine is pure computation over caller-owned state snapshots. It
// performs no I/O, holds no shared mutable state and is safe to invoke
// concurrently for different learners; concurrent events for the same
// learner must be serialized by the caller.
package progression

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/kotoba-app/kotoba-api/internal/domain"
	"github.com/kotoba-app/kotoba-api/internal/domain/achievement"
	"github.com/kotoba-app/kotoba-api/internal/domain/srs"
	"github.com/kotoba-app/kotoba-api/internal/domain/streak"
	"github.com/kotoba-app/kotoba-api/internal/domain/xp"
)

// Common errors
var (
	ErrUnknownEventKind = errors.New("unknown progression event kind")
	ErrMissingStats     = errors.New("snapshot is missing learner stats")
	ErrMissingStreak    = errors.New("snapshot is missing streak state")
	ErrMissingSRSState  = errors.New("review event requires srs state in snapshot")
)

// EventKind discriminates the progression event types.
type EventKind string

const (
	EventReview EventKind = "review"
	EventLesson EventKind = "lesson"
	EventGame   EventKind = "game"
)

// Event is one completed learner action.
type Event struct {
	LearnerID  uuid.UUID
	Kind       EventKind
	OccurredAt time.Time

	// Review fields
	ItemID   uuid.UUID
	ItemKind domain.ItemKind // attributes mastery promotions to a per-kind counter
	Quality  int             // 0-5 recall grade

	// SessionReviews and SessionSeconds summarize the review session this
	// event closed, when the client reports one. Zero values mean no
	// session report; they feed the sprint stats only.
	SessionReviews int
	SessionSeconds float64

	// Game fields
	Perfect bool
}

// Snapshot is the caller-owned state the engine computes over. The
// engine never mutates snapshot fields; it returns new values.
type Snapshot struct {
	SRSState *domain.SRSState // required for review events, ignored otherwise
	Stats    *domain.LearnerStats
	Streak   *domain.StreakState
	Unlocked map[string]bool // already-unlocked achievement keys
}

// Outcome is the consolidated result of one event. The caller is
// responsible for persisting every non-nil field.
type Outcome struct {
	SRSState      *domain.SRSState // nil for non-review events
	Stats         *domain.LearnerStats
	Streak        *domain.StreakState
	Progress      xp.Progress
	XPAwarded     int
	NewlyUnlocked []string
}

// Engine wires the scheduler, ledger, tracker and evaluator into the
// event pipeline.
type Engine struct {
	scheduler srs.Scheduler
	ledger    *xp.Ledger
	tracker   streak.Tracker
	catalog   *achievement.Catalog
	evaluator *achievement.Evaluator
}

// NewEngine creates an engine from explicit components.
func NewEngine(
	scheduler srs.Scheduler,
	ledger *xp.Ledger,
	tracker streak.Tracker,
	catalog *achievement.Catalog,
) *Engine {
	if scheduler == nil || ledger == nil || tracker == nil || catalog == nil {
		// ALLOW-PANIC: Constructor enforcing required dependencies
		panic("all engine components are required")
	}

	return &Engine{
		scheduler: scheduler,
		ledger:    ledger,
		tracker:   tracker,
		catalog:   catalog,
		evaluator: achievement.NewEvaluator(catalog),
	}
}

// NewDefaultEngine creates an engine with default parameters and the
// built-in achievement catalog.
func NewDefaultEngine() *Engine {
	return NewEngine(
		srs.NewDefaultScheduler(),
		xp.NewDefaultLedger(),
		streak.NewTracker(),
		achievement.DefaultCatalog(),
	)
}

// Handle runs one event through the pipeline:
//
//	SRS transition (review events) -> XP award -> streak update ->
//	stats merge -> achievement evaluation -> consolidated outcome
//
// Handle performs no I/O; the caller persists the returned state. The
// pipeline is deterministic, so a caller-side retry with re-fetched
// state is always safe.
func (e *Engine) Handle(event Event, snap Snapshot) (*Outcome, error) {
	if snap.Stats == nil {
		return nil, ErrMissingStats
	}
	if snap.Streak == nil {
		return nil, ErrMissingStreak
	}

	stats := snap.Stats.Clone()
	outcome := &Outcome{}

	// Streak multiplier is taken from the streak as it stood before this
	// event's activity is credited.
	streakDays := snap.Streak.CurrentStreak

	var xpDelta int
	switch event.Kind {
	case EventReview:
		if snap.SRSState == nil {
			return nil, ErrMissingSRSState
		}

		next, err := e.scheduler.Transition(snap.SRSState, event.Quality, event.OccurredAt)
		if err != nil {
			return nil, err
		}
		outcome.SRSState = next

		xpDelta += e.reviewXP(event, snap.SRSState, next, stats, streakDays)

	case EventLesson:
		stats.LessonsCompleted++
		xpDelta += e.ledger.AwardFor(xp.ActionLessonCompleted, streakDays)

	case EventGame:
		stats.GamesPlayed++
		xpDelta += e.ledger.AwardFor(xp.ActionGameCompleted, streakDays)
		if event.Perfect {
			stats.PerfectGames++
			xpDelta += e.ledger.AwardFor(xp.ActionGamePerfectScore, streakDays)
		}

	default:
		return nil, ErrUnknownEventKind
	}

	nextStreak, err := e.tracker.RecordActivity(snap.Streak, event.OccurredAt)
	if err != nil {
		return nil, err
	}
	outcome.Streak = nextStreak

	// A freshly extended streak earns the per-day bonus.
	if nextStreak.CurrentStreak > snap.Streak.CurrentStreak {
		xpDelta += e.ledger.AwardFor(xp.ActionStreakDay, streakDays)
	}

	stats.CurrentStreak = nextStreak.CurrentStreak
	stats.LongestStreak = nextStreak.LongestStreak
	stats.StreakFreezes = nextStreak.FreezesAvailable
	stats.TotalXP += xpDelta
	stats.CurrentLevel = xp.LevelFor(stats.TotalXP)
	stats.UpdatedAt = event.OccurredAt

	// Achievements are evaluated against the merged snapshot. Rewards
	// are credited at face value and the level recomputed once; any
	// threshold crossed by reward XP itself is picked up on the next
	// event.
	newlyUnlocked := e.evaluator.Evaluate(stats, snap.Unlocked)
	for _, key := range newlyUnlocked {
		if def, ok := e.catalog.Get(key); ok {
			stats.TotalXP += def.RewardXP
			xpDelta += def.RewardXP
		}
	}
	stats.CurrentLevel = xp.LevelFor(stats.TotalXP)

	outcome.Stats = stats
	outcome.Progress = xp.ProgressFor(stats.TotalXP)
	outcome.XPAwarded = xpDelta
	outcome.NewlyUnlocked = newlyUnlocked

	return outcome, nil
}

// reviewXP applies the review-specific stat updates and returns the XP
// earned by the review itself, including mastery-tier promotions and
// the first-review-of-the-day bonus.
func (e *Engine) reviewXP(
	event Event,
	prev, next *domain.SRSState,
	stats *domain.LearnerStats,
	streakDays int,
) int {
	var delta int

	stats.ReviewsCompleted++
	if event.Quality == 5 {
		stats.PerfectReviews++
	}

	// A transition that kept the repetition streak alive was a pass.
	if next.Repetitions > 0 {
		delta += e.ledger.AwardFor(xp.ActionReviewCorrect, streakDays)
	} else {
		delta += e.ledger.AwardFor(xp.ActionReviewIncorrect, streakDays)
	}

	// First review of the calendar day earns a bonus exactly once.
	if stats.LastReviewDay.IsZero() || !sameDay(stats.LastReviewDay, event.OccurredAt) {
		delta += e.ledger.AwardFor(xp.ActionFirstReviewOfDay, streakDays)
	}
	stats.LastReviewDay = event.OccurredAt

	recordSprint(stats, event.SessionReviews, event.SessionSeconds)

	// Mastery tier promotions pay a one-off milestone award.
	if crossed(prev.Stage, next.Stage, domain.StageGuruI) {
		stats.ItemsLearned++
		delta += e.ledger.AwardFor(xp.ActionItemGuru, streakDays)
	}
	if crossed(prev.Stage, next.Stage, domain.StageMaster) {
		switch event.ItemKind {
		case domain.ItemKindKanji:
			stats.KanjiMastered++
		case domain.ItemKindVocabulary:
			stats.VocabMastered++
		}
		delta += e.ledger.AwardFor(xp.ActionItemMaster, streakDays)
	}
	if crossed(prev.Stage, next.Stage, domain.StageEnlightened) {
		delta += e.ledger.AwardFor(xp.ActionItemEnlightened, streakDays)
	}
	if crossed(prev.Stage, next.Stage, domain.StageBurned) {
		stats.ItemsBurned++
		delta += e.ledger.AwardFor(xp.ActionItemBurned, streakDays)
	}

	// A failed review can drop an item back below the learned threshold.
	if prev.Stage.IsLearned() && !next.Stage.IsLearned() && stats.ItemsLearned > 0 {
		stats.ItemsLearned--
	}

	return delta
}

// recordSprint folds a reported review session into the sprint stats,
// keeping the learner's best session: most reviews, faster on ties.
// Achievement evaluation runs later in the same Handle call, so a
// satisfying session unlocks its achievement before any later report
// can replace it.
func recordSprint(stats *domain.LearnerStats, reviews int, seconds float64) {
	if reviews <= 0 || seconds <= 0 {
		return
	}
	if reviews > stats.SprintReviews ||
		(reviews == stats.SprintReviews && seconds < stats.SprintSeconds) {
		stats.SprintReviews = reviews
		stats.SprintSeconds = seconds
	}
}

// crossed reports whether the stage moved from below tier to at-or-above
// tier in this transition.
func crossed(prev, next, tier domain.Stage) bool {
	return prev < tier && next >= tier
}

// sameDay reports whether two timestamps fall on the same calendar day.
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
