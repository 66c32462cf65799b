package progression

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/kotoba-app/kotoba-api/internal/domain"
	engine "github.com/kotoba-app/kotoba-api/internal/domain/progression"
	"github.com/kotoba-app/kotoba-api/internal/domain/streak"
	"github.com/kotoba-app/kotoba-api/internal/domain/xp"
	"github.com/kotoba-app/kotoba-api/internal/platform/logger"
	"github.com/kotoba-app/kotoba-api/internal/store"
)

// Verify interface compliance at compile time
var _ ProgressionService = (*progressionServiceImpl)(nil)

// progressionServiceImpl implements the ProgressionService interface.
type progressionServiceImpl struct {
	db               *sql.DB
	srsStore         store.SRSStateStore
	statsStore       store.LearnerStatsStore
	streakStore      store.StreakStore
	achievementStore store.AchievementStore
	engine           *engine.Engine
	tracker          streak.Tracker
	clock            Clock
	queueLimit       int
	logger           *slog.Logger
}

// NewProgressionService creates a new ProgressionService implementation.
func NewProgressionService(
	db *sql.DB,
	srsStore store.SRSStateStore,
	statsStore store.LearnerStatsStore,
	streakStore store.StreakStore,
	achievementStore store.AchievementStore,
	eng *engine.Engine,
	tracker streak.Tracker,
	clock Clock,
	queueLimit int,
	log *slog.Logger,
) ProgressionService {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if srsStore == nil || statsStore == nil || streakStore == nil || achievementStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependencies
		panic("all stores are required")
	}
	if eng == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("engine cannot be nil")
	}
	if tracker == nil {
		tracker = streak.NewTracker()
	}
	if clock == nil {
		clock = NewSystemClock()
	}
	if queueLimit <= 0 {
		queueLimit = 100
	}
	if log == nil {
		log = slog.Default()
	}

	return &progressionServiceImpl{
		db:               db,
		srsStore:         srsStore,
		statsStore:       statsStore,
		streakStore:      streakStore,
		achievementStore: achievementStore,
		engine:           eng,
		tracker:          tracker,
		clock:            clock,
		queueLimit:       queueLimit,
		logger:           log.With(slog.String("component", "progression_service")),
	}
}

// SubmitReview implements ProgressionService.SubmitReview.
func (s *progressionServiceImpl) SubmitReview(
	ctx context.Context,
	learnerID uuid.UUID,
	submission ReviewSubmission,
) (*Result, error) {
	return s.applyEvent(ctx, engine.Event{
		LearnerID:      learnerID,
		Kind:           engine.EventReview,
		OccurredAt:     s.clock.Now(),
		ItemID:         submission.ItemID,
		ItemKind:       submission.ItemKind,
		Quality:        submission.Quality,
		SessionReviews: submission.SessionReviews,
		SessionSeconds: submission.SessionSeconds,
	})
}

// CompleteLesson implements ProgressionService.CompleteLesson.
func (s *progressionServiceImpl) CompleteLesson(
	ctx context.Context,
	learnerID uuid.UUID,
) (*Result, error) {
	return s.applyEvent(ctx, engine.Event{
		LearnerID:  learnerID,
		Kind:       engine.EventLesson,
		OccurredAt: s.clock.Now(),
	})
}

// SubmitGameResult implements ProgressionService.SubmitGameResult.
func (s *progressionServiceImpl) SubmitGameResult(
	ctx context.Context,
	learnerID uuid.UUID,
	result GameResult,
) (*Result, error) {
	return s.applyEvent(ctx, engine.Event{
		LearnerID:  learnerID,
		Kind:       engine.EventGame,
		OccurredAt: s.clock.Now(),
		Perfect:    result.Perfect,
	})
}

// applyEvent runs one engine event against persisted state in a single
// transaction: the learner's rows are loaded under row locks, the pure
// engine computes the outcome and every changed row is written back.
// First-seen learners and items are provisioned on the fly.
func (s *progressionServiceImpl) applyEvent(ctx context.Context, event engine.Event) (*Result, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("applying progression event",
		slog.String("learner_id", event.LearnerID.String()),
		slog.String("kind", string(event.Kind)))

	var result *Result
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		statsStore := s.statsStore.WithTx(tx)
		streakStore := s.streakStore.WithTx(tx)
		srsStore := s.srsStore.WithTx(tx)
		achievementStore := s.achievementStore.WithTx(tx)

		stats, err := s.loadOrCreateStats(ctx, statsStore, event.LearnerID, event.OccurredAt)
		if err != nil {
			return err
		}

		streakState, err := s.loadOrCreateStreak(ctx, streakStore, event.LearnerID, event.OccurredAt)
		if err != nil {
			return err
		}

		snapshot := engine.Snapshot{
			Stats:  stats,
			Streak: streakState,
		}

		if event.Kind == engine.EventReview {
			srsState, err := s.loadOrCreateSRSState(ctx, srsStore, event.LearnerID, event.ItemID, event.OccurredAt)
			if err != nil {
				return err
			}
			snapshot.SRSState = srsState
		}

		unlocked, err := achievementStore.GetUnlockedKeys(ctx, event.LearnerID)
		if err != nil {
			return fmt.Errorf("failed to load unlocked achievements: %w", err)
		}
		snapshot.Unlocked = unlocked

		outcome, err := s.engine.Handle(event, snapshot)
		if err != nil {
			return err
		}

		if outcome.SRSState != nil {
			if err := srsStore.Update(ctx, outcome.SRSState); err != nil {
				return fmt.Errorf("failed to persist srs state: %w", err)
			}
		}
		if err := statsStore.Update(ctx, outcome.Stats); err != nil {
			return fmt.Errorf("failed to persist learner stats: %w", err)
		}
		if err := streakStore.Update(ctx, outcome.Streak); err != nil {
			return fmt.Errorf("failed to persist streak state: %w", err)
		}

		for _, key := range outcome.NewlyUnlocked {
			unlock := &domain.UnlockedAchievement{
				LearnerID:  event.LearnerID,
				Key:        key,
				UnlockedAt: event.OccurredAt,
			}
			if err := achievementStore.Unlock(ctx, unlock); err != nil {
				return fmt.Errorf("failed to record achievement unlock: %w", err)
			}
		}

		result = &Result{
			SRSState:      outcome.SRSState,
			Stats:         outcome.Stats,
			Streak:        outcome.Streak,
			Progress:      outcome.Progress,
			XPAwarded:     outcome.XPAwarded,
			NewlyUnlocked: outcome.NewlyUnlocked,
		}
		return nil
	})

	if err != nil {
		// Domain rejections pass through untouched so handlers can map them.
		if errors.Is(err, domain.ErrInvalidQuality) ||
			errors.Is(err, domain.ErrItemRetired) ||
			errors.Is(err, domain.ErrActivityBeforeLast) {
			return nil, err
		}

		log.Error("failed to apply progression event",
			slog.String("error", err.Error()),
			slog.String("learner_id", event.LearnerID.String()),
			slog.String("kind", string(event.Kind)))
		return nil, wrapEventError(event.Kind, err)
	}

	log.Debug("progression event applied",
		slog.String("learner_id", event.LearnerID.String()),
		slog.String("kind", string(event.Kind)),
		slog.Int("xp_awarded", result.XPAwarded),
		slog.Int("newly_unlocked", len(result.NewlyUnlocked)))

	return result, nil
}

// wrapEventError tags a non-domain event failure with its operation so
// callers can pick it apart with errors.As.
func wrapEventError(kind engine.EventKind, err error) error {
	switch kind {
	case engine.EventReview:
		return NewSubmitReviewError("failed to apply review event", err)
	case engine.EventLesson:
		return NewCompleteLessonError("failed to apply lesson event", err)
	case engine.EventGame:
		return NewSubmitGameResultError("failed to apply game event", err)
	default:
		return fmt.Errorf("failed to apply %s event: %w", kind, err)
	}
}

// GetProgress implements ProgressionService.GetProgress.
func (s *progressionServiceImpl) GetProgress(
	ctx context.Context,
	learnerID uuid.UUID,
) (*ProgressSummary, error) {
	stats, err := s.statsStore.Get(ctx, learnerID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrLearnerNotFound
		}
		return nil, fmt.Errorf("failed to get learner stats: %w", err)
	}

	streakState, err := s.streakStore.Get(ctx, learnerID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrLearnerNotFound
		}
		return nil, fmt.Errorf("failed to get streak state: %w", err)
	}

	return &ProgressSummary{
		Stats:    stats,
		Streak:   streakState,
		Progress: xp.ProgressFor(stats.TotalXP),
	}, nil
}

// GetReviewQueue implements ProgressionService.GetReviewQueue.
func (s *progressionServiceImpl) GetReviewQueue(
	ctx context.Context,
	learnerID uuid.UUID,
) ([]*domain.SRSState, error) {
	due, err := s.srsStore.GetDueItems(ctx, learnerID, s.clock.Now(), s.queueLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get due items: %w", err)
	}
	return due, nil
}

// GetAchievements implements ProgressionService.GetAchievements.
func (s *progressionServiceImpl) GetAchievements(
	ctx context.Context,
	learnerID uuid.UUID,
) ([]*domain.UnlockedAchievement, error) {
	unlocks, err := s.achievementStore.ListUnlocked(ctx, learnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list achievements: %w", err)
	}
	return unlocks, nil
}

// RunMidnightSweep implements ProgressionService.RunMidnightSweep.
// Each learner is swept in its own transaction so one poisoned row cannot
// abort the whole run.
func (s *progressionServiceImpl) RunMidnightSweep(ctx context.Context, now time.Time) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	active, err := s.streakStore.ListActive(ctx)
	if err != nil {
		return 0, NewMidnightSweepError("failed to list active streaks", err)
	}

	broken := 0
	var sweepErr error
	for _, state := range active {
		next, didBreak := s.tracker.EvaluateAtMidnight(state, now)
		if !didBreak {
			continue
		}

		err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
			streakStore := s.streakStore.WithTx(tx)
			statsStore := s.statsStore.WithTx(tx)

			if err := streakStore.Update(ctx, next); err != nil {
				return err
			}

			// Keep the denormalized streak counter in stats in step.
			stats, err := statsStore.GetForUpdate(ctx, state.LearnerID)
			if err != nil {
				return err
			}
			stats.CurrentStreak = 0
			stats.UpdatedAt = now
			return statsStore.Update(ctx, stats)
		})
		if err != nil {
			log.Error("failed to expire streak",
				slog.String("error", err.Error()),
				slog.String("learner_id", state.LearnerID.String()))
			sweepErr = err
			continue
		}

		broken++
		log.Info("streak expired",
			slog.String("learner_id", state.LearnerID.String()),
			slog.Int("previous_streak", state.CurrentStreak))
	}

	if sweepErr != nil {
		return broken, NewMidnightSweepError("one or more streaks failed to expire", sweepErr)
	}

	log.Info("midnight sweep completed",
		slog.Int("active_streaks", len(active)),
		slog.Int("broken", broken))

	return broken, nil
}

// loadOrCreateStats fetches the learner's stats row under lock, creating
// an empty one the first time the learner shows up.
func (s *progressionServiceImpl) loadOrCreateStats(
	ctx context.Context,
	statsStore store.LearnerStatsStore,
	learnerID uuid.UUID,
	now time.Time,
) (*domain.LearnerStats, error) {
	stats, err := statsStore.GetForUpdate(ctx, learnerID)
	if err == nil {
		return stats, nil
	}
	if !store.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to get learner stats: %w", err)
	}

	stats, err = domain.NewLearnerStats(learnerID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create learner stats: %w", err)
	}
	if err := statsStore.Create(ctx, stats); err != nil {
		return nil, fmt.Errorf("failed to persist learner stats: %w", err)
	}
	return stats, nil
}

// loadOrCreateStreak fetches the learner's streak row under lock, creating
// an empty one the first time the learner shows up.
func (s *progressionServiceImpl) loadOrCreateStreak(
	ctx context.Context,
	streakStore store.StreakStore,
	learnerID uuid.UUID,
	now time.Time,
) (*domain.StreakState, error) {
	state, err := streakStore.GetForUpdate(ctx, learnerID)
	if err == nil {
		return state, nil
	}
	if !store.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to get streak state: %w", err)
	}

	state, err = domain.NewStreakState(learnerID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create streak state: %w", err)
	}
	if err := streakStore.Create(ctx, state); err != nil {
		return nil, fmt.Errorf("failed to persist streak state: %w", err)
	}
	return state, nil
}

// loadOrCreateSRSState fetches the item's review state under lock, creating
// default state the first time the learner reviews the item.
func (s *progressionServiceImpl) loadOrCreateSRSState(
	ctx context.Context,
	srsStore store.SRSStateStore,
	learnerID, itemID uuid.UUID,
	now time.Time,
) (*domain.SRSState, error) {
	state, err := srsStore.GetForUpdate(ctx, learnerID, itemID)
	if err == nil {
		return state, nil
	}
	if !store.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to get srs state: %w", err)
	}

	state, err = domain.NewSRSState(learnerID, itemID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create srs state: %w", err)
	}
	if err := srsStore.Create(ctx, state); err != nil {
		return nil, fmt.Errorf("failed to persist srs state: %w", err)
	}
	return state, nil
}
