package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/kotoba-app/kotoba-api/internal/domain"
	"github.com/kotoba-app/kotoba-api/internal/store"
)

// PostgresLearnerStatsStore implements the store.LearnerStatsStore interface
// using a PostgreSQL database as the storage backend.
type PostgresLearnerStatsStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresLearnerStatsStore creates a new PostgreSQL implementation of the
// LearnerStatsStore interface. If logger is nil, a default logger will be used.
func NewPostgresLearnerStatsStore(db store.DBTX, logger *slog.Logger) *PostgresLearnerStatsStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresLearnerStatsStore{
		db:     db,
		logger: logger.With(slog.String("component", "learner_stats_store")),
	}
}

// Ensure PostgresLearnerStatsStore implements store.LearnerStatsStore interface
var _ store.LearnerStatsStore = (*PostgresLearnerStatsStore)(nil)

const learnerStatsColumns = `learner_id, total_xp, current_level, current_streak,
	longest_streak, streak_freezes, reviews_completed, perfect_reviews,
	lessons_completed, items_learned, items_burned, kanji_mastered,
	vocab_mastered, games_played, perfect_games, sprint_reviews,
	sprint_seconds, last_review_day, created_at, updated_at`

// Create implements store.LearnerStatsStore.Create
func (s *PostgresLearnerStatsStore) Create(ctx context.Context, stats *domain.LearnerStats) error {
	if err := stats.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO learner_stats (` + learnerStatsColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`

	_, err := s.db.ExecContext(ctx, query,
		stats.LearnerID,
		stats.TotalXP,
		stats.CurrentLevel,
		stats.CurrentStreak,
		stats.LongestStreak,
		stats.StreakFreezes,
		stats.ReviewsCompleted,
		stats.PerfectReviews,
		stats.LessonsCompleted,
		stats.ItemsLearned,
		stats.ItemsBurned,
		stats.KanjiMastered,
		stats.VocabMastered,
		stats.GamesPlayed,
		stats.PerfectGames,
		stats.SprintReviews,
		stats.SprintSeconds,
		nullableTime(stats.LastReviewDay),
		stats.CreatedAt,
		stats.UpdatedAt,
	)
	if err != nil {
		return MapError(err)
	}

	return nil
}

// Get implements store.LearnerStatsStore.Get
// Returns store.ErrLearnerStatsNotFound if the stats do not exist.
func (s *PostgresLearnerStatsStore) Get(
	ctx context.Context,
	learnerID uuid.UUID,
) (*domain.LearnerStats, error) {
	query := `
		SELECT ` + learnerStatsColumns + `
		FROM learner_stats
		WHERE learner_id = $1`

	return s.scanOne(s.db.QueryRowContext(ctx, query, learnerID))
}

// GetForUpdate implements store.LearnerStatsStore.GetForUpdate
// It acquires a row-level lock and must run inside a transaction.
func (s *PostgresLearnerStatsStore) GetForUpdate(
	ctx context.Context,
	learnerID uuid.UUID,
) (*domain.LearnerStats, error) {
	query := `
		SELECT ` + learnerStatsColumns + `
		FROM learner_stats
		WHERE learner_id = $1
		FOR UPDATE`

	return s.scanOne(s.db.QueryRowContext(ctx, query, learnerID))
}

// Update implements store.LearnerStatsStore.Update
// Returns store.ErrLearnerStatsNotFound if the stats do not exist.
func (s *PostgresLearnerStatsStore) Update(ctx context.Context, stats *domain.LearnerStats) error {
	if err := stats.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE learner_stats
		SET total_xp = $2,
			current_level = $3,
			current_streak = $4,
			longest_streak = $5,
			streak_freezes = $6,
			reviews_completed = $7,
			perfect_reviews = $8,
			lessons_completed = $9,
			items_learned = $10,
			items_burned = $11,
			kanji_mastered = $12,
			vocab_mastered = $13,
			games_played = $14,
			perfect_games = $15,
			sprint_reviews = $16,
			sprint_seconds = $17,
			last_review_day = $18,
			updated_at = $19
		WHERE learner_id = $1`

	result, err := s.db.ExecContext(ctx, query,
		stats.LearnerID,
		stats.TotalXP,
		stats.CurrentLevel,
		stats.CurrentStreak,
		stats.LongestStreak,
		stats.StreakFreezes,
		stats.ReviewsCompleted,
		stats.PerfectReviews,
		stats.LessonsCompleted,
		stats.ItemsLearned,
		stats.ItemsBurned,
		stats.KanjiMastered,
		stats.VocabMastered,
		stats.GamesPlayed,
		stats.PerfectGames,
		stats.SprintReviews,
		stats.SprintSeconds,
		nullableTime(stats.LastReviewDay),
		stats.UpdatedAt,
	)
	if err != nil {
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "learner stats"); err != nil {
		return err
	}

	return nil
}

// WithTx implements store.LearnerStatsStore.WithTx
func (s *PostgresLearnerStatsStore) WithTx(tx *sql.Tx) store.LearnerStatsStore {
	return &PostgresLearnerStatsStore{
		db:     tx,
		logger: s.logger,
	}
}

func (s *PostgresLearnerStatsStore) scanOne(row *sql.Row) (*domain.LearnerStats, error) {
	var (
		stats         domain.LearnerStats
		lastReviewDay sql.NullTime
	)

	err := row.Scan(
		&stats.LearnerID,
		&stats.TotalXP,
		&stats.CurrentLevel,
		&stats.CurrentStreak,
		&stats.LongestStreak,
		&stats.StreakFreezes,
		&stats.ReviewsCompleted,
		&stats.PerfectReviews,
		&stats.LessonsCompleted,
		&stats.ItemsLearned,
		&stats.ItemsBurned,
		&stats.KanjiMastered,
		&stats.VocabMastered,
		&stats.GamesPlayed,
		&stats.PerfectGames,
		&stats.SprintReviews,
		&stats.SprintSeconds,
		&lastReviewDay,
		&stats.CreatedAt,
		&stats.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrLearnerStatsNotFound
		}
		return nil, MapError(err)
	}

	if lastReviewDay.Valid {
		stats.LastReviewDay = lastReviewDay.Time
	}

	return &stats, nil
}
