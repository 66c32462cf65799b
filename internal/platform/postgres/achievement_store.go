package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"
	"github.com/kotoba-app/kotoba-api/internal/domain"
	"github.com/kotoba-app/kotoba-api/internal/store"
)

// PostgresAchievementStore implements the store.AchievementStore interface
// using a PostgreSQL database as the storage backend.
type PostgresAchievementStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresAchievementStore creates a new PostgreSQL implementation of the
// AchievementStore interface. If logger is nil, a default logger will be used.
func NewPostgresAchievementStore(db store.DBTX, logger *slog.Logger) *PostgresAchievementStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresAchievementStore{
		db:     db,
		logger: logger.With(slog.String("component", "achievement_store")),
	}
}

// Ensure PostgresAchievementStore implements store.AchievementStore interface
var _ store.AchievementStore = (*PostgresAchievementStore)(nil)

// Unlock implements store.AchievementStore.Unlock
// The ON CONFLICT DO NOTHING clause makes concurrent or replayed unlocks
// harmless, which backs the at-most-once unlock guarantee.
func (s *PostgresAchievementStore) Unlock(
	ctx context.Context,
	unlock *domain.UnlockedAchievement,
) error {
	query := `
		INSERT INTO unlocked_achievements (learner_id, achievement_key, unlocked_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (learner_id, achievement_key) DO NOTHING`

	_, err := s.db.ExecContext(ctx, query, unlock.LearnerID, unlock.Key, unlock.UnlockedAt)
	if err != nil {
		return MapError(err)
	}

	return nil
}

// GetUnlockedKeys implements store.AchievementStore.GetUnlockedKeys
func (s *PostgresAchievementStore) GetUnlockedKeys(
	ctx context.Context,
	learnerID uuid.UUID,
) (map[string]bool, error) {
	query := `
		SELECT achievement_key
		FROM unlocked_achievements
		WHERE learner_id = $1`

	rows, err := s.db.QueryContext(ctx, query, learnerID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			s.logger.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	keys := make(map[string]bool)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, MapError(err)
		}
		keys[key] = true
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return keys, nil
}

// ListUnlocked implements store.AchievementStore.ListUnlocked
func (s *PostgresAchievementStore) ListUnlocked(
	ctx context.Context,
	learnerID uuid.UUID,
) ([]*domain.UnlockedAchievement, error) {
	query := `
		SELECT learner_id, achievement_key, unlocked_at
		FROM unlocked_achievements
		WHERE learner_id = $1
		ORDER BY unlocked_at DESC`

	rows, err := s.db.QueryContext(ctx, query, learnerID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			s.logger.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	var unlocks []*domain.UnlockedAchievement
	for rows.Next() {
		var unlock domain.UnlockedAchievement
		if err := rows.Scan(&unlock.LearnerID, &unlock.Key, &unlock.UnlockedAt); err != nil {
			return nil, MapError(err)
		}
		unlocks = append(unlocks, &unlock)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return unlocks, nil
}

// WithTx implements store.AchievementStore.WithTx
func (s *PostgresAchievementStore) WithTx(tx *sql.Tx) store.AchievementStore {
	return &PostgresAchievementStore{
		db:     tx,
		logger: s.logger,
	}
}
