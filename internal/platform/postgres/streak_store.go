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

// PostgresStreakStore implements the store.StreakStore interface
// using a PostgreSQL database as the storage backend.
type PostgresStreakStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresStreakStore creates a new PostgreSQL implementation of the
// StreakStore interface. If logger is nil, a default logger will be used.
func NewPostgresStreakStore(db store.DBTX, logger *slog.Logger) *PostgresStreakStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresStreakStore{
		db:     db,
		logger: logger.With(slog.String("component", "streak_store")),
	}
}

// Ensure PostgresStreakStore implements store.StreakStore interface
var _ store.StreakStore = (*PostgresStreakStore)(nil)

const streakColumns = `learner_id, current_streak, longest_streak,
	freezes_available, last_activity_date, created_at, updated_at`

// Create implements store.StreakStore.Create
func (s *PostgresStreakStore) Create(ctx context.Context, state *domain.StreakState) error {
	if err := state.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO streak_states (` + streakColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := s.db.ExecContext(ctx, query,
		state.LearnerID,
		state.CurrentStreak,
		state.LongestStreak,
		state.FreezesAvailable,
		nullableTime(state.LastActivityDate),
		state.CreatedAt,
		state.UpdatedAt,
	)
	if err != nil {
		return MapError(err)
	}

	return nil
}

// Get implements store.StreakStore.Get
// Returns store.ErrStreakStateNotFound if the streak does not exist.
func (s *PostgresStreakStore) Get(
	ctx context.Context,
	learnerID uuid.UUID,
) (*domain.StreakState, error) {
	query := `
		SELECT ` + streakColumns + `
		FROM streak_states
		WHERE learner_id = $1`

	return s.scanOne(s.db.QueryRowContext(ctx, query, learnerID))
}

// GetForUpdate implements store.StreakStore.GetForUpdate
// It acquires a row-level lock and must run inside a transaction.
func (s *PostgresStreakStore) GetForUpdate(
	ctx context.Context,
	learnerID uuid.UUID,
) (*domain.StreakState, error) {
	query := `
		SELECT ` + streakColumns + `
		FROM streak_states
		WHERE learner_id = $1
		FOR UPDATE`

	return s.scanOne(s.db.QueryRowContext(ctx, query, learnerID))
}

// Update implements store.StreakStore.Update
// Returns store.ErrStreakStateNotFound if the streak does not exist.
func (s *PostgresStreakStore) Update(ctx context.Context, state *domain.StreakState) error {
	if err := state.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE streak_states
		SET current_streak = $2,
			longest_streak = $3,
			freezes_available = $4,
			last_activity_date = $5,
			updated_at = $6
		WHERE learner_id = $1`

	result, err := s.db.ExecContext(ctx, query,
		state.LearnerID,
		state.CurrentStreak,
		state.LongestStreak,
		state.FreezesAvailable,
		nullableTime(state.LastActivityDate),
		state.UpdatedAt,
	)
	if err != nil {
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "streak state"); err != nil {
		return err
	}

	return nil
}

// ListActive implements store.StreakStore.ListActive
// Only rows with a running streak are candidates for the nightly sweep.
func (s *PostgresStreakStore) ListActive(ctx context.Context) ([]*domain.StreakState, error) {
	query := `
		SELECT ` + streakColumns + `
		FROM streak_states
		WHERE current_streak > 0`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			s.logger.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	var states []*domain.StreakState
	for rows.Next() {
		state, err := scanStreakState(rows.Scan)
		if err != nil {
			return nil, err
		}
		states = append(states, state)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return states, nil
}

// WithTx implements store.StreakStore.WithTx
func (s *PostgresStreakStore) WithTx(tx *sql.Tx) store.StreakStore {
	return &PostgresStreakStore{
		db:     tx,
		logger: s.logger,
	}
}

func (s *PostgresStreakStore) scanOne(row *sql.Row) (*domain.StreakState, error) {
	state, err := scanStreakState(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrStreakStateNotFound
		}
		return nil, MapError(err)
	}
	return state, nil
}

// scanStreakState reads one streak_states row via the given scan function.
func scanStreakState(scan func(dest ...any) error) (*domain.StreakState, error) {
	var (
		state            domain.StreakState
		lastActivityDate sql.NullTime
	)

	err := scan(
		&state.LearnerID,
		&state.CurrentStreak,
		&state.LongestStreak,
		&state.FreezesAvailable,
		&lastActivityDate,
		&state.CreatedAt,
		&state.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if lastActivityDate.Valid {
		state.LastActivityDate = lastActivityDate.Time
	}

	return &state, nil
}
