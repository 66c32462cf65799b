package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/kotoba-app/kotoba-api/internal/domain"
	"github.com/kotoba-app/kotoba-api/internal/store"
)

// PostgresSRSStateStore implements the store.SRSStateStore interface
// using a PostgreSQL database as the storage backend.
type PostgresSRSStateStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSRSStateStore creates a new PostgreSQL implementation of the SRSStateStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresSRSStateStore(db store.DBTX, logger *slog.Logger) *PostgresSRSStateStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSRSStateStore{
		db:     db,
		logger: logger.With(slog.String("component", "srs_state_store")),
	}
}

// Ensure PostgresSRSStateStore implements store.SRSStateStore interface
var _ store.SRSStateStore = (*PostgresSRSStateStore)(nil)

const srsStateColumns = `learner_id, item_id, stage, ease_factor, interval_days,
	repetitions, last_reviewed_at, next_review_at, review_count, created_at, updated_at`

// Create implements store.SRSStateStore.Create
func (s *PostgresSRSStateStore) Create(ctx context.Context, state *domain.SRSState) error {
	if err := state.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO srs_states (` + srsStateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := s.db.ExecContext(ctx, query,
		state.LearnerID,
		state.ItemID,
		int(state.Stage),
		state.EaseFactor,
		state.IntervalDays,
		state.Repetitions,
		nullableTime(state.LastReviewedAt),
		state.NextReviewAt,
		state.ReviewCount,
		state.CreatedAt,
		state.UpdatedAt,
	)
	if err != nil {
		return MapError(err)
	}

	return nil
}

// Get implements store.SRSStateStore.Get
// Returns store.ErrSRSStateNotFound if the state does not exist.
func (s *PostgresSRSStateStore) Get(
	ctx context.Context,
	learnerID, itemID uuid.UUID,
) (*domain.SRSState, error) {
	query := `
		SELECT ` + srsStateColumns + `
		FROM srs_states
		WHERE learner_id = $1 AND item_id = $2`

	return s.scanOne(s.db.QueryRowContext(ctx, query, learnerID, itemID))
}

// GetForUpdate implements store.SRSStateStore.GetForUpdate
// It acquires a row-level lock and must run inside a transaction.
func (s *PostgresSRSStateStore) GetForUpdate(
	ctx context.Context,
	learnerID, itemID uuid.UUID,
) (*domain.SRSState, error) {
	query := `
		SELECT ` + srsStateColumns + `
		FROM srs_states
		WHERE learner_id = $1 AND item_id = $2
		FOR UPDATE`

	return s.scanOne(s.db.QueryRowContext(ctx, query, learnerID, itemID))
}

// Update implements store.SRSStateStore.Update
// Returns store.ErrSRSStateNotFound if the state does not exist.
func (s *PostgresSRSStateStore) Update(ctx context.Context, state *domain.SRSState) error {
	if err := state.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE srs_states
		SET stage = $3,
			ease_factor = $4,
			interval_days = $5,
			repetitions = $6,
			last_reviewed_at = $7,
			next_review_at = $8,
			review_count = $9,
			updated_at = $10
		WHERE learner_id = $1 AND item_id = $2`

	result, err := s.db.ExecContext(ctx, query,
		state.LearnerID,
		state.ItemID,
		int(state.Stage),
		state.EaseFactor,
		state.IntervalDays,
		state.Repetitions,
		nullableTime(state.LastReviewedAt),
		state.NextReviewAt,
		state.ReviewCount,
		state.UpdatedAt,
	)
	if err != nil {
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "srs state"); err != nil {
		return err
	}

	return nil
}

// GetDueItems implements store.SRSStateStore.GetDueItems
// Retired items never appear in the queue, matching Stage.IsTerminal.
func (s *PostgresSRSStateStore) GetDueItems(
	ctx context.Context,
	learnerID uuid.UUID,
	asOf time.Time,
	limit int,
) ([]*domain.SRSState, error) {
	query := `
		SELECT ` + srsStateColumns + `
		FROM srs_states
		WHERE learner_id = $1
			AND next_review_at <= $2
			AND stage < $3
		ORDER BY next_review_at ASC
		LIMIT $4`

	rows, err := s.db.QueryContext(ctx, query, learnerID, asOf, int(domain.StageBurned), limit)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			s.logger.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	var states []*domain.SRSState
	for rows.Next() {
		state, err := scanSRSState(rows.Scan)
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

// WithTx implements store.SRSStateStore.WithTx
func (s *PostgresSRSStateStore) WithTx(tx *sql.Tx) store.SRSStateStore {
	return &PostgresSRSStateStore{
		db:     tx,
		logger: s.logger,
	}
}

// scanOne scans a single row and maps an empty result to the
// entity-specific not found error.
func (s *PostgresSRSStateStore) scanOne(row *sql.Row) (*domain.SRSState, error) {
	state, err := scanSRSState(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrSRSStateNotFound
		}
		return nil, MapError(err)
	}
	return state, nil
}

// scanSRSState reads one srs_states row via the given scan function.
func scanSRSState(scan func(dest ...any) error) (*domain.SRSState, error) {
	var (
		state          domain.SRSState
		stage          int
		lastReviewedAt sql.NullTime
	)

	err := scan(
		&state.LearnerID,
		&state.ItemID,
		&stage,
		&state.EaseFactor,
		&state.IntervalDays,
		&state.Repetitions,
		&lastReviewedAt,
		&state.NextReviewAt,
		&state.ReviewCount,
		&state.CreatedAt,
		&state.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	state.Stage = domain.Stage(stage)
	if lastReviewedAt.Valid {
		state.LastReviewedAt = lastReviewedAt.Time
	}

	return &state, nil
}

// nullableTime maps the zero time to SQL NULL so "never happened" is
// represented consistently in the database.
func nullableTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
