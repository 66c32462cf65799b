package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/kotoba-app/kotoba-api/internal/domain"
)

// StreakStore defines the interface for streak state persistence.
type StreakStore interface {
	// Create saves a new streak row for a learner.
	// Returns ErrDuplicate if a streak already exists for the learner.
	Create(ctx context.Context, state *domain.StreakState) error

	// Get retrieves streak state by learner ID.
	// Returns ErrStreakStateNotFound if the streak does not exist.
	Get(ctx context.Context, learnerID uuid.UUID) (*domain.StreakState, error)

	// GetForUpdate retrieves streak state with a row-level lock using SELECT FOR UPDATE.
	// This should be used within a transaction when you plan to update the row.
	// Returns ErrStreakStateNotFound if the streak does not exist.
	GetForUpdate(ctx context.Context, learnerID uuid.UUID) (*domain.StreakState, error)

	// Update modifies an existing streak row.
	// Returns ErrStreakStateNotFound if the streak does not exist.
	Update(ctx context.Context, state *domain.StreakState) error

	// ListActive retrieves all streak rows with a non-zero current streak.
	// Used by the nightly sweep to expire streaks that were not kept alive.
	ListActive(ctx context.Context) ([]*domain.StreakState, error)

	// WithTx returns a new StreakStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) StreakStore
}
