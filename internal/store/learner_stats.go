package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/kotoba-app/kotoba-api/internal/domain"
)

// LearnerStatsStore defines the interface for aggregate learner statistics persistence.
type LearnerStatsStore interface {
	// Create saves a new stats row for a learner.
	// Returns ErrDuplicate if stats already exist for the learner.
	Create(ctx context.Context, stats *domain.LearnerStats) error

	// Get retrieves stats by learner ID.
	// Returns ErrLearnerStatsNotFound if the stats do not exist.
	Get(ctx context.Context, learnerID uuid.UUID) (*domain.LearnerStats, error)

	// GetForUpdate retrieves stats with a row-level lock using SELECT FOR UPDATE.
	// This should be used within a transaction when you plan to update the row.
	// Returns ErrLearnerStatsNotFound if the stats do not exist.
	GetForUpdate(ctx context.Context, learnerID uuid.UUID) (*domain.LearnerStats, error)

	// Update modifies an existing stats row.
	// Returns ErrLearnerStatsNotFound if the stats do not exist.
	Update(ctx context.Context, stats *domain.LearnerStats) error

	// WithTx returns a new LearnerStatsStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) LearnerStatsStore
}
