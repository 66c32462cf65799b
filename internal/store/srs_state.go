package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/kotoba-app/kotoba-api/internal/domain"
)

// SRSStateStore defines the interface for per-item review state persistence.
type SRSStateStore interface {
	// Create saves a new review state for a learner/item pair.
	// It handles domain validation internally.
	// Returns ErrDuplicate if state already exists for the pair.
	Create(ctx context.Context, state *domain.SRSState) error

	// Get retrieves review state by the combination of learner ID and item ID.
	// Returns ErrSRSStateNotFound if the state does not exist.
	// NOTE: This method does NOT provide any row locking, so it should not be used
	// when you plan to update the row and need concurrency protection.
	Get(ctx context.Context, learnerID, itemID uuid.UUID) (*domain.SRSState, error)

	// GetForUpdate retrieves review state with a row-level lock using SELECT FOR UPDATE.
	// This should be used within a transaction when you plan to update the row
	// and need protection from concurrent modifications.
	// Returns ErrSRSStateNotFound if the state does not exist.
	GetForUpdate(ctx context.Context, learnerID, itemID uuid.UUID) (*domain.SRSState, error)

	// Update modifies an existing review state. The learner ID and item ID
	// fields identify the record to update.
	// Returns ErrSRSStateNotFound if the state does not exist.
	Update(ctx context.Context, state *domain.SRSState) error

	// GetDueItems retrieves up to limit review states for the learner whose
	// next review time is at or before asOf, ordered soonest first. Retired
	// items are never returned.
	GetDueItems(ctx context.Context, learnerID uuid.UUID, asOf time.Time, limit int) ([]*domain.SRSState, error)

	// WithTx returns a new SRSStateStore instance that uses the provided transaction.
	// This allows for multiple operations to be executed within a single transaction.
	// The transaction should be created and managed by the caller (typically a service).
	WithTx(tx *sql.Tx) SRSStateStore
}
