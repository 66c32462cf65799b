package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/kotoba-app/kotoba-api/internal/domain"
)

// AchievementStore defines the interface for unlocked achievement persistence.
// Achievement definitions themselves live in the in-memory catalog; only the
// unlock records are stored.
type AchievementStore interface {
	// Unlock records an achievement unlock for a learner. The operation is
	// idempotent: unlocking an already-unlocked achievement is a no-op and
	// returns nil.
	Unlock(ctx context.Context, unlock *domain.UnlockedAchievement) error

	// GetUnlockedKeys retrieves the set of achievement keys the learner has
	// already unlocked. The returned map is never nil.
	GetUnlockedKeys(ctx context.Context, learnerID uuid.UUID) (map[string]bool, error)

	// ListUnlocked retrieves all unlock records for the learner, most
	// recent first.
	ListUnlocked(ctx context.Context, learnerID uuid.UUID) ([]*domain.UnlockedAchievement, error)

	// WithTx returns a new AchievementStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) AchievementStore
}
