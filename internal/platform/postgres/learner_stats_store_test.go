package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/kotoba-app/kotoba-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCreatePersistsFreshLearnerAtLevelZero pins the provisioning row for
// a first-seen learner: level and every counter start at zero, which the
// learner_stats schema must accept.
func TestCreatePersistsFreshLearnerAtLevelZero(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	learnerID := uuid.New()
	now := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)

	stats, err := domain.NewLearnerStats(learnerID, now)
	require.NoError(t, err)
	require.Equal(t, 0, stats.CurrentLevel)

	mock.ExpectExec("INSERT INTO learner_stats").
		WithArgs(
			learnerID,          // learner_id
			0,                  // total_xp
			0,                  // current_level
			0,                  // current_streak
			0,                  // longest_streak
			0,                  // streak_freezes
			0,                  // reviews_completed
			0,                  // perfect_reviews
			0,                  // lessons_completed
			0,                  // items_learned
			0,                  // items_burned
			0,                  // kanji_mastered
			0,                  // vocab_mastered
			0,                  // games_played
			0,                  // perfect_games
			0,                  // sprint_reviews
			float64(0),         // sprint_seconds
			sqlmock.AnyArg(),   // last_review_day (NULL)
			now,                // created_at
			now,                // updated_at
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	store := NewPostgresLearnerStatsStore(db, nil)
	err = store.Create(context.Background(), stats)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestUpdateAcceptsLevelZero covers the sub-100-XP learner: every write
// before the first level-up still carries current_level = 0.
func TestUpdateAcceptsLevelZero(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	learnerID := uuid.New()
	now := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)

	stats, err := domain.NewLearnerStats(learnerID, now)
	require.NoError(t, err)
	stats.TotalXP = 25
	stats.ReviewsCompleted = 1

	mock.ExpectExec("UPDATE learner_stats").
		WithArgs(
			learnerID,
			25,               // total_xp below the first level boundary
			0,                // current_level stays 0
			0, 0, 0,
			1,                // reviews_completed
			0, 0, 0, 0, 0, 0, 0, 0, 0,
			float64(0),
			sqlmock.AnyArg(), // last_review_day
			sqlmock.AnyArg(), // updated_at
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	store := NewPostgresLearnerStatsStore(db, nil)
	err = store.Update(context.Background(), stats)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
