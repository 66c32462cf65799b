package progression

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kotoba-app/kotoba-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2026, 3, 10, 18, 30, 0, 0, time.UTC)

func newTestSnapshot(t *testing.T) Snapshot {
	t.Helper()

	learnerID := uuid.New()

	state, err := domain.NewSRSState(learnerID, uuid.New(), testTime)
	require.NoError(t, err)

	stats, err := domain.NewLearnerStats(learnerID, testTime)
	require.NoError(t, err)

	streakState, err := domain.NewStreakState(learnerID, testTime)
	require.NoError(t, err)

	return Snapshot{
		SRSState: state,
		Stats:    stats,
		Streak:   streakState,
		Unlocked: map[string]bool{},
	}
}

func TestHandleReviewEvent(t *testing.T) {
	t.Parallel()
	engine := NewDefaultEngine()
	snap := newTestSnapshot(t)

	event := Event{
		LearnerID:  snap.Stats.LearnerID,
		Kind:       EventReview,
		OccurredAt: testTime,
		ItemID:     snap.SRSState.ItemID,
		Quality:    5,
	}

	outcome, err := engine.Handle(event, snap)
	require.NoError(t, err)

	// SRS state advanced one ladder step.
	require.NotNil(t, outcome.SRSState)
	assert.Equal(t, domain.StageApprenticeII, outcome.SRSState.Stage)
	assert.Equal(t, 1, outcome.SRSState.Repetitions)

	// Correct review (10) + first review of the day (10) + streak day
	// bonus (5), all at multiplier 1 for a fresh learner.
	assert.Equal(t, 25, outcome.XPAwarded)
	assert.Equal(t, 25, outcome.Stats.TotalXP)
	assert.Equal(t, 0, outcome.Stats.CurrentLevel)

	assert.Equal(t, 1, outcome.Streak.CurrentStreak)
	assert.Equal(t, 1, outcome.Stats.ReviewsCompleted)
	assert.Equal(t, 1, outcome.Stats.PerfectReviews)
	assert.Empty(t, outcome.NewlyUnlocked)
}

func TestHandleReviewDoesNotMutateSnapshot(t *testing.T) {
	t.Parallel()
	engine := NewDefaultEngine()
	snap := newTestSnapshot(t)

	statsBefore := *snap.Stats
	srsBefore := *snap.SRSState
	streakBefore := *snap.Streak

	event := Event{
		LearnerID:  snap.Stats.LearnerID,
		Kind:       EventReview,
		OccurredAt: testTime,
		ItemID:     snap.SRSState.ItemID,
		Quality:    3,
	}

	_, err := engine.Handle(event, snap)
	require.NoError(t, err)

	assert.Equal(t, statsBefore, *snap.Stats)
	assert.Equal(t, srsBefore, *snap.SRSState)
	assert.Equal(t, streakBefore, *snap.Streak)
}

func TestHandleSecondReviewSameDay(t *testing.T) {
	t.Parallel()
	engine := NewDefaultEngine()
	snap := newTestSnapshot(t)

	event := Event{
		LearnerID:  snap.Stats.LearnerID,
		Kind:       EventReview,
		OccurredAt: testTime,
		ItemID:     snap.SRSState.ItemID,
		Quality:    4,
	}

	first, err := engine.Handle(event, snap)
	require.NoError(t, err)

	// Feed the first outcome back in as the new snapshot.
	second, err := engine.Handle(Event{
		LearnerID:  snap.Stats.LearnerID,
		Kind:       EventReview,
		OccurredAt: testTime.Add(30 * time.Second),
		ItemID:     snap.SRSState.ItemID,
		Quality:    4,
	}, Snapshot{
		SRSState: first.SRSState,
		Stats:    first.Stats,
		Streak:   first.Streak,
		Unlocked: map[string]bool{},
	})
	require.NoError(t, err)

	// No first-of-day bonus, no streak-day bonus: just the correct
	// review award.
	assert.Equal(t, 10, second.XPAwarded)
	assert.Equal(t, first.Streak.CurrentStreak, second.Streak.CurrentStreak)
}

func TestHandleGameEvent(t *testing.T) {
	t.Parallel()
	engine := NewDefaultEngine()
	snap := newTestSnapshot(t)
	snap.SRSState = nil // games carry no review outcome

	outcome, err := engine.Handle(Event{
		LearnerID:  snap.Stats.LearnerID,
		Kind:       EventGame,
		OccurredAt: testTime,
		Perfect:    true,
	}, snap)
	require.NoError(t, err)

	assert.Nil(t, outcome.SRSState)
	assert.Equal(t, 1, outcome.Stats.GamesPlayed)
	assert.Equal(t, 1, outcome.Stats.PerfectGames)

	// Game completion (15) + perfect score (30) + streak day bonus (5).
	assert.Equal(t, 50, outcome.XPAwarded)
}

func TestHandleLessonEvent(t *testing.T) {
	t.Parallel()
	engine := NewDefaultEngine()
	snap := newTestSnapshot(t)
	snap.SRSState = nil

	outcome, err := engine.Handle(Event{
		LearnerID:  snap.Stats.LearnerID,
		Kind:       EventLesson,
		OccurredAt: testTime,
	}, snap)
	require.NoError(t, err)

	assert.Equal(t, 1, outcome.Stats.LessonsCompleted)
	// Lesson (20) + streak day bonus (5).
	assert.Equal(t, 25, outcome.XPAwarded)
}

func TestHandleAchievementUnlockAddsReward(t *testing.T) {
	t.Parallel()
	engine := NewDefaultEngine()
	snap := newTestSnapshot(t)
	snap.Stats.ReviewsCompleted = 99
	snap.Stats.TotalXP = 500

	outcome, err := engine.Handle(Event{
		LearnerID:  snap.Stats.LearnerID,
		Kind:       EventReview,
		OccurredAt: testTime,
		ItemID:     snap.SRSState.ItemID,
		Quality:    4,
	}, snap)
	require.NoError(t, err)

	// The hundredth review unlocks reviews_100 exactly once.
	assert.Equal(t, []string{"reviews_100"}, outcome.NewlyUnlocked)
	assert.Equal(t, 100, outcome.Stats.ReviewsCompleted)

	// Review (10) + first of day (10) + streak day (5) + reward (100).
	assert.Equal(t, 125, outcome.XPAwarded)
	assert.Equal(t, 625, outcome.Stats.TotalXP)
	assert.Equal(t, 2, outcome.Stats.CurrentLevel)
	assert.Equal(t, 2, outcome.Progress.Level)
}

func TestHandleAlreadyUnlockedIsNotRegranted(t *testing.T) {
	t.Parallel()
	engine := NewDefaultEngine()
	snap := newTestSnapshot(t)
	snap.Stats.ReviewsCompleted = 150
	snap.Unlocked = map[string]bool{"reviews_100": true}

	outcome, err := engine.Handle(Event{
		LearnerID:  snap.Stats.LearnerID,
		Kind:       EventReview,
		OccurredAt: testTime,
		ItemID:     snap.SRSState.ItemID,
		Quality:    4,
	}, snap)
	require.NoError(t, err)

	assert.NotContains(t, outcome.NewlyUnlocked, "reviews_100")
}

func TestHandleBurnPromotion(t *testing.T) {
	t.Parallel()
	engine := NewDefaultEngine()
	snap := newTestSnapshot(t)
	snap.SRSState.Stage = domain.StageEnlightened
	snap.SRSState.Repetitions = 8
	snap.SRSState.IntervalDays = 120

	outcome, err := engine.Handle(Event{
		LearnerID:  snap.Stats.LearnerID,
		Kind:       EventReview,
		OccurredAt: testTime,
		ItemID:     snap.SRSState.ItemID,
		Quality:    5,
	}, snap)
	require.NoError(t, err)

	assert.Equal(t, domain.StageBurned, outcome.SRSState.Stage)
	assert.True(t, outcome.SRSState.IsRetired())
	assert.Equal(t, 1, outcome.Stats.ItemsBurned)

	// The burn milestone unlocks the burned_1 achievement.
	assert.Contains(t, outcome.NewlyUnlocked, "burned_1")
}

func TestHandleSessionReportUnlocksSprint(t *testing.T) {
	t.Parallel()
	engine := NewDefaultEngine()
	snap := newTestSnapshot(t)

	outcome, err := engine.Handle(Event{
		LearnerID:      snap.Stats.LearnerID,
		Kind:           EventReview,
		OccurredAt:     testTime,
		ItemID:         snap.SRSState.ItemID,
		Quality:        4,
		SessionReviews: 20,
		SessionSeconds: 45,
	}, snap)
	require.NoError(t, err)

	assert.Equal(t, 20, outcome.Stats.SprintReviews)
	assert.Equal(t, 45.0, outcome.Stats.SprintSeconds)
	assert.Contains(t, outcome.NewlyUnlocked, "review_sprint_20")
}

func TestHandleSessionReportKeepsBestSprint(t *testing.T) {
	t.Parallel()
	engine := NewDefaultEngine()

	testCases := []struct {
		name            string
		sessionReviews  int
		sessionSeconds  float64
		expectedReviews int
		expectedSeconds float64
	}{
		{
			name:            "no report leaves stats alone",
			sessionReviews:  0,
			sessionSeconds:  0,
			expectedReviews: 20,
			expectedSeconds: 45,
		},
		{
			name:            "fewer reviews never replaces",
			sessionReviews:  10,
			sessionSeconds:  5,
			expectedReviews: 20,
			expectedSeconds: 45,
		},
		{
			name:            "same reviews but slower never replaces",
			sessionReviews:  20,
			sessionSeconds:  50,
			expectedReviews: 20,
			expectedSeconds: 45,
		},
		{
			name:            "more reviews replaces",
			sessionReviews:  25,
			sessionSeconds:  70,
			expectedReviews: 25,
			expectedSeconds: 70,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			snap := newTestSnapshot(t)
			snap.Stats.SprintReviews = 20
			snap.Stats.SprintSeconds = 45
			snap.Unlocked = map[string]bool{"review_sprint_20": true}

			outcome, err := engine.Handle(Event{
				LearnerID:      snap.Stats.LearnerID,
				Kind:           EventReview,
				OccurredAt:     testTime,
				ItemID:         snap.SRSState.ItemID,
				Quality:        4,
				SessionReviews: tc.sessionReviews,
				SessionSeconds: tc.sessionSeconds,
			}, snap)
			require.NoError(t, err)

			assert.Equal(t, tc.expectedReviews, outcome.Stats.SprintReviews)
			assert.Equal(t, tc.expectedSeconds, outcome.Stats.SprintSeconds)
		})
	}
}

func TestHandleMasteryCountsByItemKind(t *testing.T) {
	t.Parallel()
	engine := NewDefaultEngine()

	testCases := []struct {
		name          string
		kind          domain.ItemKind
		expectedKanji int
		expectedVocab int
	}{
		{name: "kanji promotion", kind: domain.ItemKindKanji, expectedKanji: 1},
		{name: "vocabulary promotion", kind: domain.ItemKindVocabulary, expectedVocab: 1},
		{name: "grammar promotion counts neither", kind: domain.ItemKindGrammar},
		{name: "unreported kind counts neither", kind: domain.ItemKindUnknown},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			snap := newTestSnapshot(t)
			snap.SRSState.Stage = domain.StageGuruII
			snap.SRSState.Repetitions = 5
			snap.SRSState.IntervalDays = 30

			outcome, err := engine.Handle(Event{
				LearnerID:  snap.Stats.LearnerID,
				Kind:       EventReview,
				OccurredAt: testTime,
				ItemID:     snap.SRSState.ItemID,
				ItemKind:   tc.kind,
				Quality:    4,
			}, snap)
			require.NoError(t, err)

			require.Equal(t, domain.StageMaster, outcome.SRSState.Stage)
			assert.Equal(t, tc.expectedKanji, outcome.Stats.KanjiMastered)
			assert.Equal(t, tc.expectedVocab, outcome.Stats.VocabMastered)
		})
	}
}

func TestHandleErrors(t *testing.T) {
	t.Parallel()
	engine := NewDefaultEngine()

	testCases := []struct {
		name     string
		mutate   func(*Snapshot, *Event)
		expected error
	}{
		{
			name: "missing stats",
			mutate: func(s *Snapshot, e *Event) {
				s.Stats = nil
			},
			expected: ErrMissingStats,
		},
		{
			name: "missing streak",
			mutate: func(s *Snapshot, e *Event) {
				s.Streak = nil
			},
			expected: ErrMissingStreak,
		},
		{
			name: "review without srs state",
			mutate: func(s *Snapshot, e *Event) {
				s.SRSState = nil
			},
			expected: ErrMissingSRSState,
		},
		{
			name: "unknown event kind",
			mutate: func(s *Snapshot, e *Event) {
				e.Kind = EventKind("typing_test")
			},
			expected: ErrUnknownEventKind,
		},
		{
			name: "invalid quality propagates",
			mutate: func(s *Snapshot, e *Event) {
				e.Quality = 7
			},
			expected: domain.ErrInvalidQuality,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			snap := newTestSnapshot(t)
			event := Event{
				LearnerID:  snap.Stats.LearnerID,
				Kind:       EventReview,
				OccurredAt: testTime,
				ItemID:     snap.SRSState.ItemID,
				Quality:    4,
			}
			tc.mutate(&snap, &event)

			_, err := engine.Handle(event, snap)
			if !errors.Is(err, tc.expected) {
				t.Errorf("Expected %v, got %v", tc.expected, err)
			}
		})
	}
}
