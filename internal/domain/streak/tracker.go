// Package streak maintains consecutive-day activity streaks with
// freeze-token semantics: a freeze forgives exactly one missed calendar
// day without breaking the streak.
package streak

import (
	"errors"
	"time"

	"github.com/kotoba-app/kotoba-api/internal/domain"
)

// Common errors
var (
	ErrNilState = errors.New("streak state cannot be nil")
)

// Tracker defines the interface for streak operations.
type Tracker interface {
	// RecordActivity credits learner activity on a calendar day and
	// returns the updated streak state. Recording twice on the same day
	// is a no-op; out-of-order dates return domain.ErrActivityBeforeLast.
	RecordActivity(state *domain.StreakState, activityDate time.Time) (*domain.StreakState, error)

	// EvaluateAtMidnight is the passive nightly check: it reports whether
	// the streak has just broken (for notifications) and zeroes the
	// current streak if so. It records no activity and never advances
	// LastActivityDate.
	EvaluateAtMidnight(state *domain.StreakState, today time.Time) (*domain.StreakState, bool)
}

// defaultTracker is the standard implementation of the Tracker interface.
type defaultTracker struct{}

// NewTracker creates a streak tracker.
func NewTracker() Tracker {
	return defaultTracker{}
}

// civilDay collapses a timestamp to a day ordinal. Noon UTC anchoring
// keeps day arithmetic immune to DST shifts in the learner's timezone.
func civilDay(t time.Time) int {
	year, month, day := t.Date()
	return int(time.Date(year, month, day, 12, 0, 0, 0, time.UTC).Unix() / 86400)
}

// dayGap returns the number of calendar days from a to b.
func dayGap(a, b time.Time) int {
	return civilDay(b) - civilDay(a)
}

// RecordActivity implements the Tracker interface.
func (defaultTracker) RecordActivity(
	state *domain.StreakState,
	activityDate time.Time,
) (*domain.StreakState, error) {
	if state == nil {
		return nil, ErrNilState
	}

	next := *state
	next.UpdatedAt = activityDate

	// First ever activity starts the streak.
	if state.LastActivityDate.IsZero() {
		next.CurrentStreak = 1
		next.LastActivityDate = activityDate
		if next.LongestStreak < next.CurrentStreak {
			next.LongestStreak = next.CurrentStreak
		}
		return &next, nil
	}

	gap := dayGap(state.LastActivityDate, activityDate)

	switch {
	case gap < 0:
		// Streak state is never rewound.
		return nil, domain.ErrActivityBeforeLast

	case gap == 0:
		// Already credited for this day.
		return &next, nil

	case gap == 1:
		next.CurrentStreak = state.CurrentStreak + 1
		next.LastActivityDate = activityDate
		if next.LongestStreak < next.CurrentStreak {
			next.LongestStreak = next.CurrentStreak
		}
		return &next, nil

	case gap == 2 && state.FreezesAvailable > 0:
		// Exactly one missed day and a freeze to spend: the miss is
		// forgiven and the streak carries on uncounted for that day.
		next.FreezesAvailable = state.FreezesAvailable - 1
		next.LastActivityDate = activityDate
		return &next, nil

	default:
		// Too many missed days, or one miss with nothing to spend:
		// today's activity starts a new streak.
		next.CurrentStreak = 1
		next.LastActivityDate = activityDate
		return &next, nil
	}
}

// EvaluateAtMidnight implements the Tracker interface.
func (defaultTracker) EvaluateAtMidnight(
	state *domain.StreakState,
	today time.Time,
) (*domain.StreakState, bool) {
	if state == nil || state.CurrentStreak == 0 || state.LastActivityDate.IsZero() {
		return state, false
	}

	gap := dayGap(state.LastActivityDate, today)

	// gap 1 means yesterday was active; gap 2 with a freeze in hand is
	// still recoverable if the learner shows up today.
	recoverable := gap <= 1 || (gap == 2 && state.FreezesAvailable > 0)
	if recoverable {
		return state, false
	}

	next := *state
	next.CurrentStreak = 0
	next.UpdatedAt = today
	return &next, true
}
