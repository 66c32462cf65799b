package xp

import (
	"math"
	"testing"
)

func TestLevelForIsMonotonic(t *testing.T) {
	t.Parallel()

	for totalXP := 0; totalXP < 50_000; totalXP++ {
		if LevelFor(totalXP) > LevelFor(totalXP+1) {
			t.Fatalf("LevelFor is not monotonic at totalXP=%d", totalXP)
		}
	}
}

func TestLevelInverseLaw(t *testing.T) {
	t.Parallel()

	for level := 0; level <= 50; level++ {
		if got := LevelFor(XPForLevel(level)); got != level {
			t.Errorf("LevelFor(XPForLevel(%d)) = %d, want %d", level, got, level)
		}
		if level >= 1 {
			if got := LevelFor(XPForLevel(level) - 1); got != level-1 {
				t.Errorf("LevelFor(XPForLevel(%d)-1) = %d, want %d", level, got, level-1)
			}
		}
	}
}

func TestLevelForNegativeXP(t *testing.T) {
	t.Parallel()

	if got := LevelFor(-10); got != 0 {
		t.Errorf("Expected level 0 for negative XP, got %d", got)
	}
}

func TestProgressFor(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		totalXP     int
		level       int
		xpIntoLevel int
		xpToNext    int
		percent     float64
	}{
		{
			name:        "fresh learner",
			totalXP:     0,
			level:       0,
			xpIntoLevel: 0,
			xpToNext:    100,
			percent:     0,
		},
		{
			name:        "mid level one",
			totalXP:     350,
			level:       1,
			xpIntoLevel: 250,
			xpToNext:    300,
			percent:     250.0 / 300.0 * 100,
		},
		{
			name:        "exact level boundary",
			totalXP:     400,
			level:       2,
			xpIntoLevel: 0,
			xpToNext:    500,
			percent:     0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			progress := ProgressFor(tc.totalXP)

			if progress.Level != tc.level {
				t.Errorf("Expected level %d, got %d", tc.level, progress.Level)
			}
			if progress.XPIntoLevel != tc.xpIntoLevel {
				t.Errorf("Expected %d XP into level, got %d", tc.xpIntoLevel, progress.XPIntoLevel)
			}
			if progress.XPToNext != tc.xpToNext {
				t.Errorf("Expected %d XP to next level, got %d", tc.xpToNext, progress.XPToNext)
			}
			if math.Abs(progress.Percent-tc.percent) > 0.01 {
				t.Errorf("Expected percent %f, got %f", tc.percent, progress.Percent)
			}
		})
	}
}

func TestStreakMultiplier(t *testing.T) {
	t.Parallel()
	ledger := NewDefaultLedger()

	testCases := []struct {
		name       string
		streakDays int
		expected   float64
	}{
		{
			name:       "no streak yields exactly one",
			streakDays: 0,
			expected:   1.0,
		},
		{
			name:       "negative streak never reduces below baseline",
			streakDays: -5,
			expected:   1.0,
		},
		{
			name:       "short streak earns a small bonus",
			streakDays: 10,
			expected:   1.2,
		},
		{
			name:       "long streak is capped, not unbounded",
			streakDays: 1000,
			expected:   2.0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			multiplier := ledger.StreakMultiplier(tc.streakDays)
			if math.Abs(multiplier-tc.expected) > 1e-9 {
				t.Errorf("Expected multiplier %f, got %f", tc.expected, multiplier)
			}
		})
	}
}

func TestAwardFor(t *testing.T) {
	t.Parallel()
	ledger := NewDefaultLedger()

	// Streak-eligible awards are scaled by the multiplier.
	if got := ledger.AwardFor(ActionReviewCorrect, 0); got != 10 {
		t.Errorf("Expected base award 10 with no streak, got %d", got)
	}
	if got := ledger.AwardFor(ActionReviewCorrect, 50); got != 20 {
		t.Errorf("Expected capped double award 20, got %d", got)
	}

	// Milestone awards ignore the streak.
	if got := ledger.AwardFor(ActionItemBurned, 50); got != 100 {
		t.Errorf("Expected burn milestone award 100 regardless of streak, got %d", got)
	}

	// Unknown actions award nothing.
	if got := ledger.AwardFor(Action("unknown"), 3); got != 0 {
		t.Errorf("Expected 0 for unknown action, got %d", got)
	}
}

func TestNewLedgerOverrides(t *testing.T) {
	t.Parallel()

	ledger := NewLedger(Config{
		Awards:          map[Action]int{ActionReviewCorrect: 12},
		BonusRatePerDay: 0.05,
		CapMultiplier:   1.5,
	})

	if got := ledger.BaseAward(ActionReviewCorrect); got != 12 {
		t.Errorf("Expected overridden award 12, got %d", got)
	}
	if got := ledger.BaseAward(ActionLessonCompleted); got != 20 {
		t.Errorf("Expected default lesson award 20, got %d", got)
	}
	if got := ledger.StreakMultiplier(100); got != 1.5 {
		t.Errorf("Expected overridden cap 1.5, got %f", got)
	}
}
