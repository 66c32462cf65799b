// Package xp converts accumulated experience points into learner levels
// and computes XP awards for learner actions, including streak-bonus
// multipliers.
//
// The level curve is quadratic: reaching level L costs a cumulative
// 100*L*L XP, so level 1 is 100 XP, level 2 is 400 XP and so on.
package xp

import "math"

// xpPerLevelSquared is the quadratic curve coefficient.
const xpPerLevelSquared = 100

// XPForLevel returns the cumulative XP required to reach the given level.
// Level 0 requires 0 XP.
func XPForLevel(level int) int {
	if level <= 0 {
		return 0
	}
	return xpPerLevelSquared * level * level
}

// LevelFor returns the largest level whose cumulative cost does not
// exceed totalXP. Negative XP is treated as zero.
func LevelFor(totalXP int) int {
	if totalXP <= 0 {
		return 0
	}

	// Float sqrt can land one off at exact boundaries, so correct in
	// integer space.
	level := int(math.Sqrt(float64(totalXP) / float64(xpPerLevelSquared)))
	for XPForLevel(level+1) <= totalXP {
		level++
	}
	for level > 0 && XPForLevel(level) > totalXP {
		level--
	}
	return level
}

// Progress describes a learner's position within their current level.
type Progress struct {
	Level       int     `json:"level"`
	XPIntoLevel int     `json:"xp_into_level"`
	XPToNext    int     `json:"xp_to_next"`
	Percent     float64 `json:"percent"` // 0-100
}

// ProgressFor returns the level and progress-to-next-level breakdown for
// a total XP amount.
func ProgressFor(totalXP int) Progress {
	if totalXP < 0 {
		totalXP = 0
	}

	level := LevelFor(totalXP)
	xpInto := totalXP - XPForLevel(level)
	xpToNext := XPForLevel(level+1) - XPForLevel(level)

	percent := 100.0
	if xpToNext > 0 {
		percent = math.Min(100, 100*float64(xpInto)/float64(xpToNext))
	}

	return Progress{
		Level:       level,
		XPIntoLevel: xpInto,
		XPToNext:    xpToNext,
		Percent:     percent,
	}
}

// Action identifies an XP-earning learner action.
type Action string

const (
	ActionLessonCompleted  Action = "lesson_completed"
	ActionReviewCorrect    Action = "review_correct"
	ActionReviewIncorrect  Action = "review_incorrect"
	ActionItemGuru         Action = "item_guru"
	ActionItemMaster       Action = "item_master"
	ActionItemEnlightened  Action = "item_enlightened"
	ActionItemBurned       Action = "item_burned"
	ActionGameCompleted    Action = "game_completed"
	ActionGamePerfectScore Action = "game_perfect_score"
	ActionFirstReviewOfDay Action = "first_review_of_day"
	ActionStreakDay        Action = "streak_day"
)

// streakEligible marks the actions whose award is scaled by the streak
// multiplier. Mastery-tier promotions are one-off milestones and are
// paid at face value.
var streakEligible = map[Action]bool{
	ActionLessonCompleted:  true,
	ActionReviewCorrect:    true,
	ActionReviewIncorrect:  true,
	ActionGameCompleted:    true,
	ActionGamePerfectScore: true,
}

// Ledger computes XP awards from a fixed per-action table and the
// streak-bonus multiplier settings.
type Ledger struct {
	awards          map[Action]int
	bonusRatePerDay float64
	capMultiplier   float64
}

// Config allows overriding the default ledger settings.
// Zero values keep the defaults.
type Config struct {
	Awards          map[Action]int
	BonusRatePerDay float64
	CapMultiplier   float64
}

// NewDefaultLedger creates a ledger with the default award table:
// a 2% bonus per streak day capped at double XP.
func NewDefaultLedger() *Ledger {
	return &Ledger{
		awards: map[Action]int{
			ActionLessonCompleted:  20,
			ActionReviewCorrect:    10,
			ActionReviewIncorrect:  2,
			ActionItemGuru:         25,
			ActionItemMaster:       50,
			ActionItemEnlightened:  75,
			ActionItemBurned:       100,
			ActionGameCompleted:    15,
			ActionGamePerfectScore: 30,
			ActionFirstReviewOfDay: 10,
			ActionStreakDay:        5,
		},
		bonusRatePerDay: 0.02,
		capMultiplier:   2.0,
	}
}

// NewLedger creates a ledger with custom configuration.
func NewLedger(config Config) *Ledger {
	ledger := NewDefaultLedger()

	for action, award := range config.Awards {
		ledger.awards[action] = award
	}
	if config.BonusRatePerDay > 0 {
		ledger.bonusRatePerDay = config.BonusRatePerDay
	}
	if config.CapMultiplier > 0 {
		ledger.capMultiplier = config.CapMultiplier
	}

	return ledger
}

// BaseAward returns the unscaled XP award for an action.
// Unknown actions award nothing.
func (l *Ledger) BaseAward(action Action) int {
	return l.awards[action]
}

// StreakMultiplier returns the XP multiplier for a streak length:
// min(1 + days*rate, cap). A zero or negative streak yields exactly 1;
// the bonus never reduces an award below its base value.
func (l *Ledger) StreakMultiplier(streakDays int) float64 {
	if streakDays <= 0 {
		return 1.0
	}
	return math.Min(1.0+float64(streakDays)*l.bonusRatePerDay, l.capMultiplier)
}

// AwardFor returns the XP delta for an action performed with the given
// active streak. Streak-eligible actions are scaled by the multiplier
// and rounded down; milestone actions ignore the streak.
func (l *Ledger) AwardFor(action Action, streakDays int) int {
	base := l.BaseAward(action)
	if !streakEligible[action] {
		return base
	}
	return int(float64(base) * l.StreakMultiplier(streakDays))
}
