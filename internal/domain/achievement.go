package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Achievement validation errors, surfaced at catalog load time so a
// malformed entry fails fast before any learner event is processed.
var (
	ErrEmptyAchievementKey  = errors.New("achievement key cannot be empty")
	ErrUnknownConditionKind = errors.New("unknown achievement condition kind")
	ErrUnknownStatKey       = errors.New("unknown stat key in achievement condition")
	ErrInvalidThreshold     = errors.New("achievement threshold must be positive")
)

// AchievementCategory groups achievements for display.
type AchievementCategory string

const (
	CategoryStreaks    AchievementCategory = "streaks"
	CategoryReviews    AchievementCategory = "reviews"
	CategoryMastery    AchievementCategory = "mastery"
	CategoryGames      AchievementCategory = "games"
	CategoryLevels     AchievementCategory = "levels"
	CategoryDedication AchievementCategory = "dedication"
)

// Rarity is the display tier of an achievement.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityLegendary Rarity = "legendary"
)

// StatKey names a LearnerStats counter that a threshold condition can
// test. The set is closed; catalog loading rejects unknown keys.
type StatKey string

const (
	StatTotalXP          StatKey = "total_xp"
	StatCurrentLevel     StatKey = "current_level"
	StatCurrentStreak    StatKey = "current_streak"
	StatLongestStreak    StatKey = "longest_streak"
	StatReviewsCompleted StatKey = "reviews_completed"
	StatPerfectReviews   StatKey = "perfect_reviews"
	StatLessonsCompleted StatKey = "lessons_completed"
	StatItemsLearned     StatKey = "items_learned"
	StatItemsBurned      StatKey = "items_burned"
	StatKanjiMastered    StatKey = "kanji_mastered"
	StatVocabMastered    StatKey = "vocab_mastered"
	StatGamesPlayed      StatKey = "games_played"
	StatPerfectGames     StatKey = "perfect_games"
)

// StatValue resolves the key against a stats snapshot.
// The second return value is false for keys outside the closed set.
func (k StatKey) StatValue(stats *LearnerStats) (int, bool) {
	switch k {
	case StatTotalXP:
		return stats.TotalXP, true
	case StatCurrentLevel:
		return stats.CurrentLevel, true
	case StatCurrentStreak:
		return stats.CurrentStreak, true
	case StatLongestStreak:
		return stats.LongestStreak, true
	case StatReviewsCompleted:
		return stats.ReviewsCompleted, true
	case StatPerfectReviews:
		return stats.PerfectReviews, true
	case StatLessonsCompleted:
		return stats.LessonsCompleted, true
	case StatItemsLearned:
		return stats.ItemsLearned, true
	case StatItemsBurned:
		return stats.ItemsBurned, true
	case StatKanjiMastered:
		return stats.KanjiMastered, true
	case StatVocabMastered:
		return stats.VocabMastered, true
	case StatGamesPlayed:
		return stats.GamesPlayed, true
	case StatPerfectGames:
		return stats.PerfectGames, true
	default:
		return 0, false
	}
}

// ConditionKind discriminates the closed set of condition variants.
type ConditionKind string

const (
	// ConditionStatThreshold holds when a named stat counter reaches a
	// threshold: stats[Stat] >= Threshold.
	ConditionStatThreshold ConditionKind = "stat_threshold"

	// ConditionReviewSprint holds when the learner has completed at least
	// Count reviews within WindowSeconds in a single session.
	ConditionReviewSprint ConditionKind = "review_sprint"
)

// Condition is a tagged union over ConditionKind. Exactly the fields for
// the active kind are meaningful; the evaluator switches exhaustively on
// Kind so adding a variant is a single-site, compile-checked change.
type Condition struct {
	Kind ConditionKind `json:"kind"`

	// stat_threshold fields
	Stat      StatKey `json:"stat,omitempty"`
	Threshold int     `json:"threshold,omitempty"`

	// review_sprint fields
	Count         int `json:"count,omitempty"`
	WindowSeconds int `json:"window_seconds,omitempty"`
}

// Validate checks the condition for structural errors. Called once at
// catalog load, never during evaluation.
func (c Condition) Validate() error {
	switch c.Kind {
	case ConditionStatThreshold:
		if _, ok := c.Stat.StatValue(&LearnerStats{}); !ok {
			return fmt.Errorf("%w: %q", ErrUnknownStatKey, c.Stat)
		}
		if c.Threshold <= 0 {
			return ErrInvalidThreshold
		}
		return nil
	case ConditionReviewSprint:
		if c.Count <= 0 || c.WindowSeconds <= 0 {
			return ErrInvalidThreshold
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownConditionKind, c.Kind)
	}
}

// AchievementDefinition is one static catalog entry. Definitions are
// loaded once at startup and immutable afterwards.
type AchievementDefinition struct {
	Key         string              `json:"key"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Category    AchievementCategory `json:"category"`
	Condition   Condition           `json:"condition"`
	RewardXP    int                 `json:"reward_xp"`
	Rarity      Rarity              `json:"rarity"`
}

// Validate checks the definition for catalog-load errors.
func (d AchievementDefinition) Validate() error {
	if d.Key == "" {
		return ErrEmptyAchievementKey
	}

	if err := d.Condition.Validate(); err != nil {
		return fmt.Errorf("achievement %q: %w", d.Key, err)
	}

	return nil
}

// UnlockedAchievement records that a learner unlocked an achievement.
// At most one record exists per (learner, key) pair; unlocking an
// already-unlocked key is a no-op at the persistence layer.
type UnlockedAchievement struct {
	LearnerID  uuid.UUID `json:"learner_id"`
	Key        string    `json:"key"`
	UnlockedAt time.Time `json:"unlocked_at"`
}
