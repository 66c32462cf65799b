// Package achievement evaluates a static catalog of unlock conditions
// against learner statistics snapshots.
package achievement

import (
	"errors"
	"fmt"

	"github.com/kotoba-app/kotoba-api/internal/domain"
)

// Common errors
var (
	ErrDuplicateKey = errors.New("duplicate achievement key in catalog")
	ErrEmptyCatalog = errors.New("achievement catalog cannot be empty")
)

// Catalog is the immutable set of achievement definitions, validated
// once at load time. A malformed entry fails the load before any
// learner event is processed.
type Catalog struct {
	defs  []domain.AchievementDefinition
	byKey map[string]domain.AchievementDefinition
}

// LoadCatalog validates definitions and builds the catalog.
func LoadCatalog(defs []domain.AchievementDefinition) (*Catalog, error) {
	if len(defs) == 0 {
		return nil, ErrEmptyCatalog
	}

	byKey := make(map[string]domain.AchievementDefinition, len(defs))
	for _, def := range defs {
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("invalid achievement catalog: %w", err)
		}
		if _, exists := byKey[def.Key]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateKey, def.Key)
		}
		byKey[def.Key] = def
	}

	return &Catalog{
		defs:  append([]domain.AchievementDefinition(nil), defs...),
		byKey: byKey,
	}, nil
}

// Definitions returns the catalog entries in load order.
func (c *Catalog) Definitions() []domain.AchievementDefinition {
	return c.defs
}

// Get returns the definition for a key, if present.
func (c *Catalog) Get(key string) (domain.AchievementDefinition, bool) {
	def, ok := c.byKey[key]
	return def, ok
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int {
	return len(c.defs)
}

// statThreshold is shorthand for the common threshold condition.
func statThreshold(stat domain.StatKey, threshold int) domain.Condition {
	return domain.Condition{
		Kind:      domain.ConditionStatThreshold,
		Stat:      stat,
		Threshold: threshold,
	}
}

// DefaultDefinitions returns the built-in achievement catalog.
func DefaultDefinitions() []domain.AchievementDefinition {
	return []domain.AchievementDefinition{
		{
			Key:         "streak_3",
			Name:        "Getting Started",
			Description: "Keep a 3-day study streak",
			Category:    domain.CategoryStreaks,
			Condition:   statThreshold(domain.StatCurrentStreak, 3),
			RewardXP:    30,
			Rarity:      domain.RarityCommon,
		},
		{
			Key:         "streak_7",
			Name:        "Week Warrior",
			Description: "Keep a 7-day study streak",
			Category:    domain.CategoryStreaks,
			Condition:   statThreshold(domain.StatCurrentStreak, 7),
			RewardXP:    70,
			Rarity:      domain.RarityCommon,
		},
		{
			Key:         "streak_30",
			Name:        "Monthly Devotion",
			Description: "Keep a 30-day study streak",
			Category:    domain.CategoryStreaks,
			Condition:   statThreshold(domain.StatCurrentStreak, 30),
			RewardXP:    300,
			Rarity:      domain.RarityRare,
		},
		{
			Key:         "streak_100",
			Name:        "Centurion",
			Description: "Keep a 100-day study streak",
			Category:    domain.CategoryStreaks,
			Condition:   statThreshold(domain.StatLongestStreak, 100),
			RewardXP:    1000,
			Rarity:      domain.RarityLegendary,
		},
		{
			Key:         "reviews_100",
			Name:        "Century",
			Description: "Complete 100 reviews",
			Category:    domain.CategoryReviews,
			Condition:   statThreshold(domain.StatReviewsCompleted, 100),
			RewardXP:    100,
			Rarity:      domain.RarityCommon,
		},
		{
			Key:         "reviews_1000",
			Name:        "Scholar",
			Description: "Complete 1,000 reviews",
			Category:    domain.CategoryReviews,
			Condition:   statThreshold(domain.StatReviewsCompleted, 1000),
			RewardXP:    500,
			Rarity:      domain.RarityUncommon,
		},
		{
			Key:         "perfect_50",
			Name:        "Sharp Memory",
			Description: "Score 50 perfect recalls",
			Category:    domain.CategoryReviews,
			Condition:   statThreshold(domain.StatPerfectReviews, 50),
			RewardXP:    150,
			Rarity:      domain.RarityUncommon,
		},
		{
			Key:         "review_sprint_20",
			Name:        "Lightning Round",
			Description: "Complete 20 reviews within 60 seconds",
			Category:    domain.CategoryDedication,
			Condition: domain.Condition{
				Kind:          domain.ConditionReviewSprint,
				Count:         20,
				WindowSeconds: 60,
			},
			RewardXP: 200,
			Rarity:   domain.RarityRare,
		},
		{
			Key:         "learned_10",
			Name:        "First Steps",
			Description: "Bring 10 items to Guru",
			Category:    domain.CategoryMastery,
			Condition:   statThreshold(domain.StatItemsLearned, 10),
			RewardXP:    50,
			Rarity:      domain.RarityCommon,
		},
		{
			Key:         "learned_500",
			Name:        "Walking Dictionary",
			Description: "Bring 500 items to Guru",
			Category:    domain.CategoryMastery,
			Condition:   statThreshold(domain.StatItemsLearned, 500),
			RewardXP:    750,
			Rarity:      domain.RarityRare,
		},
		{
			Key:         "burned_1",
			Name:        "Eternal Flame",
			Description: "Burn your first item",
			Category:    domain.CategoryMastery,
			Condition:   statThreshold(domain.StatItemsBurned, 1),
			RewardXP:    100,
			Rarity:      domain.RarityUncommon,
		},
		{
			Key:         "burned_100",
			Name:        "Ash Garden",
			Description: "Burn 100 items",
			Category:    domain.CategoryMastery,
			Condition:   statThreshold(domain.StatItemsBurned, 100),
			RewardXP:    1000,
			Rarity:      domain.RarityLegendary,
		},
		{
			Key:         "kanji_100",
			Name:        "Character Builder",
			Description: "Master 100 kanji",
			Category:    domain.CategoryMastery,
			Condition:   statThreshold(domain.StatKanjiMastered, 100),
			RewardXP:    300,
			Rarity:      domain.RarityUncommon,
		},
		{
			Key:         "level_10",
			Name:        "Double Digits",
			Description: "Reach level 10",
			Category:    domain.CategoryLevels,
			Condition:   statThreshold(domain.StatCurrentLevel, 10),
			RewardXP:    200,
			Rarity:      domain.RarityUncommon,
		},
		{
			Key:         "level_25",
			Name:        "Quarter Century",
			Description: "Reach level 25",
			Category:    domain.CategoryLevels,
			Condition:   statThreshold(domain.StatCurrentLevel, 25),
			RewardXP:    500,
			Rarity:      domain.RarityRare,
		},
		{
			Key:         "games_10",
			Name:        "Player",
			Description: "Finish 10 practice games",
			Category:    domain.CategoryGames,
			Condition:   statThreshold(domain.StatGamesPlayed, 10),
			RewardXP:    50,
			Rarity:      domain.RarityCommon,
		},
		{
			Key:         "perfect_games_5",
			Name:        "Flawless Five",
			Description: "Finish 5 games with a perfect score",
			Category:    domain.CategoryGames,
			Condition:   statThreshold(domain.StatPerfectGames, 5),
			RewardXP:    150,
			Rarity:      domain.RarityUncommon,
		},
	}
}

// DefaultCatalog loads the built-in catalog. It panics on error because
// the built-in definitions are fixed at compile time; a failure here is
// a programming bug, not a runtime condition.
func DefaultCatalog() *Catalog {
	catalog, err := LoadCatalog(DefaultDefinitions())
	if err != nil {
		panic(fmt.Sprintf("default achievement catalog is invalid: %v", err))
	}
	return catalog
}
