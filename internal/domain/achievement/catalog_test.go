package achievement

import (
	"errors"
	"testing"

	"github.com/kotoba-app/kotoba-api/internal/domain"
)

func TestLoadCatalogRejectsUnknownStatKey(t *testing.T) {
	t.Parallel()

	_, err := LoadCatalog([]domain.AchievementDefinition{
		{
			Key:       "bad_entry",
			Category:  domain.CategoryReviews,
			Condition: statThreshold(domain.StatKey("reviws_completed"), 10),
			RewardXP:  10,
			Rarity:    domain.RarityCommon,
		},
	})

	if !errors.Is(err, domain.ErrUnknownStatKey) {
		t.Errorf("Expected ErrUnknownStatKey at load time, got %v", err)
	}
}

func TestLoadCatalogRejectsUnknownConditionKind(t *testing.T) {
	t.Parallel()

	_, err := LoadCatalog([]domain.AchievementDefinition{
		{
			Key:       "bad_kind",
			Category:  domain.CategoryReviews,
			Condition: domain.Condition{Kind: domain.ConditionKind("lunar_phase")},
			RewardXP:  10,
			Rarity:    domain.RarityCommon,
		},
	})

	if !errors.Is(err, domain.ErrUnknownConditionKind) {
		t.Errorf("Expected ErrUnknownConditionKind at load time, got %v", err)
	}
}

func TestLoadCatalogRejectsDuplicateKeys(t *testing.T) {
	t.Parallel()

	def := domain.AchievementDefinition{
		Key:       "dup",
		Category:  domain.CategoryReviews,
		Condition: statThreshold(domain.StatReviewsCompleted, 10),
		RewardXP:  10,
		Rarity:    domain.RarityCommon,
	}

	_, err := LoadCatalog([]domain.AchievementDefinition{def, def})
	if !errors.Is(err, ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestLoadCatalogRejectsEmptyCatalog(t *testing.T) {
	t.Parallel()

	_, err := LoadCatalog(nil)
	if !errors.Is(err, ErrEmptyCatalog) {
		t.Errorf("Expected ErrEmptyCatalog, got %v", err)
	}
}

func TestDefaultCatalogLoads(t *testing.T) {
	t.Parallel()

	catalog := DefaultCatalog()

	if catalog.Len() == 0 {
		t.Fatal("Default catalog is empty")
	}

	if _, ok := catalog.Get("streak_7"); !ok {
		t.Error("Expected streak_7 in the default catalog")
	}
}
