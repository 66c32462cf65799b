package achievement

import (
	"github.com/kotoba-app/kotoba-api/internal/domain"
)

// Evaluator matches learner statistics against the catalog and reports
// newly satisfied unlock conditions. Evaluation is stateless and free of
// side effects: it never mutates the stats or the unlocked set, so it is
// safe to re-run on every event. The caller owns the at-most-once unlock
// guarantee at the persistence layer.
type Evaluator struct {
	catalog *Catalog
}

// NewEvaluator creates an evaluator over a loaded catalog.
func NewEvaluator(catalog *Catalog) *Evaluator {
	if catalog == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("catalog cannot be nil for Evaluator")
	}
	return &Evaluator{catalog: catalog}
}

// Evaluate returns the keys of all definitions whose condition now holds
// and which are not in alreadyUnlocked, in catalog order.
func (e *Evaluator) Evaluate(
	stats *domain.LearnerStats,
	alreadyUnlocked map[string]bool,
) []string {
	var newlyUnlocked []string

	for _, def := range e.catalog.Definitions() {
		if alreadyUnlocked[def.Key] {
			continue
		}
		if conditionHolds(def.Condition, stats) {
			newlyUnlocked = append(newlyUnlocked, def.Key)
		}
	}

	return newlyUnlocked
}

// conditionHolds tests a single condition against the stats snapshot.
// The switch is exhaustive over the closed ConditionKind set; catalog
// loading guarantees no other kind reaches evaluation.
func conditionHolds(cond domain.Condition, stats *domain.LearnerStats) bool {
	switch cond.Kind {
	case domain.ConditionStatThreshold:
		value, ok := cond.Stat.StatValue(stats)
		return ok && value >= cond.Threshold

	case domain.ConditionReviewSprint:
		return stats.SprintReviews >= cond.Count &&
			stats.SprintSeconds > 0 &&
			stats.SprintSeconds <= float64(cond.WindowSeconds)

	default:
		return false
	}
}
