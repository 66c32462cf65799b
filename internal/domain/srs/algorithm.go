package srs

import (
	"time"

	"github.com/kotoba-app/kotoba-api/internal/domain"
)

// successEaseDelta computes the ease factor adjustment for a passing
// review using the SM-2 formula:
//
//	delta = 0.1 - (5-q) * (0.08 + (5-q)*0.02)
//
// The delta is monotonic in quality: a perfect recall (5) adds 0.10, a
// hesitant pass (4) leaves the ease unchanged, and a bare pass (3)
// subtracts 0.14, slowing growth for items the learner struggles with.
func successEaseDelta(quality int) float64 {
	missed := float64(5 - quality)
	return 0.1 - missed*(0.08+missed*0.02)
}

// clampEase keeps the ease factor within the configured limits. These are
// tunable-parameter guards, not caller errors, so values are clamped
// rather than rejected.
func clampEase(ef float64, params *Params) float64 {
	if ef < params.MinEaseFactor {
		return params.MinEaseFactor
	}
	if ef > params.MaxEaseFactor {
		return params.MaxEaseFactor
	}
	return ef
}

// nextEaseFactor determines the new ease factor after a review.
// Failures take a fixed penalty; passes apply the quality-scaled delta.
func nextEaseFactor(currentEF float64, quality int, params *Params) float64 {
	if quality < params.PassingQuality {
		return clampEase(currentEF-params.FailureEasePenalty, params)
	}
	return clampEase(currentEF+successEaseDelta(quality), params)
}

// nextIntervalDays determines the interval until the next review of a
// passing item.
//
// The first successes after a reset use the fixed bootstrap intervals;
// afterwards the interval grows multiplicatively by the new ease factor,
// capped at params.MaxIntervalDays. repetitions is the count of
// consecutive passes including the current one.
func nextIntervalDays(
	currentInterval float64,
	repetitions int,
	easeFactor float64,
	params *Params,
) float64 {
	if repetitions <= len(params.BootstrapIntervals) {
		return params.BootstrapIntervals[repetitions-1]
	}

	interval := currentInterval * easeFactor
	if interval > params.MaxIntervalDays {
		interval = params.MaxIntervalDays
	}
	return interval
}

// regressStage moves the stage down the ladder after a failure, never
// below the first stage.
func regressStage(stage domain.Stage, params *Params) domain.Stage {
	regressed := stage - domain.Stage(params.FailureStageStep)
	if regressed < domain.StageApprenticeI {
		return domain.StageApprenticeI
	}
	return regressed
}

// advanceStage moves the stage one step up the ladder, capped at the
// terminal stage.
func advanceStage(stage domain.Stage) domain.Stage {
	if stage >= domain.StageBurned {
		return domain.StageBurned
	}
	return stage + 1
}

// nextReviewAt converts a fractional day interval into the next due
// timestamp. Fractions are honored, not truncated to whole days.
func nextReviewAt(now time.Time, intervalDays float64) time.Time {
	return now.Add(time.Duration(intervalDays * float64(24*time.Hour)))
}

// transition computes the full next state for one graded review. It is a
// pure function of (prior state, quality, now): identical inputs always
// produce identical outputs, which makes caller-side retries safe.
func transition(
	state *domain.SRSState,
	quality int,
	now time.Time,
	params *Params,
) *domain.SRSState {
	next := *state

	next.ReviewCount++
	next.LastReviewedAt = now
	next.EaseFactor = nextEaseFactor(state.EaseFactor, quality, params)

	if quality < params.PassingQuality {
		// Failure: repetition streak and interval reset, stage regresses.
		next.Repetitions = 0
		next.Stage = regressStage(state.Stage, params)
		next.IntervalDays = params.BootstrapIntervals[0]
	} else {
		next.Repetitions = state.Repetitions + 1
		next.Stage = advanceStage(state.Stage)
		next.IntervalDays = nextIntervalDays(
			state.IntervalDays,
			next.Repetitions,
			next.EaseFactor,
			params,
		)
	}

	next.NextReviewAt = nextReviewAt(now, next.IntervalDays)
	next.UpdatedAt = now

	return &next
}
