package srs

import "testing"

func TestNewDefaultParams(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	if params.PassingQuality != 3 {
		t.Errorf("Expected passing quality 3, got %d", params.PassingQuality)
	}
	if params.MinEaseFactor != 1.3 {
		t.Errorf("Expected min ease factor 1.3, got %f", params.MinEaseFactor)
	}
	if params.MaxEaseFactor <= 2.5 {
		t.Errorf("Expected max ease factor above the 2.5 starting point, got %f", params.MaxEaseFactor)
	}
	if len(params.BootstrapIntervals) != 2 {
		t.Errorf("Expected 2 bootstrap intervals, got %d", len(params.BootstrapIntervals))
	}
}

func TestNewParamsOverrides(t *testing.T) {
	t.Parallel()

	params := NewParams(ParamsConfig{
		PassingQuality:     4,
		MaxEaseFactor:      2.8,
		BootstrapIntervals: []float64{0.5, 3},
	})

	if params.PassingQuality != 4 {
		t.Errorf("Expected overridden passing quality 4, got %d", params.PassingQuality)
	}
	if params.MaxEaseFactor != 2.8 {
		t.Errorf("Expected overridden max ease factor 2.8, got %f", params.MaxEaseFactor)
	}
	if params.BootstrapIntervals[0] != 0.5 {
		t.Errorf("Expected overridden bootstrap interval 0.5, got %f", params.BootstrapIntervals[0])
	}

	// Unset fields keep their defaults.
	if params.MinEaseFactor != 1.3 {
		t.Errorf("Expected default min ease factor 1.3, got %f", params.MinEaseFactor)
	}
	if params.FailureStageStep != 1 {
		t.Errorf("Expected default failure stage step 1, got %d", params.FailureStageStep)
	}
}
