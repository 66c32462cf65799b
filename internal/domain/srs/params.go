package srs

// Params defines all configurable parameters for the SRS algorithm.
type Params struct {
	// PassingQuality is the lowest quality grade that counts as a
	// successful recall. Grades below it are failures.
	PassingQuality int

	// Core ease factor limits
	MinEaseFactor float64
	MaxEaseFactor float64

	// FailureEasePenalty is subtracted from the ease factor on a failed
	// review, floored at MinEaseFactor.
	FailureEasePenalty float64

	// FailureStageStep is how many ladder steps a failed review regresses,
	// never going below the first stage.
	FailureStageStep int

	// BootstrapIntervals are the fixed intervals, in days, for the first
	// successes after a reset. The first entry doubles as the interval an
	// item resets to on failure. Later successes grow multiplicatively
	// by the ease factor.
	BootstrapIntervals []float64

	// MaxIntervalDays caps multiplicative interval growth.
	MaxIntervalDays float64
}

// ParamsConfig allows overriding the default parameters when creating a
// new Params instance. Zero values keep the defaults.
type ParamsConfig struct {
	PassingQuality     int
	MinEaseFactor      float64
	MaxEaseFactor      float64
	FailureEasePenalty float64
	FailureStageStep   int
	BootstrapIntervals []float64
	MaxIntervalDays    float64
}

// NewDefaultParams creates a new Params instance with default values.
//
// The ease ceiling is 3.0 rather than the classic SM-2 2.5 so that a
// learner starting from the default 2.5 still sees the ease factor rise
// on perfect recalls.
func NewDefaultParams() *Params {
	return &Params{
		PassingQuality:     3,
		MinEaseFactor:      1.3,
		MaxEaseFactor:      3.0,
		FailureEasePenalty: 0.20,
		FailureStageStep:   1,
		BootstrapIntervals: []float64{1, 6},
		MaxIntervalDays:    365,
	}
}

// NewParams creates a new Params instance with custom configuration.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.PassingQuality > 0 {
		params.PassingQuality = config.PassingQuality
	}
	if config.MinEaseFactor > 0 {
		params.MinEaseFactor = config.MinEaseFactor
	}
	if config.MaxEaseFactor > 0 {
		params.MaxEaseFactor = config.MaxEaseFactor
	}
	if config.FailureEasePenalty > 0 {
		params.FailureEasePenalty = config.FailureEasePenalty
	}
	if config.FailureStageStep > 0 {
		params.FailureStageStep = config.FailureStageStep
	}
	if len(config.BootstrapIntervals) > 0 {
		params.BootstrapIntervals = config.BootstrapIntervals
	}
	if config.MaxIntervalDays > 0 {
		params.MaxIntervalDays = config.MaxIntervalDays
	}

	return params
}
