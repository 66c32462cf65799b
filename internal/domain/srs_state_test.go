package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewSRSState(t *testing.T) {
	t.Parallel()

	learnerID := uuid.New()
	itemID := uuid.New()
	now := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

	state, err := NewSRSState(learnerID, itemID, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if state.Stage != StageApprenticeI {
		t.Errorf("expected new items to start at apprentice_1, got %v", state.Stage)
	}
	if state.EaseFactor != 2.5 {
		t.Errorf("expected default ease factor 2.5, got %v", state.EaseFactor)
	}
	if !state.NextReviewAt.Equal(now) {
		t.Errorf("expected new items to be due immediately, got %v", state.NextReviewAt)
	}
	if !state.LastReviewedAt.IsZero() {
		t.Errorf("expected zero last reviewed time, got %v", state.LastReviewedAt)
	}
	if state.IsRetired() {
		t.Error("new state must not be retired")
	}
}

func TestSRSStateValidate(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	valid := func() *SRSState {
		state, err := NewSRSState(uuid.New(), uuid.New(), now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return state
	}

	testCases := []struct {
		name        string
		mutate      func(*SRSState)
		expectedErr error
	}{
		{
			name:        "valid state",
			mutate:      func(*SRSState) {},
			expectedErr: nil,
		},
		{
			name:        "missing learner ID",
			mutate:      func(s *SRSState) { s.LearnerID = uuid.Nil },
			expectedErr: ErrEmptyStateLearnerID,
		},
		{
			name:        "missing item ID",
			mutate:      func(s *SRSState) { s.ItemID = uuid.Nil },
			expectedErr: ErrEmptyStateItemID,
		},
		{
			name:        "stage above ladder",
			mutate:      func(s *SRSState) { s.Stage = StageBurned + 1 },
			expectedErr: ErrInvalidStage,
		},
		{
			name:        "negative interval",
			mutate:      func(s *SRSState) { s.IntervalDays = -1 },
			expectedErr: ErrInvalidInterval,
		},
		{
			name:        "ease factor below floor",
			mutate:      func(s *SRSState) { s.EaseFactor = 1.2 },
			expectedErr: ErrInvalidEaseFactor,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			state := valid()
			tc.mutate(state)

			err := state.Validate()
			if !errors.Is(err, tc.expectedErr) {
				t.Errorf("expected error %v, got %v", tc.expectedErr, err)
			}
		})
	}
}

func TestSRSStateIsRetired(t *testing.T) {
	t.Parallel()

	state, err := NewSRSState(uuid.New(), uuid.New(), time.Now().UTC())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	state.Stage = StageEnlightened
	if state.IsRetired() {
		t.Error("enlightened items are still reviewable")
	}

	state.Stage = StageBurned
	if !state.IsRetired() {
		t.Error("burned items must be retired")
	}
}

func TestStageProperties(t *testing.T) {
	t.Parallel()

	if StageGuruI.String() != "guru_1" {
		t.Errorf("unexpected stage name: %s", StageGuruI.String())
	}
	if Stage(42).String() != "unknown" {
		t.Errorf("out-of-range stage should stringify as unknown, got %s", Stage(42).String())
	}

	if Stage(-1).IsValid() || Stage(9).IsValid() {
		t.Error("stages outside the ladder must be invalid")
	}

	if StageApprenticeIV.IsLearned() {
		t.Error("apprentice_4 is below the learned threshold")
	}
	if !StageGuruI.IsLearned() {
		t.Error("guru_1 meets the learned threshold")
	}
	if !StageBurned.IsLearned() {
		t.Error("burned items remain learned")
	}
}
