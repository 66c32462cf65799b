package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/kotoba-app/kotoba-api/internal/service/progression"
)

// sweepTimeout bounds one full pass over all active streaks.
const sweepTimeout = 10 * time.Minute

// streakSweeper runs the nightly midnight sweep that breaks streaks for
// learners who were inactive the previous day.
type streakSweeper struct {
	scheduler          *gocron.Scheduler
	progressionService progression.ProgressionService
	logger             *slog.Logger
}

// newStreakSweeper schedules the sweep daily at the given UTC hour.
func newStreakSweeper(
	progressionService progression.ProgressionService,
	sweepHour int,
	logger *slog.Logger,
) (*streakSweeper, error) {
	if sweepHour < 0 || sweepHour > 23 {
		return nil, fmt.Errorf("sweep hour must be between 0 and 23, got %d", sweepHour)
	}

	s := &streakSweeper{
		scheduler:          gocron.NewScheduler(time.UTC),
		progressionService: progressionService,
		logger:             logger.With(slog.String("component", "streak_sweeper")),
	}

	at := fmt.Sprintf("%02d:00", sweepHour)
	if _, err := s.scheduler.Every(1).Day().At(at).Do(s.run); err != nil {
		return nil, fmt.Errorf("failed to schedule streak sweep: %w", err)
	}

	return s, nil
}

// Start begins running the scheduled sweep in the background.
func (s *streakSweeper) Start() {
	s.scheduler.StartAsync()
	s.logger.Info("streak sweep scheduled")
}

// Stop terminates the scheduler and waits for a running sweep to finish.
func (s *streakSweeper) Stop() {
	s.scheduler.Stop()
}

func (s *streakSweeper) run() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	start := time.Now().UTC()
	broken, err := s.progressionService.RunMidnightSweep(ctx, start)
	if err != nil {
		s.logger.Error("streak sweep finished with errors",
			slog.String("error", err.Error()),
			slog.Int("streaks_broken", broken))
		return
	}

	s.logger.Info("streak sweep completed",
		slog.Int("streaks_broken", broken),
		slog.Duration("elapsed", time.Since(start)))
}
