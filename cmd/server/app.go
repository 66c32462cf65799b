package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/kotoba-app/kotoba-api/internal/config"
	"github.com/kotoba-app/kotoba-api/internal/domain/achievement"
	engine "github.com/kotoba-app/kotoba-api/internal/domain/progression"
	"github.com/kotoba-app/kotoba-api/internal/domain/srs"
	"github.com/kotoba-app/kotoba-api/internal/domain/streak"
	"github.com/kotoba-app/kotoba-api/internal/domain/xp"
	"github.com/kotoba-app/kotoba-api/internal/platform/postgres"
	"github.com/kotoba-app/kotoba-api/internal/service/progression"
	"github.com/kotoba-app/kotoba-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	srsStore         store.SRSStateStore
	statsStore       store.LearnerStatsStore
	streakStore      store.StreakStore
	achievementStore store.AchievementStore

	// Domain and service layer
	catalog            *achievement.Catalog
	progressionService progression.ProgressionService

	// Background jobs
	sweeper *streakSweeper
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger and
// database connection that must be established before initialization.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	// Initialize stores
	app.srsStore = postgres.NewPostgresSRSStateStore(db, logger)
	app.statsStore = postgres.NewPostgresLearnerStatsStore(db, logger)
	app.streakStore = postgres.NewPostgresStreakStore(db, logger)
	app.achievementStore = postgres.NewPostgresAchievementStore(db, logger)

	// Build the progression engine from its domain components, applying
	// the configured tunables over the package defaults.
	params := srs.NewDefaultParams()
	params.PassingQuality = cfg.Progression.PassingQuality
	params.MinEaseFactor = cfg.Progression.MinEaseFactor
	params.MaxEaseFactor = cfg.Progression.MaxEaseFactor
	params.MaxIntervalDays = cfg.Progression.MaxIntervalDays

	ledger := xp.NewLedger(xp.Config{
		BonusRatePerDay: cfg.Progression.StreakBonusRate,
		CapMultiplier:   cfg.Progression.StreakBonusCap,
	})

	app.catalog = achievement.DefaultCatalog()
	tracker := streak.NewTracker()
	eng := engine.NewEngine(
		srs.NewSchedulerWithParams(params),
		ledger,
		tracker,
		app.catalog,
	)

	app.progressionService = progression.NewProgressionService(
		db,
		app.srsStore,
		app.statsStore,
		app.streakStore,
		app.achievementStore,
		eng,
		tracker,
		progression.NewSystemClock(),
		cfg.Progression.QueueLimit,
		logger,
	)

	// Nightly streak sweep
	sweeper, err := newStreakSweeper(
		app.progressionService,
		cfg.Progression.StreakSweepHour,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to set up streak sweeper: %w", err)
	}
	app.sweeper = sweeper

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the background jobs and the HTTP server, handling lifecycle
// and cleanup. It blocks until shutdown completes.
func (app *application) Run(ctx context.Context) error {
	app.sweeper.Start()

	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.sweeper != nil {
		app.sweeper.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
