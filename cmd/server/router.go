package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/kotoba-app/kotoba-api/internal/api"
	apiMiddleware "github.com/kotoba-app/kotoba-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware. Returns the configured router.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	// Create API handlers using the application's services
	reviewHandler := api.NewReviewHandler(app.progressionService, app.logger)
	progressHandler := api.NewProgressHandler(app.progressionService, app.catalog, app.logger)

	// Register routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/learners/{id}", func(r chi.Router) {
			// Learner event endpoints
			r.Post("/reviews", reviewHandler.SubmitReview)
			r.Post("/lessons", reviewHandler.CompleteLesson)
			r.Post("/games", reviewHandler.SubmitGameResult)

			// Read-only progression endpoints
			r.Get("/progress", progressHandler.GetProgress)
			r.Get("/achievements", progressHandler.GetAchievements)
			r.Get("/queue", progressHandler.GetReviewQueue)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("OK"))
		if err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
