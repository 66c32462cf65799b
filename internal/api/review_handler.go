package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/kotoba-app/kotoba-api/internal/api/shared"
	"github.com/kotoba-app/kotoba-api/internal/domain"
	"github.com/kotoba-app/kotoba-api/internal/platform/logger"
	"github.com/kotoba-app/kotoba-api/internal/service/progression"
)

// ReviewHandler handles the learner event endpoints: graded reviews,
// completed lessons and game sessions.
type ReviewHandler struct {
	progressionService progression.ProgressionService
	logger             *slog.Logger
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(
	progressionService progression.ProgressionService,
	logger *slog.Logger,
) *ReviewHandler {
	if progressionService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("progressionService cannot be nil for ReviewHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ReviewHandler")
	}

	return &ReviewHandler{
		progressionService: progressionService,
		logger:             logger.With(slog.String("component", "review_handler")),
	}
}

// SubmitReview handles POST /learners/{id}/reviews requests.
// It grades one item review and returns the consolidated progression outcome.
func (h *ReviewHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	learnerID, ok := learnerIDFromPath(w, r, log)
	if !ok {
		return
	}

	var req SubmitReviewRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID.String()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(&req); err != nil {
		log.Warn("request validation failed",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID.String()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid review submission")
		return
	}

	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid item ID format")
		return
	}

	result, err := h.progressionService.SubmitReview(r.Context(), learnerID, progression.ReviewSubmission{
		ItemID:         itemID,
		ItemKind:       domain.ItemKind(req.ItemKind),
		Quality:        *req.Quality,
		SessionReviews: req.SessionReviews,
		SessionSeconds: req.SessionSeconds,
	})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("review submitted",
		slog.String("learner_id", learnerID.String()),
		slog.String("item_id", itemID.String()),
		slog.Int("quality", *req.Quality),
		slog.Int("xp_awarded", result.XPAwarded))
	shared.RespondWithJSON(w, r, http.StatusOK, resultToResponse(result))
}

// CompleteLesson handles POST /learners/{id}/lessons requests.
func (h *ReviewHandler) CompleteLesson(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	learnerID, ok := learnerIDFromPath(w, r, log)
	if !ok {
		return
	}

	result, err := h.progressionService.CompleteLesson(r.Context(), learnerID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("lesson completed",
		slog.String("learner_id", learnerID.String()),
		slog.Int("xp_awarded", result.XPAwarded))
	shared.RespondWithJSON(w, r, http.StatusOK, resultToResponse(result))
}

// SubmitGameResult handles POST /learners/{id}/games requests.
func (h *ReviewHandler) SubmitGameResult(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	learnerID, ok := learnerIDFromPath(w, r, log)
	if !ok {
		return
	}

	var req GameResultRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID.String()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	result, err := h.progressionService.SubmitGameResult(r.Context(), learnerID, progression.GameResult{
		Perfect: req.Perfect,
	})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("game result submitted",
		slog.String("learner_id", learnerID.String()),
		slog.Bool("perfect", req.Perfect),
		slog.Int("xp_awarded", result.XPAwarded))
	shared.RespondWithJSON(w, r, http.StatusOK, resultToResponse(result))
}

// learnerIDFromPath extracts and parses the learner ID URL parameter,
// responding with an error itself when the ID is missing or malformed.
func learnerIDFromPath(w http.ResponseWriter, r *http.Request, log *slog.Logger) (uuid.UUID, bool) {
	pathID := chi.URLParam(r, "id")
	if pathID == "" {
		log.Warn("learner ID not found in URL path")
		shared.RespondWithError(w, r, http.StatusBadRequest, "Learner ID is required")
		return uuid.Nil, false
	}

	learnerID, err := uuid.Parse(pathID)
	if err != nil {
		log.Warn("invalid learner ID format", slog.String("learner_id", pathID))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid learner ID format")
		return uuid.Nil, false
	}

	return learnerID, true
}
