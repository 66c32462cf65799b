package api

import (
	"log/slog"
	"net/http"

	"github.com/kotoba-app/kotoba-api/internal/api/shared"
	"github.com/kotoba-app/kotoba-api/internal/domain/achievement"
	"github.com/kotoba-app/kotoba-api/internal/platform/logger"
	"github.com/kotoba-app/kotoba-api/internal/service/progression"
)

// ProgressHandler handles the read-only progression endpoints: progress
// summary, unlocked achievements and the due review queue.
type ProgressHandler struct {
	progressionService progression.ProgressionService
	catalog            *achievement.Catalog
	logger             *slog.Logger
}

// NewProgressHandler creates a new ProgressHandler.
func NewProgressHandler(
	progressionService progression.ProgressionService,
	catalog *achievement.Catalog,
	logger *slog.Logger,
) *ProgressHandler {
	if progressionService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("progressionService cannot be nil for ProgressHandler")
	}
	if catalog == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("catalog cannot be nil for ProgressHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ProgressHandler")
	}

	return &ProgressHandler{
		progressionService: progressionService,
		catalog:            catalog,
		logger:             logger.With(slog.String("component", "progress_handler")),
	}
}

// GetProgress handles GET /learners/{id}/progress requests.
func (h *ProgressHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	learnerID, ok := learnerIDFromPath(w, r, log)
	if !ok {
		return
	}

	summary, err := h.progressionService.GetProgress(r.Context(), learnerID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, summaryToResponse(summary))
}

// GetAchievements handles GET /learners/{id}/achievements requests.
// Unlock records are joined with the in-memory catalog; records whose key
// has left the catalog are served with the key alone rather than dropped.
func (h *ProgressHandler) GetAchievements(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	learnerID, ok := learnerIDFromPath(w, r, log)
	if !ok {
		return
	}

	unlocks, err := h.progressionService.GetAchievements(r.Context(), learnerID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	responses := make([]AchievementResponse, 0, len(unlocks))
	for _, unlock := range unlocks {
		resp := AchievementResponse{
			Key:        unlock.Key,
			UnlockedAt: unlock.UnlockedAt,
		}
		if def, ok := h.catalog.Get(unlock.Key); ok {
			resp.Name = def.Name
			resp.Description = def.Description
			resp.Category = string(def.Category)
			resp.Rarity = string(def.Rarity)
			resp.RewardXP = def.RewardXP
		}
		responses = append(responses, resp)
	}

	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// GetReviewQueue handles GET /learners/{id}/queue requests.
func (h *ProgressHandler) GetReviewQueue(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	learnerID, ok := learnerIDFromPath(w, r, log)
	if !ok {
		return
	}

	due, err := h.progressionService.GetReviewQueue(r.Context(), learnerID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	items := make([]SRSStateResponse, 0, len(due))
	for _, state := range due {
		items = append(items, *srsStateToResponse(state))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, QueueResponse{
		Items: items,
		Count: len(items),
	})
}
