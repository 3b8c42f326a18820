package handlers

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cyberpath-academy/learning-engine/pkg/models"
	"github.com/cyberpath-academy/learning-engine/pkg/services"
)

// RecommendationsHandler serves personalized course recommendations.
type RecommendationsHandler struct {
	service services.RecommendationService
	logger  *zap.Logger
}

// NewRecommendationsHandler creates a new RecommendationsHandler.
func NewRecommendationsHandler(service services.RecommendationService, logger *zap.Logger) *RecommendationsHandler {
	return &RecommendationsHandler{service: service, logger: logger}
}

// GetRecommendations handles GET /api/users/{uid}/recommendations.
// Query parameters: focus_area (string), include_completed (bool), max (int).
func (h *RecommendationsHandler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.PathValue("uid"))
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "bad_request", "Invalid user id")
		return
	}

	opts := models.RecommendationOptions{
		FocusArea: r.URL.Query().Get("focus_area"),
	}
	if v := r.URL.Query().Get("include_completed"); v != "" {
		opts.IncludeCompleted, _ = strconv.ParseBool(v)
	}
	if v := r.URL.Query().Get("max"); v != "" {
		max, err := strconv.Atoi(v)
		if err != nil || max < 1 {
			_ = ErrorResponse(w, http.StatusBadRequest, "bad_request", "max must be a positive integer")
			return
		}
		opts.MaxRecommendations = max
	}

	response := h.service.GetCourseRecommendations(r.Context(), userID, opts)

	// The pipeline converts its own failures into Success=false; the HTTP
	// status stays 200 because the request itself was well-formed.
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to encode recommendations response", zap.Error(err))
	}
}
