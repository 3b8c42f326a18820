package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/cyberpath-academy/learning-engine/pkg/services"
)

// CoursesHandler serves the course catalog.
type CoursesHandler struct {
	catalog services.CatalogService
	logger  *zap.Logger
}

// NewCoursesHandler creates a new CoursesHandler.
func NewCoursesHandler(catalog services.CatalogService, logger *zap.Logger) *CoursesHandler {
	return &CoursesHandler{catalog: catalog, logger: logger}
}

// ListCourses handles GET /api/courses.
func (h *CoursesHandler) ListCourses(w http.ResponseWriter, r *http.Request) {
	courses := h.catalog.Courses(r.Context())

	if err := WriteJSON(w, http.StatusOK, map[string]interface{}{
		"courses": courses,
		"total":   len(courses),
	}); err != nil {
		h.logger.Error("Failed to encode courses response", zap.Error(err))
	}
}

// ReloadCatalog handles POST /api/courses/reload.
// Discards the cached catalog and fetches a fresh copy from the store.
func (h *CoursesHandler) ReloadCatalog(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Reload(r.Context()); err != nil {
		h.logger.Error("Catalog reload failed", zap.Error(err))
		_ = ErrorResponse(w, http.StatusServiceUnavailable, "reload_failed", "Failed to reload course catalog")
		return
	}

	courses := h.catalog.Courses(r.Context())
	if err := WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "reloaded",
		"total":  len(courses),
	}); err != nil {
		h.logger.Error("Failed to encode reload response", zap.Error(err))
	}
}
