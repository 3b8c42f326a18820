package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/cyberpath-academy/learning-engine/pkg/alertlog"
)

// AlertsHandler exposes the index-alert log to operators.
type AlertsHandler struct {
	store  *alertlog.Store
	logger *zap.Logger
}

// NewAlertsHandler creates a new AlertsHandler.
func NewAlertsHandler(store *alertlog.Store, logger *zap.Logger) *AlertsHandler {
	return &AlertsHandler{store: store, logger: logger}
}

// ListAlerts handles GET /api/system/index-alerts.
func (h *AlertsHandler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	alerts := h.store.List()

	if err := WriteJSON(w, http.StatusOK, map[string]interface{}{
		"alerts": alerts,
		"total":  len(alerts),
	}); err != nil {
		h.logger.Error("Failed to encode alerts response", zap.Error(err))
	}
}

// DismissAlert handles DELETE /api/system/index-alerts/{key...}.
// The key is "source|indexLink" and the link portion contains slashes, so
// the route must use a trailing wildcard.
func (h *AlertsHandler) DismissAlert(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if key == "" {
		_ = ErrorResponse(w, http.StatusBadRequest, "bad_request", "Missing alert key")
		return
	}

	if err := h.store.Dismiss(key); err != nil {
		h.logger.Error("Failed to dismiss alert", zap.String("key", key), zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to dismiss alert")
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]string{"status": "dismissed"}); err != nil {
		h.logger.Error("Failed to encode dismiss response", zap.Error(err))
	}
}

// ClearAlerts handles DELETE /api/system/index-alerts.
func (h *AlertsHandler) ClearAlerts(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Clear(); err != nil {
		h.logger.Error("Failed to clear alerts", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to clear alerts")
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]string{"status": "cleared"}); err != nil {
		h.logger.Error("Failed to encode clear response", zap.Error(err))
	}
}
