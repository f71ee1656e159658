package http

import (
	"log/slog"
	"net/http"

	"pulseboard/internal/dashboard"
)

// DashboardHandler serves the analytics snapshot for the dashboard page.
type DashboardHandler struct {
	service *dashboard.Service
	logger  *slog.Logger
}

// NewDashboardHandler creates a handler.
func NewDashboardHandler(service *dashboard.Service, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{service: service, logger: logger}
}

// Snapshot returns the dashboard payload for the caller.
func (h *DashboardHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	snapshot, err := h.service.Snapshot(r.Context(), user.Email)
	if err != nil {
		h.logger.Error("dashboard snapshot", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to build dashboard")
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}
