package handlers

import (
	"net/http"

	"github.com/yahyahoussini/client-harmony-hub/internal/coordinator"
	"github.com/yahyahoussini/client-harmony-hub/internal/httpx"
)

// DashboardHandler serves the landing-page summary.
type DashboardHandler struct {
	Coord *coordinator.Coordinator
}

func NewDashboardHandler(coord *coordinator.Coordinator) *DashboardHandler {
	return &DashboardHandler{Coord: coord}
}

// Stats: GET /dashboard/stats
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	s, err := h.Coord.Dashboard(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_stats", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, s)
}
