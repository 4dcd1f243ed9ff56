// internal/controller/dashboard_controller.go
package controller

import (
	"net/http"

	"github.com/unclebandit/pulsecrm-backend/internal/auth"
	"github.com/unclebandit/pulsecrm-backend/internal/service"
)

type DashboardController struct {
	DashboardService *service.DashboardService
}

func (c *DashboardController) Stats(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.FromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Not authenticated"})
		return
	}

	stats, err := c.DashboardService.Stats(identity.UserID)
	if err != nil {
		writeError(w, err, "Failed to fetch dashboard stats")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
