package handler

import (
	"net/http"

	"github.com/dmaia/fleetdesk/backend/internal/domain"
)

// DashboardResponse is the body of GET /api/dashboard: fleet-wide vehicle and
// request aggregates.
type DashboardResponse struct {
	VehicleStats domain.VehicleCounts `json:"vehicle_stats"`
	RequestStats domain.StatusCounts  `json:"request_stats"`
}

// GetDashboard handles GET /api/dashboard.
func (s *Server) GetDashboard(w http.ResponseWriter, r *http.Request) {
	vehicleStats, err := s.vehicles.StatusCounts(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	requestStats, err := s.requests.StatusCounts(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, DashboardResponse{
		VehicleStats: vehicleStats,
		RequestStats: requestStats,
	})
}
