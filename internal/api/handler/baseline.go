package handler

import (
	"net/http"

	mw "github.com/anporter/pulseboard/internal/api/middleware"
	"github.com/anporter/pulseboard/internal/api/response"
	"github.com/anporter/pulseboard/internal/metrics"
)

// NewBaselineRefreshHandler returns an http.HandlerFunc for
// POST /api/v1/patients/{patientID}/baseline/refresh.
func NewBaselineRefreshHandler(refresher BaselineRefresher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := mw.GetTenantID(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN", "Missing tenant", nil)
			return
		}

		patientID, ok := patientIDParam(r)
		if !ok {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "patientID must be a valid UUID", nil)
			return
		}

		status, err := refresher.Refresh(r.Context(), tenantID, patientID)
		if err != nil {
			metrics.RecordBaselineRefresh("failed")
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"Baseline refresh failed", nil)
			return
		}

		metrics.RecordBaselineRefresh(status)
		response.JSON(w, map[string]string{"status": status})
	}
}
