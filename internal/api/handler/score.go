package handler

import (
	"context"
	"encoding/json"
	"net/http"

	mw "github.com/anporter/pulseboard/internal/api/middleware"
	"github.com/anporter/pulseboard/internal/api/response"
	"github.com/anporter/pulseboard/internal/metrics"
	"github.com/anporter/pulseboard/internal/scoring"
	"github.com/anporter/pulseboard/pkg/models"
	"github.com/google/uuid"
)

// Scorer defines the interface the score handler depends on.
type Scorer interface {
	ComputeHealthScore(ctx context.Context, tenantID, patientID uuid.UUID, in scoring.ReadingInput) (*models.RiskAssessment, error)
}

// NewScoreHandler returns an http.HandlerFunc for
// POST /api/v1/patients/{patientID}/score. It scores the submitted reading
// without persisting it.
func NewScoreHandler(svc Scorer) http.HandlerFunc {
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

		var req readingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}
		if msg := req.validate(); msg != "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", msg, nil)
			return
		}

		assessment, err := svc.ComputeHealthScore(r.Context(), tenantID, patientID, req.toInput())
		if err != nil {
			metrics.RecordScoreFailure()
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"An unexpected error occurred", nil)
			return
		}

		metrics.RecordScore(assessment.HealthScore)
		response.JSON(w, assessment)
	}
}
