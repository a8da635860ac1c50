package handler

import (
	"context"
	"net/http"

	mw "github.com/anporter/pulseboard/internal/api/middleware"
	"github.com/anporter/pulseboard/internal/api/response"
	"github.com/anporter/pulseboard/internal/metrics"
	"github.com/anporter/pulseboard/pkg/models"
	"github.com/google/uuid"
)

// SynopsisGenerator produces a diagnostic synopsis for a patient.
type SynopsisGenerator interface {
	Generate(ctx context.Context, tenantID, patientID uuid.UUID) (*models.Synopsis, error)
}

// NewSynopsisHandler returns an http.HandlerFunc for
// GET /api/v1/patients/{patientID}/synopsis.
func NewSynopsisHandler(svc SynopsisGenerator) http.HandlerFunc {
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

		syn, err := svc.Generate(r.Context(), tenantID, patientID)
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"An unexpected error occurred", nil)
			return
		}

		metrics.RecordSynopsis(syn.ConclusionClass)
		response.JSON(w, syn)
	}
}
