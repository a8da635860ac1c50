package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	mw "github.com/anporter/pulseboard/internal/api/middleware"
	"github.com/anporter/pulseboard/internal/api/response"
	"github.com/anporter/pulseboard/internal/metrics"
	"github.com/anporter/pulseboard/internal/store"
	"github.com/anporter/pulseboard/pkg/models"
	"github.com/google/uuid"
)

const historyWindowDays = 30

// Welcome payload for patients with no readings yet: an optimistic default
// rather than a 404, so a fresh dashboard renders.
const (
	welcomeScore   = 95
	welcomeInsight = "Welcome! Submit your first pulse check to generate your health score."
)

// VitalsStore is the subset of the store the vitals handlers need.
type VitalsStore interface {
	InsertVitals(ctx context.Context, reading *models.VitalsReading) (*models.VitalsReading, error)
	GetLatestVitals(ctx context.Context, tenantID, patientID uuid.UUID) (*models.VitalsReading, error)
	GetVitalsSince(ctx context.Context, tenantID, patientID uuid.UUID, since time.Time) ([]*models.VitalsReading, error)
}

// BaselineRefresher triggers a baseline recomputation after ingestion.
type BaselineRefresher interface {
	Refresh(ctx context.Context, tenantID, patientID uuid.UUID) (string, error)
}

// NewRecordVitalsHandler returns an http.HandlerFunc for
// POST /api/v1/patients/{patientID}/vitals. It scores the reading, persists
// it with the score and insights attached, and kicks off a baseline refresh
// in the background. Refresh failures never fail the ingestion.
func NewRecordVitalsHandler(scorer Scorer, st VitalsStore, refresher BaselineRefresher) http.HandlerFunc {
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

		assessment, err := scorer.ComputeHealthScore(r.Context(), tenantID, patientID, req.toInput())
		if err != nil {
			metrics.RecordScoreFailure()
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"An unexpected error occurred", nil)
			return
		}
		metrics.RecordScore(assessment.HealthScore)

		score := assessment.HealthScore
		insight := assessment.Insight
		reading := &models.VitalsReading{
			ID:           uuid.New(),
			TenantID:     tenantID,
			PatientID:    patientID,
			Systolic:     req.Systolic,
			Diastolic:    req.Diastolic,
			HeartRate:    req.HeartRate,
			SpO2:         req.SpO2,
			WeightKg:     req.Weight,
			BloodGlucose: req.BloodGlucose,
			Mood:         req.Mood,
			SymptomsText: req.Symptoms,
			HealthScore:  &score,
			InsightText:  &insight,
			SymptomTags:  assessment.SymptomTags,
			CreatedAt:    time.Now().UTC(),
		}

		stored, err := st.InsertVitals(r.Context(), reading)
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"Failed to store reading", nil)
			return
		}

		// Fire-and-forget: the new reading shifts the 30-day window.
		go func() {
			status, err := refresher.Refresh(context.Background(), tenantID, patientID)
			if err != nil {
				slog.Error("background baseline refresh failed",
					"patient_id", patientID, "error", err)
				return
			}
			metrics.RecordBaselineRefresh(status)
		}()

		response.Created(w, stored)
	}
}

// NewLatestVitalsHandler returns an http.HandlerFunc for
// GET /api/v1/patients/{patientID}/vitals/latest.
func NewLatestVitalsHandler(st VitalsStore) http.HandlerFunc {
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

		reading, err := st.GetLatestVitals(r.Context(), tenantID, patientID)
		if errors.Is(err, store.ErrNotFound) {
			response.JSON(w, map[string]any{
				"health_score": welcomeScore,
				"insight_text": welcomeInsight,
			})
			return
		}
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"An unexpected error occurred", nil)
			return
		}

		response.JSON(w, reading)
	}
}

// NewVitalsHistoryHandler returns an http.HandlerFunc for
// GET /api/v1/patients/{patientID}/vitals: the trailing 30 days, ascending.
func NewVitalsHistoryHandler(st VitalsStore) http.HandlerFunc {
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

		since := time.Now().UTC().AddDate(0, 0, -historyWindowDays)
		readings, err := st.GetVitalsSince(r.Context(), tenantID, patientID, since)
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"An unexpected error occurred", nil)
			return
		}
		if readings == nil {
			readings = []*models.VitalsReading{}
		}

		response.JSON(w, readings)
	}
}
