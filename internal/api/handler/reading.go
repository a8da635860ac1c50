// Package handler contains the HTTP handlers for the Pulseboard API.
package handler

import (
	"net/http"

	"github.com/anporter/pulseboard/internal/scoring"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// readingRequest is the reading-like payload accepted by the score and
// vitals-ingestion endpoints. Pointer fields distinguish "not provided" from
// zero.
type readingRequest struct {
	Systolic     *int     `json:"systolic"`
	Diastolic    *int     `json:"diastolic"`
	HeartRate    *int     `json:"heart_rate"`
	SpO2         *int     `json:"sp_o2"`
	Weight       *float64 `json:"weight"`
	BloodGlucose *float64 `json:"blood_glucose"`
	Mood         *int     `json:"mood"`
	Symptoms     *string  `json:"symptoms"`
}

// validate returns a client-facing message for the first invalid field, or
// empty when the payload is acceptable.
func (req readingRequest) validate() string {
	if req.Mood != nil && (*req.Mood < 1 || *req.Mood > 5) {
		return "mood must be between 1 and 5"
	}
	if req.Systolic != nil && *req.Systolic <= 0 {
		return "systolic must be positive"
	}
	if req.Diastolic != nil && *req.Diastolic <= 0 {
		return "diastolic must be positive"
	}
	if req.HeartRate != nil && *req.HeartRate <= 0 {
		return "heart_rate must be positive"
	}
	if req.BloodGlucose != nil && *req.BloodGlucose <= 0 {
		return "blood_glucose must be positive"
	}
	return ""
}

func (req readingRequest) toInput() scoring.ReadingInput {
	return scoring.ReadingInput{
		Systolic:     req.Systolic,
		Diastolic:    req.Diastolic,
		HeartRate:    req.HeartRate,
		SpO2:         req.SpO2,
		WeightKg:     req.Weight,
		BloodGlucose: req.BloodGlucose,
		Mood:         req.Mood,
		SymptomsText: req.Symptoms,
	}
}

// patientIDParam parses the {patientID} route parameter.
func patientIDParam(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "patientID"))
	return id, err == nil
}
