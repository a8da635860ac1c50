// Package models contains shared data models used across the Pulseboard codebase.
package models

import (
	"time"

	"github.com/google/uuid"
)

// VitalsReading is a single patient-submitted vitals record. Rows are
// immutable once written; optional channels are nil when the patient did not
// supply them, which is distinct from a zero value.
type VitalsReading struct {
	ID           uuid.UUID        `db:"id"            json:"id"`
	TenantID     uuid.UUID        `db:"tenant_id"     json:"tenant_id"`
	PatientID    uuid.UUID        `db:"patient_id"    json:"patient_id"`
	Systolic     *int             `db:"systolic"      json:"systolic,omitempty"`
	Diastolic    *int             `db:"diastolic"     json:"diastolic,omitempty"`
	HeartRate    *int             `db:"heart_rate"    json:"heart_rate,omitempty"`
	SpO2         *int             `db:"sp_o2"         json:"sp_o2,omitempty"`
	WeightKg     *float64         `db:"weight"        json:"weight,omitempty"`
	BloodGlucose *float64         `db:"blood_glucose" json:"blood_glucose,omitempty"`
	Mood         *int             `db:"mood"          json:"mood,omitempty"` // 1-5 scale
	SymptomsText *string          `db:"symptoms_text" json:"symptoms_text,omitempty"`
	HealthScore  *int             `db:"health_score"  json:"health_score,omitempty"`
	InsightText  *string          `db:"insight_text"  json:"insight_text,omitempty"`
	SymptomTags  *SymptomAnalysis `db:"symptom_tags"  json:"symptom_tags,omitempty"`
	CreatedAt    time.Time        `db:"created_at"    json:"created_at"`
}
