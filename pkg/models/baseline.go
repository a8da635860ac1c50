package models

import (
	"time"

	"github.com/google/uuid"
)

// PatientBaseline holds a patient's personal rolling statistics, recomputed
// from the trailing 30 days of history. Stddev fields are nil when the window
// does not contain enough variance data for a sample estimate; avg fields are
// nil when the channel has no readings at all.
type PatientBaseline struct {
	TenantID           uuid.UUID `db:"tenant_id"            json:"tenant_id"`
	PatientID          uuid.UUID `db:"patient_id"           json:"patient_id"`
	AvgSystolic        *float64  `db:"avg_systolic"         json:"avg_systolic,omitempty"`
	StddevSystolic     *float64  `db:"stddev_systolic"      json:"stddev_systolic,omitempty"`
	AvgDiastolic       *float64  `db:"avg_diastolic"        json:"avg_diastolic,omitempty"`
	StddevDiastolic    *float64  `db:"stddev_diastolic"     json:"stddev_diastolic,omitempty"`
	AvgHeartRate       *float64  `db:"avg_heart_rate"       json:"avg_heart_rate,omitempty"`
	StddevHeartRate    *float64  `db:"stddev_heart_rate"    json:"stddev_heart_rate,omitempty"`
	AvgBloodGlucose    *float64  `db:"avg_blood_glucose"    json:"avg_blood_glucose,omitempty"`
	StddevBloodGlucose *float64  `db:"stddev_blood_glucose" json:"stddev_blood_glucose,omitempty"`
	LastUpdated        time.Time `db:"last_updated"         json:"last_updated"`
}
