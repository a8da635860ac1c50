// Package features builds the ordered feature vectors consumed by the
// synopsis classifier. The same engineering is used at training-export time
// and at inference time; feature order mismatches make predictions invalid,
// so vectors are always materialized through Ordered with the model's own
// feature list.
package features

import (
	"fmt"

	"github.com/anporter/pulseboard/pkg/models"
)

// Canonical feature names shared with the training pipeline.
const (
	Systolic      = "systolic"
	Diastolic     = "diastolic"
	HeartRate     = "heart_rate"
	HasSymptoms   = "has_symptoms"
	BPMean3d      = "bp_mean_3d"
	HRMean3d      = "hr_mean_3d"
	BloodGlucose  = "blood_glucose"
	GlucoseMean3d = "glucose_mean_3d"
)

// imputedGlucose substitutes for missing blood glucose before rolling means,
// matching the value used when the model was trained.
const imputedGlucose = 100

// rollingWindow is the trailing row count for the *_mean_3d features: the
// current row plus up to two preceding rows.
const rollingWindow = 3

// Vector is a named feature vector for one reading.
type Vector struct {
	values map[string]float64
}

// Get returns the value for a named feature.
func (v Vector) Get(name string) (float64, bool) {
	val, ok := v.values[name]
	return val, ok
}

// Ordered materializes the vector in the exact order the model expects.
// Returns an error if the model asks for a feature this vector does not
// carry; positions are never guessed.
func (v Vector) Ordered(order []string) ([]float64, error) {
	out := make([]float64, len(order))
	for i, name := range order {
		val, ok := v.values[name]
		if !ok {
			return nil, fmt.Errorf("feature %q required by model but not engineered", name)
		}
		out[i] = val
	}
	return out, nil
}

// Engineer computes per-row feature vectors from readings sorted
// chronologically ascending. Rolling means shrink at the start of the window
// (minimum one observation). Readings missing a core vital (systolic,
// diastolic, heart rate) must be filtered out before calling.
func Engineer(readings []*models.VitalsReading) []Vector {
	vectors := make([]Vector, 0, len(readings))

	for i, r := range readings {
		start := i - (rollingWindow - 1)
		if start < 0 {
			start = 0
		}

		var bpSum, hrSum, gluSum float64
		n := 0
		for _, w := range readings[start : i+1] {
			bpSum += float64(*w.Systolic)
			hrSum += float64(*w.HeartRate)
			gluSum += glucoseOrImputed(w)
			n++
		}

		hasSymptoms := 0.0
		if r.SymptomsText != nil {
			hasSymptoms = 1.0
		}

		vectors = append(vectors, Vector{values: map[string]float64{
			Systolic:      float64(*r.Systolic),
			Diastolic:     float64(*r.Diastolic),
			HeartRate:     float64(*r.HeartRate),
			HasSymptoms:   hasSymptoms,
			BPMean3d:      bpSum / float64(n),
			HRMean3d:      hrSum / float64(n),
			BloodGlucose:  glucoseOrImputed(r),
			GlucoseMean3d: gluSum / float64(n),
		}})
	}

	return vectors
}

// HasCoreVitals reports whether a reading carries the channels the feature
// pipeline cannot impute.
func HasCoreVitals(r *models.VitalsReading) bool {
	return r.Systolic != nil && r.Diastolic != nil && r.HeartRate != nil
}

func glucoseOrImputed(r *models.VitalsReading) float64 {
	if r.BloodGlucose != nil {
		return *r.BloodGlucose
	}
	return imputedGlucose
}
