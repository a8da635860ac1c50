package baseline

import (
	"context"
	"fmt"
	"time"

	"github.com/anporter/pulseboard/internal/cache"
	"github.com/anporter/pulseboard/internal/store"
	"github.com/anporter/pulseboard/pkg/models"
	"github.com/google/uuid"
)

// Refresh outcomes. Insufficient data is a successful no-op, not an error.
const (
	StatusSuccess          = "success"
	StatusInsufficientData = "insufficient-data"
	StatusFailed           = "failed"
)

const (
	windowDays  = 30
	minReadings = 5

	statusTTL = 30 * time.Minute
)

// Updater recomputes a patient's baseline from the trailing 30-day window.
type Updater struct {
	store store.Store
	cache cache.Cache
	now   func() time.Time
}

// NewUpdater creates a baseline Updater.
func NewUpdater(st store.Store, ca cache.Cache) *Updater {
	return &Updater{store: st, cache: ca, now: time.Now}
}

// Refresh recomputes and upserts the patient's baseline. Fewer than 5
// readings in the window leaves the stored baseline untouched and reports
// insufficient data. Repeated calls over unchanged history store identical
// statistics. The outcome is mirrored to the cache, best effort, for
// dashboard polling.
func (u *Updater) Refresh(ctx context.Context, tenantID, patientID uuid.UUID) (string, error) {
	since := u.now().AddDate(0, 0, -windowDays)
	readings, err := u.store.GetVitalsSince(ctx, tenantID, patientID, since)
	if err != nil {
		_ = u.cache.SetBaselineStatus(ctx, tenantID, patientID, StatusFailed, statusTTL)
		return "", fmt.Errorf("fetch vitals window: %w", err)
	}
	if len(readings) < minReadings {
		_ = u.cache.SetBaselineStatus(ctx, tenantID, patientID, StatusInsufficientData, statusTTL)
		return StatusInsufficientData, nil
	}

	var systolic, diastolic, heartRate, glucose []float64
	for _, r := range readings {
		if r.Systolic != nil {
			systolic = append(systolic, float64(*r.Systolic))
		}
		if r.Diastolic != nil {
			diastolic = append(diastolic, float64(*r.Diastolic))
		}
		if r.HeartRate != nil {
			heartRate = append(heartRate, float64(*r.HeartRate))
		}
		if r.BloodGlucose != nil {
			glucose = append(glucose, *r.BloodGlucose)
		}
	}

	sys := Summarize(systolic)
	dia := Summarize(diastolic)
	hr := Summarize(heartRate)
	glu := Summarize(glucose)

	_, err = u.store.UpsertBaseline(ctx, &models.PatientBaseline{
		TenantID:           tenantID,
		PatientID:          patientID,
		AvgSystolic:        sys.Mean,
		StddevSystolic:     sys.StdDev,
		AvgDiastolic:       dia.Mean,
		StddevDiastolic:    dia.StdDev,
		AvgHeartRate:       hr.Mean,
		StddevHeartRate:    hr.StdDev,
		AvgBloodGlucose:    glu.Mean,
		StddevBloodGlucose: glu.StdDev,
		LastUpdated:        u.now().UTC(),
	})
	if err != nil {
		_ = u.cache.SetBaselineStatus(ctx, tenantID, patientID, StatusFailed, statusTTL)
		return "", fmt.Errorf("store baseline: %w", err)
	}

	_ = u.cache.SetBaselineStatus(ctx, tenantID, patientID, StatusSuccess, statusTTL)
	return StatusSuccess, nil
}
