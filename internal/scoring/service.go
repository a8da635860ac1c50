package scoring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/anporter/pulseboard/internal/cache"
	"github.com/anporter/pulseboard/internal/store"
	"github.com/anporter/pulseboard/internal/symptoms"
	"github.com/anporter/pulseboard/pkg/models"
	"github.com/google/uuid"
)

const assessmentCacheTTL = 24 * time.Hour

// ReadingInput is the reading-like payload scored by ComputeHealthScore.
// Nil fields were not provided.
type ReadingInput struct {
	Systolic     *int
	Diastolic    *int
	HeartRate    *int
	SpO2         *int
	WeightKg     *float64
	BloodGlucose *float64
	Mood         *int
	SymptomsText *string
}

// Service runs the health-score pipeline: baseline lookup, symptom tagging,
// trend forecasting, and the rule fold.
type Service struct {
	store  store.Store
	cache  cache.Cache
	tagger symptoms.Tagger
}

// NewService creates a new scoring Service.
func NewService(st store.Store, ca cache.Cache, tagger symptoms.Tagger) *Service {
	return &Service{store: st, cache: ca, tagger: tagger}
}

// ComputeHealthScore scores a reading against the patient's personal baseline
// and recent history. A patient with no stored baseline is scored against the
// population default. Store failures propagate; a cache failure only costs
// the cached copy.
func (s *Service) ComputeHealthScore(ctx context.Context, tenantID, patientID uuid.UUID, in ReadingInput) (*models.RiskAssessment, error) {
	avg, stddev := DefaultAvgSystolic, DefaultStddevSystolic

	baseline, err := s.store.GetBaseline(ctx, tenantID, patientID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		// population default stands
	case err != nil:
		return nil, fmt.Errorf("fetch baseline: %w", err)
	default:
		avg, stddev = 0, 0
		if baseline.AvgSystolic != nil {
			avg = *baseline.AvgSystolic
		}
		if baseline.StddevSystolic != nil {
			stddev = *baseline.StddevSystolic
		}
	}

	var analysis *models.SymptomAnalysis
	if in.SymptomsText != nil && strings.TrimSpace(*in.SymptomsText) != "" {
		tagged := s.tagger.Tag(*in.SymptomsText)
		analysis = &tagged
	}

	recent, err := s.store.GetRecentVitals(ctx, tenantID, patientID, TrendWindow)
	if err != nil {
		return nil, fmt.Errorf("fetch recent vitals: %w", err)
	}

	assessment := Evaluate(Input{
		Systolic:       in.Systolic,
		Mood:           in.Mood,
		BloodGlucose:   in.BloodGlucose,
		Symptoms:       analysis,
		AvgSystolic:    avg,
		StddevSystolic: stddev,
		TrendRisk:      TrendRisk(recent),
	})

	s.cacheAssessment(ctx, tenantID, patientID, assessment)

	return &assessment, nil
}

// cacheAssessment keeps the latest assessment per patient for dashboard
// reads. Best effort only.
func (s *Service) cacheAssessment(ctx context.Context, tenantID, patientID uuid.UUID, a models.RiskAssessment) {
	payload, err := json.Marshal(a)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cache.AssessmentKey(tenantID, patientID), payload, assessmentCacheTTL); err != nil {
		slog.Warn("failed to cache assessment", "patient_id", patientID, "error", err)
	}
}
