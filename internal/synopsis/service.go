// Package synopsis produces the categorical clinical-state classification
// from a patient's recent history and the trained classifier.
package synopsis

import (
	"context"
	"fmt"

	"github.com/anporter/pulseboard/internal/store"
	"github.com/anporter/pulseboard/pkg/features"
	"github.com/anporter/pulseboard/pkg/models"
	"github.com/google/uuid"
)

// historyWindow is how many most-recent readings feed the feature pipeline.
const historyWindow = 7

// minReadings is the smallest usable history for a classification.
const minReadings = 3

// Conclusion classes for the degraded variants. Model-predicted classes come
// from the artifact itself.
const (
	classUnavailable      = "Unavailable"
	classInsufficientData = "Insufficient_Data"
)

const (
	recommendationReview = "Automated classification only. Review these findings with a clinician before acting on them."
	recommendationManual = "The synopsis model is offline. Proceed with manual clinical review."
)

// ClassifierSource provides the lazily-loaded classifier. Satisfied by
// model.Registry.
type ClassifierSource interface {
	Classifier() (models.Classifier, error)
}

// Service generates synopses.
type Service struct {
	store  store.Store
	source ClassifierSource
}

// NewService creates a synopsis Service.
func NewService(st store.Store, source ClassifierSource) *Service {
	return &Service{store: st, source: source}
}

// Generate classifies the patient's current state from their 7 most-recent
// readings. A missing model or thin history yields a degraded synopsis, not
// an error; only store and model-contract failures propagate.
func (s *Service) Generate(ctx context.Context, tenantID, patientID uuid.UUID) (*models.Synopsis, error) {
	classifier, err := s.source.Classifier()
	if err != nil {
		return unavailableSynopsis(), nil
	}

	history, err := s.store.GetRecentVitals(ctx, tenantID, patientID, historyWindow)
	if err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}

	usable := history[:0:0]
	for _, r := range history {
		if features.HasCoreVitals(r) {
			usable = append(usable, r)
		}
	}
	if len(usable) < minReadings {
		return insufficientSynopsis(len(usable)), nil
	}

	vectors := features.Engineer(usable)
	latest := vectors[len(vectors)-1]

	ordered, err := latest.Ordered(classifier.Features())
	if err != nil {
		return nil, fmt.Errorf("build feature vector: %w", err)
	}

	pred, err := classifier.Predict(ordered)
	if err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}

	return &models.Synopsis{
		Headline:        fmt.Sprintf("Patient state classified as %s.", pred.Label),
		ConclusionClass: pred.Label,
		ConfidenceScore: pred.Confidence(),
		KeyFindings:     findings(usable[len(usable)-1], latest),
		Recommendation:  recommendationReview,
	}, nil
}

// findings reports the evidence behind the classification in fixed order:
// latest systolic, 3-day BP average, latest glucose, symptom presence.
func findings(latest *models.VitalsReading, vec features.Vector) []string {
	out := make([]string, 0, 4)

	out = append(out, fmt.Sprintf("Latest systolic pressure: %d mmHg.", *latest.Systolic))

	if bpMean, ok := vec.Get(features.BPMean3d); ok {
		out = append(out, fmt.Sprintf("3-day average blood pressure: %.1f mmHg.", bpMean))
	}

	if latest.BloodGlucose != nil {
		out = append(out, fmt.Sprintf("Latest blood glucose: %.0f mg/dL.", *latest.BloodGlucose))
	} else {
		out = append(out, "No recent blood glucose reading on file.")
	}

	if latest.SymptomsText != nil {
		out = append(out, "Symptoms were reported with the latest reading.")
	} else {
		out = append(out, "No symptoms reported with the latest reading.")
	}

	return out
}

func unavailableSynopsis() *models.Synopsis {
	return &models.Synopsis{
		Headline:        "Synopsis unavailable.",
		ConclusionClass: classUnavailable,
		ConfidenceScore: 0,
		KeyFindings:     []string{"The trained synopsis model could not be loaded."},
		Recommendation:  recommendationManual,
	}
}

func insufficientSynopsis(count int) *models.Synopsis {
	return &models.Synopsis{
		Headline:        "Insufficient data for a synopsis.",
		ConclusionClass: classInsufficientData,
		ConfidenceScore: 0,
		KeyFindings: []string{
			fmt.Sprintf("Only %d usable readings on file; at least %d are required.", count, minReadings),
		},
		Recommendation: recommendationReview,
	}
}
