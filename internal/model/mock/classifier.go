// Package mock provides a configurable Classifier for tests.
package mock

import (
	"github.com/anporter/pulseboard/pkg/models"
)

// MockClassifier satisfies models.Classifier for testing.
type MockClassifier struct {
	Name_       string
	Features_   []string
	PredictFunc func(features []float64) (models.Prediction, error)
}

func (m *MockClassifier) Name() string { return m.Name_ }

func (m *MockClassifier) Features() []string { return m.Features_ }

func (m *MockClassifier) Predict(features []float64) (models.Prediction, error) {
	if m.PredictFunc != nil {
		return m.PredictFunc(features)
	}
	return models.Prediction{}, nil
}

// NewMockClassifier returns a MockClassifier with sensible default behavior:
// the full trained feature order and a confident Stable prediction.
func NewMockClassifier() *MockClassifier {
	return &MockClassifier{
		Name_: "mock",
		Features_: []string{
			"systolic", "diastolic", "heart_rate", "has_symptoms",
			"bp_mean_3d", "hr_mean_3d", "blood_glucose", "glucose_mean_3d",
		},
		PredictFunc: func(_ []float64) (models.Prediction, error) {
			return models.Prediction{
				Label: "Stable",
				Probabilities: map[string]float64{
					"Stable":            0.9,
					"Hypertensive_Risk": 0.06,
					"CHF_Risk":          0.04,
				},
			}, nil
		},
	}
}

// NewFailingClassifier returns a MockClassifier whose Predict always returns
// the given error.
func NewFailingClassifier(err error) *MockClassifier {
	m := NewMockClassifier()
	m.Name_ = "mock-failing"
	m.PredictFunc = func(_ []float64) (models.Prediction, error) {
		return models.Prediction{}, err
	}
	return m
}

// Compile-time check that MockClassifier implements Classifier.
var _ models.Classifier = (*MockClassifier)(nil)
