package models

// Classifier is the core interface for the trained synopsis model. Never
// evaluate a concrete model directly — always inject this interface. The
// feature vector passed to Predict must be ordered exactly as Features()
// reports; building it through pkg/features enforces that contract.
type Classifier interface {
	// Predict maps an ordered feature vector to a class label and a
	// probability distribution over all known classes.
	Predict(features []float64) (Prediction, error)
	// Features returns the exact feature names, in the order the model was
	// trained with.
	Features() []string
	// Name returns the model identifier (e.g., "random-forest-v2").
	Name() string
}

// Prediction is the output of a single classification.
type Prediction struct {
	Label         string             `json:"label"`
	Probabilities map[string]float64 `json:"probabilities"`
}

// Confidence returns the probability of the predicted label, the maximum of
// the distribution.
func (p Prediction) Confidence() float64 {
	return p.Probabilities[p.Label]
}
