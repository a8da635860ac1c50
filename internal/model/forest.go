// Package model loads and serves the trained inference artifacts: the
// synopsis classifier and the symptom lexicon.
package model

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/anporter/pulseboard/pkg/models"
)

// forestArtifact is the JSON export of the trained random forest. Trees use
// the flat-array encoding of the training toolkit: children index -1 marks a
// leaf, value rows hold per-class sample counts at each node.
type forestArtifact struct {
	Model    string         `json:"model"`
	Version  string         `json:"version"`
	Features []string       `json:"features"`
	Classes  []string       `json:"classes"`
	Trees    []treeArtifact `json:"trees"`
}

type treeArtifact struct {
	ChildrenLeft  []int       `json:"children_left"`
	ChildrenRight []int       `json:"children_right"`
	Feature       []int       `json:"feature"`
	Threshold     []float64   `json:"threshold"`
	Value         [][]float64 `json:"value"`
}

// Forest is a native evaluator for an exported random forest. Immutable
// after load; safe for concurrent use.
type Forest struct {
	name     string
	features []string
	classes  []string
	trees    []treeArtifact
}

// LoadForest reads and validates a forest artifact from disk.
func LoadForest(path string) (*Forest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model artifact: %w", err)
	}

	var art forestArtifact
	if err := json.Unmarshal(raw, &art); err != nil {
		return nil, fmt.Errorf("parse model artifact: %w", err)
	}
	if err := art.validate(); err != nil {
		return nil, fmt.Errorf("model artifact %s: %w", path, err)
	}

	name := art.Model
	if art.Version != "" {
		name = art.Model + "-" + art.Version
	}

	return &Forest{
		name:     name,
		features: art.Features,
		classes:  art.Classes,
		trees:    art.Trees,
	}, nil
}

func (a *forestArtifact) validate() error {
	if len(a.Features) == 0 {
		return fmt.Errorf("no features declared")
	}
	if len(a.Classes) == 0 {
		return fmt.Errorf("no classes declared")
	}
	if len(a.Trees) == 0 {
		return fmt.Errorf("no trees")
	}
	for ti, t := range a.Trees {
		n := len(t.ChildrenLeft)
		if len(t.ChildrenRight) != n || len(t.Feature) != n || len(t.Threshold) != n || len(t.Value) != n {
			return fmt.Errorf("tree %d: inconsistent node array lengths", ti)
		}
		if n == 0 {
			return fmt.Errorf("tree %d: empty", ti)
		}
		for i := 0; i < n; i++ {
			if len(t.Value[i]) != len(a.Classes) {
				return fmt.Errorf("tree %d node %d: value width %d, want %d classes", ti, i, len(t.Value[i]), len(a.Classes))
			}
			if t.ChildrenLeft[i] < 0 {
				continue // leaf
			}
			if t.ChildrenLeft[i] >= n || t.ChildrenRight[i] < 0 || t.ChildrenRight[i] >= n {
				return fmt.Errorf("tree %d node %d: child index out of range", ti, i)
			}
			if t.Feature[i] < 0 || t.Feature[i] >= len(a.Features) {
				return fmt.Errorf("tree %d node %d: feature index out of range", ti, i)
			}
			if t.ChildrenLeft[i] <= i && t.ChildrenRight[i] <= i {
				return fmt.Errorf("tree %d node %d: non-forward child reference", ti, i)
			}
		}
	}
	return nil
}

func (f *Forest) Name() string { return f.name }

// Features returns a copy of the trained feature order.
func (f *Forest) Features() []string {
	out := make([]string, len(f.features))
	copy(out, f.features)
	return out
}

// Predict averages per-class leaf probabilities across all trees. The label
// is the argmax of the averaged distribution; ties break toward the earlier
// class in artifact order.
func (f *Forest) Predict(features []float64) (models.Prediction, error) {
	if len(features) != len(f.features) {
		return models.Prediction{}, fmt.Errorf("%w: got %d features, model expects %d",
			ErrBadFeatureVector, len(features), len(f.features))
	}

	sums := make([]float64, len(f.classes))
	for _, t := range f.trees {
		leaf := walk(&t, features)
		counts := t.Value[leaf]
		total := 0.0
		for _, c := range counts {
			total += c
		}
		if total == 0 {
			continue
		}
		for i, c := range counts {
			sums[i] += c / total
		}
	}

	probs := make(map[string]float64, len(f.classes))
	avg := make([]float64, len(f.classes))
	best := 0
	for i, class := range f.classes {
		avg[i] = sums[i] / float64(len(f.trees))
		probs[class] = avg[i]
		if avg[i] > avg[best] {
			best = i
		}
	}

	return models.Prediction{
		Label:         f.classes[best],
		Probabilities: probs,
	}, nil
}

func walk(t *treeArtifact, features []float64) int {
	i := 0
	for t.ChildrenLeft[i] >= 0 {
		if features[t.Feature[i]] <= t.Threshold[i] {
			i = t.ChildrenLeft[i]
		} else {
			i = t.ChildrenRight[i]
		}
	}
	return i
}

var _ models.Classifier = (*Forest)(nil)
