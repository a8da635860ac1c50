package model

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/anporter/pulseboard/internal/symptoms"
	"github.com/anporter/pulseboard/pkg/models"
)

// Registry holds the process-wide inference artifacts. Artifacts load lazily
// on first use behind a single-initialization guard; a successful load is
// immutable for the process lifetime, a failed load is retried on the next
// use rather than cached as a permanent failure.
type Registry struct {
	classifierPath string
	lexiconPath    string

	mu         sync.Mutex
	classifier models.Classifier
	tagger     symptoms.Tagger
	fallback   symptoms.Tagger
}

// NewRegistry creates a registry for the given artifact paths. An empty
// lexicon path means the substring fallback tagger is the canonical tagger.
func NewRegistry(classifierPath, lexiconPath string) *Registry {
	return &Registry{
		classifierPath: classifierPath,
		lexiconPath:    lexiconPath,
		fallback:       symptoms.NewKeywordTagger(),
	}
}

// Classifier returns the loaded synopsis classifier, loading it on first use.
// Returns an error wrapping ErrModelUnavailable when the artifact cannot be
// loaded.
func (r *Registry) Classifier() (models.Classifier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.classifier != nil {
		return r.classifier, nil
	}

	forest, err := LoadForest(r.classifierPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}

	slog.Info("classifier model loaded", "model", forest.Name(), "path", r.classifierPath)
	r.classifier = forest
	return forest, nil
}

// Tagger returns a handle that resolves the symptom tagger lazily per call,
// so a lexicon that fails to load degrades to the substring fallback and is
// retried on the next use.
func (r *Registry) Tagger() symptoms.Tagger {
	return lazyTagger{registry: r}
}

func (r *Registry) currentTagger() symptoms.Tagger {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.tagger != nil {
		return r.tagger
	}
	if r.lexiconPath == "" {
		return r.fallback
	}

	lex, err := symptoms.LoadLexiconTagger(r.lexiconPath)
	if err != nil {
		slog.Warn("symptom lexicon unavailable, using keyword fallback",
			"path", r.lexiconPath, "error", err)
		return r.fallback
	}

	slog.Info("symptom lexicon loaded", "path", r.lexiconPath)
	r.tagger = lex
	return lex
}

type lazyTagger struct {
	registry *Registry
}

func (t lazyTagger) Tag(text string) models.SymptomAnalysis {
	return t.registry.currentTagger().Tag(text)
}

func (t lazyTagger) Name() string {
	return t.registry.currentTagger().Name()
}

var _ symptoms.Tagger = lazyTagger{}
