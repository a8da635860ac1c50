// Package symptoms maps free-text symptom reports onto a fixed vocabulary of
// clinical tags and categories.
package symptoms

import (
	"strings"

	"github.com/anporter/pulseboard/pkg/models"
)

// Tagger is the interface scoring and ingestion depend on. Implementations
// must be safe for concurrent use and must return empty (never nil) slices
// for text with no matches.
type Tagger interface {
	// Tag returns deduplicated canonical tags in vocabulary order and the
	// parallel clinical category for each tag.
	Tag(text string) models.SymptomAnalysis
	// Name returns the tagger identifier (e.g., "keyword", "lexicon").
	Name() string
}

// Clinical category labels.
const (
	CategoryNeurological     = "neurological"
	CategoryCardiovascular   = "cardiovascular"
	CategoryRespiratory      = "respiratory"
	CategoryGastrointestinal = "gastrointestinal"
	CategoryGeneral          = "general"
)

// entry maps one canonical tag to its category and trigger phrases.
type entry struct {
	Tag      string
	Category string
	Triggers []string
}

// builtinVocabulary is the degraded-mode keyword table, also the base the
// lexicon tagger extends. Matching is case-insensitive substring matching in
// both modes, so multi-word phrases behave identically whether or not a
// lexicon artifact is loaded. Order is the deterministic output order.
var builtinVocabulary = []entry{
	{"headache", CategoryNeurological, []string{"headache", "migraine"}},
	{"dizziness", CategoryNeurological, []string{"dizzy", "dizziness", "lightheaded", "light-headed"}},
	{"nausea", CategoryGastrointestinal, []string{"nausea", "nauseous", "queasy"}},
	{"vomiting", CategoryGastrointestinal, []string{"vomit", "throwing up", "threw up"}},
	{"chest pain", CategoryCardiovascular, []string{"chest pain", "chest tightness", "chest pressure"}},
	{"palpitations", CategoryCardiovascular, []string{"palpitation", "racing heart", "heart racing"}},
	{"swelling", CategoryCardiovascular, []string{"swelling", "swollen"}},
	{"shortness of breath", CategoryRespiratory, []string{"short of breath", "shortness of breath", "breathless", "can't breathe"}},
	{"cough", CategoryRespiratory, []string{"cough"}},
	{"fatigue", CategoryGeneral, []string{"fatigue", "fatigued", "exhausted", "tired"}},
	{"fever", CategoryGeneral, []string{"fever", "feverish", "chills"}},
	{"blurred vision", CategoryNeurological, []string{"blurred vision", "blurry vision"}},
}

// KeywordTagger matches lowercased symptom text against the vocabulary by
// substring. It is the always-available fallback when no lexicon artifact can
// be loaded, and the matching engine under the lexicon tagger as well.
type KeywordTagger struct {
	name    string
	entries []entry
}

// NewKeywordTagger returns a tagger over the built-in vocabulary.
func NewKeywordTagger() *KeywordTagger {
	return &KeywordTagger{name: "keyword", entries: builtinVocabulary}
}

func (t *KeywordTagger) Name() string { return t.name }

func (t *KeywordTagger) Tag(text string) models.SymptomAnalysis {
	analysis := models.SymptomAnalysis{
		Tags:       []string{},
		Categories: []string{},
	}

	lowered := strings.ToLower(strings.TrimSpace(text))
	if lowered == "" {
		return analysis
	}

	for _, e := range t.entries {
		for _, trigger := range e.Triggers {
			if strings.Contains(lowered, trigger) {
				analysis.Tags = append(analysis.Tags, e.Tag)
				analysis.Categories = append(analysis.Categories, e.Category)
				break
			}
		}
	}

	return analysis
}

var _ Tagger = (*KeywordTagger)(nil)
