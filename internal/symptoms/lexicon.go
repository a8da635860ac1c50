package symptoms

import (
	"encoding/json"
	"fmt"
	"os"
)

// lexiconFile is the on-disk artifact format: canonical tags with their
// category and trigger phrases, exported alongside the classifier model.
type lexiconFile struct {
	Entries []struct {
		Tag      string   `json:"tag"`
		Category string   `json:"category"`
		Triggers []string `json:"triggers"`
	} `json:"entries"`
}

// LoadLexiconTagger builds a tagger from a lexicon artifact. The artifact
// extends the built-in vocabulary; built-in entries keep their position and
// artifact-only tags append after them, so output order stays deterministic
// across both modes.
func LoadLexiconTagger(path string) (*KeywordTagger, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon: %w", err)
	}

	var lf lexiconFile
	if err := json.Unmarshal(raw, &lf); err != nil {
		return nil, fmt.Errorf("parse lexicon: %w", err)
	}
	if len(lf.Entries) == 0 {
		return nil, fmt.Errorf("lexicon %s has no entries", path)
	}

	merged := make([]entry, len(builtinVocabulary))
	copy(merged, builtinVocabulary)
	index := make(map[string]int, len(merged))
	for i, e := range merged {
		index[e.Tag] = i
	}

	for _, le := range lf.Entries {
		if le.Tag == "" || le.Category == "" {
			return nil, fmt.Errorf("lexicon %s: entry missing tag or category", path)
		}
		if i, ok := index[le.Tag]; ok {
			merged[i].Triggers = append(merged[i].Triggers, le.Triggers...)
			continue
		}
		index[le.Tag] = len(merged)
		merged = append(merged, entry{Tag: le.Tag, Category: le.Category, Triggers: le.Triggers})
	}

	return &KeywordTagger{name: "lexicon", entries: merged}, nil
}
