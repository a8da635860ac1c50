package symptoms

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeLexicon(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lexicon.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadLexiconTagger_ExtendsVocabulary(t *testing.T) {
	path := writeLexicon(t, `{
		"entries": [
			{"tag": "headache", "category": "neurological", "triggers": ["pounding head"]},
			{"tag": "insomnia", "category": "general", "triggers": ["can't sleep", "insomnia"]}
		]
	}`)

	tagger, err := LoadLexiconTagger(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tagger.Name() != "lexicon" {
		t.Errorf("expected lexicon, got %q", tagger.Name())
	}

	// Extra trigger resolves to the existing canonical tag.
	got := tagger.Tag("woke up with a pounding head")
	if !reflect.DeepEqual(got.Tags, []string{"headache"}) {
		t.Errorf("expected [headache], got %v", got.Tags)
	}

	// New tag appends after the built-in vocabulary.
	got = tagger.Tag("headache and I can't sleep")
	if !reflect.DeepEqual(got.Tags, []string{"headache", "insomnia"}) {
		t.Errorf("expected [headache insomnia], got %v", got.Tags)
	}
	if !reflect.DeepEqual(got.Categories, []string{CategoryNeurological, CategoryGeneral}) {
		t.Errorf("unexpected categories: %v", got.Categories)
	}
}

func TestLoadLexiconTagger_BuiltinTriggersStillWork(t *testing.T) {
	path := writeLexicon(t, `{
		"entries": [{"tag": "insomnia", "category": "general", "triggers": ["insomnia"]}]
	}`)

	tagger, err := LoadLexiconTagger(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := tagger.Tag("feeling dizzy")
	if !reflect.DeepEqual(got.Tags, []string{"dizziness"}) {
		t.Errorf("expected [dizziness], got %v", got.Tags)
	}
}

func TestLoadLexiconTagger_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid json", `{not json`},
		{"no entries", `{"entries": []}`},
		{"entry missing tag", `{"entries": [{"category": "general", "triggers": ["x"]}]}`},
		{"entry missing category", `{"entries": [{"tag": "x", "triggers": ["x"]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeLexicon(t, tt.content)
			if _, err := LoadLexiconTagger(path); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestLoadLexiconTagger_MissingFile(t *testing.T) {
	if _, err := LoadLexiconTagger(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected error, got nil")
	}
}
