package lexicon

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestFileStoreLoadsResources(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "en_phrases.txt"), "Vatika\n\n  Udyogi  \n")
	writeFile(t, filepath.Join(dir, "normalization_hi.json"),
		`[{"search":"ji haan","replace":"हाँ"},{"search":"","replace":"dropped"},{"search":"shukriya","replace":"धन्यवाद"}]`)
	glossaryPath := filepath.Join(dir, "glossary.json")
	writeFile(t, glossaryPath, `{"en-hi":["Vatika","Udyogi"],"hi-en":["वाटिका"]}`)

	s := NewFileStore(dir, glossaryPath)

	phrases := s.Phrases("en")
	if len(phrases) != 2 || phrases[0] != "Vatika" || phrases[1] != "Udyogi" {
		t.Fatalf("Phrases(en) = %v", phrases)
	}

	rules := s.Rules("hi")
	if len(rules) != 2 {
		t.Fatalf("Rules(hi) = %v, malformed entry must be skipped", rules)
	}
	if rules[0].Search != "ji haan" || rules[1].Search != "shukriya" {
		t.Fatalf("Rules(hi) out of order: %v", rules)
	}

	terms := s.Glossary("en", "hi")
	if len(terms) != 2 {
		t.Fatalf("Glossary(en, hi) = %v", terms)
	}
	if got := s.Glossary("hi", "en"); len(got) != 1 || got[0] != "वाटिका" {
		t.Fatalf("Glossary(hi, en) = %v", got)
	}
}

func TestFileStoreMissingFilesDegradeToEmpty(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir, filepath.Join(dir, "glossary.json"))

	if got := s.Phrases("en"); len(got) != 0 {
		t.Fatalf("Phrases(en) = %v, want empty", got)
	}
	if got := s.Rules("hi"); len(got) != 0 {
		t.Fatalf("Rules(hi) = %v, want empty", got)
	}
	if got := s.Glossary("en", "hi"); len(got) != 0 {
		t.Fatalf("Glossary(en, hi) = %v, want empty", got)
	}
}

func TestFileStoreMalformedJSONDegradesToEmpty(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "normalization_en.json"), `{"not": "an array"`)
	glossaryPath := filepath.Join(dir, "glossary.json")
	writeFile(t, glossaryPath, `[1, 2, 3]`)

	s := NewFileStore(dir, glossaryPath)
	if got := s.Rules("en"); len(got) != 0 {
		t.Fatalf("Rules(en) = %v, want empty on malformed JSON", got)
	}
	if got := s.Glossary("en", "hi"); len(got) != 0 {
		t.Fatalf("Glossary(en, hi) = %v, want empty on malformed JSON", got)
	}
}
