package translate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dobhashi/dobhashi/internal/lexicon"
	"github.com/dobhashi/dobhashi/internal/upstream"
)

type stubLexicon struct {
	glossary map[string][]string
	rules    map[string][]lexicon.Rule
}

func (s *stubLexicon) Glossary(src, dst string) []string { return s.glossary[src+"-"+dst] }
func (s *stubLexicon) Phrases(string) []string           { return nil }
func (s *stubLexicon) Rules(lang string) []lexicon.Rule  { return s.rules[lang] }
func (s *stubLexicon) Close() error                      { return nil }

type stubEngine struct {
	prompt string
	reply  func(prompt string) (string, error)
}

func (e *stubEngine) Complete(_ context.Context, prompt string) (string, error) {
	e.prompt = prompt
	return e.reply(prompt)
}

func TestTranslateProtectsGlossaryTerms(t *testing.T) {
	lex := &stubLexicon{glossary: map[string][]string{"en-hi": {"Vatika"}}}
	engine := &stubEngine{reply: func(prompt string) (string, error) {
		// The engine sees placeholders, never the term itself.
		if strings.Contains(strings.SplitN(prompt, "Text: ", 2)[1], "Vatika") {
			t.Errorf("prompt text leaked the glossary term: %q", prompt)
		}
		return "अनुवादित ##GLOSSARY_0## पाठ", nil
	}}

	a := NewAdapter(engine, lex)
	out, err := a.Translate(context.Background(), "welcome to Vatika", "en", "hi")
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if !strings.Contains(out, "Vatika") {
		t.Fatalf("Translate() = %q, glossary term not restored", out)
	}
	if strings.Contains(out, "##GLOSSARY_") {
		t.Fatalf("Translate() = %q, placeholder left behind", out)
	}
	if !strings.Contains(engine.prompt, "terms remain unchanged: Vatika") {
		t.Fatalf("prompt = %q, missing glossary instruction", engine.prompt)
	}
}

func TestTranslateAppliesTargetNormalization(t *testing.T) {
	lex := &stubLexicon{
		rules: map[string][]lexicon.Rule{"hi": {{Search: "namaste", Replace: "नमस्ते"}}},
	}
	engine := &stubEngine{reply: func(string) (string, error) { return "  namaste dost  ", nil }}

	a := NewAdapter(engine, lex)
	out, err := a.Translate(context.Background(), "hello friend", "en", "hi")
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if out != "नमस्ते dost" {
		t.Fatalf("Translate() = %q, want trimmed and normalized output", out)
	}
}

func TestTranslateEmptyGlossaryOmitsInstruction(t *testing.T) {
	engine := &stubEngine{reply: func(string) (string, error) { return "ok", nil }}
	a := NewAdapter(engine, &stubLexicon{})

	if _, err := a.Translate(context.Background(), "hello", "en", "hi"); err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if strings.Contains(engine.prompt, "remain unchanged") {
		t.Fatalf("prompt = %q, glossary instruction should be absent", engine.prompt)
	}
	if !strings.Contains(engine.prompt, "from en to hi") {
		t.Fatalf("prompt = %q, missing language pair", engine.prompt)
	}
}

func TestTranslateSurfacesEngineFailure(t *testing.T) {
	engineErr := &upstream.Error{Service: "translate", Status: 500, Detail: "overloaded"}
	engine := &stubEngine{reply: func(string) (string, error) { return "", engineErr }}
	a := NewAdapter(engine, &stubLexicon{})

	_, err := a.Translate(context.Background(), "hello", "en", "hi")
	var ue *upstream.Error
	if !errors.As(err, &ue) || ue.Status != 500 {
		t.Fatalf("Translate() error = %v, want the engine's upstream error", err)
	}
}
