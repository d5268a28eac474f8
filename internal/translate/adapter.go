package translate

import (
	"context"
	"fmt"
	"strings"

	"github.com/dobhashi/dobhashi/internal/lexicon"
)

// Adapter wraps the translation engine with terminology protection: glossary
// terms are masked before the call, the prompt tells the engine to leave them
// untouched, and the result is unmasked and normalized for the target
// language.
type Adapter struct {
	engine  Engine
	lexicon lexicon.Store
}

func NewAdapter(engine Engine, lex lexicon.Store) *Adapter {
	return &Adapter{engine: engine, lexicon: lex}
}

func (a *Adapter) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	terms := a.lexicon.Glossary(sourceLang, targetLang)
	protected, placeholders := lexicon.Protect(text, terms)

	translated, err := a.engine.Complete(ctx, buildPrompt(protected, sourceLang, targetLang, terms))
	if err != nil {
		return "", err
	}

	restored := lexicon.Restore(strings.TrimSpace(translated), placeholders)
	return lexicon.Normalize(restored, a.lexicon.Rules(targetLang)), nil
}

func buildPrompt(text, sourceLang, targetLang string, terms []string) string {
	if len(terms) == 0 {
		return fmt.Sprintf("Translate the following text from %s to %s.\nText: %s",
			sourceLang, targetLang, text)
	}
	return fmt.Sprintf(
		"Translate the following text from %s to %s. Ensure that the following terms remain unchanged: %s.\nText: %s",
		sourceLang, targetLang, strings.Join(terms, ", "), text)
}
