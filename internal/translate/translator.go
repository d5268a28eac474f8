package translate

import "context"

// Translator converts text between two supported languages.
type Translator interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

// Engine performs the raw translation call given a fully built prompt. The
// adapter owns glossary protection and normalization around it.
type Engine interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
