package lexicon

import (
	"context"
	"strings"
)

// Store serves the static linguistic resources: per-language-pair glossary
// terms, per-language phrase-boost hints, and per-language normalization
// rules. Resources are loaded once at startup and are read-only afterwards;
// missing resources degrade to empty lists, never errors.
type Store interface {
	Glossary(sourceLang, targetLang string) []string
	Phrases(lang string) []string
	Rules(lang string) []Rule
	Close() error
}

// NewStore creates a postgres-backed store when configured, otherwise one
// backed by the phrase files on disk.
func NewStore(ctx context.Context, databaseURL, phrasesDir, glossaryPath string) (Store, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return NewFileStore(phrasesDir, glossaryPath), nil
	}
	return NewPostgresStore(ctx, databaseURL)
}

func pairKey(sourceLang, targetLang string) string {
	return sourceLang + "-" + targetLang
}
