package app

import (
	"fmt"
	"strings"

	"github.com/dobhashi/dobhashi/internal/config"
	"github.com/dobhashi/dobhashi/internal/lexicon"
	"github.com/dobhashi/dobhashi/internal/speech"
	"github.com/dobhashi/dobhashi/internal/translate"
)

type engineSetup struct {
	transcriber      speech.Transcriber
	synthesizer      speech.Synthesizer
	translator       translate.Translator
	resolvedProvider string
	detail           string
}

// resolveEngines picks the engine backend. "google" needs both the speech key
// and the translation key; "auto" falls back to the mock engines when either
// is missing so the relay stays usable in development.
func resolveEngines(cfg config.Config, lex lexicon.Store) (engineSetup, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.EngineProvider))
	if mode == "" {
		mode = "auto"
	}

	tryGoogle := func() (engineSetup, bool) {
		if strings.TrimSpace(cfg.GoogleAPIKey) == "" || strings.TrimSpace(cfg.GeminiAPIKey) == "" {
			return engineSetup{}, false
		}
		sp := speech.NewGoogleProvider(speech.GoogleConfig{
			APIKey:          cfg.GoogleAPIKey,
			STTEndpoint:     cfg.GoogleSTTEndpoint,
			TTSEndpoint:     cfg.GoogleTTSEndpoint,
			CallTimeout:     cfg.EngineCallTimeout,
			MaxClipDuration: cfg.MaxClipDuration,
		}, lex)
		engine := translate.NewGeminiEngine(translate.GeminiConfig{
			APIKey:      cfg.GeminiAPIKey,
			Endpoint:    cfg.GeminiEndpoint,
			CallTimeout: cfg.EngineCallTimeout,
		})
		return engineSetup{
			transcriber:      sp,
			synthesizer:      sp,
			translator:       translate.NewAdapter(engine, lex),
			resolvedProvider: "google",
			detail:           "google speech + gemini translation",
		}, true
	}

	mock := func(detail string) engineSetup {
		p := speech.NewMockProvider()
		return engineSetup{
			transcriber:      p,
			synthesizer:      p,
			translator:       translate.NewMockTranslator(),
			resolvedProvider: "mock",
			detail:           detail,
		}
	}

	switch mode {
	case "google":
		if setup, ok := tryGoogle(); ok {
			return setup, nil
		}
		return engineSetup{}, fmt.Errorf("ENGINE_PROVIDER=google but GCP_API_KEY or GEMINI_API_KEY is not set")
	case "mock":
		return mock("mock"), nil
	case "auto":
		if setup, ok := tryGoogle(); ok {
			return setup, nil
		}
		return mock("mock (engine API keys not set)"), nil
	default:
		return engineSetup{}, fmt.Errorf("invalid ENGINE_PROVIDER: %q (expected auto|google|mock)", cfg.EngineProvider)
	}
}
