package app

import (
	"context"
	"fmt"

	"github.com/dobhashi/dobhashi/internal/config"
	"github.com/dobhashi/dobhashi/internal/httpapi"
	"github.com/dobhashi/dobhashi/internal/lexicon"
	"github.com/dobhashi/dobhashi/internal/observability"
	"github.com/dobhashi/dobhashi/internal/pipeline"
	"github.com/dobhashi/dobhashi/internal/registry"
	"github.com/dobhashi/dobhashi/internal/relay"
)

type EngineInfo struct {
	Provider string
	Detail   string
}

type BuildResult struct {
	Config  config.Config
	API     *httpapi.Server
	Relay   *relay.Router
	Metrics *observability.Metrics
	Engine  EngineInfo

	// Cleanup should be called on shutdown to release external resources.
	Cleanup func() error
}

func Build(ctx context.Context, cfg config.Config) (*BuildResult, error) {
	metrics := observability.NewMetrics(cfg.MetricsNamespace)

	lex, err := lexicon.NewStore(ctx, cfg.DatabaseURL, cfg.PhrasesDir, cfg.GlossaryPath)
	if err != nil {
		return nil, fmt.Errorf("lexicon store init failed: %w", err)
	}

	engines, err := resolveEngines(cfg, lex)
	if err != nil {
		_ = lex.Close()
		return nil, err
	}

	// Ensure API handlers report which backend is active.
	cfg.EngineProvider = engines.resolvedProvider

	runner := pipeline.NewRunner(engines.transcriber, engines.translator, engines.synthesizer)
	router := relay.NewRouter(registry.New(), runner, metrics)
	api := httpapi.New(cfg, router, metrics)

	cleanup := func() error {
		// Let translations already in flight finish before the lexicon goes away.
		router.Wait()
		return lex.Close()
	}

	return &BuildResult{
		Config:  cfg,
		API:     api,
		Relay:   router,
		Metrics: metrics,
		Engine: EngineInfo{
			Provider: engines.resolvedProvider,
			Detail:   engines.detail,
		},
		Cleanup: cleanup,
	}, nil
}
