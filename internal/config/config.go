package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config contains all runtime settings for the relay service.
type Config struct {
	BindAddr         string
	ShutdownTimeout  time.Duration
	MetricsNamespace string

	AllowAnyOrigin bool

	EngineProvider string

	GoogleAPIKey      string
	GoogleSTTEndpoint string
	GoogleTTSEndpoint string
	GeminiAPIKey      string
	GeminiEndpoint    string

	EngineCallTimeout time.Duration
	MaxClipDuration   time.Duration

	PhrasesDir   string
	GlossaryPath string
	DatabaseURL  string
}

// Load reads environment variables and applies safe defaults.
func Load() (Config, error) {
	cfg := Config{
		BindAddr:         envOrDefault("APP_BIND_ADDR", ":8080"),
		MetricsNamespace: envOrDefault("APP_METRICS_NAMESPACE", "dobhashi"),
		AllowAnyOrigin:   false,
		EngineProvider:   envOrDefault("ENGINE_PROVIDER", "auto"),
		// GCP_API_KEY covers both the STT and TTS endpoints.
		GoogleAPIKey:      stringsTrimSpace("GCP_API_KEY"),
		GoogleSTTEndpoint: envOrDefault("GOOGLE_STT_ENDPOINT", "https://speech.googleapis.com/v1/speech:recognize"),
		GoogleTTSEndpoint: envOrDefault("GOOGLE_TTS_ENDPOINT", "https://texttospeech.googleapis.com/v1/text:synthesize"),
		GeminiAPIKey:      stringsTrimSpace("GEMINI_API_KEY"),
		GeminiEndpoint:    envOrDefault("GEMINI_ENDPOINT", "https://api.gemini.com/translate"),
		PhrasesDir:        envOrDefault("PHRASES_DIR", "phrases"),
		GlossaryPath:      envOrDefault("GLOSSARY_PATH", "phrases/glossary.json"),
		DatabaseURL:       stringsTrimSpace("DATABASE_URL"),
		ShutdownTimeout:   15 * time.Second,
		EngineCallTimeout: 30 * time.Second,
		MaxClipDuration:   60 * time.Second,
	}

	var err error
	cfg.ShutdownTimeout, err = durationFromEnv("APP_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.EngineCallTimeout, err = durationFromEnv("ENGINE_CALL_TIMEOUT", cfg.EngineCallTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.MaxClipDuration, err = durationFromEnv("MAX_CLIP_DURATION", cfg.MaxClipDuration)
	if err != nil {
		return Config{}, err
	}
	cfg.AllowAnyOrigin, err = boolFromEnv("APP_ALLOW_ANY_ORIGIN", cfg.AllowAnyOrigin)
	if err != nil {
		return Config{}, err
	}

	if cfg.EngineCallTimeout <= 0 {
		return Config{}, fmt.Errorf("ENGINE_CALL_TIMEOUT must be positive")
	}
	if cfg.MaxClipDuration < time.Second {
		return Config{}, fmt.Errorf("MAX_CLIP_DURATION must be at least 1s")
	}
	switch strings.ToLower(strings.TrimSpace(cfg.EngineProvider)) {
	case "auto", "google", "mock":
	default:
		return Config{}, fmt.Errorf("invalid ENGINE_PROVIDER: %q (expected auto|google|mock)", cfg.EngineProvider)
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func stringsTrimSpace(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return d, nil
}

func boolFromEnv(key string, fallback bool) (bool, error) {
	v := strings.ToLower(stringsTrimSpace(key))
	if v == "" {
		return fallback, nil
	}
	switch v {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("%s parse error: expected bool", key)
	}
}
