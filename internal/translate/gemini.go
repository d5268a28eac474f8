package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dobhashi/dobhashi/internal/upstream"
)

type GeminiConfig struct {
	APIKey      string
	Endpoint    string
	MaxTokens   int
	CallTimeout time.Duration
}

// GeminiEngine sends the translation prompt to a Gemini-style completion
// endpoint and returns the completed text.
type GeminiEngine struct {
	cfg    GeminiConfig
	client *http.Client
}

func NewGeminiEngine(cfg GeminiConfig) *GeminiEngine {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		cfg.Endpoint = "https://api.gemini.com/translate"
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1000
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = 30 * time.Second
	}
	return &GeminiEngine{cfg: cfg, client: &http.Client{Timeout: cfg.CallTimeout}}
}

type completionRequest struct {
	Prompt    string `json:"prompt"`
	MaxTokens int    `json:"max_tokens"`
}

type completionResponse struct {
	Text string `json:"text"`
}

func (e *GeminiEngine) Complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(completionRequest{Prompt: prompt, MaxTokens: e.cfg.MaxTokens})
	if err != nil {
		return "", fmt.Errorf("encode translation request: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, e.cfg.CallTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, e.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build translation request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+e.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", upstream.Wrap("translate", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", upstream.Wrap("translate", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", &upstream.Error{Service: "translate", Status: resp.StatusCode, Detail: strings.TrimSpace(string(data))}
	}

	var out completionResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", &upstream.Error{Service: "translate", Status: resp.StatusCode, Detail: "undecodable response: " + err.Error()}
	}
	return out.Text, nil
}
