package speech

import (
	"context"
	"sync"
	"time"
)

// MockProvider is the engine used when no Google credentials are configured.
// It transcribes every clip to a fixed phrase and synthesizes short silent
// WAV clips, which keeps the full relay path exercisable offline.
type MockProvider struct {
	mu          sync.Mutex
	transcripts int
}

func NewMockProvider() *MockProvider { return &MockProvider{} }

func (p *MockProvider) Transcribe(_ context.Context, audio []byte, _ string) (string, error) {
	if _, err := ValidateClip(audio, 60*time.Second); err != nil {
		return "", err
	}
	p.mu.Lock()
	p.transcripts++
	p.mu.Unlock()
	return "simulated voice input", nil
}

func (p *MockProvider) Synthesize(_ context.Context, text string, _ string) ([]byte, error) {
	// Roughly 20ms of silence per character, so longer text yields longer clips.
	const sampleRate = 16000
	samples := len(text) * sampleRate / 50
	if samples == 0 {
		samples = sampleRate / 50
	}
	return EncodeWAVPCM16LE(make([]byte, samples*2), sampleRate), nil
}

// Transcripts returns how many clips have been transcribed.
func (p *MockProvider) Transcripts() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.transcripts
}
