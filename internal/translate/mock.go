package translate

import "context"

// MockTranslator echoes the source text. Paired with the mock speech engines
// it keeps the relay path runnable without any external credentials.
type MockTranslator struct{}

func NewMockTranslator() *MockTranslator { return &MockTranslator{} }

func (t *MockTranslator) Translate(_ context.Context, text, _, _ string) (string, error) {
	return text, nil
}
