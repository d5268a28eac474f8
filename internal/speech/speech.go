package speech

import (
	"context"
	"errors"
)

// Transcriber converts one bounded audio clip to text in the given language.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, lang string) (string, error)
}

// Synthesizer renders text as audio in the given language.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, lang string) ([]byte, error)
}

var (
	ErrAudioInvalid = errors.New("audio clip is not decodable")
	ErrAudioTooLong = errors.New("audio clip exceeds duration limit")
)
