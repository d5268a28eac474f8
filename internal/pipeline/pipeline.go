package pipeline

import (
	"context"

	"github.com/dobhashi/dobhashi/internal/speech"
	"github.com/dobhashi/dobhashi/internal/translate"
)

// Stage names, reported with every pipeline failure.
const (
	StageTranscribe = "transcribe"
	StageTranslate  = "translate"
	StageSynthesize = "synthesize"
)

// StageError wraps a stage failure with the stage that produced it. Any stage
// failure aborts the whole run; there are no partial results.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string { return e.Stage + ": " + e.Err.Error() }

func (e *StageError) Unwrap() error { return e.Err }

// Runner sequences one audio message through transcribe, translate, and
// synthesize. Run is network-bound and may take seconds; callers run it in
// its own goroutine and must not hold any registry lock across it.
type Runner struct {
	transcriber speech.Transcriber
	translator  translate.Translator
	synthesizer speech.Synthesizer
}

func NewRunner(t speech.Transcriber, tr translate.Translator, s speech.Synthesizer) *Runner {
	return &Runner{transcriber: t, translator: tr, synthesizer: s}
}

func (r *Runner) Run(ctx context.Context, audio []byte, sourceLang, targetLang string) ([]byte, error) {
	transcript, err := r.transcriber.Transcribe(ctx, audio, sourceLang)
	if err != nil {
		return nil, &StageError{Stage: StageTranscribe, Err: err}
	}

	translated, err := r.translator.Translate(ctx, transcript, sourceLang, targetLang)
	if err != nil {
		return nil, &StageError{Stage: StageTranslate, Err: err}
	}

	out, err := r.synthesizer.Synthesize(ctx, translated, targetLang)
	if err != nil {
		return nil, &StageError{Stage: StageSynthesize, Err: err}
	}
	return out, nil
}
