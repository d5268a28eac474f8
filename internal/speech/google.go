package speech

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dobhashi/dobhashi/internal/language"
	"github.com/dobhashi/dobhashi/internal/lexicon"
	"github.com/dobhashi/dobhashi/internal/upstream"
)

const (
	defaultSTTEndpoint = "https://speech.googleapis.com/v1/speech:recognize"
	defaultTTSEndpoint = "https://texttospeech.googleapis.com/v1/text:synthesize"
)

type GoogleConfig struct {
	APIKey          string
	STTEndpoint     string
	TTSEndpoint     string
	CallTimeout     time.Duration
	MaxClipDuration time.Duration
}

// GoogleProvider implements Transcriber and Synthesizer against the Google
// Cloud Speech and Text-to-Speech REST APIs. Request shaping is per language:
// locale code, phrase-boost hints from the lexicon, and for English an
// enhanced model with engine-side transcript normalization.
type GoogleProvider struct {
	cfg     GoogleConfig
	lexicon lexicon.Store
	client  *http.Client
}

func NewGoogleProvider(cfg GoogleConfig, lex lexicon.Store) *GoogleProvider {
	if strings.TrimSpace(cfg.STTEndpoint) == "" {
		cfg.STTEndpoint = defaultSTTEndpoint
	}
	if strings.TrimSpace(cfg.TTSEndpoint) == "" {
		cfg.TTSEndpoint = defaultTTSEndpoint
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = 30 * time.Second
	}
	if cfg.MaxClipDuration <= 0 {
		cfg.MaxClipDuration = 60 * time.Second
	}
	return &GoogleProvider{
		cfg:     cfg,
		lexicon: lex,
		client:  &http.Client{Timeout: cfg.CallTimeout},
	}
}

func locale(lang string) string {
	switch lang {
	case language.Hindi:
		return "hi-IN"
	default:
		return "en-US"
	}
}

// voiceProfile maps a language to its synthesis voice.
func voiceProfile(lang string) (localeCode, voiceName string) {
	switch lang {
	case language.Hindi:
		return "hi-IN", "hi-IN-Neural2-D"
	default:
		return "en-US", "en-US-Neural2-J"
	}
}

type speechContext struct {
	Phrases []string `json:"phrases"`
	Boost   float64  `json:"boost"`
}

type transcriptNormalization struct {
	Entries []normalizationEntry `json:"entries"`
}

type normalizationEntry struct {
	Search  string `json:"search"`
	Replace string `json:"replace"`
}

type recognitionConfig struct {
	Encoding                   string                   `json:"encoding"`
	SampleRateHertz            int                      `json:"sampleRateHertz"`
	LanguageCode               string                   `json:"languageCode"`
	AudioChannelCount          int                      `json:"audioChannelCount"`
	EnableAutomaticPunctuation bool                     `json:"enableAutomaticPunctuation"`
	UseEnhanced                bool                     `json:"useEnhanced,omitempty"`
	Model                      string                   `json:"model,omitempty"`
	SpeechContexts             []speechContext          `json:"speechContexts,omitempty"`
	TranscriptNormalization    *transcriptNormalization `json:"transcriptNormalization,omitempty"`
}

type recognizeRequest struct {
	Config recognitionConfig `json:"config"`
	Audio  struct {
		Content string `json:"content"`
	} `json:"audio"`
}

type recognizeResponse struct {
	Results []struct {
		Alternatives []struct {
			Transcript string `json:"transcript"`
		} `json:"alternatives"`
	} `json:"results"`
}

func (p *GoogleProvider) Transcribe(ctx context.Context, audio []byte, lang string) (string, error) {
	info, err := ValidateClip(audio, p.cfg.MaxClipDuration)
	if err != nil {
		return "", err
	}

	cfg := recognitionConfig{
		Encoding:                   "LINEAR16",
		SampleRateHertz:            info.SampleRate,
		LanguageCode:               locale(lang),
		AudioChannelCount:          info.Channels,
		EnableAutomaticPunctuation: true,
	}

	phrases := p.lexicon.Phrases(lang)
	if lang == language.English {
		cfg.UseEnhanced = true
		cfg.Model = "latest_long"
		cfg.SpeechContexts = []speechContext{{Phrases: phrases, Boost: 40}}
		if entries := toNormalizationEntries(p.lexicon.Rules(lang)); len(entries) > 0 {
			cfg.TranscriptNormalization = &transcriptNormalization{Entries: entries}
		}
	} else if len(phrases) > 0 {
		cfg.SpeechContexts = []speechContext{{Phrases: phrases, Boost: 15}}
	}

	req := recognizeRequest{Config: cfg}
	req.Audio.Content = base64.StdEncoding.EncodeToString(audio)

	var resp recognizeResponse
	if err := p.postJSON(ctx, "stt", p.cfg.STTEndpoint, req, &resp); err != nil {
		return "", err
	}
	if len(resp.Results) == 0 || len(resp.Results[0].Alternatives) == 0 {
		return "", &upstream.Error{Service: "stt", Status: http.StatusOK, Detail: "no transcription alternatives returned"}
	}
	return resp.Results[0].Alternatives[0].Transcript, nil
}

type synthesizeRequest struct {
	Input struct {
		Text string `json:"text"`
	} `json:"input"`
	Voice struct {
		LanguageCode string `json:"languageCode"`
		Name         string `json:"name"`
	} `json:"voice"`
	AudioConfig struct {
		AudioEncoding string  `json:"audioEncoding"`
		SpeakingRate  float64 `json:"speakingRate"`
		Pitch         float64 `json:"pitch"`
	} `json:"audioConfig"`
}

type synthesizeResponse struct {
	AudioContent string `json:"audioContent"`
}

func (p *GoogleProvider) Synthesize(ctx context.Context, text string, lang string) ([]byte, error) {
	var req synthesizeRequest
	req.Input.Text = text
	req.Voice.LanguageCode, req.Voice.Name = voiceProfile(lang)
	req.AudioConfig.AudioEncoding = "MP3"
	req.AudioConfig.SpeakingRate = 1.0
	req.AudioConfig.Pitch = 0.0

	var resp synthesizeResponse
	if err := p.postJSON(ctx, "tts", p.cfg.TTSEndpoint, req, &resp); err != nil {
		return nil, err
	}
	out, err := base64.StdEncoding.DecodeString(resp.AudioContent)
	if err != nil {
		return nil, &upstream.Error{Service: "tts", Status: http.StatusOK, Detail: "undecodable audio content: " + err.Error()}
	}
	return out, nil
}

func (p *GoogleProvider) postJSON(ctx context.Context, service, endpoint string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", service, err)
	}

	callCtx, cancel := context.WithTimeout(ctx, p.cfg.CallTimeout)
	defer cancel()

	url := endpoint + "?key=" + p.cfg.APIKey
	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s request: %w", service, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return upstream.Wrap(service, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return upstream.Wrap(service, err)
	}
	if resp.StatusCode != http.StatusOK {
		return &upstream.Error{Service: service, Status: resp.StatusCode, Detail: strings.TrimSpace(string(data))}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &upstream.Error{Service: service, Status: resp.StatusCode, Detail: "undecodable response: " + err.Error()}
	}
	return nil
}

func toNormalizationEntries(rules []lexicon.Rule) []normalizationEntry {
	entries := make([]normalizationEntry, 0, len(rules))
	for _, r := range rules {
		entries = append(entries, normalizationEntry{Search: r.Search, Replace: r.Replace})
	}
	return entries
}
