package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Inbound frames carry exactly one of "language" or "audio". Each frame is
// decoded once into a tagged variant so the relay switches on concrete types
// instead of probing raw JSON.
type LanguageSelect struct {
	Language string
}

type AudioMessage struct {
	// Audio is the base64-encoded clip exactly as received; the relay decodes
	// it before handing it to the pipeline.
	Audio string
}

var ErrMalformed = errors.New("malformed message")

// ParseClientMessage decodes one inbound frame into LanguageSelect or
// AudioMessage. Frames carrying neither field, or an empty audio payload, are
// rejected as malformed.
func ParseClientMessage(raw []byte) (any, error) {
	var frame struct {
		Language *string `json:"language"`
		Audio    *string `json:"audio"`
	}
	if err := json.Unmarshal(raw, &frame); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	switch {
	case frame.Language != nil:
		return LanguageSelect{Language: *frame.Language}, nil
	case frame.Audio != nil:
		if *frame.Audio == "" {
			return nil, fmt.Errorf("%w: empty audio payload", ErrMalformed)
		}
		return AudioMessage{Audio: *frame.Audio}, nil
	default:
		return nil, fmt.Errorf("%w: expected a language or audio field", ErrMalformed)
	}
}

// StatusReply acknowledges a successful control message.
type StatusReply struct {
	Status string `json:"status"`
}

// ErrorReply reports a protocol, validation, or pipeline failure to the
// connection that caused it.
type ErrorReply struct {
	Error string `json:"error"`
}

// TranslatedAudio is the server push delivered to the counterpart connection.
type TranslatedAudio struct {
	Audio    string `json:"audio"`
	Language string `json:"language"`
}

// LanguageSet builds the acknowledgement for a successful language selection.
func LanguageSet(lang string) StatusReply {
	return StatusReply{Status: "Language set to " + lang}
}
