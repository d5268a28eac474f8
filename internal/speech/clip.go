package speech

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-audio/wav"
)

// ClipInfo describes a decoded clip. The relay trusts only what decoding
// reveals, never a declared format.
type ClipInfo struct {
	Duration   time.Duration
	SampleRate int
	Channels   int
}

// InspectClip decodes the WAV header of audio and returns its properties.
// Undecodable input fails with ErrAudioInvalid.
func InspectClip(audio []byte) (ClipInfo, error) {
	if len(audio) == 0 {
		return ClipInfo{}, fmt.Errorf("%w: empty clip", ErrAudioInvalid)
	}
	d := wav.NewDecoder(bytes.NewReader(audio))
	if !d.IsValidFile() {
		return ClipInfo{}, fmt.Errorf("%w: not a WAV stream", ErrAudioInvalid)
	}
	dur, err := d.Duration()
	if err != nil {
		return ClipInfo{}, fmt.Errorf("%w: %v", ErrAudioInvalid, err)
	}
	return ClipInfo{
		Duration:   dur,
		SampleRate: int(d.SampleRate),
		Channels:   int(d.NumChans),
	}, nil
}

// ValidateClip enforces the hard duration cap on a decoded clip.
func ValidateClip(audio []byte, maxDuration time.Duration) (ClipInfo, error) {
	info, err := InspectClip(audio)
	if err != nil {
		return ClipInfo{}, err
	}
	if maxDuration > 0 && info.Duration > maxDuration {
		return ClipInfo{}, fmt.Errorf("%w: %s > %s", ErrAudioTooLong,
			info.Duration.Round(time.Millisecond), maxDuration)
	}
	return info, nil
}
