// Package voice converts assistant reply text into an audio artifact through
// an external text-to-speech service. Synthesis failures are never fatal to a
// turn; they surface as an explicit unavailable result instead.
package voice

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Result is the outcome of one synthesis attempt. Either Audio holds the raw
// payload, or Unavailable is set with a short detail of what went wrong.
type Result struct {
	Audio       []byte
	ContentType string
	Unavailable bool
	Detail      string
}

// Synthesizer turns reply text into audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) Result
}

// Settings are the fixed voice parameters sent with every request.
type Settings struct {
	Stability       float64
	SimilarityBoost float64
}

// Config controls synthesizer construction.
type Config struct {
	Mode     string
	APIKey   string
	BaseURL  string
	VoiceID  string
	ModelID  string
	Settings Settings
}

// New builds a Synthesizer for the configured mode. "auto" uses ElevenLabs
// when a key is present, otherwise the mock. "off" disables synthesis and
// returns nil.
func New(cfg Config) (Synthesizer, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.Mode))
	if mode == "" {
		mode = "auto"
	}

	switch mode {
	case "auto":
		if strings.TrimSpace(cfg.APIKey) != "" {
			return NewElevenLabsSynthesizer(cfg), nil
		}
		return NewMockSynthesizer(), nil
	case "elevenlabs":
		if strings.TrimSpace(cfg.APIKey) == "" {
			return nil, errors.New("ELEVENLABS_API_KEY is required for elevenlabs voice mode")
		}
		return NewElevenLabsSynthesizer(cfg), nil
	case "mock":
		return NewMockSynthesizer(), nil
	case "off":
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported voice mode %q", cfg.Mode)
	}
}
