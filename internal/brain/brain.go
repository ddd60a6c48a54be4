// Package brain bridges the companion runtime with an external language model.
package brain

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Brain produces the assistant reply for a fully composed prompt.
type Brain interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// UpstreamError reports a failed language model call: a non-success status,
// a timeout, or a transport failure. It is fatal to the turn and never retried.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s upstream status %d: %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s upstream call failed: %v", e.Provider, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// IsUpstream reports whether err is (or wraps) an UpstreamError.
func IsUpstream(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}

// Config controls brain construction.
type Config struct {
	Mode        string
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
}

// New builds a Brain for the configured mode. "auto" prefers OpenAI when a
// key is present and falls back to the deterministic mock.
func New(cfg Config) (Brain, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.Mode))
	if mode == "" {
		mode = "auto"
	}

	switch mode {
	case "auto":
		if strings.TrimSpace(cfg.APIKey) != "" {
			return NewOpenAIBrain(cfg), nil
		}
		return NewMockBrain(), nil
	case "openai":
		if strings.TrimSpace(cfg.APIKey) == "" {
			return nil, errors.New("OPENAI_API_KEY is required for openai brain mode")
		}
		return NewOpenAIBrain(cfg), nil
	case "mock":
		return NewMockBrain(), nil
	default:
		return nil, fmt.Errorf("unsupported brain mode %q", cfg.Mode)
	}
}
