package voice

import (
	"context"
	"strings"
)

// MockSynthesizer is a local fallback used when ElevenLabs is not configured.
// It returns the reply text bytes as a fake audio payload.
type MockSynthesizer struct{}

func NewMockSynthesizer() *MockSynthesizer { return &MockSynthesizer{} }

func (s *MockSynthesizer) Synthesize(ctx context.Context, text string) Result {
	select {
	case <-ctx.Done():
		return unavailable(ctx.Err().Error())
	default:
	}
	if strings.TrimSpace(text) == "" {
		return unavailable("empty reply text")
	}
	return Result{Audio: []byte(text), ContentType: "text/plain"}
}
