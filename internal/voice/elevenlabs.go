package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ElevenLabsSynthesizer calls the ElevenLabs text-to-speech REST endpoint.
type ElevenLabsSynthesizer struct {
	cfg    Config
	client *http.Client
}

func NewElevenLabsSynthesizer(cfg Config) *ElevenLabsSynthesizer {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = "https://api.elevenlabs.io"
	}
	if strings.TrimSpace(cfg.VoiceID) == "" {
		// Rachel, the premade voice the original deployment shipped with.
		cfg.VoiceID = "21m00Tcm4TlvDq8ikWAM"
	}
	if strings.TrimSpace(cfg.ModelID) == "" {
		cfg.ModelID = "eleven_monolingual_v1"
	}
	cfg.Settings.Stability = clamp01(cfg.Settings.Stability)
	cfg.Settings.SimilarityBoost = clamp01(cfg.Settings.SimilarityBoost)

	return &ElevenLabsSynthesizer{
		cfg: cfg,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type ttsRequest struct {
	Text          string           `json:"text"`
	ModelID       string           `json:"model_id"`
	VoiceSettings ttsVoiceSettings `json:"voice_settings"`
}

type ttsVoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

func (s *ElevenLabsSynthesizer) Synthesize(ctx context.Context, text string) Result {
	endpoint, err := s.endpoint()
	if err != nil {
		return unavailable(fmt.Sprintf("build endpoint: %v", err))
	}

	payload, err := json.Marshal(ttsRequest{
		Text:    text,
		ModelID: s.cfg.ModelID,
		VoiceSettings: ttsVoiceSettings{
			Stability:       s.cfg.Settings.Stability,
			SimilarityBoost: s.cfg.Settings.SimilarityBoost,
		},
	})
	if err != nil {
		return unavailable(fmt.Sprintf("marshal request: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return unavailable(fmt.Sprintf("create request: %v", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("xi-api-key", s.cfg.APIKey)

	res, err := s.client.Do(req)
	if err != nil {
		return unavailable(fmt.Sprintf("send request: %v", err))
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return unavailable(fmt.Sprintf("status %d: %s", res.StatusCode, strings.TrimSpace(string(detail))))
	}

	audio, err := io.ReadAll(res.Body)
	if err != nil {
		return unavailable(fmt.Sprintf("read audio body: %v", err))
	}
	if len(audio) == 0 {
		return unavailable("empty audio body")
	}

	contentType := res.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "audio/mpeg"
	}
	return Result{Audio: audio, ContentType: contentType}
}

func (s *ElevenLabsSynthesizer) endpoint() (string, error) {
	u, err := url.Parse(strings.TrimRight(s.cfg.BaseURL, "/") + "/v1/text-to-speech/" + url.PathEscape(s.cfg.VoiceID))
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("optimize_streaming_latency", "0")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func unavailable(detail string) Result {
	return Result{Unavailable: true, Detail: detail}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
