package voice

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestElevenLabsSynthesizeSuccess(t *testing.T) {
	var gotPath, gotKey string
	var gotBody map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("xi-api-key")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte("mp3-bytes"))
	}))
	defer ts.Close()

	s := NewElevenLabsSynthesizer(Config{
		APIKey:   "xi-key",
		BaseURL:  ts.URL,
		VoiceID:  "voice-1",
		ModelID:  "eleven_monolingual_v1",
		Settings: Settings{Stability: 0, SimilarityBoost: 0},
	})

	res := s.Synthesize(context.Background(), "hello there")
	if res.Unavailable {
		t.Fatalf("Synthesize() unavailable: %s", res.Detail)
	}
	if string(res.Audio) != "mp3-bytes" {
		t.Fatalf("audio = %q, want upstream bytes", res.Audio)
	}
	if res.ContentType != "audio/mpeg" {
		t.Fatalf("content type = %q, want audio/mpeg", res.ContentType)
	}
	if gotPath != "/v1/text-to-speech/voice-1" {
		t.Fatalf("request path = %q", gotPath)
	}
	if gotKey != "xi-key" {
		t.Fatalf("xi-api-key header = %q", gotKey)
	}
	if gotBody["text"] != "hello there" {
		t.Fatalf("request text = %v", gotBody["text"])
	}
	if gotBody["model_id"] != "eleven_monolingual_v1" {
		t.Fatalf("request model_id = %v", gotBody["model_id"])
	}
	settings, ok := gotBody["voice_settings"].(map[string]any)
	if !ok {
		t.Fatalf("voice_settings missing from request body: %v", gotBody)
	}
	if _, ok := settings["stability"]; !ok {
		t.Fatalf("voice_settings.stability missing: %v", settings)
	}
	if _, ok := settings["similarity_boost"]; !ok {
		t.Fatalf("voice_settings.similarity_boost missing: %v", settings)
	}
}

func TestElevenLabsSynthesizeNon200IsUnavailable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer ts.Close()

	s := NewElevenLabsSynthesizer(Config{APIKey: "k", BaseURL: ts.URL})
	res := s.Synthesize(context.Background(), "hi")
	if !res.Unavailable {
		t.Fatalf("Synthesize() on 429 not unavailable")
	}
	if !strings.Contains(res.Detail, "429") {
		t.Fatalf("detail = %q, want status code mention", res.Detail)
	}
	if len(res.Audio) != 0 {
		t.Fatalf("audio = %q, want none", res.Audio)
	}
}

func TestElevenLabsSynthesizeEmptyBodyIsUnavailable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	s := NewElevenLabsSynthesizer(Config{APIKey: "k", BaseURL: ts.URL})
	res := s.Synthesize(context.Background(), "hi")
	if !res.Unavailable {
		t.Fatalf("Synthesize() with empty 200 body not unavailable")
	}
}

func TestElevenLabsSynthesizeTransportErrorIsUnavailable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close() // immediate close forces a connection error

	s := NewElevenLabsSynthesizer(Config{APIKey: "k", BaseURL: ts.URL})
	res := s.Synthesize(context.Background(), "hi")
	if !res.Unavailable {
		t.Fatalf("Synthesize() with dead upstream not unavailable")
	}
}

func TestNewSynthesizerModeSelection(t *testing.T) {
	if _, err := New(Config{Mode: "elevenlabs"}); err == nil {
		t.Fatalf("New(elevenlabs) without key succeeded, want error")
	}
	if _, err := New(Config{Mode: "bogus"}); err == nil {
		t.Fatalf("New(bogus) succeeded, want error")
	}

	s, err := New(Config{Mode: "off"})
	if err != nil || s != nil {
		t.Fatalf("New(off) = (%v, %v), want nil synthesizer", s, err)
	}

	s, err = New(Config{Mode: "auto"})
	if err != nil {
		t.Fatalf("New(auto) error = %v", err)
	}
	if _, ok := s.(*MockSynthesizer); !ok {
		t.Fatalf("New(auto) without key = %T, want *MockSynthesizer", s)
	}

	s, err = New(Config{Mode: "auto", APIKey: "k"})
	if err != nil {
		t.Fatalf("New(auto with key) error = %v", err)
	}
	if _, ok := s.(*ElevenLabsSynthesizer); !ok {
		t.Fatalf("New(auto with key) = %T, want *ElevenLabsSynthesizer", s)
	}
}

func TestSettingsClamping(t *testing.T) {
	s := NewElevenLabsSynthesizer(Config{APIKey: "k", Settings: Settings{Stability: 1.7, SimilarityBoost: -0.3}})
	if s.cfg.Settings.Stability != 1 {
		t.Fatalf("stability = %v, want clamped to 1", s.cfg.Settings.Stability)
	}
	if s.cfg.Settings.SimilarityBoost != 0 {
		t.Fatalf("similarity boost = %v, want clamped to 0", s.cfg.Settings.SimilarityBoost)
	}
}
