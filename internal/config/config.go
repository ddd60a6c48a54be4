package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config contains all runtime settings for the companion chat service.
type Config struct {
	BindAddr                 string
	ShutdownTimeout          time.Duration
	SessionInactivityTimeout time.Duration
	SessionCookieName        string
	MetricsNamespace         string

	AllowAnyOrigin bool

	BrainMode        string
	OpenAIAPIKey     string
	OpenAIBaseURL    string
	CompletionModel  string
	ModelTemperature float64
	UpstreamTimeout  time.Duration

	VoiceMode                 string
	ElevenLabsAPIKey          string
	ElevenLabsBaseURL         string
	ElevenLabsVoiceID         string
	ElevenLabsModelID         string
	ElevenLabsStability       float64
	ElevenLabsSimilarityBoost float64

	HistoryWindow int
	PersonaPath   string
	AudioDir      string

	DatabaseURL string
}

// Load reads environment variables and applies safe defaults.
func Load() (Config, error) {
	cfg := Config{
		BindAddr:          envOrDefault("APP_BIND_ADDR", ":8080"),
		MetricsNamespace:  envOrDefault("APP_METRICS_NAMESPACE", "ava"),
		SessionCookieName: envOrDefault("APP_SESSION_COOKIE", "ava_session"),
		AllowAnyOrigin:    false,
		BrainMode:         envOrDefault("AVA_BRAIN_MODE", "auto"),
		OpenAIAPIKey:      envTrimmed("OPENAI_API_KEY"),
		OpenAIBaseURL:     envTrimmed("OPENAI_BASE_URL"),
		CompletionModel:   envOrDefault("AVA_COMPLETION_MODEL", "gpt-3.5-turbo-instruct"),
		ModelTemperature:  0.5,
		VoiceMode:         envOrDefault("AVA_VOICE_MODE", "auto"),
		ElevenLabsAPIKey:  envTrimmed("ELEVENLABS_API_KEY"),
		ElevenLabsBaseURL: envOrDefault("ELEVENLABS_BASE_URL", "https://api.elevenlabs.io"),
		// Default to the Rachel premade voice, matching the original AVA deployment.
		ElevenLabsVoiceID:         envOrDefault("ELEVENLABS_VOICE_ID", "21m00Tcm4TlvDq8ikWAM"),
		ElevenLabsModelID:         envOrDefault("ELEVENLABS_MODEL_ID", "eleven_monolingual_v1"),
		ElevenLabsStability:       0,
		ElevenLabsSimilarityBoost: 0,
		HistoryWindow:             2,
		PersonaPath:               envTrimmed("AVA_PERSONA_PATH"),
		AudioDir:                  envOrDefault("AVA_AUDIO_DIR", "data/audio"),
		DatabaseURL:               envTrimmed("DATABASE_URL"),
		ShutdownTimeout:           15 * time.Second,
		SessionInactivityTimeout:  30 * time.Minute,
		UpstreamTimeout:           30 * time.Second,
	}

	var err error
	cfg.ShutdownTimeout, err = durationFromEnv("APP_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.SessionInactivityTimeout, err = durationFromEnv("APP_SESSION_INACTIVITY_TIMEOUT", cfg.SessionInactivityTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.UpstreamTimeout, err = durationFromEnv("AVA_UPSTREAM_TIMEOUT", cfg.UpstreamTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.AllowAnyOrigin, err = boolFromEnv("APP_ALLOW_ANY_ORIGIN", cfg.AllowAnyOrigin)
	if err != nil {
		return Config{}, err
	}
	cfg.HistoryWindow, err = intFromEnv("AVA_HISTORY_WINDOW", cfg.HistoryWindow)
	if err != nil {
		return Config{}, err
	}
	cfg.ModelTemperature, err = floatFromEnv("AVA_MODEL_TEMPERATURE", cfg.ModelTemperature)
	if err != nil {
		return Config{}, err
	}
	cfg.ElevenLabsStability, err = floatFromEnv("ELEVENLABS_STABILITY", cfg.ElevenLabsStability)
	if err != nil {
		return Config{}, err
	}
	cfg.ElevenLabsSimilarityBoost, err = floatFromEnv("ELEVENLABS_SIMILARITY_BOOST", cfg.ElevenLabsSimilarityBoost)
	if err != nil {
		return Config{}, err
	}

	if cfg.SessionInactivityTimeout < 5*time.Second {
		return Config{}, fmt.Errorf("APP_SESSION_INACTIVITY_TIMEOUT must be at least 5s")
	}
	if cfg.UpstreamTimeout < time.Second {
		return Config{}, fmt.Errorf("AVA_UPSTREAM_TIMEOUT must be at least 1s")
	}
	if cfg.HistoryWindow <= 0 {
		return Config{}, fmt.Errorf("AVA_HISTORY_WINDOW must be positive")
	}
	if cfg.ModelTemperature < 0 || cfg.ModelTemperature > 2 {
		return Config{}, fmt.Errorf("AVA_MODEL_TEMPERATURE must be in [0, 2]")
	}
	if strings.TrimSpace(cfg.SessionCookieName) == "" {
		return Config{}, fmt.Errorf("APP_SESSION_COOKIE must not be empty")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func envTrimmed(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := envTrimmed(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return d, nil
}

func intFromEnv(key string, fallback int) (int, error) {
	v := envTrimmed(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return n, nil
}

func floatFromEnv(key string, fallback float64) (float64, error) {
	v := envTrimmed(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return f, nil
}

func boolFromEnv(key string, fallback bool) (bool, error) {
	v := strings.ToLower(envTrimmed(key))
	if v == "" {
		return fallback, nil
	}
	switch v {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("%s parse error: expected bool", key)
	}
}
