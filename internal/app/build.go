// Package app assembles the service from its parts so both the server binary
// and tests can construct a fully wired instance.
package app

import (
	"context"
	"fmt"
	"log"

	"github.com/antoniostano/ava/internal/audio"
	"github.com/antoniostano/ava/internal/brain"
	"github.com/antoniostano/ava/internal/chat"
	"github.com/antoniostano/ava/internal/config"
	"github.com/antoniostano/ava/internal/httpapi"
	"github.com/antoniostano/ava/internal/observability"
	"github.com/antoniostano/ava/internal/persona"
	"github.com/antoniostano/ava/internal/session"
	"github.com/antoniostano/ava/internal/users"
	"github.com/antoniostano/ava/internal/voice"
)

type BuildResult struct {
	Config       config.Config
	API          *httpapi.Server
	Sessions     *session.Manager
	Orchestrator *chat.Orchestrator
	Metrics      *observability.Metrics

	// Cleanup should be called on shutdown to release external resources.
	Cleanup func() error
}

func Build(ctx context.Context, cfg config.Config) (*BuildResult, error) {
	metrics := observability.NewMetrics(cfg.MetricsNamespace)

	spec, err := persona.Load(cfg.PersonaPath)
	if err != nil {
		return nil, fmt.Errorf("persona load failed: %w", err)
	}

	userRepo, err := users.NewRepository(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("user repository init failed: %w", err)
	}

	b, err := brain.New(brain.Config{
		Mode:        cfg.BrainMode,
		APIKey:      cfg.OpenAIAPIKey,
		BaseURL:     cfg.OpenAIBaseURL,
		Model:       cfg.CompletionModel,
		Temperature: cfg.ModelTemperature,
	})
	if err != nil {
		_ = userRepo.Close()
		return nil, fmt.Errorf("brain init failed: %w", err)
	}
	if _, ok := b.(*brain.MockBrain); ok {
		log.Printf("brain: mock (no OPENAI_API_KEY configured)")
	} else {
		log.Printf("brain: openai model %s", cfg.CompletionModel)
	}

	synth, err := voice.New(voice.Config{
		Mode:    cfg.VoiceMode,
		APIKey:  cfg.ElevenLabsAPIKey,
		BaseURL: cfg.ElevenLabsBaseURL,
		VoiceID: cfg.ElevenLabsVoiceID,
		ModelID: cfg.ElevenLabsModelID,
		Settings: voice.Settings{
			Stability:       cfg.ElevenLabsStability,
			SimilarityBoost: cfg.ElevenLabsSimilarityBoost,
		},
	})
	if err != nil {
		_ = userRepo.Close()
		return nil, fmt.Errorf("synthesizer init failed: %w", err)
	}
	switch synth.(type) {
	case nil:
		log.Printf("voice: disabled")
	case *voice.MockSynthesizer:
		log.Printf("voice: mock (no ELEVENLABS_API_KEY configured)")
	default:
		log.Printf("voice: elevenlabs voice %s", cfg.ElevenLabsVoiceID)
	}

	store, err := audio.NewStore(cfg.AudioDir)
	if err != nil {
		_ = userRepo.Close()
		return nil, fmt.Errorf("audio store init failed: %w", err)
	}

	windows := chat.NewWindows(cfg.HistoryWindow)

	sessions := session.NewManager(cfg.SessionInactivityTimeout)
	sessions.SetExpireHook(func(s *session.Session) {
		windows.Drop(s.Token)
		metrics.SessionEvents.WithLabelValues("expired").Inc()
		metrics.ActiveSessions.Set(float64(sessions.ActiveCount()))
	})

	orchestrator := chat.NewOrchestrator(
		chat.NewComposer(spec.Text()),
		windows,
		b,
		synth,
		store,
		metrics,
		cfg.UpstreamTimeout,
	)

	api := httpapi.New(cfg, sessions, userRepo, orchestrator, windows, store, metrics)

	return &BuildResult{
		Config:       cfg,
		API:          api,
		Sessions:     sessions,
		Orchestrator: orchestrator,
		Metrics:      metrics,
		Cleanup:      userRepo.Close,
	}, nil
}
