// Package chat implements the conversation turn pipeline: prompt composition
// over a rolling per-session memory window, a language model call, and an
// optional speech synthesis step.
package chat

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/antoniostano/ava/internal/audio"
	"github.com/antoniostano/ava/internal/brain"
	"github.com/antoniostano/ava/internal/observability"
	"github.com/antoniostano/ava/internal/voice"
)

// TurnResult is the outcome of one successful turn. AudioPath is empty when
// synthesis was unavailable or disabled.
type TurnResult struct {
	TurnID    string `json:"turn_id"`
	SessionID string `json:"session_id"`
	Reply     string `json:"response"`
	AudioPath string `json:"audio_file,omitempty"`
}

// Orchestrator wires the composer, memory, brain and synthesizer into one
// request/response cycle.
type Orchestrator struct {
	composer Composer
	windows  *Windows
	brain    brain.Brain
	synth    voice.Synthesizer
	store    *audio.Store
	metrics  *observability.Metrics
	timeout  time.Duration

	// AudioRoute is the URL path clients use to fetch the stored artifact.
	AudioRoute string
}

func NewOrchestrator(
	composer Composer,
	windows *Windows,
	b brain.Brain,
	synth voice.Synthesizer,
	store *audio.Store,
	metrics *observability.Metrics,
	timeout time.Duration,
) *Orchestrator {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Orchestrator{
		composer:   composer,
		windows:    windows,
		brain:      b,
		synth:      synth,
		store:      store,
		metrics:    metrics,
		timeout:    timeout,
		AudioRoute: "/v1/chat/audio",
	}
}

// Windows exposes the memory manager so session teardown can drop state.
func (o *Orchestrator) Windows() *Windows { return o.windows }

// RunTurn executes one conversation turn for the session. Memory is only
// updated once a reply exists; a failed completion leaves the window
// untouched. Synthesis failures degrade to a text-only result.
func (o *Orchestrator) RunTurn(ctx context.Context, sessionID, input string) (TurnResult, error) {
	turnID := uuid.NewString()
	started := time.Now()

	prompt := o.composer.Compose(o.windows.Render(sessionID), input)

	completeCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()
	reply, err := o.brain.Complete(completeCtx, prompt)
	if err != nil {
		o.metrics.Turns.WithLabelValues("upstream_error").Inc()
		o.metrics.ProviderErrors.WithLabelValues("brain", "complete").Inc()
		return TurnResult{}, fmt.Errorf("complete turn %s: %w", turnID, err)
	}

	o.windows.Append(sessionID, input, reply)

	result := TurnResult{TurnID: turnID, SessionID: sessionID, Reply: reply}
	result.AudioPath = o.synthesize(ctx, sessionID, reply)

	o.metrics.Turns.WithLabelValues("completed").Inc()
	o.metrics.ObserveTurnLatency(time.Since(started))
	return result, nil
}

// synthesize attempts the optional audio step and returns the retrieval path,
// or "" when no audio was produced.
func (o *Orchestrator) synthesize(ctx context.Context, sessionID, reply string) string {
	if o.synth == nil {
		o.metrics.Synthesis.WithLabelValues("disabled").Inc()
		return ""
	}

	synthCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()
	res := o.synth.Synthesize(synthCtx, reply)
	if res.Unavailable {
		o.metrics.Synthesis.WithLabelValues("unavailable").Inc()
		o.metrics.ProviderErrors.WithLabelValues("voice", "synthesize").Inc()
		log.Printf("session %s: synthesis unavailable: %s", sessionID, res.Detail)
		return ""
	}

	if err := o.store.Put(res.Audio, res.ContentType); err != nil {
		o.metrics.Synthesis.WithLabelValues("store_error").Inc()
		log.Printf("session %s: storing audio artifact failed: %v", sessionID, err)
		return ""
	}

	o.metrics.Synthesis.WithLabelValues("ok").Inc()
	return o.AudioRoute
}
