package brain

import (
	"context"
	"errors"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIBrain completes prompts through the OpenAI text completion API.
type OpenAIBrain struct {
	client      *openai.Client
	model       string
	temperature float32
}

func NewOpenAIBrain(cfg Config) *OpenAIBrain {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if strings.TrimSpace(cfg.BaseURL) != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = openai.GPT3Dot5TurboInstruct
	}

	return &OpenAIBrain{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       model,
		temperature: float32(cfg.Temperature),
	}
}

func (b *OpenAIBrain) Complete(ctx context.Context, prompt string) (string, error) {
	res, err := b.client.CreateCompletion(ctx, openai.CompletionRequest{
		Model:       b.model,
		Prompt:      prompt,
		Temperature: b.temperature,
	})
	if err != nil {
		return "", wrapOpenAIError(err)
	}
	if len(res.Choices) == 0 {
		return "", &UpstreamError{Provider: "openai", Err: errNoChoices}
	}
	// The model continues the trailing "AVA:" line; surrounding whitespace is
	// an artifact of the completion format, not part of the reply.
	return strings.TrimSpace(res.Choices[0].Text), nil
}

var errNoChoices = errors.New("completion returned no choices")

func wrapOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &UpstreamError{Provider: "openai", StatusCode: apiErr.HTTPStatusCode, Err: err}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &UpstreamError{Provider: "openai", StatusCode: reqErr.HTTPStatusCode, Err: err}
	}
	return &UpstreamError{Provider: "openai", Err: err}
}
