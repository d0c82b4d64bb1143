package extraction

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"loanops/internal/config"
)

var (
	ErrCredentialMissing = errors.New("extraction credential is not configured")
	ErrEmptyCompletion   = errors.New("completion returned no choices")
)

// Completer is the external natural-language capability: given a system
// instruction and a user message it returns the raw model response text.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// OpenAICompleter calls an OpenAI-compatible chat completion endpoint.
type OpenAICompleter struct {
	client *openai.Client
	model  string
}

// NewOpenAICompleter builds a completer from cfg. Outbound requests are traced
// through otelhttp.
func NewOpenAICompleter(cfg config.ExtractionConfig) (*OpenAICompleter, error) {
	if cfg.APIKey == "" {
		return nil, ErrCredentialMissing
	}
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	oc.HTTPClient = &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   time.Duration(cfg.TimeoutSec) * time.Second,
	}

	model := cfg.Model
	if model == "" {
		model = openai.GPT4o
	}
	return &OpenAICompleter{client: openai.NewClientWithConfig(oc), model: model}, nil
}

func (c *OpenAICompleter) Complete(ctx context.Context, system, user string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	return resp.Choices[0].Message.Content, nil
}
