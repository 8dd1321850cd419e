package provider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"

	"github.com/codejanitor/janitor/internal/domain"
)

// OpenAI talks to the OpenAI chat completions API or any compatible
// endpoint, which is how Groq is served.
type OpenAI struct {
	name   string
	model  string
	client *openai.Client
	logger *slog.Logger
}

func NewOpenAI(name, apiKey, baseURL, model string, logger *slog.Logger) (*OpenAI, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%s: %w", name, domain.ErrMissingAPIKey)
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OpenAI{
		name:   name,
		model:  model,
		client: openai.NewClientWithConfig(cfg),
		logger: logger,
	}, nil
}

func (p *OpenAI) Name() string { return p.name }

func (p *OpenAI) Complete(ctx context.Context, prompt string, opts domain.CompletionOptions) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: "You are a code refactoring assistant. Reply with a single fenced code block."},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   opts.MaxTokens,
		Temperature: float32(opts.Temperature),
	}

	p.logger.Debug("requesting completion", "provider", p.name, "model", p.model)
	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", p.wrap(err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%s: %w", p.name, domain.ErrEmptyResponse)
	}
	return resp.Choices[0].Message.Content, nil
}

// Health lists the available models, which needs a valid key.
func (p *OpenAI) Health(ctx context.Context) error {
	if _, err := p.client.ListModels(ctx); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrProviderUnavailable, p.wrap(err))
	}
	return nil
}

func (p *OpenAI) wrap(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return classify(p.name, apiErr.HTTPStatusCode, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return classify(p.name, reqErr.HTTPStatusCode, err)
	}
	return transportError(p.name, err)
}
