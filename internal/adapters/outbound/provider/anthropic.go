package provider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/codejanitor/janitor/internal/domain"
)

// Anthropic talks to the Anthropic Messages API. The SDK's own retries are
// disabled; RefactorService owns the retry policy.
type Anthropic struct {
	model  anthropic.Model
	client anthropic.Client
	logger *slog.Logger
}

func NewAnthropic(apiKey, baseURL, model string, logger *slog.Logger) (*Anthropic, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%s: %w", domain.ProviderAnthropic, domain.ErrMissingAPIKey)
	}
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Anthropic{
		model:  anthropic.Model(model),
		client: anthropic.NewClient(opts...),
		logger: logger,
	}, nil
}

func (p *Anthropic) Name() string { return domain.ProviderAnthropic }

func (p *Anthropic) Complete(ctx context.Context, prompt string, opts domain.CompletionOptions) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     p.model,
		MaxTokens: int64(opts.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
		Temperature: anthropic.Float(opts.Temperature),
	}

	p.logger.Debug("requesting completion", "provider", p.Name(), "model", string(p.model))
	message, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return "", p.wrap(err)
	}

	for _, block := range message.Content {
		if block.Type == "text" && block.Text != "" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("%s: %w", p.Name(), domain.ErrEmptyResponse)
}

// Health sends a one-token request.
func (p *Anthropic) Health(ctx context.Context) error {
	_, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     p.model,
		MaxTokens: 1,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock("ping")),
		},
	})
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrProviderUnavailable, p.wrap(err))
	}
	return nil
}

func (p *Anthropic) wrap(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return classify(p.Name(), apiErr.StatusCode, err)
	}
	return transportError(p.Name(), err)
}
