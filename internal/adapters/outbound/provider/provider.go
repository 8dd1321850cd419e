// Package provider implements domain.CompletionProvider for the supported
// remote and local model services.
package provider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"

	"github.com/codejanitor/janitor/internal/domain"
)

const (
	groqBaseURL   = "https://api.groq.com/openai/v1"
	OllamaBaseURL = "http://localhost:11434"
)

// New builds the provider selected by cfg.Provider. Cloud providers need an
// API key; the config loader resolves it from the environment.
func New(cfg domain.AIConfig, logger *slog.Logger) (domain.CompletionProvider, error) {
	if logger == nil {
		logger = slog.Default()
	}
	model := cfg.Model
	if model == "" {
		model = domain.DefaultModel(cfg.Provider)
	}

	switch cfg.Provider {
	case domain.ProviderOpenAI, domain.ProviderGroq:
		baseURL := cfg.BaseURL
		if baseURL == "" && cfg.Provider == domain.ProviderGroq {
			baseURL = groqBaseURL
		}
		p, err := NewOpenAI(cfg.Provider, cfg.APIKey, baseURL, model, logger)
		if err != nil {
			return nil, err
		}
		return p, nil
	case domain.ProviderAnthropic:
		p, err := NewAnthropic(cfg.APIKey, cfg.BaseURL, model, logger)
		if err != nil {
			return nil, err
		}
		return p, nil
	case domain.ProviderOllama:
		return NewOllama(cfg.BaseURL, model, cfg.CallTimeout(), logger), nil
	default:
		return nil, fmt.Errorf("%w %q", domain.ErrUnknownProvider, cfg.Provider)
	}
}

// classify marks an HTTP status as permanent or transient. Rate limits and
// server errors are worth retrying; other client errors are not.
func classify(provider string, status int, err error) error {
	if status == 429 || status >= 500 || status == 0 {
		return fmt.Errorf("%s: %w", provider, err)
	}
	return fmt.Errorf("%s: %w: %w", provider, domain.ErrRequestRejected, err)
}

// transportError wraps errors raised before any HTTP status was received.
func transportError(provider string, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%s: request timed out: %w", provider, err)
	}
	return fmt.Errorf("%s: %w", provider, err)
}
