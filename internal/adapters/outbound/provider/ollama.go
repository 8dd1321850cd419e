package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/codejanitor/janitor/internal/domain"
)

// Ollama talks to a local Ollama server over its HTTP API.
type Ollama struct {
	baseURL string
	model   string
	http    *http.Client
	logger  *slog.Logger
}

func NewOllama(baseURL, model string, timeout time.Duration, logger *slog.Logger) *Ollama {
	if baseURL == "" {
		baseURL = OllamaBaseURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Ollama{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (p *Ollama) Name() string { return domain.ProviderOllama }

type ollamaRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options"`
}

type ollamaOptions struct {
	NumPredict  int     `json:"num_predict,omitempty"`
	Temperature float64 `json:"temperature"`
}

type ollamaResponse struct {
	Response string `json:"response"`
	Error    string `json:"error"`
}

func (p *Ollama) Complete(ctx context.Context, prompt string, opts domain.CompletionOptions) (string, error) {
	body, err := json.Marshal(ollamaRequest{
		Model:  p.model,
		Prompt: prompt,
		Options: ollamaOptions{
			NumPredict:  opts.MaxTokens,
			Temperature: opts.Temperature,
		},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	p.logger.Debug("requesting completion", "provider", p.Name(), "model", p.model)
	resp, err := p.http.Do(req)
	if err != nil {
		return "", transportError(p.Name(), err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", transportError(p.Name(), err)
	}

	var out ollamaResponse
	jsonErr := json.Unmarshal(data, &out)
	if resp.StatusCode != http.StatusOK {
		msg := strings.TrimSpace(string(data))
		if jsonErr == nil && out.Error != "" {
			msg = out.Error
		}
		return "", classify(p.Name(), resp.StatusCode, fmt.Errorf("status %d: %s", resp.StatusCode, msg))
	}
	if jsonErr != nil {
		return "", fmt.Errorf("%s: decoding response: %w", p.Name(), jsonErr)
	}
	if out.Response == "" {
		return "", fmt.Errorf("%s: %w", p.Name(), domain.ErrEmptyResponse)
	}
	return out.Response, nil
}

func (p *Ollama) Health(ctx context.Context) error {
	if !Reachable(ctx, p.baseURL) {
		return fmt.Errorf("%w: no Ollama server at %s", domain.ErrProviderUnavailable, p.baseURL)
	}
	return nil
}

// Reachable reports whether an Ollama server answers on baseURL within two
// seconds.
func Reachable(ctx context.Context, baseURL string) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(baseURL, "/")+"/api/tags", nil)
	if err != nil {
		return false
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode == http.StatusOK
}
