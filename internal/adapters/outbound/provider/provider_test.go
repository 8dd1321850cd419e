package provider_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codejanitor/janitor/internal/adapters/outbound/provider"
	"github.com/codejanitor/janitor/internal/domain"
)

var opts = domain.CompletionOptions{MaxTokens: 256, Temperature: 0.2}

func TestNew_SelectsProvider(t *testing.T) {
	cfg := domain.DefaultConfig().AI

	for _, name := range []string{domain.ProviderOpenAI, domain.ProviderGroq, domain.ProviderAnthropic, domain.ProviderOllama} {
		cfg.Provider = name
		cfg.APIKey = "test-key"
		p, err := provider.New(cfg, nil)
		require.NoError(t, err, name)
		assert.Equal(t, name, p.Name())
	}
}

func TestNew_MissingKey(t *testing.T) {
	cfg := domain.DefaultConfig().AI
	cfg.APIKey = ""

	for _, name := range []string{domain.ProviderOpenAI, domain.ProviderGroq, domain.ProviderAnthropic} {
		cfg.Provider = name
		_, err := provider.New(cfg, nil)
		assert.ErrorIs(t, err, domain.ErrMissingAPIKey, name)
	}

	cfg.Provider = domain.ProviderOllama
	_, err := provider.New(cfg, nil)
	assert.NoError(t, err, "ollama needs no key")
}

func TestNew_UnknownProvider(t *testing.T) {
	cfg := domain.DefaultConfig().AI
	cfg.Provider = "mystery"

	_, err := provider.New(cfg, nil)
	assert.ErrorIs(t, err, domain.ErrUnknownProvider)
}

func TestOpenAI_Complete(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"c1","object":"chat.completion","created":1,"model":"gpt-4",
			"choices":[{"index":0,"message":{"role":"assistant","content":"`+"```python\\nx = 1\\n```"+`"},"finish_reason":"stop"}]}`)
	}))
	defer srv.Close()

	p, err := provider.NewOpenAI(domain.ProviderOpenAI, "sk-test", srv.URL+"/v1", "gpt-4", nil)
	require.NoError(t, err)

	out, err := p.Complete(context.Background(), "clean this", opts)
	require.NoError(t, err)
	assert.Equal(t, "```python\nx = 1\n```", out)
	assert.Equal(t, "gpt-4", got["model"])
	assert.EqualValues(t, 256, got["max_tokens"])
}

func TestOpenAI_ClientErrorIsRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":{"message":"bad key","type":"invalid_request_error"}}`)
	}))
	defer srv.Close()

	p, err := provider.NewOpenAI(domain.ProviderOpenAI, "sk-bad", srv.URL+"/v1", "gpt-4", nil)
	require.NoError(t, err)

	_, err = p.Complete(context.Background(), "x", opts)
	assert.ErrorIs(t, err, domain.ErrRequestRejected)
}

func TestOpenAI_ServerErrorIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, `{"error":{"message":"overloaded","type":"server_error"}}`)
	}))
	defer srv.Close()

	p, err := provider.NewOpenAI(domain.ProviderGroq, "gsk", srv.URL+"/v1", "llama", nil)
	require.NoError(t, err)

	_, err = p.Complete(context.Background(), "x", opts)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrRequestRejected)
}

func TestAnthropic_Complete(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "sk-ant", r.Header.Get("X-Api-Key"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"msg_1","type":"message","role":"assistant","model":"claude",
			"content":[{"type":"text","text":"refactored"}],
			"stop_reason":"end_turn","usage":{"input_tokens":3,"output_tokens":1}}`)
	}))
	defer srv.Close()

	p, err := provider.NewAnthropic("sk-ant", srv.URL, "claude", nil)
	require.NoError(t, err)

	out, err := p.Complete(context.Background(), "clean this", opts)
	require.NoError(t, err)
	assert.Equal(t, "refactored", out)
	assert.EqualValues(t, 256, got["max_tokens"])
	assert.InDelta(t, 0.2, got["temperature"], 0.0001)
}

func TestAnthropic_RateLimitIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, `{"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`)
	}))
	defer srv.Close()

	p, err := provider.NewAnthropic("sk-ant", srv.URL, "claude", nil)
	require.NoError(t, err)

	_, err = p.Complete(context.Background(), "x", opts)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrRequestRejected)
}

func TestOllama_Complete(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		_, _ = io.WriteString(w, `{"model":"llama3","response":"done","done":true}`)
	}))
	defer srv.Close()

	p := provider.NewOllama(srv.URL, "llama3", 5*time.Second, nil)
	out, err := p.Complete(context.Background(), "clean this", opts)
	require.NoError(t, err)
	assert.Equal(t, "done", out)
	assert.Equal(t, false, got["stream"])
	options := got["options"].(map[string]any)
	assert.EqualValues(t, 256, options["num_predict"])
}

func TestOllama_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":"model 'nope' not found"}`)
	}))
	defer srv.Close()

	p := provider.NewOllama(srv.URL, "nope", 5*time.Second, nil)
	_, err := p.Complete(context.Background(), "x", opts)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRequestRejected)
	assert.Contains(t, err.Error(), "model 'nope' not found")
}

func TestOllama_EmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"response":""}`)
	}))
	defer srv.Close()

	p := provider.NewOllama(srv.URL, "llama3", 5*time.Second, nil)
	_, err := p.Complete(context.Background(), "x", opts)
	assert.ErrorIs(t, err, domain.ErrEmptyResponse)
}

func TestOllama_Health(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/tags" {
			_, _ = io.WriteString(w, `{"models":[]}`)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))

	p := provider.NewOllama(srv.URL, "llama3", 5*time.Second, nil)
	assert.NoError(t, p.Health(context.Background()))
	assert.True(t, provider.Reachable(context.Background(), srv.URL))

	srv.Close()
	assert.ErrorIs(t, p.Health(context.Background()), domain.ErrProviderUnavailable)
}
