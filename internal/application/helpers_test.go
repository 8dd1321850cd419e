package application_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codejanitor/janitor/internal/adapters/outbound/parser"
	"github.com/codejanitor/janitor/internal/adapters/outbound/scanner"
	"github.com/codejanitor/janitor/internal/application"
	"github.com/codejanitor/janitor/internal/domain"
)

const fixtureDir = "../../testdata/python/project"

const dirtySource = "user_input = input()\nprint(eval(user_input))\n"

const cleanedSource = "user_input = input()\nprint(int(user_input))\n"

// testConfig disables everything that depends on tools installed on the
// machine and removes retry delays.
func testConfig() domain.Config {
	cfg := domain.DefaultConfig()
	cfg.Linter.Enabled = false
	cfg.Linter.AutoFix = false
	cfg.AI.RetryDelay = 0
	cfg.AI.Timeout = 5
	return cfg
}

func newAnalyzer(cfg domain.Config) *application.AnalyzeService {
	return application.NewAnalyzeService(cfg.Analyzer, parser.New(), scanner.New(cfg.Scan), nil, nil, nil)
}

// scriptedProvider replays responses in order and repeats the last one.
// A response of "!" fails the call with err.
type scriptedProvider struct {
	mu        sync.Mutex
	responses []string
	err       error
	calls     int
	prompts   []string
}

func (p *scriptedProvider) Name() string { return "scripted" }

func (p *scriptedProvider) Complete(_ context.Context, prompt string, _ domain.CompletionOptions) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	i := p.calls
	if i >= len(p.responses) {
		i = len(p.responses) - 1
	}
	p.calls++
	p.prompts = append(p.prompts, prompt)
	if p.responses[i] == "!" {
		if p.err == nil {
			return "", errors.New("connection reset")
		}
		return "", p.err
	}
	return p.responses[i], nil
}

func (p *scriptedProvider) Health(context.Context) error { return nil }

func fenced(code string) string {
	return "Here you go:\n```python\n" + code + "```\n"
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}
