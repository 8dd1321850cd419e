package application_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codejanitor/janitor/internal/application"
	"github.com/codejanitor/janitor/internal/domain"
)

func dirtyAnalysis(t *testing.T, cfg domain.Config) *domain.AnalysisResult {
	t.Helper()
	path := writeFile(t, t.TempDir(), "app.py", dirtySource)
	result := newAnalyzer(cfg).AnalyzeFile(context.Background(), path)
	require.True(t, result.HasIssues)
	return result
}

func TestRefactor_NoIssuesSkipsProvider(t *testing.T) {
	p := &scriptedProvider{responses: []string{fenced(cleanedSource)}}
	svc := application.NewRefactorService(p, testConfig(), nil)

	result := svc.Refactor(context.Background(), "app.py", cleanedSource, domain.NewAnalysisResult("app.py", nil, nil, nil))
	assert.True(t, result.Success())
	assert.True(t, result.Unchanged())
	assert.Empty(t, result.Attempts)
	assert.Zero(t, p.calls)
}

func TestRefactor_ExtractsCandidate(t *testing.T) {
	cfg := testConfig()
	p := &scriptedProvider{responses: []string{fenced(cleanedSource)}}
	svc := application.NewRefactorService(p, cfg, nil)

	result := svc.Refactor(context.Background(), "app.py", dirtySource, dirtyAnalysis(t, cfg))
	require.True(t, result.Success())
	assert.Equal(t, cleanedSource, result.Candidate)
	assert.Positive(t, result.ChangesMade)
	require.Len(t, result.Attempts, 1)
	assert.Equal(t, domain.AttemptRefactor, result.Attempts[0].Kind)
	assert.Equal(t, 1, result.Attempts[0].Index)
	assert.Contains(t, p.prompts[0], "eval")
	assert.Contains(t, p.prompts[0], dirtySource)
}

func TestRefactor_RetriesTransientFailures(t *testing.T) {
	cfg := testConfig()
	p := &scriptedProvider{responses: []string{"!", "!", fenced(cleanedSource)}}
	svc := application.NewRefactorService(p, cfg, nil)

	result := svc.Refactor(context.Background(), "app.py", dirtySource, dirtyAnalysis(t, cfg))
	require.True(t, result.Success())
	assert.Equal(t, 3, p.calls)
	assert.Len(t, result.Attempts, 1, "retries belong to a single attempt")
}

func TestRefactor_RetriesExhausted(t *testing.T) {
	cfg := testConfig()
	p := &scriptedProvider{responses: []string{"!"}}
	svc := application.NewRefactorService(p, cfg, nil)

	result := svc.Refactor(context.Background(), "app.py", dirtySource, dirtyAnalysis(t, cfg))
	assert.False(t, result.Success())
	assert.ErrorIs(t, result.Err, domain.ErrRetriesExhausted)
	assert.Equal(t, cfg.AI.MaxRetries, p.calls)
	assert.Equal(t, dirtySource, result.Candidate)
	require.Len(t, result.Attempts, 1)
	assert.NotEmpty(t, result.Attempts[0].Error)
}

func TestRefactor_RejectedRequestIsNotRetried(t *testing.T) {
	cfg := testConfig()
	p := &scriptedProvider{
		responses: []string{"!"},
		err:       fmt.Errorf("%w: status 401", domain.ErrRequestRejected),
	}
	svc := application.NewRefactorService(p, cfg, nil)

	result := svc.Refactor(context.Background(), "app.py", dirtySource, dirtyAnalysis(t, cfg))
	assert.ErrorIs(t, result.Err, domain.ErrRequestRejected)
	assert.Equal(t, 1, p.calls)
}

func TestRefactor_EmptyResponses(t *testing.T) {
	cfg := testConfig()
	p := &scriptedProvider{responses: []string{"   \n"}}
	svc := application.NewRefactorService(p, cfg, nil)

	result := svc.Refactor(context.Background(), "app.py", dirtySource, dirtyAnalysis(t, cfg))
	assert.ErrorIs(t, result.Err, domain.ErrEmptyResponse)
	assert.Equal(t, cfg.AI.MaxRetries, p.calls)
}

func TestRefactor_WithoutProvider(t *testing.T) {
	cfg := testConfig()
	svc := application.NewRefactorService(nil, cfg, nil)

	result := svc.Refactor(context.Background(), "app.py", dirtySource, dirtyAnalysis(t, cfg))
	assert.ErrorIs(t, result.Err, domain.ErrProviderUnavailable)
}

func TestRepair_AppendsAttempt(t *testing.T) {
	cfg := testConfig()
	broken := "def f(:\n"
	p := &scriptedProvider{responses: []string{fenced(broken), fenced(cleanedSource)}}
	svc := application.NewRefactorService(p, cfg, nil)

	result := svc.Refactor(context.Background(), "app.py", dirtySource, dirtyAnalysis(t, cfg))
	require.True(t, result.Success())

	outcome := domain.ValidationOutcome{Checks: []domain.CheckResult{
		{Name: domain.CheckSyntax, Message: "Syntax error in refactored code", Issues: []string{"Line 1: invalid syntax"}},
	}}
	svc.Repair(context.Background(), result, outcome)

	require.Len(t, result.Attempts, 2)
	assert.Equal(t, domain.AttemptRepair, result.Attempts[1].Kind)
	assert.Equal(t, 2, result.Attempts[1].Index)
	assert.Equal(t, cleanedSource, result.Candidate)
	assert.Contains(t, p.prompts[1], "Line 1: invalid syntax")
	assert.Contains(t, p.prompts[1], broken)
}
