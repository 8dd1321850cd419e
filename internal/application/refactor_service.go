package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/codejanitor/janitor/internal/domain"
	"github.com/codejanitor/janitor/internal/domain/refactor"
)

// RefactorService asks a completion provider for a cleaned-up version of a
// file and turns the answer into a candidate.
type RefactorService struct {
	provider   domain.CompletionProvider
	ai         domain.AIConfig
	thresholds domain.AnalyzerConfig
	logger     *slog.Logger
}

func NewRefactorService(provider domain.CompletionProvider, cfg domain.Config, logger *slog.Logger) *RefactorService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RefactorService{
		provider:   provider,
		ai:         cfg.AI,
		thresholds: cfg.Analyzer,
		logger:     logger,
	}
}

// Refactor produces a candidate for code. Code without issues is returned
// unchanged and the provider is never called.
func (s *RefactorService) Refactor(ctx context.Context, file, code string, analysis *domain.AnalysisResult) *domain.RefactorResult {
	result := &domain.RefactorResult{File: file, Original: code, Candidate: code}
	if analysis == nil || !analysis.HasIssues {
		return result
	}

	prompt := refactor.BuildPrompt(code, analysis, refactor.PromptOptions{
		SystemPrompt:            s.ai.SystemPrompt,
		MaxCyclomaticComplexity: s.thresholds.MaxCyclomaticComplexity,
		MaxFunctionLines:        s.thresholds.MaxFunctionLines,
		MaxLintFindings:         s.ai.MaxLintInPrompt,
	})
	s.attempt(ctx, result, domain.AttemptRefactor, prompt, s.ai.Temperature)
	return result
}

// Repair asks the provider to fix the current candidate using the failed
// validation outcome as feedback. The new attempt is appended to result.
func (s *RefactorService) Repair(ctx context.Context, result *domain.RefactorResult, outcome domain.ValidationOutcome) {
	prompt := refactor.BuildRepairPrompt(s.ai.SystemPrompt, result.Original, result.Candidate, outcome.ErrorReport())
	s.attempt(ctx, result, domain.AttemptRepair, prompt, s.ai.RepairTemperature)
}

func (s *RefactorService) attempt(ctx context.Context, result *domain.RefactorResult, kind, prompt string, temperature float64) {
	att := domain.RefactorAttempt{
		Index:  len(result.Attempts) + 1,
		Kind:   kind,
		Prompt: prompt,
	}

	response, err := s.complete(ctx, prompt, domain.CompletionOptions{
		MaxTokens:   s.ai.MaxTokens,
		Temperature: temperature,
	})
	att.Response = response
	if err != nil {
		att.Error = err.Error()
		result.Err = err
		result.Attempts = append(result.Attempts, att)
		s.logger.Error("refactor attempt failed", "file", result.File, "kind", kind, "error", err)
		return
	}

	candidate := refactor.ExtractCode(response)
	if strings.HasSuffix(result.Original, "\n") && !strings.HasSuffix(candidate, "\n") {
		candidate += "\n"
	}
	att.Candidate = candidate
	att.Success = true

	result.Candidate = candidate
	result.ChangesMade = refactor.EstimateChanges(result.Original, candidate)
	result.Err = nil
	result.Attempts = append(result.Attempts, att)
	s.logger.Info("refactor attempt succeeded", "file", result.File, "kind", kind, "changes", result.ChangesMade)
}

// complete calls the provider up to MaxRetries times. The wait between
// attempts starts at RetryDelay and doubles.
func (s *RefactorService) complete(ctx context.Context, prompt string, opts domain.CompletionOptions) (string, error) {
	if s.provider == nil {
		return "", domain.ErrProviderUnavailable
	}

	maxAttempts := s.ai.MaxRetries
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = s.ai.RetryBaseDelay()
	bo.RandomizationFactor = 0
	bo.Multiplier = 2
	bo.MaxInterval = time.Hour
	bo.MaxElapsedTime = 0

	var (
		response string
		attempts int
	)
	operation := func() error {
		attempts++
		callCtx, cancel := context.WithTimeout(ctx, s.ai.CallTimeout())
		defer cancel()

		out, err := s.provider.Complete(callCtx, prompt, opts)
		if err != nil {
			if errors.Is(err, domain.ErrMissingAPIKey) || errors.Is(err, domain.ErrRequestRejected) || ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			return err
		}
		if strings.TrimSpace(out) == "" {
			return domain.ErrEmptyResponse
		}
		response = out
		return nil
	}
	notify := func(err error, wait time.Duration) {
		s.logger.Warn("completion failed, retrying",
			"provider", s.provider.Name(),
			"attempt", attempts,
			"delay", wait,
			"error", err,
		)
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(bo, uint64(maxAttempts-1)), ctx)
	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		return "", fmt.Errorf("%w after %d attempt(s) with %s: %w", domain.ErrRetriesExhausted, attempts, s.provider.Name(), err)
	}
	return response, nil
}
