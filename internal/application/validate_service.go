package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/codejanitor/janitor/internal/domain"
	"github.com/codejanitor/janitor/internal/domain/safety"
)

// ValidateService is the gate every candidate must pass before it replaces
// a file. Candidates are checked in a private temporary directory.
type ValidateService struct {
	analyzer *AnalyzeService
	cfg      domain.ValidatorConfig
	logger   *slog.Logger
}

func NewValidateService(analyzer *AnalyzeService, cfg domain.ValidatorConfig, logger *slog.Logger) *ValidateService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ValidateService{analyzer: analyzer, cfg: cfg, logger: logger}
}

// Validate runs the syntax, lint, security and safety checks against
// candidate. A syntax failure stops the remaining checks.
func (s *ValidateService) Validate(ctx context.Context, file, candidate string) domain.ValidationOutcome {
	var outcome domain.ValidationOutcome

	dir, err := os.MkdirTemp("", "janitor_")
	if err != nil {
		outcome.Checks = append(outcome.Checks, domain.CheckResult{
			Name:    domain.CheckSyntax,
			Message: fmt.Sprintf("Could not create validation workspace: %v", err),
		})
		return outcome
	}
	defer os.RemoveAll(dir)

	tmp := filepath.Join(dir, workspaceName(file))
	if err := os.WriteFile(tmp, []byte(candidate), 0644); err != nil {
		outcome.Checks = append(outcome.Checks, domain.CheckResult{
			Name:    domain.CheckSyntax,
			Message: fmt.Sprintf("Could not write candidate: %v", err),
		})
		return outcome
	}

	tree, issues := s.analyzer.Detect(ctx, tmp, []byte(candidate))
	syntaxCheck := s.checkSyntax(tree, issues)
	outcome.Checks = append(outcome.Checks, syntaxCheck)
	if !syntaxCheck.Passed {
		s.logger.Info("candidate rejected", "file", file, "check", domain.CheckSyntax)
		return outcome
	}

	outcome.Checks = append(outcome.Checks,
		s.checkLint(ctx, tmp),
		s.checkSecurity(ctx, tmp, issues),
		checkSafety(candidate),
	)

	for _, c := range outcome.Failed() {
		s.logger.Info("candidate rejected", "file", file, "check", c.Name, "message", c.Message)
	}
	return outcome
}

// Apply writes candidate over target. It refuses unless outcome passed.
func (s *ValidateService) Apply(target, candidate string, outcome domain.ValidationOutcome) error {
	if !outcome.Passed() {
		return fmt.Errorf("refusing to apply %s: validation did not pass", target)
	}

	mode := os.FileMode(0644)
	if info, err := os.Stat(target); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(target, []byte(candidate), mode); err != nil {
		return fmt.Errorf("writing %s: %w", target, err)
	}
	return nil
}

func workspaceName(file string) string {
	base := filepath.Base(file)
	if base == "." || base == string(filepath.Separator) || base == "" {
		return "refactored.py"
	}
	return base
}

func (s *ValidateService) checkSyntax(tree *domain.SyntaxTree, issues []domain.Issue) domain.CheckResult {
	check := domain.CheckResult{Name: domain.CheckSyntax}
	if tree != nil && tree.SyntaxError == nil {
		check.Passed = true
		check.Message = "Syntax check passed"
		return check
	}
	check.Message = "Syntax error in refactored code"
	for _, issue := range issues {
		if issue.Category == domain.CategorySyntax {
			check.Issues = append(check.Issues, fmt.Sprintf("Line %d: %s", issue.Line, issue.Message))
		}
	}
	return check
}

func (s *ValidateService) checkLint(ctx context.Context, path string) domain.CheckResult {
	check := domain.CheckResult{Name: domain.CheckLint, Passed: true}
	if !s.cfg.RunLinterAfter || !s.analyzer.LinterAvailable() {
		check.Message = "Lint check skipped"
		return check
	}

	for _, issue := range s.analyzer.Lint(ctx, path) {
		if issue.Severity.AtLeast(domain.SeverityError) {
			check.Issues = append(check.Issues, fmt.Sprintf("Line %d: %s", issue.Line, issue.Message))
		}
	}
	if len(check.Issues) > 0 {
		check.Passed = false
		check.Message = fmt.Sprintf("Linting errors found (%d)", len(check.Issues))
		return check
	}
	check.Message = "Lint check passed"
	return check
}

func (s *ValidateService) checkSecurity(ctx context.Context, path string, detected []domain.Issue) domain.CheckResult {
	check := domain.CheckResult{Name: domain.CheckSecurity, Passed: true}
	if !s.cfg.FailOnSecurityIssues {
		check.Message = "Security check skipped"
		return check
	}

	issues := detected
	if s.cfg.RunStaticAnalysis {
		issues = append(append([]domain.Issue(nil), detected...), s.analyzer.ExternalIssues(ctx, path)...)
	}
	for _, issue := range issues {
		if issue.Category == domain.CategorySecurity && issue.Severity == domain.SeverityCritical {
			check.Issues = append(check.Issues, fmt.Sprintf("Line %d: %s", issue.Line, issue.Message))
		}
	}
	if len(check.Issues) > 0 {
		check.Passed = false
		check.Message = fmt.Sprintf("Critical security issues found (%d)", len(check.Issues))
		return check
	}
	check.Message = "Security check passed"
	return check
}

func checkSafety(candidate string) domain.CheckResult {
	check := domain.CheckResult{Name: domain.CheckSafety, Passed: true, Message: "Safety check passed"}
	for _, f := range safety.Scan(candidate) {
		check.Issues = append(check.Issues, f.String())
	}
	if len(check.Issues) > 0 {
		check.Passed = false
		check.Message = fmt.Sprintf("Safety check failed (%d)", len(check.Issues))
	}
	return check
}
