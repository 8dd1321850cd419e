package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/codejanitor/janitor/internal/domain"
	"github.com/codejanitor/janitor/internal/domain/detect"
)

// AnalyzeService runs the detector engine, the external analysis tools and
// the linter over a file or a directory of files.
type AnalyzeService struct {
	parser  domain.SourceParser
	scanner domain.TargetScanner
	linter  domain.Linter
	tools   []domain.AnalysisTool
	engine  *detect.Engine
	logger  *slog.Logger
}

// NewAnalyzeService wires the analysis pipeline. linter may be nil when
// linting is disabled.
func NewAnalyzeService(
	cfg domain.AnalyzerConfig,
	parser domain.SourceParser,
	scanner domain.TargetScanner,
	linter domain.Linter,
	tools []domain.AnalysisTool,
	logger *slog.Logger,
) *AnalyzeService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyzeService{
		parser:  parser,
		scanner: scanner,
		linter:  linter,
		tools:   tools,
		engine:  detect.NewEngine(cfg),
		logger:  logger,
	}
}

// Analyze analyzes target, which may be a single file or a directory. Only a
// missing target or a failed directory walk is an error; problems with
// individual files become issues.
func (s *AnalyzeService) Analyze(ctx context.Context, target string) (*domain.AnalysisResult, error) {
	info, err := os.Stat(target)
	if err != nil {
		return nil, fmt.Errorf("reading target: %w", err)
	}
	if !info.IsDir() {
		return s.AnalyzeFile(ctx, target), nil
	}

	files, err := s.scanner.Files(target)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", target, err)
	}

	results := make([]*domain.AnalysisResult, 0, len(files))
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		results = append(results, s.AnalyzeFile(ctx, f))
	}
	return domain.MergeResults(target, results...), nil
}

// AnalyzeFile runs every detector, tool and the linter over one file.
func (s *AnalyzeService) AnalyzeFile(ctx context.Context, path string) *domain.AnalysisResult {
	src, err := os.ReadFile(path)
	if err != nil {
		s.logger.Warn("cannot read file", "file", path, "error", err)
		return domain.NewAnalysisResult(path, []domain.Issue{detect.ReadErrorIssue(path, err)}, nil, nil)
	}

	tree, issues := s.Detect(ctx, path, src)
	var functions []domain.FunctionMetric
	if tree != nil && tree.SyntaxError == nil {
		for _, tool := range s.tools {
			if !tool.Available() {
				continue
			}
			toolIssues, metrics := tool.Analyze(ctx, path)
			issues = append(issues, toolIssues...)
			functions = append(functions, metrics...)
		}
	}

	result := domain.NewAnalysisResult(path, issues, s.Lint(ctx, path), functions)
	s.logger.Debug("analyzed file", "file", path, "issues", result.IssueCount, "lint", len(result.Lint))
	return result
}

// Detect parses src and runs the detector engine over it. The returned tree
// is nil only when the parser itself failed.
func (s *AnalyzeService) Detect(ctx context.Context, file string, src []byte) (*domain.SyntaxTree, []domain.Issue) {
	tree, err := s.parser.Parse(ctx, file, src)
	if err != nil {
		s.logger.Warn("parser failed", "file", file, "error", err)
		return nil, []domain.Issue{detect.SyntaxIssue(file, &domain.SyntaxError{Line: 1, Message: err.Error()})}
	}
	return tree, s.engine.Detect(tree)
}

// ExternalIssues runs only the external analysis tools over path.
func (s *AnalyzeService) ExternalIssues(ctx context.Context, path string) []domain.Issue {
	var issues []domain.Issue
	for _, tool := range s.tools {
		if tool.Available() {
			toolIssues, _ := tool.Analyze(ctx, path)
			issues = append(issues, toolIssues...)
		}
	}
	return issues
}

// LinterAvailable reports whether a linter is configured and installed.
func (s *AnalyzeService) LinterAvailable() bool {
	return s.linter != nil && s.linter.Available()
}

// Lint returns the linter findings for path, or nil without a linter.
func (s *AnalyzeService) Lint(ctx context.Context, path string) []domain.Issue {
	if !s.LinterAvailable() {
		return nil
	}
	return s.linter.Lint(ctx, path)
}

// Fix applies the linter's automatic fixes to path in place.
func (s *AnalyzeService) Fix(ctx context.Context, path string) int {
	if !s.LinterAvailable() {
		return 0
	}
	fixed, ok := s.linter.Fix(ctx, path)
	if !ok {
		s.logger.Warn("linter auto-fix failed", "file", path, "linter", s.linter.Name())
		return 0
	}
	if fixed > 0 {
		s.logger.Info("applied linter fixes", "file", path, "fixed", fixed)
	}
	return fixed
}

// Files expands target into the files it covers.
func (s *AnalyzeService) Files(target string) ([]string, error) {
	info, err := os.Stat(target)
	if err != nil {
		return nil, fmt.Errorf("reading target: %w", err)
	}
	if !info.IsDir() {
		return []string{target}, nil
	}
	return s.scanner.Files(target)
}
