package detect

import (
	"fmt"

	"github.com/codejanitor/janitor/internal/domain"
)

// Engine runs every enabled detector over a syntax tree. Detectors never see
// each other's output and their issues are not deduplicated.
type Engine struct {
	cfg domain.AnalyzerConfig
}

func NewEngine(cfg domain.AnalyzerConfig) *Engine {
	return &Engine{cfg: cfg}
}

// Visitors returns a fresh set of detectors for one file, in reporting order.
func (e *Engine) Visitors(file string) []Visitor {
	visitors := []Visitor{
		NewNestingVisitor(file, e.cfg.MaxNestingDepth),
		NewLengthVisitor(file, e.cfg.MaxFunctionLines),
	}
	if e.cfg.DeadCodeChecks {
		visitors = append(visitors, NewDeadNameVisitor(file))
	}
	if e.cfg.SecurityChecks {
		visitors = append(visitors, NewSecurityVisitor(file))
	}
	return visitors
}

// Detect returns the issues found in tree. A tree with a syntax error is not
// inspected further and yields a single critical syntax issue.
func (e *Engine) Detect(tree *domain.SyntaxTree) []domain.Issue {
	if tree.SyntaxError != nil {
		return []domain.Issue{SyntaxIssue(tree.File, tree.SyntaxError)}
	}

	var issues []domain.Issue
	for _, v := range e.Visitors(tree.File) {
		Walk(tree.Root, v)
		issues = append(issues, v.Issues()...)
	}
	return issues
}

// SyntaxIssue converts a parse failure into an issue.
func SyntaxIssue(file string, se *domain.SyntaxError) domain.Issue {
	line := se.Line
	if line < 1 {
		line = 1
	}
	return domain.Issue{
		File:       file,
		Line:       line,
		Column:     se.Column,
		Category:   domain.CategorySyntax,
		Severity:   domain.SeverityCritical,
		Message:    fmt.Sprintf("Syntax error: %s", se.Message),
		Suggestion: "Fix the syntax error before any refactoring",
	}
}

// ReadErrorIssue converts a failure to read a file into an issue.
func ReadErrorIssue(file string, err error) domain.Issue {
	return domain.Issue{
		File:     file,
		Line:     1,
		Category: domain.CategoryIO,
		Severity: domain.SeverityError,
		Message:  fmt.Sprintf("Read error: %v", err),
	}
}
