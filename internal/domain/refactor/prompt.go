// Package refactor builds completion prompts from analysis results and
// turns provider responses back into candidate source code.
package refactor

import (
	"fmt"
	"strings"

	"github.com/codejanitor/janitor/internal/domain"
)

// PromptOptions are the thresholds and limits that shape a refactor prompt.
type PromptOptions struct {
	SystemPrompt            string
	MaxCyclomaticComplexity int
	MaxFunctionLines        int
	MaxLintFindings         int
}

// categoryOrder fixes the order in which non-security issues are grouped.
var categoryOrder = []domain.Category{
	domain.CategorySyntax,
	domain.CategoryComplexity,
	domain.CategoryMaintainability,
	domain.CategoryIO,
}

// BuildPrompt renders the refactor prompt for code and its analysis.
func BuildPrompt(code string, analysis *domain.AnalysisResult, opts PromptOptions) string {
	var b strings.Builder

	b.WriteString(opts.SystemPrompt)
	b.WriteString("\n\n## Static Analysis Report:\n")
	report := issueReport(analysis, opts)
	if report == "" {
		report = "No issues detected - perform general code quality improvements.\n"
	}
	b.WriteString(report)

	b.WriteString("\n## Original Code:\n")
	writeFenced(&b, GuessLanguage(code), code)

	b.WriteString("\n## Task\n")
	b.WriteString("Refactor the code above to address all identified issues while preserving all functionality. ")
	b.WriteString("Return the complete, runnable code as a single fenced code block and nothing else.\n")
	b.WriteString("\n## Refactored Code:\n")

	return b.String()
}

func issueReport(analysis *domain.AnalysisResult, opts PromptOptions) string {
	if analysis == nil {
		return ""
	}
	var b strings.Builder

	if security := analysis.SecurityIssues(); len(security) > 0 {
		b.WriteString("### CRITICAL SECURITY ISSUES DETECTED:\n")
		for _, issue := range security {
			fmt.Fprintf(&b, "- Line %d: %s (Severity: %s)\n", issue.Line, issue.Message, issue.Severity)
			writeSuggestion(&b, issue)
		}
	}

	if smells := analysis.Smells(); len(smells) > 0 {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("### Code Smells Detected:\n")
		for _, cat := range categoryOrder {
			issues := analysis.ByCategory[cat]
			if len(issues) == 0 {
				continue
			}
			fmt.Fprintf(&b, "#### %s\n", cat)
			for _, issue := range issues {
				fmt.Fprintf(&b, "- Line %d: %s\n", issue.Line, issue.Message)
				writeSuggestion(&b, issue)
			}
		}
	}

	if metrics := complexitySummary(analysis.Functions, opts); metrics != "" {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("### Complexity Metrics:\n")
		b.WriteString(metrics)
	}

	if len(analysis.Lint) > 0 {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("### Linting Issues:\n")
		limit := opts.MaxLintFindings
		if limit <= 0 || limit > len(analysis.Lint) {
			limit = len(analysis.Lint)
		}
		for _, issue := range analysis.Lint[:limit] {
			fmt.Fprintf(&b, "- Line %d: %s\n", issue.Line, issue.Message)
		}
		if rest := len(analysis.Lint) - limit; rest > 0 {
			fmt.Fprintf(&b, "- ... and %d more\n", rest)
		}
	}

	return b.String()
}

func complexitySummary(functions []domain.FunctionMetric, opts PromptOptions) string {
	var b strings.Builder
	for _, fn := range functions {
		if opts.MaxCyclomaticComplexity > 0 && fn.Complexity > opts.MaxCyclomaticComplexity {
			fmt.Fprintf(&b, "- High Complexity: '%s' has score %d\n", fn.Name, fn.Complexity)
		}
		if opts.MaxFunctionLines > 0 && fn.LOC > opts.MaxFunctionLines {
			fmt.Fprintf(&b, "- Long Function: '%s' is %d lines\n", fn.Name, fn.LOC)
		}
	}
	return b.String()
}

func writeSuggestion(b *strings.Builder, issue domain.Issue) {
	if issue.Suggestion != "" {
		fmt.Fprintf(b, "  Suggestion: %s\n", issue.Suggestion)
	}
}

func writeFenced(b *strings.Builder, lang, code string) {
	b.WriteString("```")
	b.WriteString(lang)
	b.WriteString("\n")
	b.WriteString(code)
	if !strings.HasSuffix(code, "\n") {
		b.WriteString("\n")
	}
	b.WriteString("```\n")
}

// BuildRepairPrompt asks the provider to fix a candidate that failed
// validation. report is the rendered list of failed checks.
func BuildRepairPrompt(systemPrompt, original, previous, report string) string {
	var b strings.Builder

	b.WriteString(systemPrompt)
	b.WriteString("\n\nYour previous refactoring had validation errors. Please fix them.\n")

	b.WriteString("\n## Original Code:\n")
	writeFenced(&b, GuessLanguage(original), original)

	b.WriteString("\n## Previous Attempt:\n")
	writeFenced(&b, GuessLanguage(previous), previous)

	b.WriteString("\n## Validation Errors:\n")
	b.WriteString(report)
	b.WriteString("\n\nPlease provide corrected refactored code that addresses these errors.\n")
	b.WriteString("Ensure the code is syntactically valid and passes all safety checks.\n")
	b.WriteString("Return it as a single fenced code block.\n")
	b.WriteString("\n## Corrected Code:\n")

	return b.String()
}

// GuessLanguage picks a fence tag from keyword presence.
func GuessLanguage(code string) string {
	switch {
	case containsAny(code, "def ", "class ", "import "):
		return "python"
	case containsAny(code, "function", "const ", "let "):
		return "javascript"
	case containsAny(code, "interface ", "type "):
		return "typescript"
	default:
		return "text"
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
