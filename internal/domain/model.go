package domain

import (
	"fmt"
	"sort"
)

// Category classifies the kind of problem an Issue describes.
type Category string

const (
	CategorySecurity        Category = "security"
	CategoryComplexity      Category = "complexity"
	CategoryMaintainability Category = "maintainability"
	CategorySyntax          Category = "syntax"
	CategoryIO              Category = "io"
)

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityError    Severity = "error"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// Rank orders severities from most to least urgent. Unknown values sort last.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityError:
		return 1
	case SeverityWarning:
		return 2
	case SeverityInfo:
		return 3
	default:
		return 4
	}
}

// AtLeast reports whether s is as urgent as other or more.
func (s Severity) AtLeast(other Severity) bool { return s.Rank() <= other.Rank() }

// Issue represents one problem found in a source file. Issues are values and
// are never modified after a detector emits them.
type Issue struct {
	File       string   `json:"file"`
	Line       int      `json:"line"`
	Column     int      `json:"column,omitempty"`
	Category   Category `json:"category"`
	Severity   Severity `json:"severity"`
	Message    string   `json:"message"`
	Suggestion string   `json:"suggestion,omitempty"`
	Tool       string   `json:"tool,omitempty"`
	Code       string   `json:"code,omitempty"`

	Depth          int    `json:"depth,omitempty"`
	FunctionName   string `json:"function_name,omitempty"`
	FunctionLength int    `json:"function_length,omitempty"`
	Complexity     int    `json:"complexity,omitempty"`
}

// Location formats the issue position as file:line[:col].
func (i Issue) Location() string {
	if i.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", i.File, i.Line, i.Column)
	}
	return fmt.Sprintf("%s:%d", i.File, i.Line)
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: [%s/%s] %s", i.Location(), i.Category, i.Severity, i.Message)
}

// FunctionMetric is per-block complexity data reported by an external scanner.
type FunctionMetric struct {
	File       string `json:"file"`
	Name       string `json:"name"`
	Kind       string `json:"kind,omitempty"`
	Line       int    `json:"line"`
	EndLine    int    `json:"end_line,omitempty"`
	Complexity int    `json:"complexity"`
	Rank       string `json:"rank,omitempty"`
	LOC        int    `json:"loc"`
}

// AnalysisResult aggregates every issue found for one target.
type AnalysisResult struct {
	Target     string               `json:"target"`
	HasIssues  bool                 `json:"has_issues"`
	IssueCount int                  `json:"issue_count"`
	Issues     []Issue              `json:"issues"`
	BySeverity map[Severity][]Issue `json:"by_severity"`
	ByCategory map[Category][]Issue `json:"by_category"`
	Functions  []FunctionMetric     `json:"functions,omitempty"`
	Lint       []Issue              `json:"lint,omitempty"`
	Files      []string             `json:"files,omitempty"`
}

// NewAnalysisResult partitions issues by severity and category. Lint findings
// are kept apart from detector issues but count towards HasIssues.
func NewAnalysisResult(target string, issues, lint []Issue, functions []FunctionMetric) *AnalysisResult {
	r := &AnalysisResult{
		Target:     target,
		Issues:     issues,
		Lint:       lint,
		Functions:  functions,
		BySeverity: make(map[Severity][]Issue),
		ByCategory: make(map[Category][]Issue),
	}
	for _, issue := range issues {
		r.BySeverity[issue.Severity] = append(r.BySeverity[issue.Severity], issue)
		r.ByCategory[issue.Category] = append(r.ByCategory[issue.Category], issue)
	}
	r.IssueCount = len(issues)
	r.HasIssues = len(issues) > 0 || len(lint) > 0
	if target != "" {
		r.Files = []string{target}
	}
	return r
}

// MergeResults combines per-file results into one result for a directory target.
func MergeResults(target string, results ...*AnalysisResult) *AnalysisResult {
	var (
		issues    []Issue
		lint      []Issue
		functions []FunctionMetric
		files     []string
	)
	for _, r := range results {
		if r == nil {
			continue
		}
		issues = append(issues, r.Issues...)
		lint = append(lint, r.Lint...)
		functions = append(functions, r.Functions...)
		files = append(files, r.Files...)
	}
	merged := NewAnalysisResult(target, issues, lint, functions)
	merged.Files = files
	return merged
}

// SecurityIssues returns the security-category issues.
func (r *AnalysisResult) SecurityIssues() []Issue {
	return r.ByCategory[CategorySecurity]
}

// Smells returns every non-security issue in detection order.
func (r *AnalysisResult) Smells() []Issue {
	var out []Issue
	for _, issue := range r.Issues {
		if issue.Category != CategorySecurity {
			out = append(out, issue)
		}
	}
	return out
}

// Filter returns the issues for which keep reports true.
func (r *AnalysisResult) Filter(keep func(Issue) bool) []Issue {
	var out []Issue
	for _, issue := range r.Issues {
		if keep(issue) {
			out = append(out, issue)
		}
	}
	return out
}

// ForFile narrows a merged result to one file.
func (r *AnalysisResult) ForFile(path string) *AnalysisResult {
	match := func(i Issue) bool { return i.File == path }
	var lint []Issue
	for _, issue := range r.Lint {
		if match(issue) {
			lint = append(lint, issue)
		}
	}
	var functions []FunctionMetric
	for _, fn := range r.Functions {
		if fn.File == path {
			functions = append(functions, fn)
		}
	}
	return NewAnalysisResult(path, r.Filter(match), lint, functions)
}

// SortedBySeverity returns all issues, lint included, most urgent first.
// Ties keep their detection order.
func (r *AnalysisResult) SortedBySeverity() []Issue {
	all := make([]Issue, 0, len(r.Issues)+len(r.Lint))
	all = append(all, r.Issues...)
	all = append(all, r.Lint...)
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Severity.Rank() < all[j].Severity.Rank()
	})
	return all
}
