package domain

import "time"

// AnalysisRecord is one persisted summary of a check or clean run.
type AnalysisRecord struct {
	ID             string    `json:"id"`
	Target         string    `json:"target"`
	Timestamp      time.Time `json:"timestamp"`
	CommitHash     string    `json:"commit_hash,omitempty"`
	TotalIssues    int       `json:"total_issues"`
	SecurityIssues int       `json:"security_issues"`
	SmellIssues    int       `json:"smell_issues"`
	LintIssues     int       `json:"lint_issues"`
	Issues         []Issue   `json:"issues,omitempty"`
	WasRefactored  bool      `json:"was_refactored"`
}

// NewAnalysisRecord summarises an analysis result. ID and CommitHash are
// filled in by the history store and the caller respectively.
func NewAnalysisRecord(result *AnalysisResult, refactored bool) AnalysisRecord {
	return AnalysisRecord{
		Target:         result.Target,
		Timestamp:      time.Now().UTC(),
		TotalIssues:    result.IssueCount,
		SecurityIssues: len(result.SecurityIssues()),
		SmellIssues:    len(result.Smells()),
		LintIssues:     len(result.Lint),
		Issues:         result.Issues,
		WasRefactored:  refactored,
	}
}
