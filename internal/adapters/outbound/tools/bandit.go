package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/codejanitor/janitor/internal/domain"
)

// Bandit reports security findings through `bandit -f json`.
type Bandit struct {
	run    *runner
	logger *slog.Logger
}

func NewBandit(cfg domain.AnalyzerConfig, logger *slog.Logger) *Bandit {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bandit{run: newRunner("bandit", cfg.ToolTimeout, logger), logger: logger}
}

func (b *Bandit) Name() string    { return "bandit" }
func (b *Bandit) Available() bool { return b.run.available() }

func (b *Bandit) Analyze(ctx context.Context, path string) ([]domain.Issue, []domain.FunctionMetric) {
	out, err := b.run.run(ctx, "-f", "json", "-q", path)
	if err != nil {
		return nil, nil
	}
	issues, err := ParseBandit(path, out)
	if err != nil {
		b.logger.Warn("malformed bandit output", "file", path, "error", err)
		return nil, nil
	}
	return issues, nil
}

type banditReport struct {
	Results []struct {
		LineNumber      int    `json:"line_number"`
		ColOffset       int    `json:"col_offset"`
		IssueText       string `json:"issue_text"`
		IssueSeverity   string `json:"issue_severity"`
		IssueConfidence string `json:"issue_confidence"`
		TestID          string `json:"test_id"`
		TestName        string `json:"test_name"`
		MoreInfo        string `json:"more_info"`
	} `json:"results"`
}

// ParseBandit converts bandit's JSON report into security issues.
func ParseBandit(file string, data []byte) ([]domain.Issue, error) {
	var report banditReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, err
	}

	issues := make([]domain.Issue, 0, len(report.Results))
	for _, r := range report.Results {
		suggestion := fmt.Sprintf("Confidence: %s", strings.ToUpper(r.IssueConfidence))
		if r.MoreInfo != "" {
			suggestion += "; see " + r.MoreInfo
		}
		issues = append(issues, domain.Issue{
			File:       file,
			Line:       r.LineNumber,
			Column:     r.ColOffset + 1,
			Category:   domain.CategorySecurity,
			Severity:   banditSeverity(r.IssueSeverity),
			Message:    fmt.Sprintf("%s (%s)", r.IssueText, r.TestName),
			Suggestion: suggestion,
			Tool:       "bandit",
			Code:       r.TestID,
		})
	}
	return issues, nil
}

func banditSeverity(s string) domain.Severity {
	switch strings.ToUpper(s) {
	case "HIGH":
		return domain.SeverityCritical
	case "MEDIUM":
		return domain.SeverityWarning
	default:
		return domain.SeverityInfo
	}
}
