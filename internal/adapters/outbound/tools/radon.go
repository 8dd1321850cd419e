package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"

	"github.com/codejanitor/janitor/internal/domain"
)

// Radon reports cyclomatic complexity per function through `radon cc`.
type Radon struct {
	run              *runner
	maxComplexity    int
	maxFunctionLines int
	logger           *slog.Logger
}

func NewRadon(cfg domain.AnalyzerConfig, logger *slog.Logger) *Radon {
	if logger == nil {
		logger = slog.Default()
	}
	return &Radon{
		run:              newRunner("radon", cfg.ToolTimeout, logger),
		maxComplexity:    cfg.MaxCyclomaticComplexity,
		maxFunctionLines: cfg.MaxFunctionLines,
		logger:           logger,
	}
}

func (r *Radon) Name() string    { return "radon" }
func (r *Radon) Available() bool { return r.run.available() }

func (r *Radon) Analyze(ctx context.Context, path string) ([]domain.Issue, []domain.FunctionMetric) {
	out, err := r.run.run(ctx, "cc", path, "-a", "-j")
	if err != nil {
		return nil, nil
	}
	issues, metrics, err := ParseRadon(path, out, r.maxComplexity, r.maxFunctionLines)
	if err != nil {
		r.logger.Warn("malformed radon output", "file", path, "error", err)
		return nil, nil
	}
	return issues, metrics
}

type radonBlock struct {
	Type       string       `json:"type"`
	Name       string       `json:"name"`
	Classname  string       `json:"classname"`
	Rank       string       `json:"rank"`
	LineNo     int          `json:"lineno"`
	EndLine    int          `json:"endline"`
	Complexity int          `json:"complexity"`
	Methods    []radonBlock `json:"methods"`
}

// ParseRadon converts `radon cc -j` output into metrics for every function
// and method, plus issues for those above the thresholds.
func ParseRadon(file string, data []byte, maxComplexity, maxLines int) ([]domain.Issue, []domain.FunctionMetric, error) {
	var report map[string]json.RawMessage
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, nil, err
	}

	var metrics []domain.FunctionMetric
	seen := make(map[string]bool)
	var add func(b radonBlock)
	add = func(b radonBlock) {
		if b.Type == "class" {
			for _, m := range b.Methods {
				add(m)
			}
			return
		}
		name := b.Name
		if b.Classname != "" {
			name = b.Classname + "." + b.Name
		}
		key := fmt.Sprintf("%s:%d", name, b.LineNo)
		if seen[key] {
			return
		}
		seen[key] = true
		metrics = append(metrics, domain.FunctionMetric{
			File:       file,
			Name:       name,
			Kind:       b.Type,
			Line:       b.LineNo,
			EndLine:    b.EndLine,
			Complexity: b.Complexity,
			Rank:       b.Rank,
			LOC:        b.EndLine - b.LineNo + 1,
		})
	}

	for path, raw := range report {
		var blocks []radonBlock
		if err := json.Unmarshal(raw, &blocks); err != nil {
			var failure struct {
				Error string `json:"error"`
			}
			if json.Unmarshal(raw, &failure) == nil && failure.Error != "" {
				return nil, nil, fmt.Errorf("radon could not analyze %s: %s", path, failure.Error)
			}
			return nil, nil, err
		}
		for _, b := range blocks {
			add(b)
		}
	}
	sort.SliceStable(metrics, func(i, j int) bool { return metrics[i].Line < metrics[j].Line })

	var issues []domain.Issue
	for _, m := range metrics {
		if maxComplexity > 0 && m.Complexity > maxComplexity {
			issues = append(issues, domain.Issue{
				File:         file,
				Line:         m.Line,
				Category:     domain.CategoryComplexity,
				Severity:     domain.SeverityWarning,
				Message:      fmt.Sprintf("High Complexity: '%s' has score %d", m.Name, m.Complexity),
				Suggestion:   "Split the function into smaller units with a single responsibility",
				Tool:         "radon",
				FunctionName: m.Name,
				Complexity:   m.Complexity,
			})
		}
		if maxLines > 0 && m.LOC > maxLines {
			issues = append(issues, domain.Issue{
				File:           file,
				Line:           m.Line,
				Category:       domain.CategoryMaintainability,
				Severity:       domain.SeverityWarning,
				Message:        fmt.Sprintf("Long Function: '%s' is %d lines (max: %d)", m.Name, m.LOC, maxLines),
				Tool:           "radon",
				FunctionName:   m.Name,
				FunctionLength: m.LOC,
			})
		}
	}
	return issues, metrics, nil
}
