package tools

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"unicode"

	"github.com/fatih/camelcase"

	"github.com/codejanitor/janitor/internal/domain"
)

// BuiltinLinter is a minimal style checker used when ruff is not installed.
type BuiltinLinter struct {
	maxLineLength int
	logger        *slog.Logger
}

func NewBuiltinLinter(cfg domain.LinterConfig, logger *slog.Logger) *BuiltinLinter {
	if logger == nil {
		logger = slog.Default()
	}
	return &BuiltinLinter{maxLineLength: cfg.MaxLineLength, logger: logger}
}

func (b *BuiltinLinter) Name() string    { return "builtin" }
func (b *BuiltinLinter) Available() bool { return true }

func (b *BuiltinLinter) Lint(_ context.Context, path string) []domain.Issue {
	src, err := os.ReadFile(path)
	if err != nil {
		b.logger.Warn("builtin lint cannot read file", "file", path, "error", err)
		return nil
	}
	return LintSource(path, string(src), b.maxLineLength)
}

// Fix strips trailing whitespace and adds a missing final newline.
func (b *BuiltinLinter) Fix(_ context.Context, path string) (int, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, false
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}

	fixed := 0
	lines := strings.Split(string(src), "\n")
	for i, line := range lines {
		trimmed := strings.TrimRight(line, " \t")
		if trimmed != line {
			lines[i] = trimmed
			fixed++
		}
	}
	out := strings.Join(lines, "\n")
	if out != "" && !strings.HasSuffix(out, "\n") {
		out += "\n"
		fixed++
	}
	if fixed == 0 {
		return 0, true
	}
	if err := os.WriteFile(path, []byte(out), info.Mode().Perm()); err != nil {
		return 0, false
	}
	return fixed, true
}

var defPattern = regexp.MustCompile(`^\s*(?:async\s+)?def\s+([A-Za-z_][A-Za-z0-9_]*)\s*\(`)

// LintSource checks line length, trailing whitespace, the final newline and
// function naming.
func LintSource(file, src string, maxLineLength int) []domain.Issue {
	var issues []domain.Issue
	add := func(line, col int, code, msg string) {
		issues = append(issues, domain.Issue{
			File:     file,
			Line:     line,
			Column:   col,
			Category: domain.CategoryMaintainability,
			Severity: domain.SeverityWarning,
			Message:  code + " " + msg,
			Tool:     "builtin",
			Code:     code,
		})
	}

	lines := strings.Split(src, "\n")
	if strings.HasSuffix(src, "\n") {
		lines = lines[:len(lines)-1]
	}
	for i, line := range lines {
		n := i + 1
		if width := len([]rune(line)); maxLineLength > 0 && width > maxLineLength {
			add(n, maxLineLength+1, "E501", fmt.Sprintf("Line too long (%d > %d)", width, maxLineLength))
		}
		if trimmed := strings.TrimRight(line, " \t"); trimmed != line {
			add(n, len(trimmed)+1, "W291", "Trailing whitespace")
		}
		if m := defPattern.FindStringSubmatch(line); m != nil && !isSnakeCase(m[1]) {
			add(n, strings.Index(line, m[1])+1, "N802",
				fmt.Sprintf("Function name '%s' should be lowercase (%s)", m[1], toSnakeCase(m[1])))
		}
	}
	if src != "" && !strings.HasSuffix(src, "\n") {
		add(len(lines), len([]rune(lines[len(lines)-1]))+1, "W292", "No newline at end of file")
	}
	return issues
}

func isSnakeCase(name string) bool {
	for _, r := range name {
		if unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

func toSnakeCase(name string) string {
	var parts []string
	for _, p := range camelcase.Split(name) {
		if strings.Trim(p, "_") == "" {
			continue
		}
		parts = append(parts, strings.ToLower(p))
	}
	snake := strings.Join(parts, "_")
	if strings.HasPrefix(name, "_") {
		snake = "_" + snake
	}
	return snake
}

// NewLinter picks ruff when installed, the built-in linter when ruff is
// missing and the fallback is enabled, and nil otherwise.
func NewLinter(cfg domain.LinterConfig, logger *slog.Logger) domain.Linter {
	if !cfg.Enabled {
		return nil
	}
	ruff := NewRuff(cfg, logger)
	if ruff.Available() {
		return ruff
	}
	if cfg.BuiltinFallback {
		return NewBuiltinLinter(cfg, logger)
	}
	return nil
}

// NewAnalysisTools returns the external analyzers enabled in cfg.
func NewAnalysisTools(cfg domain.AnalyzerConfig, logger *slog.Logger) []domain.AnalysisTool {
	var tools []domain.AnalysisTool
	if cfg.ComplexityChecks {
		tools = append(tools, NewRadon(cfg, logger))
	}
	if cfg.SecurityChecks {
		tools = append(tools, NewBandit(cfg, logger))
	}
	return tools
}
