package tools

import (
	"bufio"
	"bytes"
	"context"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/codejanitor/janitor/internal/domain"
)

// Ruff lints and auto-fixes files through the ruff CLI.
type Ruff struct {
	run           *runner
	maxLineLength int
	logger        *slog.Logger
}

func NewRuff(cfg domain.LinterConfig, logger *slog.Logger) *Ruff {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ruff{
		run:           newRunner("ruff", cfg.Timeout, logger),
		maxLineLength: cfg.MaxLineLength,
		logger:        logger,
	}
}

func (r *Ruff) Name() string    { return "ruff" }
func (r *Ruff) Available() bool { return r.run.available() }

func (r *Ruff) args(path string, extra ...string) []string {
	args := []string{"check", path, "--output-format=concise", "--no-cache"}
	if r.maxLineLength > 0 {
		args = append(args, "--line-length", strconv.Itoa(r.maxLineLength))
	}
	return append(args, extra...)
}

func (r *Ruff) Lint(ctx context.Context, path string) []domain.Issue {
	out, err := r.run.run(ctx, r.args(path)...)
	if err != nil {
		return nil
	}
	return ParseRuff(path, out)
}

// Fix applies ruff's safe fixes and then formats the file. It returns the
// number of fixes ruff reported.
func (r *Ruff) Fix(ctx context.Context, path string) (int, bool) {
	out, err := r.run.run(ctx, r.args(path, "--fix")...)
	if err != nil {
		return 0, false
	}
	fixed := parseFixed(out)

	if _, err := r.run.run(ctx, "format", path, "--no-cache"); err != nil {
		return fixed, false
	}
	return fixed, true
}

var (
	ruffLine     = regexp.MustCompile(`^(.+?):(\d+):(\d+): ([A-Z]+[0-9]+) (.*)$`)
	ruffFixed    = regexp.MustCompile(`\((\d+) fixed`)
	ruffFixedAll = regexp.MustCompile(`Fixed (\d+) error`)
)

// ParseRuff parses ruff's concise output. Summary lines are ignored.
func ParseRuff(file string, data []byte) []domain.Issue {
	var issues []domain.Issue
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		m := ruffLine.FindStringSubmatch(strings.TrimRight(sc.Text(), "\r"))
		if m == nil {
			continue
		}
		line, _ := strconv.Atoi(m[2])
		col, _ := strconv.Atoi(m[3])
		code := m[4]
		category, severity := ruffClass(code)
		issues = append(issues, domain.Issue{
			File:     file,
			Line:     line,
			Column:   col,
			Category: category,
			Severity: severity,
			Message:  code + " " + strings.TrimPrefix(m[5], "[*] "),
			Tool:     "ruff",
			Code:     code,
		})
	}
	return issues
}

// ruffClass treats syntax errors and undefined names as errors; every other
// rule is a style warning.
func ruffClass(code string) (domain.Category, domain.Severity) {
	switch {
	case strings.HasPrefix(code, "E9"):
		return domain.CategorySyntax, domain.SeverityError
	case strings.HasPrefix(code, "F82"), strings.HasPrefix(code, "F63"), strings.HasPrefix(code, "F7"):
		return domain.CategoryMaintainability, domain.SeverityError
	default:
		return domain.CategoryMaintainability, domain.SeverityWarning
	}
}

func parseFixed(out []byte) int {
	for _, re := range []*regexp.Regexp{ruffFixed, ruffFixedAll} {
		if m := re.FindSubmatch(out); m != nil {
			n, _ := strconv.Atoi(string(m[1]))
			return n
		}
	}
	return 0
}
