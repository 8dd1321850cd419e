package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pmezard/go-difflib/difflib"
	godiff "github.com/sourcegraph/go-diff/diff"
)

var (
	addStyle  = lipgloss.NewStyle().Foreground(success)
	delStyle  = lipgloss.NewStyle().Foreground(danger)
	hunkStyle = lipgloss.NewStyle().Foreground(accent)
)

// Differ implements domain.Differ with unified diffs.
type Differ struct {
	Context int
}

func NewDiffer() *Differ {
	return &Differ{Context: 3}
}

// Unified returns a plain unified diff of before and after, or "" when they
// are equal.
func (d *Differ) Unified(name, before, after string) string {
	if before == after {
		return ""
	}
	name = filepath.ToSlash(name)
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: "a/" + strings.TrimPrefix(name, "/"),
		ToFile:   "b/" + strings.TrimPrefix(name, "/"),
		Context:  d.Context,
	})
	if err != nil {
		return ""
	}
	return text
}

// DiffStat counts added, deleted and changed lines in a unified diff.
type DiffStat struct {
	Added   int `json:"added"`
	Deleted int `json:"deleted"`
	Changed int `json:"changed"`
}

func (s DiffStat) String() string {
	return fmt.Sprintf("+%d -%d ~%d", s.Added, s.Deleted, s.Changed)
}

// Stat parses a unified diff produced by Unified.
func Stat(unified string) (DiffStat, error) {
	if unified == "" {
		return DiffStat{}, nil
	}
	fd, err := godiff.ParseFileDiff([]byte(unified))
	if err != nil {
		return DiffStat{}, fmt.Errorf("parsing diff: %w", err)
	}
	st := fd.Stat()
	return DiffStat{Added: int(st.Added), Deleted: int(st.Deleted), Changed: int(st.Changed)}, nil
}

// RenderDiff colours a unified diff and appends its stat line.
func RenderDiff(unified string) string {
	var b strings.Builder
	for _, line := range strings.SplitAfter(unified, "\n") {
		if line == "" {
			continue
		}
		text := strings.TrimSuffix(line, "\n")
		switch {
		case strings.HasPrefix(text, "+++"), strings.HasPrefix(text, "---"):
			b.WriteString("    " + titleStyle.Render(text))
		case strings.HasPrefix(text, "@@"):
			b.WriteString("    " + hunkStyle.Render(text))
		case strings.HasPrefix(text, "+"):
			b.WriteString("    " + addStyle.Render(text))
		case strings.HasPrefix(text, "-"):
			b.WriteString("    " + delStyle.Render(text))
		default:
			b.WriteString("    " + dimStyle.Render(text))
		}
		b.WriteString("\n")
	}
	if st, err := Stat(unified); err == nil {
		b.WriteString("    " + faintStyle.Render(st.String()) + "\n")
	}
	return b.String()
}
