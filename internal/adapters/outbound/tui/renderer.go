package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/codejanitor/janitor/internal/domain"
)

// ── Warm palette ──
var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3") // warm light gray
	dim     = lipgloss.Color("#6B7280") // muted gray
	faint   = lipgloss.Color("#3F3F46") // very dim
	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red
	warning = lipgloss.Color("#F59E0B") // amber-yellow
	info    = lipgloss.Color("#8B949E") // soft blue-gray
	crit    = lipgloss.Color("#DC2626") // deep red
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Align(lipgloss.Center)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 4).
			Align(lipgloss.Center).
			Width(68)

	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	faintStyle    = lipgloss.NewStyle().Foreground(faint)
	passStyle     = lipgloss.NewStyle().Foreground(success)
	failStyle     = lipgloss.NewStyle().Foreground(danger)
	warnStyle     = lipgloss.NewStyle().Foreground(warning)
	critTagStyle  = lipgloss.NewStyle().Foreground(crit).Bold(true).Reverse(true)
	errorTagStyle = lipgloss.NewStyle().Foreground(danger).Bold(true)
	warnTagStyle  = lipgloss.NewStyle().Foreground(warning).Bold(true)
	infoTagStyle  = lipgloss.NewStyle().Foreground(info)
	fileStyle     = lipgloss.NewStyle().Foreground(dim)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	catNameStyle  = lipgloss.NewStyle().Bold(true).Foreground(fg)
	hintStyle     = lipgloss.NewStyle().Foreground(dim).Italic(true)
	separatorLine = faintStyle.Render(strings.Repeat("─", 64))
)

var categoryOrder = []domain.Category{
	domain.CategorySecurity,
	domain.CategorySyntax,
	domain.CategoryComplexity,
	domain.CategoryMaintainability,
	domain.CategoryIO,
}

// RenderAnalysis formats an analysis result for the terminal.
func RenderAnalysis(result *domain.AnalysisResult) string {
	var b strings.Builder

	// ── Header ──
	title := headerStyle.Render("janitor")
	subtitle := dimStyle.Render(shortenPath(result.Target))
	var status string
	if result.HasIssues {
		status = failStyle.Bold(true).Render(fmt.Sprintf("%d issues  %d lint findings", result.IssueCount, len(result.Lint)))
	} else {
		status = passStyle.Bold(true).Render("clean")
	}
	files := dimStyle.Render(fmt.Sprintf("%d file(s) analyzed", len(result.Files)))

	b.WriteString(boxStyle.Render(title + "\n" + subtitle + "\n\n" + status + "\n" + files))
	b.WriteString("\n\n")

	// ── Categories ──
	if result.IssueCount > 0 {
		for _, cat := range categoryOrder {
			n := len(result.ByCategory[cat])
			if n == 0 {
				continue
			}
			name := catNameStyle.Render(padRight(string(cat), 18))
			fmt.Fprintf(&b, "  %s %s  %s\n", name, countBar(n, result.IssueCount, 20), dimStyle.Render(fmt.Sprintf("%d", n)))
		}
		b.WriteString("\n  " + separatorLine + "\n\n")
	}

	// ── Issues ──
	issues := result.SortedBySeverity()
	if len(issues) == 0 {
		b.WriteString("  " + passStyle.Render("No issues found.") + "\n\n")
		return b.String()
	}

	b.WriteString("  " + titleStyle.Render("Issues") + "  " + severitySummary(issues) + "\n\n")
	for _, issue := range issues {
		renderIssue(&b, issue)
	}
	b.WriteString("\n")
	b.WriteString("  " + hintStyle.Render("Run `janitor clean` to refactor these files automatically."))
	b.WriteString("\n")
	return b.String()
}

func severitySummary(issues []domain.Issue) string {
	counts := make(map[domain.Severity]int)
	for _, i := range issues {
		counts[i.Severity]++
	}

	var parts []string
	if n := counts[domain.SeverityCritical]; n > 0 {
		parts = append(parts, critTagStyle.Render(fmt.Sprintf(" %d critical ", n)))
	}
	if n := counts[domain.SeverityError]; n > 0 {
		parts = append(parts, errorTagStyle.Render(fmt.Sprintf("%d errors", n)))
	}
	if n := counts[domain.SeverityWarning]; n > 0 {
		parts = append(parts, warnTagStyle.Render(fmt.Sprintf("%d warnings", n)))
	}
	if n := counts[domain.SeverityInfo]; n > 0 {
		parts = append(parts, infoTagStyle.Render(fmt.Sprintf("%d info", n)))
	}
	return strings.Join(parts, "  ")
}

func renderIssue(b *strings.Builder, issue domain.Issue) {
	tag := severityTag(issue.Severity)
	loc := fileStyle.Render(fmt.Sprintf("%s:%d", shortenPath(issue.File), issue.Line))

	fmt.Fprintf(b, "    %s %s\n", tag, loc)
	fmt.Fprintf(b, "         %s\n", issue.Message)
	if issue.Suggestion != "" {
		fmt.Fprintf(b, "         %s\n", hintStyle.Render(issue.Suggestion))
	}
}

func severityTag(severity domain.Severity) string {
	switch severity {
	case domain.SeverityCritical:
		return critTagStyle.Render("crit ")
	case domain.SeverityError:
		return errorTagStyle.Render("error")
	case domain.SeverityWarning:
		return warnTagStyle.Render("warn ")
	default:
		return infoTagStyle.Render("info ")
	}
}

func countBar(n, total, width int) string {
	filled := 0
	if total > 0 {
		filled = max(1, min(n*width/total, width))
	}
	return warnStyle.Render(strings.Repeat("█", filled)) + faintStyle.Render(strings.Repeat("░", width-filled))
}

func shortenPath(path string) string {
	parts := strings.Split(filepath.ToSlash(path), "/")
	if len(parts) > 3 {
		return strings.Join(parts[len(parts)-3:], "/")
	}
	return path
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// RenderHistory formats analysis records, newest first.
func RenderHistory(records []domain.AnalysisRecord) string {
	if len(records) == 0 {
		return "  " + dimStyle.Render("No analysis history found.") + "\n"
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + titleStyle.Render("Analysis History") + "\n")
	b.WriteString("  " + faintStyle.Render(strings.Repeat("─", 50)) + "\n\n")

	for _, r := range records {
		hash := r.CommitHash
		if len(hash) > 7 {
			hash = hash[:7]
		}
		if hash == "" {
			hash = "·······"
		}

		total := lipgloss.NewStyle().Foreground(issueColor(r.TotalIssues)).Render(fmt.Sprintf("%3d issues", r.TotalIssues))
		line := fmt.Sprintf("  %s  %s  %s  %s",
			dimStyle.Render(r.Timestamp.Format("2006-01-02 15:04")),
			faintStyle.Render(hash),
			total,
			fileStyle.Render(shortenPath(r.Target)),
		)
		if r.SecurityIssues > 0 {
			line += "  " + failStyle.Render(fmt.Sprintf("%d security", r.SecurityIssues))
		}
		if r.WasRefactored {
			line += "  " + passStyle.Render("refactored")
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func issueColor(n int) lipgloss.Color {
	switch {
	case n == 0:
		return success
	case n < 5:
		return warning
	default:
		return danger
	}
}
