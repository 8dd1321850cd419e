package tui

import (
	"fmt"
	"strings"

	"github.com/codejanitor/janitor/internal/domain"
)

var stateLabels = map[domain.CleanState]string{
	domain.CleanStateClean:      "already clean",
	domain.CleanStateApplied:    "refactored",
	domain.CleanStateRolledBack: "rolled back",
	domain.CleanStateFailed:     "failed",
	domain.CleanStateDryRun:     "dry run",
}

// RenderCleanReports formats the outcome of a clean run.
func RenderCleanReports(reports []*domain.CleanReport) string {
	var b strings.Builder
	applied, failed := 0, 0
	for _, r := range reports {
		renderCleanReport(&b, r)
		switch {
		case r.State == domain.CleanStateApplied:
			applied++
		case !r.Succeeded():
			failed++
		}
	}

	b.WriteString("  " + separatorLine + "\n")
	summary := fmt.Sprintf("%d file(s)  ", len(reports)) +
		passStyle.Render(fmt.Sprintf("%d refactored", applied))
	if failed > 0 {
		summary += "  " + failStyle.Render(fmt.Sprintf("%d not applied", failed))
	}
	b.WriteString("  " + summary + "\n")
	return b.String()
}

func renderCleanReport(b *strings.Builder, r *domain.CleanReport) {
	icon := passStyle.Render("●")
	if !r.Succeeded() {
		icon = failStyle.Render("●")
	} else if r.State == domain.CleanStateDryRun {
		icon = warnStyle.Render("●")
	}

	fmt.Fprintf(b, "\n  %s %s  %s\n", icon, titleStyle.Render(shortenPath(r.Target)), dimStyle.Render(stateLabels[r.State]))

	if r.Analysis != nil && r.Analysis.HasIssues {
		fmt.Fprintf(b, "    %s\n", dimStyle.Render(fmt.Sprintf("%d issues, %d lint findings", r.Analysis.IssueCount, len(r.Analysis.Lint))))
	}
	if r.Refactor != nil && len(r.Refactor.Attempts) > 0 {
		fmt.Fprintf(b, "    %s\n", dimStyle.Render(fmt.Sprintf("%d provider attempt(s), %d repair(s), ~%d lines changed",
			len(r.Refactor.Attempts), r.RepairAttempts, r.Refactor.ChangesMade)))
	}
	if n := len(r.Validations); n > 0 {
		renderChecks(b, r.Validations[n-1])
	}
	if r.Snapshot != nil {
		fmt.Fprintf(b, "    %s %s\n", dimStyle.Render("snapshot"), fileStyle.Render(r.Snapshot.SnapshotPath))
	}
	if r.Error != "" {
		fmt.Fprintf(b, "    %s\n", failStyle.Render(firstLine(r.Error)))
	}
	if r.Diff != "" {
		b.WriteString("\n")
		b.WriteString(RenderDiff(r.Diff))
	}
}

func renderChecks(b *strings.Builder, outcome domain.ValidationOutcome) {
	for _, c := range outcome.Checks {
		mark := passStyle.Render("✓")
		if !c.Passed {
			mark = failStyle.Render("✗")
		}
		fmt.Fprintf(b, "    %s %s %s\n", mark, padRight(c.Name, 9), dimStyle.Render(c.Message))
		if !c.Passed {
			for _, issue := range c.Issues {
				fmt.Fprintf(b, "        %s\n", faintStyle.Render(issue))
			}
		}
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// RenderSnapshots lists snapshots, newest first.
func RenderSnapshots(snaps []domain.Snapshot) string {
	if len(snaps) == 0 {
		return "  " + dimStyle.Render("No snapshots found.") + "\n"
	}

	var b strings.Builder
	b.WriteString("\n  " + titleStyle.Render("Snapshots") + "\n")
	b.WriteString("  " + faintStyle.Render(strings.Repeat("─", 50)) + "\n\n")
	for _, s := range snaps {
		fmt.Fprintf(&b, "  %s  %s  %s\n",
			dimStyle.Render(s.CreatedAt.Format("2006-01-02 15:04:05")),
			titleStyle.Render(padRight(s.OriginalName, 24)),
			fileStyle.Render(s.SnapshotPath),
		)
	}
	return b.String()
}
