// Package report renders analysis results as standalone documents for
// `janitor check --format json|html`.
package report

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/codejanitor/janitor/internal/domain"
)

// Format names accepted by Write.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatHTML = "html"
)

//go:embed report.html.tmpl
var htmlSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"sevClass": func(s domain.Severity) string { return "sev-" + string(s) },
}).Parse(htmlSource))

// Document is the serialized form of a check run.
type Document struct {
	Tool        string                 `json:"tool"`
	Version     string                 `json:"version"`
	GeneratedAt time.Time              `json:"generated_at"`
	Summary     Summary                `json:"summary"`
	Result      *domain.AnalysisResult `json:"result"`
}

type Summary struct {
	Files          int `json:"files"`
	Issues         int `json:"issues"`
	Critical       int `json:"critical"`
	SecurityIssues int `json:"security_issues"`
	LintFindings   int `json:"lint_findings"`
}

// NewDocument wraps result with a summary block.
func NewDocument(result *domain.AnalysisResult, version string) Document {
	return Document{
		Tool:        "janitor",
		Version:     version,
		GeneratedAt: time.Now().UTC(),
		Result:      result,
		Summary: Summary{
			Files:          len(result.Files),
			Issues:         result.IssueCount,
			Critical:       len(result.BySeverity[domain.SeverityCritical]),
			SecurityIssues: len(result.SecurityIssues()),
			LintFindings:   len(result.Lint),
		},
	}
}

// JSON writes doc as indented JSON.
func JSON(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding json report: %w", err)
	}
	return nil
}

// HTML writes doc as a self-contained HTML page.
func HTML(w io.Writer, doc Document) error {
	view := struct {
		Document
		Issues []domain.Issue
	}{doc, doc.Result.SortedBySeverity()}
	if err := htmlTemplate.Execute(w, view); err != nil {
		return fmt.Errorf("rendering html report: %w", err)
	}
	return nil
}

// Render returns doc in the given format. FormatText is handled by the tui
// package and is rejected here.
func Render(format string, doc Document) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch format {
	case FormatJSON:
		err = JSON(&buf, doc)
	case FormatHTML:
		err = HTML(&buf, doc)
	default:
		return nil, fmt.Errorf("unsupported report format %q (valid: text, json, html)", format)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile renders doc to path, creating parent directories.
func WriteFile(path, format string, doc Document) error {
	data, err := Render(format, doc)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}
