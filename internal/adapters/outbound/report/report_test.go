package report_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codejanitor/janitor/internal/adapters/outbound/report"
	"github.com/codejanitor/janitor/internal/domain"
)

func sampleDocument() report.Document {
	issues := []domain.Issue{
		{File: "app.py", Line: 3, Category: domain.CategorySecurity, Severity: domain.SeverityCritical,
			Message: "Dangerous use of eval/exec detected (eval)", Suggestion: "Avoid eval(); use <ast.literal_eval> instead"},
		{File: "app.py", Line: 8, Category: domain.CategoryMaintainability, Severity: domain.SeverityInfo, Message: "Variable 'unused' assigned but never used"},
	}
	return report.NewDocument(domain.NewAnalysisResult("app.py", issues, nil, nil), "1.2.3")
}

func TestNewDocument_Summary(t *testing.T) {
	doc := sampleDocument()

	assert.Equal(t, "janitor", doc.Tool)
	assert.Equal(t, 1, doc.Summary.Files)
	assert.Equal(t, 2, doc.Summary.Issues)
	assert.Equal(t, 1, doc.Summary.Critical)
	assert.Equal(t, 1, doc.Summary.SecurityIssues)
	assert.Equal(t, 0, doc.Summary.LintFindings)
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.JSON(&buf, sampleDocument()))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "1.2.3", decoded["version"])
	summary := decoded["summary"].(map[string]any)
	assert.EqualValues(t, 2, summary["issues"])
	result := decoded["result"].(map[string]any)
	assert.Equal(t, true, result["has_issues"])
}

func TestHTML_EscapesAndOrders(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.HTML(&buf, sampleDocument()))
	out := buf.String()

	assert.Contains(t, out, "<h1>janitor</h1>")
	assert.Contains(t, out, `class="sev-critical"`)
	assert.Contains(t, out, "&lt;ast.literal_eval&gt;")
	assert.Contains(t, out, "app.py:3")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("eval/exec")), bytes.Index(buf.Bytes(), []byte("never used")))
}

func TestHTML_NoIssues(t *testing.T) {
	doc := report.NewDocument(domain.NewAnalysisResult("clean.py", nil, nil, nil), "dev")

	var buf bytes.Buffer
	require.NoError(t, report.HTML(&buf, doc))
	assert.Contains(t, buf.String(), "No issues found.")
}

func TestRender_UnknownFormat(t *testing.T) {
	_, err := report.Render("xml", sampleDocument())
	assert.ErrorContains(t, err, "unsupported report format")
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.html")

	require.NoError(t, report.WriteFile(path, report.FormatHTML, sampleDocument()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<!DOCTYPE html>")
}
