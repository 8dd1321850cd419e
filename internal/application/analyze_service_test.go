package application_test

import (
	"context"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codejanitor/janitor/internal/domain"
)

func TestAnalyze_FixtureProject(t *testing.T) {
	svc := newAnalyzer(testConfig())

	result, err := svc.Analyze(context.Background(), fixtureDir)
	require.NoError(t, err)
	require.Len(t, result.Files, 4)
	assert.True(t, result.HasIssues)

	handlers := filepath.Join(fixtureDir, "app", "handlers.py")
	main := filepath.Join(fixtureDir, "main.py")

	var depths []int
	for _, issue := range result.Issues {
		if issue.File == handlers && issue.Depth > 0 {
			depths = append(depths, issue.Depth)
		}
	}
	sort.Ints(depths)
	assert.Equal(t, []int{5, 6}, depths)

	dead := result.Filter(func(i domain.Issue) bool {
		return i.File == main && i.Line == 7
	})
	require.Len(t, dead, 1)
	assert.Contains(t, dead[0].Message, "'unused'")

	security := result.ForFile(handlers).SecurityIssues()
	var critical int
	var messages []string
	for _, issue := range security {
		messages = append(messages, issue.Message)
		if issue.Severity == domain.SeverityCritical {
			critical++
		}
	}
	assert.Equal(t, 2, critical, "eval and the SQL concatenation are critical")
	assert.Contains(t, messages, "Dangerous use of eval/exec detected (eval)")
	assert.Contains(t, messages, "Potential SQL injection - use parameterized queries")
	assert.Contains(t, messages, "pickle module can execute arbitrary code")
}

func TestAnalyze_MissingTarget(t *testing.T) {
	svc := newAnalyzer(testConfig())

	_, err := svc.Analyze(context.Background(), filepath.Join(t.TempDir(), "missing.py"))
	assert.Error(t, err)
}

func TestAnalyzeFile_SyntaxError(t *testing.T) {
	path := writeFile(t, t.TempDir(), "broken.py", "def broken(:\n    pass\n")
	svc := newAnalyzer(testConfig())

	result := svc.AnalyzeFile(context.Background(), path)
	require.Len(t, result.ByCategory[domain.CategorySyntax], 1)
	assert.Equal(t, domain.SeverityCritical, result.ByCategory[domain.CategorySyntax][0].Severity)
}

func TestAnalyzeFile_Unreadable(t *testing.T) {
	svc := newAnalyzer(testConfig())

	result := svc.AnalyzeFile(context.Background(), filepath.Join(t.TempDir(), "gone.py"))
	assert.True(t, result.HasIssues)
	assert.Len(t, result.ByCategory[domain.CategoryIO], 1)
}

func TestAnalyze_ThresholdsFromConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Analyzer.MaxNestingDepth = 10
	svc := newAnalyzer(cfg)

	result, err := svc.Analyze(context.Background(), filepath.Join(fixtureDir, "app", "handlers.py"))
	require.NoError(t, err)
	for _, issue := range result.Issues {
		assert.Zero(t, issue.Depth, "no nesting issue expected with max depth 10")
	}
}

func TestLint_WithoutLinter(t *testing.T) {
	svc := newAnalyzer(testConfig())

	assert.False(t, svc.LinterAvailable())
	assert.Nil(t, svc.Lint(context.Background(), "x.py"))
	assert.Zero(t, svc.Fix(context.Background(), "x.py"))
}
