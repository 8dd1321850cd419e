package detect_test

import (
	"context"
	"testing"

	"github.com/codejanitor/janitor/internal/adapters/outbound/parser"
	"github.com/codejanitor/janitor/internal/domain"
	"github.com/codejanitor/janitor/internal/domain/detect"
	"github.com/stretchr/testify/require"
)

func parseSource(t *testing.T, src string) *domain.SyntaxTree {
	t.Helper()
	tree, err := parser.New().Parse(context.Background(), "sample.py", []byte(src))
	require.NoError(t, err)
	require.Nil(t, tree.SyntaxError, "fixture must be valid Python")
	return tree
}

func run(t *testing.T, v detect.Visitor, src string) []domain.Issue {
	t.Helper()
	tree := parseSource(t, src)
	detect.Walk(tree.Root, v)
	return v.Issues()
}

func messages(issues []domain.Issue) []string {
	out := make([]string, len(issues))
	for i, issue := range issues {
		out[i] = issue.Message
	}
	return out
}
