package parser

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/codejanitor/janitor/internal/domain"
)

// PythonParser implements domain.SourceParser using tree-sitter.
type PythonParser struct{}

func New() *PythonParser {
	return &PythonParser{}
}

// Parse builds a syntax tree for src. tree-sitter recovers from invalid input,
// so a file with syntax errors still yields a tree; the first error is
// reported in SyntaxTree.SyntaxError rather than as a Go error.
func (p *PythonParser) Parse(ctx context.Context, file string, src []byte) (*domain.SyntaxTree, error) {
	// sitter.Parser is not safe for concurrent use, so each call gets its own.
	sp := sitter.NewParser()
	sp.SetLanguage(python.GetLanguage())

	tree, err := sp.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", file, err)
	}

	root := tree.RootNode()
	result := &domain.SyntaxTree{
		File:   file,
		Source: src,
		Root:   wrap(root, src),
	}

	if root.HasError() {
		result.SyntaxError = firstError(root, src)
	}

	return result, nil
}

// firstError returns the earliest ERROR or MISSING node in document order.
func firstError(n *sitter.Node, src []byte) *domain.SyntaxError {
	if n.IsMissing() {
		return &domain.SyntaxError{
			Line:    int(n.StartPoint().Row) + 1,
			Column:  int(n.StartPoint().Column) + 1,
			Message: fmt.Sprintf("missing %q", n.Type()),
		}
	}
	if n.IsError() {
		return &domain.SyntaxError{
			Line:    int(n.StartPoint().Row) + 1,
			Column:  int(n.StartPoint().Column) + 1,
			Message: fmt.Sprintf("invalid syntax near %q", snippet(n.Content(src))),
		}
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil || !(child.HasError() || child.IsMissing()) {
			continue
		}
		if se := firstError(child, src); se != nil {
			return se
		}
	}
	// HasError was set but no node owns it; point at the start of the node.
	return &domain.SyntaxError{
		Line:    int(n.StartPoint().Row) + 1,
		Column:  int(n.StartPoint().Column) + 1,
		Message: "invalid syntax",
	}
}

// snippet returns the first line of s, cut to at most 30 runes.
func snippet(s string) string {
	const maxRunes = 30
	n := 0
	for i, r := range s {
		if r == '\n' || n == maxRunes {
			return s[:i]
		}
		n++
	}
	return s
}
