package parser

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/codejanitor/janitor/internal/domain"
)

// node adapts a tree-sitter node to domain.SyntaxNode. Only named children
// are exposed; keywords and punctuation are never needed by detectors.
type node struct {
	n   *sitter.Node
	src []byte
}

func wrap(n *sitter.Node, src []byte) domain.SyntaxNode {
	if n == nil {
		return nil
	}
	return &node{n: n, src: src}
}

func (w *node) Kind() string { return w.n.Type() }

func (w *node) StartLine() int { return int(w.n.StartPoint().Row) + 1 }

func (w *node) StartColumn() int { return int(w.n.StartPoint().Column) + 1 }

// EndLine is the last line holding any of the node's text. tree-sitter ends
// a block at column 0 of the following line when it swallows a newline.
func (w *node) EndLine() int {
	end := w.n.EndPoint()
	line := int(end.Row) + 1
	if end.Column == 0 && end.Row > w.n.StartPoint().Row {
		line--
	}
	return line
}

func (w *node) Text() string { return w.n.Content(w.src) }

func (w *node) Children() []domain.SyntaxNode {
	count := int(w.n.NamedChildCount())
	out := make([]domain.SyntaxNode, 0, count)
	for i := 0; i < count; i++ {
		if c := w.n.NamedChild(i); c != nil {
			out = append(out, &node{n: c, src: w.src})
		}
	}
	return out
}

func (w *node) Field(name string) domain.SyntaxNode {
	return wrap(w.n.ChildByFieldName(name), w.src)
}

func (w *node) Span() (int, int) { return int(w.n.StartByte()), int(w.n.EndByte()) }
