// Package detect finds code smells and dangerous constructs in a parsed
// syntax tree. Each detector is an independent Visitor; the Engine runs
// them one after another and concatenates what they report.
package detect

import "github.com/codejanitor/janitor/internal/domain"

// Visitor is one detection strategy. Enter is called before a node's
// children are walked and Leave after. Issues returns what was found.
type Visitor interface {
	Enter(n domain.SyntaxNode)
	Leave(n domain.SyntaxNode)
	Issues() []domain.Issue
}

// Walk traverses the tree rooted at n depth-first, in document order.
func Walk(n domain.SyntaxNode, v Visitor) {
	if n == nil {
		return
	}
	v.Enter(n)
	for _, child := range n.Children() {
		Walk(child, v)
	}
	v.Leave(n)
}

type span [2]int

func spanOf(n domain.SyntaxNode) span {
	start, end := n.Span()
	return span{start, end}
}
