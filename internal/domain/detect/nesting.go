package detect

import (
	"fmt"

	"github.com/codejanitor/janitor/internal/domain"
)

// nestingKinds maps compound statements that open a nesting level to the
// label used in messages.
var nestingKinds = map[string]string{
	"if_statement":    "if block",
	"for_statement":   "for loop",
	"while_statement": "while loop",
	"try_statement":   "try block",
}

// An elif is a conditional nested in the else branch of the one before it,
// so every elif_clause of a chain adds one more level. The else clause sits
// at the level of the last elif.
const elifKind = "elif_clause"

// NestingVisitor reports every compound statement whose nesting depth
// exceeds the configured maximum, one issue per offending node.
type NestingVisitor struct {
	file   string
	max    int
	depth  int
	elifs  []int
	issues []domain.Issue
}

func NewNestingVisitor(file string, maxDepth int) *NestingVisitor {
	return &NestingVisitor{file: file, max: maxDepth}
}

func (v *NestingVisitor) Enter(n domain.SyntaxNode) {
	if n.Kind() == elifKind {
		if len(v.elifs) == 0 {
			return
		}
		v.elifs[len(v.elifs)-1]++
		v.open(n, "elif block")
		return
	}
	label, ok := nestingKinds[n.Kind()]
	if !ok {
		return
	}
	if n.Kind() == "if_statement" {
		v.elifs = append(v.elifs, 0)
	}
	v.open(n, label)
}

func (v *NestingVisitor) open(n domain.SyntaxNode, label string) {
	v.depth++
	if v.depth > v.max {
		v.issues = append(v.issues, domain.Issue{
			File:       v.file,
			Line:       n.StartLine(),
			Column:     n.StartColumn(),
			Category:   domain.CategoryMaintainability,
			Severity:   domain.SeverityWarning,
			Message:    fmt.Sprintf("Deep nesting in %s (depth: %d)", label, v.depth),
			Suggestion: "Consider extracting into helper functions or using early returns",
			Depth:      v.depth,
		})
	}
}

func (v *NestingVisitor) Leave(n domain.SyntaxNode) {
	if _, ok := nestingKinds[n.Kind()]; !ok {
		return
	}
	v.depth--
	if n.Kind() == "if_statement" && len(v.elifs) > 0 {
		v.depth -= v.elifs[len(v.elifs)-1]
		v.elifs = v.elifs[:len(v.elifs)-1]
	}
}

func (v *NestingVisitor) Issues() []domain.Issue { return v.issues }
