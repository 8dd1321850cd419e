package detect

import (
	"fmt"

	"github.com/codejanitor/janitor/internal/domain"
)

// LengthVisitor reports function definitions longer than the configured
// maximum. Length counts every line from the def line to the last body
// line, blank lines and comments included.
type LengthVisitor struct {
	file   string
	max    int
	issues []domain.Issue
}

func NewLengthVisitor(file string, maxLines int) *LengthVisitor {
	return &LengthVisitor{file: file, max: maxLines}
}

func (v *LengthVisitor) Enter(n domain.SyntaxNode) {
	if n.Kind() != "function_definition" {
		return
	}
	length := n.EndLine() - n.StartLine() + 1
	if length <= v.max {
		return
	}
	name := "<anonymous>"
	if id := n.Field("name"); id != nil {
		name = id.Text()
	}
	v.issues = append(v.issues, domain.Issue{
		File:           v.file,
		Line:           n.StartLine(),
		Category:       domain.CategoryMaintainability,
		Severity:       domain.SeverityWarning,
		Message:        fmt.Sprintf("Function '%s' is %d lines (max: %d)", name, length, v.max),
		Suggestion:     "Consider breaking into smaller helper functions",
		FunctionName:   name,
		FunctionLength: length,
	})
}

func (v *LengthVisitor) Leave(domain.SyntaxNode) {}

func (v *LengthVisitor) Issues() []domain.Issue { return v.issues }
