package detect

import (
	"fmt"

	"github.com/codejanitor/janitor/internal/domain"
)

var (
	dangerousBuiltins = map[string]bool{"eval": true, "exec": true}
	unsafeSerializers = map[string]bool{"pickle": true, "cPickle": true}
)

// SecurityVisitor matches structural patterns known to be risky: eval and
// exec called by name, query execution with a dynamically built string, and
// imports of pickle.
type SecurityVisitor struct {
	file   string
	issues []domain.Issue
}

func NewSecurityVisitor(file string) *SecurityVisitor {
	return &SecurityVisitor{file: file}
}

func (v *SecurityVisitor) Enter(n domain.SyntaxNode) {
	switch n.Kind() {
	case "call":
		v.checkCall(n)
	case "import_statement":
		for _, name := range n.Children() {
			module := name
			if name.Kind() == "aliased_import" {
				module = name.Field("name")
			}
			if module != nil && unsafeSerializers[module.Text()] {
				v.addPickle(n)
			}
		}
	case "import_from_statement":
		if module := n.Field("module_name"); module != nil && unsafeSerializers[module.Text()] {
			v.addPickle(n)
		}
	}
}

func (v *SecurityVisitor) Leave(domain.SyntaxNode) {}

func (v *SecurityVisitor) Issues() []domain.Issue { return v.issues }

func (v *SecurityVisitor) checkCall(call domain.SyntaxNode) {
	fn := call.Field("function")
	if fn == nil {
		return
	}

	switch fn.Kind() {
	case "identifier":
		if dangerousBuiltins[fn.Text()] {
			v.issues = append(v.issues, domain.Issue{
				File:       v.file,
				Line:       call.StartLine(),
				Column:     call.StartColumn(),
				Category:   domain.CategorySecurity,
				Severity:   domain.SeverityCritical,
				Message:    fmt.Sprintf("Dangerous use of eval/exec detected (%s)", fn.Text()),
				Suggestion: "Avoid eval/exec with user input",
			})
		}
	case "attribute":
		attr := fn.Field("attribute")
		if attr == nil || attr.Text() != "execute" {
			return
		}
		args := call.Field("arguments")
		if args == nil || args.Kind() != "argument_list" {
			return
		}
		for _, arg := range args.Children() {
			if isDynamicString(arg) {
				v.issues = append(v.issues, domain.Issue{
					File:       v.file,
					Line:       call.StartLine(),
					Column:     call.StartColumn(),
					Category:   domain.CategorySecurity,
					Severity:   domain.SeverityCritical,
					Message:    "Potential SQL injection - use parameterized queries",
					Suggestion: "Pass query parameters separately instead of building the query string",
				})
			}
		}
	}
}

func (v *SecurityVisitor) addPickle(n domain.SyntaxNode) {
	v.issues = append(v.issues, domain.Issue{
		File:       v.file,
		Line:       n.StartLine(),
		Category:   domain.CategorySecurity,
		Severity:   domain.SeverityWarning,
		Message:    "pickle module can execute arbitrary code",
		Suggestion: "Consider safer alternatives like json",
	})
}

// isDynamicString reports whether a positional argument builds a string at
// runtime: concatenation or % formatting, an f-string, or a .format() call.
func isDynamicString(n domain.SyntaxNode) bool {
	switch n.Kind() {
	case "binary_operator":
		return true
	case "string":
		for _, c := range n.Children() {
			if c.Kind() == "interpolation" {
				return true
			}
		}
	case "call":
		if fn := n.Field("function"); fn != nil && fn.Kind() == "attribute" {
			if attr := fn.Field("attribute"); attr != nil && attr.Text() == "format" {
				return true
			}
		}
	}
	return false
}
