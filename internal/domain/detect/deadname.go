package detect

import (
	"fmt"
	"sort"

	"github.com/codejanitor/janitor/internal/domain"
)

// DeadNameVisitor reports names that are bound but never read anywhere in
// the file. It keeps one bound set and one read set for the whole file and
// ignores scopes, so a name read in one function keeps a same-named
// binding in another function alive, and methods only ever called as
// attributes are reported.
type DeadNameVisitor struct {
	file     string
	bound    map[string]int // name -> last binding line
	read     map[string]bool
	ignored  map[span]bool // identifier nodes that are neither bound nor read
	suppress int           // >0 inside import, global and nonlocal statements
}

func NewDeadNameVisitor(file string) *DeadNameVisitor {
	return &DeadNameVisitor{
		file:    file,
		bound:   make(map[string]int),
		read:    make(map[string]bool),
		ignored: make(map[span]bool),
	}
}

func (v *DeadNameVisitor) Enter(n domain.SyntaxNode) {
	switch n.Kind() {
	case "identifier":
		if v.suppress > 0 || v.ignored[spanOf(n)] {
			return
		}
		v.read[n.Text()] = true
	case "import_statement", "import_from_statement", "future_import_statement",
		"global_statement", "nonlocal_statement":
		v.suppress++
	case "function_definition", "class_definition":
		v.bindTarget(n.Field("name"))
	case "assignment", "augmented_assignment", "for_statement", "for_in_clause":
		v.bindTarget(n.Field("left"))
	case "named_expression":
		v.bindTarget(n.Field("name"))
	case "with_item":
		if value := n.Field("value"); value != nil && value.Kind() == "as_pattern" {
			v.bindTarget(value.Field("alias"))
		}
	case "attribute":
		v.ignore(n.Field("attribute"))
	case "keyword_argument":
		v.ignore(n.Field("name"))
	case "parameters", "lambda_parameters":
		v.ignoreParameters(n)
	case "delete_statement":
		v.ignoreDeleted(n)
	}
}

func (v *DeadNameVisitor) Leave(n domain.SyntaxNode) {
	switch n.Kind() {
	case "import_statement", "import_from_statement", "future_import_statement",
		"global_statement", "nonlocal_statement":
		v.suppress--
	}
}

// bindTarget records every plain name in an assignment target. Attribute
// and subscript targets bind nothing; their object and index are reads.
func (v *DeadNameVisitor) bindTarget(n domain.SyntaxNode) {
	if n == nil {
		return
	}
	switch n.Kind() {
	case "identifier":
		v.ignored[spanOf(n)] = true
		v.bound[n.Text()] = n.StartLine()
	case "pattern_list", "tuple_pattern", "list_pattern", "tuple", "list",
		"expression_list", "parenthesized_expression", "list_splat_pattern",
		"as_pattern_target":
		for _, child := range n.Children() {
			v.bindTarget(child)
		}
	}
}

func (v *DeadNameVisitor) ignore(n domain.SyntaxNode) {
	if n != nil && n.Kind() == "identifier" {
		v.ignored[spanOf(n)] = true
	}
}

// ignoreParameters skips parameter names. Defaults and annotations stay reads.
func (v *DeadNameVisitor) ignoreParameters(params domain.SyntaxNode) {
	for _, p := range params.Children() {
		switch p.Kind() {
		case "identifier":
			v.ignore(p)
		case "default_parameter", "typed_default_parameter":
			v.ignore(p.Field("name"))
		case "typed_parameter", "list_splat_pattern", "dictionary_splat_pattern":
			for _, c := range p.Children() {
				if c.Kind() == "identifier" {
					v.ignore(c)
					break
				}
			}
		}
	}
}

// ignoreDeleted skips bare names deleted by del; del x[i] still reads x and i.
func (v *DeadNameVisitor) ignoreDeleted(n domain.SyntaxNode) {
	for _, c := range n.Children() {
		switch c.Kind() {
		case "identifier":
			v.ignore(c)
		case "expression_list":
			for _, e := range c.Children() {
				v.ignore(e)
			}
		}
	}
}

// Issues lists each dead name once, at its last binding line, ordered by
// line then name.
func (v *DeadNameVisitor) Issues() []domain.Issue {
	var names []string
	for name := range v.bound {
		if !v.read[name] {
			names = append(names, name)
		}
	}
	sort.Slice(names, func(i, j int) bool {
		li, lj := v.bound[names[i]], v.bound[names[j]]
		if li != lj {
			return li < lj
		}
		return names[i] < names[j]
	})

	issues := make([]domain.Issue, 0, len(names))
	for _, name := range names {
		issues = append(issues, domain.Issue{
			File:       v.file,
			Line:       v.bound[name],
			Category:   domain.CategoryMaintainability,
			Severity:   domain.SeverityInfo,
			Message:    fmt.Sprintf("Variable or function '%s' is defined but never used", name),
			Suggestion: "Remove unused definition or ensure it's called",
		})
	}
	return issues
}
