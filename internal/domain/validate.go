package domain

import "strings"

// Validation check names, in the order the gate runs them.
const (
	CheckSyntax   = "syntax"
	CheckLint     = "lint"
	CheckSecurity = "security"
	CheckSafety   = "safety"
)

// CheckResult is the outcome of one validation check.
type CheckResult struct {
	Name    string   `json:"name"`
	Passed  bool     `json:"passed"`
	Message string   `json:"message"`
	Issues  []string `json:"issues,omitempty"`
}

// ValidationOutcome is the ordered list of checks run against one candidate.
type ValidationOutcome struct {
	Checks []CheckResult `json:"checks"`
}

// Passed is the logical AND of every check. An outcome with no checks has
// not been validated and does not pass.
func (v ValidationOutcome) Passed() bool {
	if len(v.Checks) == 0 {
		return false
	}
	for _, c := range v.Checks {
		if !c.Passed {
			return false
		}
	}
	return true
}

// Failed returns the checks that did not pass.
func (v ValidationOutcome) Failed() []CheckResult {
	var out []CheckResult
	for _, c := range v.Checks {
		if !c.Passed {
			out = append(out, c)
		}
	}
	return out
}

// Check returns the named check result, if it ran.
func (v ValidationOutcome) Check(name string) (CheckResult, bool) {
	for _, c := range v.Checks {
		if c.Name == name {
			return c, true
		}
	}
	return CheckResult{}, false
}

// ErrorReport renders every failed check and its nested issues. It is the
// only feedback the completion provider gets on a repair attempt.
func (v ValidationOutcome) ErrorReport() string {
	var b strings.Builder
	b.WriteString("Validation failed with the following issues:")
	for _, c := range v.Failed() {
		b.WriteString("\n- ")
		b.WriteString(c.Message)
		for _, issue := range c.Issues {
			b.WriteString("\n  * ")
			b.WriteString(issue)
		}
	}
	return b.String()
}
