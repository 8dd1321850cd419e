// Package safety scans candidate source text for hardcoded credentials and
// dynamic code execution before it may replace a file on disk.
package safety

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Finding is one match of a safety rule.
type Finding struct {
	Rule    string
	Line    int
	Message string
}

func (f Finding) String() string {
	return fmt.Sprintf("line %d: %s", f.Line, f.Message)
}

type secretRule struct {
	name    string
	pattern *regexp.Regexp
	message string
}

var secretRules = []secretRule{
	{
		name:    "hardcoded-api-key",
		pattern: regexp.MustCompile(`(?i)(api_key|apikey|secret_key)\s*[:=]\s*["'][^"']{20,}["']`),
		message: "Possible hardcoded API key or secret",
	},
	{
		name:    "hardcoded-password",
		pattern: regexp.MustCompile(`(?i)password\s*[:=]\s*["'][^"']{8,}["']`),
		message: "Possible hardcoded password",
	},
	{
		name:    "bearer-token",
		pattern: regexp.MustCompile(`Bearer\s+[A-Za-z0-9\-._~+/]{20,}`),
		message: "Possible hardcoded bearer token",
	},
}

type callRule struct {
	name    string
	pattern *regexp.Regexp
}

// dangerousCalls match the name at an identifier boundary, so attribute
// calls like builtins.eval( count and literal_eval( does not.
var dangerousCalls = []callRule{
	{"eval", regexp.MustCompile(`\beval\s*\(`)},
	{"exec", regexp.MustCompile(`\bexec\s*\(`)},
	{"__import__", regexp.MustCompile(`\b__import__\s*\(`)},
}

// Scan returns every finding in text ordered by line.
func Scan(text string) []Finding {
	var findings []Finding
	for i, line := range strings.Split(text, "\n") {
		lineNo := i + 1
		for _, rule := range secretRules {
			if rule.pattern.MatchString(line) {
				findings = append(findings, Finding{Rule: rule.name, Line: lineNo, Message: rule.message})
			}
		}
		for _, call := range dangerousCalls {
			if call.pattern.MatchString(line) {
				findings = append(findings, Finding{
					Rule:    "dangerous-call",
					Line:    lineNo,
					Message: fmt.Sprintf("Dangerous function call: %s", call.name),
				})
			}
		}
	}
	sort.SliceStable(findings, func(i, j int) bool { return findings[i].Line < findings[j].Line })
	return findings
}
