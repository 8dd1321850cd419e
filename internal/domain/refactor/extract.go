package refactor

import (
	"regexp"
	"strings"
)

// fencePattern matches a fenced block with an optional language tag. The
// body is captured without the newline that precedes the closing fence.
var fencePattern = regexp.MustCompile("```(\\w*)\\n([\\s\\S]*?)\\n```")

// ExtractCode returns the body of the last fenced block in response, so an
// explanatory preamble with its own snippets is skipped. Without any fenced
// block the trimmed response is returned.
func ExtractCode(response string) string {
	matches := fencePattern.FindAllStringSubmatch(response, -1)
	if len(matches) == 0 {
		return strings.TrimSpace(response)
	}
	return matches[len(matches)-1][2]
}

// EstimateChanges approximates the size of an edit as the number of lines
// present in exactly one of the two texts. Reordered or duplicated lines are
// not counted.
func EstimateChanges(original, candidate string) int {
	before := lineSet(original)
	after := lineSet(candidate)

	changed := 0
	for line := range before {
		if !after[line] {
			changed++
		}
	}
	for line := range after {
		if !before[line] {
			changed++
		}
	}
	return changed
}

func lineSet(s string) map[string]bool {
	set := make(map[string]bool)
	if s == "" {
		return set
	}
	for _, line := range strings.Split(strings.TrimSuffix(s, "\n"), "\n") {
		set[strings.TrimSuffix(line, "\r")] = true
	}
	return set
}
