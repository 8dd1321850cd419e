package detect_test

import (
	"testing"

	"github.com/codejanitor/janitor/internal/domain"
	"github.com/codejanitor/janitor/internal/domain/detect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sixLevels = `def f(x):
    if x:
        if x:
            if x:
                if x:
                    if x:
                        if x:
                            return x
`

func TestNesting_SixLevelsMaxFour(t *testing.T) {
	issues := run(t, detect.NewNestingVisitor("sample.py", 4), sixLevels)

	require.Len(t, issues, 2, "one issue per offending node")
	assert.Equal(t, 5, issues[0].Depth)
	assert.Equal(t, 6, issues[0].Line)
	assert.Equal(t, 6, issues[1].Depth)
	assert.Equal(t, 7, issues[1].Line)
	for _, issue := range issues {
		assert.Equal(t, domain.CategoryMaintainability, issue.Category)
		assert.Equal(t, domain.SeverityWarning, issue.Severity)
	}
	assert.Equal(t, "Deep nesting in if block (depth: 5)", issues[0].Message)
}

func TestNesting_ExactlyOneIssueAtDepth(t *testing.T) {
	src := `for a in items:
    while a:
        try:
            if a:
                for b in a:
                    pass
        except ValueError:
            pass
`
	issues := run(t, detect.NewNestingVisitor("sample.py", 4), src)
	require.Len(t, issues, 1)
	assert.Equal(t, 5, issues[0].Depth)
	assert.Equal(t, 5, issues[0].Line)
	assert.Contains(t, issues[0].Message, "for loop")
}

func TestNesting_DepthIsPerBranch(t *testing.T) {
	src := `if a:
    if b:
        pass
if c:
    if d:
        pass
`
	issues := run(t, detect.NewNestingVisitor("sample.py", 2), src)
	assert.Empty(t, issues)
}

func TestNesting_ElifChainNests(t *testing.T) {
	src := `if a:
    pass
elif b:
    pass
elif c:
    if d:
        pass
`
	issues := run(t, detect.NewNestingVisitor("sample.py", 2), src)

	require.Len(t, issues, 2)
	assert.Equal(t, 3, issues[0].Depth)
	assert.Equal(t, 5, issues[0].Line)
	assert.Equal(t, "Deep nesting in elif block (depth: 3)", issues[0].Message)
	assert.Equal(t, 4, issues[1].Depth)
	assert.Equal(t, 6, issues[1].Line)
}

func TestNesting_ElseSitsAtLastElif(t *testing.T) {
	src := `if a:
    pass
elif b:
    pass
else:
    if c:
        pass
`
	issues := run(t, detect.NewNestingVisitor("sample.py", 2), src)

	require.Len(t, issues, 1)
	assert.Equal(t, 3, issues[0].Depth)
	assert.Equal(t, 6, issues[0].Line)
}

func TestNesting_ElifChainEndsWithItsIf(t *testing.T) {
	src := `if a:
    pass
elif b:
    pass
elif c:
    pass
if d:
    if e:
        pass
`
	issues := run(t, detect.NewNestingVisitor("sample.py", 2), src)
	assert.Empty(t, issues)
}

func TestNesting_WithIsNotCounted(t *testing.T) {
	src := `with open(p) as fh:
    with open(q) as gh:
        if fh:
            pass
`
	issues := run(t, detect.NewNestingVisitor("sample.py", 1), src)
	assert.Empty(t, issues)
}
