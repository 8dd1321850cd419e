package cli_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/codejanitor/janitor/internal/domain"
)

// testConfig keeps runs independent of tools installed on the machine.
const testConfig = `linter:
  enabled: false
analyzer:
  complexity_checks: false
  security_checks: true
ai:
  retry_delay: 0
`

const dirtySource = "user_input = input()\nprint(eval(user_input))\n"

type fakeProvider struct {
	mu        sync.Mutex
	responses []string
	calls     int
}

func (f *fakeProvider) Name() string { return "fake" }

// Complete returns the scripted responses in order, repeating the last one.
func (f *fakeProvider) Complete(context.Context, string, domain.CompletionOptions) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.calls
	if i >= len(f.responses) {
		i = len(f.responses) - 1
	}
	f.calls++
	return f.responses[i], nil
}

func (f *fakeProvider) Health(context.Context) error { return nil }

func fenced(code string) string {
	return "```python\n" + code + "```"
}

func newProject(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "janitor.yaml"), []byte(testConfig), 0644))
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return dir
}

func run(cmd *cobra.Command, args ...string) (string, error) {
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}
