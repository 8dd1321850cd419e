package domain

import "context"

// SourceParser turns source text into a syntax tree. A file with syntax
// errors still yields a tree, with SyntaxError set.
type SourceParser interface {
	Parse(ctx context.Context, file string, src []byte) (*SyntaxTree, error)
}

// AnalysisTool wraps one external analyzer. Implementations degrade to zero
// results when the tool is missing, times out or prints malformed output.
type AnalysisTool interface {
	Name() string
	Available() bool
	Analyze(ctx context.Context, path string) ([]Issue, []FunctionMetric)
}

// Linter checks and optionally auto-fixes files in place.
type Linter interface {
	Name() string
	Available() bool
	Lint(ctx context.Context, path string) []Issue
	Fix(ctx context.Context, path string) (fixed int, ok bool)
}

// CompletionOptions are the per-call knobs of a completion request.
type CompletionOptions struct {
	MaxTokens   int
	Temperature float64
}

// CompletionProvider is an opaque remote text completion service.
type CompletionProvider interface {
	Name() string
	Complete(ctx context.Context, prompt string, opts CompletionOptions) (string, error)
	Health(ctx context.Context) error
}

// SnapshotStore creates and restores point-in-time copies of targets.
// Filesystem errors are logged by implementations, never returned.
type SnapshotStore interface {
	Create(target string) (*Snapshot, bool)
	Latest(target string) (*Snapshot, bool)
	Rollback(target string) bool
	Restore(snap Snapshot) bool
	List(target string) []Snapshot
	Cleanup() int
}

// TargetScanner expands a target path into the source files to analyze.
type TargetScanner interface {
	Files(target string) ([]string, error)
}

// RecordStore persists analysis summaries.
type RecordStore interface {
	Save(projectPath string, record AnalysisRecord) (AnalysisRecord, error)
	Load(projectPath string) ([]AnalysisRecord, error)
}

// GitInfo provides git repository information.
type GitInfo interface {
	IsGitRepo(projectPath string) bool
	CommitHash(projectPath string) (string, error)
}

// ConfigLoader loads the tool configuration for a project directory.
type ConfigLoader interface {
	Load(projectPath string) (Config, error)
}

// Differ renders the change between two versions of a file.
type Differ interface {
	Unified(name, before, after string) string
}
