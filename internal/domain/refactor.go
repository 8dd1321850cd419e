package domain

// RefactorAttempt records one call to the completion provider. Attempts are
// appended in order and never discarded, so a repair sequence can be audited.
type RefactorAttempt struct {
	Index     int    `json:"index"`
	Kind      string `json:"kind"`
	Prompt    string `json:"prompt"`
	Response  string `json:"response"`
	Candidate string `json:"candidate"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
}

const (
	AttemptRefactor = "refactor"
	AttemptRepair   = "repair"
)

// RefactorResult is the outcome of refactoring one file.
type RefactorResult struct {
	File        string            `json:"file"`
	Original    string            `json:"-"`
	Candidate   string            `json:"candidate"`
	ChangesMade int               `json:"changes_made"`
	Attempts    []RefactorAttempt `json:"attempts"`
	Err         error             `json:"-"`
}

// Success reports whether the orchestrator produced a candidate.
func (r *RefactorResult) Success() bool { return r != nil && r.Err == nil }

// Unchanged reports whether the candidate is identical to the original.
func (r *RefactorResult) Unchanged() bool { return r.Candidate == r.Original }

// LastAttempt returns the most recent attempt, or nil if none was made.
func (r *RefactorResult) LastAttempt() *RefactorAttempt {
	if len(r.Attempts) == 0 {
		return nil
	}
	return &r.Attempts[len(r.Attempts)-1]
}

// CleanState is the terminal state of the self-repair pipeline for a file.
type CleanState string

const (
	CleanStateClean      CleanState = "clean"
	CleanStateApplied    CleanState = "applied"
	CleanStateRolledBack CleanState = "rolled_back"
	CleanStateFailed     CleanState = "failed"
	CleanStateDryRun     CleanState = "dry_run"
)

// CleanReport summarises one pass of analyze, refactor, validate and repair.
type CleanReport struct {
	Target         string              `json:"target"`
	State          CleanState          `json:"state"`
	Analysis       *AnalysisResult     `json:"analysis,omitempty"`
	Refactor       *RefactorResult     `json:"refactor,omitempty"`
	Validations    []ValidationOutcome `json:"validations,omitempty"`
	RepairAttempts int                 `json:"repair_attempts"`
	Snapshot       *Snapshot           `json:"snapshot,omitempty"`
	Diff           string              `json:"diff,omitempty"`
	Error          string              `json:"error,omitempty"`
}

// Succeeded reports whether the pipeline ended without rolling back or failing.
func (r *CleanReport) Succeeded() bool {
	switch r.State {
	case CleanStateClean, CleanStateApplied, CleanStateDryRun:
		return true
	default:
		return false
	}
}

// CleanOptions controls a clean run.
type CleanOptions struct {
	DryRun   bool `json:"dry_run"`
	ShowDiff bool `json:"show_diff"`
}
