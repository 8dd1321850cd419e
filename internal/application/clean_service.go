package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/codejanitor/janitor/internal/domain"
)

// CleanService runs the full pipeline for a target: snapshot, refactor,
// validate, repair, then apply or roll back.
type CleanService struct {
	analyzer   *AnalyzeService
	refactorer *RefactorService
	validator  *ValidateService
	snapshots  domain.SnapshotStore
	differ     domain.Differ
	cfg        domain.Config
	logger     *slog.Logger
}

func NewCleanService(
	analyzer *AnalyzeService,
	refactorer *RefactorService,
	validator *ValidateService,
	snapshots domain.SnapshotStore,
	differ domain.Differ,
	cfg domain.Config,
	logger *slog.Logger,
) *CleanService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CleanService{
		analyzer:   analyzer,
		refactorer: refactorer,
		validator:  validator,
		snapshots:  snapshots,
		differ:     differ,
		cfg:        cfg,
		logger:     logger,
	}
}

// Clean cleans every file covered by target and returns one report per file.
func (s *CleanService) Clean(ctx context.Context, target string, opts domain.CleanOptions) ([]*domain.CleanReport, error) {
	files, err := s.analyzer.Files(target)
	if err != nil {
		return nil, err
	}

	reports := make([]*domain.CleanReport, 0, len(files))
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return reports, err
		}
		reports = append(reports, s.CleanFile(ctx, f, opts))
	}
	return reports, nil
}

// CleanFile runs the pipeline for one file. Failures are reported through
// the report state, never as a Go error.
func (s *CleanService) CleanFile(ctx context.Context, path string, opts domain.CleanOptions) *domain.CleanReport {
	report := &domain.CleanReport{Target: path}

	if !opts.DryRun && s.cfg.Snapshot.Enabled {
		snap, ok := s.snapshots.Create(path)
		if !ok {
			return s.fail(report, fmt.Errorf("could not snapshot %s", path))
		}
		report.Snapshot = snap
	}

	if report.Snapshot != nil && s.cfg.Linter.AutoFix {
		s.analyzer.Fix(ctx, path)
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return s.fail(report, fmt.Errorf("reading %s: %w", path, err))
	}
	original := string(src)

	report.Analysis = s.analyzer.AnalyzeFile(ctx, path)
	if !report.Analysis.HasIssues {
		report.State = domain.CleanStateClean
		return report
	}
	if !opts.DryRun && report.Snapshot == nil {
		return s.fail(report, fmt.Errorf("%w: refusing to modify %s without a snapshot from this run", domain.ErrNoSnapshot, path))
	}

	result := s.refactorer.Refactor(ctx, path, original, report.Analysis)
	report.Refactor = result
	if !result.Success() {
		return s.fail(report, result.Err)
	}

	outcome := s.validator.Validate(ctx, path, result.Candidate)
	report.Validations = append(report.Validations, outcome)

	if opts.DryRun {
		report.State = domain.CleanStateDryRun
		report.Diff = s.diff(path, original, result.Candidate)
		return report
	}

	for !outcome.Passed() && report.RepairAttempts < s.cfg.Validator.MaxValidationRetries {
		report.RepairAttempts++
		s.logger.Info("repairing candidate", "file", path, "repair", report.RepairAttempts)

		s.refactorer.Repair(ctx, result, outcome)
		if !result.Success() {
			break
		}
		outcome = s.validator.Validate(ctx, path, result.Candidate)
		report.Validations = append(report.Validations, outcome)
	}

	if outcome.Passed() && result.Success() {
		if err := s.validator.Apply(path, result.Candidate, outcome); err != nil {
			return s.rollback(report, err)
		}
		report.State = domain.CleanStateApplied
		if opts.ShowDiff {
			report.Diff = s.diff(path, original, result.Candidate)
		}
		s.logger.Info("applied refactor", "file", path, "changes", result.ChangesMade, "repairs", report.RepairAttempts)
		return report
	}

	cause := result.Err
	if cause == nil {
		cause = errors.New(outcome.ErrorReport())
	}
	return s.rollback(report, cause)
}

// rollback restores the snapshot taken by this run, never an older one.
func (s *CleanService) rollback(report *domain.CleanReport, cause error) *domain.CleanReport {
	if report.Snapshot == nil || !s.snapshots.Restore(*report.Snapshot) {
		return s.fail(report, fmt.Errorf("%w: %s (after: %v)", domain.ErrNoSnapshot, report.Target, cause))
	}
	report.State = domain.CleanStateRolledBack
	report.Error = cause.Error()
	s.logger.Warn("rolled back", "file", report.Target, "repairs", report.RepairAttempts)
	return report
}

func (s *CleanService) fail(report *domain.CleanReport, err error) *domain.CleanReport {
	report.State = domain.CleanStateFailed
	report.Error = err.Error()
	s.logger.Error("clean failed", "file", report.Target, "error", err)
	return report
}

func (s *CleanService) diff(path, before, after string) string {
	if s.differ == nil {
		return ""
	}
	return s.differ.Unified(path, before, after)
}
