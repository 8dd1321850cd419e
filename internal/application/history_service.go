package application

import (
	"fmt"
	"log/slog"

	"github.com/codejanitor/janitor/internal/domain"
)

// HistoryService records analysis summaries, stamped with the current
// commit when the project is a git repository.
type HistoryService struct {
	store  domain.RecordStore
	git    domain.GitInfo
	logger *slog.Logger
}

func NewHistoryService(store domain.RecordStore, git domain.GitInfo, logger *slog.Logger) *HistoryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HistoryService{store: store, git: git, logger: logger}
}

func (s *HistoryService) Record(projectPath string, result *domain.AnalysisResult, refactored bool) (domain.AnalysisRecord, error) {
	record := domain.NewAnalysisRecord(result, refactored)
	if s.git != nil && s.git.IsGitRepo(projectPath) {
		hash, err := s.git.CommitHash(projectPath)
		if err != nil {
			s.logger.Debug("no commit hash", "path", projectPath, "error", err)
		} else {
			record.CommitHash = hash
		}
	}

	saved, err := s.store.Save(projectPath, record)
	if err != nil {
		return domain.AnalysisRecord{}, fmt.Errorf("saving record: %w", err)
	}
	return saved, nil
}

// Recent returns up to limit records, newest first. limit <= 0 returns all.
func (s *HistoryService) Recent(projectPath string, limit int) ([]domain.AnalysisRecord, error) {
	records, err := s.store.Load(projectPath)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}

	out := make([]domain.AnalysisRecord, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		out = append(out, records[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}
