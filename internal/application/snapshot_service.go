package application

import (
	"fmt"
	"log/slog"

	"github.com/codejanitor/janitor/internal/domain"
)

// SnapshotService exposes manual snapshot management.
type SnapshotService struct {
	store  domain.SnapshotStore
	logger *slog.Logger
}

func NewSnapshotService(store domain.SnapshotStore, logger *slog.Logger) *SnapshotService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SnapshotService{store: store, logger: logger}
}

// List returns snapshots newest first, narrowed to target when it is set.
func (s *SnapshotService) List(target string) []domain.Snapshot {
	return s.store.List(target)
}

// Rollback restores target from its most recent snapshot.
func (s *SnapshotService) Rollback(target string) (*domain.Snapshot, error) {
	snap, ok := s.store.Latest(target)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNoSnapshot, target)
	}
	if !s.store.Rollback(target) {
		return nil, fmt.Errorf("restoring %s from %s failed", target, snap.SnapshotPath)
	}
	s.logger.Info("restored snapshot", "target", target, "snapshot", snap.SnapshotPath)
	return snap, nil
}

// Cleanup deletes every snapshot and returns how many were removed.
func (s *SnapshotService) Cleanup() int {
	return s.store.Cleanup()
}
