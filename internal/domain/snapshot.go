package domain

import "time"

// Snapshot is a restorable copy of a file or directory taken before it is
// modified in place.
type Snapshot struct {
	OriginalPath string    `json:"original_path"`
	SnapshotPath string    `json:"backup_path"`
	CreatedAt    time.Time `json:"created_at"`
	OriginalName string    `json:"original_name"`
}
