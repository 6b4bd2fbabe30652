package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"ftdb/dump/internal/domain"
)

type SnapshotRepository interface {
	Save(snapshot *domain.Snapshot) error
}

type fileSnapshotRepository struct {
	path string
}

func NewFileSnapshotRepository(path string) SnapshotRepository {
	return &fileSnapshotRepository{
		path: path,
	}
}

// DefaultPath returns the dated dump filename used when no output path is
// configured.
func DefaultPath(now time.Time) string {
	return fmt.Sprintf("ftdb-dump-%s.json", now.Format("2006-01-02"))
}

// Save writes the snapshot as indented JSON with ordered map keys, the form
// the downstream tools parse back in. The document is marshaled completely
// before any byte hits the disk, so a failed run never leaves a truncated
// file behind.
func (r *fileSnapshotRepository) Save(snapshot *domain.Snapshot) error {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	if err := os.WriteFile(r.path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot to %s: %w", r.path, err)
	}

	return nil
}
