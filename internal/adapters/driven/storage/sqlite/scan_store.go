package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/handeliew/hugin/internal/core/ports/driven"
)

// scanStore implements driven.ScanStore.
type scanStore struct {
	store *Store
}

var _ driven.ScanStore = (*scanStore)(nil)

// IsProcessed reports whether the attachment path was processed before.
func (s *scanStore) IsProcessed(ctx context.Context, path string) (bool, error) {
	var count int
	row := s.store.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM processed_attachments WHERE path = ?", path)
	if err := row.Scan(&count); err != nil {
		return false, fmt.Errorf("querying processed attachment: %w", err)
	}
	return count > 0, nil
}

// MarkProcessed records that the attachment path was processed.
// Marking the same path twice is a no-op.
func (s *scanStore) MarkProcessed(ctx context.Context, path string, at time.Time) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO processed_attachments (path, processed_at)
		VALUES (?, ?)
		ON CONFLICT(path) DO NOTHING
	`, path, at.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("marking attachment processed: %w", err)
	}
	return nil
}
