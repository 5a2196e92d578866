package driven

import (
	"context"
	"time"
)

// ScanStore tracks which attachments have already been processed so
// repeated scans skip them. This is an optimisation on top of the
// store-level dedup checks, not a replacement for them.
type ScanStore interface {
	// IsProcessed reports whether the attachment path was processed before.
	IsProcessed(ctx context.Context, path string) (bool, error)

	// MarkProcessed records that the attachment path was processed.
	MarkProcessed(ctx context.Context, path string, at time.Time) error
}
