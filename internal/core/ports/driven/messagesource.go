package driven

import (
	"context"
	"time"

	"github.com/handeliew/hugin/internal/core/domain"
)

// MessageSource discovers recent message attachments that may contain
// school plans. Backed by the macOS Messages database.
type MessageSource interface {
	// RecentAttachments returns attachments from the named sender received
	// after the since time, newest first, capped at limit.
	RecentAttachments(ctx context.Context, sender string, since time.Time, limit int) ([]domain.Attachment, error)
}
