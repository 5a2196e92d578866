// Package driving defines interfaces that external actors (CLI, scheduler)
// use to interact with core services. These are the "driving" ports in
// hexagonal architecture terminology - they drive the application.
//
// Implementations of these interfaces live in internal/core/services.
package driving

import (
	"context"
	"time"

	"github.com/handeliew/hugin/internal/core/domain"
)

// PlanService processes school weekly plans into tasks, events and a
// summary notification.
type PlanService interface {
	// ProcessText runs the extraction pipeline on already-OCR'd text.
	// The week context supplies the Monday anchor and child identity.
	ProcessText(ctx context.Context, text string, week domain.WeekContext) (*domain.ProcessResult, error)

	// ProcessFile OCRs a plan image or PDF and processes the result.
	// A zero weekStart means "next Monday from today".
	ProcessFile(ctx context.Context, path string, child domain.Child, weekStart time.Time) (*domain.ProcessResult, error)

	// ProcessRecent scans recent message attachments from the sender for
	// plan documents and processes each one. Failures are isolated per
	// document; the aggregate result records them.
	ProcessRecent(ctx context.Context, sender string, hoursBack int) (*domain.ProcessResult, error)
}
