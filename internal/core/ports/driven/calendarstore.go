package driven

import (
	"context"
	"time"

	"github.com/handeliew/hugin/internal/core/domain"
)

// CalendarStore is the capability contract for the external calendar.
type CalendarStore interface {
	// FindCalendar resolves a calendar name to a calendar handle.
	// Returns domain.ErrNotFound when no calendar matches.
	FindCalendar(ctx context.Context, name string) (string, error)

	// ListEventsForDay returns events on the given calendar day,
	// projected to the fields needed for duplicate detection.
	ListEventsForDay(ctx context.Context, calendarID string, day time.Time) ([]domain.ExistingEvent, error)

	// CreateEvent creates a new event from the draft.
	CreateEvent(ctx context.Context, draft *domain.EventDraft) error
}
