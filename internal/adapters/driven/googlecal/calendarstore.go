package googlecal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/calendar/v3"

	"github.com/handeliew/hugin/internal/core/domain"
	"github.com/handeliew/hugin/internal/core/ports/driven"
)

// Store implements the CalendarStore port against the Google Calendar API.
type Store struct {
	svc     *calendar.Service
	limiter *RateLimiter
}

// Ensure Store satisfies the port.
var _ driven.CalendarStore = (*Store)(nil)

// NewStore creates a Store around an existing Calendar API service.
func NewStore(svc *calendar.Service) *Store {
	return &Store{
		svc:     svc,
		limiter: NewRateLimiter(),
	}
}

// FindCalendar resolves a calendar display name to its calendar ID.
// Matching is case-insensitive on the calendar summary.
func (s *Store) FindCalendar(ctx context.Context, name string) (string, error) {
	pageToken := ""
	for {
		if err := s.limiter.Wait(ctx); err != nil {
			return "", err
		}

		call := s.svc.CalendarList.List().Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		list, err := call.Do()
		if err != nil {
			s.recordIfRateLimited(err)
			return "", fmt.Errorf("listing calendars: %w", WrapError(err))
		}

		for _, entry := range list.Items {
			if strings.EqualFold(entry.Summary, name) {
				return entry.Id, nil
			}
		}

		pageToken = list.NextPageToken
		if pageToken == "" {
			return "", fmt.Errorf("calendar %q: %w", name, domain.ErrNotFound)
		}
	}
}

// ListEventsForDay returns the events falling on the given calendar day.
// Recurring events are expanded so each instance on the day is visible to
// duplicate detection.
func (s *Store) ListEventsForDay(ctx context.Context, calendarID string, day time.Time) ([]domain.ExistingEvent, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	var events []domain.ExistingEvent
	pageToken := ""
	for {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		call := s.svc.Events.List(calendarID).
			Context(ctx).
			TimeMin(start.Format(time.RFC3339)).
			TimeMax(end.Format(time.RFC3339)).
			SingleEvents(true).
			MaxResults(250)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		list, err := call.Do()
		if err != nil {
			s.recordIfRateLimited(err)
			return nil, fmt.Errorf("listing events: %w", WrapError(err))
		}

		for _, event := range list.Items {
			if event.Status == "cancelled" {
				continue
			}
			events = append(events, domain.ExistingEvent{Title: event.Summary})
		}

		pageToken = list.NextPageToken
		if pageToken == "" {
			return events, nil
		}
	}
}

// CreateEvent inserts a new timed event built from the draft.
func (s *Store) CreateEvent(ctx context.Context, draft *domain.EventDraft) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}

	event := &calendar.Event{
		Summary: draft.Title,
		Start: &calendar.EventDateTime{
			DateTime: draft.Start.Format(time.RFC3339),
			TimeZone: draft.Timezone,
		},
		End: &calendar.EventDateTime{
			DateTime: draft.End.Format(time.RFC3339),
			TimeZone: draft.Timezone,
		},
	}

	_, err := s.svc.Events.Insert(draft.CalendarID, event).Context(ctx).Do()
	if err != nil {
		s.recordIfRateLimited(err)
		return fmt.Errorf("creating event %q: %w", draft.Title, WrapError(err))
	}
	return nil
}

// recordIfRateLimited feeds 429 responses back into the limiter so
// subsequent calls back off.
func (s *Store) recordIfRateLimited(err error) {
	if IsRateLimited(err) {
		s.limiter.RecordRateLimitError(0)
	}
}
