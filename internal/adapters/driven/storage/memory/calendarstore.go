package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/handeliew/hugin/internal/core/domain"
	"github.com/handeliew/hugin/internal/core/ports/driven"
)

// Ensure CalendarStore implements the interface.
var _ driven.CalendarStore = (*CalendarStore)(nil)

// CalendarStore is an in-memory implementation of driven.CalendarStore.
// Calendars must be registered with AddCalendar before they can be found,
// mirroring the real store where calendars are never created implicitly.
type CalendarStore struct {
	mu        sync.RWMutex
	calendars map[string]string // lowercased name -> id
	events    map[string][]domain.EventDraft
}

// NewCalendarStore creates a new in-memory calendar store.
func NewCalendarStore() *CalendarStore {
	return &CalendarStore{
		calendars: make(map[string]string),
		events:    make(map[string][]domain.EventDraft),
	}
}

// AddCalendar registers a calendar and returns its ID.
func (s *CalendarStore) AddCalendar(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New().String()
	s.calendars[strings.ToLower(name)] = id
	return id
}

// FindCalendar resolves a calendar name to its ID.
func (s *CalendarStore) FindCalendar(_ context.Context, name string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.calendars[strings.ToLower(name)]
	if !ok {
		return "", domain.ErrNotFound
	}
	return id, nil
}

// ListEventsForDay returns events whose start falls on the given day.
func (s *CalendarStore) ListEventsForDay(_ context.Context, calendarID string, day time.Time) ([]domain.ExistingEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.ExistingEvent
	for _, ev := range s.events[calendarID] {
		y1, m1, d1 := ev.Start.Date()
		y2, m2, d2 := day.Date()
		if y1 == y2 && m1 == m2 && d1 == d2 {
			out = append(out, domain.ExistingEvent{Title: ev.Title})
		}
	}
	return out, nil
}

// CreateEvent stores the draft and makes it visible to ListEventsForDay.
func (s *CalendarStore) CreateEvent(_ context.Context, draft *domain.EventDraft) error {
	if draft == nil {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[draft.CalendarID] = append(s.events[draft.CalendarID], *draft)
	return nil
}

// Created returns all drafts stored for a calendar, in order.
func (s *CalendarStore) Created(calendarID string) []domain.EventDraft {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.EventDraft, len(s.events[calendarID]))
	copy(out, s.events[calendarID])
	return out
}
