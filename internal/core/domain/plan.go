package domain

import (
	"strings"
	"time"
)

// Child identifies which child a school plan belongs to.
type Child string

// Known children. Plan filenames and notification titles use these names.
const (
	ChildMax  Child = "Max"
	ChildElla Child = "Ella"
)

// ChildFromFilename extracts the child name from an attachment filename.
// Returns ChildMax as the default when no known name is present.
func ChildFromFilename(filename string) Child {
	lower := strings.ToLower(filename)
	switch {
	case strings.Contains(lower, "ella"):
		return ChildElla
	default:
		return ChildMax
	}
}

// ItemKind distinguishes the item types produced by plan extraction.
type ItemKind string

const (
	// KindHomework is a homework task with a due date.
	KindHomework ItemKind = "homework"

	// KindEvent is a dated calendar event.
	KindEvent ItemKind = "event"

	// KindPreparation is a bring/remember reminder.
	KindPreparation ItemKind = "preparation"
)

// RawDocument is the OCR output for one plan image or PDF page.
// It is produced once per attachment and consumed immediately.
type RawDocument struct {
	// URI is the original attachment location.
	URI string

	// Text is the raw OCR text, optionally carrying
	// "=== MINE LEKSER ===" / "=== BESKJEDER ===" section markers.
	Text string
}

// Section is a named partition of a RawDocument.
type Section struct {
	// Name is the section marker name (e.g. "MINE LEKSER").
	Name string

	// Body is the text belonging to the section.
	Body string
}

// WeekContext anchors all relative due-date computations.
// WeekStart is always a Monday at midnight.
type WeekContext struct {
	// WeekStart is the Monday the plan week begins on.
	WeekStart time.Time

	// Child is the child the plan belongs to.
	Child Child
}

// Day returns the date at the given offset (0-6) from the week's Monday.
func (w WeekContext) Day(offset int) time.Time {
	return w.WeekStart.AddDate(0, 0, offset)
}

// ISOWeek returns the ISO week number of the plan week.
func (w WeekContext) ISOWeek() int {
	_, week := w.WeekStart.ISOWeek()
	return week
}

// NextMonday returns the Monday strictly after today.
// Used when no week start is supplied with a plan.
func NextMonday(today time.Time) time.Time {
	t := midnight(today)
	days := (int(time.Monday) - int(t.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	return t.AddDate(0, 0, days)
}

// WeekStartFor determines the plan week's Monday from the date the
// attachment was received. Plans arriving Thursday or later are assumed
// to describe the following week.
func WeekStartFor(received time.Time) time.Time {
	t := midnight(received)
	daysSinceMonday := (int(t.Weekday()) - int(time.Monday) + 7) % 7
	weekStart := t.AddDate(0, 0, -daysSinceMonday)
	if daysSinceMonday >= 3 {
		weekStart = weekStart.AddDate(0, 0, 7)
	}
	return weekStart
}

// midnight truncates a time to its calendar date.
func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// HomeworkItem is one homework task extracted from the plan.
// Items are immutable once constructed.
type HomeworkItem struct {
	// Child the homework belongs to.
	Child Child

	// Subject is the detected subject header (e.g. "Norsk").
	Subject string

	// Description is the concatenated free text under the subject.
	Description string

	// DueDate is the concrete calendar date the task is due.
	DueDate time.Time
}

// Title returns the task title used in the external task store.
func (h HomeworkItem) Title() string {
	return string(h.Child) + ": " + h.Subject
}

// EventItem is a dated event mention found in the notices section.
// It is incomplete until the date text is resolved to a concrete date.
type EventItem struct {
	// Child the event belongs to.
	Child Child

	// Description is the raw line the event was found on.
	Description string

	// DateText is the matched Norwegian date fragment (e.g. "9.desember").
	DateText string

	// Hour and Minute are the event start time, defaulting to 08:00
	// when no time mention is present.
	Hour   int
	Minute int
}

// PreparationItem is a bring/remember reminder extracted from notices.
type PreparationItem struct {
	// Child the reminder belongs to.
	Child Child

	// Description is the matched imperative phrase body.
	Description string

	// DueDate is Thursday of the plan week.
	DueDate time.Time

	// NeedsReminder is always true for preparation items.
	NeedsReminder bool
}

// Title returns the reminder title used in the external task store.
func (p PreparationItem) Title() string {
	return string(p.Child) + ": " + p.Description
}

// TaskDraft describes a task to create in the external task store.
type TaskDraft struct {
	// Title is the task title.
	Title string

	// ProjectID is the target project handle.
	ProjectID string

	// Due is the due datetime, nil when the task has no due date.
	Due *time.Time

	// Content is the free-text body, empty when absent.
	Content string

	// Recurrence is an RRULE string, empty for one-off tasks.
	Recurrence string
}

// EventDraft describes an event to create in the external calendar store.
type EventDraft struct {
	// Title is the event summary.
	Title string

	// CalendarID is the target calendar handle.
	CalendarID string

	// Start and End are the event times.
	Start time.Time
	End   time.Time

	// Timezone is the IANA timezone name for the event.
	Timezone string
}

// ExistingTask is the existence-check projection of a stored task.
type ExistingTask struct {
	// Title is the stored task title.
	Title string

	// ProjectID is the project the task lives in.
	ProjectID string

	// Due is the stored due date, nil when absent.
	Due *time.Time
}

// ExistingEvent is the existence-check projection of a stored event.
type ExistingEvent struct {
	// Title is the stored event summary.
	Title string
}

// Attachment is a message attachment candidate for plan processing.
type Attachment struct {
	// Path is the local filesystem path of the attachment.
	Path string

	// MIMEType is the attachment content type.
	MIMEType string

	// Sender is the display name of the message sender.
	Sender string

	// Received is when the message arrived.
	Received time.Time
}

// ProcessResult aggregates the outcome of one processing run.
type ProcessResult struct {
	// MessagesChecked counts messages inspected for attachments.
	MessagesChecked int

	// ImagesProcessed counts attachments that were OCR'd and extracted.
	ImagesProcessed int

	// HomeworkAdded counts newly created homework tasks.
	HomeworkAdded int

	// EventsAdded counts newly created calendar events.
	EventsAdded int

	// PreparationAdded counts newly created preparation reminders.
	PreparationAdded int

	// RemindersSent counts summary notifications sent (0 or 1 per document).
	RemindersSent int

	// Errors collects non-fatal errors encountered during the run.
	Errors []string
}

// Merge folds a per-document result into an aggregate result.
func (r *ProcessResult) Merge(other *ProcessResult) {
	if other == nil {
		return
	}
	r.MessagesChecked += other.MessagesChecked
	r.ImagesProcessed += other.ImagesProcessed
	r.HomeworkAdded += other.HomeworkAdded
	r.EventsAdded += other.EventsAdded
	r.PreparationAdded += other.PreparationAdded
	r.RemindersSent += other.RemindersSent
	r.Errors = append(r.Errors, other.Errors...)
}
