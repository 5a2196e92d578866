package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/handeliew/hugin/internal/core/domain"
	"github.com/handeliew/hugin/internal/core/ports/driven"
	"github.com/handeliew/hugin/internal/core/ports/driving"
	"github.com/handeliew/hugin/internal/extract/event"
	"github.com/handeliew/hugin/internal/extract/homework"
	"github.com/handeliew/hugin/internal/extract/norsk"
	"github.com/handeliew/hugin/internal/extract/prep"
	"github.com/handeliew/hugin/internal/extract/section"
	"github.com/handeliew/hugin/internal/logger"
)

// Ensure PlanProcessor implements the interface.
var _ driving.PlanService = (*PlanProcessor)(nil)

// Due and display constants for created items.
const (
	// taskDueHour is the hour of day tasks are due at (23:00).
	taskDueHour = 23

	// eventDuration is the default event length when none is known.
	eventDuration = time.Hour

	// snippetLength caps the description snippet in summary lines.
	snippetLength = 100

	// attachmentLimit caps how many recent attachments one scan inspects.
	attachmentLimit = 20

	// norskRecurrence repeats Norsk homework Monday-Thursday and Saturday.
	norskRecurrence = "FREQ=DAILY;BYDAY=MO,TU,WE,TH,SA"
)

// PlanConfig holds the external store and notification targets.
type PlanConfig struct {
	// ProjectName is the task store project homework lands in.
	ProjectName string

	// CalendarName is the calendar events land in.
	CalendarName string

	// Recipient receives the consolidated summary notification.
	Recipient string

	// Timezone is the IANA timezone for created events.
	Timezone string
}

// DefaultPlanConfig returns the default processing configuration.
func DefaultPlanConfig() PlanConfig {
	return PlanConfig{
		ProjectName:  "Homework",
		CalendarName: "Family events",
		Timezone:     "Europe/Oslo",
	}
}

// PlanProcessor coordinates the school plan extraction pipeline:
// section split, extraction, normalisation, dedup-check-then-create against
// the external stores, and one consolidated notification per document.
// Processing is sequential and single-threaded per document, which keeps
// the check-then-create sequence race-free without locking.
type PlanProcessor struct {
	tasks    driven.TaskStore
	calendar driven.CalendarStore
	notifier driven.Notifier
	source   driven.MessageSource
	ocr      driven.TextExtractor
	scans    driven.ScanStore

	cfg PlanConfig
	now func() time.Time
}

// NewPlanProcessor creates a plan processor. Any driven port may be nil;
// the corresponding operations then report unavailability instead of
// failing at construction.
func NewPlanProcessor(
	tasks driven.TaskStore,
	calendar driven.CalendarStore,
	notifier driven.Notifier,
	source driven.MessageSource,
	ocr driven.TextExtractor,
	scans driven.ScanStore,
	cfg PlanConfig,
) *PlanProcessor {
	return &PlanProcessor{
		tasks:    tasks,
		calendar: calendar,
		notifier: notifier,
		source:   source,
		ocr:      ocr,
		scans:    scans,
		cfg:      cfg,
		now:      time.Now,
	}
}

// ProcessText runs the extraction pipeline on already-OCR'd plan text.
func (p *PlanProcessor) ProcessText(ctx context.Context, text string, week domain.WeekContext) (*domain.ProcessResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrNoText
	}

	result := &domain.ProcessResult{}

	homeworkText, noticesText := section.Split(text)

	homeworkItems := homework.Extract(homeworkText, week)
	events := event.Extract(noticesText, week.Child)
	prepItems := prep.Extract(noticesText, week)
	logger.Info("extracted %d homework items, %d events, %d preparation items",
		len(homeworkItems), len(events), len(prepItems))

	var homeworkLines, eventLines []string

	// Homework tasks. A failure on one item does not stop its siblings.
	projectID, projectErr := p.resolveProject(ctx)
	for _, item := range homeworkItems {
		if projectErr != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("adding homework %q: %v", item.Title(), projectErr))
			continue
		}
		created, err := p.addHomework(ctx, projectID, item)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("adding homework %q: %v", item.Title(), err))
			continue
		}
		if created {
			result.HomeworkAdded++
			homeworkLines = append(homeworkLines, summaryLine(item.Title(), item.Description))
		}
	}

	// Preparation reminders go to the same project, due Thursday.
	for _, item := range prepItems {
		if projectErr != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("adding reminder %q: %v", item.Title(), projectErr))
			continue
		}
		created, err := p.addPreparation(ctx, projectID, item)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("adding reminder %q: %v", item.Title(), err))
			continue
		}
		if created {
			result.PreparationAdded++
		}
	}

	// Calendar events.
	calendarID, calErr := p.resolveCalendar(ctx)
	for _, ev := range events {
		if calErr != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("adding event from %q: %v", ev.DateText, calErr))
			continue
		}
		summary, created, err := p.addEvent(ctx, calendarID, ev)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("adding event from %q: %v", ev.DateText, err))
			continue
		}
		if created {
			result.EventsAdded++
			eventLines = append(eventLines, summary)
		}
	}

	// One consolidated notification per document, only when something new
	// was created. Errors are never part of the notification body.
	if len(homeworkLines) > 0 || len(eventLines) > 0 {
		if p.notifier == nil {
			result.Errors = append(result.Errors, fmt.Sprintf("sending summary: %v", domain.ErrNotifierUnavailable))
		} else if err := p.notifier.Send(ctx, p.cfg.Recipient, buildSummary(week, homeworkLines, eventLines)); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("sending summary: %v", err))
		} else {
			result.RemindersSent = 1
		}
	}

	return result, nil
}

// ProcessFile OCRs one plan file and processes the text.
func (p *PlanProcessor) ProcessFile(ctx context.Context, path string, child domain.Child, weekStart time.Time) (*domain.ProcessResult, error) {
	if p.ocr == nil {
		return nil, fmt.Errorf("process file: %w", domain.ErrInvalidInput)
	}

	if weekStart.IsZero() {
		weekStart = domain.NextMonday(p.now())
	}
	week := domain.WeekContext{WeekStart: weekStart, Child: child}

	logger.Info("extracting text from %s", path)
	text, err := p.ocr.ExtractText(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("extract text from %s: %w", path, err)
	}

	result, err := p.ProcessText(ctx, text, week)
	if err != nil {
		return nil, err
	}
	result.ImagesProcessed = 1
	return result, nil
}

// ProcessRecent scans recent message attachments for plan documents and
// processes each one. A failure in one document is recorded and processing
// continues with the next.
func (p *PlanProcessor) ProcessRecent(ctx context.Context, sender string, hoursBack int) (*domain.ProcessResult, error) {
	result := &domain.ProcessResult{}

	if p.source == nil {
		return nil, fmt.Errorf("process recent: message source not configured")
	}

	since := p.now().Add(-time.Duration(hoursBack) * time.Hour)
	attachments, err := p.source.RecentAttachments(ctx, sender, since, attachmentLimit)
	if err != nil {
		return nil, fmt.Errorf("retrieve messages: %w", err)
	}

	result.MessagesChecked = len(attachments)
	logger.Info("found %d attachments from %s", len(attachments), sender)

	seen := make(map[string]bool)
	for _, att := range attachments {
		if att.Path == "" || seen[att.Path] {
			continue
		}
		if !isPlanAttachment(att) {
			continue
		}

		if p.scans != nil {
			done, scanErr := p.scans.IsProcessed(ctx, att.Path)
			if scanErr != nil {
				logger.Warn("scan store lookup for %s: %v", att.Path, scanErr)
			} else if done {
				logger.Debug("already processed, skipping %s", att.Path)
				continue
			}
		}

		child := domain.ChildFromFilename(filepath.Base(att.Path))
		weekStart := domain.WeekStartFor(att.Received)

		docResult, docErr := p.ProcessFile(ctx, att.Path, child, weekStart)
		if docErr != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("processing %s: %v", filepath.Base(att.Path), docErr))
			continue
		}
		result.Merge(docResult)
		seen[att.Path] = true

		if p.scans != nil {
			if markErr := p.scans.MarkProcessed(ctx, att.Path, p.now()); markErr != nil {
				logger.Warn("marking %s processed: %v", att.Path, markErr)
			}
		}
	}

	return result, nil
}

// resolveProject finds or creates the homework project.
func (p *PlanProcessor) resolveProject(ctx context.Context) (string, error) {
	if p.tasks == nil {
		return "", domain.ErrTaskStoreUnavailable
	}
	id, err := p.tasks.FindOrCreateProject(ctx, p.cfg.ProjectName)
	if err != nil {
		return "", fmt.Errorf("find or create project %q: %w", p.cfg.ProjectName, err)
	}
	return id, nil
}

// resolveCalendar looks up the target calendar.
func (p *PlanProcessor) resolveCalendar(ctx context.Context) (string, error) {
	if p.calendar == nil {
		return "", domain.ErrCalendarUnavailable
	}
	id, err := p.calendar.FindCalendar(ctx, p.cfg.CalendarName)
	if err != nil {
		return "", fmt.Errorf("find calendar %q: %w", p.cfg.CalendarName, err)
	}
	return id, nil
}

// addHomework creates one homework task unless an equal (title, project,
// due date) task already exists. Norsk homework is created with a weekly
// recurrence rule at creation time only.
func (p *PlanProcessor) addHomework(ctx context.Context, projectID string, item domain.HomeworkItem) (bool, error) {
	due := p.taskDue(item.DueDate)

	exists, err := p.taskExists(ctx, item.Title(), projectID, &due)
	if err != nil {
		return false, err
	}
	if exists {
		logger.Info("task already exists, skipping: %s (due %s)", item.Title(), due.Format("2006-01-02"))
		return false, nil
	}

	recurrence := ""
	if strings.Contains(strings.ToLower(item.Subject), "norsk") {
		recurrence = norskRecurrence
	}

	draft := &domain.TaskDraft{
		Title:      item.Title(),
		ProjectID:  projectID,
		Due:        &due,
		Content:    item.Description,
		Recurrence: recurrence,
	}
	if err := p.tasks.CreateTask(ctx, draft); err != nil {
		return false, fmt.Errorf("create task: %w", err)
	}

	logger.Info("added task: %s", item.Title())
	return true, nil
}

// addPreparation creates one reminder task unless it already exists.
func (p *PlanProcessor) addPreparation(ctx context.Context, projectID string, item domain.PreparationItem) (bool, error) {
	due := p.taskDue(item.DueDate)

	exists, err := p.taskExists(ctx, item.Title(), projectID, &due)
	if err != nil {
		return false, err
	}
	if exists {
		logger.Info("reminder already exists, skipping: %s", item.Title())
		return false, nil
	}

	draft := &domain.TaskDraft{
		Title:     item.Title(),
		ProjectID: projectID,
		Due:       &due,
	}
	if err := p.tasks.CreateTask(ctx, draft); err != nil {
		return false, fmt.Errorf("create task: %w", err)
	}

	logger.Info("added reminder: %s", item.Title())
	return true, nil
}

// taskExists reports whether a task with case-insensitive-equal title, the
// same project and an equal due date (or both absent) already exists.
func (p *PlanProcessor) taskExists(ctx context.Context, title, projectID string, due *time.Time) (bool, error) {
	existing, err := p.tasks.ListTasks(ctx)
	if err != nil {
		return false, fmt.Errorf("list tasks: %w", err)
	}

	for _, task := range existing {
		if !strings.EqualFold(task.Title, title) || task.ProjectID != projectID {
			continue
		}
		switch {
		case due != nil && task.Due != nil:
			if sameDay(*due, *task.Due) {
				return true, nil
			}
		case due == nil && task.Due == nil:
			return true, nil
		}
	}
	return false, nil
}

// addEvent normalises one event mention and creates a calendar event unless
// an event with the same title already exists on that calendar day. Returns
// the summary line for the notification when an event was created.
func (p *PlanProcessor) addEvent(ctx context.Context, calendarID string, ev domain.EventItem) (string, bool, error) {
	date, err := norsk.ParseDate(ev.DateText, p.now())
	if err != nil {
		// Normalisation failure drops the event from calendar insertion
		// without failing the document.
		logger.Warn("could not parse date %q, skipping event", ev.DateText)
		return "", false, nil
	}

	title := norsk.EventTitle(ev.Child, ev.Description)

	existing, err := p.calendar.ListEventsForDay(ctx, calendarID, date)
	if err != nil {
		return "", false, fmt.Errorf("list events: %w", err)
	}
	for _, e := range existing {
		if strings.EqualFold(e.Title, title) {
			logger.Info("event already exists, skipping: %s", title)
			return "", false, nil
		}
	}

	loc := p.location()
	start := time.Date(date.Year(), date.Month(), date.Day(), ev.Hour, ev.Minute, 0, 0, loc)
	draft := &domain.EventDraft{
		Title:      title,
		CalendarID: calendarID,
		Start:      start,
		End:        start.Add(eventDuration),
		Timezone:   p.cfg.Timezone,
	}
	if err := p.calendar.CreateEvent(ctx, draft); err != nil {
		return "", false, fmt.Errorf("create event: %w", err)
	}

	logger.Info("added event: %s", title)
	summary := fmt.Sprintf("%s (%s %s kl. %02d:%02d)", title, norsk.WeekdayName(date), ev.DateText, ev.Hour, ev.Minute)
	return summary, true, nil
}

// taskDue converts a due date to the task store due time (23:00 local).
func (p *PlanProcessor) taskDue(date time.Time) time.Time {
	loc := p.location()
	return time.Date(date.Year(), date.Month(), date.Day(), taskDueHour, 0, 0, 0, loc)
}

// location resolves the configured timezone, falling back to UTC.
func (p *PlanProcessor) location() *time.Location {
	loc, err := time.LoadLocation(p.cfg.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// isPlanAttachment reports whether an attachment looks like a plan document:
// an image or PDF whose filename mentions "ukeplan".
func isPlanAttachment(att domain.Attachment) bool {
	if !strings.HasPrefix(att.MIMEType, "image/") && att.MIMEType != "application/pdf" {
		return false
	}
	return strings.Contains(strings.ToLower(filepath.Base(att.Path)), "ukeplan")
}

// sameDay reports whether two times fall on the same calendar date.
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// summaryLine formats one homework summary line, truncating the description
// snippet at the cap.
func summaryLine(title, description string) string {
	if description == "" {
		return title
	}
	snippet := description
	if len([]rune(snippet)) > snippetLength {
		snippet = string([]rune(snippet)[:snippetLength]) + "..."
	}
	return title + " - " + snippet
}

// buildSummary renders the consolidated notification body. Homework lines
// are deduplicated by exact string equality before formatting, which guards
// against the multi-due-date fan-out producing identical summary lines.
func buildSummary(week domain.WeekContext, homeworkLines, eventLines []string) string {
	lines := []string{
		fmt.Sprintf("Added from %s's Ukeplan Week %d", week.Child, week.ISOWeek()),
		"",
	}

	unique := dedupeLines(homeworkLines)
	if len(unique) > 0 {
		lines = append(lines, "Homework:")
		for _, hw := range unique {
			lines = append(lines, "• "+hw)
		}
	}

	if len(eventLines) > 0 {
		if len(unique) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, "Events:")
		for _, ev := range eventLines {
			lines = append(lines, "• "+ev)
		}
	}

	return strings.Join(lines, "\n")
}

// dedupeLines removes exact duplicates preserving first-seen order.
func dedupeLines(lines []string) []string {
	seen := make(map[string]bool, len(lines))
	var out []string
	for _, l := range lines {
		if seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	return out
}
