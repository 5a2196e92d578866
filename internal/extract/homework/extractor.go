// Package homework extracts homework items from the "MINE LEKSER" region
// of a school plan. Lines are grouped under a detected subject header by an
// explicit two-state machine; a fixed table of stop patterns flushes the
// accumulation when the text leaves the homework box.
package homework

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/handeliew/hugin/internal/core/domain"
)

// minDescriptionLength is the shortest assembled description considered a
// real homework item rather than OCR noise.
const minDescriptionLength = 10

// Subject headers recognised at the start of a line ("Subject: rest").
var subjectPattern = regexp.MustCompile(
	`(?i)^(Norsk|Norwegian|Matematikk|Matte|Math|Musikk|Music|Engelsk|English|Lesing|Reading):\s*(.*)$`,
)

// Stop patterns mark lines that end the current subject accumulation.
// These match the artefacts that appear below or beside the homework box:
// bullet markers, "ukens mål" headers, section separators, grade-group and
// schedule-code labels, bare short codes, PE-equipment mentions, standalone
// digits, box borders, goal statements and column markers.
var stopPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\s*[*¢•]\s*`),
	regexp.MustCompile(`(?i)ukens?\s+m[åa]l`),
	regexp.MustCompile(`^\s*===`),
	regexp.MustCompile(`(?i)^\s*Gr\.\d+:`),
	regexp.MustCompile(`(?i)^\s*TSO:`),
	regexp.MustCompile(`^\s*[A-Z]{2,3}\s*$`),
	regexp.MustCompile(`(?i)gymtøy`),
	regexp.MustCompile(`^\s*\d+\s*$`),
	regexp.MustCompile(`=\s*\|`),
	regexp.MustCompile(`^[A-Z][a-zæøå]+:\s+Jeg\s+(vet|kan|kjenner)`),
	regexp.MustCompile(`^\s*[EWwgN]\s*\|`),
}

// state is the extractor's line-machine state.
type state int

const (
	// idle means no subject is being accumulated.
	idle state = iota

	// inSubject means lines are being collected under a subject header.
	inSubject
)

// extractor holds the per-document activation record. It is function-local
// to Extract so the package is reentrant across documents.
type extractor struct {
	week  domain.WeekContext
	state state

	subject string
	lines   []string

	items []domain.HomeworkItem
}

// Extract parses homework items from the homework section text.
// Due dates are assigned per subject relative to the week's Monday.
func Extract(text string, week domain.WeekContext) []domain.HomeworkItem {
	e := &extractor{week: week, state: idle}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		e.consume(line)
	}
	e.flush()

	return e.items
}

// consume advances the state machine by one line.
func (e *extractor) consume(line string) {
	// Stop lines flush the current subject and are themselves discarded.
	if isStopLine(line) {
		e.flush()
		return
	}

	// A subject header flushes any previous subject before starting a new
	// accumulation with the header's remainder as the first line.
	if m := subjectPattern.FindStringSubmatch(line); m != nil {
		e.flush()
		e.state = inSubject
		e.subject = strings.TrimSpace(m[1])
		rest := strings.TrimSpace(m[2])
		if rest != "" {
			e.lines = []string{rest}
		}
		return
	}

	// Continuation line: append unless it looks like OCR noise.
	if e.state == inSubject {
		if utf8.RuneCountInString(line) > 2 && !isNumeric(line) {
			e.lines = append(e.lines, line)
		}
	}
}

// flush emits the accumulated subject as items and resets to idle.
// Descriptions shorter than the minimum length are discarded.
func (e *extractor) flush() {
	if e.state == inSubject && len(e.lines) > 0 {
		desc := strings.Join(e.lines, " ")
		if utf8.RuneCountInString(desc) >= minDescriptionLength {
			for _, due := range dueDates(e.subject, e.week) {
				e.items = append(e.items, domain.HomeworkItem{
					Child:       e.week.Child,
					Subject:     e.subject,
					Description: desc,
					DueDate:     due,
				})
			}
		}
	}
	e.state = idle
	e.subject = ""
	e.lines = nil
}

// dueDates maps a subject to its due dates relative to the week's Monday.
// First match wins; unknown subjects default to Monday. Lesing produces two
// items (Tuesday and Wednesday) sharing the same description.
func dueDates(subject string, week domain.WeekContext) []time.Time {
	lower := strings.ToLower(subject)
	switch {
	case strings.Contains(lower, "norsk"):
		return []time.Time{week.Day(1)}
	case strings.Contains(lower, "matematikk"), strings.Contains(lower, "matte"):
		return []time.Time{week.Day(0)}
	case strings.Contains(lower, "musikk"):
		return []time.Time{week.Day(1)}
	case strings.Contains(lower, "lesing"), strings.Contains(lower, "reading"):
		return []time.Time{week.Day(1), week.Day(2)}
	default:
		return []time.Time{week.Day(0)}
	}
}

// isStopLine reports whether the line matches any stop pattern.
func isStopLine(line string) bool {
	for _, p := range stopPatterns {
		if p.MatchString(line) {
			return true
		}
	}
	return false
}

// isNumeric reports whether the line consists solely of digits.
func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
