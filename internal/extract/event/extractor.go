// Package event scans the "BESKJEDER" region for dated event mentions.
// Each line is inspected independently; a line yields at most one event.
package event

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/handeliew/hugin/internal/core/domain"
)

// minLineLength filters out lines too short to carry a real event mention.
const minLineLength = 10

// datePatterns match Norwegian date mentions: day number plus full or
// abbreviated month name, optionally preceded by a weekday name.
// First matching pattern wins per line.
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d{1,2})\.\s*(?:januar|februar|mars|april|mai|juni|juli|august|september|oktober|november|desember)`),
	regexp.MustCompile(`(?i)(\d{1,2})\s+(?:jan|feb|mar|apr|mai|jun|jul|aug|sep|okt|nov|des)`),
	regexp.MustCompile(`(?i)(?:mandag|tirsdag|onsdag|torsdag|fredag|lørdag|søndag)\s+(\d{1,2})\.\s*(?:januar|februar|mars|april|mai|juni|juli|august|september|oktober|november|desember)`),
}

// timePattern matches "kl. HH.MM" (groups 1,2) or "HH:MM" (groups 3,4).
var timePattern = regexp.MustCompile(`kl\.\s*(\d{1,2})\.(\d{2})|(\d{1,2}):(\d{2})`)

// Default event start time when no time mention is found.
const (
	defaultHour   = 8
	defaultMinute = 0
)

// Extract scans the notices text line by line and returns one EventItem per
// line carrying a date mention. The items are incomplete until the date
// text is resolved by the norsk package.
func Extract(text string, child domain.Child) []domain.EventItem {
	var events []domain.EventItem

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if utf8.RuneCountInString(trimmed) < minLineLength {
			continue
		}

		dateText := matchDate(trimmed)
		if dateText == "" {
			continue
		}

		hour, minute := matchTime(trimmed)

		events = append(events, domain.EventItem{
			Child:       child,
			Description: trimmed,
			DateText:    dateText,
			Hour:        hour,
			Minute:      minute,
		})
	}

	return events
}

// matchDate returns the first date fragment found on the line, or "".
func matchDate(line string) string {
	for _, p := range datePatterns {
		if m := p.FindString(line); m != "" {
			return m
		}
	}
	return ""
}

// matchTime returns the time mention on the line, defaulting to 08:00.
func matchTime(line string) (hour, minute int) {
	hour, minute = defaultHour, defaultMinute

	m := timePattern.FindStringSubmatch(line)
	if m == nil {
		return hour, minute
	}

	if m[1] != "" {
		hour, _ = strconv.Atoi(m[1])
		minute, _ = strconv.Atoi(m[2])
	} else {
		hour, _ = strconv.Atoi(m[3])
		minute, _ = strconv.Atoi(m[4])
	}
	return hour, minute
}
