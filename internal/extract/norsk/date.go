// Package norsk resolves Norwegian date fragments and noisy OCR event
// descriptions into concrete dates and clean titles.
package norsk

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/handeliew/hugin/internal/core/domain"
)

// months maps Norwegian month names and 3-letter abbreviations to numbers.
var months = map[string]time.Month{
	"januar": time.January, "jan": time.January,
	"februar": time.February, "feb": time.February,
	"mars": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"mai": time.May,
	"juni": time.June, "jun": time.June,
	"juli": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sep": time.September,
	"oktober": time.October, "okt": time.October,
	"november": time.November, "nov": time.November,
	"desember": time.December, "des": time.December,
}

// dayMonthPattern extracts "(day)(separator)(month word)" from a fragment.
var dayMonthPattern = regexp.MustCompile(`(\d{1,2})[.\s]+([A-Za-zæøåÆØÅ]+)`)

// weekdayNames are Norwegian weekday names indexed Monday-first.
var weekdayNames = [7]string{
	"Mandag", "Tirsdag", "Onsdag", "Torsdag", "Fredag", "Lørdag", "Søndag",
}

// ParseDate resolves a Norwegian date fragment like "9.desember" or
// "9 des" to a concrete date. The year is assumed to be today's; a date
// strictly before today rolls forward to next year. Returns
// domain.ErrDateUnparseable when the fragment cannot be resolved.
func ParseDate(dateText string, today time.Time) (time.Time, error) {
	m := dayMonthPattern.FindStringSubmatch(dateText)
	if m == nil {
		return time.Time{}, domain.ErrDateUnparseable
	}

	day, err := strconv.Atoi(m[1])
	if err != nil {
		return time.Time{}, domain.ErrDateUnparseable
	}

	month, ok := months[strings.ToLower(m[2])]
	if !ok {
		return time.Time{}, domain.ErrDateUnparseable
	}

	todayDate := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())

	date := time.Date(today.Year(), month, day, 0, 0, 0, 0, today.Location())
	if date.Day() != day {
		// Day overflowed the month (e.g. 31 februar); reject.
		return time.Time{}, domain.ErrDateUnparseable
	}
	if date.Before(todayDate) {
		date = time.Date(today.Year()+1, month, day, 0, 0, 0, 0, today.Location())
	}

	return date, nil
}

// WeekdayName returns the Norwegian weekday name for a date.
func WeekdayName(t time.Time) string {
	idx := (int(t.Weekday()) - int(time.Monday) + 7) % 7
	return weekdayNames[idx]
}
