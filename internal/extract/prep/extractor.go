// Package prep extracts bring/remember reminders from the "BESKJEDER"
// region. Matching is phrase-based across the whole section rather than
// line-by-line.
package prep

import (
	"regexp"
	"strings"

	"github.com/handeliew/hugin/internal/core/domain"
)

// thursdayOffset is the fixed due-day offset from the week's Monday.
// Weekly bring-items are commonly needed by Thursday.
const thursdayOffset = 3

// prepPatterns match imperative phrases followed by free text to end of line.
var prepPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?im)(?:Ta med|Husk|Send med)[\s:]+(.+?)(?:\n|$)`),
	regexp.MustCompile(`(?im)(?:må være|skal ha med|trenger)[\s:]+(.+?)(?:\n|$)`),
}

// Extract returns one PreparationItem per imperative-phrase match in the
// notices text, due on Thursday of the plan week.
func Extract(text string, week domain.WeekContext) []domain.PreparationItem {
	var items []domain.PreparationItem

	for _, p := range prepPatterns {
		for _, m := range p.FindAllStringSubmatch(text, -1) {
			desc := strings.TrimSpace(m[1])
			if desc == "" {
				continue
			}
			items = append(items, domain.PreparationItem{
				Child:         week.Child,
				Description:   desc,
				DueDate:       week.Day(thursdayOffset),
				NeedsReminder: true,
			})
		}
	}

	return items
}
