// Package section divides raw two-column OCR text into named regions.
// The OCR adapter marks regions with "=== NAME ===" delimiters, but OCR is
// not guaranteed to render them, so extraction degrades gracefully down to
// the whole document.
package section

import (
	"regexp"
	"strings"
)

// Section names used by the school plan layout.
const (
	// Homework is the left-column "MINE LEKSER" region.
	Homework = "MINE LEKSER"

	// Notices is the right-column "BESKJEDER" region.
	Notices = "BESKJEDER"
)

// Extract returns the body of the named section from the raw text.
// It first looks for an explicit "=== NAME ===" delimiter, then for the
// bare name token, and finally falls back to the entire document so the
// caller always receives a usable (possibly duplicated) body. A marker
// whose region is blank falls through the same way: OCR sometimes renders
// the column header but loses the column content.
func Extract(text, name string) string {
	quoted := regexp.QuoteMeta(name)

	strict := regexp.MustCompile(`(?is)===\s*` + quoted + `\s*===(.*?)(?:===|$)`)
	if m := strict.FindStringSubmatch(text); m != nil {
		if body := strings.TrimSpace(m[1]); body != "" {
			return body
		}
	}

	loose := regexp.MustCompile(`(?is)` + quoted + `(.*?)(?:===|$)`)
	if m := loose.FindStringSubmatch(text); m != nil {
		if body := strings.TrimSpace(m[1]); body != "" {
			return body
		}
	}

	return text
}

// Split extracts the homework and notices regions in one pass.
// Every document yields exactly two sections; when a marker is absent or
// its region is blank that body is the full text.
func Split(text string) (homework, notices string) {
	return Extract(text, Homework), Extract(text, Notices)
}
