package norsk

import (
	"strings"
	"unicode/utf8"

	"github.com/handeliew/hugin/internal/core/domain"
)

// skipGlyphs are bullet points and separators that never start a title.
var skipGlyphs = map[string]bool{
	"¢": true, "•": true, "*": true, "-": true, "·": true,
}

// skipWords are common Norwegian words that are not event names.
var skipWords = map[string]bool{
	"blir": true, "er": true, "på": true, "i": true,
	"kl.": true, "klokken": true,
}

// EventTitle derives a clean "{child}: {name}" title from a noisy OCR
// event description. The first token longer than two characters that is
// not a listed glyph, stop-word or date fragment becomes the name, with a trailing
// "-en" suffix stripped. This is a best-effort heuristic for Norwegian
// event names; the guarantee is a non-empty title, not a correct one.
func EventTitle(child domain.Child, description string) string {
	words := strings.Fields(description)

	var name string
	for _, word := range words {
		if utf8.RuneCountInString(word) <= 2 || skipGlyphs[word] {
			continue
		}
		if skipWords[strings.ToLower(word)] || containsDigit(word) {
			continue
		}
		name = strings.TrimRight(word, "en")
		break
	}

	if name == "" {
		// Fallback: first token longer than two characters, stop-words included.
		for _, word := range words {
			if utf8.RuneCountInString(word) > 2 {
				name = strings.TrimRight(word, "en")
				break
			}
		}
	}

	if name == "" {
		name = "Event"
	}

	return string(child) + ": " + name
}

// containsDigit reports whether the word carries any digit. Date and time
// fragments on the line are never event names.
func containsDigit(s string) bool {
	for _, r := range s {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}
