package driven

import "context"

// TextExtractor is the external OCR capability.
// Implementations return raw text for one image or PDF, using the
// "=== MINE LEKSER ===" / "=== BESKJEDER ===" marker convention when the
// two-column layout can be separated. OCR engine internals are out of
// scope for the core.
type TextExtractor interface {
	// ExtractText runs OCR on the file at path and returns the raw text.
	ExtractText(ctx context.Context, path string) (string, error)
}
