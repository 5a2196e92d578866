package section

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const markedText = `=== MINE LEKSER ===
Norsk: les side 4
Matematikk: oppgave 7

=== BESKJEDER ===
Husk: gymtøy til fredag
Juleavslutning 9.desember`

// TestSplit_MarkedRegions tests that explicit delimiters produce disjoint
// section bodies with no bleed across the boundary
func TestSplit_MarkedRegions(t *testing.T) {
	homework, notices := Split(markedText)

	assert.Equal(t, "Norsk: les side 4\nMatematikk: oppgave 7", homework)
	assert.Equal(t, "Husk: gymtøy til fredag\nJuleavslutning 9.desember", notices)

	assert.NotContains(t, homework, "Husk")
	assert.NotContains(t, homework, "BESKJEDER")
	assert.NotContains(t, notices, "Norsk")
	assert.NotContains(t, notices, "LEKSER")
}

// TestExtract_LooseMarker tests the fallback on the bare section name
// when OCR dropped the "===" delimiters
func TestExtract_LooseMarker(t *testing.T) {
	text := "MINE LEKSER\nNorsk: les side 4\nBESKJEDER\nHusk: matpakke"

	body := Extract(text, Homework)
	assert.Contains(t, body, "Norsk: les side 4")

	// The loose match runs to the next "===" or end of text, so the
	// notices region is included in the homework body. The extractors
	// tolerate the overlap.
	body = Extract(text, Notices)
	assert.Equal(t, "Husk: matpakke", body)
}

// TestExtract_BlankRegionFallsBack tests that a marker whose region OCR'd
// empty yields the full document instead of an empty body
func TestExtract_BlankRegionFallsBack(t *testing.T) {
	text := "=== MINE LEKSER ===\nNorsk: les side 4\nHusk: gymtøy til fredag\n\n=== BESKJEDER ===\n  \n"

	assert.Equal(t, text, Extract(text, Notices))

	// The homework region is intact and unaffected.
	assert.Equal(t, "Norsk: les side 4\nHusk: gymtøy til fredag", Extract(text, Homework))
}

// TestExtract_NoMarkers tests the whole-document fallback
func TestExtract_NoMarkers(t *testing.T) {
	text := "Norsk: les side 4\nHusk: matpakke"

	assert.Equal(t, text, Extract(text, Homework))
	assert.Equal(t, text, Extract(text, Notices))
}

// TestExtract_CaseInsensitive tests marker matching regardless of OCR case
func TestExtract_CaseInsensitive(t *testing.T) {
	text := "=== mine lekser ===\nNorsk: les side 4"

	assert.Equal(t, "Norsk: les side 4", Extract(text, Homework))
}
