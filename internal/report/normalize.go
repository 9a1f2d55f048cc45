package report

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/starhawk-ag/drone-pdf-extractor/internal/pdf"
)

// shortBlockMax is the longest block still considered fragment noise.
// Renderers emit stray glyphs, bullets, and axis labels as standalone
// blocks; anything this short carries no extractable signal.
const shortBlockMax = 3

// Views holds the two normalized projections of a page's text that all
// extraction rules run against.
type Views struct {
	// Structured joins the surviving blocks with newlines, preserving
	// the block boundaries that labels tend to respect.
	Structured string

	// Flat joins the same blocks with single spaces and collapses
	// internal whitespace, so values split across adjacent blocks
	// become contiguous.
	Flat string

	// Lowercased copies for case-insensitive label searches.
	StructuredLower string
	FlatLower       string
}

// Normalize orders raw text blocks by position, drops fragment noise,
// and builds the structured and flat views.
func Normalize(blocks []pdf.TextBlock) Views {
	ordered := make([]pdf.TextBlock, len(blocks))
	copy(ordered, blocks)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Position < ordered[j].Position
	})

	structured := make([]string, 0, len(ordered))
	flat := make([]string, 0, len(ordered))
	for _, block := range ordered {
		text := strings.TrimSpace(block.Text)
		if utf8.RuneCountInString(text) <= shortBlockMax {
			continue
		}
		structured = append(structured, text)
		flat = append(flat, collapseWhitespace(text))
	}

	views := Views{
		Structured: strings.Join(structured, "\n"),
		Flat:       strings.Join(flat, " "),
	}
	views.StructuredLower = strings.ToLower(views.Structured)
	views.FlatLower = strings.ToLower(views.Flat)
	return views
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// windowAfter returns up to size characters of text starting at from.
// Size counts runes, not bytes, so multibyte text keeps full windows.
func windowAfter(text string, from, size int) string {
	if from < 0 {
		from = 0
	}
	if from >= len(text) {
		return ""
	}
	end := from
	for count := 0; count < size && end < len(text); count++ {
		_, width := utf8.DecodeRuneInString(text[end:])
		end += width
	}
	return text[from:end]
}

// windowBefore returns up to size characters of text ending at to.
// Size counts runes, not bytes.
func windowBefore(text string, to, size int) string {
	if to > len(text) {
		to = len(text)
	}
	if to <= 0 {
		return ""
	}
	start := to
	for count := 0; count < size && start > 0; count++ {
		_, width := utf8.DecodeLastRuneInString(text[:start])
		start -= width
	}
	return text[start:to]
}
