package transcript

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Preprocess drops blocks that start inside the excluded top band, have a
// degenerate box or carry no text after trimming. Surviving text is NFC
// normalized so decomposed Hangul from the OCR backend compares equal to
// precomposed syllables. The input slice is not modified.
func Preprocess(blocks []TextBlock, excludedTopBand int) []TextBlock {
	out := make([]TextBlock, 0, len(blocks))
	for _, b := range blocks {
		if excludedTopBand > 0 && b.Box.Top < excludedTopBand {
			continue
		}
		if b.Box.IsEmpty() {
			continue
		}
		text := cleanText(b.Text)
		if text == "" {
			continue
		}
		b.Text = text
		out = append(out, b)
	}
	return out
}

// cleanText normalizes line endings and trims every line of a block.
func cleanText(s string) string {
	s = norm.NFC.String(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
