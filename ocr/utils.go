package ocr

import (
	"math"
	"strings"

	"chat-ocr/transcript"
)

// ParseLanguages splits a Tesseract language list given as "kor,eng" or
// "kor+eng". Empty entries are dropped.
func ParseLanguages(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '+' || r == ' '
	})
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// toRect rounds floating-point corner coordinates to a pixel rectangle.
func toRect(x1, y1, x2, y2 float64) transcript.Rect {
	return transcript.Rect{
		Left:   int(math.Round(x1)),
		Top:    int(math.Round(y1)),
		Right:  int(math.Round(x2)),
		Bottom: int(math.Round(y2)),
	}
}
