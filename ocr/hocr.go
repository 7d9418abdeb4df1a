package ocr

import (
	"fmt"
	"sort"
	"strings"

	"chat-ocr/transcript"

	"github.com/gardar/ocrchestra/pkg/hocr"
)

// Page metadata key set to "false" when the provider reports no word
// confidences.
const metaWordConfidence = "word_confidence"

// Lines merge into one block only when their heights stay within this ratio;
// a small name label directly above a bubble must not join it.
const maxLineHeightRatio = 1.3

// newPage wraps recognized lines into an hOCR page covering the whole image.
func newPage(width, height int, lines []hocr.Line, meta map[string]string) *hocr.Page {
	return &hocr.Page{
		ID:         "page_1",
		Title:      fmt.Sprintf("image 0 0 %d %d", width, height),
		PageNumber: 1,
		ImageName:  "capture.png",
		Lang:       "unknown",
		BBox:       hocr.NewBoundingBox(0, 0, float64(width), float64(height)),
		Lines:      lines,
		Metadata:   meta,
	}
}

type pageLine struct {
	text        string
	box         transcript.Rect
	confidences []float64
}

func (l pageLine) height() int { return l.box.Height() }

type blockBuilder struct {
	lines []pageLine
	box   transcript.Rect
}

func (b *blockBuilder) last() pageLine { return b.lines[len(b.lines)-1] }

// accepts reports whether l continues the paragraph: directly below the last
// line, of similar height and horizontally overlapping.
func (b *blockBuilder) accepts(l pageLine) bool {
	prev := b.last()
	h := float64(prev.height())
	if h <= 0 || l.height() <= 0 {
		return false
	}
	ratio := float64(l.height()) / h
	if ratio > maxLineHeightRatio || ratio < 1/maxLineHeightRatio {
		return false
	}
	gap := float64(l.box.Top - prev.box.Bottom)
	if gap > 0.6*h || gap < -0.5*h {
		return false
	}
	return l.box.Left < b.box.Right && l.box.Right > b.box.Left
}

func (b *blockBuilder) add(l pageLine) {
	if len(b.lines) == 0 {
		b.box = l.box
	} else {
		b.box.Left = min(b.box.Left, l.box.Left)
		b.box.Top = min(b.box.Top, l.box.Top)
		b.box.Right = max(b.box.Right, l.box.Right)
		b.box.Bottom = max(b.box.Bottom, l.box.Bottom)
	}
	b.lines = append(b.lines, l)
}

func (b *blockBuilder) block() transcript.TextBlock {
	texts := make([]string, 0, len(b.lines))
	var heights float64
	var confidences []float64
	for _, l := range b.lines {
		texts = append(texts, l.text)
		heights += float64(l.height())
		confidences = append(confidences, l.confidences...)
	}
	return transcript.TextBlock{
		Text:               strings.Join(texts, "\n"),
		Box:                b.box,
		AvgLineHeight:      heights / float64(len(b.lines)),
		ElementConfidences: confidences,
	}
}

// BlocksFromHOCRPage groups the page's lines into paragraph-level text blocks.
// Word confidences are scaled from hOCR's 0-100 to 0-1.
func BlocksFromHOCRPage(page *hocr.Page) []transcript.TextBlock {
	if page == nil {
		return []transcript.TextBlock{}
	}
	withConfidence := page.Metadata[metaWordConfidence] != "false"

	lines := make([]pageLine, 0, len(page.Lines))
	for _, line := range page.Lines {
		words := make([]string, 0, len(line.Words))
		var confidences []float64
		for _, w := range line.Words {
			if strings.TrimSpace(w.Text) == "" {
				continue
			}
			words = append(words, w.Text)
			if withConfidence {
				confidences = append(confidences, float64(w.Confidence)/100)
			}
		}
		if len(words) == 0 {
			continue
		}
		box := toRect(line.BBox.X1, line.BBox.Y1, line.BBox.X2, line.BBox.Y2)
		if box.IsEmpty() {
			continue
		}
		lines = append(lines, pageLine{text: strings.Join(words, " "), box: box, confidences: confidences})
	}
	sort.SliceStable(lines, func(i, j int) bool {
		if lines[i].box.Top != lines[j].box.Top {
			return lines[i].box.Top < lines[j].box.Top
		}
		return lines[i].box.Left < lines[j].box.Left
	})

	var builders []*blockBuilder
	for _, l := range lines {
		var target *blockBuilder
		for i := len(builders) - 1; i >= 0; i-- {
			if builders[i].accepts(l) {
				target = builders[i]
				break
			}
		}
		if target == nil {
			target = &blockBuilder{}
			builders = append(builders, target)
		}
		target.add(l)
	}

	blocks := make([]transcript.TextBlock, 0, len(builders))
	for _, b := range builders {
		blocks = append(blocks, b.block())
	}
	return blocks
}
