package ocr

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gardar/ocrchestra/pkg/hocr"
	"github.com/otiai10/gosseract/v2"
	"github.com/sirupsen/logrus"
)

var defaultTesseractLanguages = []string{"kor", "eng"}

// TesseractProvider implements OCR with a local Tesseract installation.
type TesseractProvider struct {
	languages     []string
	clientFactory func() *gosseract.Client
}

func newTesseractProvider(config Config) (*TesseractProvider, error) {
	langs := config.TesseractLanguages
	if len(langs) == 0 {
		langs = defaultTesseractLanguages
	}
	return &TesseractProvider{languages: langs, clientFactory: gosseract.NewClient}, nil
}

// ProcessImage recognizes the image word by word and rebuilds its lines.
func (p *TesseractProvider) ProcessImage(ctx context.Context, imageContent []byte) (*Result, error) {
	logger := log.WithFields(logrus.Fields{
		"provider":  "tesseract",
		"languages": strings.Join(p.languages, "+"),
		"data_size": len(imageContent),
	})
	logger.Debug("Starting Tesseract processing")

	img, err := imaging.Decode(bytes.NewReader(imageContent))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	bounds := img.Bounds()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := p.clientFactory()
	defer c.Close()
	if err := c.SetImageFromBytes(imageContent); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}
	if err := c.SetLanguage(p.languages...); err != nil {
		return nil, fmt.Errorf("set languages: %w", err)
	}
	text, err := c.Text()
	if err != nil {
		return nil, fmt.Errorf("recognize text: %w", err)
	}
	boxes, err := c.GetBoundingBoxesVerbose()
	if err != nil {
		return nil, fmt.Errorf("get bounding boxes: %w", err)
	}

	page := tesseractPage(boxes, bounds.Dx(), bounds.Dy())
	blocks := BlocksFromHOCRPage(page)
	logger.WithFields(logrus.Fields{
		"num_words":  len(boxes),
		"num_lines":  len(page.Lines),
		"num_blocks": len(blocks),
	}).Info("Successfully processed image with Tesseract")

	return &Result{
		Text:        strings.TrimSpace(text),
		Blocks:      blocks,
		ImageWidth:  bounds.Dx(),
		ImageHeight: bounds.Dy(),
		HOCRPage:    page,
		Metadata: map[string]string{
			"provider":  "tesseract",
			"languages": strings.Join(p.languages, "+"),
			"num_words": fmt.Sprintf("%d", len(boxes)),
		},
	}, nil
}

type lineKey struct{ block, par, line int }

// tesseractPage groups word boxes into hOCR lines by their block, paragraph
// and line numbers, in recognition order.
func tesseractPage(boxes []gosseract.BoundingBox, width, height int) *hocr.Page {
	var order []lineKey
	grouped := make(map[lineKey][]gosseract.BoundingBox)
	for _, b := range boxes {
		if strings.TrimSpace(b.Word) == "" || b.Box.Empty() {
			continue
		}
		k := lineKey{b.BlockNum, b.ParNum, b.LineNum}
		if _, ok := grouped[k]; !ok {
			order = append(order, k)
		}
		grouped[k] = append(grouped[k], b)
	}

	lines := make([]hocr.Line, 0, len(order))
	for _, k := range order {
		words := grouped[k]
		union := words[0].Box
		hw := make([]hocr.Word, 0, len(words))
		for i, w := range words {
			union = union.Union(w.Box)
			hw = append(hw, hocr.Word{
				ID:         fmt.Sprintf("word_%d_%d_%d_%d", k.block, k.par, k.line, i+1),
				Text:       w.Word,
				BBox:       hocr.NewBoundingBox(float64(w.Box.Min.X), float64(w.Box.Min.Y), float64(w.Box.Max.X), float64(w.Box.Max.Y)),
				Confidence: w.Confidence,
				Lang:       "unknown",
			})
		}
		lines = append(lines, hocr.Line{
			ID:       fmt.Sprintf("line_%d_%d_%d", k.block, k.par, k.line),
			Lang:     "unknown",
			BBox:     hocr.NewBoundingBox(float64(union.Min.X), float64(union.Min.Y), float64(union.Max.X), float64(union.Max.Y)),
			Baseline: "0 0",
			Words:    hw,
		})
	}
	return newPage(width, height, lines, map[string]string{"provider": "tesseract"})
}
