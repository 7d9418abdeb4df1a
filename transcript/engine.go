package transcript

import (
	"unicode"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// SetLogLevel sets the logging level for the transcript package.
func SetLogLevel(level logrus.Level) {
	log.SetLevel(level)
}

// Engine reconstructs a sender-attributed transcript from OCR blocks. It holds
// only immutable configuration and is safe for concurrent use; every Analyze
// call works on its own transient state.
type Engine struct {
	cfg        Config
	classifier *Classifier
}

// New creates an Engine. Unset numeric fields in cfg fall back to defaults.
func New(cfg Config) *Engine {
	cfg = cfg.withDefaults()
	return &Engine{cfg: cfg, classifier: NewClassifier(cfg)}
}

// Config returns the effective configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Analyze runs the full pipeline over one capture. It never fails: input that
// yields no conversation produces an empty, valid analysis.
func (e *Engine) Analyze(c Capture) *OcrAnalysis {
	blocks := Preprocess(c.Blocks, c.ExcludedTopBandHeight)
	screenWidth := c.ScreenWidth
	if screenWidth <= 0 {
		screenWidth = rightmostEdge(blocks)
	}

	classified := e.classifier.ClassifyAll(blocks, screenWidth)
	room := DetectRoomTitle(classified, screenWidth, c.ExcludedTopBandHeight, e.cfg)
	bubbles := AssembleBubbles(withoutTitle(classified, room), room.Name, e.cfg)
	t := Attribute(bubbles, room, e.cfg)

	original := t.Render()
	body := t.Body()
	analysis := &OcrAnalysis{
		OriginalText: original,
		TextType:     TextTypeGeneral,
		Confidence:   EstimateConfidence(classified, e.cfg.DefaultConfidence),
		Language:     DetectLanguage(body),
		Suggestions:  []string{},
		Keywords:     ExtractKeywords(body, e.cfg.MaxKeywords, e.cfg.Stopwords),
		Entities:     ExtractEntities(original),
		ChatAnalysis: &t,
	}

	if last := t.LastMessage(); last != nil {
		analysis.TextType = ClassifyTextType(last.Text)
		in := SuggestionInput{
			TextType:    analysis.TextType,
			Sender:      last.Sender,
			IsGroupChat: t.IsGroupChat,
			TimeInfo:    ExtractTimeInfo(last.Text),
		}
		switch {
		case last.Name != "":
			in.OtherPersonName = last.Name
		case t.OtherPersonName != nil:
			in.OtherPersonName = *t.OtherPersonName
		}
		analysis.Suggestions = GenerateSuggestions(in, e.cfg.MaxSuggestions)
	}

	log.WithFields(logrus.Fields{
		"blocks":     len(c.Blocks),
		"kept":       len(blocks),
		"bubbles":    len(bubbles),
		"messages":   len(t.Messages),
		"group":      t.IsGroupChat,
		"text_type":  analysis.TextType,
		"confidence": analysis.Confidence,
	}).Debug("Analyzed capture")
	return analysis
}

func rightmostEdge(blocks []TextBlock) int {
	edge := 0
	for _, b := range blocks {
		if b.Box.Right > edge {
			edge = b.Box.Right
		}
	}
	return edge
}

// DetectLanguage reports "ko", "en", "mixed" or "unknown" from the share of
// Hangul and Latin letters in text. A script counts as present from 20% of
// the letters up.
func DetectLanguage(text string) string {
	var hangul, latin int
	for _, r := range text {
		switch {
		case unicode.Is(unicode.Hangul, r):
			hangul++
		case unicode.Is(unicode.Latin, r):
			latin++
		}
	}
	total := hangul + latin
	if total == 0 {
		return languageNone
	}
	koShare := float64(hangul) / float64(total)
	switch {
	case koShare >= 0.8:
		return languageKo
	case koShare <= 0.2:
		return languageEn
	default:
		return languageMixed
	}
}
