package transcript

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	noisePatterns = []*regexp.Regexp{
		// clocks: "오후 3:15", "9:05", "10:30 PM"
		regexp.MustCompile(`^(?:오전|오후)?\s*\d{1,2}:\d{2}(?:\s*[AaPp][Mm])?$`),
		regexp.MustCompile(`^(?:오전|오후)?\s*\d{1,2}시\s*\d{1,2}분$`),
		// date separators
		regexp.MustCompile(`^\d{4}년\s*\d{1,2}월\s*\d{1,2}일(?:\s*[월화수목금토일]요일)?\s*>?$`),
		regexp.MustCompile(`^\d{1,2}월\s*\d{1,2}일(?:\s*\(?[월화수목금토일](?:요일)?\)?)?$`),
		regexp.MustCompile(`^\d{2,4}[-./]\d{1,2}[-./]\d{1,2}\.?(?:\s*\(?[월화수목금토일]\)?)?$`),
		regexp.MustCompile(`^[월화수목금토일]요일$`),
		regexp.MustCompile(`^(?:Mon|Tue|Wed|Thu|Fri|Sat|Sun)[a-z]*,?\s+[A-Z][a-z]+\s+\d{1,2}(?:,\s*\d{4})?$`),
		regexp.MustCompile(`^(?:Yesterday|Today)$`),
		// unread counters and clock fragments
		regexp.MustCompile(`^[\d:]{1,6}$`),
		// lone jamo
		regexp.MustCompile(`^[ㄱ-ㅎㅏ-ㅣ]$`),
	}

	senderEchoPattern = regexp.MustCompile(`^(?:나|상대방)(?:\s*[:：]?\s*(?:나|상대방))*\s*[:：]?$`)
	koreanNamePattern = regexp.MustCompile(`^[가-힣]{2,4}$`)
	latinNamePattern  = regexp.MustCompile(`^[A-Z][a-z]{1,11}(?: [A-Z][a-z]{1,11})?$`)
)

// Trailing particles that mark a word as part of a sentence rather than a
// bare name. Checked on words of three or more syllables; 이, 가, 도 and 야
// also end two-syllable names (수이, 하가, 지도, 소야).
const nameParticles = "는가을를에의도로와과랑야이"

// Particles that never close a two-syllable name: 저는, 뭐를, 집에.
const shortNameParticles = "는를을에의로와과랑"

// Sentence-final endings are never names regardless of length.
const sentenceEndings = "요다죠까냐"

// Classifier labels preprocessed blocks. It is immutable after construction
// and safe for concurrent use.
type Classifier struct {
	cfg         Config
	uiGlyphs    map[string]struct{}
	commonWords map[string]struct{}
}

// NewClassifier builds a Classifier from cfg's vocabularies.
func NewClassifier(cfg Config) *Classifier {
	cfg = cfg.withDefaults()
	return &Classifier{
		cfg:         cfg,
		uiGlyphs:    toSet(cfg.UIGlyphs, false),
		commonWords: toSet(cfg.CommonWords, true),
	}
}

// ClassifyAll labels every block. screenWidth splits left from right.
func (c *Classifier) ClassifyAll(blocks []TextBlock, screenWidth int) []ClassifiedBlock {
	out := make([]ClassifiedBlock, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, c.Classify(b, screenWidth))
	}
	return out
}

// Classify labels a single block. Blocks matching no rule default to MESSAGE.
func (c *Classifier) Classify(b TextBlock, screenWidth int) ClassifiedBlock {
	cb := ClassifiedBlock{
		TextBlock:   b,
		IsLeftSide:  b.Box.CenterX() < float64(screenWidth)/2,
		IsSmallFont: c.lineHeight(b) < c.cfg.SmallFontHeight,
	}
	text := strings.TrimSpace(b.Text)
	switch {
	case c.IsNoise(text):
		cb.Role = RoleNoise
	case c.isNameCandidate(text):
		cb.Role = RoleNameCandidate
		cb.NameScore = c.nameScore(text, cb.IsSmallFont)
	default:
		cb.Role = RoleMessage
	}
	return cb
}

// IsNoise reports whether text is chrome rather than conversation: clocks,
// dates, counters, lone glyphs, UI labels or an echo of a sender label.
func (c *Classifier) IsNoise(text string) bool {
	if text == "" {
		return true
	}
	if utf8.RuneCountInString(text) == 1 {
		r, _ := utf8.DecodeRuneInString(text)
		// a single complete syllable (네, 오, 헐) is a real reply
		if !isHangulSyllable(r) {
			return true
		}
	}
	if _, ok := c.uiGlyphs[text]; ok {
		return true
	}
	if utf8.RuneCountInString(text) <= MaxEchoLength && senderEchoPattern.MatchString(text) {
		return true
	}
	for _, re := range noisePatterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

func (c *Classifier) isNameCandidate(text string) bool {
	if latinNamePattern.MatchString(text) {
		_, common := c.commonWords[strings.ToLower(text)]
		return !common
	}
	if !koreanNamePattern.MatchString(text) {
		return false
	}
	if _, common := c.commonWords[text]; common {
		return false
	}
	runes := []rune(text)
	last := runes[len(runes)-1]
	if strings.ContainsRune(sentenceEndings, last) {
		return false
	}
	if len(runes) >= 3 && strings.ContainsRune(nameParticles, last) {
		return false
	}
	if len(runes) == 2 && strings.ContainsRune(shortNameParticles, last) {
		return false
	}
	return true
}

// nameScore grades how name-like a candidate is. A leading common surname,
// three or more syllables and small print each raise the score.
func (c *Classifier) nameScore(text string, small bool) float64 {
	score := 0.5
	first, _ := utf8.DecodeRuneInString(text)
	if isHangulSyllable(first) {
		if strings.ContainsRune(c.cfg.Surnames, first) {
			score += 0.25
		}
		if utf8.RuneCountInString(text) >= 3 {
			score += 0.15
		}
	} else if strings.Contains(text, " ") {
		score += 0.25
	}
	if small {
		score += 0.1
	}
	if score > 1 {
		score = 1
	}
	return score
}

// lineHeight prefers the provider's average line height and falls back to
// the box height divided by the number of text lines.
func (c *Classifier) lineHeight(b TextBlock) float64 {
	if b.AvgLineHeight > 0 {
		return b.AvgLineHeight
	}
	lines := strings.Count(b.Text, "\n") + 1
	return float64(b.Box.Height()) / float64(lines)
}

func isHangulSyllable(r rune) bool {
	return r >= 0xAC00 && r <= 0xD7A3
}

func toSet(words []string, fold bool) map[string]struct{} {
	set := make(map[string]struct{}, len(words)*2)
	for _, w := range words {
		set[w] = struct{}{}
		if fold {
			set[strings.ToLower(w)] = struct{}{}
		}
	}
	return set
}
