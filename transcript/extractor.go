package transcript

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

type entityPattern struct {
	typ EntityType
	re  *regexp.Regexp
}

// Checked in this order; on identical start offsets the earlier pattern wins.
var entityPatterns = []entityPattern{
	{EntityURL, regexp.MustCompile(`https?://[^\s]+`)},
	{EntityEmail, regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)},
	{EntityPhone, regexp.MustCompile(`\d{2,3}-?\d{3,4}-?\d{4}`)},
	{EntityHashtag, regexp.MustCompile(`#[\w가-힣]+`)},
	{EntityMention, regexp.MustCompile(`@[\w가-힣]+`)},
	{EntityMoney, regexp.MustCompile(`\d+[원만억조]`)},
}

type span struct {
	typ        EntityType
	start, end int // byte offsets
	priority   int
}

// ExtractEntities scans text for emails, phone numbers, URLs, hashtags,
// mentions and money amounts. Matches never overlap: the earliest match wins,
// then the longest, then the pattern listed first. Offsets are rune offsets.
func ExtractEntities(text string) []TextEntity {
	if text == "" {
		return []TextEntity{}
	}
	var spans []span
	for prio, p := range entityPatterns {
		for _, loc := range p.re.FindAllStringIndex(text, -1) {
			spans = append(spans, span{typ: p.typ, start: loc[0], end: loc[1], priority: prio})
		}
	}
	sort.SliceStable(spans, func(i, j int) bool {
		a, b := spans[i], spans[j]
		if a.start != b.start {
			return a.start < b.start
		}
		if la, lb := a.end-a.start, b.end-b.start; la != lb {
			return la > lb
		}
		return a.priority < b.priority
	})

	entities := make([]TextEntity, 0, len(spans))
	covered := 0
	for _, s := range spans {
		if s.start < covered {
			continue
		}
		entities = append(entities, TextEntity{
			Text:       text[s.start:s.end],
			Type:       s.typ,
			StartIndex: utf8.RuneCountInString(text[:s.start]),
			EndIndex:   utf8.RuneCountInString(text[:s.end]),
		})
		covered = s.end
	}
	return entities
}

// ExtractKeywords tokenizes text on whitespace, strips surrounding
// punctuation, drops single-rune tokens and stopwords, and returns up to limit
// tokens ranked by frequency. Ties keep first-occurrence order.
func ExtractKeywords(text string, limit int, stopwords []string) []string {
	if limit <= 0 {
		return []string{}
	}
	stop := toSet(stopwords, true)
	counts := make(map[string]int)
	var order []string
	for _, tok := range strings.Fields(text) {
		tok = strings.TrimFunc(tok, func(r rune) bool { return !isLetterOrDigit(r) })
		if utf8.RuneCountInString(tok) <= 1 {
			continue
		}
		key := stripParticle(strings.ToLower(tok))
		if _, ok := stop[key]; ok {
			continue
		}
		if isJamoRun(key) {
			continue
		}
		if counts[key] == 0 {
			order = append(order, key)
		}
		counts[key]++
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > limit {
		order = order[:limit]
	}
	if order == nil {
		return []string{}
	}
	return order
}

// Particle suffixes removed from keyword tokens, longest first.
var keywordParticles = []string{"에서", "에게", "한테", "으로", "까지", "부터", "은", "는", "이", "가", "을", "를", "에", "도", "로", "의"}

// stripParticle removes one trailing particle from a Hangul token of three or
// more runes, so 저녁을 and 저녁 count as the same keyword.
func stripParticle(tok string) string {
	n := utf8.RuneCountInString(tok)
	if n < 3 {
		return tok
	}
	for _, p := range keywordParticles {
		if strings.HasSuffix(tok, p) && n-utf8.RuneCountInString(p) >= 2 {
			stem := strings.TrimSuffix(tok, p)
			if r, _ := utf8.DecodeLastRuneInString(stem); isHangulSyllable(r) {
				return stem
			}
		}
	}
	return tok
}

// isJamoRun catches laughter and crying runs such as ㅋㅋㅋ and ㅠㅠ.
func isJamoRun(tok string) bool {
	for _, r := range tok {
		if r < 'ㄱ' || r > 'ㅣ' {
			return false
		}
	}
	return true
}

// isLetterOrDigit reports whether a rune can be part of a keyword.
func isLetterOrDigit(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
