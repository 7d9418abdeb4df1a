package transcript

import (
	"regexp"
	"strings"
)

var (
	questionKeywords = regexp.MustCompile(`(?i)[?？]|어떻게|언제|어디서|왜|무엇|뭐|어떤|\b(?:what|when|where|why|how|who)\b`)
	// a bare domain counts as a URL unless it is the host part of an email
	urlHints      = regexp.MustCompile(`(?i)https?://|www\.|(?:^|[\s(])[a-z0-9-]+(?:\.[a-z0-9-]+)*\.(?:com|net|org|kr|io|me|ly|co)\b`)
	phonePattern  = regexp.MustCompile(`\d{2,3}-?\d{3,4}-?\d{4}`)
	emailPattern  = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	dateTimeHints = regexp.MustCompile(`\d{1,2}:\d{2}|\d{2,4}[-./]\d{1,2}[-./]\d{1,2}|오전|오후|\d{1,2}\s*(?:월|일|시)|[월화수목금토일]요일|내일|모레|(?i:\b(?:am|pm)\b)`)
	digitPattern  = regexp.MustCompile(`\d`)
	codeHints     = regexp.MustCompile(`(?i)\bfunction\b|\bclass\b|\bimport\b|\bdef |\{[^{}]*\}`)
	casualTokens  = regexp.MustCompile(`(?i)ㅋㅋ|ㅎㅎ|ㅠㅠ|ㅜㅜ|안녕|감사|고마워|\b(?:lol|haha|hi|hello|thanks)\b`)
)

type textTypeRule struct {
	typ TextType
	re  *regexp.Regexp
}

// First match wins. A question that also carries a phone number is a
// QUESTION; the order is a product decision, not a derivation.
var textTypeRules = []textTypeRule{
	{TextTypeQuestion, questionKeywords},
	{TextTypeURL, urlHints},
	{TextTypePhoneNumber, phonePattern},
	{TextTypeEmail, emailPattern},
	{TextTypeDateTime, dateTimeHints},
	{TextTypeNumber, digitPattern},
	{TextTypeCode, codeHints},
	{TextTypeMessage, casualTokens},
}

// ClassifyTextType returns the coarse category of text.
func ClassifyTextType(text string) TextType {
	text = strings.TrimSpace(text)
	if text == "" {
		return TextTypeGeneral
	}
	for _, r := range textTypeRules {
		if r.re.MatchString(text) {
			return r.typ
		}
	}
	return TextTypeGeneral
}
