package main

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/tmc/langchaingo/llms"
)

// defaultReplyModel is used for token counting when REPLY_MODEL is unset.
const defaultReplyModel = "gpt-4o"

// getAvailableTokensForContent calculates how many tokens are available for content
// by rendering the template with empty content and counting tokens
func getAvailableTokensForContent(tmpl *template.Template, data map[string]interface{}) (int, error) {
	if replyTokenLimit <= 0 {
		return -1, nil // No limit when disabled
	}

	templateData := make(map[string]interface{})
	for k, v := range data {
		templateData[k] = v
	}
	templateData["Content"] = ""

	var promptBuffer bytes.Buffer
	if err := tmpl.Execute(&promptBuffer, templateData); err != nil {
		return 0, fmt.Errorf("error executing template: %w", err)
	}

	promptTokens := getTokenCount(promptBuffer.String())
	log.Debugf("Reply prompt template uses %d tokens", promptTokens)

	// Safety margin
	promptTokens += 10

	availableTokens := replyTokenLimit - promptTokens
	if availableTokens < 0 {
		return 0, fmt.Errorf("prompt template exceeds token limit")
	}
	return availableTokens, nil
}

func getTokenCount(content string) int {
	model := replyModel
	if model == "" {
		model = defaultReplyModel
	}
	return llms.CountTokens(model, content)
}

// truncateConversationByTokens keeps the most recent part of a rendered
// conversation within availableTokens. Whole lines are dropped from the top
// first; only when the last line alone is too long is it cut at rune level,
// again keeping its end. The second return value reports whether anything
// was dropped. A negative availableTokens disables truncation.
func truncateConversationByTokens(content string, availableTokens int) (string, bool) {
	if availableTokens < 0 || content == "" {
		return content, false
	}
	if getTokenCount(content) <= availableTokens {
		return content, false
	}

	lines := strings.Split(content, "\n")

	// Smallest start index whose tail fits.
	low, high := 0, len(lines)
	for low < high {
		mid := (low + high) / 2
		if getTokenCount(strings.Join(lines[mid:], "\n")) <= availableTokens {
			high = mid
		} else {
			low = mid + 1
		}
	}
	if low < len(lines) {
		return strings.Join(lines[low:], "\n"), true
	}

	return truncateTailRunes(lines[len(lines)-1], availableTokens), true
}

// truncateTailRunes returns the longest suffix of s within availableTokens.
func truncateTailRunes(s string, availableTokens int) string {
	runes := []rune(s)
	low, high := 0, len(runes)
	for low < high {
		mid := (low + high) / 2
		if getTokenCount(string(runes[mid:])) <= availableTokens {
			high = mid
		} else {
			low = mid + 1
		}
	}
	return string(runes[low:])
}
