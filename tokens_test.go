package main

import (
	"strings"
	"testing"
	"text/template"

	"github.com/stretchr/testify/assert"
)

func withReplyTokenLimit(t *testing.T, limit int) {
	t.Helper()
	original := replyTokenLimit
	replyTokenLimit = limit
	t.Cleanup(func() { replyTokenLimit = original })
}

func TestGetAvailableTokensForContent(t *testing.T) {
	tmpl := template.Must(template.New("test").Parse("Template with {{.Var1}} and {{.Content}}"))

	tests := []struct {
		name      string
		limit     int
		data      map[string]interface{}
		wantCount int
		wantErr   bool
	}{
		{
			name:      "disabled token limit",
			limit:     0,
			data:      map[string]interface{}{"Var1": "test"},
			wantCount: -1,
		},
		{
			name:    "template exceeds limit",
			limit:   2,
			data:    map[string]interface{}{"Var1": "test"},
			wantErr: true,
		},
		{
			name:      "available tokens calculation",
			limit:     100,
			data:      map[string]interface{}{"Var1": "test"},
			wantCount: 100 - 10 - getTokenCount("Template with test and "),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			withReplyTokenLimit(t, tc.limit)

			count, err := getAvailableTokensForContent(tmpl, tc.data)

			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.wantCount, count)
		})
	}
}

func TestTruncateConversationByTokens(t *testing.T) {
	conversation := strings.Join([]string{
		"민지: 오늘 저녁에 뭐 먹을지 정했어? 나는 아직 아무 생각이 없어",
		"나: 나도 아직 모르겠어 근처에 새로 생긴 파스타집 가볼까",
		"민지: 좋아 그럼 일곱 시에 역 앞에서 만나자",
		"나: 응 이따 봐!",
	}, "\n")

	tests := []struct {
		name            string
		content         string
		availableTokens int
		wantTruncated   bool
	}{
		{
			name:            "disabled",
			content:         conversation,
			availableTokens: -1,
		},
		{
			name:            "fits",
			content:         conversation,
			availableTokens: getTokenCount(conversation),
		},
		{
			name:            "empty content",
			content:         "",
			availableTokens: 5,
		},
		{
			name:            "oldest lines dropped",
			content:         conversation,
			availableTokens: getTokenCount("민지: 좋아 그럼 일곱 시에 역 앞에서 만나자\n나: 응 이따 봐!"),
			wantTruncated:   true,
		},
		{
			name:            "single long line cut from the front",
			content:         strings.Repeat("아주 긴 메시지 ", 40),
			availableTokens: 8,
			wantTruncated:   true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, truncated := truncateConversationByTokens(tc.content, tc.availableTokens)

			assert.Equal(t, tc.wantTruncated, truncated)
			if !tc.wantTruncated {
				assert.Equal(t, tc.content, result)
				return
			}
			assert.True(t, strings.HasSuffix(tc.content, result), "the most recent text is kept")
			assert.Less(t, len(result), len(tc.content))
			assert.LessOrEqual(t, getTokenCount(result), tc.availableTokens)
		})
	}
}

func TestTruncateConversationKeepsWholeLines(t *testing.T) {
	lines := []string{"민지: 첫 번째 메시지입니다", "나: 두 번째", "민지: 세 번째 메시지"}
	content := strings.Join(lines, "\n")
	budget := getTokenCount(strings.Join(lines[1:], "\n"))

	result, truncated := truncateConversationByTokens(content, budget)

	assert.True(t, truncated)
	assert.Equal(t, strings.Join(lines[1:], "\n"), result)
}
