package transcript

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractEntities(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []TextEntity
	}{
		{
			name: "email and phone",
			text: "연락처는 a@b.com, 010-1234-5678 입니다",
			expected: []TextEntity{
				{Text: "a@b.com", Type: EntityEmail, StartIndex: 5, EndIndex: 12},
				{Text: "010-1234-5678", Type: EntityPhone, StartIndex: 14, EndIndex: 27},
			},
		},
		{
			name: "url swallows its fragment",
			text: "https://ex.com/a#b 참고 #맛집 @민지 5000원",
			expected: []TextEntity{
				{Text: "https://ex.com/a#b", Type: EntityURL, StartIndex: 0, EndIndex: 18},
				{Text: "#맛집", Type: EntityHashtag, StartIndex: 22, EndIndex: 25},
				{Text: "@민지", Type: EntityMention, StartIndex: 26, EndIndex: 29},
				{Text: "5000원", Type: EntityMoney, StartIndex: 30, EndIndex: 35},
			},
		},
		{
			name: "money in units",
			text: "3만 보내줘",
			expected: []TextEntity{
				{Text: "3만", Type: EntityMoney, StartIndex: 0, EndIndex: 2},
			},
		},
		{
			name:     "nothing to find",
			text:     "그냥 평범한 문장",
			expected: []TextEntity{},
		},
		{
			name:     "empty",
			text:     "",
			expected: []TextEntity{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ExtractEntities(tc.text)
			assert.Equal(t, tc.expected, got)
			runes := []rune(tc.text)
			for _, e := range got {
				assert.Equal(t, e.Text, string(runes[e.StartIndex:e.EndIndex]))
			}
		})
	}
}

func TestExtractKeywords(t *testing.T) {
	stop := DefaultConfig().Stopwords
	tests := []struct {
		name     string
		text     string
		limit    int
		expected []string
	}{
		{
			name:     "ranks by frequency and strips particles",
			text:     "저녁 먹었어? 저녁은 뭐 먹을까 ㅋㅋㅋ 저녁",
			limit:    5,
			expected: []string{"저녁", "먹었어", "먹을까"},
		},
		{
			name:     "ties keep first occurrence",
			text:     "사과 바나나 포도 딸기 수박 참외 자두",
			limit:    5,
			expected: []string{"사과", "바나나", "포도", "딸기", "수박"},
		},
		{
			name:     "english stopwords and case",
			text:     "The meeting is at the Office. Meeting!",
			limit:    5,
			expected: []string{"meeting", "office"},
		},
		{
			name:     "only stopwords",
			text:     "그냥 너무 좀",
			limit:    5,
			expected: []string{},
		},
		{
			name:     "zero limit",
			text:     "저녁 저녁",
			limit:    0,
			expected: []string{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ExtractKeywords(tc.text, tc.limit, stop))
		})
	}
}

func TestStripParticle(t *testing.T) {
	assert.Equal(t, "저녁", stripParticle("저녁은"))
	assert.Equal(t, "학교", stripParticle("학교에서"))
	assert.Equal(t, "나는", stripParticle("나는"))
	assert.Equal(t, "cafe", stripParticle("cafe"))
}
