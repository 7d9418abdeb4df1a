package transcript

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allTextTypes = []TextType{
	TextTypeQuestion, TextTypeURL, TextTypePhoneNumber, TextTypeEmail, TextTypeDateTime,
	TextTypeNumber, TextTypeCode, TextTypeMessage, TextTypeGeneral,
}

func TestGenerateSuggestionsCoversEveryKey(t *testing.T) {
	for _, typ := range allTextTypes {
		for _, sender := range []Sender{SenderMe, SenderOther, SenderUnknown, SenderSystem} {
			for _, group := range []bool{false, true} {
				t.Run(fmt.Sprintf("%s/%s/%t", typ, sender, group), func(t *testing.T) {
					in := SuggestionInput{TextType: typ, Sender: sender, IsGroupChat: group, OtherPersonName: "민지"}
					got := GenerateSuggestions(in, MaxSuggestions)

					require.NotEmpty(t, got)
					assert.LessOrEqual(t, len(got), MaxSuggestions)
					seen := map[string]bool{}
					for _, s := range got {
						assert.NotEmpty(t, s)
						assert.False(t, seen[s], "duplicate suggestion %q", s)
						seen[s] = true
					}
					assert.Equal(t, got, GenerateSuggestions(in, MaxSuggestions))
				})
			}
		}
	}
}

func TestGenerateSuggestionsInterpolation(t *testing.T) {
	tests := []struct {
		name  string
		in    SuggestionInput
		first string
	}{
		{
			name:  "one-to-one addresses by name",
			in:    SuggestionInput{TextType: TextTypeQuestion, Sender: SenderOther, OtherPersonName: "민지"},
			first: "민지야, 잠깐만, 생각해보고 알려줄게!",
		},
		{
			name:  "group uses honorific",
			in:    SuggestionInput{TextType: TextTypeQuestion, Sender: SenderOther, IsGroupChat: true, OtherPersonName: "민지"},
			first: "민지님, 확인해보고 말씀드릴게요!",
		},
		{
			name:  "unknown speaker has no prefix",
			in:    SuggestionInput{TextType: TextTypeQuestion, Sender: SenderUnknown, OtherPersonName: "민지"},
			first: "잠깐만, 생각해보고 알려줄게!",
		},
		{
			name:  "time info",
			in:    SuggestionInput{TextType: TextTypeDateTime, Sender: SenderOther, TimeInfo: "내일 오후 3시"},
			first: "내일 오후 3시 좋아!",
		},
		{
			name:  "follow up on own message",
			in:    SuggestionInput{TextType: TextTypeGeneral, Sender: SenderMe, OtherPersonName: "민지"},
			first: "민지, 혹시 확인했어?",
		},
		{
			name:  "follow up without a name",
			in:    SuggestionInput{TextType: TextTypeGeneral, Sender: SenderMe},
			first: "혹시 확인했어?",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := GenerateSuggestions(tc.in, MaxSuggestions)
			require.NotEmpty(t, got)
			assert.Equal(t, tc.first, got[0])
		})
	}
}

func TestGenerateSuggestionsLimit(t *testing.T) {
	in := SuggestionInput{TextType: TextTypeQuestion, Sender: SenderOther}
	assert.Len(t, GenerateSuggestions(in, 2), 2)
	assert.Len(t, GenerateSuggestions(in, 50), 5)
}

func TestVocative(t *testing.T) {
	assert.Equal(t, "민지야", vocative("민지"))
	assert.Equal(t, "지훈아", vocative("지훈"))
	assert.Equal(t, "Alice", vocative("Alice"))
}

func TestExtractTimeInfo(t *testing.T) {
	tests := []struct {
		text     string
		expected string
	}{
		{"내일 오후 3시에 보자", "내일 오후 3시"},
		{"3월 5일에 만나", "3월 5일"},
		{"오늘 저녁 어때", "오늘 저녁"},
		{"12:30 괜찮아", "12:30"},
		{"좋아", ""},
	}

	for _, tc := range tests {
		t.Run(tc.text, func(t *testing.T) {
			assert.Equal(t, tc.expected, ExtractTimeInfo(tc.text))
		})
	}
}
