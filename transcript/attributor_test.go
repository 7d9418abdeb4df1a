package transcript

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSender(t *testing.T) {
	tests := []struct {
		name       string
		bubble     Bubble
		wantSender Sender
		wantName   string
	}{
		{"right side", Bubble{Text: "응", SenderName: MeMarker}, SenderMe, ""},
		{"named left side", Bubble{Text: "응", SenderName: "민지", IsLeftSide: true}, SenderOther, "민지"},
		{"anonymous left side", Bubble{Text: "응", IsLeftSide: true}, SenderUnknown, ""},
		{"system notice on the left", Bubble{Text: "민지님이 입장하셨습니다.", IsLeftSide: true}, SenderSystem, ""},
		{"system notice on the right", Bubble{Text: "준호님을 초대했습니다.", SenderName: MeMarker}, SenderSystem, ""},
		{"passive invitation notice", Bubble{Text: "민지님이 초대되었습니다.", IsLeftSide: true}, SenderSystem, ""},
		{"short passive invitation notice", Bubble{Text: "준호님이 초대됐습니다", IsLeftSide: true}, SenderSystem, ""},
		{"invitation talk is not a notice", Bubble{Text: "생일파티 초대할게", SenderName: "민지", IsLeftSide: true}, SenderOther, "민지"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sender, name := ResolveSender(tc.bubble)
			assert.Equal(t, tc.wantSender, sender)
			assert.Equal(t, tc.wantName, name)
		})
	}
}

func TestAttributeMergesConsecutiveBubbles(t *testing.T) {
	bubbles := []Bubble{
		{Text: "안녕", Y: 10, SenderName: "민지", IsLeftSide: true},
		{Text: "잘 지내?", Y: 40, SenderName: "민지", IsLeftSide: true},
	}
	got := Attribute(bubbles, RoomTitle{index: -1}, DefaultConfig())

	require.Len(t, got.Messages, 1)
	assert.Equal(t, Message{Sender: SenderOther, Text: "안녕\n잘 지내?", Name: "민지", Y: 10}, got.Messages[0])
	require.NotNil(t, got.OtherPersonName)
	assert.Equal(t, "민지", *got.OtherPersonName)
	assert.False(t, got.IsGroupChat)
	assert.Equal(t, []string{"민지"}, got.Participants)
}

func TestAttributeKeepsSpeakersApart(t *testing.T) {
	bubbles := []Bubble{
		{Text: "다들 모였어?", Y: 10, SenderName: "민지", IsLeftSide: true},
		{Text: "나 가는 중", Y: 80, SenderName: "준호", IsLeftSide: true},
		{Text: "곧 도착해", Y: 150, SenderName: MeMarker},
		{Text: "빨리 와", Y: 220, SenderName: "준호", IsLeftSide: true},
		{Text: "응응", Y: 290, SenderName: MeMarker},
	}
	got := Attribute(bubbles, RoomTitle{index: -1}, DefaultConfig())

	require.Len(t, got.Messages, 5)
	for i := 1; i < len(got.Messages); i++ {
		prev, cur := got.Messages[i-1], got.Messages[i]
		assert.False(t, prev.Sender == cur.Sender && prev.Name == cur.Name, "adjacent messages from one speaker at %d", i)
	}
	assert.True(t, got.IsGroupChat)
	assert.Equal(t, []string{"민지", "준호"}, got.Participants)
	assert.Equal(t, "민지", *got.OtherPersonName)
}

func TestAttributeGroupChat(t *testing.T) {
	tests := []struct {
		name    string
		bubbles []Bubble
		room    RoomTitle
		group   bool
	}{
		{
			name:    "single speaker",
			bubbles: []Bubble{{Text: "뭐해", SenderName: "민지", IsLeftSide: true}},
			room:    RoomTitle{index: -1},
			group:   false,
		},
		{
			name:    "honorific indicator",
			bubbles: []Bubble{{Text: "민지님 안녕하세요", IsLeftSide: true}},
			room:    RoomTitle{index: -1},
			group:   true,
		},
		{
			name:    "everyone indicator",
			bubbles: []Bubble{{Text: "여러분 공지 확인해주세요", SenderName: MeMarker}},
			room:    RoomTitle{index: -1},
			group:   true,
		},
		{
			name:    "room title with members",
			bubbles: []Bubble{{Text: "뭐해", IsLeftSide: true}},
			room:    RoomTitle{Text: "주말 등산 모임", Members: 5, index: 0},
			group:   true,
		},
		{
			name:    "room of two is not a group",
			bubbles: []Bubble{{Text: "뭐해", IsLeftSide: true}},
			room:    RoomTitle{Text: "우리 둘", Members: 2, index: 0},
			group:   false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Attribute(tc.bubbles, tc.room, DefaultConfig())
			assert.Equal(t, tc.group, got.IsGroupChat)
		})
	}
}

func TestAttributeFallsBackToRoomName(t *testing.T) {
	got := Attribute([]Bubble{{Text: "응", SenderName: MeMarker}}, RoomTitle{Name: "김민지", Text: "김민지", index: 0}, DefaultConfig())
	require.NotNil(t, got.OtherPersonName)
	assert.Equal(t, "김민지", *got.OtherPersonName)
	assert.Equal(t, "김민지", got.RoomTitle)
	assert.Empty(t, got.Participants)
}

func TestAttributeWithoutSpeaker(t *testing.T) {
	got := Attribute([]Bubble{{Text: "ㅎㅎ", IsLeftSide: true}}, RoomTitle{index: -1}, DefaultConfig())
	require.Len(t, got.Messages, 1)
	assert.Equal(t, SenderUnknown, got.Messages[0].Sender)
	assert.Nil(t, got.OtherPersonName)
}

func TestRender(t *testing.T) {
	tr := &Transcript{Messages: []Message{
		{Sender: SenderOther, Name: "민지", Text: "저녁 먹었어?"},
		{Sender: SenderMe, Text: "아직\n너는?"},
		{Sender: SenderUnknown, Text: "ㅎㅎ"},
		{Sender: SenderSystem, Text: "준호님이 입장하셨습니다."},
	}}
	expected := "민지: 저녁 먹었어?\n나: 아직\n너는?\n상대방: ㅎㅎ\n시스템: 준호님이 입장하셨습니다."
	assert.Equal(t, expected, tr.Render())

	var empty *Transcript
	assert.Equal(t, "", empty.Render())
}
