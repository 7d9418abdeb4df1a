package transcript

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNoise(t *testing.T) {
	c := NewClassifier(DefaultConfig())
	tests := []struct {
		text  string
		noise bool
	}{
		{"오후 3:15", true},
		{"9:05", true},
		{"10:30 PM", true},
		{"오전 9시 5분", true},
		{"2024년 3월 5일 화요일", true},
		{"3월 5일", true},
		{"2024.03.05", true},
		{"Yesterday", true},
		{"12", true},
		{"+", true},
		{"ㅋ", true},
		{"전송", true},
		{"나", true},
		{"상대방:", true},
		{"나: 상대방", true},
		{"", true},
		{"네", false},
		{"ㅋㅋ", false},
		{"저녁 먹었어?", false},
		{"3시에 보자", false},
		{"나 지금 가", false},
	}

	for _, tc := range tests {
		t.Run(tc.text, func(t *testing.T) {
			assert.Equal(t, tc.noise, c.IsNoise(tc.text))
		})
	}
}

func TestClassifyRole(t *testing.T) {
	c := NewClassifier(DefaultConfig())
	tests := []struct {
		text string
		role Role
	}{
		{"민지", RoleNameCandidate},
		{"김민지", RoleNameCandidate},
		{"하은", RoleNameCandidate},
		{"Alice", RoleNameCandidate},
		{"Alice Kim", RoleNameCandidate},
		{"안녕", RoleMessage},
		{"Hello", RoleMessage},
		{"먹었어요", RoleMessage},
		{"민지는", RoleMessage},
		{"저는", RoleMessage},
		{"너는", RoleMessage},
		{"나는", RoleMessage},
		{"뭐를", RoleMessage},
		{"집에", RoleMessage},
		{"지아", RoleNameCandidate},
		{"저녁 먹었어?", RoleMessage},
		{"오후 3:15", RoleNoise},
	}

	for _, tc := range tests {
		t.Run(tc.text, func(t *testing.T) {
			got := c.Classify(TextBlock{Text: tc.text, Box: Rect{10, 10, 200, 60}}, 1080)
			assert.Equal(t, tc.role, got.Role)
		})
	}
}

func TestClassifyGeometry(t *testing.T) {
	c := NewClassifier(DefaultConfig())

	t.Run("centre at 90% of width is right side", func(t *testing.T) {
		got := c.Classify(TextBlock{Text: "응", Box: Rect{850, 100, 950, 160}}, 1000)
		assert.False(t, got.IsLeftSide)
	})

	t.Run("centre left of middle is left side", func(t *testing.T) {
		got := c.Classify(TextBlock{Text: "응", Box: Rect{20, 100, 300, 160}}, 1000)
		assert.True(t, got.IsLeftSide)
	})

	t.Run("provider line height decides small font", func(t *testing.T) {
		got := c.Classify(TextBlock{Text: "민지", Box: Rect{20, 100, 120, 200}, AvgLineHeight: 30}, 1000)
		assert.True(t, got.IsSmallFont)
	})

	t.Run("box height per line is the fallback", func(t *testing.T) {
		got := c.Classify(TextBlock{Text: "첫 줄\n둘째 줄", Box: Rect{20, 100, 300, 200}}, 1000)
		assert.False(t, got.IsSmallFont)
		got = c.Classify(TextBlock{Text: "첫 줄\n둘째 줄", Box: Rect{20, 100, 300, 160}}, 1000)
		assert.True(t, got.IsSmallFont)
	})
}

func TestNameScore(t *testing.T) {
	c := NewClassifier(DefaultConfig())
	tests := []struct {
		name  string
		text  string
		small bool
		score float64
	}{
		{"surname two syllables", "민지", false, 0.75},
		{"surname two syllables small", "민지", true, 0.85},
		{"full name", "김민지", false, 0.9},
		{"full name small is capped", "김민지", true, 1.0},
		{"no surname", "하은", false, 0.75},
		{"given name without surname", "아린", false, 0.5},
		{"latin single", "Alice", false, 0.5},
		{"latin full", "Alice Kim", false, 0.75},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.score, c.nameScore(tc.text, tc.small), 1e-9)
		})
	}
}
