package transcript

import (
	"regexp"
	"strings"
)

// System notices are attributed to SYSTEM wherever they appear on screen.
var systemNoticePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:입장|퇴장)(?:하셨습니다|했습니다|하였습니다|합니다)`),
	regexp.MustCompile(`초대(?:하셨습니다|했습니다|하였습니다|되었습니다|됐습니다)`),
	regexp.MustCompile(`님이\s*(?:입장|퇴장)`),
	regexp.MustCompile(`(?:나갔습니다|들어왔습니다)\.?$`),
	regexp.MustCompile(`^삭제된 메시지입니다\.?$`),
}

// IsSystemNotice reports whether text is a room event rather than a message.
func IsSystemNotice(text string) bool {
	for _, re := range systemNoticePatterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// ResolveSender maps one bubble to its sender and, for OTHER, the speaker name.
func ResolveSender(b Bubble) (Sender, string) {
	switch {
	case IsSystemNotice(b.Text):
		return SenderSystem, ""
	case !b.IsLeftSide:
		return SenderMe, ""
	case b.SenderName != "":
		return SenderOther, b.SenderName
	default:
		return SenderUnknown, ""
	}
}

// Attribute resolves every bubble's sender, merges consecutive bubbles from the
// same speaker with a newline and derives the group-chat flag and participants.
// Two adjacent OTHER messages are kept apart only when their names differ.
func Attribute(bubbles []Bubble, room RoomTitle, cfg Config) Transcript {
	cfg = cfg.withDefaults()
	t := Transcript{
		Messages:     make([]Message, 0, len(bubbles)),
		Participants: make([]string, 0),
		RoomTitle:    room.Text,
	}
	seen := make(map[string]struct{})

	for _, b := range bubbles {
		text := strings.TrimSpace(b.Text)
		if text == "" {
			continue
		}
		sender, name := ResolveSender(b)
		if name != "" && name == text {
			continue
		}
		if sender == SenderOther {
			if _, ok := seen[name]; !ok {
				seen[name] = struct{}{}
				t.Participants = append(t.Participants, name)
			}
			if t.OtherPersonName == nil {
				n := name
				t.OtherPersonName = &n
			}
		}
		if n := len(t.Messages); n > 0 && t.Messages[n-1].Sender == sender && t.Messages[n-1].Name == name {
			t.Messages[n-1].Text += "\n" + text
			continue
		}
		t.Messages = append(t.Messages, Message{Sender: sender, Text: text, Name: name, Y: b.Y})
	}

	if t.OtherPersonName == nil && room.Name != "" {
		n := room.Name
		t.OtherPersonName = &n
	}
	t.IsGroupChat = len(t.Participants) >= 2 || room.Members > 2 || containsGroupIndicator(t.Messages, cfg.GroupIndicators)
	return t
}

func containsGroupIndicator(messages []Message, indicators []string) bool {
	for _, m := range messages {
		for _, ind := range indicators {
			if ind != "" && strings.Contains(m.Text, ind) {
				return true
			}
		}
	}
	return false
}

// Render produces the transcript string handed to the reply service: one
// "<label>: <text>" group per message in screen order.
func (t *Transcript) Render() string {
	if t == nil || len(t.Messages) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, m := range t.Messages {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(m.Label())
		sb.WriteString(": ")
		sb.WriteString(m.Text)
	}
	return sb.String()
}

// Label is the speaker label used when rendering the message.
func (m Message) Label() string {
	switch m.Sender {
	case SenderMe:
		return MeMarker
	case SenderSystem:
		return SystemLabel
	case SenderOther:
		if m.Name != "" {
			return m.Name
		}
	}
	return OtherLabel
}
