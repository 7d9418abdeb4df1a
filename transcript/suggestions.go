package transcript

import (
	"bytes"
	"regexp"
	"strings"
	"text/template"
	"unicode/utf8"

	"github.com/Masterminds/sprig/v3"
)

// SuggestionInput is everything the suggestion tables are keyed and
// interpolated on.
type SuggestionInput struct {
	TextType        TextType
	Sender          Sender
	IsGroupChat     bool
	OtherPersonName string
	TimeInfo        string
}

// suggestionData is what the templates see.
type suggestionData struct {
	SenderPrefix    string
	OtherPersonName string
	TimeInfo        string
}

type suggestionKey struct {
	typ   TextType
	group bool
}

// Replies to OTHER or UNKNOWN in a one-to-one room.
var directTemplates = map[TextType][]string{
	TextTypeQuestion: {
		"{{.SenderPrefix}}잠깐만, 생각해보고 알려줄게!",
		"음.. 나도 잘 모르겠어 ㅎㅎ",
		"응 맞아!",
		"아니 그건 아닌 것 같아",
		"나중에 자세히 얘기해줄게",
	},
	TextTypeURL: {
		"링크 고마워! 확인해볼게",
		"오 이거 뭐야? 지금 볼게",
		"{{.SenderPrefix}}나중에 꼭 볼게!",
	},
	TextTypePhoneNumber: {
		"번호 저장했어!",
		"고마워, 이따 연락해볼게",
		"이 번호로 전화하면 돼?",
	},
	TextTypeEmail: {
		"메일 주소 고마워!",
		"확인하고 메일 보낼게",
		"이 주소로 보내면 되지?",
	},
	TextTypeDateTime: {
		"{{if .TimeInfo}}{{.TimeInfo}} 좋아!{{else}}그때 좋아!{{end}}",
		"{{if .TimeInfo}}{{.TimeInfo}}에 봐!{{else}}시간 맞춰볼게!{{end}}",
		"일정 확인해보고 알려줄게",
		"혹시 시간 조금 바꿀 수 있어?",
	},
	TextTypeNumber: {
		"알겠어, 확인했어!",
		"숫자 맞는지 다시 볼게",
		"오케이 👍",
	},
	TextTypeCode: {
		"코드 고마워! 돌려볼게",
		"이 부분 설명 좀 해줄 수 있어?",
		"확인해보고 피드백 줄게",
	},
	TextTypeMessage: {
		"ㅋㅋㅋㅋ",
		"{{.SenderPrefix}}반가워!",
		"나도 고마워 ㅎㅎ",
		"요즘 어떻게 지내?",
	},
	TextTypeGeneral: {
		"그렇구나!",
		"{{.SenderPrefix}}알겠어 ㅎㅎ",
		"오 진짜?",
		"좋아!",
	},
}

// Replies in a group room are polite and address the speaker by name.
var groupTemplates = map[TextType][]string{
	TextTypeQuestion: {
		"{{.SenderPrefix}}확인해보고 말씀드릴게요!",
		"저도 궁금했어요 ㅎㅎ",
		"{{.SenderPrefix}}좋은 질문이에요!",
	},
	TextTypeURL: {
		"{{.SenderPrefix}}공유 감사합니다!",
		"링크 확인해볼게요",
	},
	TextTypePhoneNumber: {
		"{{.SenderPrefix}}번호 저장했습니다!",
		"연락드릴게요",
	},
	TextTypeEmail: {
		"{{.SenderPrefix}}메일 확인하겠습니다",
		"해당 주소로 보내드릴게요",
	},
	TextTypeDateTime: {
		"{{if .TimeInfo}}{{.TimeInfo}} 괜찮습니다!{{else}}그 시간 괜찮습니다!{{end}}",
		"{{.SenderPrefix}}일정 확인해볼게요",
		"참석 가능합니다 🙋",
	},
	TextTypeNumber: {
		"{{.SenderPrefix}}확인했습니다!",
		"숫자 다시 한번 볼게요",
	},
	TextTypeCode: {
		"{{.SenderPrefix}}공유 감사합니다, 리뷰해볼게요",
		"로컬에서 돌려보겠습니다",
	},
	TextTypeMessage: {
		"{{.SenderPrefix}}안녕하세요!",
		"ㅎㅎㅎ",
		"다들 좋은 하루 보내세요!",
	},
	TextTypeGeneral: {
		"{{.SenderPrefix}}넵 알겠습니다!",
		"좋아요 👍",
		"확인했습니다",
	},
}

// Follow-ups when the last message on screen is the user's own.
var followUpTemplates = []string{
	"{{if .OtherPersonName}}{{.OtherPersonName | trunc 10}}, {{end}}혹시 확인했어?",
	"답장 기다릴게!",
	"{{if .TimeInfo}}{{.TimeInfo}} 괜찮은지 알려줘{{else}}편할 때 알려줘{{end}}",
	"바쁘면 나중에 얘기해도 돼",
}

// Replies to room events.
var systemTemplates = []string{
	"환영합니다! 👋",
	"반가워요!",
	"{{if .OtherPersonName}}{{.OtherPersonName}}님 {{end}}잘 부탁드려요",
}

var (
	compiledDirect   = compileTable(directTemplates)
	compiledGroup    = compileTable(groupTemplates)
	compiledFollowUp = compileList("followup", followUpTemplates)
	compiledSystem   = compileList("system", systemTemplates)
)

func compileTable(table map[TextType][]string) map[TextType][]*template.Template {
	out := make(map[TextType][]*template.Template, len(table))
	for typ, list := range table {
		out[typ] = compileList(string(typ), list)
	}
	return out
}

func compileList(name string, list []string) []*template.Template {
	out := make([]*template.Template, 0, len(list))
	for _, src := range list {
		out = append(out, template.Must(template.New(name).Funcs(sprig.TxtFuncMap()).Parse(src)))
	}
	return out
}

// GenerateSuggestions returns up to limit canned replies for the focus
// message. The result is deterministic for a given input and never contains
// duplicates or empty strings.
func GenerateSuggestions(in SuggestionInput, limit int) []string {
	if limit <= 0 || limit > MaxSuggestions {
		limit = MaxSuggestions
	}
	data := suggestionData{
		SenderPrefix:    senderPrefix(in),
		OtherPersonName: in.OtherPersonName,
		TimeInfo:        in.TimeInfo,
	}

	out := make([]string, 0, limit)
	seen := make(map[string]struct{}, limit)
	for _, tmpl := range templatesFor(in) {
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			log.WithError(err).Debug("Skipping suggestion template")
			continue
		}
		s := strings.TrimSpace(buf.String())
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
		if len(out) == limit {
			break
		}
	}
	return out
}

func templatesFor(in SuggestionInput) []*template.Template {
	switch in.Sender {
	case SenderMe:
		return compiledFollowUp
	case SenderSystem:
		return compiledSystem
	}
	table := compiledDirect
	if in.IsGroupChat {
		table = compiledGroup
	}
	if list, ok := table[in.TextType]; ok {
		return list
	}
	return table[TextTypeGeneral]
}

// senderPrefix addresses the speaker: "민지님, " in a group room, "민지야, "
// one-to-one. Empty when the speaker is not an identified OTHER.
func senderPrefix(in SuggestionInput) string {
	if in.Sender != SenderOther || in.OtherPersonName == "" {
		return ""
	}
	if in.IsGroupChat {
		return in.OtherPersonName + "님, "
	}
	return vocative(in.OtherPersonName) + ", "
}

// vocative appends 아 or 야 to a Hangul name depending on its final consonant.
func vocative(name string) string {
	r, _ := utf8.DecodeLastRuneInString(name)
	if !isHangulSyllable(r) {
		return name
	}
	if (r-0xAC00)%28 != 0 {
		return name + "아"
	}
	return name + "야"
}

var timeInfoPattern = regexp.MustCompile(`(?:(?:오늘|내일|모레|이번\s*주|다음\s*주)\s*)?(?:(?:오전|오후|저녁|아침|밤)\s*)?\d{1,2}(?::\d{2}|시(?:\s*\d{1,2}분|\s*반)?)|(?:오늘|내일|모레)\s*(?:오전|오후|저녁|아침|밤|점심)?|\d{1,2}월\s*\d{1,2}일|(?i:\d{1,2}(?::\d{2})?\s*[ap]m)`)

// ExtractTimeInfo returns the first time or date phrase in text, or "".
func ExtractTimeInfo(text string) string {
	return strings.TrimSpace(timeInfoPattern.FindString(text))
}
