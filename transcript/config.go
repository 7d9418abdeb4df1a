package transcript

// Tuning defaults. The pixel thresholds were tuned against a single messenger
// layout at typical phone densities and have no labelled calibration set behind
// them; override them through Config rather than editing the logic.
const (
	// DefaultNameGap is the largest top-to-top distance, in pixels, between a
	// name label and the message block it introduces.
	DefaultNameGap = 100
	// DefaultSmallFontHeight is the average line height, in pixels, below which
	// a block counts as small print (name labels, timestamps).
	DefaultSmallFontHeight = 40.0
	// DefaultConfidence is reported when the OCR provider supplied no
	// element confidences at all.
	DefaultConfidence = 0.5
	// DefaultTitleStripHeight is the height of the band at the top of the
	// cropped capture searched for the chat-room title.
	DefaultTitleStripHeight = 160
	// DefaultMinNameScore is the name score a block needs to count as a
	// chat-room title.
	DefaultMinNameScore = 0.7
	// MaxKeywords bounds the keyword list.
	MaxKeywords = 5
	// MaxSuggestions bounds the suggestion list.
	MaxSuggestions = 5
	// MaxEchoLength bounds the rune length of a sender-echo noise block.
	MaxEchoLength = 12
)

// Labels used for the local user when rendering and assembling a transcript.
const (
	MeMarker      = "나"
	OtherLabel    = "상대방"
	SystemLabel   = "시스템"
	languageKo    = "ko"
	languageEn    = "en"
	languageMixed = "mixed"
	languageNone  = "unknown"
)

// Config carries every tunable threshold and vocabulary of the engine.
// The zero value is not useful; start from DefaultConfig.
type Config struct {
	NameGap           int      `json:"nameGap"`
	SmallFontHeight   float64  `json:"smallFontHeight"`
	DefaultConfidence float64  `json:"defaultConfidence"`
	TitleStripHeight  int      `json:"titleStripHeight"`
	MinNameScore      float64  `json:"minNameScore"`
	MaxKeywords       int      `json:"maxKeywords"`
	MaxSuggestions    int      `json:"maxSuggestions"`
	UIGlyphs          []string `json:"uiGlyphs"`
	CommonWords       []string `json:"commonWords"`
	Surnames          string   `json:"surnames"`
	Stopwords         []string `json:"stopwords"`
	GroupIndicators   []string `json:"groupIndicators"`
}

// DefaultConfig returns the configuration the engine was tuned with.
func DefaultConfig() Config {
	return Config{
		NameGap:           DefaultNameGap,
		SmallFontHeight:   DefaultSmallFontHeight,
		DefaultConfidence: DefaultConfidence,
		TitleStripHeight:  DefaultTitleStripHeight,
		MinNameScore:      DefaultMinNameScore,
		MaxKeywords:       MaxKeywords,
		MaxSuggestions:    MaxSuggestions,
		UIGlyphs:          append([]string(nil), defaultUIGlyphs...),
		CommonWords:       append([]string(nil), defaultCommonWords...),
		Surnames:          defaultSurnames,
		Stopwords:         append([]string(nil), defaultStopwords...),
		GroupIndicators:   append([]string(nil), defaultGroupIndicators...),
	}
}

// withDefaults fills unset numeric fields so a partially populated Config
// (for instance one decoded from a settings file) still behaves.
func (c Config) withDefaults() Config {
	if c.NameGap <= 0 {
		c.NameGap = DefaultNameGap
	}
	if c.SmallFontHeight <= 0 {
		c.SmallFontHeight = DefaultSmallFontHeight
	}
	if c.DefaultConfidence <= 0 || c.DefaultConfidence > 1 {
		c.DefaultConfidence = DefaultConfidence
	}
	if c.TitleStripHeight < 0 {
		c.TitleStripHeight = DefaultTitleStripHeight
	}
	if c.MinNameScore <= 0 {
		c.MinNameScore = DefaultMinNameScore
	}
	if c.MaxKeywords <= 0 {
		c.MaxKeywords = MaxKeywords
	}
	if c.MaxSuggestions <= 0 || c.MaxSuggestions > MaxSuggestions {
		c.MaxSuggestions = MaxSuggestions
	}
	if c.UIGlyphs == nil {
		c.UIGlyphs = defaultUIGlyphs
	}
	if c.CommonWords == nil {
		c.CommonWords = defaultCommonWords
	}
	if c.Surnames == "" {
		c.Surnames = defaultSurnames
	}
	if c.Stopwords == nil {
		c.Stopwords = defaultStopwords
	}
	if c.GroupIndicators == nil {
		c.GroupIndicators = defaultGroupIndicators
	}
	return c
}

var defaultUIGlyphs = []string{
	"+", "#", "<", ">", "←", "→", "≡", "☰", "⋮", "…", "...", "○", "●", "☆", "★", "♡", "♥", "@",
	"전송", "검색", "메뉴", "사진", "카메라", "이모티콘", "샵검색", "답장", "복사", "삭제", "공유",
	"더보기", "읽음", "안읽음", "통화", "보이스톡", "페이스톡", "선물하기", "송금", "파일", "앨범",
	"메시지 입력", "메시지를 입력하세요", "Send", "send", "Search", "Reply", "Copy", "Delete",
}

var defaultCommonWords = []string{
	"안녕", "네네", "넵넵", "응응", "감사", "고마워", "미안", "죄송", "그래", "좋아", "싫어", "맞아",
	"아니", "아냐", "오늘", "내일", "어제", "지금", "나중", "진짜", "정말", "대박", "완전", "그냥",
	"우리", "나도", "저도", "너도", "수고", "화이팅", "파이팅", "축하", "출근", "퇴근", "점심", "저녁",
	"아침", "주말", "사진", "동영상", "이모티콘", "보이스톡", "페이스톡", "메시지", "삭제된", "알림",
	"채팅", "친구", "그럼", "근데", "그리고", "하지만", "그래서", "어디", "뭐해", "언제", "누구",
	"Hello", "Hi", "Hey", "Thanks", "Thank", "Okay", "Yes", "Sure", "Good", "Great", "Nice", "Sorry",
	"Today", "Tomorrow", "Photo", "Video", "Message", "Reply",
}

// Common Korean surnames; a leading surname raises the name score.
const defaultSurnames = "김이박최정강조윤장임한오서신권황안송류유홍전고문양손배백허남심노하곽성차주우구민진나지엄채원천방공현함변염여추도소석선설마길연위표명기반왕금옥육인맹제모탁국어은편용예경봉사부가복태목형피두감음빈동온호범좌"

var defaultStopwords = []string{
	"은", "는", "이", "가", "을", "를", "에", "의", "도", "로", "와", "과", "나", "너", "저",
	"그", "이거", "그거", "저거", "이건", "그건", "그리고", "그래서", "하지만", "근데", "그냥",
	"너무", "진짜", "정말", "완전", "좀", "잘", "더", "또", "다", "안", "못", "수", "것", "거",
	"네", "응", "예", "아", "오", "음", "the", "a", "an", "and", "or", "but", "is", "are", "to",
	"of", "in", "on", "for", "it", "i", "you", "me", "my", "at", "be", "so",
}

var defaultGroupIndicators = []string{"님", "단체", "여러분"}
