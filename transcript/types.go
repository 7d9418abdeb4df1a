package transcript

import (
	"encoding/json"
	"strings"
)

// Rect is a pixel rectangle in the cropped capture's coordinate space.
type Rect struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

func (r Rect) Width() int  { return r.Right - r.Left }
func (r Rect) Height() int { return r.Bottom - r.Top }

// CenterX returns the horizontal centre of the rectangle.
func (r Rect) CenterX() float64 { return float64(r.Left+r.Right) / 2 }

// IsEmpty reports whether the rectangle has no area.
func (r Rect) IsEmpty() bool { return r.Width() <= 0 || r.Height() <= 0 }

// TextBlock is one OCR-recognized unit of text as delivered by the OCR provider.
type TextBlock struct {
	Text               string    `json:"text"`
	Box                Rect      `json:"box"`
	AvgLineHeight      float64   `json:"avgLineHeight"`
	ElementConfidences []float64 `json:"elementConfidences"`
}

// Role is the classifier's verdict for a single block.
type Role string

const (
	RoleNameCandidate Role = "NAME_CANDIDATE"
	RoleMessage       Role = "MESSAGE"
	RoleNoise         Role = "NOISE"
)

// ClassifiedBlock is a TextBlock labelled by the Classifier.
type ClassifiedBlock struct {
	TextBlock
	Role        Role    `json:"role"`
	IsLeftSide  bool    `json:"isLeftSide"`
	IsSmallFont bool    `json:"isSmallFont"`
	NameScore   float64 `json:"nameScore,omitempty"`
}

// Bubble is a provisional speech unit before sender resolution and merging.
// SenderName is empty when no speaker could be established.
type Bubble struct {
	Text       string `json:"text"`
	Y          int    `json:"y"`
	SenderName string `json:"senderName,omitempty"`
	IsLeftSide bool   `json:"isLeftSide"`
}

// Sender identifies who wrote a Message.
type Sender string

const (
	SenderMe      Sender = "ME"
	SenderOther   Sender = "OTHER"
	SenderUnknown Sender = "UNKNOWN"
	SenderSystem  Sender = "SYSTEM"
)

// Message is a merged, sender-attributed speech unit. Consecutive bubbles
// merge when both Sender and Name match, so two OTHER messages can be
// adjacent when they come from differently named speakers.
type Message struct {
	Sender Sender `json:"sender"`
	Text   string `json:"text"`
	// Name is the OTHER speaker's name; empty for every other sender.
	Name string `json:"name,omitempty"`
	Y    int    `json:"y"`
}

// Transcript is the ordered conversation reconstructed from one capture.
// Adjacent messages never share the same (Sender, Name) pair; in a group
// room two OTHER messages in a row belong to different people.
type Transcript struct {
	Messages        []Message `json:"messages"`
	OtherPersonName *string   `json:"otherPersonName"`
	IsGroupChat     bool      `json:"isGroupChat"`
	Participants    []string  `json:"participants"`
	RoomTitle       string    `json:"roomTitle,omitempty"`
}

// LastMessage returns the bottom-most message, or nil for an empty transcript.
func (t *Transcript) LastMessage() *Message {
	if t == nil || len(t.Messages) == 0 {
		return nil
	}
	return &t.Messages[len(t.Messages)-1]
}

// Body joins the message texts without sender labels.
func (t *Transcript) Body() string {
	if t == nil {
		return ""
	}
	parts := make([]string, 0, len(t.Messages))
	for _, m := range t.Messages {
		parts = append(parts, m.Text)
	}
	return strings.Join(parts, "\n")
}

// EntityType is the kind of a TextEntity.
type EntityType string

const (
	EntityEmail   EntityType = "EMAIL"
	EntityPhone   EntityType = "PHONE"
	EntityURL     EntityType = "URL"
	EntityHashtag EntityType = "HASHTAG"
	EntityMention EntityType = "MENTION"
	EntityMoney   EntityType = "MONEY"
)

// TextEntity is a span of the transcript recognized by the entity extractor.
// StartIndex and EndIndex are rune offsets, EndIndex exclusive.
type TextEntity struct {
	Text       string     `json:"text"`
	Type       EntityType `json:"type"`
	StartIndex int        `json:"startIndex"`
	EndIndex   int        `json:"endIndex"`
}

// TextType is the coarse category of the text a reply is suggested for.
type TextType string

const (
	TextTypeQuestion    TextType = "QUESTION"
	TextTypeURL         TextType = "URL"
	TextTypePhoneNumber TextType = "PHONE_NUMBER"
	TextTypeEmail       TextType = "EMAIL"
	TextTypeDateTime    TextType = "DATE_TIME"
	TextTypeNumber      TextType = "NUMBER"
	TextTypeCode        TextType = "CODE"
	TextTypeMessage     TextType = "MESSAGE"
	TextTypeGeneral     TextType = "GENERAL_TEXT"
)

// OcrAnalysis is the engine's final output for one capture.
type OcrAnalysis struct {
	OriginalText string       `json:"originalText"`
	TextType     TextType     `json:"textType"`
	Confidence   float64      `json:"confidence"`
	Language     string       `json:"language"`
	Suggestions  []string     `json:"suggestions"`
	Keywords     []string     `json:"keywords"`
	Entities     []TextEntity `json:"entities"`
	ChatAnalysis *Transcript  `json:"chatAnalysis"`
}

// MarshalJSON keeps empty collections as [] so clients never see null lists.
func (a OcrAnalysis) MarshalJSON() ([]byte, error) {
	type plain OcrAnalysis
	p := plain(a)
	if p.Suggestions == nil {
		p.Suggestions = []string{}
	}
	if p.Keywords == nil {
		p.Keywords = []string{}
	}
	if p.Entities == nil {
		p.Entities = []TextEntity{}
	}
	return json.Marshal(p)
}

// Capture is one engine invocation: the OCR provider's blocks plus screen geometry.
type Capture struct {
	Blocks                []TextBlock `json:"blocks"`
	ScreenWidth           int         `json:"screenWidth"`
	ScreenHeight          int         `json:"screenHeight"`
	ExcludedTopBandHeight int         `json:"excludedTopBandHeight"`
}
