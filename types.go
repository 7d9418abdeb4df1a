package main

import (
	"time"

	"chat-ocr/transcript"
)

// AnalyzeBatchRequest is the request payload for /analyze/batch endpoint
type AnalyzeBatchRequest struct {
	Captures []transcript.Capture `json:"captures"`
}

// AnalyzeBatchResponse keeps the results in the order of the submitted captures
type AnalyzeBatchResponse struct {
	Results []*transcript.OcrAnalysis `json:"results"`
}

// ReplyRequest is the request payload for /reply-request endpoint.
// Exactly one of Analysis or Capture must be set; a capture is analyzed first.
type ReplyRequest struct {
	Analysis *transcript.OcrAnalysis `json:"analysis,omitempty"`
	Capture  *transcript.Capture     `json:"capture,omitempty"`
}

// ReplyGenerationPayload is the body the client forwards to the reply-generation service.
// It is built here but never sent by this server.
type ReplyGenerationPayload struct {
	ConversationContent string   `json:"conversation_content"`
	Prompt              string   `json:"prompt"`
	TextType            string   `json:"text_type"`
	IsGroupChat         bool     `json:"is_group_chat"`
	OtherPersonName     *string  `json:"other_person_name"`
	Suggestions         []string `json:"suggestions"`
	Truncated           bool     `json:"truncated"`
}

// Settings defines the server-side engine tuning overrides stored in settings.json
type Settings struct {
	Engine          transcript.Config `json:"engine"`
	StatusBarHeight int               `json:"status_bar_height"` // default crop for uploads without status_bar_height
}

// CaptureJob represents an uploaded screenshot waiting for OCR and analysis
type CaptureJob struct {
	ID              string
	Status          string // "pending", "in_progress", "completed", "failed"
	Error           string
	Image           []byte // cropped image handed to the OCR provider
	MimeType        string
	StatusBarHeight int
	Analysis        *transcript.OcrAnalysis
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

const (
	jobStatusPending    = "pending"
	jobStatusInProgress = "in_progress"
	jobStatusCompleted  = "completed"
	jobStatusFailed     = "failed"
)
