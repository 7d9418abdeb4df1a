package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"text/template"
	"time"

	"chat-ocr/transcript"

	"github.com/Masterminds/sprig/v3"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

const (
	// maxBatchCaptures bounds a single /analyze/batch request.
	maxBatchCaptures = 100
	// maxUploadBytes bounds an uploaded screenshot.
	maxUploadBytes = 20 << 20
)

// getPromptsHandler handles the GET /api/prompts endpoint
func getPromptsHandler(c *gin.Context) {
	templateMutex.RLock()
	defer templateMutex.RUnlock()

	replyTemplateContent, err := os.ReadFile(filepath.Join(promptsDir, "reply_prompt.tmpl"))
	if err != nil {
		replyTemplateContent = []byte(defaultReplyTemplate)
	}

	c.JSON(http.StatusOK, gin.H{
		"reply_template": string(replyTemplateContent),
	})
}

// updatePromptsHandler handles the POST /api/prompts endpoint
func updatePromptsHandler(c *gin.Context) {
	var req struct {
		ReplyTemplate string `json:"reply_template"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}
	if req.ReplyTemplate == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reply_template is required"})
		return
	}

	templateMutex.Lock()
	defer templateMutex.Unlock()

	t, err := template.New("reply").Funcs(sprig.FuncMap()).Parse(req.ReplyTemplate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid reply template: %v", err)})
		return
	}
	replyTemplate = t
	if err := os.WriteFile(filepath.Join(promptsDir, "reply_prompt.tmpl"), []byte(req.ReplyTemplate), 0644); err != nil {
		log.Errorf("Failed to write reply_prompt.tmpl: %v", err)
	}

	c.Status(http.StatusOK)
}

// getSettingsHandler handles the GET /api/settings endpoint
func getSettingsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, currentSettings())
}

// updateSettingsHandler handles the PATCH /api/settings endpoint. Fields left
// out of the body keep their current value; the engine is rebuilt afterwards.
func (app *App) updateSettingsHandler(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil || len(bytes.TrimSpace(body)) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	updated, err := applySettingsPatch(body)
	if err != nil {
		log.Errorf("Failed to update settings: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Failed to update settings: %v", err)})
		return
	}

	app.setEngine(transcript.New(updated.Engine))
	log.Info("Settings updated, engine rebuilt")
	c.JSON(http.StatusOK, updated)
}

// analyzeHandler handles the POST /api/analyze endpoint
func (app *App) analyzeHandler(c *gin.Context) {
	var capture transcript.Capture
	if err := c.ShouldBindJSON(&capture); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	c.JSON(http.StatusOK, app.Engine().Analyze(capture))
}

// analyzeBatchHandler handles the POST /api/analyze/batch endpoint. Captures
// are independent and analyzed concurrently; results keep the request order.
func (app *App) analyzeBatchHandler(c *gin.Context) {
	var req AnalyzeBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}
	if len(req.Captures) > maxBatchCaptures {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("At most %d captures per batch", maxBatchCaptures)})
		return
	}

	engine := app.Engine()
	results := make([]*transcript.OcrAnalysis, len(req.Captures))

	g, ctx := errgroup.WithContext(c.Request.Context())
	g.SetLimit(8)
	for i, capture := range req.Captures {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = engine.Analyze(capture)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Errorf("Batch analysis aborted: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Batch analysis aborted: %v", err)})
		return
	}

	c.JSON(http.StatusOK, AnalyzeBatchResponse{Results: results})
}

// submitCaptureJobHandler handles the POST /api/captures endpoint
func (app *App) submitCaptureJobHandler(c *gin.Context) {
	if app.OCR == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "OCR provider not configured"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing file"})
		return
	}
	if fileHeader.Size > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File too large"})
		return
	}

	barHeight := currentSettings().StatusBarHeight
	if v := c.PostForm("status_bar_height"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status_bar_height"})
			return
		}
		barHeight = parsed
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return
	}

	image, mimeType, err := prepareCaptureImage(data, barHeight)
	if err != nil {
		if errors.Is(err, errUnsupportedMedia) {
			c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	job := &CaptureJob{
		ID:              generateJobID(),
		Status:          jobStatusPending,
		Image:           image,
		MimeType:        mimeType,
		StatusBarHeight: barHeight,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}

	jobStore.addJob(job)
	select {
	case jobQueue <- job:
	default:
		jobStore.updateJobStatus(job.ID, jobStatusFailed, "job queue is full")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Job queue is full"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"job_id": job.ID})
}

// getCaptureJobHandler handles the GET /api/captures/:job_id endpoint
func (app *App) getCaptureJobHandler(c *gin.Context) {
	jobID := c.Param("job_id")

	job, exists := jobStore.getJob(jobID)
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}

	c.JSON(http.StatusOK, jobResponse(job))
}

// getAllCaptureJobsHandler handles the GET /api/captures endpoint
func (app *App) getAllCaptureJobsHandler(c *gin.Context) {
	jobs := jobStore.GetAllJobs()

	jobList := make([]gin.H, 0, len(jobs))
	for _, job := range jobs {
		jobList = append(jobList, jobResponse(job))
	}

	c.JSON(http.StatusOK, jobList)
}

func jobResponse(job CaptureJob) gin.H {
	response := gin.H{
		"job_id":            job.ID,
		"status":            job.Status,
		"created_at":        job.CreatedAt,
		"updated_at":        job.UpdatedAt,
		"mime_type":         job.MimeType,
		"status_bar_height": job.StatusBarHeight,
	}
	switch job.Status {
	case jobStatusCompleted:
		response["analysis"] = job.Analysis
	case jobStatusFailed:
		response["error"] = job.Error
	}
	return response
}

// replyRequestHandler handles the POST /api/reply-request endpoint. It builds
// the reply-generation payload the client sends on; nothing leaves this server.
func (app *App) replyRequestHandler(c *gin.Context) {
	var req ReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}
	if (req.Analysis == nil) == (req.Capture == nil) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Exactly one of analysis or capture is required"})
		return
	}

	analysis := req.Analysis
	if req.Capture != nil {
		analysis = app.Engine().Analyze(*req.Capture)
	}

	payload, err := buildReplyPayload(analysis)
	if err != nil {
		log.Errorf("Failed to build reply request: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to build reply request: %v", err)})
		return
	}

	c.JSON(http.StatusOK, payload)
}

// buildReplyPayload renders the reply prompt for analysis, cutting the oldest
// messages when the conversation would not fit REPLY_TOKEN_LIMIT.
func buildReplyPayload(analysis *transcript.OcrAnalysis) (*ReplyGenerationPayload, error) {
	templateMutex.RLock()
	defer templateMutex.RUnlock()

	var (
		otherPersonName *string
		isGroupChat     bool
		participants    []string
	)
	if chat := analysis.ChatAnalysis; chat != nil {
		otherPersonName = chat.OtherPersonName
		isGroupChat = chat.IsGroupChat
		participants = chat.Participants
	}
	suggestions := analysis.Suggestions
	if suggestions == nil {
		suggestions = []string{}
	}
	name := ""
	if otherPersonName != nil {
		name = *otherPersonName
	}

	data := map[string]interface{}{
		"IsGroupChat":     isGroupChat,
		"Participants":    participants,
		"OtherPersonName": name,
		"TextType":        string(analysis.TextType),
		"Language":        analysis.Language,
		"Suggestions":     suggestions,
	}

	availableTokens, err := getAvailableTokensForContent(replyTemplate, data)
	if err != nil {
		return nil, fmt.Errorf("error calculating available tokens: %w", err)
	}
	content, truncated := truncateConversationByTokens(analysis.OriginalText, availableTokens)
	if truncated {
		log.Debugf("Conversation truncated to fit %d tokens", availableTokens)
	}
	data["Content"] = content

	var promptBuffer bytes.Buffer
	if err := replyTemplate.Execute(&promptBuffer, data); err != nil {
		return nil, fmt.Errorf("error executing reply template: %w", err)
	}

	return &ReplyGenerationPayload{
		ConversationContent: content,
		Prompt:              promptBuffer.String(),
		TextType:            string(analysis.TextType),
		IsGroupChat:         isGroupChat,
		OtherPersonName:     otherPersonName,
		Suggestions:         suggestions,
		Truncated:           truncated,
	}, nil
}
