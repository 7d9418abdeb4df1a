package main

import (
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"text/template"

	"chat-ocr/ocr"
	"chat-ocr/transcript"

	"github.com/Masterminds/sprig/v3"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Global Variables and Constants
var (

	// Logger
	log = logrus.New()

	// Environment Variables
	listenAddress        = os.Getenv("LISTEN_ADDRESS")
	logLevel             = strings.ToLower(os.Getenv("LOG_LEVEL"))
	ocrProvider          = os.Getenv("OCR_PROVIDER")
	iosOCRServerURL      = os.Getenv("IOS_OCR_SERVER_URL")
	iosOCRServerToken    = os.Getenv("IOS_OCR_SERVER_TOKEN")
	tesseractLanguages   = os.Getenv("TESSERACT_LANGUAGES")
	replyModel           = os.Getenv("REPLY_MODEL")
	ocrRequestsPerMinute = envFloat("OCR_REQUESTS_PER_MINUTE", 0)
	ocrMaxRetries        = envInt("OCR_MAX_RETRIES", 0)
	statusBarHeight      = envInt("STATUS_BAR_HEIGHT", 0)
	replyTokenLimit      = envInt("REPLY_TOKEN_LIMIT", 0)
	captureWorkers       = envInt("CAPTURE_WORKERS", 2)

	// Templates
	replyTemplate *template.Template
	templateMutex sync.RWMutex

	// Default templates
	defaultReplyTemplate = `You are helping the user answer a chat conversation captured from their phone screen.
Lines starting with "나:" were written by the user; other lines are labelled with the speaker's name,
"상대방" for an unidentified speaker or "시스템" for room events.
{{- if .IsGroupChat}}
This is a group chat{{with .Participants}} with {{join ", " .}}{{end}}. Keep the reply polite.
{{- else if .OtherPersonName}}
The user is talking with {{.OtherPersonName}}.
{{- end}}
The last message is of type {{.TextType}}. Write one short natural reply in the conversation's language ({{.Language}}).
{{- with .Suggestions}}
Examples of the expected tone: {{join " / " .}}
{{- end}}

Conversation:
{{.Content}}
`
)

const promptsDir = "prompts"

// App struct to hold dependencies
type App struct {
	mu     sync.RWMutex
	engine *transcript.Engine

	// OCR is nil when no OCR provider is configured; capture uploads are then disabled.
	OCR ocr.Provider
}

// Engine returns the engine built from the current settings.
func (app *App) Engine() *transcript.Engine {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.engine
}

// setEngine swaps the engine after a settings change. Running analyses keep
// the engine they started with.
func (app *App) setEngine(e *transcript.Engine) {
	app.mu.Lock()
	defer app.mu.Unlock()
	app.engine = e
}

func main() {
	// Initialize logrus logger
	initLogger()

	// Load settings and templates
	loadSettings()
	loadTemplates()

	// Initialize OCR provider
	provider, err := createOCRProvider()
	if err != nil {
		log.Fatalf("Failed to create OCR provider: %v", err)
	}

	app := &App{
		engine: transcript.New(currentSettings().Engine),
		OCR:    provider,
	}

	router := gin.Default()
	app.registerRoutes(router)

	// Start capture worker pool
	if app.OCR != nil {
		startWorkerPool(app, captureWorkers)
	}

	addr := listenAddress
	if addr == "" {
		addr = ":8080"
	}
	log.Infof("Server started on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}

func (app *App) registerRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok", "ocr_enabled": app.OCR != nil})
		})

		api.POST("/analyze", app.analyzeHandler)
		api.POST("/analyze/batch", app.analyzeBatchHandler)

		// Capture endpoints
		api.POST("/captures", app.submitCaptureJobHandler)
		api.GET("/captures/:job_id", app.getCaptureJobHandler)
		api.GET("/captures", app.getAllCaptureJobsHandler)

		api.POST("/reply-request", app.replyRequestHandler)

		api.GET("/prompts", getPromptsHandler)
		api.POST("/prompts", updatePromptsHandler)

		api.GET("/settings", getSettingsHandler)
		api.PATCH("/settings", app.updateSettingsHandler)
	}
}

func initLogger() {
	var level logrus.Level
	switch logLevel {
	case "debug":
		level = logrus.DebugLevel
	case "info":
		level = logrus.InfoLevel
	case "warn":
		level = logrus.WarnLevel
	case "error":
		level = logrus.ErrorLevel
	default:
		level = logrus.InfoLevel
		if logLevel != "" {
			log.Fatalf("Invalid log level: '%s'.", logLevel)
		}
	}

	log.SetLevel(level)
	ocr.SetLogLevel(level)
	transcript.SetLogLevel(level)

	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
}

// createOCRProvider builds the configured OCR provider. An empty OCR_PROVIDER
// disables capture uploads; the analyze endpoints keep working.
func createOCRProvider() (ocr.Provider, error) {
	if ocrProvider == "" {
		log.Infoln("OCR provider not configured, capture uploads disabled")
		return nil, nil
	}
	return ocr.NewProvider(ocr.Config{
		Provider:           ocrProvider,
		IOSOCRServerURL:    iosOCRServerURL,
		IOSOCRServerToken:  iosOCRServerToken,
		TesseractLanguages: ocr.ParseLanguages(tesseractLanguages),
		RequestsPerMinute:  ocrRequestsPerMinute,
		MaxRetries:         ocrMaxRetries,
	})
}

// loadTemplates loads the reply template from file or uses the default template
func loadTemplates() {
	templateMutex.Lock()
	defer templateMutex.Unlock()

	if err := os.MkdirAll(promptsDir, os.ModePerm); err != nil {
		log.Fatalf("Failed to create prompts directory: %v", err)
	}

	replyTemplatePath := filepath.Join(promptsDir, "reply_prompt.tmpl")
	replyTemplateContent, err := os.ReadFile(replyTemplatePath)
	if err != nil {
		log.Errorf("Could not read %s, using default template: %v", replyTemplatePath, err)
		replyTemplateContent = []byte(defaultReplyTemplate)
		if err := os.WriteFile(replyTemplatePath, replyTemplateContent, 0644); err != nil {
			log.Fatalf("Failed to write default reply template to disk: %v", err)
		}
	}
	replyTemplate, err = template.New("reply").Funcs(sprig.FuncMap()).Parse(string(replyTemplateContent))
	if err != nil {
		log.Fatalf("Failed to parse reply template: %v", err)
	}
}

func envInt(name string, def int) int {
	v := os.Getenv(name)
	if v == "" {
		return def
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		log.Warnf("Invalid %s value %q, using %d", name, v, def)
		return def
	}
	return parsed
}

func envFloat(name string, def float64) float64 {
	v := os.Getenv(name)
	if v == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Warnf("Invalid %s value %q, using %g", name, v, def)
		return def
	}
	return parsed
}
