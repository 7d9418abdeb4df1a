package ocr

import (
	"context"
	"fmt"

	"chat-ocr/transcript"

	"github.com/gardar/ocrchestra/pkg/hocr"
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// Result holds the output from OCR processing
type Result struct {
	// Plain text output
	Text string

	// Text blocks with pixel boxes, ready for the transcript engine
	Blocks []transcript.TextBlock

	// Size of the processed image in pixels
	ImageWidth  int
	ImageHeight int

	// hOCR Page the blocks were derived from
	HOCRPage *hocr.Page

	// Additional provider-specific metadata
	Metadata map[string]string
}

// Provider defines the interface for OCR processing
type Provider interface {
	ProcessImage(ctx context.Context, imageContent []byte) (*Result, error)
}

// Config holds the OCR provider configuration
type Config struct {
	// Provider type ("ios_ocr" or "tesseract")
	Provider string

	// iOS-OCR-Server settings
	IOSOCRServerURL   string
	IOSOCRServerToken string // Optional bearer token

	// Tesseract settings
	TesseractLanguages []string // Defaults to kor, eng

	// Rate limiting applied around every provider
	RequestsPerMinute float64
	MaxRetries        int
}

// NewProvider creates a new OCR provider based on configuration
func NewProvider(config Config) (Provider, error) {
	log.Info("Initializing OCR provider: ", config.Provider)

	var (
		provider Provider
		err      error
	)
	switch config.Provider {
	case "ios_ocr":
		provider, err = newIOSOCRProvider(config)
	case "tesseract":
		log.WithField("languages", config.TesseractLanguages).Info("Using Tesseract provider")
		provider, err = newTesseractProvider(config)
	default:
		return nil, fmt.Errorf("unsupported OCR provider: %s", config.Provider)
	}
	if err != nil {
		return nil, err
	}

	if config.RequestsPerMinute <= 0 && config.MaxRetries <= 0 {
		return provider, nil
	}
	return NewRateLimitedProvider(provider, RateLimitConfig{
		RequestsPerMinute: config.RequestsPerMinute,
		MaxRetries:        config.MaxRetries,
	}), nil
}

// SetLogLevel sets the logging level for the OCR package
func SetLogLevel(level logrus.Level) {
	log.SetLevel(level)
}
