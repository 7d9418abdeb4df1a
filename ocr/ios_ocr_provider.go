package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gardar/ocrchestra/pkg/hocr"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
)

// IOSOCRProvider implements OCR using iOS-OCR-Server
type IOSOCRProvider struct {
	baseURL    string
	httpClient *retryablehttp.Client
}

// newIOSOCRProvider creates a new iOS-OCR-Server provider
func newIOSOCRProvider(config Config) (*IOSOCRProvider, error) {
	logger := log.WithFields(logrus.Fields{
		"url": config.IOSOCRServerURL,
	})
	logger.Info("Creating new iOS-OCR-Server provider")

	if config.IOSOCRServerURL == "" {
		logger.Error("Missing required iOS-OCR-Server URL")
		return nil, fmt.Errorf("missing required iOS-OCR-Server URL")
	}

	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.RetryWaitMin = 1 * time.Second
	client.RetryWaitMax = 10 * time.Second
	client.Logger = logger
	if config.IOSOCRServerToken != "" {
		client.HTTPClient.Transport = &BearerTransport{
			BaseTransport: client.HTTPClient.Transport,
			Token:         config.IOSOCRServerToken,
		}
	}

	provider := &IOSOCRProvider{
		baseURL:    config.IOSOCRServerURL,
		httpClient: client,
	}

	logger.Info("Successfully initialized iOS-OCR-Server provider")
	return provider, nil
}

// ProcessImage sends the image content to the iOS-OCR-Server for OCR
func (p *IOSOCRProvider) ProcessImage(ctx context.Context, imageContent []byte) (*Result, error) {
	logger := log.WithFields(logrus.Fields{
		"provider":  "ios_ocr",
		"url":       p.baseURL,
		"data_size": len(imageContent),
	})
	logger.Debug("Starting iOS-OCR-Server processing")

	var requestBody bytes.Buffer
	writer := multipart.NewWriter(&requestBody)

	part, err := writer.CreateFormFile("file", "capture.png")
	if err != nil {
		logger.WithError(err).Error("Failed to create form file")
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err = io.Copy(part, bytes.NewReader(imageContent)); err != nil {
		logger.WithError(err).Error("Failed to copy image content to form")
		return nil, fmt.Errorf("failed to copy image content: %w", err)
	}
	if err = writer.Close(); err != nil {
		logger.WithError(err).Error("Failed to close multipart writer")
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	endpoint := p.baseURL + "/ocr"
	req, err := retryablehttp.NewRequestWithContext(ctx, "POST", endpoint, &requestBody)
	if err != nil {
		logger.WithError(err).Error("Failed to create HTTP request")
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	logger.Debug("Sending request to iOS-OCR-Server")
	resp, err := p.httpClient.Do(req)
	if err != nil {
		logger.WithError(err).Error("Failed to send request to iOS-OCR-Server")
		return nil, fmt.Errorf("error sending request to iOS-OCR-Server: %w", err)
	}
	defer resp.Body.Close()

	respBodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.WithError(err).Error("Failed to read iOS-OCR-Server response body")
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		logger.WithFields(logrus.Fields{
			"status_code": resp.StatusCode,
			"response":    string(respBodyBytes),
		}).Error("iOS-OCR-Server returned non-200 status")
		return nil, fmt.Errorf("iOS-OCR-Server returned status %d: %s", resp.StatusCode, string(respBodyBytes))
	}

	var ocrResponse IOSOCRResponse
	if err = json.Unmarshal(respBodyBytes, &ocrResponse); err != nil {
		logger.WithError(err).WithField("response", string(respBodyBytes)).Error("Failed to parse iOS-OCR-Server response")
		return nil, fmt.Errorf("failed to parse iOS-OCR-Server response: %w", err)
	}

	if !ocrResponse.Success {
		logger.WithField("message", ocrResponse.Message).Error("iOS-OCR-Server processing failed")
		return nil, fmt.Errorf("iOS-OCR-Server processing failed")
	}

	page := ocrResponse.hocrPage()
	blocks := BlocksFromHOCRPage(page)

	logger.WithFields(logrus.Fields{
		"text_length":  len(ocrResponse.OCRResult),
		"num_boxes":    len(ocrResponse.OCRBoxes),
		"num_blocks":   len(blocks),
		"image_width":  ocrResponse.ImageWidth,
		"image_height": ocrResponse.ImageHeight,
	}).Info("Successfully processed image with iOS-OCR-Server")

	result := &Result{
		Text:        ocrResponse.OCRResult,
		Blocks:      blocks,
		ImageWidth:  ocrResponse.ImageWidth,
		ImageHeight: ocrResponse.ImageHeight,
		HOCRPage:    page,
		Metadata:    make(map[string]string),
	}
	result.Metadata["provider"] = "ios_ocr"
	result.Metadata["image_width"] = fmt.Sprintf("%d", ocrResponse.ImageWidth)
	result.Metadata["image_height"] = fmt.Sprintf("%d", ocrResponse.ImageHeight)
	result.Metadata["num_boxes"] = fmt.Sprintf("%d", len(ocrResponse.OCRBoxes))

	return result, nil
}

// hocrPage turns the server's line boxes into an hOCR page. The server reports
// no per-word confidence, so each box becomes a single-word line.
func (r IOSOCRResponse) hocrPage() *hocr.Page {
	lines := make([]hocr.Line, 0, len(r.OCRBoxes))
	for i, box := range r.OCRBoxes {
		bbox := hocr.NewBoundingBox(box.X, box.Y, box.X+box.W, box.Y+box.H)
		lines = append(lines, hocr.Line{
			ID:       fmt.Sprintf("line_1_%d", i+1),
			Lang:     "unknown",
			BBox:     bbox,
			Baseline: "0 0",
			Words: []hocr.Word{{
				ID:   fmt.Sprintf("word_1_%d_1", i+1),
				Text: box.Text,
				BBox: bbox,
				Lang: "unknown",
			}},
		})
	}
	return newPage(r.ImageWidth, r.ImageHeight, lines, map[string]string{
		"provider":         "ios_ocr",
		metaWordConfidence: "false",
	})
}

// IOSOCRResponse represents the response from iOS-OCR-Server
type IOSOCRResponse struct {
	Message     string      `json:"message"`
	ImageWidth  int         `json:"image_width"`
	OCRResult   string      `json:"ocr_result"`
	OCRBoxes    []IOSOCRBox `json:"ocr_boxes"`
	Success     bool        `json:"success"`
	ImageHeight int         `json:"image_height"`
}

// IOSOCRBox represents a text bounding box from iOS-OCR-Server
type IOSOCRBox struct {
	Text string  `json:"text"`
	W    float64 `json:"w"`
	X    float64 `json:"x"`
	H    float64 `json:"h"`
	Y    float64 `json:"y"`
}
