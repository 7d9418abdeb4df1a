package main

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"github.com/sirupsen/logrus"
)

// errUnsupportedMedia is returned for uploads that are not images.
var errUnsupportedMedia = errors.New("unsupported media type")

// prepareCaptureImage checks that data is an image, cuts the status bar band
// off its top and re-encodes it as PNG for the OCR provider. A band that
// would leave nothing of the image is ignored.
func prepareCaptureImage(data []byte, statusBarHeight int) ([]byte, string, error) {
	mtype := mimetype.Detect(data)
	logEntry := log.WithFields(logrus.Fields{
		"detected_mime_type": mtype.String(),
		"bytes":              len(data),
		"status_bar_height":  statusBarHeight,
	})
	logEntry.Debug("Preparing capture")

	if !strings.HasPrefix(mtype.String(), "image/") {
		return nil, mtype.String(), fmt.Errorf("%w: %s", errUnsupportedMedia, mtype.String())
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, mtype.String(), fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	if statusBarHeight > 0 && statusBarHeight < bounds.Dy() {
		img = imaging.Crop(img, image.Rect(bounds.Min.X, bounds.Min.Y+statusBarHeight, bounds.Max.X, bounds.Max.Y))
	} else if statusBarHeight >= bounds.Dy() {
		logEntry.Warn("Status bar height covers the whole image, not cropping")
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, mtype.String(), fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), mtype.String(), nil
}
