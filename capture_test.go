package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepareCaptureImage(t *testing.T) {
	tests := []struct {
		name            string
		statusBarHeight int
		wantHeight      int
	}{
		{name: "no status bar", statusBarHeight: 0, wantHeight: 200},
		{name: "status bar cropped", statusBarHeight: 48, wantHeight: 152},
		{name: "band covering the image is ignored", statusBarHeight: 200, wantHeight: 200},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, mimeType, err := prepareCaptureImage(testPNG(t, 120, 200), tc.statusBarHeight)
			require.NoError(t, err)
			assert.Equal(t, "image/png", mimeType)

			img, err := imaging.Decode(bytes.NewReader(out))
			require.NoError(t, err)
			assert.Equal(t, 120, img.Bounds().Dx())
			assert.Equal(t, tc.wantHeight, img.Bounds().Dy())
		})
	}
}

func TestPrepareCaptureImageRejectsNonImages(t *testing.T) {
	_, mimeType, err := prepareCaptureImage([]byte("%PDF-1.7\n1 0 obj\n"), 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errUnsupportedMedia))
	assert.Equal(t, "application/pdf", mimeType)
}

func TestPrepareCaptureImageCorruptImage(t *testing.T) {
	data := testPNG(t, 10, 10)
	_, _, err := prepareCaptureImage(data[:40], 0)
	require.Error(t, err)
	assert.False(t, errors.Is(err, errUnsupportedMedia))
}
