package ocr

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestBinarize checks that mid-tones collapse to pure black or white.
func TestBinarize(t *testing.T) {
	t.Parallel()

	src := image.NewRGBA(image.Rect(0, 0, 2, 1))
	src.Set(0, 0, color.Gray{Y: 40})  // Dark pixel, below threshold.
	src.Set(1, 0, color.Gray{Y: 230}) // Light pixel, above threshold.

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	out, err := Binarize(buf.Bytes(), DefaultBinarizeThreshold)
	require.NoError(t, err)

	decoded, _, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)

	dark := color.GrayModel.Convert(decoded.At(0, 0)).(color.Gray)
	light := color.GrayModel.Convert(decoded.At(1, 0)).(color.Gray)
	require.EqualValues(t, 0, dark.Y)
	require.EqualValues(t, 255, light.Y)
}

// TestBinarize_BadInput ensures undecodable bytes surface as an error.
func TestBinarize_BadInput(t *testing.T) {
	t.Parallel()

	_, err := Binarize([]byte("not an image"), DefaultBinarizeThreshold)
	require.Error(t, err)
}
