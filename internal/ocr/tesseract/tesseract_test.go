package tesseract

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/oshokin/labkit/internal/ocr"
)

// ensureTesseractAvailable skips tests that need the native binary.
func ensureTesseractAvailable(t *testing.T) {
	t.Helper()

	if _, err := exec.LookPath(executableName); err != nil {
		t.Skip("tesseract not installed in PATH")
	}
}

// TestParseVersionOutput covers the formats shipped by tesseract 4 and 5.
func TestParseVersionOutput(t *testing.T) {
	t.Parallel()

	got, err := parseVersionOutput("tesseract 5.3.0\n leptonica-1.82.0\n")
	require.NoError(t, err)
	require.Equal(t, "5.3.0", got)

	got, err = parseVersionOutput("tesseract v4.1.1")
	require.NoError(t, err)
	require.Equal(t, "4.1.1", got)

	_, err = parseVersionOutput("tesseract")
	require.Error(t, err)
}

// TestEngineRecognize renders a small label and checks it round-trips through OCR.
func TestEngineRecognize(t *testing.T) {
	ensureTesseractAvailable(t)

	img := image.NewRGBA(image.Rect(0, 0, 220, 80))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.Black,
		Face: basicfont.Face7x13,
		Dot:  fixed.P(10, 50),
	}
	d.DrawString("Hemoglobin 11.2")

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	in := ocr.NewInput("report-0", buf.Bytes(), ocr.WithLanguages("eng"), ocr.WithDPI(300))

	res, err := New().Recognize(context.Background(), in)
	require.NoError(t, err)
	require.Equal(t, "report-0", res.InputID)
	require.Contains(t, strings.ToLower(res.PlainText), "hemoglobin")
	require.NotEmpty(t, res.Words)
}

// TestVersion queries the installed binary when present.
func TestVersion(t *testing.T) {
	ensureTesseractAvailable(t)

	v, err := Version(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, v)
}
