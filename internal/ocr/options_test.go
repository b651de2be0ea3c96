package ocr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestNewInputOptions verifies option application and variable plumbing.
func TestNewInputOptions(t *testing.T) {
	t.Parallel()

	in := NewInput("report-1", []byte{1, 2, 3},
		WithLanguages("eng", "deu"),
		WithDPI(300),
		WithPageSegmentationMode(6),
		WithWhitelist("0123456789."),
	)

	require.Equal(t, "report-1", in.ID)
	require.Equal(t, []string{"eng", "deu"}, in.Languages)
	require.Equal(t, 300, in.DPI)
	require.Equal(t, "6", in.Variables["tessedit_pageseg_mode"])
	require.Equal(t, "0123456789.", in.Variables["tessedit_char_whitelist"])
}
