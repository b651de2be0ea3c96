package report

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRun_NoImages(t *testing.T) {
	t.Parallel()

	err := Run(context.Background(), &Options{})
	require.ErrorIs(t, err, errNoImages)
}

func TestRun_Preview(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	imagePath := filepath.Join(dir, "report.png")
	require.NoError(t, os.WriteFile(imagePath, testImage(t), 0o600))

	err := Run(context.Background(), &Options{
		ConfigPath: filepath.Join(dir, "missing-settings.yaml"),
		ImagePaths: []string{imagePath},
		Preview:    true,
	})

	// An explicitly provided settings path must exist.
	require.Error(t, err)

	err = Run(context.Background(), &Options{
		ImagePaths: []string{imagePath},
		Preview:    true,
	})
	require.NoError(t, err)
	require.FileExists(t, imagePath+previewSuffix)
}
