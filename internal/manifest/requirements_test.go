package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestPackages parses a representative requirements file and extracts names.
func TestPackages(t *testing.T) {
	t.Parallel()

	contents := `# OCR stack
pytesseract==0.3.10
Pillow>=9.0
numpy
numpy  # duplicate on purpose
-r extra-requirements.txt
--no-binary :all:
git+https://github.com/example/pkg.git
https://files.example.com/wheel.whl
scikit_image[io]>=0.19 ; python_version >= "3.8"
`

	path := filepath.Join(t.TempDir(), "requirements.txt")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	pkgs, err := Packages(path)
	require.NoError(t, err)
	require.Equal(t, []string{"pytesseract", "pillow", "numpy", "scikit-image"}, pkgs)
}

// TestPackages_MissingFile ensures a missing manifest surfaces as an error.
func TestPackages_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := Packages(filepath.Join(t.TempDir(), "requirements.txt"))
	require.Error(t, err)
}

// TestNormalize verifies separator collapsing and lowercasing.
func TestNormalize(t *testing.T) {
	t.Parallel()

	require.Equal(t, "scikit-image", Normalize("Scikit_Image"))
	require.Equal(t, "ruamel-yaml", Normalize("ruamel.yaml"))
}
