package tesseract

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/oshokin/labkit/internal/ocr"
)

// executableName is the Tesseract binary probed on PATH.
const executableName = "tesseract"

var errEmptyVersionOutput = errors.New("empty version output")

// Engine implements ocr.Engine using the gosseract client.
type Engine struct {
	clientFactory func() *gosseract.Client
}

// New constructs a Tesseract-backed OCR engine.
func New() *Engine {
	return &Engine{clientFactory: gosseract.NewClient}
}

// Name returns the engine identifier.
func (e *Engine) Name() string {
	return "tesseract"
}

// Recognize performs OCR on a single image input.
func (e *Engine) Recognize(ctx context.Context, in ocr.Input) (ocr.Result, error) {
	select {
	case <-ctx.Done():
		return ocr.Result{}, ctx.Err()
	default:
	}

	client := e.clientFactory()
	defer func() {
		_ = client.Close()
	}()

	if err := client.SetImageFromBytes(in.Image); err != nil {
		return ocr.Result{}, fmt.Errorf("set image: %w", err)
	}

	if len(in.Languages) > 0 {
		if err := client.SetLanguage(in.Languages...); err != nil {
			return ocr.Result{}, fmt.Errorf("set languages: %w", err)
		}
	}

	if in.DPI > 0 {
		if err := client.SetVariable(gosseract.SettableVariable("user_defined_dpi"), fmt.Sprint(in.DPI)); err != nil {
			return ocr.Result{}, fmt.Errorf("set dpi: %w", err)
		}
	}

	for key, value := range in.Variables {
		if err := client.SetVariable(gosseract.SettableVariable(key), value); err != nil {
			return ocr.Result{}, fmt.Errorf("set variable %s: %w", key, err)
		}
	}

	text, err := client.Text()
	if err != nil {
		return ocr.Result{}, fmt.Errorf("recognize text: %w", err)
	}

	words, meanConfidence := extractWords(client)

	return ocr.Result{
		InputID:        in.ID,
		PlainText:      strings.TrimSpace(text),
		Words:          words,
		MeanConfidence: meanConfidence,
	}, nil
}

// extractWords collects per-word tokens and the mean confidence in [0, 1].
func extractWords(client *gosseract.Client) ([]ocr.Word, float64) {
	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil || len(boxes) == 0 {
		return nil, 0
	}

	var (
		words = make([]ocr.Word, 0, len(boxes))
		sum   float64
	)

	for _, box := range boxes {
		confidence := box.Confidence / 100.0
		sum += confidence

		words = append(words, ocr.Word{
			Text:       box.Word,
			Confidence: confidence,
		})
	}

	return words, sum / float64(len(words))
}

// Available reports whether the Tesseract binary is reachable on PATH.
func Available() bool {
	_, err := exec.LookPath(executableName)

	return err == nil
}

// Version runs `tesseract --version` and returns the version number from its
// first output line (e.g. "5.3.0"). Tesseract prints version information to
// stderr on older releases, so both streams are captured.
func Version(ctx context.Context) (string, error) {
	output, err := exec.CommandContext(ctx, executableName, "--version").CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("query %s version: %w", executableName, err)
	}

	return parseVersionOutput(string(output))
}

// parseVersionOutput extracts the version number from `tesseract --version` output.
func parseVersionOutput(output string) (string, error) {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) == 0 {
		return "", errEmptyVersionOutput
	}

	// First line looks like "tesseract 5.3.0" or "tesseract v4.1.1".
	fields := strings.Fields(lines[0])
	if len(fields) < 2 {
		return "", fmt.Errorf("%w: %q", errEmptyVersionOutput, lines[0])
	}

	return strings.TrimPrefix(fields[1], "v"), nil
}
