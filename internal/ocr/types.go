package ocr

import "context"

// Input encapsulates a single image submitted for recognition.
type Input struct {
	// ID is an optional caller-provided identifier that is echoed back in the
	// corresponding Result.
	ID string
	// Image is the encoded image payload (PNG or JPEG).
	Image []byte
	// Languages is a list of trained-data hints (e.g. "eng", "deu").
	Languages []string
	// DPI carries the effective dots-per-inch for the image. Engines use this
	// for scaling heuristics; zero means unknown.
	DPI int
	// Variables passes engine-specific knobs (e.g. the page segmentation mode
	// for Tesseract) without hard-coding them into the API surface.
	Variables map[string]string
}

// Word represents a single recognized token with its confidence.
type Word struct {
	Text       string
	Confidence float64
}

// Result captures recognition output for a single input image.
type Result struct {
	// InputID mirrors the Input.ID that produced this result.
	InputID string
	// PlainText contains the linearized text extracted from the image.
	PlainText string
	// Words carries the recognized tokens with per-word confidence.
	Words []Word
	// MeanConfidence is the average word confidence in [0, 1].
	MeanConfidence float64
}

// Engine is the OCR provider contract: one image in, one result out.
// Implementations may be backed by local binaries, native libraries or
// remote services.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, input Input) (Result, error)
}
