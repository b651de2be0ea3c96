package report

import (
	"context"
	"fmt"

	domain "github.com/oshokin/labkit/internal/domain/report"
	"github.com/oshokin/labkit/internal/logger"
	"github.com/oshokin/labkit/internal/ocr"
)

// defaultPageSegmentationMode assumes a single uniform block of text, which
// matches the tabular layout of printed lab reports.
const defaultPageSegmentationMode = 6

// Service extracts structured lab test data from report images.
type Service struct {
	// engine performs the actual text recognition.
	engine ocr.Engine
	// languages are the trained-data hints passed to the engine.
	languages []string
	// threshold is the binarization cut-off applied before recognition.
	threshold uint8
}

// Option configures the service.
type Option func(*Service)

// WithLanguages sets OCR language hints (e.g. "eng").
func WithLanguages(langs ...string) Option {
	return func(s *Service) {
		s.languages = append([]string(nil), langs...)
	}
}

// WithBinarizeThreshold overrides the preprocessing threshold.
func WithBinarizeThreshold(threshold uint8) Option {
	return func(s *Service) {
		s.threshold = threshold
	}
}

// NewService creates a report extraction service backed by the provided engine.
func NewService(engine ocr.Engine, opts ...Option) *Service {
	s := &Service{
		engine:    engine,
		threshold: ocr.DefaultBinarizeThreshold,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Process runs OCR over a single report image and extracts its lab tests.
// The id is echoed in logs to correlate batch items (typically the file name).
func (s *Service) Process(ctx context.Context, id string, image []byte) ([]*domain.LabTest, error) {
	preprocessed, err := ocr.Binarize(image, s.threshold)
	if err != nil {
		return nil, fmt.Errorf("preprocess %s: %w", id, err)
	}

	input := ocr.NewInput(id, preprocessed,
		ocr.WithLanguages(s.languages...),
		ocr.WithPageSegmentationMode(defaultPageSegmentationMode))

	result, err := s.engine.Recognize(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("recognize %s: %w", id, err)
	}

	logger.DebugKV(ctx, "Extracted text", "id", id, "text", result.PlainText)

	tests := extractTests(result.PlainText)
	logger.InfoKV(ctx, "Report processed",
		"id", id, "tests", len(tests), "mean_confidence", result.MeanConfidence)

	return tests, nil
}

// BatchItem pairs an identifier with a report image for batch processing.
type BatchItem struct {
	ID    string
	Image []byte
}

// ProcessBatch processes images sequentially and returns per-image results.
// The first failing image aborts the batch.
func (s *Service) ProcessBatch(ctx context.Context, items []BatchItem) ([][]*domain.LabTest, error) {
	results := make([][]*domain.LabTest, 0, len(items))

	for _, item := range items {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		tests, err := s.Process(ctx, item.ID, item.Image)
		if err != nil {
			return nil, err
		}

		results = append(results, tests)
	}

	return results, nil
}

// Preview returns the preprocessed (grayscale, thresholded) PNG for an image
// so operators can inspect what the engine will actually see.
func (s *Service) Preview(_ context.Context, image []byte) ([]byte, error) {
	return ocr.Binarize(image, s.threshold)
}

// Validate drops rows that lost required fields to OCR noise.
func Validate(ctx context.Context, tests []*domain.LabTest) []*domain.LabTest {
	valid := make([]*domain.LabTest, 0, len(tests))

	for _, test := range tests {
		if test.IsValid() {
			valid = append(valid, test)
			continue
		}

		logger.WarnKV(ctx, "Dropping incomplete test row", "test", test)
	}

	return valid
}

// FilterOutOfRange keeps only tests whose value falls outside the reference range.
func FilterOutOfRange(tests []*domain.LabTest) []*domain.LabTest {
	var flagged []*domain.LabTest

	for _, test := range tests {
		if test.OutOfRange {
			flagged = append(flagged, test)
		}
	}

	return flagged
}
