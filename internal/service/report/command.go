package report

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/oshokin/labkit/internal/config"
	domain "github.com/oshokin/labkit/internal/domain/report"
	"github.com/oshokin/labkit/internal/logger"
	"github.com/oshokin/labkit/internal/ocr/tesseract"
)

// previewSuffix is appended to input file names when writing preprocessed previews.
const previewSuffix = ".preprocessed.png"

var (
	errNoImages          = errors.New("no report images provided")
	errEngineNotOnPath   = errors.New("tesseract executable not found on PATH, run labkit-provisioner first")
	errNoTestsRecognized = errors.New("no lab tests recognized in the provided images")
)

// Options are inputs accepted by the processor entry point.
type Options struct {
	// ConfigPath is the optional path to settings YAML file.
	ConfigPath string
	// ImagePaths are the report images to process, in order.
	ImagePaths []string
	// CSVPath is the CSV output destination. Empty writes to stdout.
	CSVPath string
	// OutOfRangeOnly keeps only tests flagged as outside their reference range.
	OutOfRangeOnly bool
	// Preview writes preprocessed images next to the inputs instead of running OCR.
	Preview bool
	// LogFile duplicates log output into the provided file when set.
	LogFile string
}

// Run executes the report processing workflow and is the public entry point for the CLI.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "labkit-processor")

	if len(opts.ImagePaths) == 0 {
		return errNoImages
	}

	if opts.LogFile != "" {
		fileOption, err := logger.WithFile(opts.LogFile)
		if err != nil {
			return err
		}

		logger.SetLogger(logger.New(nil, fileOption))
	}

	cfg, err := config.LoadOrDefault(opts.ConfigPath)
	if err != nil {
		return err
	}

	service := NewService(tesseract.New(), WithLanguages(cfg.Languages...))

	if opts.Preview {
		return writePreviews(ctx, service, opts.ImagePaths)
	}

	if !tesseract.Available() {
		return errEngineNotOnPath
	}

	engineVersion, err := tesseract.Version(ctx)
	if err != nil {
		return fmt.Errorf("query engine version: %w", err)
	}

	logger.InfoKV(ctx, "OCR engine ready", "version", engineVersion)

	items, err := loadImages(opts.ImagePaths)
	if err != nil {
		return err
	}

	results, err := service.ProcessBatch(ctx, items)
	if err != nil {
		return err
	}

	tests := Validate(ctx, flatten(results))
	if opts.OutOfRangeOnly {
		tests = FilterOutOfRange(tests)
	}

	if len(tests) == 0 {
		return errNoTestsRecognized
	}

	return exportResults(ctx, opts.CSVPath, tests)
}

// loadImages reads the report images from disk, preserving order.
func loadImages(paths []string) ([]BatchItem, error) {
	items := make([]BatchItem, 0, len(paths))

	for _, path := range paths {
		data, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return nil, fmt.Errorf("read image: %w", err)
		}

		items = append(items, BatchItem{ID: filepath.Base(path), Image: data})
	}

	return items, nil
}

// writePreviews saves the preprocessed form of each image next to the original
// so the operator can inspect what the engine will see.
func writePreviews(ctx context.Context, service *Service, paths []string) error {
	for _, path := range paths {
		data, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return fmt.Errorf("read image: %w", err)
		}

		preview, err := service.Preview(ctx, data)
		if err != nil {
			return fmt.Errorf("preview %s: %w", path, err)
		}

		previewPath := path + previewSuffix
		if err := os.WriteFile(previewPath, preview, config.DefaultFilePermissions); err != nil {
			return fmt.Errorf("write preview: %w", err)
		}

		logger.InfoKV(ctx, "Preview written", "path", previewPath)
	}

	return nil
}

// flatten merges per-image results into a single ordered list.
func flatten(results [][]*domain.LabTest) []*domain.LabTest {
	var tests []*domain.LabTest
	for _, result := range results {
		tests = append(tests, result...)
	}

	return tests
}

// exportResults writes the CSV to the requested destination.
func exportResults(ctx context.Context, csvPath string, tests []*domain.LabTest) error {
	if csvPath == "" {
		return ExportCSV(os.Stdout, tests)
	}

	file, err := os.Create(filepath.Clean(csvPath))
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}

	defer func() {
		_ = file.Close()
	}()

	if err := ExportCSV(file, tests); err != nil {
		return err
	}

	logger.InfoKV(ctx, "Results exported", "path", csvPath, "tests", len(tests))

	return nil
}
