package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/labkit/internal/config"
	"github.com/oshokin/labkit/internal/logger"
	"github.com/oshokin/labkit/internal/service/report"
	"github.com/oshokin/labkit/internal/version"
)

var (
	// configPath stores the path to the configuration YAML file.
	configPath string
	// csvPath is the CSV output destination. Empty writes to stdout.
	csvPath string
	// outOfRangeOnly restricts output to tests outside their reference range.
	outOfRangeOnly bool
	// preview writes preprocessed images instead of running OCR.
	preview bool
	// logFile duplicates log output into the provided file.
	logFile string
	// logLevel overrides the console logging level.
	logLevel string

	// rootCmd represents the base command for extracting lab tests from report images.
	rootCmd = &cobra.Command{
		Use:   "labkit-processor [image]...",
		Short: "Extract lab test results from report images",
		Long: `Runs OCR over scanned lab report images and exports structured results.

Each image is converted to grayscale, thresholded, and passed through the
Tesseract engine. Recognized lines are parsed into lab tests with their values,
biological reference ranges and units, and every test is flagged when its value
falls outside the range. Results are exported as CSV to stdout or a file.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			if level, ok := logger.ParseLogLevel(logLevel); ok {
				logger.SetLevel(level)
			}

			options := &report.Options{
				ConfigPath:     configPath,
				ImagePaths:     args,
				CSVPath:        csvPath,
				OutOfRangeOnly: outOfRangeOnly,
				Preview:        preview,
				LogFile:        logFile,
			}

			return report.Run(ctx, options)
		},
	}
)

// Execute runs the labkit-processor CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVarP(&csvPath, "csv", "o", "", "write results to a CSV file instead of stdout")
	rootCmd.Flags().BoolVar(&outOfRangeOnly, "out-of-range-only", false, "export only tests outside their reference range")
	rootCmd.Flags().BoolVar(&preview, "preview", false, "write preprocessed images instead of running OCR")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "duplicate log output into a file")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "console log level (debug, info, warn, error)")
}
