package cmd

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/labkit/internal/config"
	"github.com/oshokin/labkit/internal/service/provision"
	"github.com/oshokin/labkit/internal/version"
)

var (
	// configPath stores the path to the configuration YAML file.
	configPath string
	// manifestPath overrides the pip requirements file from the configuration.
	manifestPath string
	// noCache disables the pip download cache during installation.
	noCache bool
	// skipVerify skips the informational engine version check.
	skipVerify bool
	// only restricts the run to a single named step.
	only string

	// rootCmd represents the base command for provisioning a lab machine.
	rootCmd = &cobra.Command{
		Use:   "labkit-provisioner",
		Short: "Install the OCR engine and Python dependencies on a lab machine",
		Long: `Prepares a lab machine for report processing.

Runs a fixed sequence of steps: refreshes the OS package index, installs the
OCR engine system package non-interactively, installs Python dependencies from
the requirements manifest, and finally prints the detected engine version.
Steps run strictly in order and the first failure aborts the run. The version
check is informational only and never affects the exit status.

Each step records its outcome in a state file, so a completed run can be
inspected afterwards and an individual step can be retried with --only.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := &provision.Options{
				ConfigPath:   configPath,
				ManifestPath: manifestPath,
				NoCache:      noCache,
				SkipVerify:   skipVerify,
				Only:         only,
			}

			return provision.Run(ctx, options)
		},
	}
)

// Execute runs the labkit-provisioner CLI and exits with non-zero status on error.
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
	rootCmd.Flags().StringVarP(&manifestPath, "manifest", "m", "", "path to pip requirements file")
	rootCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the pip download cache")
	rootCmd.Flags().BoolVar(&skipVerify, "skip-verify", false, "skip the engine version check")
	rootCmd.Flags().StringVar(&only, "only", "",
		"run a single step ("+strings.Join(provision.Steps(), ", ")+")")
}
