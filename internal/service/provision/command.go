package provision

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/oshokin/labkit/internal/config"
	domain "github.com/oshokin/labkit/internal/domain/provision"
	"github.com/oshokin/labkit/internal/logger"
	"github.com/oshokin/labkit/internal/manifest"
	"github.com/oshokin/labkit/internal/ocr/tesseract"
	staterepo "github.com/oshokin/labkit/internal/repository/state"
	"github.com/oshokin/labkit/internal/service/common"
)

// Step names in execution order. Each step is logged, timed and recorded in
// the state file on its own, so a failed run shows exactly where it stopped
// and a single step can be rerun in isolation.
const (
	StepRefreshIndex  = "refresh-index"
	StepSystemPackage = "system-package"
	StepPythonDeps    = "python-deps"
	StepVerify        = "verify"
)

const (
	// MarkerFilename marks that the provisioner is running right now to avoid parallel execution.
	MarkerFilename = "labkit-provision-marker.bin"

	// markerLifetime is the period after which a stale provisioning marker is ignored.
	markerLifetime = 30 * time.Minute

	// aptExecutable is the Debian-family system package manager.
	aptExecutable = "apt-get"

	// nonInteractiveEnv suppresses apt's configuration prompts.
	nonInteractiveEnv = "DEBIAN_FRONTEND=noninteractive"
)

var (
	errProvisionerRunning = errors.New("the provisioner is already running")
	errUnknownStep        = errors.New("unknown provisioning step")
	errManifestMissing    = errors.New("requirements manifest not found")
	errUnsupportedOS      = errors.New("system package installation requires a Debian-family Linux")
	errEngineNotOnPath    = errors.New("tesseract not found in PATH")
)

// Options are inputs accepted by the provisioner entry point.
type Options struct {
	// ConfigPath is the optional path to the settings YAML file.
	ConfigPath string
	// ManifestPath overrides the requirements manifest location from settings.
	ManifestPath string
	// NoCache passes --no-cache-dir to pip, skipping the local download cache.
	NoCache bool
	// SkipVerify omits the informational OCR engine version check.
	SkipVerify bool
	// Only reruns a single named step instead of the full sequence.
	Only string
}

// Steps returns the step names in execution order.
func Steps() []string {
	return []string{StepRefreshIndex, StepSystemPackage, StepPythonDeps, StepVerify}
}

// runner holds the state and collaborators for a single provisioning run.
// It is intentionally unexported, call Run(ctx, Options) from callers.
type runner struct {
	cfg   *config.Config
	opts  *Options
	repo  staterepo.Repository
	exec  CommandRunner
	state *domain.State

	// osName is runtime.GOOS, overridable in tests.
	osName string
	// engineAvailable and engineVersion probe the OCR engine, overridable in tests.
	engineAvailable func() bool
	engineVersion   func(ctx context.Context) (string, error)
}

// Run executes the provisioning sequence and is the public entry point for the CLI.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "labkit-provisioner")

	if IsProvisionerRunningNow(ctx) {
		return errProvisionerRunning
	}

	marker, err := os.Create(MarkerFilename)
	if err != nil {
		return fmt.Errorf("create marker: %w", err)
	}

	if err = marker.Close(); err != nil {
		return fmt.Errorf("close marker: %w", err)
	}

	defer func() {
		if _, statErr := os.Stat(MarkerFilename); statErr == nil {
			_ = os.Remove(MarkerFilename)
		}
	}()

	r, err := newRunner(opts, NewExecRunner())
	if err != nil {
		return err
	}

	if err = r.Run(ctx); err != nil {
		logger.ErrorKV(ctx, "Provisioning failed", "error", err)
		return err
	}

	logger.Info(ctx, "Provisioning completed")

	return nil
}

// IsProvisionerRunningNow checks presence of a marker file, ignoring markers
// old enough to be leftovers of an interrupted run.
func IsProvisionerRunningNow(ctx context.Context) bool {
	fileInfo, err := os.Stat(MarkerFilename)
	if err != nil {
		return false
	}

	if time.Since(fileInfo.ModTime()) <= markerLifetime {
		return true
	}

	logger.Info(ctx, "The provisioning marker is stale, removing it")

	return os.Remove(MarkerFilename) != nil
}

// newRunner loads configuration and wires default collaborators.
func newRunner(opts *Options, exec CommandRunner) (*runner, error) {
	cfg, err := config.LoadOrDefault(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	if opts.ManifestPath != "" {
		cfg.ManifestPath = opts.ManifestPath
	}

	return &runner{
		cfg:             cfg,
		opts:            opts,
		repo:            staterepo.NewFileRepository(cfg.StateFile),
		exec:            exec,
		osName:          runtime.GOOS,
		engineAvailable: tesseract.Available,
		engineVersion:   tesseract.Version,
	}, nil
}

// Run executes the selected steps strictly in sequence. The first failing
// step aborts the run; there is no retry or rollback beyond what the package
// managers themselves provide.
func (r *runner) Run(ctx context.Context) error {
	if err := r.loadState(ctx); err != nil {
		return err
	}

	steps, err := r.selectSteps()
	if err != nil {
		return err
	}

	if os.Geteuid() != 0 {
		logger.Warn(ctx, "Not running as root, system package installation will likely fail")
	}

	for _, step := range steps {
		if err := r.executeStep(ctx, step); err != nil {
			return err
		}
	}

	return nil
}

// namedStep pairs a step identifier with its implementation.
type namedStep struct {
	name string
	fn   func(ctx context.Context) error
}

// selectSteps resolves the step sequence from the options.
func (r *runner) selectSteps() ([]namedStep, error) {
	all := []namedStep{
		{StepRefreshIndex, r.refreshIndex},
		{StepSystemPackage, r.installSystemPackage},
		{StepPythonDeps, r.installPythonDeps},
		{StepVerify, r.verifyEngine},
	}

	if r.opts.Only != "" {
		for _, step := range all {
			if step.name == r.opts.Only {
				return []namedStep{step}, nil
			}
		}

		return nil, fmt.Errorf("%w: %s", errUnknownStep, r.opts.Only)
	}

	if r.opts.SkipVerify {
		all = all[:len(all)-1]
	}

	return all, nil
}

// loadState initializes the run's state record, carrying over step history
// from previous runs so single-step reruns keep the rest of the picture.
func (r *runner) loadState(ctx context.Context) error {
	state, err := r.repo.Load(ctx)

	switch {
	case err == nil:
	case errors.Is(err, staterepo.ErrNotFound):
		state = new(domain.State)
	default:
		return fmt.Errorf("load provisioning state: %w", err)
	}

	state.Timestamp = time.Now()

	actor, err := common.DetectActor()
	if err != nil {
		return fmt.Errorf("detect actor: %w", err)
	}

	state.LastActor = actor
	r.state = state

	return nil
}

// executeStep runs one step under the configured timeout, records its outcome
// and persists the state file. Verify failures are informational: the engine
// version report never affects the exit status.
func (r *runner) executeStep(ctx context.Context, step namedStep) error {
	logger.InfoKV(ctx, "Running provisioning step", "step", step.name)

	stepCtx, cancel := context.WithTimeout(ctx, r.cfg.CommandTimeout)
	defer cancel()

	err := step.fn(stepCtx)

	result := domain.StepResult{
		Name:       step.name,
		Completed:  err == nil,
		FinishedAt: time.Now(),
	}
	if err != nil {
		result.Error = err.Error()
	}

	r.state.RecordStep(result)

	if saveErr := r.repo.Save(ctx, r.state); saveErr != nil {
		logger.WarnKV(ctx, "Failed to persist provisioning state", "error", saveErr)
	}

	if err == nil {
		logger.InfoKV(ctx, "Step completed", "step", step.name)
		return nil
	}

	if step.name == StepVerify {
		logger.WarnKV(ctx, "Engine verification failed", "error", err)
		return nil
	}

	return fmt.Errorf("step %s: %w", step.name, err)
}

// refreshIndex updates the OS package index.
func (r *runner) refreshIndex(ctx context.Context) error {
	if err := r.requireLinux(); err != nil {
		return err
	}

	return r.exec.Run(ctx, nil, aptExecutable, "update")
}

// installSystemPackage installs the OCR engine package non-interactively.
func (r *runner) installSystemPackage(ctx context.Context) error {
	if err := r.requireLinux(); err != nil {
		return err
	}

	return r.exec.Run(ctx,
		[]string{nonInteractiveEnv},
		aptExecutable, "install", "-y", r.cfg.SystemPackage)
}

// installPythonDeps installs the packages listed in the requirements manifest.
// The manifest contents belong to pip; labkit only reports the package names
// it is about to hand over.
func (r *runner) installPythonDeps(ctx context.Context) error {
	if _, err := os.Stat(r.cfg.ManifestPath); errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", errManifestMissing, r.cfg.ManifestPath)
	} else if err != nil {
		return fmt.Errorf("stat manifest: %w", err)
	}

	if packages, err := manifest.Packages(r.cfg.ManifestPath); err != nil {
		logger.WarnKV(ctx, "Could not list manifest packages", "error", err)
	} else {
		logger.InfoKV(ctx, "Installing Python packages", "packages", packages)
	}

	args := []string{"install", "-r", r.cfg.ManifestPath}
	if r.opts.NoCache {
		args = append(args, "--no-cache-dir")
	}

	return r.exec.Run(ctx, nil, r.cfg.PipCommand, args...)
}

// verifyEngine queries and reports the installed OCR engine version.
// Purely informational, for human verification of the provisioning outcome.
func (r *runner) verifyEngine(ctx context.Context) error {
	if !r.engineAvailable() {
		return errEngineNotOnPath
	}

	version, err := r.engineVersion(ctx)
	if err != nil {
		return err
	}

	r.state.EngineVersion = version
	logger.InfoKV(ctx, "OCR engine present", "version", version)

	return nil
}

// requireLinux guards the apt-get steps on other platforms.
func (r *runner) requireLinux() error {
	if r.osName != "linux" {
		return fmt.Errorf("%w, running on %s", errUnsupportedOS, r.osName)
	}

	return nil
}
