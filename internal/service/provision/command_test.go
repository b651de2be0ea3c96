package provision

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/labkit/internal/config"
	domain "github.com/oshokin/labkit/internal/domain/provision"
	staterepo "github.com/oshokin/labkit/internal/repository/state"
)

var errAptBroken = errors.New("apt exited with status 100")

// fakeRunner records executed commands and fails on request.
type fakeRunner struct {
	// calls holds one "name arg arg" line per executed command.
	calls []string
	// env holds the extra environment of the last call.
	env []string
	// failOn maps a command prefix to the error it should produce.
	failOn map[string]error
}

// Run implements CommandRunner.
func (f *fakeRunner) Run(_ context.Context, extraEnv []string, name string, args ...string) error {
	line := strings.Join(append([]string{name}, args...), " ")
	f.calls = append(f.calls, line)
	f.env = extraEnv

	for prefix, err := range f.failOn {
		if strings.HasPrefix(line, prefix) {
			return err
		}
	}

	return nil
}

// memoryRepository is a minimal in-memory Repository implementation for tests.
type memoryRepository struct {
	// state is the provisioning state to return from Load operations.
	state *domain.State
	// loadErr is the error to return from Load operations.
	loadErr error
	// saved stores the last state passed to Save operations.
	saved *domain.State
}

// Load retrieves the current state from the memory repository.
func (m *memoryRepository) Load(context.Context) (*domain.State, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}

	return m.state, nil
}

// Save stores the provided state in memory, overwriting any previous value.
func (m *memoryRepository) Save(_ context.Context, s *domain.State) error {
	m.saved = s.Clone()

	return nil
}

// newTestRunner wires a runner with fakes and a manifest in a temp dir.
func newTestRunner(t *testing.T, opts *Options, exec *fakeRunner, repo *memoryRepository) *runner {
	t.Helper()

	cfg := config.Default()
	cfg.ManifestPath = filepath.Join(t.TempDir(), "requirements.txt")
	require.NoError(t, os.WriteFile(cfg.ManifestPath, []byte("pytesseract\nPillow\n"), 0o600))

	if opts.ManifestPath != "" {
		cfg.ManifestPath = opts.ManifestPath
	}

	if repo.loadErr == nil && repo.state == nil {
		repo.loadErr = staterepo.ErrNotFound
	}

	return &runner{
		cfg:             cfg,
		opts:            opts,
		repo:            repo,
		exec:            exec,
		osName:          "linux",
		engineAvailable: func() bool { return true },
		engineVersion:   func(context.Context) (string, error) { return "5.3.0", nil },
	}
}

// TestRun_FullSequence verifies command order, flags and state recording.
func TestRun_FullSequence(t *testing.T) {
	t.Parallel()

	exec := &fakeRunner{}
	repo := &memoryRepository{}
	r := newTestRunner(t, &Options{NoCache: true}, exec, repo)

	require.NoError(t, r.Run(context.Background()))

	require.Len(t, exec.calls, 3)
	require.Equal(t, "apt-get update", exec.calls[0])
	require.Equal(t, fmt.Sprintf("apt-get install -y %s", config.DefaultSystemPackage), exec.calls[1])
	require.Equal(t, fmt.Sprintf("pip install -r %s --no-cache-dir", r.cfg.ManifestPath), exec.calls[2])

	// Non-interactive frontend only for the install step's environment.
	require.Equal(t, []string(nil), exec.env) // Last call was pip, no extra env.

	require.NotNil(t, repo.saved)
	require.Equal(t, "5.3.0", repo.saved.EngineVersion)
	require.Len(t, repo.saved.Steps, 4)

	for _, step := range repo.saved.Steps {
		require.True(t, step.Completed, step.Name)
		require.Empty(t, step.Error)
	}
}

// TestRun_InstallEnvironment ensures apt install runs with DEBIAN_FRONTEND set.
func TestRun_InstallEnvironment(t *testing.T) {
	t.Parallel()

	exec := &fakeRunner{failOn: map[string]error{"apt-get install": errAptBroken}}
	r := newTestRunner(t, &Options{}, exec, &memoryRepository{})

	require.Error(t, r.Run(context.Background()))
	require.Equal(t, []string{"DEBIAN_FRONTEND=noninteractive"}, exec.env)
}

// TestRun_FirstFailureAborts verifies a failing step stops the sequence.
func TestRun_FirstFailureAborts(t *testing.T) {
	t.Parallel()

	exec := &fakeRunner{failOn: map[string]error{"apt-get install": errAptBroken}}
	repo := &memoryRepository{}
	r := newTestRunner(t, &Options{}, exec, repo)

	err := r.Run(context.Background())
	require.ErrorIs(t, err, errAptBroken)

	// pip was never invoked.
	require.Len(t, exec.calls, 2)

	// The failure is recorded, with the earlier success intact.
	result, ok := repo.saved.StepByName(StepSystemPackage)
	require.True(t, ok)
	require.False(t, result.Completed)
	require.Contains(t, result.Error, "apt exited")

	result, ok = repo.saved.StepByName(StepRefreshIndex)
	require.True(t, ok)
	require.True(t, result.Completed)
}

// TestRun_MissingManifest ensures the python step fails before invoking pip.
func TestRun_MissingManifest(t *testing.T) {
	t.Parallel()

	exec := &fakeRunner{}
	repo := &memoryRepository{}
	opts := &Options{ManifestPath: filepath.Join(t.TempDir(), "absent.txt")}
	r := newTestRunner(t, opts, exec, repo)

	err := r.Run(context.Background())
	require.ErrorIs(t, err, errManifestMissing)

	// Only the two apt steps ran.
	require.Len(t, exec.calls, 2)

	result, ok := repo.saved.StepByName(StepPythonDeps)
	require.True(t, ok)
	require.False(t, result.Completed)
}

// TestRun_OnlyStep reruns a single step, keeping previous history.
func TestRun_OnlyStep(t *testing.T) {
	t.Parallel()

	exec := &fakeRunner{}
	repo := &memoryRepository{
		state: &domain.State{
			Steps: []domain.StepResult{
				{Name: StepRefreshIndex, Completed: true, FinishedAt: time.Now()},
				{Name: StepPythonDeps, Completed: false, Error: "pip exited with status 1"},
			},
		},
	}
	r := newTestRunner(t, &Options{Only: StepPythonDeps}, exec, repo)

	require.NoError(t, r.Run(context.Background()))
	require.Len(t, exec.calls, 1)
	require.True(t, strings.HasPrefix(exec.calls[0], "pip install"))

	// The rerun overwrote the failed record and kept the other step.
	result, ok := repo.saved.StepByName(StepPythonDeps)
	require.True(t, ok)
	require.True(t, result.Completed)
	require.Len(t, repo.saved.Steps, 2)
}

// TestRun_UnknownOnlyStep rejects unknown step names.
func TestRun_UnknownOnlyStep(t *testing.T) {
	t.Parallel()

	r := newTestRunner(t, &Options{Only: "reticulate-splines"}, &fakeRunner{}, &memoryRepository{})

	err := r.Run(context.Background())
	require.ErrorIs(t, err, errUnknownStep)
}

// TestRun_VerifyFailureIsInformational ensures verify never fails the run.
func TestRun_VerifyFailureIsInformational(t *testing.T) {
	t.Parallel()

	exec := &fakeRunner{}
	repo := &memoryRepository{}
	r := newTestRunner(t, &Options{}, exec, repo)
	r.engineAvailable = func() bool { return false }

	require.NoError(t, r.Run(context.Background()))

	result, ok := repo.saved.StepByName(StepVerify)
	require.True(t, ok)
	require.False(t, result.Completed)
	require.Contains(t, result.Error, "not found in PATH")
	require.Empty(t, repo.saved.EngineVersion)
}

// TestRun_SkipVerify omits the verify step entirely.
func TestRun_SkipVerify(t *testing.T) {
	t.Parallel()

	exec := &fakeRunner{}
	repo := &memoryRepository{}
	r := newTestRunner(t, &Options{SkipVerify: true}, exec, repo)

	require.NoError(t, r.Run(context.Background()))
	require.Len(t, repo.saved.Steps, 3)

	_, ok := repo.saved.StepByName(StepVerify)
	require.False(t, ok)
}

// TestRun_SecondRunIsIdempotent executes the sequence twice over the same state.
func TestRun_SecondRunIsIdempotent(t *testing.T) {
	t.Parallel()

	exec := &fakeRunner{}
	repo := &memoryRepository{}
	r := newTestRunner(t, &Options{}, exec, repo)

	require.NoError(t, r.Run(context.Background()))

	repo.state, repo.loadErr = repo.saved, nil
	r2 := newTestRunner(t, &Options{}, exec, repo)
	r2.cfg = r.cfg

	require.NoError(t, r2.Run(context.Background()))
	require.Len(t, repo.saved.Steps, 4)
}

// TestRequireLinux guards the apt steps on other platforms.
func TestRequireLinux(t *testing.T) {
	t.Parallel()

	r := newTestRunner(t, &Options{}, &fakeRunner{}, &memoryRepository{})
	r.osName = "darwin"

	err := r.Run(context.Background())
	require.ErrorIs(t, err, errUnsupportedOS)
}

// TestSteps pins the published step order.
func TestSteps(t *testing.T) {
	t.Parallel()

	require.Equal(t,
		[]string{StepRefreshIndex, StepSystemPackage, StepPythonDeps, StepVerify},
		Steps())
}
