package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds machine provisioning and extraction parameters shared by the labkit binaries.
type Config struct {
	// ManifestPath is the path to the pip requirements file installed on lab machines.
	ManifestPath string `yaml:"manifest_path"`
	// SystemPackage is the OS package providing the OCR engine.
	SystemPackage string `yaml:"system_package"`
	// PipCommand is the Python package manager executable to invoke.
	PipCommand string `yaml:"pip_command"`
	// UpdateFolder is the URL where update artifacts are hosted.
	UpdateFolder string `yaml:"update_folder"`
	// Languages lists OCR language hints passed to the engine (e.g. "eng").
	Languages []string `yaml:"languages"`
	// StateFile is the path to the JSON file recording provisioning results.
	StateFile string `yaml:"state_file"`
	// CommandTimeout bounds each external package manager invocation.
	CommandTimeout time.Duration `yaml:"command_timeout"`
	// UpdateType is set at runtime by the updater to pick a role-specific
	// file set from the update manifest. It is not persisted to YAML.
	UpdateType string `yaml:"-"`
}

const (
	// DefaultConfigFilename is the default filename for labkit settings.
	DefaultConfigFilename = "labkit-settings.yaml"

	// DefaultManifestFilename is the default pip requirements file name.
	DefaultManifestFilename = "requirements.txt"

	// DefaultSystemPackage is the OCR engine package installed via apt-get.
	DefaultSystemPackage = "tesseract-ocr"

	// DefaultPipCommand is the Python package manager used for manifest installs.
	DefaultPipCommand = "pip"

	// DefaultStateFilename is the default filename for provisioning state JSON.
	DefaultStateFilename = "labkit-provision-state.json"

	// DefaultCommandTimeout bounds a single package manager run.
	// Index refreshes and installs on slow mirrors can take minutes.
	DefaultCommandTimeout = 10 * time.Minute

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
)

// Default returns a configuration populated with the defaults used when no
// settings file is present on the machine.
func Default() *Config {
	cfg := new(Config)
	applyDefaults(cfg)

	return cfg
}

// Load reads configuration from the provided path and validates essential fields.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadOrDefault behaves like Load but falls back to defaults when the default
// settings file does not exist. An explicitly provided path must exist.
func LoadOrDefault(path string) (*Config, error) {
	lookupPath := path
	if lookupPath == "" {
		lookupPath = DefaultConfigFilename
	}

	if _, err := os.Stat(lookupPath); errors.Is(err, os.ErrNotExist) && path == "" {
		return Default(), nil
	}

	return Load(lookupPath)
}

// Save writes settings to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate fills in defaults for omitted fields and checks formatting of the rest.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	applyDefaults(cfg)

	if cfg.UpdateFolder == "" {
		return nil
	}

	if _, err := url.ParseRequestURI(cfg.UpdateFolder); err != nil {
		return fmt.Errorf("invalid update folder URI: %w", err)
	}

	return nil
}

// applyDefaults replaces zero values with the package defaults.
func applyDefaults(cfg *Config) {
	if cfg.ManifestPath == "" {
		cfg.ManifestPath = DefaultManifestFilename
	}

	if cfg.SystemPackage == "" {
		cfg.SystemPackage = DefaultSystemPackage
	}

	if cfg.PipCommand == "" {
		cfg.PipCommand = DefaultPipCommand
	}

	if cfg.StateFile == "" {
		cfg.StateFile = DefaultStateFilename
	}

	if cfg.CommandTimeout <= 0 {
		cfg.CommandTimeout = DefaultCommandTimeout
	}
}
