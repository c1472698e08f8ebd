// Package projectconfig provides the ProjectConfig struct and loader for
// .scorer.yaml project-level configuration files.
package projectconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nirmaan/scorer/internal/validation"
	"gopkg.in/yaml.v3"
)

// FileName is the project configuration file looked up by Load.
const FileName = ".scorer.yaml"

// Default values for project configuration. New references them; no other
// code should duplicate them.
const (
	DefaultBaseURL     = "http://localhost:8000"
	DefaultTimeout     = 0
	DefaultDurationSec = 52.0
)

// Environment variables that override the file.
const (
	EnvBaseURL     = "SCORER_BASE_URL"
	EnvTimeout     = "SCORER_TIMEOUT"
	EnvDurationSec = "SCORER_DURATION_SEC"
)

// ServerConfig holds the scoring service location.
type ServerConfig struct {
	BaseURL string `yaml:"base_url,omitempty"`
	// Timeout is in seconds; 0 disables the client timeout.
	Timeout int `yaml:"timeout,omitempty"`
}

// DefaultsConfig holds default submission parameters.
type DefaultsConfig struct {
	// DurationSec is a pointer so an explicit 0 survives the merge; the
	// service estimates the duration itself for values <= 0.
	DurationSec *float64 `yaml:"duration_sec,omitempty"`
	Summary     *bool   `yaml:"summary,omitempty"`
}

// ProjectConfig is the top-level configuration loaded from .scorer.yaml.
type ProjectConfig struct {
	Server   ServerConfig   `yaml:"server,omitempty"`
	Defaults DefaultsConfig `yaml:"defaults,omitempty"`

	// Path is the file the config was read from; empty for defaults.
	Path string `yaml:"-"`
}

// New returns a ProjectConfig with all hard-coded defaults populated.
func New() *ProjectConfig {
	return &ProjectConfig{
		Server: ServerConfig{
			BaseURL: DefaultBaseURL,
			Timeout: DefaultTimeout,
		},
		Defaults: DefaultsConfig{
			DurationSec: float64Ptr(DefaultDurationSec),
			Summary:     boolPtr(false),
		},
	}
}

// Load finds .scorer.yaml by walking up from startDir (max 10 levels),
// validates and unmarshals it, and fills in missing fields with defaults.
// If no config file is found, returns defaults with a nil error.
func Load(startDir string) (*ProjectConfig, error) {
	cfg := New()

	p, data, err := findConfigFile(startDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("loading %s: %w", FileName, err)
	}

	fileCfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}

	mergeConfig(cfg, fileCfg)
	cfg.Path = p
	return cfg, nil
}

// LoadFile reads an explicit config file.
func LoadFile(p string) (*ProjectConfig, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", p, err)
	}
	fileCfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	cfg := New()
	mergeConfig(cfg, fileCfg)
	cfg.Path = p
	return cfg, nil
}

// SchemaError lists the schema violations of a config file.
type SchemaError struct {
	Problems []string
}

func (e *SchemaError) Error() string {
	return "invalid config:\n  " + strings.Join(e.Problems, "\n  ")
}

// Parse validates data against the config schema and unmarshals it without
// applying defaults.
func Parse(data []byte) (*ProjectConfig, error) {
	if problems := validation.ValidateConfigBytes(data); len(problems) > 0 {
		return nil, &SchemaError{Problems: problems}
	}
	var fileCfg ProjectConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &fileCfg, nil
}

// ApplyEnv overlays environment overrides read through lookup.
func (c *ProjectConfig) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvBaseURL); ok && strings.TrimSpace(v) != "" {
		c.Server.BaseURL = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvTimeout); ok && strings.TrimSpace(v) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n < 0 {
			return fmt.Errorf("%s must be a non-negative number of seconds, got %q", EnvTimeout, v)
		}
		c.Server.Timeout = n
	}
	if v, ok := lookup(EnvDurationSec); ok && strings.TrimSpace(v) != "" {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || f < 0 {
			return fmt.Errorf("%s must be a non-negative number, got %q", EnvDurationSec, v)
		}
		c.Defaults.DurationSec = &f
	}
	return nil
}

// Find returns the path of the .scorer.yaml that Load would read from
// startDir, or os.ErrNotExist.
func Find(startDir string) (string, error) {
	p, _, err := findConfigFile(startDir)
	return p, err
}

// findConfigFile walks up from dir looking for .scorer.yaml (max 10 levels).
// Returns os.ErrNotExist if no config file is found. Propagates real I/O
// errors (e.g. permission denied) instead of silently swallowing them.
func findConfigFile(dir string) (string, []byte, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", nil, fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = absDir

	for i := 0; i < 10; i++ {
		p := filepath.Join(dir, FileName)
		data, err := os.ReadFile(p)
		if err == nil {
			return p, data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", nil, fmt.Errorf("reading %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break // reached filesystem root
		}
		dir = parent
	}
	return "", nil, os.ErrNotExist
}

// mergeConfig overlays non-zero values from src onto dst.
func mergeConfig(dst, src *ProjectConfig) {
	if src.Server.BaseURL != "" {
		dst.Server.BaseURL = src.Server.BaseURL
	}
	if src.Server.Timeout != 0 {
		dst.Server.Timeout = src.Server.Timeout
	}

	if src.Defaults.DurationSec != nil {
		dst.Defaults.DurationSec = src.Defaults.DurationSec
	}
	if src.Defaults.Summary != nil {
		dst.Defaults.Summary = src.Defaults.Summary
	}
}

func boolPtr(b bool) *bool {
	return &b
}

func float64Ptr(f float64) *float64 {
	return &f
}
