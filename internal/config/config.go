// Package config loads and saves the YAML settings of the otfinfo tool.
// It handles loading configuration from YAML files and provides default
// values for every field.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-deconv/dsp/psf"
	"github.com/cwbudde/algo-deconv/dsp/transform"
	"github.com/cwbudde/algo-deconv/dsp/volume"
)

// ErrInvalid is returned by Validate for any rejected value.
var ErrInvalid = errors.New("config: invalid value")

// Precision names accepted in the transform section.
const (
	PrecisionFloat64 = "float64"
	PrecisionFloat32 = "float32"
)

// Provider names accepted in the transform section.
const (
	ProviderAlgoFFT = "algofft"
	ProviderGonum   = "gonum"
)

// Config represents the tool configuration loaded from YAML.
type Config struct {
	// Volume is the grid the round trip runs on.
	Volume struct {
		Geometry transform.Geometry `yaml:"geometry"`
		Voxel    volume.Voxel       `yaml:"voxel"`
	} `yaml:"volume"`

	// PSF describes the sampled Gaussian point-spread function.
	PSF struct {
		Geometry transform.Geometry `yaml:"geometry"`
		Voxel    volume.Voxel       `yaml:"voxel"`
		Sigma    psf.Sigma          `yaml:"sigma"`
	} `yaml:"psf"`

	// Transform selects the FFT precision and provider.
	Transform struct {
		Precision string `yaml:"precision"`
		Provider  string `yaml:"provider"`
	} `yaml:"transform"`

	// Regularization controls spectral division.
	Regularization struct {
		Policy  string  `yaml:"policy"`
		Epsilon float64 `yaml:"epsilon"`
	} `yaml:"regularization"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Volume.Geometry = transform.Geometry{N1: 32, N2: 32, N3: 32}
	cfg.Volume.Voxel = volume.Voxel{V1: 0.2, V2: 0.1, V3: 0.1}

	cfg.PSF.Geometry = transform.Geometry{N1: 15, N2: 15, N3: 15}
	cfg.PSF.Voxel = volume.Voxel{V1: 0.1, V2: 0.05, V3: 0.05}
	cfg.PSF.Sigma = psf.Sigma{S1: 0.3, S2: 0.12, S3: 0.12}

	cfg.Transform.Precision = PrecisionFloat64
	cfg.Transform.Provider = ProviderAlgoFFT

	reg := volume.DefaultRegularization()
	cfg.Regularization.Policy = reg.Policy.String()
	cfg.Regularization.Epsilon = reg.Epsilon

	return cfg
}

// LoadConfig loads configuration from a YAML file. Fields missing from the
// file keep their defaults. If the file does not exist, it returns the
// default configuration.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(configPath)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	return cfg, nil
}

// SaveConfig writes cfg to a YAML file, creating its directory.
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}
	return nil
}

// Validate checks every section. Errors wrap ErrInvalid and, where one
// exists, the domain package's own sentinel.
func (c *Config) Validate() error {
	if err := c.Volume.Geometry.Validate(); err != nil {
		return invalid("volume.geometry", err)
	}
	if err := c.Volume.Voxel.Validate(); err != nil {
		return invalid("volume.voxel", err)
	}
	if err := c.PSF.Geometry.Validate(); err != nil {
		return invalid("psf.geometry", err)
	}
	if err := c.PSF.Voxel.Validate(); err != nil {
		return invalid("psf.voxel", err)
	}
	if err := c.PSF.Sigma.Validate(); err != nil {
		return invalid("psf.sigma", err)
	}

	switch c.precision() {
	case PrecisionFloat64, PrecisionFloat32:
	default:
		return fmt.Errorf("%w: transform.precision %q", ErrInvalid, c.Transform.Precision)
	}
	switch c.provider() {
	case ProviderAlgoFFT:
	case ProviderGonum:
		if c.precision() != PrecisionFloat64 {
			return fmt.Errorf("%w: provider %q supports only %s", ErrInvalid, ProviderGonum, PrecisionFloat64)
		}
	default:
		return fmt.Errorf("%w: transform.provider %q", ErrInvalid, c.Transform.Provider)
	}

	if _, err := c.Regularizer(); err != nil {
		return invalid("regularization", err)
	}
	return nil
}

// Regularizer converts the regularization section.
func (c *Config) Regularizer() (volume.Regularization, error) {
	p, err := volume.ParsePolicy(strings.ToLower(strings.TrimSpace(c.Regularization.Policy)))
	if err != nil {
		return volume.Regularization{}, err
	}
	reg := volume.Regularization{Policy: p, Epsilon: c.Regularization.Epsilon}
	if err := reg.Validate(); err != nil {
		return volume.Regularization{}, err
	}
	return reg, nil
}

// Single reports whether the float32 pipeline is selected.
func (c *Config) Single() bool {
	return c.precision() == PrecisionFloat32
}

// Planner returns the complex128 planner named by the provider field.
func (c *Config) Planner() transform.Planner[complex128] {
	if c.provider() == ProviderGonum {
		return transform.Gonum{}
	}
	return transform.AlgoFFT[complex128]{}
}

func (c *Config) precision() string {
	return strings.ToLower(strings.TrimSpace(c.Transform.Precision))
}

func (c *Config) provider() string {
	return strings.ToLower(strings.TrimSpace(c.Transform.Provider))
}

func invalid(field string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrInvalid, field, err)
}
