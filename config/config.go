// Package config loads and validates forcegraph settings from YAML or TOML
// files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/TFMV/forcegraph/physics"
)

var validate = validator.New()

// Config is the full application configuration.
type Config struct {
	Physics    physics.Parameters `yaml:"physics" toml:"physics"`
	Simulation Simulation         `yaml:"simulation" toml:"simulation"`
	Render     Render             `yaml:"render" toml:"render"`
	Server     Server             `yaml:"server" toml:"server"`
}

// Simulation controls how a layout is driven.
type Simulation struct {
	// Preset names the parameter set that physics values in the same file
	// are applied on top of.
	Preset string `yaml:"preset" toml:"preset" validate:"omitempty,oneof=default relaxed"`
	// DT is the time step per simulation step, in seconds.
	DT float64 `yaml:"dt" toml:"dt" validate:"gt=0"`
	// Steps bounds a batch layout.
	Steps int `yaml:"steps" toml:"steps" validate:"gt=0"`
	// Threshold is the kinetic energy below which a batch layout stops early.
	Threshold     float64 `yaml:"threshold" toml:"threshold" validate:"gte=0"`
	Seed          int64   `yaml:"seed" toml:"seed"`
	ScatterRadius float64 `yaml:"scatter_radius" toml:"scatter_radius" validate:"gte=0"`
}

// Render holds output settings.
type Render struct {
	Format      string  `yaml:"format" toml:"format" validate:"oneof=svg ascii json dot"`
	Width       float64 `yaml:"width" toml:"width" validate:"gt=0"`
	Height      float64 `yaml:"height" toml:"height" validate:"gt=0"`
	ColorScheme string  `yaml:"color_scheme" toml:"color_scheme" validate:"omitempty,oneof=default light dark"`
	Labels      bool    `yaml:"labels" toml:"labels"`
}

// Server holds settings for the HTTP server and live views.
type Server struct {
	Port int `yaml:"port" toml:"port" validate:"gte=1,lte=65535"`
	FPS  int `yaml:"fps" toml:"fps" validate:"gte=1,lte=240"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Physics: physics.DefaultParameters(),
		Simulation: Simulation{
			Preset:    "default",
			DT:        0.016,
			Steps:     2000,
			Threshold: 0.01,
			Seed:      1,
		},
		Render: Render{
			Format: "svg",
			Width:  800,
			Height: 600,
			Labels: true,
		},
		Server: Server{
			Port: 8080,
			FPS:  30,
		},
	}
}

// Load reads a configuration file. The format follows the extension: .yaml,
// .yml or .toml. Values missing from the file keep their defaults, and
// physics values start from the file's preset.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var decode func(data []byte, v any, strict bool) error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		decode = decodeYAML
	case ".toml":
		decode = decodeTOML
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}

	var head struct {
		Simulation struct {
			Preset string `yaml:"preset" toml:"preset"`
		} `yaml:"simulation" toml:"simulation"`
	}
	if err := decode(data, &head, false); err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	cfg := Default()
	if err := cfg.ApplyPreset(head.Simulation.Preset); err != nil {
		return nil, err
	}
	if err := decode(data, cfg, true); err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyPreset replaces the physics parameters with a named set. An empty
// name leaves the configuration unchanged.
func (c *Config) ApplyPreset(name string) error {
	if name == "" {
		return nil
	}
	p, err := physics.Preset(name)
	if err != nil {
		return err
	}
	c.Physics = p
	c.Simulation.Preset = name
	return nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func decodeYAML(data []byte, v any, strict bool) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(strict)
	// An empty document decodes to io.EOF and leaves the defaults.
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("error parsing YAML: %w", err)
	}
	return nil
}

func decodeTOML(data []byte, v any, strict bool) error {
	md, err := toml.Decode(string(data), v)
	if err != nil {
		return fmt.Errorf("error parsing TOML: %w", err)
	}
	if undecoded := md.Undecoded(); strict && len(undecoded) > 0 {
		return fmt.Errorf("error parsing TOML: unknown keys %v", undecoded)
	}
	return nil
}
