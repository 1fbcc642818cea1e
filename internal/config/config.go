// Package config loads, validates and persists explorer configuration.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/citsigol/internal/bifurc"
)

const (
	DefaultBurnIn      = 200
	DefaultSamples     = 100
	DefaultMaxBranches = 1024
	DefaultEpsilonBase = 1.0
	DefaultWidth       = 120
	DefaultHeight      = 40
	DefaultSeed        = 0.5
)

type Config struct {
	Map      string         `yaml:"map" validate:"required,oneof=logistic"`
	Mode     string         `yaml:"mode" validate:"oneof=forward reverse"`
	View     ViewConfig     `yaml:"view"`
	Sampling SamplingConfig `yaml:"sampling"`
}

type ViewConfig struct {
	RMin   float64 `yaml:"r_min"`
	RMax   float64 `yaml:"r_max" validate:"gtfield=RMin"`
	XMin   float64 `yaml:"x_min"`
	XMax   float64 `yaml:"x_max" validate:"gtfield=XMin"`
	Width  int     `yaml:"width" validate:"gt=0"`
	Height int     `yaml:"height" validate:"gt=0"`
}

type SamplingConfig struct {
	BurnIn      int       `yaml:"burn_in" validate:"gte=0"`
	Samples     int       `yaml:"samples" validate:"gt=0"`
	MaxBranches int       `yaml:"max_branches" validate:"gt=0"`
	EpsilonBase float64   `yaml:"epsilon_base" validate:"gt=0"`
	Seeds       []float64 `yaml:"seeds" validate:"required,min=1"`
	Workers     int       `yaml:"workers" validate:"gte=0"`
}

func DefaultConfig() *Config {
	return &Config{
		Map:  "logistic",
		Mode: "forward",
		View: ViewConfig{
			RMin: 0, RMax: 4,
			XMin: 0, XMax: 1,
			Width:  DefaultWidth,
			Height: DefaultHeight,
		},
		Sampling: SamplingConfig{
			BurnIn:      DefaultBurnIn,
			Samples:     DefaultSamples,
			MaxBranches: DefaultMaxBranches,
			EpsilonBase: DefaultEpsilonBase,
			Seeds:       []float64{DefaultSeed},
		},
	}
}

var validate = validator.New()

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Window translates the view section into a sampler window.
func (c *Config) Window() bifurc.Window {
	return bifurc.Window{
		RMin: c.View.RMin, RMax: c.View.RMax,
		XMin: c.View.XMin, XMax: c.View.XMax,
		Cols: c.View.Width, Rows: c.View.Height,
	}
}

// SamplerConfig translates the sampling section into a sampler config.
func (c *Config) SamplerConfig() bifurc.Config {
	mode := bifurc.ModeForward
	if c.Mode == "reverse" {
		mode = bifurc.ModeReverse
	}
	return bifurc.Config{
		Mode:        mode,
		BurnIn:      c.Sampling.BurnIn,
		Samples:     c.Sampling.Samples,
		MaxBranches: c.Sampling.MaxBranches,
		EpsilonBase: c.Sampling.EpsilonBase,
		Seeds:       c.Sampling.Seeds,
		Workers:     c.Sampling.Workers,
	}
}
