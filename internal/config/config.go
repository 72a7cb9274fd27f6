// Package config loads tool settings from file and environment.
//
// Settings come from a YAML file (explicit path, or a discovered
// flowgraph.yaml), overridden by FLOWGRAPH_* environment variables.
// Every knob has a default, so running with no config at all works.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/chartwright/flowgraph/internal/pipeline"
)

// Config holds all tool configuration.
type Config struct {
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	OCR      OCRConfig      `mapstructure:"ocr"`
	Render   RenderConfig   `mapstructure:"render"`
}

// PipelineConfig tunes graph reconstruction.
type PipelineConfig struct {
	MinConfidence   float64 `mapstructure:"min_confidence"`
	IoUThreshold    float64 `mapstructure:"iou_threshold"`
	MarginFrac      float64 `mapstructure:"margin_frac"`
	MaxRadiusFrac   float64 `mapstructure:"max_radius_frac"`
	MaxBranch       int     `mapstructure:"max_branch"`
	OCRPadding      float64 `mapstructure:"ocr_padding"`
	CollapseChains  bool    `mapstructure:"collapse_chains"`
	ChainRadiusFrac float64 `mapstructure:"chain_radius_frac"`
}

// OCRConfig tunes label recognition.
type OCRConfig struct {
	// Enabled turns label recognition on for commands that support it.
	Enabled bool `mapstructure:"enabled"`

	// Language is the Tesseract language code.
	Language string `mapstructure:"language"`

	// Threshold is the black-and-white cutoff for crop preparation,
	// 0 to 255.
	Threshold int `mapstructure:"threshold"`
}

// RenderConfig tunes recreation plans.
type RenderConfig struct {
	// SampleFills colors shapes from the source image instead of the
	// class palette.
	SampleFills bool `mapstructure:"sample_fills"`
}

// PipelineOptions converts the configured pipeline section into
// reconstruction options.
func (c *Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		MinConfidence:   c.Pipeline.MinConfidence,
		IoUThreshold:    c.Pipeline.IoUThreshold,
		MarginFrac:      c.Pipeline.MarginFrac,
		MaxRadiusFrac:   c.Pipeline.MaxRadiusFrac,
		MaxBranch:       c.Pipeline.MaxBranch,
		OCRPadding:      c.Pipeline.OCRPadding,
		CollapseChains:  c.Pipeline.CollapseChains,
		ChainRadiusFrac: c.Pipeline.ChainRadiusFrac,
	}
}

// Validate checks configuration for issues and returns warnings.
func (c *Config) Validate() []string {
	var warnings []string

	if c.Pipeline.MinConfidence < 0 || c.Pipeline.MinConfidence > 1 {
		warnings = append(warnings, fmt.Sprintf("pipeline min_confidence %.2f is outside [0, 1]", c.Pipeline.MinConfidence))
	}
	if c.Pipeline.IoUThreshold < 0 || c.Pipeline.IoUThreshold > 1 {
		warnings = append(warnings, fmt.Sprintf("pipeline iou_threshold %.2f is outside [0, 1]", c.Pipeline.IoUThreshold))
	}
	if c.Pipeline.MarginFrac < 0 {
		warnings = append(warnings, fmt.Sprintf("pipeline margin_frac %.2f is negative", c.Pipeline.MarginFrac))
	}
	if c.Pipeline.MaxRadiusFrac < 0 {
		warnings = append(warnings, fmt.Sprintf("pipeline max_radius_frac %.2f is negative", c.Pipeline.MaxRadiusFrac))
	}
	if c.Pipeline.MaxBranch < 2 {
		warnings = append(warnings, fmt.Sprintf("pipeline max_branch %d allows fewer than two decision branches", c.Pipeline.MaxBranch))
	}
	if c.Pipeline.CollapseChains && c.Pipeline.ChainRadiusFrac <= 0 {
		warnings = append(warnings, "pipeline collapse_chains is on but chain_radius_frac is not positive")
	}
	if c.OCR.Threshold < 0 || c.OCR.Threshold > 255 {
		warnings = append(warnings, fmt.Sprintf("ocr threshold %d is outside [0, 255]", c.OCR.Threshold))
	}

	return warnings
}

// Default returns the built-in configuration, the same values Load
// yields when no file or environment override is present.
func Default() *Config {
	d := pipeline.DefaultOptions()
	return &Config{
		Pipeline: PipelineConfig{
			MinConfidence:   d.MinConfidence,
			IoUThreshold:    d.IoUThreshold,
			MarginFrac:      d.MarginFrac,
			MaxRadiusFrac:   d.MaxRadiusFrac,
			MaxBranch:       d.MaxBranch,
			OCRPadding:      d.OCRPadding,
			CollapseChains:  d.CollapseChains,
			ChainRadiusFrac: d.ChainRadiusFrac,
		},
		OCR: OCRConfig{
			Enabled:   true,
			Language:  "eng",
			Threshold: 128,
		},
	}
}

// Load reads configuration from file and environment.
//
// With a non-empty path the file must exist and parse. With an empty
// path, Load looks for flowgraph.yaml in the working directory and
// under ~/.config/flowgraph, and silently falls back to defaults when
// neither exists.
func Load(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("flowgraph")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "flowgraph"))
		}
	}
	v.SetEnvPrefix("FLOWGRAPH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	defaults := pipeline.DefaultOptions()

	v.SetDefault("pipeline.min_confidence", defaults.MinConfidence)
	v.SetDefault("pipeline.iou_threshold", defaults.IoUThreshold)
	v.SetDefault("pipeline.margin_frac", defaults.MarginFrac)
	v.SetDefault("pipeline.max_radius_frac", defaults.MaxRadiusFrac)
	v.SetDefault("pipeline.max_branch", defaults.MaxBranch)
	v.SetDefault("pipeline.ocr_padding", defaults.OCRPadding)
	v.SetDefault("pipeline.collapse_chains", defaults.CollapseChains)
	v.SetDefault("pipeline.chain_radius_frac", defaults.ChainRadiusFrac)

	v.SetDefault("ocr.enabled", true)
	v.SetDefault("ocr.language", "eng")
	v.SetDefault("ocr.threshold", 128)

	v.SetDefault("render.sample_fills", false)
}
