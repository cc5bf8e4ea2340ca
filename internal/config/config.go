// Package config loads wavy settings from YAML and command-line flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/olivier-w/wavy/internal/decoder"
	"github.com/olivier-w/wavy/internal/layout"
	"github.com/olivier-w/wavy/internal/render"
	"gopkg.in/yaml.v3"
)

type BarConfig struct {
	Width     float64 `yaml:"width"`
	Gap       float64 `yaml:"gap"`
	MinHeight float64 `yaml:"min_height"`
}

type LogConfig struct {
	File  string `yaml:"file"`
	Level string `yaml:"level"`
	// Development makes DPanic entries panic and adds stack traces to
	// warnings.
	Development bool `yaml:"development"`
}

type Config struct {
	Mode      string    `yaml:"mode"`
	GroupSize int       `yaml:"group_size"`
	Width     int       `yaml:"width"`
	Height    int       `yaml:"height"`
	Policy    string    `yaml:"policy"`
	Spectrum  bool      `yaml:"spectrum"`
	Bars      BarConfig `yaml:"bars"`
	Log       LogConfig `yaml:"log"`
	// Output is the PNG path for headless renders.
	Output string `yaml:"-"`
}

func DefaultConfig() *Config {
	style := layout.DefaultBarStyle()
	return &Config{
		Mode:      render.ModeLine.String(),
		GroupSize: decoder.DefaultGroupSize,
		Width:     800,
		Height:    200,
		Bars: BarConfig{
			Width:     style.Width,
			Gap:       style.Gap,
			MinHeight: style.MinHeight,
		},
		Log: LogConfig{Level: "info"},
	}
}

func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// DefaultPaths lists where TryLoadDefault looks, in order.
func DefaultPaths() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return []string{
		filepath.Join(home, ".config", "wavy", "config.yaml"),
		filepath.Join(home, ".config", "wavy", "config.yml"),
		filepath.Join(home, ".wavy.yaml"),
	}
}

// TryLoadDefault loads the first default config file that exists and
// returns its path, or "" when there is none.
func (c *Config) TryLoadDefault() (string, error) {
	for _, p := range DefaultPaths() {
		if _, err := os.Stat(p); err == nil {
			return p, c.LoadFromFile(p)
		}
	}
	return "", nil
}

// Validate reports settings no render can use.
func (c *Config) Validate() error {
	var errs []error
	mode, modeErr := render.ParseMode(c.Mode)
	if modeErr != nil {
		errs = append(errs, modeErr)
	}
	policy, policyErr := layout.ParsePolicy(c.Policy)
	if policyErr != nil {
		errs = append(errs, policyErr)
	}
	if modeErr == nil && policyErr == nil && !mode.Supports(policy) {
		errs = append(errs, fmt.Errorf("policy %q does not apply to %s mode", c.Policy, mode))
	}
	if c.GroupSize < 1 {
		errs = append(errs, fmt.Errorf("group size must be at least 1, got %d", c.GroupSize))
	}
	if c.Width < 1 || c.Height < 1 {
		errs = append(errs, fmt.Errorf("canvas size must be positive, got %dx%d", c.Width, c.Height))
	}
	if err := c.BarStyle().Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (c *Config) BarStyle() layout.BarStyle {
	return layout.BarStyle{Width: c.Bars.Width, Gap: c.Bars.Gap, MinHeight: c.Bars.MinHeight}
}

// RenderOptions converts the config into render options.
func (c *Config) RenderOptions() (render.Options, error) {
	mode, err := render.ParseMode(c.Mode)
	if err != nil {
		return render.Options{}, err
	}
	policy, err := layout.ParsePolicy(c.Policy)
	if err != nil {
		return render.Options{}, err
	}
	return render.Options{Mode: mode, Style: c.BarStyle(), Policy: policy}, nil
}

// Flags holds the values bound by BindFlags.
type Flags struct {
	ConfigPath string

	mode      string
	groupSize int
	width     int
	height    int
	policy    string
	spectrum  bool
	logFile   string
	logLevel  string
	output    string
}

// BindFlags registers the shared flags on fs.
func BindFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVar(&f.ConfigPath, "config", "", "Path to config file (default: ~/.config/wavy/config.yaml)")
	fs.StringVar(&f.mode, "mode", "", "Rendering mode: line, bars, logbars")
	fs.IntVar(&f.groupSize, "group", 0, fmt.Sprintf("Samples per waveform point (default: %d)", decoder.DefaultGroupSize))
	fs.IntVar(&f.width, "width", 0, "Canvas width in pixels (default: 800)")
	fs.IntVar(&f.height, "height", 0, "Canvas height in pixels (default: 200)")
	fs.StringVar(&f.policy, "policy", "", "Width policy override: fit, clamp, grow")
	fs.BoolVar(&f.spectrum, "spectrum", false, "Render the frequency spectrum of the envelope")
	fs.StringVar(&f.logFile, "log", "", "Write JSON logs to this file")
	fs.StringVar(&f.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	fs.StringVar(&f.output, "o", "", "Output PNG path (render only)")
	return f
}

// Load builds the effective config: defaults, then the config file named by
// -config or the first default file, then every flag set on fs.
func Load(fs *flag.FlagSet, f *Flags) (*Config, error) {
	cfg := DefaultConfig()
	if f.ConfigPath != "" {
		if err := cfg.LoadFromFile(f.ConfigPath); err != nil {
			return nil, err
		}
	} else if _, err := cfg.TryLoadDefault(); err != nil {
		return nil, err
	}
	cfg.ApplyFlags(fs, f)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyFlags overrides config values with the flags explicitly set on fs.
func (c *Config) ApplyFlags(fs *flag.FlagSet, f *Flags) {
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "mode":
			c.Mode = f.mode
		case "group":
			c.GroupSize = f.groupSize
		case "width":
			c.Width = f.width
		case "height":
			c.Height = f.height
		case "policy":
			c.Policy = f.policy
		case "spectrum":
			c.Spectrum = f.spectrum
		case "log":
			c.Log.File = f.logFile
		case "log-level":
			c.Log.Level = f.logLevel
		case "o":
			c.Output = f.output
		}
	})
}
