// Package config holds runtime configuration: defaults, an optional YAML
// file, and OPENBOB_* environment overrides, applied in that order.
package config

import (
	"time"

	"github.com/pkg/errors"

	"github.com/openbob/openbob/pkg/window"
)

// OwnTitle is the title of this program's own console window. It is excluded
// from tracking so the tracker never accounts for itself.
const OwnTitle = "OpenBob"

// Config is the full runtime configuration.
type Config struct {
	Tracker TrackerConfig `yaml:"tracker"`
	Source  SourceConfig  `yaml:"source"`
	Render  RenderConfig  `yaml:"render"`
	Log     LogConfig     `yaml:"log"`
}

// TrackerConfig controls the reconciliation loop.
type TrackerConfig struct {
	PollInterval time.Duration `yaml:"poll_interval"`
}

// SourceConfig controls backend selection and window eligibility.
type SourceConfig struct {
	// Simulated forces the simulation even when a native backend works.
	Simulated       bool     `yaml:"simulated"`
	MinTitleLength  int      `yaml:"min_title_length"`
	ExcludedTitles  []string `yaml:"excluded_titles"`
	ExcludedClasses []string `yaml:"excluded_classes"`
}

// RenderConfig controls the console view.
type RenderConfig struct {
	FrameInterval time.Duration `yaml:"frame_interval"`
	// ShowHidden keeps closed windows in the view, dimmed, instead of
	// omitting them.
	ShowHidden bool `yaml:"show_hidden"`
}

// LogConfig controls the rotating log file and console verbosity.
type LogConfig struct {
	Dir      string `yaml:"dir"`
	Verbose  bool   `yaml:"verbose"`
	Compress bool   `yaml:"compress"`
}

const (
	minPollInterval = 100 * time.Millisecond
	maxPollInterval = time.Minute
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Tracker: TrackerConfig{
			PollInterval: time.Second,
		},
		Source: SourceConfig{
			MinTitleLength: 1,
			ExcludedTitles: []string{
				OwnTitle,
				"Program Manager",
				"Windows Input Experience",
				"Microsoft Text Input Application",
				"Desktop",
			},
			ExcludedClasses: []string{
				"Shell_TrayWnd",
				"Shell_SecondaryTrayWnd",
				"SysShadow",
				"Progman",
				"WorkerW",
				"DV2ControlHost",
				"Windows.UI.Core.CoreWindow",
			},
		},
		Render: RenderConfig{
			FrameInterval: time.Second,
		},
		Log: LogConfig{},
	}
}

// Validate checks the configuration for values the engine cannot run with.
func (c *Config) Validate() error {
	if c.Tracker.PollInterval < minPollInterval {
		return errors.Errorf("tracker.poll_interval %s is below the minimum %s",
			c.Tracker.PollInterval, minPollInterval)
	}
	if c.Tracker.PollInterval > maxPollInterval {
		return errors.Errorf("tracker.poll_interval %s is above the maximum %s",
			c.Tracker.PollInterval, maxPollInterval)
	}
	if c.Source.MinTitleLength < 0 {
		return errors.Errorf("source.min_title_length must not be negative, got %d",
			c.Source.MinTitleLength)
	}
	if c.Render.FrameInterval <= 0 {
		return errors.Errorf("render.frame_interval must be positive, got %s",
			c.Render.FrameInterval)
	}
	return nil
}

// Filter builds the window eligibility filter from the source settings.
func (c *Config) Filter() window.Filter {
	return window.Filter{
		MinTitleLength:  c.Source.MinTitleLength,
		ExcludedTitles:  c.Source.ExcludedTitles,
		ExcludedClasses: c.Source.ExcludedClasses,
	}
}
