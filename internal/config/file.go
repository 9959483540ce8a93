package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// UnmarshalYAML accepts poll_interval as a duration string like "500ms".
func (t *TrackerConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		PollInterval string `yaml:"poll_interval"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.PollInterval != "" {
		d, err := time.ParseDuration(raw.PollInterval)
		if err != nil {
			return errors.Wrap(err, "parse tracker.poll_interval")
		}
		t.PollInterval = d
	}
	return nil
}

// UnmarshalYAML accepts frame_interval as a duration string.
func (r *RenderConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		FrameInterval string `yaml:"frame_interval"`
		ShowHidden    *bool  `yaml:"show_hidden"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.FrameInterval != "" {
		d, err := time.ParseDuration(raw.FrameInterval)
		if err != nil {
			return errors.Wrap(err, "parse render.frame_interval")
		}
		r.FrameInterval = d
	}
	if raw.ShowHidden != nil {
		r.ShowHidden = *raw.ShowHidden
	}
	return nil
}

// LoadFile merges the YAML file at path into c. A missing file is not an
// error when optional is true.
func (c *Config) LoadFile(path string, optional bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if optional && os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "read config file %s", path)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return errors.Wrapf(err, "parse config file %s", path)
	}
	return nil
}

// Load builds the effective configuration: defaults, then the optional file,
// then environment overrides, then validation.
func Load(path string) (*Config, error) {
	c := Default()

	if path != "" {
		if err := c.LoadFile(path, false); err != nil {
			return nil, err
		}
	}
	if err := c.LoadFromEnv(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
