package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// LoadFromEnv applies OPENBOB_* environment overrides on top of c.
// Unset variables leave the existing values alone.
func (c *Config) LoadFromEnv() error {
	if v := os.Getenv("OPENBOB_POLL_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrap(err, "parse OPENBOB_POLL_INTERVAL")
		}
		c.Tracker.PollInterval = d
	}

	if v := os.Getenv("OPENBOB_SIMULATED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrap(err, "parse OPENBOB_SIMULATED")
		}
		c.Source.Simulated = b
	}

	if v := os.Getenv("OPENBOB_MIN_TITLE_LENGTH"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(err, "parse OPENBOB_MIN_TITLE_LENGTH")
		}
		c.Source.MinTitleLength = n
	}

	if v := os.Getenv("OPENBOB_EXCLUDED_TITLES"); v != "" {
		c.Source.ExcludedTitles = splitList(v)
	}

	if v := os.Getenv("OPENBOB_EXCLUDED_CLASSES"); v != "" {
		c.Source.ExcludedClasses = splitList(v)
	}

	if v := os.Getenv("OPENBOB_FRAME_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrap(err, "parse OPENBOB_FRAME_INTERVAL")
		}
		c.Render.FrameInterval = d
	}

	if v := os.Getenv("OPENBOB_SHOW_HIDDEN"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrap(err, "parse OPENBOB_SHOW_HIDDEN")
		}
		c.Render.ShowHidden = b
	}

	if v := os.Getenv("OPENBOB_LOG_DIR"); v != "" {
		c.Log.Dir = v
	}

	if v := os.Getenv("OPENBOB_VERBOSE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrap(err, "parse OPENBOB_VERBOSE")
		}
		c.Log.Verbose = b
	}

	return nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
