package config

import (
	"errors"
	"fmt"
	"math"
	"regexp"
)

var bitratePattern = regexp.MustCompile(`^[1-9][0-9]*k?$`)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateAudio(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateAudio() error {
	if c.Audio.SampleRate < 0 {
		return errors.New("audio.sample_rate must be 0 (native) or positive")
	}
	if c.Audio.Channels < 0 || c.Audio.Channels > 8 {
		return errors.New("audio.channels must be between 0 (native) and 8")
	}
	if math.IsNaN(c.Audio.TargetDBFS) || math.IsInf(c.Audio.TargetDBFS, 0) || c.Audio.TargetDBFS > 0 {
		return errors.New("audio.target_dbfs must be a finite value at or below 0")
	}
	if !bitratePattern.MatchString(c.Audio.Bitrate) {
		return fmt.Errorf("audio.bitrate %q must look like 128k or 128000", c.Audio.Bitrate)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format %q must be console or json", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level %q must be debug, info, warn or error", c.Logging.Level)
	}
	return nil
}
