package config

import (
	"fmt"
	"net/url"
	"strings"
)

var validFormats = map[string]struct{}{
	"9:16": {},
	"1:1":  {},
	"16:9": {},
}

var validDurations = map[int]struct{}{
	5:  {},
	10: {},
	30: {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateAPI(); err != nil {
		return err
	}
	if err := c.validateCreate(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateAPI() error {
	parsed, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("api.base_url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("api.base_url must be an http(s) URL, got %q", c.API.BaseURL)
	}
	if parsed.Host == "" {
		return fmt.Errorf("api.base_url is missing a host: %q", c.API.BaseURL)
	}
	return nil
}

func (c *Config) validateCreate() error {
	if _, ok := validFormats[c.Create.Format]; !ok {
		return fmt.Errorf("create.format must be one of 9:16, 1:1, 16:9, got %q", c.Create.Format)
	}
	if _, ok := validDurations[c.Create.VideoDuration]; !ok {
		return fmt.Errorf("create.video_duration must be one of 5, 10, 30, got %d", c.Create.VideoDuration)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
