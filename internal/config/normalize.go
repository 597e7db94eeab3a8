package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeAPI()
	c.normalizeDashboard()
	c.normalizeCreate()
	c.normalizeScript()
	c.normalizeCheckout()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeAPI() {
	c.API.BaseURL = strings.TrimRight(strings.TrimSpace(c.API.BaseURL), "/")
	if c.API.BaseURL == "" {
		c.API.BaseURL = defaultAPIBaseURL
	}
	if c.API.RequestTimeout <= 0 {
		c.API.RequestTimeout = defaultRequestTimeout
	}
	if c.API.RatePerSecond <= 0 {
		c.API.RatePerSecond = defaultRatePerSecond
	}
	if c.API.RateBurst <= 0 {
		c.API.RateBurst = defaultRateBurst
	}
}

func (c *Config) normalizeDashboard() {
	if c.Dashboard.PollInterval <= 0 {
		c.Dashboard.PollInterval = defaultPollInterval
	}
	if c.Dashboard.PageLimit <= 0 {
		c.Dashboard.PageLimit = defaultPageLimit
	}
}

func (c *Config) normalizeCreate() {
	c.Create.Language = strings.ToLower(strings.TrimSpace(c.Create.Language))
	if c.Create.Language == "" {
		c.Create.Language = defaultLanguage
	}
	c.Create.Format = strings.TrimSpace(c.Create.Format)
	if c.Create.Format == "" {
		c.Create.Format = defaultFormat
	}
	if c.Create.VideoDuration <= 0 {
		c.Create.VideoDuration = defaultVideoDuration
	}
}

func (c *Config) normalizeScript() {
	if c.Script.GenerateDelayMillis < 0 {
		c.Script.GenerateDelayMillis = 0
	}
}

func (c *Config) normalizeCheckout() {
	c.Checkout.CallbackBind = strings.TrimSpace(c.Checkout.CallbackBind)
	if c.Checkout.CallbackBind == "" {
		c.Checkout.CallbackBind = defaultCallbackBind
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
