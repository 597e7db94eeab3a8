package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// API contains backend connection settings.
type API struct {
	BaseURL        string `toml:"base_url"`
	RequestTimeout int    `toml:"request_timeout"`
	RatePerSecond  int    `toml:"rate_per_second"`
	RateBurst      int    `toml:"rate_burst"`
}

// Paths contains local directory configuration.
type Paths struct {
	StateDir string `toml:"state_dir"`
	LogDir   string `toml:"log_dir"`
}

// Dashboard contains settings for the video list views.
type Dashboard struct {
	PollInterval int `toml:"poll_interval"`
	PageLimit    int `toml:"page_limit"`
}

// Create contains defaults applied by the creation wizard.
type Create struct {
	Language      string `toml:"language"`
	Format        string `toml:"format"`
	VideoDuration int    `toml:"video_duration"`
}

// Script contains settings for the local script generator.
type Script struct {
	GenerateDelayMillis int `toml:"generate_delay_millis"`
}

// Checkout contains settings for the hosted checkout flow.
type Checkout struct {
	CallbackBind string `toml:"callback_bind"`
	OpenBrowser  bool   `toml:"open_browser"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for the Genvid CLI.
//
// Configuration sections by subsystem:
//   - API: backend base URL, timeouts, and client-side rate limiting
//   - Paths: state database and log directories
//   - Dashboard: video list polling interval and page size
//   - Create: wizard defaults (language, format, duration)
//   - Script: local script generator behavior
//   - Checkout: hosted checkout callback listener and browser opening
//   - Logging: log format and level
type Config struct {
	API       API       `toml:"api"`
	Paths     Paths     `toml:"paths"`
	Dashboard Dashboard `toml:"dashboard"`
	Create    Create    `toml:"create"`
	Script    Script    `toml:"script"`
	Checkout  Checkout  `toml:"checkout"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/genvid/config.toml")
}

// Load locates, parses, and validates a configuration file. Environment
// variables (optionally sourced from a .env file in the working directory)
// override file values. The returned config has all path fields expanded.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	// A missing .env file is not an error.
	_ = godotenv.Load()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func (c *Config) applyEnvOverrides() {
	if v := strings.TrimSpace(os.Getenv("GENVID_API_URL")); v != "" {
		c.API.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("GENVID_STATE_DIR")); v != "" {
		c.Paths.StateDir = v
	}
	if v := strings.TrimSpace(os.Getenv("GENVID_LOG_LEVEL")); v != "" {
		c.Logging.Level = v
	}
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	_, err = os.Stat(defaultPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return defaultPath, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	return defaultPath, true, nil
}

// WriteSample writes the embedded sample configuration to the given path.
// It refuses to overwrite an existing file.
func WriteSample(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("ensure config directory: %w", err)
	}
	if _, err := os.Stat(expanded); err == nil {
		return fmt.Errorf("config file already exists at %s", expanded)
	}
	return os.WriteFile(expanded, []byte(sampleConfig), 0o644)
}

// EnsureDirectories creates the state and log directories when missing.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", nil
	}
	if trimmed == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		return home, nil
	}
	if strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		return filepath.Join(home, trimmed[2:]), nil
	}
	return filepath.Abs(trimmed)
}

// ExpandPath exposes tilde/relative path expansion to other packages.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}
