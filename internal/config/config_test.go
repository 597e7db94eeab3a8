package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"genvid/internal/config"
)

func TestLoadWithoutFileUsesDefaultsAndExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("GENVID_API_URL", "")
	t.Setenv("GENVID_STATE_DIR", "")
	t.Setenv("GENVID_LOG_LEVEL", "")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	if cfg.API.BaseURL != "http://localhost:8080" {
		t.Fatalf("unexpected base url: %q", cfg.API.BaseURL)
	}
	wantState := filepath.Join(tempHome, ".local", "share", "genvid")
	if cfg.Paths.StateDir != wantState {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, wantState)
	}
	if cfg.Dashboard.PollInterval != 5 {
		t.Fatalf("unexpected poll interval: %d", cfg.Dashboard.PollInterval)
	}
	if cfg.Create.Language != "zh" {
		t.Fatalf("unexpected default language: %q", cfg.Create.Language)
	}
	if cfg.Create.Format != "9:16" {
		t.Fatalf("unexpected default format: %q", cfg.Create.Format)
	}
	if cfg.Script.GenerateDelayMillis != 1500 {
		t.Fatalf("unexpected generate delay: %d", cfg.Script.GenerateDelayMillis)
	}
}

func TestLoadParsesFileAndAppliesEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := strings.Join([]string{
		"[api]",
		`base_url = "https://api.example.com/"`,
		"[dashboard]",
		"poll_interval = 2",
		"[create]",
		`format = "16:9"`,
		"video_duration = 10",
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("GENVID_API_URL", "https://override.example.com")

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if cfg.API.BaseURL != "https://override.example.com" {
		t.Fatalf("env override not applied: %q", cfg.API.BaseURL)
	}
	if cfg.Dashboard.PollInterval != 2 {
		t.Fatalf("poll interval not read: %d", cfg.Dashboard.PollInterval)
	}
	if cfg.Create.Format != "16:9" {
		t.Fatalf("format not read: %q", cfg.Create.Format)
	}
	if cfg.Create.VideoDuration != 10 {
		t.Fatalf("duration not read: %d", cfg.Create.VideoDuration)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("GENVID_API_URL", "")
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "bad scheme",
			content: "[api]\nbase_url = \"ftp://example.com\"\n",
			wantErr: "api.base_url",
		},
		{
			name:    "bad format",
			content: "[create]\nformat = \"4:3\"\n",
			wantErr: "create.format",
		},
		{
			name:    "bad duration",
			content: "[create]\nvideo_duration = 7\n",
			wantErr: "create.video_duration",
		},
		{
			name:    "bad log level",
			content: "[logging]\nlevel = \"verbose\"\n",
			wantErr: "logging.level",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tc.content), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, _, _, err := config.Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("error %q does not mention %q", err, tc.wantErr)
			}
		})
	}
}

func TestWriteSampleRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := config.WriteSample(path); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := config.WriteSample(path); err == nil {
		t.Fatal("expected overwrite refusal")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[api]") {
		t.Fatal("sample config missing [api] section")
	}
}
