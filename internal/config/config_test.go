package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/diegovill05/internship-discovery-engine/internal/config"
)

func TestLoad_DefaultsWithoutFileOrEnv(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.RunIntervalHours != 6 {
		t.Errorf("RunIntervalHours = %d, want default 6", cfg.RunIntervalHours)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("IE_BRAVE_API_KEY", "brave-key")
	t.Setenv("IE_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("IE_TELEGRAM_CHAT_ID", "-100123")
	t.Setenv("IE_RUN_INTERVAL_HOURS", "12")

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BraveAPIKey != "brave-key" {
		t.Errorf("BraveAPIKey = %q", cfg.BraveAPIKey)
	}
	if cfg.RedisURL != "redis://localhost:6379/0" {
		t.Errorf("RedisURL = %q", cfg.RedisURL)
	}
	if cfg.TelegramChatID != -100123 {
		t.Errorf("TelegramChatID = %d", cfg.TelegramChatID)
	}
	if cfg.RunIntervalHours != 12 {
		t.Errorf("RunIntervalHours = %d", cfg.RunIntervalHours)
	}
}

func TestLoad_YAMLFileThenEnvWins(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := "brave_api_key: from-file\nsheet_id: sheet-from-file\nrun_interval_hours: 3\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("IE_BRAVE_API_KEY", "from-env")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BraveAPIKey != "from-env" {
		t.Errorf("BraveAPIKey = %q, want env to override the file", cfg.BraveAPIKey)
	}
	if cfg.SheetID != "sheet-from-file" {
		t.Errorf("SheetID = %q", cfg.SheetID)
	}
	if cfg.RunIntervalHours != 3 {
		t.Errorf("RunIntervalHours = %d", cfg.RunIntervalHours)
	}
}

func TestLoad_MissingFileIsFine(t *testing.T) {
	if _, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml")); err != nil {
		t.Fatalf("Load with absent file: %v", err)
	}
}

func TestLoad_MalformedValues(t *testing.T) {
	cases := []struct {
		name, key, val string
	}{
		{"chat id not an int", "IE_TELEGRAM_CHAT_ID", "abc"},
		{"interval not an int", "IE_RUN_INTERVAL_HOURS", "six"},
		{"interval zero", "IE_RUN_INTERVAL_HOURS", "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.val)
			if _, err := config.Load(""); err == nil {
				t.Errorf("Load with %s=%q: expected error", tc.key, tc.val)
			}
		})
	}
}
