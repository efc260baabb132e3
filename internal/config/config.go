// Package config loads and validates runtime configuration. Values come
// from the environment (prefix IE_), optionally seeded from a .env file and
// a YAML config file. Fail-fast: a malformed value aborts startup.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds everything the engine reads from the environment. Provider
// credentials may be empty; the affected provider is then unavailable and
// selecting it is a startup error in main.
type Config struct {
	BraveAPIKey  string `yaml:"brave_api_key"`
	GoogleAPIKey string `yaml:"google_api_key"`
	GoogleCSEID  string `yaml:"google_cse_id"`

	// Export / persistence (all optional).
	RedisURL                 string `yaml:"redis_url"`
	DatabaseURL              string `yaml:"database_url"`
	SheetID                  string `yaml:"sheet_id"`
	GoogleServiceAccountJSON string `yaml:"-"` // secret, env only

	// Notification (optional).
	TelegramToken  string `yaml:"telegram_token"`
	TelegramChatID int64  `yaml:"telegram_chat_id"`

	// Daemon mode.
	RunIntervalHours int `yaml:"run_interval_hours"`
}

// Load reads the optional YAML file at path (skipped when empty or absent),
// then overrides from the environment. A .env file in the working directory
// is honored when present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{RunIntervalHours: 6}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Optional file; env alone is fine.
		case err != nil:
			return nil, fmt.Errorf("read %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		}
	}

	overrideString(&cfg.BraveAPIKey, "IE_BRAVE_API_KEY")
	overrideString(&cfg.GoogleAPIKey, "IE_GOOGLE_API_KEY")
	overrideString(&cfg.GoogleCSEID, "IE_GOOGLE_CSE_ID")
	overrideString(&cfg.RedisURL, "IE_REDIS_URL")
	overrideString(&cfg.DatabaseURL, "IE_DATABASE_URL")
	overrideString(&cfg.SheetID, "IE_SHEET_ID")
	overrideString(&cfg.GoogleServiceAccountJSON, "GOOGLE_SERVICE_ACCOUNT_JSON")
	overrideString(&cfg.TelegramToken, "IE_TELEGRAM_BOT_TOKEN")

	if s := os.Getenv("IE_TELEGRAM_CHAT_ID"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("IE_TELEGRAM_CHAT_ID must be an integer, got %q", s)
		}
		cfg.TelegramChatID = id
	}
	if s := os.Getenv("IE_RUN_INTERVAL_HOURS"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return nil, fmt.Errorf("IE_RUN_INTERVAL_HOURS must be a positive integer, got %q", s)
		}
		cfg.RunIntervalHours = v
	}

	return cfg, nil
}

func overrideString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
