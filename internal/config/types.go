package config

import (
	"dukan/internal/reminder"
	"dukan/internal/storage"
	logx "dukan/pkg/logx"
)

// Config is the engine's full configuration. Unknown fields are rejected
// at load time so typos fail fast instead of silently disabling features.
type Config struct {
	Log      logx.Config          `json:"log"`
	Storage  storage.Config       `json:"storage"`
	Sweep    reminder.SweepConfig `json:"sweep"`
	Telegram TelegramConfig       `json:"telegram"`
}

// TelegramConfig enables the ops-chat alerter. Disabled when token or
// chat id is missing.
type TelegramConfig struct {
	Enabled    bool   `json:"enabled"`
	Token      string `json:"token"`
	ChatID     int64  `json:"chat_id"`
	RatePerSec int    `json:"rate_per_sec"`
}

// Default returns the config used when no file is given: console logging,
// file storage under ./data, no sweep, no telegram.
func Default() *Config {
	return &Config{
		Log:     logx.Config{Level: "info", Console: true},
		Storage: storage.Config{Driver: "file", Path: "./data"},
	}
}
