package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
	return p
}

func TestLoadJSON(t *testing.T) {
	t.Parallel()
	p := writeConfig(t, "config.json", `{
		"log": {"level": "debug", "console": true},
		"storage": {"driver": "file", "path": "/var/lib/dukan"},
		"sweep": {"enabled": true, "spec": "0 9 * * *", "timezone": "Asia/Baghdad"},
		"telegram": {"enabled": true, "token": "t", "chat_id": 42, "rate_per_sec": 2}
	}`)

	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Log.Level != "debug" || !cfg.Log.Console {
		t.Fatalf("log = %+v", cfg.Log)
	}
	if cfg.Storage.Driver != "file" || cfg.Storage.Path != "/var/lib/dukan" {
		t.Fatalf("storage = %+v", cfg.Storage)
	}
	if !cfg.Sweep.Enabled || cfg.Sweep.Spec != "0 9 * * *" || cfg.Sweep.Timezone != "Asia/Baghdad" {
		t.Fatalf("sweep = %+v", cfg.Sweep)
	}
	if !cfg.Telegram.Enabled || cfg.Telegram.ChatID != 42 || cfg.Telegram.RatePerSec != 2 {
		t.Fatalf("telegram = %+v", cfg.Telegram)
	}
}

func TestLoadYAML(t *testing.T) {
	t.Parallel()
	p := writeConfig(t, "config.yaml", `
log:
  level: warn
  console: false
storage:
  driver: sqlite
  path: ./data/dukan.db
sweep:
  enabled: true
  spec: "@hourly"
`)

	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Log.Level != "warn" || cfg.Log.Console {
		t.Fatalf("log = %+v", cfg.Log)
	}
	if cfg.Storage.Driver != "sqlite" || cfg.Storage.Path != "./data/dukan.db" {
		t.Fatalf("storage = %+v", cfg.Storage)
	}
	if !cfg.Sweep.Enabled || cfg.Sweep.Spec != "@hourly" {
		t.Fatalf("sweep = %+v", cfg.Sweep)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name, file, content string
	}{
		{"json top level", "c.json", `{"storge": {"driver": "file"}}`},
		{"json nested", "c.json", `{"storage": {"drivr": "file"}}`},
		{"yaml top level", "c.yaml", "storge:\n  driver: file\n"},
		{"yaml nested", "c.yaml", "storage:\n  drivr: file\n"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			p := writeConfig(t, tc.file, tc.content)
			if _, err := Load(p); err == nil {
				t.Fatal("unknown field accepted")
			}
		})
	}
}

func TestLoadRejectsTrailingData(t *testing.T) {
	t.Parallel()
	p := writeConfig(t, "c.json", `{"log": {"level": "info"}} {}`)
	if _, err := Load(p); err == nil || !strings.Contains(err.Error(), "trailing") {
		t.Fatalf("err = %v, want trailing-data rejection", err)
	}
	p2 := writeConfig(t, "c.json", `{"log": {"level": "info"}} {"log": {}}`)
	if _, err := Load(p2); err == nil {
		t.Fatal("concatenated config accepted")
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()
	if _, err := Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("missing file accepted")
	}
}

func TestDefault(t *testing.T) {
	t.Parallel()
	cfg := Default()
	if cfg.Storage.Driver != "file" || cfg.Storage.Path == "" {
		t.Fatalf("storage default = %+v", cfg.Storage)
	}
	if !cfg.Log.Console || cfg.Log.Level != "info" {
		t.Fatalf("log default = %+v", cfg.Log)
	}
	if cfg.Sweep.Enabled || cfg.Telegram.Enabled {
		t.Fatalf("optional features enabled by default: %+v", cfg)
	}
}
