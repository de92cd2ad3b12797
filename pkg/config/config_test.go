package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DataFile != "notes.yaml" {
		t.Errorf("default data file = %q", cfg.DataFile)
	}
	if cfg.HistoryDB != "notekeeper.db" {
		t.Errorf("default history db = %q", cfg.HistoryDB)
	}
	if cfg.Tick() != time.Second {
		t.Errorf("default tick = %s, want 1s", cfg.Tick())
	}
	if cfg.Suppression() != 5*time.Second {
		t.Errorf("default suppression = %s, want 5s", cfg.Suppression())
	}
	if cfg.AI.Provider != "ollama" {
		t.Errorf("default AI provider = %q", cfg.AI.Provider)
	}
	if cfg.BackupInterval() != 30*time.Minute {
		t.Errorf("default backup interval = %s", cfg.BackupInterval())
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `
data_file: /data/mynotes.yaml
history_db: /data/history.db
scheduler:
  tick_seconds: 2
  suppression_seconds: 10
notifications:
  telegram:
    token: tg-token
    chat_id: 12345
  discord:
    channel_id: chan-1
ai:
  provider: gemini
backup:
  enable: true
  repo_path: /data
  interval_minutes: 5
`
	if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DataFile != "/data/mynotes.yaml" {
		t.Errorf("data file = %q", cfg.DataFile)
	}
	if cfg.Tick() != 2*time.Second || cfg.Suppression() != 10*time.Second {
		t.Errorf("scheduler timings = %s / %s", cfg.Tick(), cfg.Suppression())
	}
	if cfg.Notifications.Telegram.Token != "tg-token" || cfg.Notifications.Telegram.ChatID != 12345 {
		t.Errorf("telegram config = %+v", cfg.Notifications.Telegram)
	}
	if cfg.Notifications.Discord.ChannelID != "chan-1" {
		t.Errorf("discord config = %+v", cfg.Notifications.Discord)
	}
	if cfg.AI.Provider != "gemini" {
		t.Errorf("AI provider = %q", cfg.AI.Provider)
	}
	if !cfg.Backup.Enable || cfg.BackupInterval() != 5*time.Minute {
		t.Errorf("backup config = %+v", cfg.Backup)
	}
}

func TestLoadClampsNonPositiveTimings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `
scheduler:
  tick_seconds: -3
  suppression_seconds: 0
`
	if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Tick() != time.Second || cfg.Suppression() != 5*time.Second {
		t.Errorf("non-positive timings not clamped: %s / %s", cfg.Tick(), cfg.Suppression())
	}
}

func TestLoadInvalidFileErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("{{{ nope"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for an invalid config file")
	}
}
