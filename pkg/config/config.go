// Package config loads the application configuration from a YAML file,
// filling in defaults for anything the file omits.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the application configuration.
type Config struct {
	DataFile  string `yaml:"data_file"`
	HistoryDB string `yaml:"history_db"`

	Scheduler struct {
		TickSeconds        int `yaml:"tick_seconds"`
		SuppressionSeconds int `yaml:"suppression_seconds"`
	} `yaml:"scheduler"`

	Notifications struct {
		Telegram struct {
			Token  string `yaml:"token"`
			ChatID int64  `yaml:"chat_id"`
		} `yaml:"telegram"`
		Discord struct {
			Token     string `yaml:"token"`
			ChannelID string `yaml:"channel_id"`
		} `yaml:"discord"`
	} `yaml:"notifications"`

	AI struct {
		Provider string `yaml:"provider"` // ollama or gemini
		Model    string `yaml:"model"`
		BaseURL  string `yaml:"base_url"`
	} `yaml:"ai"`

	Backup struct {
		Enable          bool   `yaml:"enable"`
		RepoPath        string `yaml:"repo_path"`
		IntervalMinutes int    `yaml:"interval_minutes"`
	} `yaml:"backup"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	var c Config
	c.DataFile = "notes.yaml"
	c.HistoryDB = "notekeeper.db"
	c.Scheduler.TickSeconds = 1
	c.Scheduler.SuppressionSeconds = 5
	c.AI.Provider = "ollama"
	c.Backup.IntervalMinutes = 30
	return c
}

// Load reads the config file at path. A missing file yields the defaults;
// an unreadable or invalid file is an error.
func Load(path string) (Config, error) {
	c := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return c, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return c, fmt.Errorf("failed to parse config file: %w", err)
	}
	if c.Scheduler.TickSeconds <= 0 {
		c.Scheduler.TickSeconds = 1
	}
	if c.Scheduler.SuppressionSeconds <= 0 {
		c.Scheduler.SuppressionSeconds = 5
	}
	return c, nil
}

// Tick returns the scheduler tick period.
func (c Config) Tick() time.Duration {
	return time.Duration(c.Scheduler.TickSeconds) * time.Second
}

// Suppression returns the duplicate-fire suppression window.
func (c Config) Suppression() time.Duration {
	return time.Duration(c.Scheduler.SuppressionSeconds) * time.Second
}

// BackupInterval returns the auto-backup period.
func (c Config) BackupInterval() time.Duration {
	if c.Backup.IntervalMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(c.Backup.IntervalMinutes) * time.Minute
}
