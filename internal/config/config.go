package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ProfileConfig configures one scan profile: the symbols it covers, the
// weight table that scores them, and an optional trigger override file.
type ProfileConfig struct {
	Symbols      []string `yaml:"symbols"`
	ScoreTable   string   `yaml:"score_table"`
	TriggersFile string   `yaml:"triggers_file"`
}

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	DataSource struct {
		Provider     string  `yaml:"provider"`
		RatePerSec   float64 `yaml:"rate_per_sec"`
		LookbackDays int     `yaml:"lookback_days"`
	} `yaml:"data_source"`
	Portfolio ProfileConfig `yaml:"portfolio"`
	Watchlist ProfileConfig `yaml:"watchlist"`
	Schedule  struct {
		ScanCron     string `yaml:"scan_cron"`
		ReminderCron string `yaml:"reminder_cron"`
	} `yaml:"schedule"`
	Scan struct {
		Workers   int    `yaml:"workers"`
		StateFile string `yaml:"state_file"`
		Archive   string `yaml:"archive_file"`
		CacheDir  string `yaml:"cache_dir"`
	} `yaml:"scan"`
	Database struct {
		// SQLitePath locates the run-history database. Unset means the
		// default path; "off" disables recording entirely.
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is not an error: everything can
// come from the environment and defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SCAN_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Scan.Workers = n
		}
	}
	if v := os.Getenv("CRON_SCAN"); v != "" {
		cfg.Schedule.ScanCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}

	// Defaults
	if cfg.DataSource.Provider == "" {
		cfg.DataSource.Provider = "yahoo"
	}
	if cfg.DataSource.RatePerSec == 0 {
		cfg.DataSource.RatePerSec = 2
	}
	if cfg.DataSource.LookbackDays == 0 {
		cfg.DataSource.LookbackDays = 300
	}
	if cfg.Portfolio.ScoreTable == "" {
		cfg.Portfolio.ScoreTable = "bullish"
	}
	if cfg.Watchlist.ScoreTable == "" {
		cfg.Watchlist.ScoreTable = "oversold"
	}
	if cfg.Schedule.ScanCron == "" {
		cfg.Schedule.ScanCron = "0 30 7 * * 2-6" // after US close, Tue-Sat UTC
	}
	if cfg.Schedule.ReminderCron == "" {
		cfg.Schedule.ReminderCron = "0 0 * * * *" // hourly
	}
	if cfg.Scan.Workers == 0 {
		cfg.Scan.Workers = 4
	}
	if cfg.Scan.StateFile == "" {
		cfg.Scan.StateFile = "data/scan_state.json"
	}
	if cfg.Scan.Archive == "" {
		cfg.Scan.Archive = "data/archive.json"
	}
	if cfg.Scan.CacheDir == "" {
		cfg.Scan.CacheDir = "data/cache"
	}
	switch cfg.Database.SQLitePath {
	case "":
		cfg.Database.SQLitePath = "data/ticker_sentry.db"
	case "off":
		// Explicit opt-out: an empty path after loading means no
		// recorder gets built.
		cfg.Database.SQLitePath = ""
	}

	return cfg, nil
}

// Validate checks field consistency. Telegram credentials are optional
// (output falls back to the log) but must come as a pair.
func (c *Config) Validate() error {
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	if c.DataSource.Provider != "yahoo" && c.DataSource.Provider != "mock" {
		return fmt.Errorf("data_source.provider must be yahoo or mock, got %q", c.DataSource.Provider)
	}
	if c.DataSource.RatePerSec <= 0 {
		return fmt.Errorf("data_source.rate_per_sec must be positive")
	}
	if c.DataSource.LookbackDays < 50 {
		return fmt.Errorf("data_source.lookback_days must be at least 50")
	}
	if c.Scan.Workers < 1 {
		return fmt.Errorf("scan.workers must be at least 1")
	}
	if len(c.Portfolio.Symbols) == 0 && len(c.Watchlist.Symbols) == 0 {
		return fmt.Errorf("at least one of portfolio.symbols or watchlist.symbols is required")
	}
	return nil
}
