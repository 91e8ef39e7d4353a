package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"GapScreener/internal/session"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Pairs      []string `yaml:"pairs"`
	Timezone   string   `yaml:"timezone"`
	DataSource struct {
		BaseURL    string        `yaml:"base_url"`
		APIKey     string        `yaml:"api_key"`
		PeriodDays int           `yaml:"period_days"`
		Interval   string        `yaml:"interval"`
		Timeout    time.Duration `yaml:"timeout"`
	} `yaml:"data_source"`
	Output struct {
		Dir string `yaml:"dir"`
	} `yaml:"output"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Schedule struct {
		Cron string `yaml:"cron"`
	} `yaml:"schedule"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file is not an error.
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
	if v := os.Getenv("SCREENER_PAIRS"); v != "" {
		cfg.Pairs = ParsePairs(v)
	}
	if v := os.Getenv("DATA_SOURCE_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("DATA_SOURCE_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("SCREENER_CRON"); v != "" {
		cfg.Schedule.Cron = v
	}
	if v := os.Getenv("OUTPUT_DIR"); v != "" {
		cfg.Output.Dir = v
	}

	// Defaults
	if cfg.Timezone == "" {
		cfg.Timezone = session.DefaultTimezone
	}
	if cfg.DataSource.PeriodDays == 0 {
		cfg.DataSource.PeriodDays = 12
	}
	if cfg.DataSource.Interval == "" {
		cfg.DataSource.Interval = "1h"
	}
	if cfg.DataSource.Timeout == 0 {
		cfg.DataSource.Timeout = 30 * time.Second
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "."
	}
	if cfg.Schedule.Cron == "" {
		cfg.Schedule.Cron = "0 30 23 * * 0"
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if len(c.Pairs) == 0 {
		return fmt.Errorf("pairs must not be empty")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	if c.DataSource.PeriodDays <= 0 {
		return fmt.Errorf("data_source.period_days must be positive")
	}
	if c.DataSource.Interval == "" {
		return fmt.Errorf("data_source.interval is required")
	}
	if c.DataSource.Timeout < 0 {
		return fmt.Errorf("data_source.timeout must not be negative")
	}
	if c.Schedule.Cron == "" {
		return fmt.Errorf("schedule.cron is required")
	}
	return nil
}

// Location returns the reference timezone. Call Validate first.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ParsePairs splits a comma-separated ticker list, dropping blanks.
func ParsePairs(s string) []string {
	return splitList(s)
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// ErrMailSettingsMissing is returned when any SMTP setting is absent.
var ErrMailSettingsMissing = errors.New("SMTP settings missing: set SMTP_HOST, SMTP_PORT, SMTP_USER, SMTP_PASS, EMAIL_FROM, EMAIL_TO")

// MailSettings are the SMTP submission parameters for live mode.
type MailSettings struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       []string
}

// LoadMailSettings reads SMTP settings from the environment.
// EMAIL_FROM falls back to SMTP_USER.
func LoadMailSettings() (*MailSettings, error) {
	return mailSettingsFrom(os.Getenv)
}

func mailSettingsFrom(getenv func(string) string) (*MailSettings, error) {
	ms := &MailSettings{
		Host:     getenv("SMTP_HOST"),
		Username: getenv("SMTP_USER"),
		Password: getenv("SMTP_PASS"),
		From:     getenv("EMAIL_FROM"),
		To:       splitList(getenv("EMAIL_TO")),
	}
	if ms.From == "" {
		ms.From = ms.Username
	}
	if v := getenv("SMTP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SMTP_PORT %q: %w", v, err)
		}
		ms.Port = port
	}

	if ms.Host == "" || ms.Port == 0 || ms.Username == "" || ms.Password == "" || ms.From == "" || len(ms.To) == 0 {
		return nil, ErrMailSettingsMissing
	}
	return ms, nil
}
