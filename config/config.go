package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/tradejournal/analytics"
)

// Config represents the complete tradejournal configuration
type Config struct {
	Journal   JournalConfig          `json:"journal" yaml:"journal"`
	Analytics AnalyticsConfig        `json:"analytics" yaml:"analytics"`
	Habits    analytics.HabitCatalog `json:"habits" yaml:"habits"`
	Log       LogConfig              `json:"log" yaml:"log"`
}

// JournalConfig locates the SQLite journal
type JournalConfig struct {
	DBPath string `json:"db_path" yaml:"db_path"`
}

// AnalyticsConfig tunes the report engine
type AnalyticsConfig struct {
	RiskFreeRate        float64   `json:"risk_free_rate" yaml:"risk_free_rate"` // annual, e.g. 0.02
	TradingDays         float64   `json:"trading_days" yaml:"trading_days"`
	AccountSizes        []float64 `json:"account_sizes" yaml:"account_sizes"`
	ComplianceThreshold float64   `json:"compliance_threshold" yaml:"compliance_threshold"`
	SortChronological   bool      `json:"sort_chronological" yaml:"sort_chronological"`
}

// LogConfig contains zap logger parameters
type LogConfig struct {
	Level             string `json:"level" yaml:"level"`       // debug|info|warn|error
	Encoding          string `json:"encoding" yaml:"encoding"` // json|console
	Development       bool   `json:"development" yaml:"development"`
	DisableCaller     bool   `json:"disable_caller" yaml:"disable_caller"`
	DisableStacktrace bool   `json:"disable_stacktrace" yaml:"disable_stacktrace"`
}

var logLevels = []string{"debug", "info", "warn", "error"}

// LoadFromFile loads configuration from a file. Sections missing from the
// file keep their Default values.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		cfg = Default()
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file, YAML for .yaml/.yml and JSON
// otherwise
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Journal.DBPath == "" {
		return fmt.Errorf("journal.db_path is required")
	}
	if c.Analytics.RiskFreeRate < 0 || c.Analytics.RiskFreeRate >= 1 {
		return fmt.Errorf("analytics.risk_free_rate must be between 0 and 1")
	}
	if c.Analytics.TradingDays <= 0 {
		return fmt.Errorf("analytics.trading_days must be positive")
	}
	for _, size := range c.Analytics.AccountSizes {
		if size <= 0 {
			return fmt.Errorf("analytics.account_sizes must be positive (got %v)", size)
		}
	}
	if c.Analytics.ComplianceThreshold <= 0 || c.Analytics.ComplianceThreshold > 1 {
		return fmt.Errorf("analytics.compliance_threshold must be in (0, 1]")
	}
	for _, tag := range c.Habits.Good {
		if slices.Contains(c.Habits.Bad, tag) {
			return fmt.Errorf("habits: %q is listed as both good and bad", tag)
		}
	}
	if c.Log.Level != "" && !slices.Contains(logLevels, strings.ToLower(c.Log.Level)) {
		return fmt.Errorf("log.level must be one of %s", strings.Join(logLevels, "|"))
	}
	if c.Log.Encoding != "" && c.Log.Encoding != "json" && c.Log.Encoding != "console" {
		return fmt.Errorf("log.encoding must be 'json' or 'console'")
	}
	return nil
}

// AnalyticsOptions maps the analytics and habits sections onto engine options
func (c *Config) AnalyticsOptions() analytics.Options {
	return analytics.Options{
		RiskFreeRate:        c.Analytics.RiskFreeRate,
		TradingDays:         c.Analytics.TradingDays,
		AccountSizes:        slices.Clone(c.Analytics.AccountSizes),
		ComplianceThreshold: c.Analytics.ComplianceThreshold,
		SortChronological:   c.Analytics.SortChronological,
		Habits:              c.Habits,
	}
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	opts := analytics.DefaultOptions()
	return &Config{
		Journal: JournalConfig{
			DBPath: "./tradejournal.sqlite",
		},
		Analytics: AnalyticsConfig{
			RiskFreeRate:        opts.RiskFreeRate,
			TradingDays:         opts.TradingDays,
			AccountSizes:        opts.AccountSizes,
			ComplianceThreshold: opts.ComplianceThreshold,
			SortChronological:   opts.SortChronological,
		},
		Habits: opts.Habits,
		Log: LogConfig{
			Level:    "info",
			Encoding: "console",
		},
	}
}
