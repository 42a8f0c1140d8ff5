package infra

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Output format selectors. "auto" picks the sink from the output path
// suffix (.db/.sqlite selects SQLite).
const (
	FormatAuto   = "auto"
	FormatCSV    = "csv"
	FormatSQLite = "sqlite"
)

// Config holds all analyzer settings. LoadConfig applies environment
// variable overrides after the file is parsed.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	Analyzer struct {
		// InboxSize is the engine event channel capacity.
		InboxSize int `yaml:"inbox_size"`
		// OpenTimeslots and DeactivateTimeslotsAhead are fallbacks for
		// streams that never deliver a Competition record.
		OpenTimeslots            int `yaml:"open_timeslots"`
		DeactivateTimeslotsAhead int `yaml:"deactivate_timeslots_ahead"`
		// MaxLeadTimes bounds the lead-time report buckets.
		MaxLeadTimes int `yaml:"max_lead_times"`
		// LegacyAsks reproduces the original per-broker estimate, which
		// only priced negative imbalance against the asks.
		LegacyAsks bool `yaml:"legacy_asks"`
		// UsePrevBook replays the previous timeslot's book for the
		// per-broker estimate instead of the current one.
		UsePrevBook bool `yaml:"use_prev_book"`
	} `yaml:"analyzer"`

	Output struct {
		Format         string `yaml:"format"`
		LeadTimeReport bool   `yaml:"lead_time_report"`
	} `yaml:"output"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// DefaultConfig returns the configuration used when no file is given.
// The timeslot fallbacks match the simulator defaults: 24 open timeslots,
// 3 deactivated ahead.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.App.Name = "logtool"
	cfg.App.Version = "dev"
	cfg.Analyzer.InboxSize = 1024
	cfg.Analyzer.OpenTimeslots = 24
	cfg.Analyzer.DeactivateTimeslotsAhead = 3
	cfg.Analyzer.MaxLeadTimes = 24
	cfg.Output.Format = FormatAuto
	cfg.Logging.Level = "info"
	return cfg
}

// LoadConfig reads and parses the configuration file. An empty path
// yields the defaults. Environment variables override either way.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	overrideWithEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks configuration validity
func (c *Config) Validate() error {
	if c.Analyzer.InboxSize <= 0 {
		return fmt.Errorf("inbox size must be positive")
	}
	if c.Analyzer.OpenTimeslots <= 0 {
		return fmt.Errorf("open timeslots must be positive")
	}
	if c.Analyzer.DeactivateTimeslotsAhead < 0 {
		return fmt.Errorf("deactivate timeslots ahead must be non-negative")
	}
	if c.Analyzer.MaxLeadTimes <= 0 {
		return fmt.Errorf("max lead times must be positive")
	}

	switch c.Output.Format {
	case FormatAuto, FormatCSV, FormatSQLite:
	default:
		return fmt.Errorf("unknown output format: %s", c.Output.Format)
	}

	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level: %s", c.Logging.Level)
	}

	return nil
}

// overrideWithEnv applies environment variable overrides where present.
func overrideWithEnv(cfg *Config) {
	if level := os.Getenv("LOGTOOL_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
	if format := os.Getenv("LOGTOOL_OUTPUT_FORMAT"); format != "" {
		cfg.Output.Format = format
	}
	if size := os.Getenv("LOGTOOL_INBOX_SIZE"); size != "" {
		if n, err := strconv.Atoi(size); err == nil {
			cfg.Analyzer.InboxSize = n
		}
	}
}
