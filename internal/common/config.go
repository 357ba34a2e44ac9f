package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"
)

// Config represents the application configuration
type Config struct {
	Environment  string             `toml:"environment" validate:"omitempty,oneof=development production dev prod test"`
	Server       ServerConfig       `toml:"server"`
	Logging      LoggingConfig      `toml:"logging"`
	Yahoo        YahooConfig        `toml:"yahoo"`
	Fundamentals FundamentalsConfig `toml:"fundamentals"`
	Storage      StorageConfig      `toml:"storage"`
	Analysis     AnalysisConfig     `toml:"analysis"`
	Watchlist    WatchlistConfig    `toml:"watchlist"`
}

type ServerConfig struct {
	Port int    `toml:"port" validate:"min=1,max=65535"`
	Host string `toml:"host" validate:"required"`
}

type LoggingConfig struct {
	Level      string   `toml:"level" validate:"oneof=trace debug info warn error"`
	Output     []string `toml:"output" validate:"dive,oneof=stdout console file"`
	TimeFormat string   `toml:"time_format"`
}

// YahooConfig configures the live quote client
type YahooConfig struct {
	BaseURL   string `toml:"base_url" validate:"required,url"`
	Timeout   string `toml:"timeout" validate:"required"` // duration string, e.g. "15s"
	RateLimit int    `toml:"rate_limit" validate:"min=1"` // requests per second
	UserAgent string `toml:"user_agent"`
	CookieURL string `toml:"cookie_url"` // crumb handshake; empty disables it
}

// FundamentalsConfig configures where historical fundamentals are read from
type FundamentalsConfig struct {
	Source       string   `toml:"source" validate:"oneof=json badger"`
	DataDir      string   `toml:"data_dir" validate:"required"`
	Subdirs      []string `toml:"subdirs"`                               // searched after data_dir, in order
	HistoryYears int      `toml:"history_years" validate:"min=1,max=10"` // recent years handed to the engine
	TickerMap    string   `toml:"ticker_map"`                            // optional YAML ticker directory
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path" validate:"required_without=InMemory"`
	InMemory       bool   `toml:"in_memory"`
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
	SeedOnStartup  bool   `toml:"seed_on_startup"`  // Import the JSON data directory on startup
}

// AnalysisConfig controls the valuation engine
type AnalysisConfig struct {
	Currency             string `toml:"currency" validate:"required,len=3"`
	Sequential           bool   `toml:"sequential"`
	FisherTargetRedirect bool   `toml:"fisher_target_redirect"`
	MarksRangeTarget     bool   `toml:"marks_range_target"`
}

// WatchlistConfig schedules periodic analysis of a fixed set of tickers
type WatchlistConfig struct {
	Enabled  bool     `toml:"enabled"`
	Schedule string   `toml:"schedule"` // Cron schedule format
	Tickers  []string `toml:"tickers"`
}

// NewDefaultConfig creates a configuration with default values
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8085,
			Host: "localhost",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Output:     []string{"stdout", "file"},
			TimeFormat: "15:04:05",
		},
		Yahoo: YahooConfig{
			BaseURL:   "https://query2.finance.yahoo.com",
			Timeout:   "15s",
			RateLimit: 2,
			CookieURL: "https://fc.yahoo.com",
			UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		},
		Fundamentals: FundamentalsConfig{
			Source:       "json",
			DataDir:      "./data/stocks/finance",
			Subdirs:      []string{"nasdaq", "nyse"},
			HistoryYears: 3,
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data/db",
			},
		},
		Analysis: AnalysisConfig{
			Currency:             "USD",
			FisherTargetRedirect: true,
			MarksRangeTarget:     true,
		},
		Watchlist: WatchlistConfig{
			Enabled:  false,
			Schedule: "0 22 * * 1-5", // weekdays after the US close
		},
	}
}

// LoadFromFiles loads configuration from multiple files with priority: default -> file1 -> file2 -> ... -> env.
// Later files override earlier files. CLI flags are applied afterwards with ApplyFlagOverrides.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		// Unmarshal merges into the existing values
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies VERDICT_* environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("VERDICT_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Server
	if port := os.Getenv("VERDICT_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("VERDICT_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// Logging
	if level := os.Getenv("VERDICT_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("VERDICT_LOG_OUTPUT"); output != "" {
		config.Logging.Output = splitList(output)
	}

	// Yahoo
	if baseURL := os.Getenv("VERDICT_YAHOO_BASE_URL"); baseURL != "" {
		config.Yahoo.BaseURL = baseURL
	}
	if timeout := os.Getenv("VERDICT_YAHOO_TIMEOUT"); timeout != "" {
		config.Yahoo.Timeout = timeout
	}
	if limit := os.Getenv("VERDICT_YAHOO_RATE_LIMIT"); limit != "" {
		if l, err := strconv.Atoi(limit); err == nil {
			config.Yahoo.RateLimit = l
		}
	}

	// Fundamentals
	if source := os.Getenv("VERDICT_FUNDAMENTALS_SOURCE"); source != "" {
		config.Fundamentals.Source = source
	}
	if dir := os.Getenv("VERDICT_DATA_DIR"); dir != "" {
		config.Fundamentals.DataDir = dir
	}
	if tickerMap := os.Getenv("VERDICT_TICKER_MAP"); tickerMap != "" {
		config.Fundamentals.TickerMap = tickerMap
	}

	// Storage
	if path := os.Getenv("VERDICT_BADGER_PATH"); path != "" {
		config.Storage.Badger.Path = path
	}
	if inMemory := os.Getenv("VERDICT_BADGER_IN_MEMORY"); inMemory != "" {
		if b, err := strconv.ParseBool(inMemory); err == nil {
			config.Storage.Badger.InMemory = b
		}
	}

	// Analysis
	if currency := os.Getenv("VERDICT_CURRENCY"); currency != "" {
		config.Analysis.Currency = strings.ToUpper(currency)
	}
	if sequential := os.Getenv("VERDICT_SEQUENTIAL"); sequential != "" {
		if b, err := strconv.ParseBool(sequential); err == nil {
			config.Analysis.Sequential = b
		}
	}

	// Watchlist
	if enabled := os.Getenv("VERDICT_WATCHLIST_ENABLED"); enabled != "" {
		if b, err := strconv.ParseBool(enabled); err == nil {
			config.Watchlist.Enabled = b
		}
	}
	if schedule := os.Getenv("VERDICT_WATCHLIST_SCHEDULE"); schedule != "" {
		config.Watchlist.Schedule = schedule
	}
	if tickers := os.Getenv("VERDICT_WATCHLIST_TICKERS"); tickers != "" {
		config.Watchlist.Tickers = splitList(tickers)
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// Validate checks struct constraints, the Yahoo timeout and the watchlist schedule
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if _, err := c.Yahoo.TimeoutDuration(); err != nil {
		return fmt.Errorf("invalid yahoo.timeout: %w", err)
	}

	if c.Watchlist.Enabled {
		if len(c.Watchlist.Tickers) == 0 {
			return fmt.Errorf("watchlist is enabled but has no tickers")
		}
		if err := ValidateSchedule(c.Watchlist.Schedule); err != nil {
			return fmt.Errorf("invalid watchlist.schedule: %w", err)
		}
	}

	return nil
}

// TimeoutDuration parses the configured request timeout
func (y YahooConfig) TimeoutDuration() (time.Duration, error) {
	d, err := time.ParseDuration(y.Timeout)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("timeout must be positive, got %s", y.Timeout)
	}
	return d, nil
}

// ValidateSchedule validates a cron schedule expression and ensures minimum 5-minute interval
func ValidateSchedule(schedule string) error {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}

	parts := strings.Fields(schedule)
	if len(parts) < 5 {
		return fmt.Errorf("invalid cron format: expected 5 fields")
	}

	minuteField := parts[0]
	if minuteField == "*" {
		return fmt.Errorf("schedule must have minimum 5-minute interval (every minute is not allowed)")
	}

	if strings.HasPrefix(minuteField, "*/") {
		interval, err := strconv.Atoi(strings.TrimPrefix(minuteField, "*/"))
		if err == nil && interval < 5 {
			return fmt.Errorf("schedule interval must be at least 5 minutes, got %d", interval)
		}
	}

	return nil
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
