package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig_IsValid(t *testing.T) {
	cfg := NewDefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 8085, cfg.Server.Port)
	assert.Equal(t, "json", cfg.Fundamentals.Source)
	assert.Equal(t, 3, cfg.Fundamentals.HistoryYears)
	assert.True(t, cfg.Analysis.FisherTargetRedirect)
	assert.True(t, cfg.Analysis.MarksRangeTarget)
	assert.False(t, cfg.Analysis.Sequential)
}

func TestLoadFromFiles_LaterFilesOverride(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "base.toml")
	override := filepath.Join(dir, "override.toml")

	require.NoError(t, os.WriteFile(base, []byte(`
environment = "production"

[server]
port = 9000

[fundamentals]
source = "badger"
data_dir = "/srv/finance"

[analysis]
currency = "EUR"
`), 0644))
	require.NoError(t, os.WriteFile(override, []byte(`
[server]
port = 9100

[watchlist]
enabled = true
schedule = "30 21 * * 1-5"
tickers = ["AAPL", "MSFT"]
`), 0644))

	cfg, err := LoadFromFiles(base, override)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, "badger", cfg.Fundamentals.Source)
	assert.Equal(t, "/srv/finance", cfg.Fundamentals.DataDir)
	assert.Equal(t, "EUR", cfg.Analysis.Currency)
	assert.Equal(t, []string{"AAPL", "MSFT"}, cfg.Watchlist.Tickers)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFiles_Errors(t *testing.T) {
	_, err := LoadFromFiles(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[server\nport = "), 0644))
	_, err = LoadFromFiles(bad)
	assert.Error(t, err)
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("VERDICT_SERVER_PORT", "9191")
	t.Setenv("VERDICT_LOG_LEVEL", "debug")
	t.Setenv("VERDICT_LOG_OUTPUT", "stdout, file")
	t.Setenv("VERDICT_YAHOO_RATE_LIMIT", "5")
	t.Setenv("VERDICT_FUNDAMENTALS_SOURCE", "badger")
	t.Setenv("VERDICT_BADGER_IN_MEMORY", "true")
	t.Setenv("VERDICT_CURRENCY", "krw")
	t.Setenv("VERDICT_WATCHLIST_TICKERS", "AAPL, NVDA,")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, []string{"stdout", "file"}, cfg.Logging.Output)
	assert.Equal(t, 5, cfg.Yahoo.RateLimit)
	assert.Equal(t, "badger", cfg.Fundamentals.Source)
	assert.True(t, cfg.Storage.Badger.InMemory)
	assert.Equal(t, "KRW", cfg.Analysis.Currency)
	assert.Equal(t, []string{"AAPL", "NVDA"}, cfg.Watchlist.Tickers)
}

func TestApplyEnvOverrides_IgnoresMalformed(t *testing.T) {
	t.Setenv("VERDICT_SERVER_PORT", "not-a-port")
	t.Setenv("VERDICT_SEQUENTIAL", "maybe")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	assert.Equal(t, 8085, cfg.Server.Port)
	assert.False(t, cfg.Analysis.Sequential)
}

func TestApplyFlagOverrides(t *testing.T) {
	cfg := NewDefaultConfig()
	ApplyFlagOverrides(cfg, 0, "")
	assert.Equal(t, 8085, cfg.Server.Port)

	ApplyFlagOverrides(cfg, 7000, "0.0.0.0")
	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }},
		{"unknown source", func(c *Config) { c.Fundamentals.Source = "sqlite" }},
		{"unknown log output", func(c *Config) { c.Logging.Output = []string{"syslog"} }},
		{"bad base url", func(c *Config) { c.Yahoo.BaseURL = "not a url" }},
		{"bad timeout", func(c *Config) { c.Yahoo.Timeout = "soon" }},
		{"negative timeout", func(c *Config) { c.Yahoo.Timeout = "-5s" }},
		{"zero rate limit", func(c *Config) { c.Yahoo.RateLimit = 0 }},
		{"currency length", func(c *Config) { c.Analysis.Currency = "DOLLAR" }},
		{"history years", func(c *Config) { c.Fundamentals.HistoryYears = 0 }},
		{"badger path missing", func(c *Config) { c.Storage.Badger.Path = "" }},
		{"watchlist without tickers", func(c *Config) { c.Watchlist.Enabled = true }},
		{"watchlist every minute", func(c *Config) {
			c.Watchlist.Enabled = true
			c.Watchlist.Tickers = []string{"AAPL"}
			c.Watchlist.Schedule = "* * * * *"
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestConfig_Validate_InMemoryBadgerNeedsNoPath(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Storage.Badger.Path = ""
	cfg.Storage.Badger.InMemory = true
	assert.NoError(t, cfg.Validate())
}

func TestValidateSchedule(t *testing.T) {
	tests := []struct {
		schedule string
		wantErr  bool
	}{
		{"0 22 * * 1-5", false},
		{"*/15 * * * *", false},
		{"*/5 * * * *", false},
		{"*/2 * * * *", true},
		{"* * * * *", true},
		{"not a schedule", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.schedule, func(t *testing.T) {
			err := ValidateSchedule(tt.schedule)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestYahooConfig_TimeoutDuration(t *testing.T) {
	d, err := YahooConfig{Timeout: "15s"}.TimeoutDuration()
	require.NoError(t, err)
	assert.Equal(t, 15*time.Second, d)

	_, err = YahooConfig{Timeout: "0s"}.TimeoutDuration()
	assert.Error(t, err)
}
