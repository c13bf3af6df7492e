package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, []string{"BTCUSDT", "ETHUSDT", "SOLUSDT"}, cfg.DataSource.Symbols)
	assert.Equal(t, "binance", cfg.DataSource.Provider)
	assert.Equal(t, time.Hour, cfg.Schedule.Interval)
	assert.Equal(t, 5*time.Second, cfg.Telegram.PollInterval)
	assert.Equal(t, "/status", cfg.Telegram.StatusCommand)
	assert.Equal(t, 20, cfg.Indicators.MAPeriod)
	assert.Equal(t, 14, cfg.Indicators.OscillatorPeriod)
	assert.Equal(t, 30, cfg.Indicators.HistoryDepth)
	assert.Equal(t, "csv", cfg.Storage.Driver)
	assert.Equal(t, ".collector.lock", cfg.Storage.LockFile)

	assert.EqualError(t, cfg.Validate(), "telegram.bot_token is required")
}

func TestLoad_YAMLAndEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
telegram:
  bot_token: yaml-token
  chat_id: "123"
  poll_interval: 2s
data_source:
  provider: yahoo
  symbols: [SPX500]
schedule:
  interval: 30m
indicators:
  ma_period: 10
storage:
  driver: sqlite
  sqlite_path: /tmp/x.db
`)
	t.Setenv("TELEGRAM_BOT_TOKEN", "env-token")
	t.Setenv("DATA_SOURCE_SYMBOLS", "BTCUSDT,ETHUSDT")
	t.Setenv("SCHEDULE_INTERVAL", "15m")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env-token", cfg.Telegram.BotToken)
	assert.Equal(t, "123", cfg.Telegram.ChatID)
	assert.Equal(t, 2*time.Second, cfg.Telegram.PollInterval)
	assert.Equal(t, "yahoo", cfg.DataSource.Provider)
	assert.Equal(t, []string{"BTCUSDT", "ETHUSDT"}, cfg.DataSource.Symbols)
	assert.Equal(t, 15*time.Minute, cfg.Schedule.Interval)
	assert.Equal(t, 10, cfg.Indicators.MAPeriod)
	assert.Equal(t, 14, cfg.Indicators.OscillatorPeriod)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, "/tmp/x.db", cfg.Storage.SQLitePath)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_BadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "telegram: [unclosed"))
	assert.Error(t, err)
}

func TestLoad_BadEnv(t *testing.T) {
	t.Setenv("INDICATORS_MA_PERIOD", "twenty")
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		require.NoError(t, err)
		cfg.Telegram.BotToken = "t"
		cfg.Telegram.ChatID = "1"
		return cfg
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing chat", func(c *Config) { c.Telegram.ChatID = "" }},
		{"unknown provider", func(c *Config) { c.DataSource.Provider = "kraken" }},
		{"empty symbol", func(c *Config) { c.DataSource.Symbols = []string{"BTCUSDT", ""} }},
		{"tiny interval", func(c *Config) { c.Schedule.Interval = time.Millisecond }},
		{"negative period", func(c *Config) { c.Indicators.MAPeriod = -1 }},
		{"shallow history", func(c *Config) { c.Indicators.HistoryDepth = 5 }},
		{"unknown driver", func(c *Config) { c.Storage.Driver = "s3" }},
		{"negative retries", func(c *Config) { c.Telegram.SendRetries = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
