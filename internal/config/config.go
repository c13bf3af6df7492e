package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration. It is built once in main and passed
// down by value or pointer; nothing reads it globally.
type Config struct {
	Telegram struct {
		BotToken      string        `yaml:"bot_token" envconfig:"BOT_TOKEN"`
		ChatID        string        `yaml:"chat_id" envconfig:"CHAT_ID"`
		StatusCommand string        `yaml:"status_command" envconfig:"STATUS_COMMAND"`
		PollInterval  time.Duration `yaml:"poll_interval" envconfig:"POLL_INTERVAL"`
		SendRetries   int           `yaml:"send_retries" envconfig:"SEND_RETRIES"`
	} `yaml:"telegram" envconfig:"TELEGRAM"`
	DataSource struct {
		Provider  string   `yaml:"provider" envconfig:"PROVIDER"` // binance or yahoo
		Symbols   []string `yaml:"symbols" envconfig:"SYMBOLS"`
		BaseURL   string   `yaml:"base_url" envconfig:"BASE_URL"`
		APIKey    string   `yaml:"api_key" envconfig:"API_KEY"`
		SecretKey string   `yaml:"secret_key" envconfig:"SECRET_KEY"`
	} `yaml:"data_source" envconfig:"DATA_SOURCE"`
	Schedule struct {
		Interval time.Duration `yaml:"interval" envconfig:"INTERVAL"`
	} `yaml:"schedule" envconfig:"SCHEDULE"`
	Indicators struct {
		MAPeriod         int `yaml:"ma_period" envconfig:"MA_PERIOD"`
		OscillatorPeriod int `yaml:"oscillator_period" envconfig:"OSCILLATOR_PERIOD"`
		HistoryDepth     int `yaml:"history_depth" envconfig:"HISTORY_DEPTH"`
	} `yaml:"indicators" envconfig:"INDICATORS"`
	Storage struct {
		Driver        string `yaml:"driver" envconfig:"DRIVER"` // csv, sqlite, redis or memory
		CSVPath       string `yaml:"csv_path" envconfig:"CSV_PATH"`
		SQLitePath    string `yaml:"sqlite_path" envconfig:"SQLITE_PATH"`
		RedisAddr     string `yaml:"redis_addr" envconfig:"REDIS_ADDR"`
		RedisPassword string `yaml:"redis_password" envconfig:"REDIS_PASSWORD"`
		RedisDB       int    `yaml:"redis_db" envconfig:"REDIS_DB"`
		ReportLog     string `yaml:"report_log" envconfig:"REPORT_LOG"`
		LockFile      string `yaml:"lock_file" envconfig:"LOCK_FILE"`
	} `yaml:"storage" envconfig:"STORAGE"`
	Metrics struct {
		Addr string `yaml:"addr" envconfig:"ADDR"`
	} `yaml:"metrics" envconfig:"METRICS"`
	Proxy string `yaml:"proxy" envconfig:"HTTPS_PROXY"`
}

// Load reads config from a YAML file, then applies .env and environment variable
// overrides, then defaults. A missing file is not an error.
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

	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()

	// Unset variables leave YAML values untouched.
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("env overrides: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Telegram.StatusCommand == "" {
		c.Telegram.StatusCommand = "/status"
	}
	if c.Telegram.PollInterval == 0 {
		c.Telegram.PollInterval = 5 * time.Second
	}
	if c.Telegram.SendRetries == 0 {
		c.Telegram.SendRetries = 3
	}
	if c.DataSource.Provider == "" {
		c.DataSource.Provider = "binance"
	}
	if len(c.DataSource.Symbols) == 0 {
		c.DataSource.Symbols = []string{"BTCUSDT", "ETHUSDT", "SOLUSDT"}
	}
	if c.Schedule.Interval == 0 {
		c.Schedule.Interval = time.Hour
	}
	if c.Indicators.MAPeriod == 0 {
		c.Indicators.MAPeriod = 20
	}
	if c.Indicators.OscillatorPeriod == 0 {
		c.Indicators.OscillatorPeriod = 14
	}
	if c.Indicators.HistoryDepth == 0 {
		c.Indicators.HistoryDepth = 30
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "csv"
	}
	if c.Storage.CSVPath == "" {
		c.Storage.CSVPath = "data/crypto_prices_full.csv"
	}
	if c.Storage.SQLitePath == "" {
		c.Storage.SQLitePath = "data/trend_sentinel.db"
	}
	if c.Storage.RedisAddr == "" {
		c.Storage.RedisAddr = "localhost:6379"
	}
	if c.Storage.ReportLog == "" {
		c.Storage.ReportLog = "data/trend_log.txt"
	}
	if c.Storage.LockFile == "" {
		c.Storage.LockFile = ".collector.lock"
	}
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	if c.Telegram.PollInterval <= 0 {
		return fmt.Errorf("telegram.poll_interval must be positive")
	}
	if c.Telegram.SendRetries < 0 {
		return fmt.Errorf("telegram.send_retries cannot be negative")
	}
	switch c.DataSource.Provider {
	case "binance", "yahoo":
	default:
		return fmt.Errorf("data_source.provider %q is not supported", c.DataSource.Provider)
	}
	for _, s := range c.DataSource.Symbols {
		if s == "" {
			return fmt.Errorf("data_source.symbols contains an empty symbol")
		}
	}
	if c.Schedule.Interval < time.Second {
		return fmt.Errorf("schedule.interval must be at least 1s")
	}
	if c.Indicators.MAPeriod <= 0 || c.Indicators.OscillatorPeriod <= 0 {
		return fmt.Errorf("indicator periods must be positive")
	}
	if c.Indicators.HistoryDepth < c.Indicators.OscillatorPeriod {
		return fmt.Errorf("indicators.history_depth must be at least oscillator_period")
	}
	switch c.Storage.Driver {
	case "csv", "sqlite", "redis", "memory":
	default:
		return fmt.Errorf("storage.driver %q is not supported", c.Storage.Driver)
	}
	return nil
}
