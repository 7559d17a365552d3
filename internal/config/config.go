// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type SourceConfig struct {
	BaseURL   string        `yaml:"base_url"`
	APIKey    string        `yaml:"api_key"` // optional; raises openFDA rate limits
	Limit     int           `yaml:"limit"`   // page size, 1..100
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`
}

type SlackConfig struct {
	Token   string `yaml:"token"` // falls back to $SLACK_API_TOKEN
	Channel string `yaml:"channel"`
	BaseURL string `yaml:"base_url"`
}

type TelegramConfig struct {
	Token  string `yaml:"token"` // falls back to $TELEGRAM_BOT_TOKEN
	ChatID int64  `yaml:"chat_id"`
}

type ChatConfig struct {
	Platform   string         `yaml:"platform"` // slack | telegram
	Timeout    time.Duration  `yaml:"timeout"`
	RatePerSec float64        `yaml:"rate_per_sec"` // pacing between posts in one run
	Slack      SlackConfig    `yaml:"slack"`
	Telegram   TelegramConfig `yaml:"telegram"`
}

type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type MarkerConfig struct {
	Key   string      `yaml:"key"`
	Redis RedisConfig `yaml:"redis"`
}

type RunConfig struct {
	FirstRunPolicy   string        `yaml:"first_run_policy"` // baseline-only | notify-all
	RetryMaxAttempts int           `yaml:"retry_max_attempts"`
	RetryBaseDelay   time.Duration `yaml:"retry_base_delay"`
	RetryMaxDelay    time.Duration `yaml:"retry_max_delay"`
	LockKey          string        `yaml:"lock_key"`
	LockTTL          time.Duration `yaml:"lock_ttl"`
}

type SchedulerConfig struct {
	Cron     string        `yaml:"cron"`     // standard 5-field spec; takes precedence
	Interval time.Duration `yaml:"interval"` // used when cron is empty
}

type AdminConfig struct {
	Port   int    `yaml:"port"`
	APIKey string `yaml:"api_key"` // empty leaves the trigger endpoints disabled
}

type Config struct {
	Log       LogConfig       `yaml:"log"`
	Source    SourceConfig    `yaml:"source"`
	Chat      ChatConfig      `yaml:"chat"`
	Marker    MarkerConfig    `yaml:"marker"`
	Run       RunConfig       `yaml:"run"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Admin     AdminConfig     `yaml:"admin"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(configPath string, dev bool) (*Config, error) {
	b, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()

	// Minimal validation
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Source.BaseURL == "" {
		cfg.Source.BaseURL = "https://api.fda.gov/food/enforcement.json"
	}
	if cfg.Source.APIKey == "" {
		cfg.Source.APIKey = os.Getenv("OPENFDA_API_KEY")
	}
	if cfg.Source.Limit <= 0 {
		cfg.Source.Limit = 20
	}
	if cfg.Source.Timeout <= 0 {
		cfg.Source.Timeout = 15 * time.Second
	}
	if cfg.Source.UserAgent == "" {
		cfg.Source.UserAgent = "Mozilla/5.0"
	}
	if cfg.Chat.Platform == "" {
		cfg.Chat.Platform = "slack"
	}
	if cfg.Chat.Timeout <= 0 {
		cfg.Chat.Timeout = 10 * time.Second
	}
	if cfg.Chat.RatePerSec <= 0 {
		cfg.Chat.RatePerSec = 1
	}
	if cfg.Chat.Slack.Token == "" {
		cfg.Chat.Slack.Token = os.Getenv("SLACK_API_TOKEN")
	}
	if cfg.Chat.Slack.Channel == "" {
		cfg.Chat.Slack.Channel = "slack-bots"
	}
	if cfg.Chat.Telegram.Token == "" {
		cfg.Chat.Telegram.Token = os.Getenv("TELEGRAM_BOT_TOKEN")
	}
	if cfg.Marker.Key == "" {
		cfg.Marker.Key = "recallbot:marker"
	}
	if cfg.Run.FirstRunPolicy == "" {
		cfg.Run.FirstRunPolicy = "baseline-only"
	}
	if cfg.Run.RetryMaxAttempts == 0 {
		cfg.Run.RetryMaxAttempts = 4
	}
	if cfg.Run.RetryBaseDelay <= 0 {
		cfg.Run.RetryBaseDelay = 500 * time.Millisecond
	}
	if cfg.Run.RetryMaxDelay <= 0 {
		cfg.Run.RetryMaxDelay = 10 * time.Second
	}
	if cfg.Run.LockKey == "" {
		cfg.Run.LockKey = "recallbot:poll:lock"
	}
	if cfg.Run.LockTTL <= 0 {
		cfg.Run.LockTTL = 2 * time.Minute
	}
	if cfg.Scheduler.Cron == "" && cfg.Scheduler.Interval <= 0 {
		cfg.Scheduler.Interval = 30 * time.Minute
	}
	if cfg.Admin.Port <= 0 {
		cfg.Admin.Port = 8080
	}
}

func (cfg *Config) validate() error {
	if cfg.Marker.Redis.URL == "" {
		return errors.New("marker.redis.url is required")
	}
	if cfg.Source.Limit > 100 {
		return fmt.Errorf("source.limit must be 1..100, got %d", cfg.Source.Limit)
	}
	switch cfg.Chat.Platform {
	case "slack":
		if cfg.Chat.Slack.Token == "" {
			return errors.New("chat.slack.token is required (or set SLACK_API_TOKEN)")
		}
		if cfg.Chat.Slack.Channel == "" {
			return errors.New("chat.slack.channel is required")
		}
	case "telegram":
		if cfg.Chat.Telegram.Token == "" {
			return errors.New("chat.telegram.token is required (or set TELEGRAM_BOT_TOKEN)")
		}
		if cfg.Chat.Telegram.ChatID == 0 {
			return errors.New("chat.telegram.chat_id is required")
		}
	default:
		return fmt.Errorf("chat.platform must be slack or telegram, got %q", cfg.Chat.Platform)
	}
	switch cfg.Run.FirstRunPolicy {
	case "baseline-only", "notify-all":
	default:
		return fmt.Errorf("run.first_run_policy must be baseline-only or notify-all, got %q", cfg.Run.FirstRunPolicy)
	}
	if cfg.Run.RetryMaxAttempts < 3 || cfg.Run.RetryMaxAttempts > 5 {
		return fmt.Errorf("run.retry_max_attempts must be 3..5, got %d", cfg.Run.RetryMaxAttempts)
	}
	return nil
}
