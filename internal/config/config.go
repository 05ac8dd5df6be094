package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/shopspring/decimal"
)

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type Config struct {
	// Core
	Store       string `env:"STORE" envDefault:"postgres"`
	DatabaseURL string `env:"DATABASE_URL"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// Database pool
	DBMaxConns int32 `env:"DB_MAX_CONNS" envDefault:"20"`
	DBMinConns int32 `env:"DB_MIN_CONNS" envDefault:"5"`

	// Ledger policy
	MinBalance          decimal.Decimal `env:"LEDGER_MIN_BALANCE" envDefault:"50.00"`
	MaxOverdraft        decimal.Decimal `env:"LEDGER_MAX_OVERDRAFT" envDefault:"-100.00"`
	AllowOverdraft      bool            `env:"LEDGER_ALLOW_OVERDRAFT" envDefault:"true"`
	BlockFrozenReceiver bool            `env:"LEDGER_BLOCK_FROZEN_RECEIVER" envDefault:"true"`
	LockTimeout         time.Duration   `env:"LEDGER_LOCK_TIMEOUT" envDefault:"5s"`

	// Ops bot, disabled when the token is empty
	BotToken string  `env:"BOT_TOKEN"`
	AdminIDs []int64 `env:"ADMIN_IDS" envSeparator:","`

	// Telegram event notifications
	LogTelegramChatID int64 `env:"LOG_TELEGRAM_CHAT_ID"`
	LogTopicError     int   `env:"LOG_TOPIC_ERROR"`
	LogTopicLifecycle int   `env:"LOG_TOPIC_LIFECYCLE"`
	LogTopicMovement  int   `env:"LOG_TOPIC_MOVEMENT"`
	LogTopicAlert     int   `env:"LOG_TOPIC_ALERT"`
	LogTopicFreeze    int   `env:"LOG_TOPIC_FREEZE"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Store {
	case StorePostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres store")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown STORE %q", c.Store)
	}
	if c.MaxOverdraft.IsPositive() {
		return errors.New("LEDGER_MAX_OVERDRAFT must not be positive")
	}
	if c.MinBalance.IsNegative() {
		return errors.New("LEDGER_MIN_BALANCE must not be negative")
	}
	if c.LockTimeout <= 0 {
		return errors.New("LEDGER_LOCK_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) IsAdmin(telegramID int64) bool {
	for _, id := range c.AdminIDs {
		if id == telegramID {
			return true
		}
	}
	return false
}

func (c *Config) AdminIDsString() string {
	parts := make([]string, len(c.AdminIDs))
	for i, id := range c.AdminIDs {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return strings.Join(parts, ",")
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
