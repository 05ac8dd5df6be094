package config

import "time"

const (
	// Account numbers
	AccountNumberDigits   = 9
	AccountNumberAttempts = 10

	// Pagination
	DefaultPageSize = 20
	MaxPageSize     = 200

	// Telegram limits
	MaxTelegramMessageLen = 4096

	// Outbound notification timeout
	NotifyTimeout = 10 * time.Second

	// Ops bot history listing
	HistoryLimit = 15
)
