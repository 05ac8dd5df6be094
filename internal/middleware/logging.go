package middleware

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Logging returns middleware that logs each update with its command and
// processing time.
func Logging() bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			start := time.Now()

			updateType := "unknown"
			var chatID int64
			var userID int64

			if update.Message != nil {
				updateType = "message"
				chatID = update.Message.Chat.ID
				if update.Message.From != nil {
					userID = update.Message.From.ID
				}
			} else if update.CallbackQuery != nil {
				updateType = "callback_query"
				if update.CallbackQuery.Message.Message != nil {
					chatID = update.CallbackQuery.Message.Message.Chat.ID
				}
				userID = update.CallbackQuery.From.ID
			}

			next(ctx, b, update)

			slog.Info("update processed",
				"type", updateType,
				"command", commandOf(update),
				"chat_id", chatID,
				"user_id", userID,
				"duration", time.Since(start),
			)
		}
	}
}

// commandOf returns the leading command or callback data of an update.
func commandOf(update *models.Update) string {
	switch {
	case update.Message != nil:
		if fields := strings.Fields(update.Message.Text); len(fields) > 0 && strings.HasPrefix(fields[0], "/") {
			return fields[0]
		}
	case update.CallbackQuery != nil:
		return update.CallbackQuery.Data
	}
	return ""
}
