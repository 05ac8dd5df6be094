package middleware

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

type ctxKey string

const OperatorKey ctxKey = "operator"

// GetOperator returns the Telegram id of the admin issuing the update.
func GetOperator(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(OperatorKey).(int64)
	return id, ok
}

// AdminOnly drops updates from anyone not listed as an admin and stores the
// sender's id in the context for audit logging.
func AdminOnly(cfg interface{ IsAdmin(int64) bool }) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			from := updateSender(update)
			if from == nil {
				return
			}
			if !cfg.IsAdmin(from.ID) {
				slog.Warn("ignored update from non-admin", "user_id", from.ID)
				return
			}

			ctx = context.WithValue(ctx, OperatorKey, from.ID)
			next(ctx, b, update)
		}
	}
}

func updateSender(update *models.Update) *models.User {
	switch {
	case update.Message != nil:
		return update.Message.From
	case update.CallbackQuery != nil:
		return &update.CallbackQuery.From
	}
	return nil
}
