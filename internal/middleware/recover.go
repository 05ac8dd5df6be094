package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// ErrorReporter forwards handler failures to an operator channel.
type ErrorReporter interface {
	LogError(ctx context.Context, err error, where string)
}

// ReporterFunc adapts a function to ErrorReporter.
type ReporterFunc func(ctx context.Context, err error, where string)

func (f ReporterFunc) LogError(ctx context.Context, err error, where string) {
	f(ctx, err, where)
}

// Recover returns middleware that recovers from panics. reporter may be nil.
func Recover(reporter ErrorReporter) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			defer func() {
				if r := recover(); r != nil {
					slog.Error("panic recovered in handler",
						"panic", r,
						"update_id", update.ID,
						"stack", string(debug.Stack()),
					)
					if reporter != nil {
						reporter.LogError(ctx, fmt.Errorf("panic: %v", r), "ops bot handler")
					}
				}
			}()
			next(ctx, b, update)
		}
	}
}
