package handler

import (
	"context"
	"errors"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/ledgercore/internal/config"
	"github.com/set-night/ledgercore/internal/domain"
)

func (h *Handler) handleHistory(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	id, page, err := parseHistoryArgs(commandArgs(update.Message.Text))
	if err != nil {
		h.replyUsage(ctx, b, chatID, err, "Usage: /history <id> <page>")
		return
	}

	hist, err := h.queries.AccountHistory(ctx, id, domain.PageRequest{Page: page, Size: config.HistoryLimit})
	if err != nil {
		h.replyError(ctx, b, chatID, err, "account history")
		return
	}
	h.reply(ctx, b, chatID, formatHistory(id, hist), historyKeyboard(id, hist))
}

func (h *Handler) handleHistoryPage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: update.CallbackQuery.ID})

	id, page, err := parseHistoryCallback(update.CallbackQuery.Data)
	if err != nil {
		return
	}
	msg := update.CallbackQuery.Message.Message
	if msg == nil {
		return
	}

	hist, err := h.queries.AccountHistory(ctx, id, domain.PageRequest{Page: page, Size: config.HistoryLimit})
	if err != nil {
		h.replyError(ctx, b, msg.Chat.ID, err, "account history page")
		return
	}

	params := &bot.EditMessageTextParams{
		ChatID:    msg.Chat.ID,
		MessageID: msg.ID,
		Text:      formatHistory(id, hist),
		ParseMode: models.ParseModeMarkdownV1,
	}
	if kb := historyKeyboard(id, hist); kb != nil {
		params.ReplyMarkup = kb
	}
	b.EditMessageText(ctx, params)
}

func (h *Handler) handleStatement(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	id, from, to, err := parseStatementArgs(commandArgs(update.Message.Text))
	if err != nil {
		h.replyUsage(ctx, b, chatID, err, "Usage: /statement <id> <from> <to>, dates as YYYY-MM-DD")
		return
	}

	st, err := h.queries.Statement(ctx, id, from, to)
	if err != nil {
		h.replyError(ctx, b, chatID, err, "statement")
		return
	}
	h.reply(ctx, b, chatID, formatStatement(st), nil)
}

func (h *Handler) handleTransaction(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	args := commandArgs(update.Message.Text)
	if len(args) != 1 {
		h.reply(ctx, b, chatID, "Usage: /tx <id>", nil)
		return
	}
	id, err := parseID(args[0])
	if err != nil {
		h.reply(ctx, b, chatID, "❌ "+err.Error(), nil)
		return
	}

	tx, err := h.queries.GetTransaction(ctx, id)
	if err != nil {
		h.replyError(ctx, b, chatID, err, "get transaction")
		return
	}
	h.reply(ctx, b, chatID, formatTransaction(tx), nil)
}

func (h *Handler) replyUsage(ctx context.Context, b *bot.Bot, chatID int64, err error, usage string) {
	if errors.Is(err, errUsage) {
		h.reply(ctx, b, chatID, usage, nil)
		return
	}
	h.reply(ctx, b, chatID, "❌ "+err.Error(), nil)
}
