package handler

import (
	"context"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/ledgercore/internal/domain"
	"github.com/set-night/ledgercore/internal/middleware"
	tg "github.com/set-night/ledgercore/internal/telegram"
)

func (h *Handler) handleAccounts(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	var owner *int64
	switch args := commandArgs(update.Message.Text); len(args) {
	case 0:
	case 1:
		id, err := parseID(args[0])
		if err != nil {
			h.reply(ctx, b, chatID, "❌ "+err.Error(), nil)
			return
		}
		owner = &id
	default:
		h.reply(ctx, b, chatID, "Usage: /accounts <owner>", nil)
		return
	}

	accounts, err := h.ledger.ListAccounts(ctx, owner)
	if err != nil {
		h.replyError(ctx, b, chatID, err, "list accounts")
		return
	}
	h.reply(ctx, b, chatID, formatAccountList(accounts), nil)
}

func (h *Handler) handleAccount(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	args := commandArgs(update.Message.Text)
	if len(args) != 1 {
		h.reply(ctx, b, chatID, "Usage: /account <id>", nil)
		return
	}
	id, err := parseID(args[0])
	if err != nil {
		h.reply(ctx, b, chatID, "❌ "+err.Error(), nil)
		return
	}

	acct, err := h.ledger.GetAccount(ctx, id)
	if err != nil {
		h.replyError(ctx, b, chatID, err, "get account")
		return
	}
	h.reply(ctx, b, chatID, formatAccount(acct), accountKeyboard(acct))
}

func (h *Handler) handleFreeze(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.setFrozenCommand(ctx, b, update, true)
}

func (h *Handler) handleUnfreeze(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.setFrozenCommand(ctx, b, update, false)
}

func (h *Handler) setFrozenCommand(ctx context.Context, b *bot.Bot, update *models.Update, frozen bool) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	args := commandArgs(update.Message.Text)
	if len(args) != 1 {
		h.reply(ctx, b, chatID, "Usage: "+strings.Fields(update.Message.Text)[0]+" <id>", nil)
		return
	}
	id, err := parseID(args[0])
	if err != nil {
		h.reply(ctx, b, chatID, "❌ "+err.Error(), nil)
		return
	}

	acct, err := h.toggleFrozen(ctx, id, frozen)
	if err != nil {
		h.replyError(ctx, b, chatID, err, "set frozen")
		return
	}
	h.reply(ctx, b, chatID, formatAccount(acct), accountKeyboard(acct))
}

func (h *Handler) handleFreezeCallback(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.setFrozenCallback(ctx, b, update, cbFreeze, true)
}

func (h *Handler) handleUnfreezeCallback(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.setFrozenCallback(ctx, b, update, cbUnfreeze, false)
}

func (h *Handler) setFrozenCallback(ctx context.Context, b *bot.Bot, update *models.Update, prefix string, frozen bool) {
	if update.CallbackQuery == nil {
		return
	}
	id, err := parseCallbackID(update.CallbackQuery.Data, prefix)
	if err != nil {
		b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
			CallbackQueryID: update.CallbackQuery.ID,
			Text:            err.Error(),
		})
		return
	}

	acct, err := h.toggleFrozen(ctx, id, frozen)
	if err != nil {
		b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
			CallbackQueryID: update.CallbackQuery.ID,
			Text:            errorText(err),
			ShowAlert:       true,
		})
		h.reportUnexpected(ctx, err, "set frozen callback")
		return
	}
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: update.CallbackQuery.ID})

	if msg := update.CallbackQuery.Message.Message; msg != nil {
		b.EditMessageText(ctx, &bot.EditMessageTextParams{
			ChatID:      msg.Chat.ID,
			MessageID:   msg.ID,
			Text:        formatAccount(acct),
			ParseMode:   models.ParseModeMarkdownV1,
			ReplyMarkup: accountKeyboard(acct),
		})
	}
}

func (h *Handler) toggleFrozen(ctx context.Context, id int64, frozen bool) (domain.Account, error) {
	operator, _ := middleware.GetOperator(ctx)

	var (
		acct domain.Account
		err  error
	)
	if frozen {
		acct, err = h.ledger.Freeze(ctx, id)
	} else {
		acct, err = h.ledger.Unfreeze(ctx, id)
	}
	if err != nil {
		return domain.Account{}, err
	}

	slog.Info("account freeze state changed by operator",
		"account_id", id,
		"frozen", acct.Frozen,
		"operator_id", operator,
	)
	return acct, nil
}

// reply sends text with an optional inline keyboard.
func (h *Handler) reply(ctx context.Context, b *bot.Bot, chatID int64, text string, keyboard *models.InlineKeyboardMarkup) {
	var markup models.ReplyMarkup
	if keyboard != nil {
		markup = keyboard
	}
	if err := tg.SendLongMessage(ctx, b, chatID, text, markup); err != nil {
		slog.Error("failed to send reply", "chat_id", chatID, "error", err)
	}
}

func (h *Handler) replyError(ctx context.Context, b *bot.Bot, chatID int64, err error, where string) {
	h.reportUnexpected(ctx, err, where)
	h.reply(ctx, b, chatID, errorText(err), nil)
}

// reportUnexpected forwards untyped and infrastructure failures to the error
// topic. Business rejections are only answered to the operator.
func (h *Handler) reportUnexpected(ctx context.Context, err error, where string) {
	switch domain.KindOf(err) {
	case "", domain.KindUnavailable:
		slog.Error("ops command failed", "where", where, "error", err)
		if h.notifier != nil {
			h.notifier.LogError(ctx, err, where)
		}
	}
}
