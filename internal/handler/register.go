package handler

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	tg "github.com/set-night/ledgercore/internal/telegram"
)

// Register registers all command and callback handlers on the bot instance.
func (h *Handler) Register() {
	// Commands
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, h.handleHelp)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, h.handleHelp)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/accounts", bot.MatchTypePrefix, h.handleAccounts)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/account", bot.MatchTypeExact, h.handleAccount)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/account ", bot.MatchTypePrefix, h.handleAccount)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/freeze", bot.MatchTypePrefix, h.handleFreeze)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/unfreeze", bot.MatchTypePrefix, h.handleUnfreeze)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/history", bot.MatchTypePrefix, h.handleHistory)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/statement", bot.MatchTypePrefix, h.handleStatement)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/tx", bot.MatchTypePrefix, h.handleTransaction)

	// Ledger writes
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/open", bot.MatchTypePrefix, h.handleOpen)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/deposit", bot.MatchTypePrefix, h.handleDeposit)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/withdraw", bot.MatchTypePrefix, h.handleWithdraw)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/transfer", bot.MatchTypePrefix, h.handleTransfer)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/delete", bot.MatchTypePrefix, h.handleDelete)

	// Account callbacks
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, cbFreeze, bot.MatchTypePrefix, h.handleFreezeCallback)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, cbUnfreeze, bot.MatchTypePrefix, h.handleUnfreezeCallback)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, cbHistory, bot.MatchTypePrefix, h.handleHistoryPage)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, tg.NoopCallback, bot.MatchTypeExact, h.handleNoop)
}

func (h *Handler) handleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	tg.SendLongMessage(ctx, b, update.Message.Chat.ID, helpText, nil)
}

// handleNoop is a no-op callback handler used for pagination indicators and other
// non-interactive inline buttons. It simply acknowledges the callback query.
func (h *Handler) handleNoop(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery != nil {
		b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
			CallbackQueryID: update.CallbackQuery.ID,
		})
	}
}

const helpText = "🏦 *Ledger ops*\n\n" +
	"/accounts <owner> - list accounts, optionally of one owner\n" +
	"/account <id> - account details\n" +
	"/freeze <id> - freeze an account\n" +
	"/unfreeze <id> - unfreeze an account\n" +
	"/history <id> <page> - ledger entries of an account, page is optional\n" +
	"/statement <id> <from> <to> - totals between two dates (YYYY-MM-DD)\n" +
	"/tx <id> - a single ledger entry\n\n" +
	"/open <owner> <type> - open an account\n" +
	"/deposit <id> <amount> <note> - credit an account, note is optional\n" +
	"/withdraw <id> <amount> <note> - debit an account, note is optional\n" +
	"/transfer <from> <to> <amount> <note> - move funds, note is optional\n" +
	"/delete <id> - delete an account without history"
