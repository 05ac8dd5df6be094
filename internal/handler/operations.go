package handler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/ledgercore/internal/middleware"
)

func (h *Handler) handleOpen(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	req, err := parseOpenArgs(commandArgs(update.Message.Text))
	if err != nil {
		h.replyUsage(ctx, b, chatID, err, "Usage: /open <owner> <type>")
		return
	}

	acct, err := h.ledger.CreateAccount(ctx, req)
	if err != nil {
		h.replyError(ctx, b, chatID, err, "open account")
		return
	}

	operator, _ := middleware.GetOperator(ctx)
	slog.Info("account opened by operator", "account_id", acct.ID, "owner_id", acct.OwnerID, "operator_id", operator)
	h.reply(ctx, b, chatID, formatAccount(acct), accountKeyboard(acct))
}

func (h *Handler) handleDeposit(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	req, err := parseMovementArgs(commandArgs(update.Message.Text))
	if err != nil {
		h.replyUsage(ctx, b, chatID, err, "Usage: /deposit <id> <amount> <note>")
		return
	}

	acct, tx, err := h.ledger.Deposit(ctx, req.AccountID, req.Amount, req.Description)
	if err != nil {
		h.replyError(ctx, b, chatID, err, "deposit")
		return
	}

	operator, _ := middleware.GetOperator(ctx)
	slog.Info("deposit by operator", "account_id", acct.ID, "transaction_id", tx.ID, "operator_id", operator)
	h.reply(ctx, b, chatID, formatMovement(acct, tx), nil)
}

func (h *Handler) handleWithdraw(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	req, err := parseMovementArgs(commandArgs(update.Message.Text))
	if err != nil {
		h.replyUsage(ctx, b, chatID, err, "Usage: /withdraw <id> <amount> <note>")
		return
	}

	acct, tx, err := h.ledger.Withdraw(ctx, req.AccountID, req.Amount, req.Description)
	if err != nil {
		h.replyError(ctx, b, chatID, err, "withdraw")
		return
	}

	operator, _ := middleware.GetOperator(ctx)
	slog.Info("withdrawal by operator", "account_id", acct.ID, "transaction_id", tx.ID, "operator_id", operator)
	h.reply(ctx, b, chatID, formatMovement(acct, tx), nil)
}

func (h *Handler) handleTransfer(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	req, err := parseTransferArgs(commandArgs(update.Message.Text))
	if err != nil {
		h.replyUsage(ctx, b, chatID, err, "Usage: /transfer <from> <to> <amount> <note>")
		return
	}

	res, err := h.ledger.Transfer(ctx, req)
	if err != nil {
		h.replyError(ctx, b, chatID, err, "transfer")
		return
	}

	operator, _ := middleware.GetOperator(ctx)
	slog.Info("transfer by operator",
		"sender_id", res.Sender.ID,
		"receiver_id", res.Receiver.ID,
		"reference", res.Debit.Reference.String(),
		"operator_id", operator,
	)
	h.reply(ctx, b, chatID, formatTransfer(res), nil)
}

func (h *Handler) handleDelete(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	args := commandArgs(update.Message.Text)
	if len(args) != 1 {
		h.reply(ctx, b, chatID, "Usage: /delete <id>", nil)
		return
	}
	id, err := parseID(args[0])
	if err != nil {
		h.reply(ctx, b, chatID, "❌ "+err.Error(), nil)
		return
	}

	if err := h.ledger.DeleteAccount(ctx, id); err != nil {
		h.replyError(ctx, b, chatID, err, "delete account")
		return
	}

	operator, _ := middleware.GetOperator(ctx)
	slog.Info("account deleted by operator", "account_id", id, "operator_id", operator)
	h.reply(ctx, b, chatID, fmt.Sprintf("🗑 Account %d deleted.", id), nil)
}
