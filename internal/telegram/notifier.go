package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/ledgercore/internal/config"
	"github.com/set-night/ledgercore/internal/domain"
)

// Sender is the part of *bot.Bot the package needs.
type Sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// Notifier posts ledger events to forum topics of the log chat. Each event
// group has its own topic; a zero topic disables that group.
type Notifier struct {
	sender Sender
	cfg    *config.Config
}

func NewNotifier(sender Sender, cfg *config.Config) *Notifier {
	return &Notifier{sender: sender, cfg: cfg}
}

type topic string

const (
	topicError     topic = "error"
	topicLifecycle topic = "lifecycle"
	topicMovement  topic = "movement"
	topicAlert     topic = "alert"
	topicFreeze    topic = "freeze"
)

func (n *Notifier) Emit(ctx context.Context, ev domain.Event) error {
	return n.post(ctx, topicFor(ev.Type), FormatEvent(ev))
}

// LogError reports an operational failure to the error topic.
func (n *Notifier) LogError(ctx context.Context, err error, where string) {
	msg := fmt.Sprintf("❌ *Error*\n\n*Context:* %s\n*Error:* `%s`\n*Time:* %s",
		where, err.Error(), time.Now().Format("2006-01-02 15:04:05"))
	if sendErr := n.post(ctx, topicError, msg); sendErr != nil {
		slog.Error("failed to send telegram log", "type", topicError, "error", sendErr)
	}
}

func (n *Notifier) post(ctx context.Context, t topic, message string) error {
	if n.cfg.LogTelegramChatID == 0 {
		return nil
	}
	topicID := n.topicID(t)
	if topicID == 0 {
		return nil
	}

	if len([]rune(message)) > config.MaxTelegramMessageLen {
		message = string([]rune(message)[:config.MaxTelegramMessageLen-20]) + "\n\n... (truncated)"
	}

	ctx, cancel := context.WithTimeout(ctx, config.NotifyTimeout)
	defer cancel()

	_, err := n.sender.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:          n.cfg.LogTelegramChatID,
		Text:            message,
		ParseMode:       models.ParseModeMarkdownV1,
		MessageThreadID: topicID,
	})
	if err != nil {
		return fmt.Errorf("send %s notification: %w", t, err)
	}
	return nil
}

func (n *Notifier) topicID(t topic) int {
	switch t {
	case topicError:
		return n.cfg.LogTopicError
	case topicLifecycle:
		return n.cfg.LogTopicLifecycle
	case topicMovement:
		return n.cfg.LogTopicMovement
	case topicAlert:
		return n.cfg.LogTopicAlert
	case topicFreeze:
		return n.cfg.LogTopicFreeze
	default:
		return 0
	}
}

func topicFor(t domain.EventType) topic {
	switch t {
	case domain.EventAccountCreated, domain.EventAccountDeleted:
		return topicLifecycle
	case domain.EventDeposit, domain.EventWithdrawal, domain.EventTransferOut, domain.EventTransferIn:
		return topicMovement
	case domain.EventBalanceAlert, domain.EventOverdraftExceeded:
		return topicAlert
	case domain.EventAccountFrozen, domain.EventManualFreeze, domain.EventAccountUnfrozen:
		return topicFreeze
	default:
		return topicError
	}
}

var eventIcons = map[domain.EventType]string{
	domain.EventAccountCreated:    "🆕",
	domain.EventAccountDeleted:    "🗑",
	domain.EventDeposit:           "💰",
	domain.EventWithdrawal:        "💸",
	domain.EventTransferOut:       "➡️",
	domain.EventTransferIn:        "⬅️",
	domain.EventBalanceAlert:      "⚠️",
	domain.EventOverdraftExceeded: "⛔",
	domain.EventAccountFrozen:     "🧊",
	domain.EventManualFreeze:      "🧊",
	domain.EventAccountUnfrozen:   "🔓",
}

// FormatEvent renders an event as a Markdown message.
func FormatEvent(ev domain.Event) string {
	icon, ok := eventIcons[ev.Type]
	if !ok {
		icon = "ℹ️"
	}
	msg := fmt.Sprintf("%s *%s*\n\n*Account:* `%d`\n*Balance:* %s\n*Time:* %s",
		icon, ev.Type, ev.AccountID, ev.Balance.StringFixed(domain.MoneyScale),
		ev.Timestamp.Format("2006-01-02 15:04:05"))
	if ev.Note != "" {
		msg += "\n*Note:* " + EscapeMarkdown(ev.Note)
	}
	return msg
}
