package handler

import (
	"github.com/go-telegram/bot"
	"github.com/set-night/ledgercore/internal/config"
	"github.com/set-night/ledgercore/internal/service"
	"github.com/set-night/ledgercore/internal/telegram"
)

// Handler holds the dependencies of the ops bot commands.
type Handler struct {
	bot      *bot.Bot
	cfg      *config.Config
	ledger   *service.LedgerService
	queries  *service.QueryService
	notifier *telegram.Notifier
}

// Deps contains all dependencies required to construct a Handler.
type Deps struct {
	Bot      *bot.Bot
	Cfg      *config.Config
	Ledger   *service.LedgerService
	Queries  *service.QueryService
	Notifier *telegram.Notifier
}

// New creates a new Handler from the provided dependencies.
func New(deps Deps) *Handler {
	return &Handler{
		bot:      deps.Bot,
		cfg:      deps.Cfg,
		ledger:   deps.Ledger,
		queries:  deps.Queries,
		notifier: deps.Notifier,
	}
}
