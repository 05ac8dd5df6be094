package events

import (
	"context"
	"errors"
	"log/slog"

	"github.com/set-night/ledgercore/internal/domain"
)

// Emitter is satisfied by every sink in this package and by the Telegram
// notifier.
type Emitter interface {
	Emit(ctx context.Context, event domain.Event) error
}

// LogEmitter writes each event as one structured log line.
type LogEmitter struct {
	logger *slog.Logger
}

func NewLogEmitter(logger *slog.Logger) *LogEmitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogEmitter{logger: logger.With("component", "events")}
}

func (e *LogEmitter) Emit(ctx context.Context, ev domain.Event) error {
	level := slog.LevelInfo
	msg := "ledger event"

	switch ev.Type {
	case domain.EventAccountCreated:
		msg = "bank account created"
	case domain.EventAccountDeleted:
		msg = "bank account deleted"
	case domain.EventDeposit:
		msg = "deposit made"
	case domain.EventWithdrawal:
		msg = "withdrawal made"
	case domain.EventTransferOut, domain.EventTransferIn:
		msg = "transfer leg booked"
	case domain.EventBalanceAlert:
		level = slog.LevelWarn
		msg = "balance below minimum"
	case domain.EventOverdraftExceeded:
		level = slog.LevelWarn
		msg = "overdraft limit exceeded"
	case domain.EventAccountFrozen:
		level = slog.LevelWarn
		msg = "account frozen due to overdraft"
	case domain.EventManualFreeze:
		msg = "account manually frozen"
	case domain.EventAccountUnfrozen:
		msg = "account unfrozen"
	}

	e.logger.Log(ctx, level, msg,
		"event_id", ev.ID.String(),
		"event_type", string(ev.Type),
		"account_id", ev.AccountID,
		"balance", ev.Balance.String(),
		"timestamp", ev.Timestamp,
		"note", ev.Note,
	)
	return nil
}

// Multi fans an event out to every sink. A failing sink does not stop the
// others; their errors are joined.
type Multi []Emitter

func (m Multi) Emit(ctx context.Context, ev domain.Event) error {
	var errs []error
	for _, e := range m {
		if e == nil {
			continue
		}
		if err := e.Emit(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Nop discards events.
type Nop struct{}

func (Nop) Emit(context.Context, domain.Event) error { return nil }
