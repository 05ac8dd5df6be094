package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/set-night/ledgercore/internal/config"
	"github.com/set-night/ledgercore/internal/domain"
	"github.com/set-night/ledgercore/internal/repository"
	"github.com/shopspring/decimal"
)

// Emitter receives events after the write that produced them has committed.
type Emitter interface {
	Emit(ctx context.Context, event domain.Event) error
}

// Policy holds the configurable limits the engine enforces.
type Policy struct {
	MinBalance            decimal.Decimal
	MaxOverdraft          decimal.Decimal
	AllowOverdraft        bool
	BlockFrozenReceiver   bool
	AccountNumberAttempts int
}

func DefaultPolicy() Policy {
	return Policy{
		MinBalance:            decimal.RequireFromString("50.00"),
		MaxOverdraft:          decimal.RequireFromString("-100.00"),
		AllowOverdraft:        true,
		BlockFrozenReceiver:   true,
		AccountNumberAttempts: config.AccountNumberAttempts,
	}
}

func PolicyFromConfig(cfg *config.Config) Policy {
	return Policy{
		MinBalance:            cfg.MinBalance,
		MaxOverdraft:          cfg.MaxOverdraft,
		AllowOverdraft:        cfg.AllowOverdraft,
		BlockFrozenReceiver:   cfg.BlockFrozenReceiver,
		AccountNumberAttempts: config.AccountNumberAttempts,
	}
}

// LedgerService is the write side of the ledger: it validates requests,
// mutates balances and appends ledger entries in one atomic unit per call.
type LedgerService struct {
	store      repository.Store
	emitter    Emitter
	policy     Policy
	validate   *validator.Validate
	nextNumber func() (string, error)
}

func NewLedgerService(store repository.Store, emitter Emitter, policy Policy) *LedgerService {
	if policy.AccountNumberAttempts <= 0 {
		policy.AccountNumberAttempts = config.AccountNumberAttempts
	}
	return &LedgerService{
		store:      store,
		emitter:    emitter,
		policy:     policy,
		validate:   newValidator(),
		nextNumber: generateAccountNumber,
	}
}

// Deposit credits amount to the account and records one CREDIT entry.
func (s *LedgerService) Deposit(ctx context.Context, accountID int64, amount decimal.Decimal, description string) (domain.Account, domain.TransactionView, error) {
	req := domain.MovementRequest{AccountID: accountID, Amount: amount, Description: description}
	if err := validateRequest(s.validate, req); err != nil {
		return domain.Account{}, domain.TransactionView{}, err
	}

	var (
		acct domain.Account
		tx   domain.Transaction
	)
	err := s.store.Atomically(ctx, []int64{accountID}, func(ctx context.Context, uow repository.UnitOfWork) error {
		current, err := uow.Account(accountID)
		if err != nil {
			return err
		}
		if current.Frozen {
			return domain.ErrAccountFrozen
		}

		current.Balance = current.Balance.Add(amount)
		if !domain.FitsBalance(current.Balance) {
			return domain.ErrInvalidAmount
		}
		acct, err = uow.SaveAccount(ctx, current)
		if err != nil {
			return err
		}

		if description == "" {
			description = "Deposit to account #" + current.Number
		}
		tx, err = uow.AppendTransaction(ctx, domain.Transaction{
			Reference:         uuid.New(),
			Amount:            amount,
			Kind:              domain.TxKindCredit,
			ReceiverAccountID: &accountID,
			Description:       description,
			CreatedAt:         time.Now().UTC(),
		})
		return err
	})
	if err != nil {
		return domain.Account{}, domain.TransactionView{}, fmt.Errorf("deposit: %w", err)
	}

	s.emit(ctx, domain.NewEvent(domain.EventDeposit, acct.ID, acct.Balance, "Deposit successful"))
	return acct, tx.View(), nil
}

// Withdraw debits amount from the account and records one DEBIT entry.
// A balance that lands below zero freezes the account in the same write.
func (s *LedgerService) Withdraw(ctx context.Context, accountID int64, amount decimal.Decimal, description string) (domain.Account, domain.TransactionView, error) {
	req := domain.MovementRequest{AccountID: accountID, Amount: amount, Description: description}
	if err := validateRequest(s.validate, req); err != nil {
		return domain.Account{}, domain.TransactionView{}, err
	}

	var (
		acct     domain.Account
		tx       domain.Transaction
		alerts   []domain.Event
		rejected *domain.Event
	)
	err := s.store.Atomically(ctx, []int64{accountID}, func(ctx context.Context, uow repository.UnitOfWork) error {
		current, err := uow.Account(accountID)
		if err != nil {
			return err
		}
		if !s.policy.AllowOverdraft && current.Balance.LessThan(amount) {
			return domain.ErrInsufficientFunds
		}
		if current.Frozen {
			return domain.ErrAccountFrozen
		}

		projected := current.Balance.Sub(amount)
		if projected.LessThan(s.policy.MaxOverdraft) {
			ev := domain.NewEvent(domain.EventOverdraftExceeded, accountID, projected, "Overdraft limit exceeded")
			rejected = &ev
			return domain.ErrOverdraftExceeded
		}
		if !domain.FitsBalance(projected) {
			return domain.ErrInvalidAmount
		}

		switch {
		case projected.IsNegative():
			current.Frozen = true
			alerts = append(alerts, domain.NewEvent(domain.EventAccountFrozen, accountID, projected, "Account frozen due to overdraft"))
		case projected.LessThan(s.policy.MinBalance):
			alerts = append(alerts, domain.NewEvent(domain.EventBalanceAlert, accountID, projected, "Balance dropped below minimum limit"))
		}

		current.Balance = projected
		acct, err = uow.SaveAccount(ctx, current)
		if err != nil {
			return err
		}

		if description == "" {
			description = "Withdrawal from account #" + current.Number
		}
		tx, err = uow.AppendTransaction(ctx, domain.Transaction{
			Reference:       uuid.New(),
			Amount:          amount,
			Kind:            domain.TxKindDebit,
			SenderAccountID: &accountID,
			Description:     description,
			CreatedAt:       time.Now().UTC(),
		})
		return err
	})
	if err != nil {
		if rejected != nil {
			s.emit(ctx, *rejected)
		}
		return domain.Account{}, domain.TransactionView{}, fmt.Errorf("withdraw: %w", err)
	}

	if acct.Frozen {
		slog.Info("account auto-frozen after overdraft", "account_id", acct.ID, "balance", acct.Balance.String())
	}
	s.emit(ctx, alerts...)
	s.emit(ctx, domain.NewEvent(domain.EventWithdrawal, acct.ID, acct.Balance, "Withdrawal successful"))
	return acct, tx.View(), nil
}

// Transfer moves funds between two accounts and records a DEBIT and a
// CREDIT entry sharing one reference. Transfers never overdraw the sender.
func (s *LedgerService) Transfer(ctx context.Context, req domain.TransferRequest) (domain.TransferResult, error) {
	if err := validateRequest(s.validate, req); err != nil {
		return domain.TransferResult{}, err
	}

	var result domain.TransferResult
	err := s.store.Atomically(ctx, []int64{req.SenderID, req.ReceiverID}, func(ctx context.Context, uow repository.UnitOfWork) error {
		sender, err := uow.Account(req.SenderID)
		if err != nil {
			return err
		}
		receiver, err := uow.Account(req.ReceiverID)
		if err != nil {
			return err
		}

		if sender.Balance.LessThan(req.Amount) {
			return domain.ErrInsufficientFunds
		}
		if sender.Frozen {
			return fmt.Errorf("sender: %w", domain.ErrAccountFrozen)
		}
		if receiver.Frozen && s.policy.BlockFrozenReceiver {
			return fmt.Errorf("receiver: %w", domain.ErrAccountFrozen)
		}

		sender.Balance = sender.Balance.Sub(req.Amount)
		receiver.Balance = receiver.Balance.Add(req.Amount)
		if !domain.FitsBalance(receiver.Balance) {
			return fmt.Errorf("receiver: %w", domain.ErrInvalidAmount)
		}
		if result.Sender, err = uow.SaveAccount(ctx, sender); err != nil {
			return err
		}
		if result.Receiver, err = uow.SaveAccount(ctx, receiver); err != nil {
			return err
		}

		debitDesc := "Transfer to account #" + receiver.Number
		creditDesc := "Transfer from account #" + sender.Number
		if req.Description != "" {
			debitDesc, creditDesc = req.Description, req.Description
		}

		ref := uuid.New()
		now := time.Now().UTC()
		debit, err := uow.AppendTransaction(ctx, domain.Transaction{
			Reference:         ref,
			Amount:            req.Amount,
			Kind:              domain.TxKindDebit,
			SenderAccountID:   &req.SenderID,
			ReceiverAccountID: &req.ReceiverID,
			Description:       debitDesc,
			CreatedAt:         now,
		})
		if err != nil {
			return err
		}
		credit, err := uow.AppendTransaction(ctx, domain.Transaction{
			Reference:         ref,
			Amount:            req.Amount,
			Kind:              domain.TxKindCredit,
			SenderAccountID:   &req.SenderID,
			ReceiverAccountID: &req.ReceiverID,
			Description:       creditDesc,
			CreatedAt:         now,
		})
		if err != nil {
			return err
		}

		result.Debit = debit.View()
		result.Debit.Direction = domain.DirectionOut
		result.Credit = credit.View()
		result.Credit.Direction = domain.DirectionIn
		return nil
	})
	if err != nil {
		return domain.TransferResult{}, fmt.Errorf("transfer: %w", err)
	}

	s.emit(ctx,
		domain.NewEvent(domain.EventTransferOut, result.Sender.ID, result.Sender.Balance, result.Debit.Description),
		domain.NewEvent(domain.EventTransferIn, result.Receiver.ID, result.Receiver.Balance, result.Credit.Description),
	)
	return result, nil
}

// Freeze blocks deposits and withdrawals on the account. Freezing a frozen
// account succeeds and still emits MANUAL_FREEZE.
func (s *LedgerService) Freeze(ctx context.Context, accountID int64) (domain.Account, error) {
	acct, err := s.setFrozen(ctx, accountID, true)
	if err != nil {
		return domain.Account{}, fmt.Errorf("freeze: %w", err)
	}
	s.emit(ctx, domain.NewEvent(domain.EventManualFreeze, acct.ID, acct.Balance, "Account manually frozen"))
	return acct, nil
}

// Unfreeze lifts a freeze. It is idempotent like Freeze.
func (s *LedgerService) Unfreeze(ctx context.Context, accountID int64) (domain.Account, error) {
	acct, err := s.setFrozen(ctx, accountID, false)
	if err != nil {
		return domain.Account{}, fmt.Errorf("unfreeze: %w", err)
	}
	s.emit(ctx, domain.NewEvent(domain.EventAccountUnfrozen, acct.ID, acct.Balance, "Account manually unfrozen"))
	return acct, nil
}

func (s *LedgerService) setFrozen(ctx context.Context, accountID int64, frozen bool) (domain.Account, error) {
	if accountID <= 0 {
		return domain.Account{}, domain.ErrInvalidAccountID
	}

	var acct domain.Account
	err := s.store.Atomically(ctx, []int64{accountID}, func(ctx context.Context, uow repository.UnitOfWork) error {
		current, err := uow.Account(accountID)
		if err != nil {
			return err
		}
		current.Frozen = frozen
		acct, err = uow.SaveAccount(ctx, current)
		return err
	})
	return acct, err
}

// emit hands events to the emitter. Failures are logged and dropped: the
// write they describe has already committed.
func (s *LedgerService) emit(ctx context.Context, events ...domain.Event) {
	if s.emitter == nil {
		return
	}
	for _, ev := range events {
		if err := s.emitter.Emit(ctx, ev); err != nil {
			slog.Error("failed to emit ledger event",
				"error", err,
				"event_type", string(ev.Type),
				"account_id", ev.AccountID,
				"event_id", ev.ID.String(),
			)
		}
	}
}
