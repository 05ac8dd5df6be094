package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/set-night/ledgercore/internal/domain"
	"github.com/set-night/ledgercore/internal/repository"
	"github.com/shopspring/decimal"
)

// CreateAccount opens an account with a zero balance and a freshly issued
// account number.
func (s *LedgerService) CreateAccount(ctx context.Context, req domain.CreateAccountRequest) (domain.Account, error) {
	if err := validateRequest(s.validate, req); err != nil {
		return domain.Account{}, err
	}

	// Candidates rejected by the existence check and by a racing insert
	// draw from the same budget.
	remaining := s.policy.AccountNumberAttempts
	for remaining > 0 {
		number, used, err := generateUniqueAccountNumber(ctx, s.store.AccountNumberExists, remaining, s.nextNumber)
		remaining -= used
		if err != nil {
			return domain.Account{}, fmt.Errorf("create account: %w", err)
		}

		acct, err := s.store.InsertAccount(ctx, domain.Account{
			Number:  number,
			Type:    req.Type,
			Balance: decimal.Zero,
			OwnerID: req.OwnerID,
		})
		if errors.Is(err, repository.ErrNumberTaken) {
			// Another request claimed the number between check and insert.
			continue
		}
		if err != nil {
			return domain.Account{}, fmt.Errorf("create account: %w", err)
		}

		s.emit(ctx, domain.NewEvent(domain.EventAccountCreated, acct.ID, acct.Balance, "New account created"))
		return acct, nil
	}
	return domain.Account{}, fmt.Errorf("create account: %d attempts: %w", s.policy.AccountNumberAttempts, domain.ErrAccountNumberExhausted)
}

func (s *LedgerService) GetAccount(ctx context.Context, id int64) (domain.Account, error) {
	if id <= 0 {
		return domain.Account{}, domain.ErrInvalidAccountID
	}
	acct, err := s.store.GetAccount(ctx, id)
	if err != nil {
		return domain.Account{}, fmt.Errorf("get account %d: %w", id, err)
	}
	return acct, nil
}

// ListAccounts returns accounts in id order, optionally only those of ownerID.
func (s *LedgerService) ListAccounts(ctx context.Context, ownerID *int64) ([]domain.Account, error) {
	accounts, err := s.store.ListAccounts(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}

// DeleteAccount removes an account that has never been referenced by the
// ledger and holds no funds.
func (s *LedgerService) DeleteAccount(ctx context.Context, id int64) error {
	if id <= 0 {
		return domain.ErrInvalidAccountID
	}

	var deleted domain.Account
	err := s.store.Atomically(ctx, []int64{id}, func(ctx context.Context, uow repository.UnitOfWork) error {
		acct, err := uow.Account(id)
		if err != nil {
			return err
		}
		if !acct.Balance.IsZero() {
			return domain.ErrAccountHasHistory
		}
		n, err := uow.CountTransactions(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return domain.ErrAccountHasHistory
		}
		deleted = acct
		return uow.DeleteAccount(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("delete account %d: %w", id, err)
	}

	s.emit(ctx, domain.NewEvent(domain.EventAccountDeleted, deleted.ID, deleted.Balance, "Account deleted"))
	return nil
}
