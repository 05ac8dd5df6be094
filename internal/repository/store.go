package repository

import (
	"context"
	"errors"
	"slices"

	"github.com/set-night/ledgercore/internal/domain"
)

// ErrNumberTaken is returned by InsertAccount when the account number is
// already in use.
var ErrNumberTaken = errors.New("account number already taken")

// Store is the persistence port of the ledger: account records plus the
// append-only transaction ledger.
type Store interface {
	GetAccount(ctx context.Context, id int64) (domain.Account, error)
	AccountNumberExists(ctx context.Context, number string) (bool, error)
	InsertAccount(ctx context.Context, acct domain.Account) (domain.Account, error)
	ListAccounts(ctx context.Context, ownerID *int64) ([]domain.Account, error)

	GetTransaction(ctx context.Context, id int64) (domain.Transaction, error)
	QueryTransactions(ctx context.Context, filter domain.TransactionFilter, page domain.PageRequest) (domain.Page[domain.Transaction], error)

	// Atomically locks accountIDs in ascending order and runs fn. Writes made
	// through the UnitOfWork become visible only if fn returns nil.
	Atomically(ctx context.Context, accountIDs []int64, fn func(ctx context.Context, uow UnitOfWork) error) error
}

// UnitOfWork is the write side of a single atomic ledger operation.
type UnitOfWork interface {
	// Account returns the locked account's current state.
	Account(id int64) (domain.Account, error)
	// SaveAccount persists balance and frozen flag. It fails with
	// domain.ErrConcurrency when acct.Version is stale.
	SaveAccount(ctx context.Context, acct domain.Account) (domain.Account, error)
	AppendTransaction(ctx context.Context, tx domain.Transaction) (domain.Transaction, error)
	CountTransactions(ctx context.Context, accountID int64) (int64, error)
	DeleteAccount(ctx context.Context, id int64) error
}

// lockOrder returns ids de-duplicated and sorted ascending, the order in
// which every store acquires row locks.
func lockOrder(ids []int64) []int64 {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}
