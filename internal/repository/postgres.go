package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/set-night/ledgercore/internal/domain"
	"github.com/set-night/ledgercore/internal/repository/sqlc"
)

// Postgres error codes the store reacts to.
const (
	pgUniqueViolation      = "23505"
	pgNumericOutOfRange    = "22003"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
	pgQueryCanceled        = "57014"
	pgAdminShutdown        = "57P01"
	pgCannotConnectNow     = "57P03"
)

type PostgresStore struct {
	db          *pgxpool.Pool
	queries     *sqlc.Queries
	lockTimeout time.Duration
}

func NewPostgresStore(db *pgxpool.Pool, queries *sqlc.Queries, lockTimeout time.Duration) *PostgresStore {
	return &PostgresStore{db: db, queries: queries, lockTimeout: lockTimeout}
}

func (s *PostgresStore) GetAccount(ctx context.Context, id int64) (domain.Account, error) {
	row, err := s.queries.GetAccount(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Account{}, domain.ErrAccountNotFound
		}
		return domain.Account{}, classify("get account", err)
	}
	return rowToAccount(row), nil
}

func (s *PostgresStore) AccountNumberExists(ctx context.Context, number string) (bool, error) {
	exists, err := s.queries.AccountNumberExists(ctx, number)
	if err != nil {
		return false, classify("check account number", err)
	}
	return exists, nil
}

func (s *PostgresStore) InsertAccount(ctx context.Context, acct domain.Account) (domain.Account, error) {
	row, err := s.queries.CreateAccount(ctx, sqlc.CreateAccountParams{
		Number:      acct.Number,
		AccountType: acct.Type,
		OwnerID:     acct.OwnerID,
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return domain.Account{}, ErrNumberTaken
		}
		return domain.Account{}, classify("create account", err)
	}
	return rowToAccount(row), nil
}

func (s *PostgresStore) ListAccounts(ctx context.Context, ownerID *int64) ([]domain.Account, error) {
	var (
		rows []sqlc.Account
		err  error
	)
	if ownerID != nil {
		rows, err = s.queries.ListAccountsByOwner(ctx, *ownerID)
	} else {
		rows, err = s.queries.ListAccounts(ctx)
	}
	if err != nil {
		return nil, classify("list accounts", err)
	}

	accounts := make([]domain.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, rowToAccount(row))
	}
	return accounts, nil
}

func (s *PostgresStore) GetTransaction(ctx context.Context, id int64) (domain.Transaction, error) {
	row, err := s.queries.GetTransaction(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Transaction{}, domain.ErrTransactionNotFound
		}
		return domain.Transaction{}, classify("get transaction", err)
	}
	return rowToTransaction(row), nil
}

func (s *PostgresStore) QueryTransactions(ctx context.Context, filter domain.TransactionFilter, page domain.PageRequest) (domain.Page[domain.Transaction], error) {
	total, err := s.queries.CountFilteredTransactions(ctx, sqlc.CountFilteredTransactionsParams{
		AccountID: filter.AccountID,
		FromTime:  timePtrToPgTimestamptz(filter.From),
		ToTime:    timePtrToPgTimestamptz(filter.To),
		MinAmount: decimalPtrToNull(filter.MinAmount),
		MaxAmount: decimalPtrToNull(filter.MaxAmount),
	})
	if err != nil {
		return domain.Page[domain.Transaction]{}, classify("count transactions", err)
	}

	rows, err := s.queries.FilterTransactions(ctx, sqlc.FilterTransactionsParams{
		AccountID: filter.AccountID,
		FromTime:  timePtrToPgTimestamptz(filter.From),
		ToTime:    timePtrToPgTimestamptz(filter.To),
		MinAmount: decimalPtrToNull(filter.MinAmount),
		MaxAmount: decimalPtrToNull(filter.MaxAmount),
		Offset:    int32((page.Page - 1) * page.Size),
		Limit:     int32(page.Size),
	})
	if err != nil {
		return domain.Page[domain.Transaction]{}, classify("filter transactions", err)
	}

	items := make([]domain.Transaction, 0, len(rows))
	for _, row := range rows {
		items = append(items, rowToTransaction(row))
	}
	return domain.Page[domain.Transaction]{Items: items, Page: page.Page, Size: page.Size, Total: total}, nil
}

func (s *PostgresStore) Atomically(ctx context.Context, accountIDs []int64, fn func(ctx context.Context, uow UnitOfWork) error) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return classify("begin tx", err)
	}
	defer tx.Rollback(ctx)

	qtx := s.queries.WithTx(tx)

	if s.lockTimeout > 0 {
		if err := qtx.SetLockTimeout(ctx, fmt.Sprintf("%dms", s.lockTimeout.Milliseconds())); err != nil {
			return classify("set lock timeout", err)
		}
	}

	uow := &pgUnitOfWork{queries: qtx, accounts: make(map[int64]domain.Account, len(accountIDs))}
	for _, id := range lockOrder(accountIDs) {
		row, err := qtx.GetAccountForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("account %d: %w", id, domain.ErrAccountNotFound)
			}
			return classify("lock account", err)
		}
		uow.accounts[id] = rowToAccount(row)
	}

	if err := fn(ctx, uow); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return classify("commit", err)
	}
	return nil
}

type pgUnitOfWork struct {
	queries  *sqlc.Queries
	accounts map[int64]domain.Account
}

func (u *pgUnitOfWork) Account(id int64) (domain.Account, error) {
	acct, ok := u.accounts[id]
	if !ok {
		return domain.Account{}, fmt.Errorf("account %d not locked: %w", id, domain.ErrAccountNotFound)
	}
	return acct, nil
}

func (u *pgUnitOfWork) SaveAccount(ctx context.Context, acct domain.Account) (domain.Account, error) {
	row, err := u.queries.UpdateAccountState(ctx, sqlc.UpdateAccountStateParams{
		ID:      acct.ID,
		Balance: acct.Balance,
		Frozen:  acct.Frozen,
		Version: acct.Version,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Account{}, fmt.Errorf("save account %d: %w", acct.ID, domain.ErrConcurrency)
		}
		return domain.Account{}, classify("save account", err)
	}

	acct.Version = row.Version
	acct.UpdatedAt = pgTimestamptzToTime(row.UpdatedAt)
	u.accounts[acct.ID] = acct
	return acct, nil
}

func (u *pgUnitOfWork) AppendTransaction(ctx context.Context, tx domain.Transaction) (domain.Transaction, error) {
	row, err := u.queries.CreateTransaction(ctx, sqlc.CreateTransactionParams{
		Reference:         tx.Reference,
		Amount:            tx.Amount,
		Kind:              string(tx.Kind),
		SenderAccountID:   tx.SenderAccountID,
		ReceiverAccountID: tx.ReceiverAccountID,
		Description:       tx.Description,
		CreatedAt:         timeToPgTimestamptz(tx.CreatedAt),
	})
	if err != nil {
		return domain.Transaction{}, classify("create transaction", err)
	}
	return rowToTransaction(row), nil
}

func (u *pgUnitOfWork) CountTransactions(ctx context.Context, accountID int64) (int64, error) {
	n, err := u.queries.CountAccountTransactions(ctx, &accountID)
	if err != nil {
		return 0, classify("count account transactions", err)
	}
	return n, nil
}

func (u *pgUnitOfWork) DeleteAccount(ctx context.Context, id int64) error {
	n, err := u.queries.DeleteAccount(ctx, id)
	if err != nil {
		return classify("delete account", err)
	}
	if n == 0 {
		return domain.ErrAccountNotFound
	}
	delete(u.accounts, id)
	return nil
}

// classify wraps a driver error with the ledger error kind callers use to
// decide on retries.
func classify(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgNumericOutOfRange:
			return fmt.Errorf("%s: %w: %w", op, domain.ErrInvalidAmount, err)
		case pgErr.Code == pgSerializationFailure,
			pgErr.Code == pgDeadlockDetected,
			pgErr.Code == pgLockNotAvailable:
			return fmt.Errorf("%s: %w: %w", op, domain.ErrConcurrency, err)
		case pgErr.Code == pgQueryCanceled,
			pgErr.Code == pgAdminShutdown,
			pgErr.Code == pgCannotConnectNow,
			len(pgErr.Code) == 5 && pgErr.Code[:2] == "08":
			return fmt.Errorf("%s: %w: %w", op, domain.ErrUnavailable, err)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrUnavailable, err)
}
