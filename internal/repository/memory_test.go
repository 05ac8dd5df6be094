package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/set-night/ledgercore/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedAccount(t *testing.T, s *MemoryStore, number string, balance string) domain.Account {
	t.Helper()
	acct, err := s.InsertAccount(context.Background(), domain.Account{
		Number:  number,
		Type:    "CHECKING",
		OwnerID: 7,
	})
	require.NoError(t, err)

	if balance == "" {
		return acct
	}
	err = s.Atomically(context.Background(), []int64{acct.ID}, func(ctx context.Context, uow UnitOfWork) error {
		a, err := uow.Account(acct.ID)
		if err != nil {
			return err
		}
		a.Balance = decimal.RequireFromString(balance)
		acct, err = uow.SaveAccount(ctx, a)
		return err
	})
	require.NoError(t, err)
	return acct
}

func TestLockOrder(t *testing.T) {
	assert.Equal(t, []int64{1, 3, 9}, lockOrder([]int64{9, 1, 3, 9, 1}))
	assert.Empty(t, lockOrder(nil))
}

func TestMemoryStoreInsertAccount(t *testing.T) {
	s := NewMemoryStore(time.Second)
	ctx := context.Background()

	acct := seedAccount(t, s, "000000001", "")
	assert.Equal(t, int64(1), acct.ID)
	assert.Equal(t, int64(1), acct.Version)
	assert.True(t, acct.Balance.IsZero())

	_, err := s.InsertAccount(ctx, domain.Account{Number: "000000001", Type: "CHECKING", OwnerID: 1})
	assert.ErrorIs(t, err, ErrNumberTaken)

	exists, err := s.AccountNumberExists(ctx, "000000001")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = s.GetAccount(ctx, 42)
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestMemoryStoreRollbackOnError(t *testing.T) {
	s := NewMemoryStore(time.Second)
	ctx := context.Background()
	acct := seedAccount(t, s, "000000001", "100.00")

	boom := errors.New("boom")
	err := s.Atomically(ctx, []int64{acct.ID}, func(ctx context.Context, uow UnitOfWork) error {
		a, err := uow.Account(acct.ID)
		if err != nil {
			return err
		}
		a.Balance = decimal.Zero
		if _, err := uow.SaveAccount(ctx, a); err != nil {
			return err
		}
		id := acct.ID
		if _, err := uow.AppendTransaction(ctx, domain.Transaction{
			Amount:            decimal.NewFromInt(100),
			Kind:              domain.TxKindDebit,
			SenderAccountID:   &id,
			ReceiverAccountID: &id,
		}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := s.GetAccount(ctx, acct.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.RequireFromString("100.00")))

	page, err := s.QueryTransactions(ctx, domain.TransactionFilter{}, domain.PageRequest{Page: 1, Size: 20})
	require.NoError(t, err)
	assert.Zero(t, page.Total)
}

func TestMemoryStoreStaleVersion(t *testing.T) {
	s := NewMemoryStore(time.Second)
	ctx := context.Background()
	acct := seedAccount(t, s, "000000001", "10.00")

	err := s.Atomically(ctx, []int64{acct.ID}, func(ctx context.Context, uow UnitOfWork) error {
		stale := acct
		stale.Version--
		_, err := uow.SaveAccount(ctx, stale)
		return err
	})
	assert.ErrorIs(t, err, domain.ErrConcurrency)
	assert.True(t, domain.IsRetryable(err))
}

func TestMemoryStoreLockTimeout(t *testing.T) {
	s := NewMemoryStore(50 * time.Millisecond)
	ctx := context.Background()
	acct := seedAccount(t, s, "000000001", "")

	locked := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- s.Atomically(ctx, []int64{acct.ID}, func(ctx context.Context, uow UnitOfWork) error {
			close(locked)
			<-release
			return nil
		})
	}()
	<-locked

	err := s.Atomically(ctx, []int64{acct.ID}, func(ctx context.Context, uow UnitOfWork) error {
		return nil
	})
	assert.ErrorIs(t, err, domain.ErrConcurrency)

	close(release)
	require.NoError(t, <-done)
}

func TestMemoryStoreMissingAccount(t *testing.T) {
	s := NewMemoryStore(time.Second)
	err := s.Atomically(context.Background(), []int64{5}, func(ctx context.Context, uow UnitOfWork) error {
		return nil
	})
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestMemoryStoreDeleteKeepsNumberReserved(t *testing.T) {
	s := NewMemoryStore(time.Second)
	ctx := context.Background()
	acct := seedAccount(t, s, "000000123", "")

	err := s.Atomically(ctx, []int64{acct.ID}, func(ctx context.Context, uow UnitOfWork) error {
		return uow.DeleteAccount(ctx, acct.ID)
	})
	require.NoError(t, err)

	_, err = s.GetAccount(ctx, acct.ID)
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)

	exists, err := s.AccountNumberExists(ctx, "000000123")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestMemoryStoreQueryTransactions(t *testing.T) {
	s := NewMemoryStore(time.Second)
	ctx := context.Background()
	a := seedAccount(t, s, "000000001", "")
	b := seedAccount(t, s, "000000002", "")

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	amounts := []string{"10.00", "20.00", "30.00", "40.00", "50.00"}
	for i, amt := range amounts {
		err := s.Atomically(ctx, []int64{a.ID, b.ID}, func(ctx context.Context, uow UnitOfWork) error {
			sender, receiver := a.ID, b.ID
			_, err := uow.AppendTransaction(ctx, domain.Transaction{
				Amount:            decimal.RequireFromString(amt),
				Kind:              domain.TxKindDebit,
				SenderAccountID:   &sender,
				ReceiverAccountID: &receiver,
				CreatedAt:         base.Add(time.Duration(i) * time.Hour),
			})
			return err
		})
		require.NoError(t, err)
	}

	page, err := s.QueryTransactions(ctx, domain.TransactionFilter{}, domain.PageRequest{Page: 2, Size: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.Total)
	assert.Equal(t, 3, page.TotalPages())
	require.Len(t, page.Items, 2)
	assert.Equal(t, int64(3), page.Items[0].ID)
	assert.Equal(t, int64(4), page.Items[1].ID)

	page, err = s.QueryTransactions(ctx, domain.TransactionFilter{}, domain.PageRequest{Page: 9, Size: 2})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, int64(5), page.Total)

	lo, hi := decimal.RequireFromString("20.00"), decimal.RequireFromString("40.00")
	page, err = s.QueryTransactions(ctx, domain.TransactionFilter{MinAmount: &lo, MaxAmount: &hi}, domain.PageRequest{Page: 1, Size: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)

	from, to := base.Add(time.Hour), base.Add(2*time.Hour)
	page, err = s.QueryTransactions(ctx, domain.TransactionFilter{From: &from, To: &to}, domain.PageRequest{Page: 1, Size: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)

	other := int64(99)
	page, err = s.QueryTransactions(ctx, domain.TransactionFilter{AccountID: &other}, domain.PageRequest{Page: 1, Size: 20})
	require.NoError(t, err)
	assert.Zero(t, page.Total)

	tx, err := s.GetTransaction(ctx, 1)
	require.NoError(t, err)
	assert.True(t, tx.Amount.Equal(decimal.RequireFromString("10.00")))

	_, err = s.GetTransaction(ctx, 100)
	assert.ErrorIs(t, err, domain.ErrTransactionNotFound)
}

func TestMemoryStoreListAccountsByOwner(t *testing.T) {
	s := NewMemoryStore(time.Second)
	ctx := context.Background()
	seedAccount(t, s, "000000001", "")
	seedAccount(t, s, "000000002", "")
	_, err := s.InsertAccount(ctx, domain.Account{Number: "000000003", Type: "SAVINGS", OwnerID: 8})
	require.NoError(t, err)

	all, err := s.ListAccounts(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	owner := int64(7)
	mine, err := s.ListAccounts(ctx, &owner)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Less(t, mine[0].ID, mine[1].ID)
}
