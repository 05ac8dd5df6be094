//go:build integration

package repository

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/set-night/ledgercore"
	"github.com/set-night/ledgercore/internal/domain"
	"github.com/set-night/ledgercore/internal/repository/sqlc"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIntegrationStore(t *testing.T) (*PostgresStore, *pgxpool.Pool) {
	t.Helper()

	dsn := os.Getenv("LEDGER_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("LEDGER_POSTGRES_DSN not set")
	}

	migrationsFS, err := fs.Sub(ledgercore.MigrationsFS, "migrations")
	require.NoError(t, err)
	require.NoError(t, RunMigrations(dsn, migrationsFS))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	pool, err := NewPool(ctx, dsn, PoolOptions{MaxConns: 4, MinConns: 1})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return NewPostgresStore(pool, sqlc.New(pool), 500*time.Millisecond), pool
}

func uniqueNumber() string {
	return fmt.Sprintf("%09d", time.Now().UnixNano()%1_000_000_000)
}

func TestPostgresStoreMovesFundsAtomically(t *testing.T) {
	s, _ := newIntegrationStore(t)
	ctx := context.Background()

	a, err := s.InsertAccount(ctx, domain.Account{Number: uniqueNumber(), Type: "CHECKING", OwnerID: 1})
	require.NoError(t, err)
	b, err := s.InsertAccount(ctx, domain.Account{Number: uniqueNumber(), Type: "CHECKING", OwnerID: 1})
	require.NoError(t, err)

	ref := uuid.New()
	err = s.Atomically(ctx, []int64{b.ID, a.ID}, func(ctx context.Context, uow UnitOfWork) error {
		sender, err := uow.Account(a.ID)
		if err != nil {
			return err
		}
		sender.Balance = decimal.RequireFromString("-25.00")
		if _, err := uow.SaveAccount(ctx, sender); err != nil {
			return err
		}
		receiver, err := uow.Account(b.ID)
		if err != nil {
			return err
		}
		receiver.Balance = decimal.RequireFromString("25.00")
		if _, err := uow.SaveAccount(ctx, receiver); err != nil {
			return err
		}
		_, err = uow.AppendTransaction(ctx, domain.Transaction{
			Reference:         ref,
			Amount:            decimal.RequireFromString("25.00"),
			Kind:              domain.TxKindDebit,
			SenderAccountID:   &a.ID,
			ReceiverAccountID: &b.ID,
			Description:       "integration",
			CreatedAt:         time.Now(),
		})
		return err
	})
	require.NoError(t, err)

	got, err := s.GetAccount(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.RequireFromString("25.00")))
	assert.Equal(t, int64(2), got.Version)

	page, err := s.QueryTransactions(ctx, domain.TransactionFilter{AccountID: &a.ID}, domain.PageRequest{Page: 1, Size: 20})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, ref, page.Items[0].Reference)
}

func TestPostgresStoreStaleVersion(t *testing.T) {
	s, _ := newIntegrationStore(t)
	ctx := context.Background()

	a, err := s.InsertAccount(ctx, domain.Account{Number: uniqueNumber(), Type: "CHECKING", OwnerID: 1})
	require.NoError(t, err)

	err = s.Atomically(ctx, []int64{a.ID}, func(ctx context.Context, uow UnitOfWork) error {
		stale := a
		stale.Version = 99
		_, err := uow.SaveAccount(ctx, stale)
		return err
	})
	assert.ErrorIs(t, err, domain.ErrConcurrency)
}

func TestPostgresStoreLockTimeout(t *testing.T) {
	s, _ := newIntegrationStore(t)
	ctx := context.Background()

	a, err := s.InsertAccount(ctx, domain.Account{Number: uniqueNumber(), Type: "CHECKING", OwnerID: 1})
	require.NoError(t, err)

	locked := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- s.Atomically(ctx, []int64{a.ID}, func(ctx context.Context, uow UnitOfWork) error {
			close(locked)
			<-release
			return nil
		})
	}()
	<-locked

	err = s.Atomically(ctx, []int64{a.ID}, func(ctx context.Context, uow UnitOfWork) error {
		return nil
	})
	assert.ErrorIs(t, err, domain.ErrConcurrency)

	close(release)
	require.NoError(t, <-done)
}

func TestPostgresStoreDeleteKeepsNumberReserved(t *testing.T) {
	s, _ := newIntegrationStore(t)
	ctx := context.Background()

	number := uniqueNumber()
	a, err := s.InsertAccount(ctx, domain.Account{Number: number, Type: "CHECKING", OwnerID: 1})
	require.NoError(t, err)

	err = s.Atomically(ctx, []int64{a.ID}, func(ctx context.Context, uow UnitOfWork) error {
		return uow.DeleteAccount(ctx, a.ID)
	})
	require.NoError(t, err)

	exists, err := s.AccountNumberExists(ctx, number)
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = s.InsertAccount(ctx, domain.Account{Number: number, Type: "CHECKING", OwnerID: 2})
	assert.ErrorIs(t, err, ErrNumberTaken)
}
