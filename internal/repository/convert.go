package repository

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/set-night/ledgercore/internal/domain"
	"github.com/set-night/ledgercore/internal/repository/sqlc"
	"github.com/shopspring/decimal"
)

// pgTimestamptzToTime converts pgtype.Timestamptz to time.Time.
func pgTimestamptzToTime(ts pgtype.Timestamptz) time.Time {
	if ts.Valid {
		return ts.Time
	}
	return time.Time{}
}

// timeToPgTimestamptz converts time.Time to pgtype.Timestamptz.
func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: !t.IsZero()}
}

// timePtrToPgTimestamptz converts *time.Time to pgtype.Timestamptz.
func timePtrToPgTimestamptz(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{Valid: false}
	}
	return pgtype.Timestamptz{Time: *t, Valid: true}
}

func decimalPtrToNull(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func rowToAccount(row sqlc.Account) domain.Account {
	return domain.Account{
		ID:        row.ID,
		Number:    row.Number,
		Type:      row.AccountType,
		Balance:   row.Balance,
		Frozen:    row.Frozen,
		OwnerID:   row.OwnerID,
		Version:   row.Version,
		CreatedAt: pgTimestamptzToTime(row.CreatedAt),
		UpdatedAt: pgTimestamptzToTime(row.UpdatedAt),
	}
}

func rowToTransaction(row sqlc.Transaction) domain.Transaction {
	return domain.Transaction{
		ID:                row.ID,
		Reference:         row.Reference,
		Amount:            row.Amount,
		Kind:              domain.TxKind(row.Kind),
		SenderAccountID:   row.SenderAccountID,
		ReceiverAccountID: row.ReceiverAccountID,
		Description:       row.Description,
		CreatedAt:         pgTimestamptzToTime(row.CreatedAt),
	}
}
