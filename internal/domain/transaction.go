package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TxKind string

const (
	TxKindDebit  TxKind = "DEBIT"
	TxKindCredit TxKind = "CREDIT"
)

// Transaction is an immutable ledger entry. DEBIT means funds left the
// sender account, CREDIT means funds arrived at the receiver account.
type Transaction struct {
	ID                int64
	Reference         uuid.UUID
	Amount            decimal.Decimal
	Kind              TxKind
	SenderAccountID   *int64
	ReceiverAccountID *int64
	Description       string
	CreatedAt         time.Time
}

type Direction string

const (
	DirectionIn  Direction = "IN"
	DirectionOut Direction = "OUT"
)

// TransactionView is the read-only projection handed to callers.
type TransactionView struct {
	ID                int64
	Reference         uuid.UUID
	Amount            decimal.Decimal
	Kind              TxKind
	SenderAccountID   *int64
	ReceiverAccountID *int64
	Description       string
	CreatedAt         time.Time

	// Direction is set only for per-account queries.
	Direction Direction
}

func (t Transaction) View() TransactionView {
	return TransactionView{
		ID:                t.ID,
		Reference:         t.Reference,
		Amount:            t.Amount,
		Kind:              t.Kind,
		SenderAccountID:   copyID(t.SenderAccountID),
		ReceiverAccountID: copyID(t.ReceiverAccountID),
		Description:       t.Description,
		CreatedAt:         t.CreatedAt,
	}
}

// Touches reports whether the entry references accountID on either side.
func (t Transaction) Touches(accountID int64) bool {
	return (t.SenderAccountID != nil && *t.SenderAccountID == accountID) ||
		(t.ReceiverAccountID != nil && *t.ReceiverAccountID == accountID)
}

func copyID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

// MovementRequest is the input of a single-account deposit or withdrawal.
type MovementRequest struct {
	AccountID   int64           `validate:"required,gt=0"`
	Amount      decimal.Decimal `validate:"money"`
	Description string          `validate:"max=255"`
}

// TransferRequest moves Amount from SenderID to ReceiverID.
type TransferRequest struct {
	SenderID    int64           `validate:"required,gt=0"`
	ReceiverID  int64           `validate:"required,gt=0,nefield=SenderID"`
	Amount      decimal.Decimal `validate:"money"`
	Description string          `validate:"max=255"`
}

// TransferResult holds both legs of a transfer and the resulting accounts.
type TransferResult struct {
	Sender   Account
	Receiver Account
	Debit    TransactionView
	Credit   TransactionView
}
