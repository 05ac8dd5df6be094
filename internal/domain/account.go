package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Account struct {
	ID        int64
	Number    string
	Type      string
	Balance   decimal.Decimal
	Frozen    bool
	OwnerID   int64
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateAccountRequest carries the caller-supplied fields of a new account.
type CreateAccountRequest struct {
	OwnerID int64  `validate:"required,gt=0"`
	Type    string `validate:"required,max=32"`
}
