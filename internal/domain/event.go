package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type EventType string

const (
	EventAccountCreated    EventType = "ACCOUNT_CREATED"
	EventAccountDeleted    EventType = "ACCOUNT_DELETED"
	EventDeposit           EventType = "DEPOSIT"
	EventWithdrawal        EventType = "WITHDRAWAL"
	EventTransferOut       EventType = "TRANSFER_OUT"
	EventTransferIn        EventType = "TRANSFER_IN"
	EventBalanceAlert      EventType = "BALANCE_ALERT"
	EventOverdraftExceeded EventType = "OVERDRAFT_EXCEEDED"
	EventAccountFrozen     EventType = "ACCOUNT_FROZEN"
	EventManualFreeze      EventType = "MANUAL_FREEZE"
	EventAccountUnfrozen   EventType = "ACCOUNT_UNFROZEN"
)

// Event is a post-commit notification about an account.
type Event struct {
	ID        uuid.UUID
	Type      EventType
	AccountID int64
	Balance   decimal.Decimal
	Timestamp time.Time
	Note      string
}

func NewEvent(t EventType, accountID int64, balance decimal.Decimal, note string) Event {
	return Event{
		ID:        uuid.New(),
		Type:      t,
		AccountID: accountID,
		Balance:   balance,
		Timestamp: time.Now(),
		Note:      note,
	}
}
