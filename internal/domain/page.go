package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PageRequest selects a 1-based page of Size entries.
type PageRequest struct {
	Page int
	Size int
}

type Page[T any] struct {
	Items []T
	Page  int
	Size  int
	Total int64
}

// TotalPages returns the number of pages needed for Total items.
func (p Page[T]) TotalPages() int {
	if p.Size <= 0 {
		return 0
	}
	return int((p.Total + int64(p.Size) - 1) / int64(p.Size))
}

// TransactionFilter narrows ledger queries. Nil fields do not filter.
// Range bounds are inclusive.
type TransactionFilter struct {
	AccountID *int64
	From      *time.Time
	To        *time.Time
	MinAmount *decimal.Decimal
	MaxAmount *decimal.Decimal
}

// Match reports whether t satisfies every set field of f.
func (f TransactionFilter) Match(t Transaction) bool {
	if f.AccountID != nil && !t.Touches(*f.AccountID) {
		return false
	}
	if f.From != nil && t.CreatedAt.Before(*f.From) {
		return false
	}
	if f.To != nil && t.CreatedAt.After(*f.To) {
		return false
	}
	if f.MinAmount != nil && t.Amount.LessThan(*f.MinAmount) {
		return false
	}
	if f.MaxAmount != nil && t.Amount.GreaterThan(*f.MaxAmount) {
		return false
	}
	return true
}

// Statement summarises an account's ledger activity over a period.
type Statement struct {
	Account      Account
	From         time.Time
	To           time.Time
	Transactions []TransactionView
	TotalIn      decimal.Decimal
	TotalOut     decimal.Decimal
}
