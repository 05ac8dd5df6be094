package domain

import "errors"

// Kind classifies ledger failures for callers deciding how to react.
type Kind string

const (
	KindNotFound          Kind = "not_found"
	KindInvalidInput      Kind = "invalid_input"
	KindInsufficientFunds Kind = "insufficient_funds"
	KindOverdraftExceeded Kind = "overdraft_exceeded"
	KindAccountFrozen     Kind = "account_frozen"
	KindConcurrency       Kind = "concurrency"
	KindUnavailable       Kind = "unavailable"
)

// Error is a typed ledger failure. Sentinels below are compared with errors.Is.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

var (
	ErrAccountNotFound        = &Error{Kind: KindNotFound, Msg: "account not found"}
	ErrTransactionNotFound    = &Error{Kind: KindNotFound, Msg: "transaction not found"}
	ErrInvalidAmount          = &Error{Kind: KindInvalidInput, Msg: "amount must be greater than zero with at most 2 decimal places"}
	ErrInvalidAccountID       = &Error{Kind: KindInvalidInput, Msg: "invalid account id"}
	ErrInvalidTransactionID   = &Error{Kind: KindInvalidInput, Msg: "invalid transaction id"}
	ErrSameAccount            = &Error{Kind: KindInvalidInput, Msg: "sender and receiver are the same account"}
	ErrInvalidRange           = &Error{Kind: KindInvalidInput, Msg: "invalid range"}
	ErrInvalidRequest         = &Error{Kind: KindInvalidInput, Msg: "invalid request"}
	ErrAccountHasHistory      = &Error{Kind: KindInvalidInput, Msg: "account has ledger history or a non-zero balance"}
	ErrInsufficientFunds      = &Error{Kind: KindInsufficientFunds, Msg: "insufficient funds"}
	ErrOverdraftExceeded      = &Error{Kind: KindOverdraftExceeded, Msg: "overdraft limit exceeded"}
	ErrAccountFrozen          = &Error{Kind: KindAccountFrozen, Msg: "account is frozen"}
	ErrConcurrency            = &Error{Kind: KindConcurrency, Msg: "concurrent modification"}
	ErrUnavailable            = &Error{Kind: KindUnavailable, Msg: "ledger store unavailable"}
	ErrAccountNumberExhausted = &Error{Kind: KindUnavailable, Msg: "could not generate a unique account number"}
)

// KindOf returns the kind of the first *Error in err's chain, or "" for
// untyped failures.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsRetryable reports whether the caller may safely retry the request.
func IsRetryable(err error) bool {
	switch KindOf(err) {
	case KindConcurrency, KindUnavailable:
		return true
	}
	return false
}
