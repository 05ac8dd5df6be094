package domain

import "github.com/shopspring/decimal"

// MoneyScale is the number of fractional digits stored for balances and
// transaction amounts.
const MoneyScale = 2

// MoneyLimit bounds balances and amounts in both directions, matching the 18
// integer digits of NUMERIC(20,2).
var MoneyLimit = decimal.New(1, 18)

// ValidAmount reports whether a is strictly positive, fits MoneyScale and is
// below MoneyLimit.
func ValidAmount(a decimal.Decimal) bool {
	return a.IsPositive() && a.LessThan(MoneyLimit) && a.Equal(a.Truncate(MoneyScale))
}

// FitsBalance reports whether b can be stored as a balance.
func FitsBalance(b decimal.Decimal) bool {
	return b.Abs().LessThan(MoneyLimit)
}
