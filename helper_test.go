package budget

import (
	"time"

	"github.com/etnz/budget/date"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

// S is a helper for test to create a snapshot from constants, at midnight UTC.
func S(account, on string, balance float64) Snapshot {
	return NewSnapshot(account, date.MustParse(on).Time(), decimal.NewFromFloat(balance))
}

// T is a helper for test to create a transaction from constants.
func T(on date.Date, amount float64, account, category string) Transaction {
	return Transaction{On: on, Amount: decimal.NewFromFloat(amount), Account: account, Category: category}
}

// decimalEqual compares decimals by value, so that 1.0 and 1 are equal.
var decimalEqual = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

var utc = time.UTC
