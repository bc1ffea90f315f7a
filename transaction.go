package budget

import (
	"github.com/etnz/budget/date"
	"github.com/shopspring/decimal"
)

// Transaction is a single movement on an account, as reported by a collector.
//
// Transactions are observations: reports filter, sort and group copies of them
// but never modify them.
type Transaction struct {
	On          date.Date       `json:"on"`
	Amount      decimal.Decimal `json:"amount"` // negative for a debit
	Account     string          `json:"account"`
	Category    string          `json:"category,omitempty"`
	Description string          `json:"description,omitempty"`
}

// MissingField returns the name of the first required field that is not set,
// or "" if the transaction is complete.
func (tx Transaction) MissingField() string {
	switch {
	case tx.On.IsZero():
		return "on"
	case tx.Account == "":
		return "account"
	}
	return ""
}
