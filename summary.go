package budget

import (
	"maps"
	"slices"

	"github.com/shopspring/decimal"
)

// AccountSummary is the current state of an account.
type AccountSummary struct {
	Account  string    `json:"account"`
	Current  Snapshot  `json:"current"`
	Previous *Snapshot `json:"previous,omitempty"` // second latest snapshot, if any
}

// Balance returns the current balance of the account.
func (a AccountSummary) Balance() decimal.Decimal { return a.Current.Balance.Decimal }

// Delta returns the change between the previous and the current balance.
// It returns false if there is no previous snapshot.
func (a AccountSummary) Delta() (decimal.Decimal, bool) {
	if a.Previous == nil {
		return decimal.Zero, false
	}
	return a.Current.Balance.Decimal.Sub(a.Previous.Balance.Decimal), true
}

// AccountSummaries returns, for each account, the snapshot with the latest
// instant as its current balance, and the one before it as previous.
//
// Snapshots need not be sorted. When two snapshots of an account share the
// same instant, the later one in the input wins. Accounts without snapshots
// are simply absent from the result.
func AccountSummaries(snapshots []Snapshot) map[string]AccountSummary {
	summaries := make(map[string]AccountSummary)
	for _, s := range snapshots {
		sum, ok := summaries[s.Account]
		switch {
		case !ok:
			sum = AccountSummary{Account: s.Account, Current: s}
		case s.At.Equal(sum.Current.At):
			sum.Current = s
		case s.At.After(sum.Current.At):
			previous := sum.Current
			sum.Previous, sum.Current = &previous, s
		case sum.Previous == nil || !s.At.Before(sum.Previous.At):
			previous := s
			sum.Previous = &previous
		}
		summaries[s.Account] = sum
	}
	return summaries
}

// Accounts returns the accounts of the summaries in alphabetical order.
func Accounts(summaries map[string]AccountSummary) []string {
	return slices.Sorted(maps.Keys(summaries))
}

// NetWorth returns the sum of all current balances.
func NetWorth(summaries map[string]AccountSummary) decimal.Decimal {
	total := decimal.Zero
	for _, sum := range summaries {
		total = total.Add(sum.Balance())
	}
	return total
}
