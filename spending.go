package budget

import (
	"cmp"
	"slices"
	"time"

	"github.com/etnz/budget/date"
	"github.com/shopspring/decimal"
)

// DefaultSpendingWindow is how far back RecentSpending looks by default.
const DefaultSpendingWindow = 30 * date.Day

// RecentSpending returns the transactions dated within 'window' before 'now',
// both ends included, sorted by date.
//
// The window is truncated to whole days and transactions dated after now are
// left out. The sort is stable: transactions of the same day keep their
// relative input order.
func RecentSpending(txs []Transaction, now date.Date, window time.Duration) []Transaction {
	r := date.Trailing(now, window)
	recent := make([]Transaction, 0)
	for _, tx := range txs {
		if r.Contains(tx.On) {
			recent = append(recent, tx)
		}
	}
	slices.SortStableFunc(recent, func(a, b Transaction) int { return a.On.Compare(b.On) })
	return recent
}

// DailySpending groups the transactions of a single day.
type DailySpending struct {
	On           date.Date       `json:"on"`
	Transactions []Transaction   `json:"transactions"`
	Total        decimal.Decimal `json:"total"`
}

// SpendingByDay groups transactions by day. Days are in order of first
// appearance, so a list sorted by date gives days in chronological order.
func SpendingByDay(txs []Transaction) []DailySpending {
	days := make([]DailySpending, 0)
	index := make(map[date.Date]int)
	for _, tx := range txs {
		i, ok := index[tx.On]
		if !ok {
			i = len(days)
			index[tx.On] = i
			days = append(days, DailySpending{On: tx.On, Total: decimal.Zero})
		}
		days[i].Transactions = append(days[i].Transactions, tx)
		days[i].Total = days[i].Total.Add(tx.Amount)
	}
	return days
}

// CategoryTotal is the sum of all transactions of a category.
type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
}

// Uncategorized is the category reported for transactions without one.
const Uncategorized = "uncategorized"

// TotalsByCategory sums transactions per category, the largest outflow first.
func TotalsByCategory(txs []Transaction) []CategoryTotal {
	totals := make(map[string]CategoryTotal)
	for _, tx := range txs {
		category := tx.Category
		if category == "" {
			category = Uncategorized
		}
		t, ok := totals[category]
		if !ok {
			t = CategoryTotal{Category: category, Total: decimal.Zero}
		}
		t.Total = t.Total.Add(tx.Amount)
		t.Count++
		totals[category] = t
	}

	list := make([]CategoryTotal, 0, len(totals))
	for _, t := range totals {
		list = append(list, t)
	}
	slices.SortFunc(list, func(a, b CategoryTotal) int {
		if c := a.Total.Cmp(b.Total); c != 0 {
			return c
		}
		return cmp.Compare(a.Category, b.Category)
	})
	return list
}
