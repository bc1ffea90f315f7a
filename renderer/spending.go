package renderer

import (
	"github.com/etnz/budget"
	"github.com/etnz/budget/date"
	"github.com/shopspring/decimal"
)

type transactionRow struct {
	On          date.Date
	Account     string
	Category    string
	Description string
	Amount      string
}

type dayView struct {
	On           date.Date
	Transactions []transactionRow
	Total        string
}

type categoryRow struct {
	Category string
	Count    int
	Total    string
}

type spendingView struct {
	From       date.Date
	Days       int
	ByDay      []dayView
	Categories []categoryRow
	Total      string
}

// Spending renders the transactions of a period grouped by day, then totals
// by category.
//
// Transactions are rendered in the order they are given: RecentSpending
// already sorts them by date.
func Spending(period date.Range, txs []budget.Transaction, currency string) string {
	view := spendingView{From: period.From, Days: period.Days()}
	total := decimal.Zero
	for _, day := range budget.SpendingByDay(txs) {
		dv := dayView{On: day.On, Total: FormatBalance(day.Total, currency)}
		for _, tx := range day.Transactions {
			dv.Transactions = append(dv.Transactions, transactionRow{
				On:          tx.On,
				Account:     cell(tx.Account),
				Category:    cell(tx.Category),
				Description: cell(tx.Description),
				Amount:      FormatBalance(tx.Amount, currency),
			})
		}
		total = total.Add(day.Total)
		view.ByDay = append(view.ByDay, dv)
	}
	for _, c := range budget.TotalsByCategory(txs) {
		view.Categories = append(view.Categories, categoryRow{Category: cell(c.Category), Count: c.Count, Total: FormatBalance(c.Total, currency)})
	}
	view.Total = FormatBalance(total, currency)
	return renderTemplate("spending", "spending.md", nil, view)
}
