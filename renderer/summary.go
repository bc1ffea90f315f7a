package renderer

import (
	"github.com/etnz/budget"
	"github.com/etnz/budget/date"
)

type summaryRow struct {
	Account string
	Balance string
	AsOf    string
	Change  string
}

type summaryView struct {
	On       date.Date
	Rows     []summaryRow
	NetWorth string
}

// AccountSummary renders the current balance of every account, in
// alphabetical order, and their sum.
func AccountSummary(on date.Date, summaries map[string]budget.AccountSummary, currency string) string {
	view := summaryView{On: on, NetWorth: FormatBalance(budget.NetWorth(summaries), currency)}
	for _, account := range budget.Accounts(summaries) {
		sum := summaries[account]
		change := "-"
		if delta, ok := sum.Delta(); ok {
			change = FormatChange(delta, currency)
		}
		view.Rows = append(view.Rows, summaryRow{
			Account: cell(account),
			Balance: FormatBalance(sum.Balance(), currency),
			AsOf:    budget.FormatAt(sum.Current.At),
			Change:  change,
		})
	}
	return renderTemplate("summary", "summary.md", nil, view)
}
