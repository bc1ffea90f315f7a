package budget

import (
	"slices"

	"github.com/etnz/budget/date"
	"github.com/shopspring/decimal"
)

// BalanceRow is the balance of every account at the end of a day.
type BalanceRow struct {
	On       date.Date                  `json:"on"`
	Balances map[string]decimal.Decimal `json:"balances"`
	NetWorth decimal.Decimal            `json:"net_worth"`
}

// BalanceTable lays snapshots out as one row per day holding at least one
// snapshot, in chronological order.
//
// Each account carries its latest balance as of that day, so a row is complete
// for every account seen so far. Accounts are returned in alphabetical order.
func BalanceTable(snapshots []Snapshot) (accounts []string, rows []BalanceRow) {
	sorted := slices.Clone(snapshots)
	slices.SortStableFunc(sorted, CompareSnapshots)

	var days date.History[bool]
	histories := make(map[string]*date.History[decimal.Decimal])
	for _, s := range sorted {
		h, ok := histories[s.Account]
		if !ok {
			h = new(date.History[decimal.Decimal])
			histories[s.Account] = h
			accounts = append(accounts, s.Account)
		}
		h.Append(s.On(), s.Balance.Decimal)
		days.Append(s.On(), true)
	}
	slices.Sort(accounts)

	for day := range days.Values() {
		row := BalanceRow{On: day, Balances: make(map[string]decimal.Decimal), NetWorth: decimal.Zero}
		for _, account := range accounts {
			if b, ok := histories[account].ValueAsOf(day); ok {
				row.Balances[account] = b
				row.NetWorth = row.NetWorth.Add(b)
			}
		}
		rows = append(rows, row)
	}
	return accounts, rows
}
