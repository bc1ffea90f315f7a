package renderer

import (
	"strings"

	"github.com/etnz/budget"
	"github.com/etnz/budget/date"
	"github.com/shopspring/decimal"
)

type pointRow struct {
	Label   string
	Balance string
}

type accountGraph struct {
	Account   string
	Sparkline string
	Points    []pointRow
}

type graphView struct {
	Period   date.Period
	Accounts []accountGraph
	NetWorth *accountGraph // only with several accounts
}

type point struct {
	at      string
	balance decimal.Decimal
}

// BalanceGraph renders the balance history of every account, one point per
// period.
//
// The series must be sorted by instant, as returned by budget.Reconcile.
// Within a period, the last snapshot is the one plotted. Accounts appear in
// order of their first snapshot. With several accounts, their sum is plotted
// too, each account contributing its latest balance as of the period.
func BalanceGraph(series []budget.Snapshot, period date.Period, currency string) string {
	var order []string
	var periods date.History[bool]
	histories := make(map[string]*date.History[point])
	for _, s := range series {
		h, ok := histories[s.Account]
		if !ok {
			h = new(date.History[point])
			histories[s.Account] = h
			order = append(order, s.Account)
		}
		bucket := s.On().StartOf(period)
		h.Append(bucket, point{at: budget.FormatAt(s.At), balance: s.Balance.Decimal})
		periods.Append(bucket, true)
	}

	view := graphView{Period: period}
	for _, account := range order {
		g := accountGraph{Account: account}
		values := make([]decimal.Decimal, 0, histories[account].Len())
		for _, p := range histories[account].Values() {
			g.Points = append(g.Points, pointRow{Label: p.at, Balance: FormatBalance(p.balance, currency)})
			values = append(values, p.balance)
		}
		g.Sparkline = Sparkline(values)
		view.Accounts = append(view.Accounts, g)
	}

	if len(order) > 1 {
		total := accountGraph{Account: "Net worth"}
		var values []decimal.Decimal
		for bucket := range periods.Values() {
			sum := decimal.Zero
			for _, account := range order {
				if p, ok := histories[account].ValueAsOf(bucket); ok {
					sum = sum.Add(p.balance)
				}
			}
			total.Points = append(total.Points, pointRow{Label: bucket.String(), Balance: FormatBalance(sum, currency)})
			values = append(values, sum)
		}
		total.Sparkline = Sparkline(values)
		view.NetWorth = &total
	}
	return renderTemplate("graph", "graph.md", map[string]string{"series": "series.md"}, view)
}

var ticks = []rune("▁▂▃▄▅▆▇█")

// Sparkline draws values as a line of unicode block characters, scaled
// between the smallest and the largest value.
func Sparkline(values []decimal.Decimal) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := decimal.Min(values[0], values...), decimal.Max(values[0], values...)
	span := hi.Sub(lo)
	top := decimal.NewFromInt(int64(len(ticks) - 1))

	var b strings.Builder
	for _, v := range values {
		i := (len(ticks) - 1) / 2
		if !span.IsZero() {
			i = int(v.Sub(lo).Mul(top).Div(span).Round(0).IntPart())
		}
		b.WriteRune(ticks[i])
	}
	return b.String()
}
