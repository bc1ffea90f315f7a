package budget

import (
	"testing"

	"github.com/etnz/budget/date"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

func TestRecentSpending(t *testing.T) {
	today := date.New(2024, 3, 31)
	old := T(today.Add(-40), -10, "A", "rent")
	recent := T(today.Add(-5), -20, "A", "food")

	got := RecentSpending([]Transaction{old, recent}, today, 30*date.Day)
	if diff := cmp.Diff([]Transaction{recent}, got, decimalEqual); diff != "" {
		t.Errorf("RecentSpending() mismatch (-want +got):\n%s", diff)
	}
}

func TestRecentSpendingOrder(t *testing.T) {
	today := date.New(2024, 3, 31)
	a := T(today, -1, "A", "a")
	b := T(today.Add(-2), -2, "A", "b")
	c := T(today, -3, "B", "c")
	d := T(today.Add(-30), -4, "B", "d")
	future := T(today.Add(1), -5, "B", "e")
	edge := T(today.Add(-31), -6, "B", "f")

	in := []Transaction{a, b, c, d, future, edge}
	want := []Transaction{d, b, a, c}

	got := RecentSpending(in, today, DefaultSpendingWindow)
	if diff := cmp.Diff(want, got, decimalEqual); diff != "" {
		t.Errorf("RecentSpending() mismatch (-want +got):\n%s", diff)
	}
	if in[0] != a || in[1] != b {
		t.Errorf("RecentSpending() modified its input")
	}
	if diff := cmp.Diff(got, RecentSpending(in, today, DefaultSpendingWindow), decimalEqual); diff != "" {
		t.Errorf("RecentSpending() is not idempotent:\n%s", diff)
	}
}

func TestRecentSpendingEmpty(t *testing.T) {
	got := RecentSpending(nil, date.New(2024, 1, 1), DefaultSpendingWindow)
	if got == nil || len(got) != 0 {
		t.Errorf("RecentSpending(nil) = %#v, want an empty list", got)
	}
}

func TestSpendingByDay(t *testing.T) {
	d1, d2 := date.New(2024, 1, 1), date.New(2024, 1, 2)
	txs := []Transaction{T(d1, -1, "A", "x"), T(d1, -2.5, "B", "y"), T(d2, 10, "A", "z")}

	got := SpendingByDay(txs)
	want := []DailySpending{
		{On: d1, Transactions: txs[:2], Total: decimal.NewFromFloat(-3.5)},
		{On: d2, Transactions: txs[2:], Total: decimal.NewFromInt(10)},
	}
	if diff := cmp.Diff(want, got, decimalEqual); diff != "" {
		t.Errorf("SpendingByDay() mismatch (-want +got):\n%s", diff)
	}
}

func TestTotalsByCategory(t *testing.T) {
	d := date.New(2024, 1, 1)
	txs := []Transaction{
		T(d, -10, "A", "food"),
		T(d, -50, "A", "rent"),
		T(d, -5, "A", "food"),
		T(d, 100, "A", "salary"),
		T(d, -1, "A", ""),
	}

	got := TotalsByCategory(txs)
	want := []CategoryTotal{
		{Category: "rent", Total: decimal.NewFromInt(-50), Count: 1},
		{Category: "food", Total: decimal.NewFromInt(-15), Count: 2},
		{Category: Uncategorized, Total: decimal.NewFromInt(-1), Count: 1},
		{Category: "salary", Total: decimal.NewFromInt(100), Count: 1},
	}
	if diff := cmp.Diff(want, got, decimalEqual); diff != "" {
		t.Errorf("TotalsByCategory() mismatch (-want +got):\n%s", diff)
	}
}
