package renderer

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// FormatBalance formats an amount in the given currency, e.g. "$1,234.50".
//
// Unknown currencies are formatted as a plain number followed by the code.
func FormatBalance(d decimal.Decimal, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		if currency == "" {
			return d.StringFixed(2)
		}
		return d.StringFixed(2) + " " + currency
	}
	minor := d.Round(int32(cur.Fraction)).Shift(int32(cur.Fraction)).IntPart()
	if minor < 0 {
		return "-" + cur.Formatter().Format(-minor)
	}
	return cur.Formatter().Format(minor)
}

// FormatChange formats a signed change: "+$12.00", "-$3.00". Zero is "-".
func FormatChange(d decimal.Decimal, currency string) string {
	if d.IsZero() {
		return "-"
	}
	if d.IsPositive() {
		return "+" + FormatBalance(d, currency)
	}
	return FormatBalance(d, currency)
}
