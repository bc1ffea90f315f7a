package budget

import (
	"fmt"
	"time"

	"github.com/etnz/budget/date"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// Snapshot is an observation of an account balance at a point in time.
//
// Balance is nullable so that a missing balance is told apart from a zero one.
type Snapshot struct {
	Account string              `json:"account"`
	At      time.Time           `json:"at"`
	Balance decimal.NullDecimal `json:"balance"`
}

// NewSnapshot returns a complete snapshot.
func NewSnapshot(account string, at time.Time, balance decimal.Decimal) Snapshot {
	return Snapshot{
		Account: account,
		At:      at,
		Balance: decimal.NullDecimal{Decimal: balance, Valid: true},
	}
}

// On returns the day the snapshot was observed, in UTC.
func (s Snapshot) On() date.Date { return date.Of(s.At.UTC()) }

// MissingField returns the name of the first required field that is not set,
// or "" if the snapshot is complete.
func (s Snapshot) MissingField() string {
	switch {
	case s.Account == "":
		return "account"
	case s.At.IsZero():
		return "at"
	case !s.Balance.Valid:
		return "balance"
	}
	return ""
}

// CompareSnapshots orders snapshots by instant, then by account.
func CompareSnapshots(a, b Snapshot) int {
	if c := a.At.Compare(b.At); c != 0 {
		return c
	}
	switch {
	case a.Account < b.Account:
		return -1
	case a.Account > b.Account:
		return 1
	}
	return 0
}

// ParseAt parses the instant of a snapshot: either a date, at midnight UTC,
// or an RFC 3339 timestamp.
func ParseAt(str string) (time.Time, error) {
	if d, err := date.Parse(str); err == nil {
		return d.Time(), nil
	}
	at, err := time.Parse(time.RFC3339Nano, str)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q want %q or RFC 3339", str, date.DateFormat)
	}
	return at, nil
}

// FormatAt is the reverse of ParseAt.
func FormatAt(at time.Time) string {
	if at.Location() == time.UTC && at.Equal(date.Of(at).Time()) {
		return date.Of(at).String()
	}
	return at.Format(time.RFC3339Nano)
}
