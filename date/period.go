package date

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Period is the step between two points of a balance history.
type Period int

const (
	Daily Period = iota
	Weekly
	Monthly
	Quarterly
	Yearly
)

// periodNames holds the canonical name of each period, then its short aliases.
var periodNames = [...][]string{
	Daily:     {"daily", "day", "d"},
	Weekly:    {"weekly", "week", "w"},
	Monthly:   {"monthly", "month", "m"},
	Quarterly: {"quarterly", "quarter", "q"},
	Yearly:    {"yearly", "year", "y"},
}

// PeriodNames returns the canonical name of every period, shortest first.
func PeriodNames() []string {
	names := make([]string, len(periodNames))
	for i, aliases := range periodNames {
		names[i] = aliases[0]
	}
	return names
}

func (p Period) String() string {
	if p < Daily || p > Yearly {
		return fmt.Sprintf("Period(%d)", int(p))
	}
	return periodNames[p][0]
}

// ParsePeriod reads a period by name or alias, ignoring case.
func ParsePeriod(s string) (Period, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for p, aliases := range periodNames {
		if slices.Contains(aliases, s) {
			return Period(p), nil
		}
	}
	return Daily, fmt.Errorf("unknown period %q, want one of %s", s, strings.Join(PeriodNames(), ", "))
}

// Set implements flag.Value.
func (p *Period) Set(s string) error {
	v, err := ParsePeriod(s)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// StartOf returns the first day of the period containing d. Weeks start on Monday.
func (d Date) StartOf(p Period) Date {
	switch p {
	case Weekly:
		return d.Add(-((int(d.Weekday()) + 6) % 7))
	case Monthly:
		return New(d.y, d.m, 1)
	case Quarterly:
		return New(d.y, d.m-(d.m-1)%3, 1)
	case Yearly:
		return New(d.y, time.January, 1)
	}
	return d
}
