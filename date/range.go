package date

import "time"

// Range represents a range of dates, boundaries included.
type Range struct{ From, To Date }

// Trailing returns the range of dates that ends on 'to' and goes back 'window'.
//
// The window is truncated to whole days, so a 30 days window starting today
// contains 31 dates: today and the 30 previous days.
func Trailing(to Date, window time.Duration) Range {
	days := int(window / Day)
	if days < 0 {
		days = 0
	}
	return Range{From: to.Add(-days), To: to}
}

// Contains return true date is included in the range (boundaries included)
func (r Range) Contains(date Date) bool { return !date.Before(r.From) && !date.After(r.To) }

// Days returns the number of days in the range.
func (r Range) Days() int { return r.To.Sub(r.From) + 1 }

func (r Range) String() string { return r.From.String() + ".." + r.To.String() }
