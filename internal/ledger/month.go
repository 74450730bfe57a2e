package ledger

import (
	"fmt"
	"time"
)

// Month identifies one calendar month. It is the bucket key for every
// aggregate table.
type Month struct {
	Year int        `json:"year"`
	Mon  time.Month `json:"month"`
}

// MonthOf returns the month containing t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Mon: t.Month()}
}

// ParseMonth parses the "2006-01" form.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q: %w", s, err)
	}
	return MonthOf(t), nil
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Mon))
}

// Next returns the following calendar month.
func (m Month) Next() Month {
	if m.Mon == time.December {
		return Month{Year: m.Year + 1, Mon: time.January}
	}
	return Month{Year: m.Year, Mon: m.Mon + 1}
}

// Before reports whether m precedes o.
func (m Month) Before(o Month) bool {
	if m.Year != o.Year {
		return m.Year < o.Year
	}
	return m.Mon < o.Mon
}

// Start returns midnight on the first day of the month.
func (m Month) Start() time.Time {
	return time.Date(m.Year, m.Mon, 1, 0, 0, 0, 0, time.UTC)
}

// End returns the last nanosecond of the month, so that every event dated
// inside the month satisfies Date <= End.
func (m Month) End() time.Time {
	return m.Next().Start().Add(-time.Nanosecond)
}

// MonthRange returns the contiguous months from first through last inclusive.
// The running stock balance depends on the axis having no gaps.
func MonthRange(first, last Month) []Month {
	if last.Before(first) {
		return nil
	}
	var months []Month
	for m := first; !last.Before(m); m = m.Next() {
		months = append(months, m)
	}
	return months
}
