package trend

import (
	"fmt"
	"time"
)

// Month is a calendar month; day-of-month is never tracked
type Month struct {
	Year  int
	Month time.Month
}

// ParseMonth parses "YYYY-MM" or "YYYY-MM-DD" (the day is discarded)
func ParseMonth(s string) (Month, error) {
	layout := "2006-01"
	if len(s) == len("2006-01-02") {
		layout = "2006-01-02"
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q: %w", s, err)
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

// MustParseMonth is ParseMonth for literals known to be valid
func MustParseMonth(s string) Month {
	m, err := ParseMonth(s)
	if err != nil {
		panic(err)
	}
	return m
}

// MonthOf returns the month containing t
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// AddMonths advances m by n calendar months (n may be negative)
func (m Month) AddMonths(n int) Month {
	idx := m.index() + n
	year := idx / 12
	month := idx % 12
	if month < 0 {
		month += 12
		year--
	}
	return Month{Year: year, Month: time.Month(month + 1)}
}

// Before reports whether m is strictly earlier than o
func (m Month) Before(o Month) bool {
	return m.index() < o.index()
}

// String formats m as YYYY-MM
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

func (m Month) index() int {
	return m.Year*12 + int(m.Month) - 1
}
