package core

import (
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
)

const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
)

// Month identifies one calendar month.
type Month struct {
	Year  int
	Month time.Month
}

func (m Month) String() string {
	return m.First().Format(MonthLayout)
}

// First returns midnight UTC of the month's first day.
func (m Month) First() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Days returns the month's length taken from the calendar.
func (m Month) Days() int {
	return DaysInMonth(m.Year, m.Month)
}

// Dates lists every day of the month at midnight UTC.
func (m Month) Dates() []time.Time {
	first := m.First()
	return lo.Times(m.Days(), func(i int) time.Time {
		return first.AddDate(0, 0, i)
	})
}

func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func DaysInYear(year int) int {
	return time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC).YearDay()
}

// YearDates lists every day of the year at midnight UTC, 365 or 366 entries.
func YearDates(year int) []time.Time {
	first := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return lo.Times(DaysInYear(year), func(i int) time.Time {
		return first.AddDate(0, 0, i)
	})
}

// DateOf truncates t to its calendar date, dropping time-of-day and location.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate accepts YYYY-MM-DD.
func ParseDate(s string) (time.Time, error) {
	raw := strings.TrimSpace(s)
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, InvalidPeriod(s, "expected YYYY-MM-DD", nil)
	}
	return t, nil
}

// ParseMonth accepts YYYY-MM, and YYYY-MM-DD from which the day is dropped.
func ParseMonth(s string) (Month, error) {
	raw := strings.TrimSpace(s)
	if t, err := time.Parse(MonthLayout, raw); err == nil {
		return Month{Year: t.Year(), Month: t.Month()}, nil
	}
	if t, err := time.Parse(DateLayout, raw); err == nil {
		return Month{Year: t.Year(), Month: t.Month()}, nil
	}
	return Month{}, InvalidPeriod(s, "expected YYYY-MM or YYYY-MM-DD", nil)
}

// ParseYear accepts exactly four digits.
func ParseYear(s string) (int, error) {
	raw := strings.TrimSpace(s)
	if len(raw) != 4 {
		return 0, InvalidPeriod(s, "expected YYYY", nil)
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year < 1 {
		return 0, InvalidPeriod(s, "expected YYYY", nil)
	}
	return year, nil
}

// MonthName returns the three-letter English abbreviation ("Jan").
func MonthName(m time.Month) string {
	return m.String()[:3]
}
