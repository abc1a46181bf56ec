package profile

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/janekbaraniewski/synthload/internal/core"
	"github.com/samber/lo"
)

// Interval is the spacing between consecutive profile rows.
const Interval = 15 * time.Minute

var ErrInvalidProfile = errors.New("invalid load profile")

// Table is the fully materialized series handed over by a loader:
// a timestamp column plus one energy column per category code.
type Table struct {
	Timestamps []time.Time
	Categories []string
	Columns    map[string][]float64
}

// Validate checks the shape a Store requires: one calendar year of gap-free
// quarter-hour rows starting at midnight on January 1st, with every category
// column the same length.
func (t Table) Validate() error {
	if len(t.Timestamps) == 0 {
		return fmt.Errorf("%w: no rows", ErrInvalidProfile)
	}
	if len(t.Categories) == 0 {
		return fmt.Errorf("%w: no category columns", ErrInvalidProfile)
	}
	if dups := lo.FindDuplicates(t.Categories); len(dups) > 0 {
		return fmt.Errorf("%w: duplicate category columns %s", ErrInvalidProfile, strings.Join(dups, ", "))
	}
	for _, code := range t.Categories {
		if strings.TrimSpace(code) == "" {
			return fmt.Errorf("%w: empty category code", ErrInvalidProfile)
		}
		col, ok := t.Columns[code]
		if !ok {
			return fmt.Errorf("%w: column %s missing", ErrInvalidProfile, code)
		}
		if len(col) != len(t.Timestamps) {
			return fmt.Errorf("%w: column %s has %d values for %d timestamps", ErrInvalidProfile, code, len(col), len(t.Timestamps))
		}
	}
	for i := 1; i < len(t.Timestamps); i++ {
		if step := t.Timestamps[i].Sub(t.Timestamps[i-1]); step != Interval {
			return fmt.Errorf("%w: row %d at %s is %s after its predecessor, want %s",
				ErrInvalidProfile, i, t.Timestamps[i].Format(time.DateTime), step, Interval)
		}
	}
	first := t.Timestamps[0]
	year := first.Year()
	if start := time.Date(year, time.January, 1, 0, 0, 0, 0, first.Location()); !first.Equal(start) {
		return fmt.Errorf("%w: first row at %s, want %s", ErrInvalidProfile, first.Format(time.DateTime), start.Format(time.DateTime))
	}
	if want := core.DaysInYear(year) * core.IntervalsPerDay; len(t.Timestamps) != want {
		return fmt.Errorf("%w: %d rows, want %d for year %d", ErrInvalidProfile, len(t.Timestamps), want, year)
	}
	return nil
}
