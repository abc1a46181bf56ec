package profile

import (
	"time"

	"github.com/janekbaraniewski/synthload/internal/core"
	"github.com/samber/lo"
)

// Rows is a read-only view over a contiguous range of profile rows. It never
// hands out the store's backing slices.
type Rows struct {
	store      *Store
	start, end int
}

func (r Rows) Len() int { return r.end - r.start }

func (r Rows) Empty() bool { return r.Len() == 0 }

func (r Rows) Timestamp(i int) time.Time {
	return r.store.timestamps[r.start+i]
}

// Value returns the energy of category in the i-th row of the view.
func (r Rows) Value(category string, i int) (float64, bool) {
	values, ok := r.slice(category)
	if !ok {
		return 0, false
	}
	return values[i], true
}

// Sum adds the category's values over the view. An empty view sums to 0.
func (r Rows) Sum(category string) (float64, error) {
	values, ok := r.slice(category)
	if !ok {
		return 0, core.CategoryNotFound(category)
	}
	return lo.Sum(values), nil
}

// Values copies the category's values out of the view.
func (r Rows) Values(category string) ([]float64, error) {
	values, ok := r.slice(category)
	if !ok {
		return nil, core.CategoryNotFound(category)
	}
	return append([]float64(nil), values...), nil
}

func (r Rows) slice(category string) ([]float64, bool) {
	if r.store == nil {
		return nil, false
	}
	col, ok := r.store.columnValues(category)
	if !ok {
		return nil, false
	}
	return col[r.start:r.end], true
}
