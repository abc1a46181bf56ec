// Package engine rescales a normalized load profile to a target annual
// consumption and aggregates it per day, month and year.
//
// Every operation is a pure function of the immutable profile and its scalar
// arguments: identical calls return identical results, and stored energy
// values are never rewritten.
package engine

import (
	"fmt"
	"math"
	"time"

	"github.com/janekbaraniewski/synthload/internal/core"
	"github.com/janekbaraniewski/synthload/internal/profile"
)

type Engine struct {
	store *profile.Store
}

func New(store *profile.Store) *Engine {
	return &Engine{store: store}
}

func (e *Engine) Store() *profile.Store { return e.store }

// Categories lists every category column with its display name.
func (e *Engine) Categories() []core.CategoryInfo {
	return e.store.Describe()
}

// scaled carries what every aggregation needs once its inputs are validated.
type scaled struct {
	category     string
	name         string
	yearlySum    float64
	factor       float64
	scaledAnnual float64
}

// prepare applies the checks shared by all aggregations, in order: yearly sum,
// display name, then the normalized annual total. No arithmetic on the
// profile happens before the display name is known.
func (e *Engine) prepare(category string, yearlySum float64) (scaled, error) {
	if math.IsNaN(yearlySum) || math.IsInf(yearlySum, 0) || yearlySum < 0 {
		return scaled{}, core.InvalidArgument(fmt.Sprintf("%g", yearlySum), "yearly sum must be a non-negative number")
	}
	name, ok := e.store.DisplayName(category)
	if !ok {
		return scaled{}, core.DisplayNameMissing(category)
	}
	annual, err := e.store.TotalAnnualEnergy(category)
	if err != nil {
		return scaled{}, err
	}
	factor := core.ScalingFactor(yearlySum)
	return scaled{
		category:     category,
		name:         name,
		yearlySum:    yearlySum,
		factor:       factor,
		scaledAnnual: annual * factor,
	}, nil
}

// requireYear rejects periods outside the loaded profile year.
func (e *Engine) requireYear(input string, year int) error {
	if year != e.store.Year() {
		return core.InvalidPeriod(input, fmt.Sprintf("outside the loaded year %d", e.store.Year()), nil)
	}
	return nil
}

// dayValue is the single-day leaf: scaled energy and its share of the scaled
// annual total, each rounded once to 2 decimals.
func (e *Engine) dayValue(sc scaled, date time.Time) (core.DailyValue, error) {
	raw, err := e.store.RowsForDate(date).Sum(sc.category)
	if err != nil {
		return core.DailyValue{}, err
	}
	kwh := raw * sc.factor
	return core.DailyValue{
		Date:             date.Format(core.DateLayout),
		Kwh:              core.Round(kwh, 2),
		PercentageOfYear: core.Round(percentOf(kwh, sc.scaledAnnual), 2),
	}, nil
}

func (e *Engine) dayValues(sc scaled, dates []time.Time) ([]core.DailyValue, error) {
	out := make([]core.DailyValue, 0, len(dates))
	for _, date := range dates {
		v, err := e.dayValue(sc, date)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// percentOf is 0 when whole is 0 so that empty or zero-scaled profiles never produce NaN.
func percentOf(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return part / whole * 100
}
