package engine

import (
	"github.com/janekbaraniewski/synthload/internal/core"
	"github.com/samber/lo"
)

// Month reports every day of a calendar month. The totals add up the rounded
// daily figures exactly, so they always reconcile with daily_values.
func (e *Engine) Month(category, month string, yearlySum float64) (core.MonthResult, error) {
	m, err := core.ParseMonth(month)
	if err != nil {
		return core.MonthResult{}, err
	}
	sc, err := e.prepare(category, yearlySum)
	if err != nil {
		return core.MonthResult{}, err
	}
	if err := e.requireYear(month, m.Year); err != nil {
		return core.MonthResult{}, err
	}

	days, err := e.dayValues(sc, m.Dates())
	if err != nil {
		return core.MonthResult{}, err
	}
	return core.MonthResult{
		Month:           m.String(),
		Category:        category,
		YearlySum:       yearlySum,
		CategoryName:    sc.name,
		TotalKwh:        core.SumRounded(lo.Map(days, func(d core.DailyValue, _ int) float64 { return d.Kwh })),
		TotalPercentage: core.SumRounded(lo.Map(days, func(d core.DailyValue, _ int) float64 { return d.PercentageOfYear })),
		DailyValues:     days,
	}, nil
}
