package engine

import (
	"time"

	"github.com/janekbaraniewski/synthload/internal/core"
	"github.com/samber/lo"
)

// YearMonths aggregates the raw profile per calendar month. Months missing
// from the profile report 0, so a year other than the loaded one yields
// twelve zero entries rather than an error.
//
// Monthly figures are rounded from the raw month sum, not from rounded days,
// and can therefore differ slightly from Month totals.
func (e *Engine) YearMonths(category, year string, yearlySum float64) (core.YearMonthsResult, error) {
	y, err := core.ParseYear(year)
	if err != nil {
		return core.YearMonthsResult{}, err
	}
	sc, err := e.prepare(category, yearlySum)
	if err != nil {
		return core.YearMonthsResult{}, err
	}

	var total float64
	months := make([]core.MonthlyValue, 0, 12)
	for m := time.January; m <= time.December; m++ {
		raw, err := e.store.RowsForMonth(core.Month{Year: y, Month: m}).Sum(category)
		if err != nil {
			return core.YearMonthsResult{}, err
		}
		kwh := raw * sc.factor
		total += kwh
		months = append(months, core.MonthlyValue{
			MonthNum:      int(m),
			MonthName:     core.MonthName(m),
			Kwh:           core.Round(kwh, 2),
			PercentOfYear: core.Round(percentOf(kwh, sc.scaledAnnual), 2),
		})
	}

	return core.YearMonthsResult{
		Year:          y,
		Category:      category,
		YearlySum:     yearlySum,
		CategoryName:  sc.name,
		TotalKwh:      core.Round(total, 2),
		MonthlyValues: months,
	}, nil
}

// YearDays reports every day of the loaded year.
func (e *Engine) YearDays(category, year string, yearlySum float64) (core.YearDaysResult, error) {
	y, err := core.ParseYear(year)
	if err != nil {
		return core.YearDaysResult{}, err
	}
	sc, err := e.prepare(category, yearlySum)
	if err != nil {
		return core.YearDaysResult{}, err
	}
	if err := e.requireYear(year, y); err != nil {
		return core.YearDaysResult{}, err
	}

	days, err := e.dayValues(sc, core.YearDates(y))
	if err != nil {
		return core.YearDaysResult{}, err
	}
	return core.YearDaysResult{
		Year:         y,
		Category:     category,
		YearlySum:    yearlySum,
		CategoryName: sc.name,
		TotalKwh:     core.SumRounded(lo.Map(days, func(d core.DailyValue, _ int) float64 { return d.Kwh })),
		DailyValues:  days,
	}, nil
}
