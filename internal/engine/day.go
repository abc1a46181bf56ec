package engine

import (
	"fmt"

	"github.com/janekbaraniewski/synthload/internal/core"
	"github.com/samber/lo"
)

// DayEnergy reports one day's scaled energy and its share of the year.
func (e *Engine) DayEnergy(category, date string, yearlySum float64) (core.DayResult, error) {
	day, err := core.ParseDate(date)
	if err != nil {
		return core.DayResult{}, err
	}
	sc, err := e.prepare(category, yearlySum)
	if err != nil {
		return core.DayResult{}, err
	}
	if err := e.requireYear(date, day.Year()); err != nil {
		return core.DayResult{}, err
	}

	v, err := e.dayValue(sc, day)
	if err != nil {
		return core.DayResult{}, err
	}
	return core.DayResult{
		Date:                  date,
		Category:              category,
		YearlySum:             yearlySum,
		DailyKwh:              v.Kwh,
		DailyPercentageOfYear: v.PercentageOfYear,
	}, nil
}

// DayProfile breaks one day down into its quarter-hour rows and 24 hourly
// buckets. Row i belongs to hour i/4.
func (e *Engine) DayProfile(category, date string, yearlySum float64) (core.DayProfileResult, error) {
	day, err := core.ParseDate(date)
	if err != nil {
		return core.DayProfileResult{}, err
	}
	sc, err := e.prepare(category, yearlySum)
	if err != nil {
		return core.DayProfileResult{}, err
	}
	if err := e.requireYear(date, day.Year()); err != nil {
		return core.DayProfileResult{}, err
	}

	rows := e.store.RowsForDate(day)
	raw, err := rows.Values(category)
	if err != nil {
		return core.DayProfileResult{}, err
	}

	var hourlyKwh, hourlyPct [24]float64
	quarters := make([]core.QuarterHourlyValue, 0, len(raw))
	for i, v := range raw {
		kwh := v * sc.factor
		pct := percentOf(kwh, sc.scaledAnnual)
		quarters = append(quarters, core.QuarterHourlyValue{
			Timestamp:  rows.Timestamp(i).Format("15:04:05"),
			Kwh:        core.Round(kwh, 4),
			Percentage: core.Round(pct, 4),
		})
		if hour := i / 4; hour < 24 {
			hourlyKwh[hour] += kwh
			hourlyPct[hour] += pct
		}
	}

	hourly := lo.Times(24, func(h int) core.HourlyValue {
		return core.HourlyValue{
			Hour:       fmt.Sprintf("%02d:00", h),
			Kwh:        core.Round(hourlyKwh[h], 2),
			Percentage: core.Round(hourlyPct[h], 4),
		}
	})

	total := core.Round(lo.Sum(raw)*sc.factor, 2)
	return core.DayProfileResult{
		Date:                date,
		Category:            category,
		YearlySum:           yearlySum,
		CategoryName:        sc.name,
		TotalKwh:            total,
		TotalPercentage:     core.Round(percentOf(total, sc.scaledAnnual), 2),
		HourlyValues:        hourly,
		QuarterHourlyValues: quarters,
	}, nil
}
