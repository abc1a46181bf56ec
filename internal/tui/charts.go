package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/NimbleMarkets/ntcharts/sparkline"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/janekbaraniewski/synthload/internal/core"
)

const (
	minChartWidth  = 12
	minChartHeight = 4
)

// ChartDayProfile draws one bar per hour of the day.
func ChartDayProfile(r core.DayProfileResult, w, h int) string {
	labels := lo.Map(r.HourlyValues, func(v core.HourlyValue, _ int) string { return v.Hour[:2] })
	values := lo.Map(r.HourlyValues, func(v core.HourlyValue, _ int) float64 { return v.Kwh })
	return renderBars(labels, values, w, h)
}

// ChartDaily draws one bar per day, labelled with the day of month.
func ChartDaily(days []core.DailyValue, w, h int) string {
	labels := lo.Map(days, func(v core.DailyValue, _ int) string {
		if len(v.Date) == len(core.DateLayout) {
			return v.Date[8:]
		}
		return v.Date
	})
	values := lo.Map(days, func(v core.DailyValue, _ int) float64 { return v.Kwh })
	return renderBars(labels, values, w, h)
}

// ChartYearMonths draws one bar per calendar month.
func ChartYearMonths(r core.YearMonthsResult, w, h int) string {
	labels := lo.Map(r.MonthlyValues, func(v core.MonthlyValue, _ int) string {
		if len(v.MonthName) > 3 {
			return v.MonthName[:3]
		}
		return v.MonthName
	})
	values := lo.Map(r.MonthlyValues, func(v core.MonthlyValue, _ int) float64 { return v.Kwh })
	return renderBars(labels, values, w, h)
}

// ChartYearDays compresses a year of daily values into a sparkline as wide
// as the chart, averaging neighbouring days when there are more days than
// columns.
func ChartYearDays(r core.YearDaysResult, w, h int) string {
	w, h = max(w, minChartWidth), max(h, minChartHeight)
	values := lo.Map(r.DailyValues, func(v core.DailyValue, _ int) float64 { return v.Kwh })
	if len(values) == 0 {
		return dimStyle.Render("no data")
	}
	sl := sparkline.New(w, h)
	sl.PushAll(downsample(values, w))
	sl.Draw()
	return lipgloss.NewStyle().Foreground(colorTeal).Render(sl.View())
}

func renderBars(labels []string, values []float64, w, h int) string {
	w, h = max(w, minChartWidth), max(h, minChartHeight)
	if len(values) == 0 {
		return dimStyle.Render("no data")
	}
	peak := lo.Max(values)
	data := make([]barchart.BarData, 0, len(values))
	for i, v := range values {
		data = append(data, barchart.BarData{
			Label: labels[i],
			Values: []barchart.BarValue{{
				Name:  labels[i],
				Value: v,
				Style: barStyle(v, peak),
			}},
		})
	}
	bc := barchart.New(w, h)
	bc.PushAll(data)
	bc.Draw()
	return bc.View()
}

// downsample averages values into at most n buckets of equal size.
func downsample(values []float64, n int) []float64 {
	if n <= 0 || len(values) <= n {
		return values
	}
	size := (len(values) + n - 1) / n
	return lo.Map(lo.Chunk(values, size), func(chunk []float64, _ int) float64 {
		return lo.Sum(chunk) / float64(len(chunk))
	})
}

// RenderShareGauge fills a bar proportionally to pct of full and labels it
// with pct.
func RenderShareGauge(pct, full float64, width int) string {
	if width < 5 {
		width = 5
	}
	filled := 0
	if full > 0 {
		filled = clamp(int(pct/full*float64(width)), 0, width)
	}
	bar := lipgloss.NewStyle().Foreground(colorGreen).Render(strings.Repeat("━", filled)) +
		lipgloss.NewStyle().Foreground(colorSurface1).Render(strings.Repeat("━", width-filled))
	return fmt.Sprintf("%s %s", bar, metricValueStyle.Render(fmt.Sprintf("%.2f%%", pct)))
}
