package tui

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/janekbaraniewski/synthload/internal/core"
)

// Plain-text reports for the command line. They carry no ANSI styling so the
// output can be piped.

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func WriteDay(w io.Writer, r core.DayResult) error {
	_, err := fmt.Fprintf(w, "Daily energy consumption for %s (%s): %.2f kWh (%.2f%% of year).\n",
		r.Date, r.Category, r.DailyKwh, r.DailyPercentageOfYear)
	return err
}

// WriteDayProfile prints the hourly breakdown; withQuarters adds the 96
// quarter-hour rows below it.
func WriteDayProfile(w io.Writer, r core.DayProfileResult, withQuarters bool) error {
	fmt.Fprintf(w, "Daily energy consumption for %s (%s): %.2f kWh (%.2f%% of year).\n\n",
		r.Date, r.CategoryName, r.TotalKwh, r.TotalPercentage)

	tw := newTable(w)
	fmt.Fprintln(tw, "HOUR\tKWH\tPERCENT")
	for _, h := range r.HourlyValues {
		fmt.Fprintf(tw, "%s\t%.2f\t%.4f\n", h.Hour, h.Kwh, h.Percentage)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if !withQuarters {
		return nil
	}

	fmt.Fprintln(w)
	tw = newTable(w)
	fmt.Fprintln(tw, "TIME\tKWH\tPERCENT")
	for _, q := range r.QuarterHourlyValues {
		fmt.Fprintf(tw, "%s\t%.4f\t%.4f\n", q.Timestamp, q.Kwh, q.Percentage)
	}
	return tw.Flush()
}

func WriteMonth(w io.Writer, r core.MonthResult) error {
	fmt.Fprintf(w, "Monthly energy consumption for %s (%s): %.2f kWh (%.2f%% of year).\n\n",
		r.Month, r.CategoryName, r.TotalKwh, r.TotalPercentage)
	return writeDailyTable(w, r.DailyValues)
}

func WriteYearMonths(w io.Writer, r core.YearMonthsResult) error {
	fmt.Fprintf(w, "Yearly energy consumption for %d (%s): %.2f kWh.\n\n",
		r.Year, r.CategoryName, r.TotalKwh)

	tw := newTable(w)
	fmt.Fprintln(tw, "MONTH\tKWH\tPERCENT")
	for _, m := range r.MonthlyValues {
		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\n", m.MonthName, m.Kwh, m.PercentOfYear)
	}
	return tw.Flush()
}

func WriteYearDays(w io.Writer, r core.YearDaysResult) error {
	fmt.Fprintf(w, "Yearly energy consumption for %d (%s): %.2f kWh.\n\n",
		r.Year, r.CategoryName, r.TotalKwh)
	return writeDailyTable(w, r.DailyValues)
}

func writeDailyTable(w io.Writer, values []core.DailyValue) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "DATE\tKWH\tPERCENT")
	for _, d := range values {
		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\n", d.Date, d.Kwh, d.PercentageOfYear)
	}
	return tw.Flush()
}

func WriteCategories(w io.Writer, categories []core.CategoryInfo) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "CODE\tNAME")
	for _, c := range categories {
		fmt.Fprintf(tw, "%s\t%s\n", c.Code, c.DisplayName)
	}
	return tw.Flush()
}

// WriteJSON writes v as indented JSON followed by a newline.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
