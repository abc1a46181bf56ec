package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/janekbaraniewski/synthload/internal/core"
	"github.com/janekbaraniewski/synthload/internal/engine"
	"github.com/janekbaraniewski/synthload/internal/tui"
)

const (
	chartWidth  = 80
	chartHeight = 16
)

// runQuery loads the profile, runs query and renders its result in the
// selected output format. chart may be nil for results without a chart.
func runQuery[T any](
	cmd *cobra.Command,
	o *options,
	query func(*engine.Engine) (T, error),
	text func(io.Writer, T) error,
	chart func(*engine.Engine, T) (string, error),
) error {
	eng, err := o.loadEngine(cmd.Context())
	if err != nil {
		return err
	}
	result, err := query(eng)
	if err != nil {
		return o.fail(cmd, err)
	}

	out := cmd.OutOrStdout()
	switch o.output {
	case outputJSON:
		return tui.WriteJSON(out, result)
	case outputChart:
		if chart == nil {
			break
		}
		rendered, err := chart(eng, result)
		if err != nil {
			return o.fail(cmd, err)
		}
		_, err = fmt.Fprintln(out, rendered)
		return err
	}
	return text(out, result)
}

// fail reports a query error. JSON output also gets the structured error
// document on stdout.
func (o *options) fail(cmd *cobra.Command, err error) error {
	if o.output == outputJSON {
		if werr := tui.WriteJSON(cmd.OutOrStdout(), core.NewErrorResult(err)); werr != nil {
			return werr
		}
	}
	return err
}

func newEnergyCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:     "energy YYYY-MM-DD",
		Aliases: []string{"de"},
		Short:   "Energy of one day",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, o,
				func(e *engine.Engine) (core.DayResult, error) {
					return e.DayEnergy(o.category, args[0], o.yearlySum)
				},
				tui.WriteDay,
				func(e *engine.Engine, r core.DayResult) (string, error) {
					p, err := e.DayProfile(r.Category, r.Date, r.YearlySum)
					if err != nil {
						return "", err
					}
					return chartTitle(p.CategoryName, p.Date, p.TotalKwh) + tui.ChartDayProfile(p, chartWidth, chartHeight), nil
				},
			)
		},
	}
}

func newDayCommand(o *options) *cobra.Command {
	var quarters bool
	cmd := &cobra.Command{
		Use:     "day YYYY-MM-DD",
		Aliases: []string{"pd"},
		Short:   "Hourly and quarter-hourly profile of one day",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, o,
				func(e *engine.Engine) (core.DayProfileResult, error) {
					return e.DayProfile(o.category, args[0], o.yearlySum)
				},
				func(w io.Writer, r core.DayProfileResult) error {
					return tui.WriteDayProfile(w, r, quarters)
				},
				func(_ *engine.Engine, r core.DayProfileResult) (string, error) {
					return chartTitle(r.CategoryName, r.Date, r.TotalKwh) + tui.ChartDayProfile(r, chartWidth, chartHeight), nil
				},
			)
		},
	}
	cmd.Flags().BoolVar(&quarters, "quarters", false, "also list the 96 quarter-hour values")
	return cmd
}

func newMonthCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:     "month YYYY-MM",
		Aliases: []string{"pm"},
		Short:   "Daily values and total of one month",
		Long:    "Daily values and total of one month. A full date selects its month.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, o,
				func(e *engine.Engine) (core.MonthResult, error) {
					return e.Month(o.category, args[0], o.yearlySum)
				},
				tui.WriteMonth,
				func(_ *engine.Engine, r core.MonthResult) (string, error) {
					return chartTitle(r.CategoryName, r.Month, r.TotalKwh) + tui.ChartDaily(r.DailyValues, chartWidth, chartHeight), nil
				},
			)
		},
	}
}

func newYearMonthsCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:     "year-months YYYY",
		Aliases: []string{"pym"},
		Short:   "Monthly totals of one year",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, o,
				func(e *engine.Engine) (core.YearMonthsResult, error) {
					return e.YearMonths(o.category, args[0], o.yearlySum)
				},
				tui.WriteYearMonths,
				func(_ *engine.Engine, r core.YearMonthsResult) (string, error) {
					return chartTitle(r.CategoryName, fmt.Sprint(r.Year), r.TotalKwh) + tui.ChartYearMonths(r, chartWidth, chartHeight), nil
				},
			)
		},
	}
}

func newYearDaysCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:     "year-days YYYY",
		Aliases: []string{"pyd"},
		Short:   "Daily values of one year",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, o,
				func(e *engine.Engine) (core.YearDaysResult, error) {
					return e.YearDays(o.category, args[0], o.yearlySum)
				},
				tui.WriteYearDays,
				func(_ *engine.Engine, r core.YearDaysResult) (string, error) {
					return chartTitle(r.CategoryName, fmt.Sprint(r.Year), r.TotalKwh) + tui.ChartYearDays(r, chartWidth, chartHeight), nil
				},
			)
		},
	}
}

func newCategoriesCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:     "categories",
		Aliases: []string{"cat"},
		Short:   "List the categories of the loaded profile",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runQuery(cmd, o,
				func(e *engine.Engine) ([]core.CategoryInfo, error) {
					return e.Categories(), nil
				},
				tui.WriteCategories,
				nil,
			)
		},
	}
}

func chartTitle(name, period string, total float64) string {
	return fmt.Sprintf("%s · %s · %.2f kWh\n\n", name, period, total)
}
