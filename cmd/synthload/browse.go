package main

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/janekbaraniewski/synthload/internal/config"
	"github.com/janekbaraniewski/synthload/internal/core"
	"github.com/janekbaraniewski/synthload/internal/tui"
)

func newBrowseCommand(o *options) *cobra.Command {
	var (
		date string
		view string
	)
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the profile interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var start time.Time
			if strings.TrimSpace(date) != "" {
				d, err := core.ParseDate(date)
				if err != nil {
					return err
				}
				start = d
			}
			eng, err := o.loadEngine(cmd.Context())
			if err != nil {
				return err
			}
			return tui.Run(tui.Options{
				Engine:      eng,
				Category:    o.category,
				YearlySum:   o.yearlySum,
				Date:        start,
				Granularity: core.ParseGranularity(view),
				PersistTheme: func(name string) error {
					return config.SaveThemeTo(o.configPath, name)
				},
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&view, "view", string(core.GranularityDay), "start view: day, month, year-months or year-days")
	return cmd
}
