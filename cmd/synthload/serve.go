package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/janekbaraniewski/synthload/internal/api"
)

func newServeCommand(o *options) *cobra.Command {
	var (
		addr    string
		watch   bool
		verbose bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the aggregations over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, err := o.loadEngine(cmd.Context())
			if err != nil {
				return err
			}
			return api.RunServer(api.Config{
				Addr:             addr,
				Source:           o.source(),
				DefaultCategory:  o.category,
				DefaultYearlySum: o.yearlySum,
				Watch:            watch,
				ReadTimeout:      time.Duration(o.cfg.Server.ReadTimeoutSeconds) * time.Second,
				WriteTimeout:     time.Duration(o.cfg.Server.WriteTimeoutSeconds) * time.Second,
				Verbose:          verbose,
				AccessLog:        os.Stderr,
			}, eng)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", o.cfg.Server.Addr, "listen address")
	cmd.Flags().BoolVar(&watch, "watch", o.cfg.Server.Watch, "reload the profile when the data file changes")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", os.Getenv("SYNTHLOAD_DEBUG") != "", "log requests and lifecycle events")
	return cmd
}
