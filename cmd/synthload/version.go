package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/janekbaraniewski/synthload/internal/tui"
	"github.com/janekbaraniewski/synthload/internal/version"
)

func newVersionCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if o.output == outputJSON {
				return tui.WriteJSON(cmd.OutOrStdout(), version.Current())
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "synthload "+version.String())
			return err
		},
	}
}
