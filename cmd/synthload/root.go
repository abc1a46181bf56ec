package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/cobra"

	"github.com/janekbaraniewski/synthload/internal/config"
	"github.com/janekbaraniewski/synthload/internal/engine"
	"github.com/janekbaraniewski/synthload/internal/ingest"
)

const (
	outputText  = "text"
	outputJSON  = "json"
	outputChart = "chart"
)

// options holds the flags shared by every command, seeded from the config
// file so flags only override what was saved.
type options struct {
	cfg        config.Config
	configPath string

	dataFile    string
	catalogFile string
	category    string
	yearlySum   float64
	output      string
}

func newRootCommand(cfg config.Config) *cobra.Command {
	opts := &options{cfg: cfg, configPath: config.ConfigPath()}

	root := &cobra.Command{
		Use:   "synthload",
		Short: "synthload scales standard load profiles to an annual consumption and aggregates them.",
		Long: `synthload reads a normalized quarter-hour standard load profile (1000 kWh per year
and category) and reports the energy a consumer with a given annual consumption uses
per day, month and year.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return opts.validate()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.dataFile, "data", cfg.DataFile, "profile file (.xlsx, .csv or .db)")
	flags.StringVar(&opts.catalogFile, "catalog", cfg.CatalogFile, "separate category catalog (.csv)")
	flags.StringVarP(&opts.category, "category", "k", cfg.DefaultCategory, "load profile category code")
	flags.Float64VarP(&opts.yearlySum, "yearly-sum", "y", cfg.DefaultYearlySum, "annual consumption in kWh")
	flags.StringVarP(&opts.output, "output", "o", outputText, "output format: text, json or chart")

	root.AddCommand(
		newEnergyCommand(opts),
		newDayCommand(opts),
		newMonthCommand(opts),
		newYearMonthsCommand(opts),
		newYearDaysCommand(opts),
		newCategoriesCommand(opts),
		newServeCommand(opts),
		newBrowseCommand(opts),
		newFetchCommand(opts),
		newImportCommand(opts),
		newVersionCommand(opts),
	)
	return root
}

func (o *options) validate() error {
	switch o.output {
	case outputText, outputJSON, outputChart:
	default:
		return fmt.Errorf("unknown output format %q (want text, json or chart)", o.output)
	}
	o.category = strings.TrimSpace(o.category)
	return nil
}

func (o *options) source() ingest.Source {
	return ingest.Source{
		Path:        strings.TrimSpace(o.dataFile),
		CatalogPath: strings.TrimSpace(o.catalogFile),
	}
}

// loadEngine reads the configured profile. Failing to load it is the only
// error that aborts a query before it runs.
func (o *options) loadEngine(ctx context.Context) (*engine.Engine, error) {
	store, err := ingest.Load(ctx, o.source())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w\nrun `synthload fetch` to download the profile or pass --data", err)
		}
		return nil, err
	}
	return engine.New(store), nil
}
