package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/janekbaraniewski/synthload/internal/config"
	"github.com/janekbaraniewski/synthload/internal/ingest"
	"github.com/janekbaraniewski/synthload/internal/profiledb"
	"github.com/janekbaraniewski/synthload/internal/version"
)

func newFetchCommand(o *options) *cobra.Command {
	var (
		url    string
		dir    string
		noSave bool
	)
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download and extract the published profile workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := ingest.Fetch(cmd.Context(), ingest.FetchOptions{
				URL:       url,
				DataDir:   dir,
				UserAgent: version.UserAgent(),
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "downloaded %s (%d bytes)\n", res.Archive, res.Downloaded)
			var workbook string
			for _, f := range res.Files {
				fmt.Fprintf(out, "  %s\n", f)
				if workbook == "" && strings.EqualFold(filepath.Ext(f), ".xlsx") {
					workbook = f
				}
			}
			if noSave || workbook == "" {
				return nil
			}
			if err := config.SaveDataFileTo(o.configPath, workbook); err != nil {
				return fmt.Errorf("saving data file to config: %w", err)
			}
			fmt.Fprintf(out, "data file set to %s\n", workbook)
			return nil
		},
	}
	cmd.Flags().StringVar(&url, "url", o.cfg.DownloadURL, "archive URL")
	cmd.Flags().StringVar(&dir, "dir", o.cfg.DataDir, "directory to extract into")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not point the config at the extracted workbook")
	return cmd
}

func newImportCommand(o *options) *cobra.Command {
	var (
		dbPath string
		use    bool
	)
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Store the profile in a sqlite database for fast loading",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			src := o.source()
			if dbPath == "" {
				p, err := profiledb.DefaultPath()
				if err != nil {
					return err
				}
				dbPath = p
			}
			if filepath.Clean(dbPath) == filepath.Clean(src.Path) {
				return fmt.Errorf("import: source and target are the same database %s", dbPath)
			}

			table, catalog, err := ingest.LoadTable(ctx, src)
			if err != nil {
				return err
			}
			db, err := profiledb.Open(dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			res, err := db.Save(ctx, table, catalog, src.Path)
			if err != nil {
				return err
			}
			stats, err := db.Stats(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "imported %d rows, %d categories, %d catalog entries into %s\n",
				res.Rows, res.Categories, stats.CatalogEntries, dbPath)
			fmt.Fprintf(out, "profile year %d from %s\n", stats.Year, stats.Source)

			if !use {
				return nil
			}
			if err := config.SaveDataFileTo(o.configPath, dbPath); err != nil {
				return fmt.Errorf("saving data file to config: %w", err)
			}
			fmt.Fprintf(out, "data file set to %s\n", dbPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "target database (default $XDG_STATE_HOME/synthload/profile.db)")
	cmd.Flags().BoolVar(&use, "use", false, "point the config at the database afterwards")
	return cmd
}
