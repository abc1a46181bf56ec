// Package ingest reads load profiles and category catalogs from the formats
// they are distributed in, and downloads the published APCS archive.
package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/janekbaraniewski/synthload/internal/core"
	"github.com/janekbaraniewski/synthload/internal/profile"
	"github.com/janekbaraniewski/synthload/internal/profiledb"
)

type Format string

const (
	FormatXLSX   Format = "xlsx"
	FormatCSV    Format = "csv"
	FormatSQLite Format = "sqlite"
)

// Source names the profile file and an optional separate catalog file. A
// catalog file, when set, replaces any catalog embedded in the profile file.
type Source struct {
	Path        string
	CatalogPath string
}

func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite, nil
	default:
		return "", fmt.Errorf("ingest: unsupported file type %q", filepath.Ext(path))
	}
}

// LoadTable reads the profile table and any catalog stored alongside it.
func LoadTable(ctx context.Context, src Source) (profile.Table, []core.CategoryInfo, error) {
	path := strings.TrimSpace(src.Path)
	if path == "" {
		return profile.Table{}, nil, fmt.Errorf("ingest: no data file configured")
	}
	format, err := DetectFormat(path)
	if err != nil {
		return profile.Table{}, nil, err
	}

	var (
		table   profile.Table
		catalog []core.CategoryInfo
	)
	switch format {
	case FormatXLSX:
		table, catalog, err = ReadWorkbook(ctx, path)
	case FormatCSV:
		table, err = readTableFile(ctx, path)
	case FormatSQLite:
		table, catalog, err = readDatabase(ctx, path)
	}
	if err != nil {
		return profile.Table{}, nil, err
	}

	if p := strings.TrimSpace(src.CatalogPath); p != "" {
		catalog, err = readCatalogFile(p)
		if err != nil {
			return profile.Table{}, nil, err
		}
	}
	return table, catalog, nil
}

// Load reads src and builds a validated, immutable profile store.
func Load(ctx context.Context, src Source) (*profile.Store, error) {
	table, catalog, err := LoadTable(ctx, src)
	if err != nil {
		return nil, err
	}
	store, err := profile.New(table, catalog)
	if err != nil {
		return nil, fmt.Errorf("ingest: %s: %w", src.Path, err)
	}
	return store, nil
}

func readTableFile(ctx context.Context, path string) (profile.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return profile.Table{}, fmt.Errorf("ingest: open profile: %w", err)
	}
	defer f.Close()
	return ReadTable(ctx, f)
}

func readCatalogFile(path string) ([]core.CategoryInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ingest: open catalog: %w", err)
	}
	defer f.Close()
	return ReadCatalog(f)
}

func readDatabase(ctx context.Context, path string) (profile.Table, []core.CategoryInfo, error) {
	if _, err := os.Stat(path); err != nil {
		return profile.Table{}, nil, fmt.Errorf("ingest: open database: %w", err)
	}
	db, err := profiledb.Open(path)
	if err != nil {
		return profile.Table{}, nil, err
	}
	defer db.Close()
	return db.Load(ctx)
}
